package models

import "time"

type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	IsActive     bool      `json:"isActive"`
	Profile      Profile   `json:"profile"`
}

type Profile struct {
	Avatar      string            `json:"avatar"`
	Bio         string            `json:"bio"`
	Website     string            `json:"website"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"`
}

const (
	RoleOrganizer = "organizer"
	RoleAttendee  = "attendee"
	RoleAdmin     = "admin"
)

// Sanitized returns a copy safe to hand to callers: the credential hash
// never leaves the persistence layer.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

package models

import "time"

type Event struct {
	ID               string        `json:"id"`
	OrganizerID      string        `json:"organizerId"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Date             time.Time     `json:"date"`
	StartTime        string        `json:"startTime"`
	EndTime          string        `json:"endTime"`
	Location         string        `json:"location"`
	Venue            string        `json:"venue"`
	Category         string        `json:"category"`
	Status           string        `json:"status"`
	Capacity         int           `json:"capacity"`
	IsPublic         bool          `json:"isPublic"`
	RequiresApproval bool          `json:"requiresApproval"`
	Tags             []string      `json:"tags"`
	Images           []string      `json:"images"`
	Tickets          []Ticket      `json:"tickets"`
	Settings         EventSettings `json:"settings"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

type EventSettings struct {
	AllowWaitlist       bool `json:"allowWaitlist"`
	ShowAttendeesCount  bool `json:"showAttendeesCount"`
	CollectAttendeeInfo bool `json:"collectAttendeeInfo"`
}

// Event status values. The field is an open string enum; these are the
// ones the catalog and analytics care about.
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
)

// Ticket has no independent existence: it is owned by and nested inside
// its Event, and every ticket mutation is an Event update.
type Ticket struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Quantity    int            `json:"quantity"`
	Sold        int            `json:"sold"`
	Type        string         `json:"type"`
	SalesStart  time.Time      `json:"salesStart"`
	SalesEnd    time.Time      `json:"salesEnd"`
	IsActive    bool           `json:"isActive"`
	Settings    TicketSettings `json:"settings"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type TicketSettings struct {
	MinQuantity      int  `json:"minQuantity"`
	MaxQuantity      int  `json:"maxQuantity"`
	RequiresApproval bool `json:"requiresApproval"`
}

const (
	TicketTypePaid     = "paid"
	TicketTypeFree     = "free"
	TicketTypeDonation = "donation"
)

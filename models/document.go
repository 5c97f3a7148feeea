package models

import "time"

// Document is the root aggregate and the sole unit of persistence: the
// whole application state serializes to one JSON blob in the document slot.
type Document struct {
	Users    []User   `json:"users"`
	Events   []Event  `json:"events"`
	Orders   []Order  `json:"orders"`
	Settings Settings `json:"settings"`
}

type Settings struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"lastUpdated"`
	// Revision is a monotonic counter used as a compare-and-swap guard:
	// a save whose loaded revision no longer matches the stored one fails
	// with a conflict instead of silently dropping concurrent edits.
	Revision int64 `json:"revision"`
}

const DocumentVersion = "1.0.0"

// NewDocument returns an empty but structurally valid document. All three
// collections are non-nil so the serialized form always carries them.
func NewDocument() Document {
	return Document{
		Users:    []User{},
		Events:   []Event{},
		Orders:   []Order{},
		Settings: Settings{Version: DocumentVersion},
	}
}

// Session is ephemeral proof of authentication. It lives in the session
// slot, never inside the Document.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	LoginTime time.Time `json:"loginTime"`
	ExpiresAt time.Time `json:"expiresAt"`
}

package model

import "time"

// Notification is a persisted per-user inbox entry derived from a change.
// Read flips false -> true via explicit user action; rows are removed
// individually by ID or in bulk once read.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

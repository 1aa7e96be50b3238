package model

import (
	"encoding/json"
	"time"
)

// ActivityEntry is an append-only audit record of one mutation. Entries are
// never updated or deleted; queries return them newest-first.
type ActivityEntry struct {
	ID         int64           `json:"id"`
	ProjectID  string          `json:"project_id"`
	Actor      string          `json:"actor,omitempty"`
	Action     string          `json:"action"`
	TargetType string          `json:"target_type,omitempty"`
	TargetID   string          `json:"target_id,omitempty"`
	TargetName string          `json:"target_name,omitempty"`
	Details    string          `json:"details,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

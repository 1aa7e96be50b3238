package model

import (
	"encoding/json"
	"time"
)

// EventType is the closed set of change kinds carried on the event stream.
type EventType string

const (
	EventTaskUpdated    EventType = "task_updated"
	EventProjectUpdated EventType = "project_updated"
	EventCommentAdded   EventType = "comment_added"
	EventBlockerChanged EventType = "blocker_changed"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// IsValid checks whether the event type is a known value.
func (t EventType) IsValid() bool {
	switch t {
	case EventTaskUpdated, EventProjectUpdated, EventCommentAdded, EventBlockerChanged:
		return true
	}
	return false
}

// EventPayload carries the change-specific fields of an event. The bus treats
// it as opaque except for ProjectID and ProjectSlug, which drive replay
// filtering.
type EventPayload struct {
	ProjectID   string          `json:"projectId"`
	ProjectSlug string          `json:"projectSlug,omitempty"`
	TaskID      string          `json:"taskId,omitempty"`
	CommentID   string          `json:"commentId,omitempty"`
	BlockerID   string          `json:"blockerId,omitempty"`
	Action      string          `json:"action"`
	Assignee    string          `json:"assignee,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
}

// Event is one immutable domain change record. Once published it is never
// mutated; the bus keeps its own copy in the replay buffer and every
// subscriber receives it by value.
type Event struct {
	Type      EventType    `json:"type"`
	Payload   EventPayload `json:"payload"`
	Timestamp int64        `json:"timestamp"` // unix milliseconds; non-decreasing across publishes
	Actor     string       `json:"actor,omitempty"`
}

// MatchesProject reports whether the event belongs to the given project,
// matching either the project ID or its slug. An empty filter matches all.
func (e Event) MatchesProject(project string) bool {
	if project == "" {
		return true
	}
	return e.Payload.ProjectID == project || e.Payload.ProjectSlug == project
}

// Time returns the event timestamp as a time.Time.
func (e Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Change is the announce payload sent by mutation handlers after a domain
// write commits. It carries everything the realtime layer needs: the event
// for the stream, plus optional notification framing for the inbox fan-out.
type Change struct {
	Type    EventType    `json:"type"`
	Payload EventPayload `json:"payload"`
	Actor   string       `json:"actor,omitempty"`

	// Optional notification framing. When empty the fan-out derives a
	// title from the event type and action.
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Link    string `json:"link,omitempty"`
}

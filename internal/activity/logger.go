// Package activity records the append-only audit trail of mutations.
package activity

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/pulse/internal/model"
	"github.com/alfredjeanlab/pulse/internal/store"
)

// DefaultQueryLimit is applied when the caller supplies no limit.
const DefaultQueryLimit = 50

// Logger appends and queries immutable activity entries. There is no update
// or delete path: entries written here stay as written.
type Logger struct {
	store store.Store
}

// New returns a Logger backed by the given store.
func New(s store.Store) *Logger {
	return &Logger{store: s}
}

// Record persists one entry. Unlike the notification fan-out, a failed
// append surfaces to the caller — the audit write is the entire purpose of
// the call.
func (l *Logger) Record(ctx context.Context, entry *model.ActivityEntry) error {
	if entry.ProjectID == "" {
		return fmt.Errorf("activity: project_id is required")
	}
	if entry.Action == "" {
		return fmt.Errorf("activity: action is required")
	}
	return l.store.RecordActivity(ctx, entry)
}

// Query returns entries newest-first, optionally filtered by project and
// truncated to limit (default 50).
func (l *Logger) Query(ctx context.Context, projectID string, limit int) ([]*model.ActivityEntry, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	return l.store.ListActivity(ctx, projectID, limit)
}

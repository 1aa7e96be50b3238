// Package notify derives per-user inbox notifications from committed
// changes. Fan-out is best-effort by contract: it runs alongside the event
// publish at each mutation site and must never fail or delay the mutation's
// response, so persistence errors are logged and swallowed. The inbox
// read-state operations, by contrast, exist only to hit the store, and their
// errors surface to the caller.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/pulse/internal/idgen"
	"github.com/alfredjeanlab/pulse/internal/model"
	"github.com/alfredjeanlab/pulse/internal/store"
)

// RecipientSource resolves the set of currently-active users.
type RecipientSource interface {
	Active(window time.Duration) []string
}

// Fanout creates and manages per-user notifications.
type Fanout struct {
	store  store.Store
	active RecipientSource
	logger *slog.Logger
}

// New returns a Fanout backed by the given store and recipient source.
func New(s store.Store, active RecipientSource, logger *slog.Logger) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fanout{store: s, active: active, logger: logger}
}

// FanOut creates one notification per resolved recipient for the change.
// It never returns an error: each failed create is logged and skipped, and
// republishing the same logical change intentionally produces a second
// notification per recipient (no deduplication).
func (f *Fanout) FanOut(ctx context.Context, change model.Change) {
	for _, userID := range f.recipients(change) {
		id, err := idgen.Notification()
		if err != nil {
			f.logger.Warn("notification id generation failed", "user", userID, "error", err)
			continue
		}
		n := &model.Notification{
			ID:      id,
			UserID:  userID,
			Type:    string(change.Type),
			Title:   titleFor(change),
			Message: change.Message,
			Link:    linkFor(change),
		}
		if err := f.store.CreateNotification(ctx, n); err != nil {
			f.logger.Warn("notification fan-out failed",
				"user", userID, "type", change.Type, "error", err)
		}
	}
}

// recipients resolves who should be notified. Comment, blocker, and project
// changes go to every currently-active user except the actor; task changes
// go to the task's assignee when one is named and it isn't the actor.
func (f *Fanout) recipients(change model.Change) []string {
	switch change.Type {
	case model.EventTaskUpdated:
		assignee := change.Payload.Assignee
		if assignee != "" && assignee != change.Actor {
			return []string{assignee}
		}
		return nil
	case model.EventCommentAdded, model.EventBlockerChanged, model.EventProjectUpdated:
		var recipients []string
		for _, userID := range f.active.Active(0) {
			if userID != change.Actor {
				recipients = append(recipients, userID)
			}
		}
		return recipients
	}
	return nil
}

// titleFor returns the change's notification title, deriving one from the
// event type when the producer supplied none.
func titleFor(change model.Change) string {
	if change.Title != "" {
		return change.Title
	}
	switch change.Type {
	case model.EventTaskUpdated:
		return "Task updated"
	case model.EventProjectUpdated:
		return "Project updated"
	case model.EventCommentAdded:
		return "New comment"
	case model.EventBlockerChanged:
		return "Blocker changed"
	}
	return string(change.Type)
}

// linkFor returns the change's notification link, deriving a project link
// when the producer supplied none.
func linkFor(change model.Change) string {
	if change.Link != "" {
		return change.Link
	}
	ref := change.Payload.ProjectSlug
	if ref == "" {
		ref = change.Payload.ProjectID
	}
	if ref == "" {
		return ""
	}
	link := "/projects/" + ref
	if change.Payload.TaskID != "" {
		link += "/tasks/" + change.Payload.TaskID
	}
	return link
}

// List returns the user's notifications, newest first.
func (f *Fanout) List(ctx context.Context, userID string, unreadOnly bool) ([]*model.Notification, error) {
	return f.store.ListNotifications(ctx, userID, unreadOnly)
}

// UnreadCount returns how many unread notifications the user has.
func (f *Fanout) UnreadCount(ctx context.Context, userID string) (int, error) {
	return f.store.CountUnreadNotifications(ctx, userID)
}

// MarkRead marks one notification read by ID.
func (f *Fanout) MarkRead(ctx context.Context, id string) error {
	return f.store.MarkNotificationRead(ctx, id)
}

// MarkAllRead marks every unread notification for the user read. Repeated
// calls are no-ops once all are read.
func (f *Fanout) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return f.store.MarkAllNotificationsRead(ctx, userID)
}

// Delete removes one notification by ID regardless of read state.
func (f *Fanout) Delete(ctx context.Context, id string) error {
	return f.store.DeleteNotification(ctx, id)
}

// DeleteRead removes every read notification for the user.
func (f *Fanout) DeleteRead(ctx context.Context, userID string) (int64, error) {
	return f.store.DeleteReadNotifications(ctx, userID)
}

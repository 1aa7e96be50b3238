package store

import (
	"context"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// Store defines the persistence interface for the realtime layer: per-user
// notification inboxes and the append-only activity trail. Domain records
// (projects, tasks, comments) live in the tracker's own store and are not
// managed here.
type Store interface {
	// Notifications
	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*model.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) // returns rows updated
	DeleteNotification(ctx context.Context, id string) error
	DeleteReadNotifications(ctx context.Context, userID string) (int64, error) // returns rows deleted

	// Activity trail (append-only; no update or delete path)
	RecordActivity(ctx context.Context, entry *model.ActivityEntry) error
	ListActivity(ctx context.Context, projectID string, limit int) ([]*model.ActivityEntry, error)

	// Lifecycle
	Close() error
}

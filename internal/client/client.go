// Package client provides a transport-agnostic interface for the pulse
// service and an HTTP/JSON implementation that talks to the pulse REST API.
package client

import (
	"context"

	"github.com/alfredjeanlab/pulse/internal/model"
	"github.com/alfredjeanlab/pulse/internal/presence"
)

// PulseClient is the interface that all pulse CLI commands use to communicate
// with the server. It is implemented by HTTPClient (default) and can be
// backed by any transport.
type PulseClient interface {
	// Changes and events
	Announce(ctx context.Context, change *model.Change) error
	RecentEvents(ctx context.Context, sinceMillis int64, project string) ([]model.Event, error)
	StreamEvents(ctx context.Context, project string, handler func(model.Event)) error

	// Notifications
	ListNotifications(ctx context.Context, unreadOnly bool) ([]*model.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
	DeleteNotification(ctx context.Context, id string) error
	DeleteRead(ctx context.Context) (int64, error)

	// Activity trail
	Activity(ctx context.Context, project string, limit int) ([]*model.ActivityEntry, error)

	// Presence
	Presence(ctx context.Context) (*PresenceResponse, error)
	Heartbeat(ctx context.Context) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// PresenceResponse is the response from Presence.
type PresenceResponse struct {
	Active []string         `json:"active"`
	Roster []presence.Entry `json:"roster"`
}

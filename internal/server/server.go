package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/pulse/internal/activity"
	"github.com/alfredjeanlab/pulse/internal/bus"
	"github.com/alfredjeanlab/pulse/internal/events"
	"github.com/alfredjeanlab/pulse/internal/model"
	"github.com/alfredjeanlab/pulse/internal/notify"
	"github.com/alfredjeanlab/pulse/internal/presence"
	"github.com/alfredjeanlab/pulse/internal/store"
)

// Server is the realtime layer: it accepts change announcements from the
// tracker's mutation handlers and fans them out three independent ways —
// the in-process event bus (live streams + replay), the per-user
// notification inboxes, and the activity audit trail.
type Server struct {
	store    store.Store
	bus      *bus.Bus
	fanout   *notify.Fanout
	activity *activity.Logger
	presence *presence.Tracker
	logger   *slog.Logger

	// mirrorSub forwards every published event to the external broker;
	// released by Close.
	mirrorSub *bus.Subscription

	// heartbeatInterval is how often stream sessions emit keep-alive
	// frames. Fixed at 30s in production; tests shorten it.
	heartbeatInterval time.Duration
}

// New returns a Server wired to the given store, bus and mirror publisher.
// The bus instance is owned by the process entry point and shared with any
// other producers; the Server adds its own subscriptions only.
func New(s store.Store, b *bus.Bus, mirror events.Publisher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	tracker := presence.New()

	srv := &Server{
		store:             s,
		bus:               b,
		fanout:            notify.New(s, tracker, logger),
		activity:          activity.New(s),
		presence:          tracker,
		logger:            logger,
		heartbeatInterval: heartbeatInterval,
	}

	// Mirror every published event to the broker. The subscription runs
	// inside the bus's isolation boundary, so a broker outage can never
	// reach a publisher or another subscriber.
	srv.mirrorSub = b.Subscribe(func(evt model.Event) {
		if err := mirror.Publish(context.Background(), evt); err != nil {
			logger.Warn("event mirror publish failed", "type", evt.Type, "error", err)
		}
	})

	return srv
}

// Presence exposes the tracker for the serve command's reaper wiring.
func (s *Server) Presence() *presence.Tracker {
	return s.presence
}

// Close releases the server's bus subscription. Open stream sessions clean
// up for themselves when their connections end.
func (s *Server) Close() {
	s.bus.Unsubscribe(s.mirrorSub)
}

// ErrInvalidChange marks announcements rejected before any write happens.
// Errors not wrapping it are persistence failures from the audit append.
var ErrInvalidChange = errors.New("invalid change")

// Announce processes one committed mutation: it appends an activity entry,
// fans out notifications, and publishes the event to the bus. The three
// paths are mutually independent — each runs regardless of the others'
// outcome — and only the audit append's error is surfaced, since that is
// the one write the caller cannot afford to lose silently.
func (s *Server) Announce(ctx context.Context, change model.Change) error {
	if !change.Type.IsValid() {
		return fmt.Errorf("%w: unknown change type %q", ErrInvalidChange, change.Type)
	}
	if change.Payload.ProjectID == "" {
		return fmt.Errorf("%w: projectId is required", ErrInvalidChange)
	}
	if change.Payload.Action == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidChange)
	}

	s.presence.Touch(change.Actor, "request")

	auditErr := s.activity.Record(ctx, activityEntryFor(change))
	if auditErr != nil {
		s.logger.Error("activity record failed",
			"type", change.Type, "project", change.Payload.ProjectID, "error", auditErr)
	}

	s.fanout.FanOut(ctx, change)

	s.bus.Publish(model.Event{
		Type:    change.Type,
		Payload: change.Payload,
		Actor:   change.Actor,
	})

	return auditErr
}

// activityEntryFor maps a change onto its audit record.
func activityEntryFor(change model.Change) *model.ActivityEntry {
	entry := &model.ActivityEntry{
		ProjectID: change.Payload.ProjectID,
		Actor:     change.Actor,
		Action:    change.Payload.Action,
		Details:   change.Message,
		Metadata:  change.Payload.Details,
	}

	switch change.Type {
	case model.EventTaskUpdated:
		entry.TargetType = "task"
		entry.TargetID = change.Payload.TaskID
	case model.EventCommentAdded:
		entry.TargetType = "comment"
		entry.TargetID = change.Payload.CommentID
	case model.EventBlockerChanged:
		entry.TargetType = "blocker"
		entry.TargetID = change.Payload.BlockerID
	case model.EventProjectUpdated:
		entry.TargetType = "project"
		entry.TargetID = change.Payload.ProjectID
		entry.TargetName = change.Payload.ProjectSlug
	}

	return entry
}

// Package events mirrors published change events onto NATS subjects so that
// processes other than the serving one (dashboards, the watch CLI, batch
// consumers) can observe the stream. The mirror is best-effort: the
// in-process bus is the source of truth and nothing here affects delivery to
// connected stream sessions.
package events

import (
	"context"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// SubjectPrefix is the NATS subject prefix for all mirrored events.
// Full subjects are SubjectPrefix + "." + event type, e.g.
// "pulse.events.task_updated".
const SubjectPrefix = "pulse.events"

// SubjectAll is the wildcard subject matching every mirrored event.
const SubjectAll = SubjectPrefix + ".>"

// SubjectFor returns the NATS subject for the given event type.
func SubjectFor(t model.EventType) string {
	return SubjectPrefix + "." + string(t)
}

// Publisher is the interface for mirroring events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, event model.Event) error
	Close() error
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/alfredjeanlab/pulse/internal/bus"
	"github.com/alfredjeanlab/pulse/internal/model"
)

const (
	// heartbeatInterval is how often an idle stream emits a comment frame
	// so intermediaries do not reap the connection.
	heartbeatInterval = 30 * time.Second

	// sessionBuffer is the per-session event queue depth. A session that
	// falls this far behind starts losing events rather than stalling the
	// publisher; the client recovers the gap through the replay endpoint.
	sessionBuffer = 64
)

// streamSession is one live SSE connection. Events arrive from the bus on
// the session's own goroutine-free callback, queue in ch, and drain in the
// handler's write loop.
type streamSession struct {
	ch      chan model.Event
	sub     *bus.Subscription
	bus     *bus.Bus
	project string

	closeOnce sync.Once
}

func (s *Server) newStreamSession(project string) *streamSession {
	sess := &streamSession{
		ch:      make(chan model.Event, sessionBuffer),
		bus:     s.bus,
		project: project,
	}
	sess.sub = s.bus.Subscribe(func(evt model.Event) {
		if !evt.MatchesProject(sess.project) {
			return
		}
		select {
		case sess.ch <- evt:
		default:
			// Slow consumer. Dropping here keeps Publish non-blocking.
		}
	})
	return sess
}

// close detaches the session from the bus. Safe to call more than once;
// every exit path of the stream handler runs through it.
func (sess *streamSession) close() {
	sess.closeOnce.Do(func() {
		sess.bus.Unsubscribe(sess.sub)
	})
}

// handleStream serves GET /v1/events/stream. It holds the connection open,
// forwarding matching events as SSE frames until the client disconnects or
// a write fails.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	project := r.URL.Query().Get("project")
	s.presence.Touch(requestUser(r), "stream")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sess := s.newStreamSession(project)
	defer sess.close()

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(s.heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sess.ch:
			if err := writeEventFrame(w, evt); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeEventFrame emits one SSE frame: the event type line, the JSON data
// line, and the blank-line terminator.
func writeEventFrame(w http.ResponseWriter, evt model.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, data)
	return err
}

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestSubjectFor(t *testing.T) {
	if got := SubjectFor(model.EventTaskUpdated); got != "pulse.events.task_updated" {
		t.Errorf("SubjectFor(task_updated) = %q", got)
	}
	if got := SubjectFor(model.EventCommentAdded); got != "pulse.events.comment_added" {
		t.Errorf("SubjectFor(comment_added) = %q", got)
	}
}

func TestNoopPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)

	pub := &NoopPublisher{}
	if err := pub.Publish(context.Background(), model.Event{Type: model.EventTaskUpdated}); err != nil {
		t.Fatalf("NoopPublisher.Publish returned unexpected error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("NoopPublisher.Close returned unexpected error: %v", err)
	}
}

func TestNATSPublisher_Publish(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)

	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	// Subscribe to capture published messages.
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(SubjectFor(model.EventCommentAdded), ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	evt := model.Event{
		Type:      model.EventCommentAdded,
		Payload:   model.EventPayload{ProjectID: "p1", CommentID: "c1", Action: "commented"},
		Timestamp: 1234,
		Actor:     "alice",
	}
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	select {
	case msg := <-ch:
		var got model.Event
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshaling: %v", err)
		}
		if got.Payload.CommentID != "c1" || got.Actor != "alice" || got.Timestamp != 1234 {
			t.Errorf("round-tripped event = %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNATSSubscriber_ReceivesMessages(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(SubjectAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	evt := model.Event{Type: model.EventTaskUpdated, Payload: model.EventPayload{ProjectID: "p1", Action: "x"}}
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		var got model.Event
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("unmarshaling: %v", err)
		}
		if got.Type != model.EventTaskUpdated {
			t.Errorf("type = %q, want task_updated", got.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNATSSubscriber_Cancel(t *testing.T) {
	url := startTestNATS(t)

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(SubjectAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	cancel()
	cancel() // second cancel is a no-op

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after cancel")
	}
}

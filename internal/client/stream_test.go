package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alfredjeanlab/pulse/internal/model"
)

func TestStreamEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/events/stream" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("project"); got != "pr-1" {
			t.Errorf("expected project=pr-1, got %q", got)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()
		fmt.Fprint(w, "event: task_updated\ndata: {\"type\":\"task_updated\",\"payload\":{\"projectId\":\"pr-1\",\"taskId\":\"t-1\",\"action\":\"status_changed\"},\"timestamp\":1700000000001}\n\n")
		flusher.Flush()
		fmt.Fprint(w, ": heartbeat\n\n")
		flusher.Flush()
		fmt.Fprint(w, "event: comment_added\ndata: {\"type\":\"comment_added\",\"payload\":{\"projectId\":\"pr-1\",\"commentId\":\"c-2\",\"action\":\"created\"},\"timestamp\":1700000000002}\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", "alice")

	var got []model.Event
	err := c.StreamEvents(context.Background(), "pr-1", func(evt model.Event) {
		got = append(got, evt)
	})
	// The handler returns after writing, so the client sees a server close.
	if err == nil {
		t.Fatal("expected stream-closed error")
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != model.EventTaskUpdated || got[0].Payload.TaskID != "t-1" {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	if got[1].Type != model.EventCommentAdded || got[1].Payload.CommentID != "c-2" {
		t.Fatalf("unexpected second event: %+v", got[1])
	}
}

func TestStreamEvents_ContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := NewHTTPClient(srv.URL, "", "alice")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := c.StreamEvents(ctx, "", func(model.Event) {})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStreamEvents_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", "alice")
	err := c.StreamEvents(context.Background(), "", func(model.Event) {})
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", apiErr.StatusCode)
	}
}

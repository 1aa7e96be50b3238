package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alfredjeanlab/pulse/internal/model"
	"github.com/alfredjeanlab/pulse/internal/store"
)

// mockStore is a minimal in-memory store for archive tests. Only the
// activity methods matter here.
type mockStore struct {
	store.Store
	entries []*model.ActivityEntry
}

func (m *mockStore) ListActivity(_ context.Context, projectID string, limit int) ([]*model.ActivityEntry, error) {
	var out []*model.ActivityEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if projectID != "" && entry.ProjectID != projectID {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func testEntries(n int) []*model.ActivityEntry {
	now := time.Now().UTC()
	entries := make([]*model.ActivityEntry, 0, n)
	for i := range n {
		entries = append(entries, &model.ActivityEntry{
			ID:        int64(i + 1),
			ProjectID: "pr-1",
			Actor:     "alice",
			Action:    "status_changed",
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
	}
	return entries
}

func TestExportJSONL_Empty(t *testing.T) {
	ms := &mockStore{}
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.EntryCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_OldestFirst(t *testing.T) {
	ms := &mockStore{entries: testEntries(3)}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 3 entries.
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.EntryCount != 3 {
		t.Fatalf("expected entry_count=3, got %d", h.EntryCount)
	}

	// The store returns newest first; the file must read oldest first.
	var prev int64
	for i, line := range lines[1:] {
		var rec struct {
			Type string              `json:"type"`
			Data model.ActivityEntry `json:"data"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("unmarshal line %d: %v", i+1, err)
		}
		if rec.Type != "activity" {
			t.Fatalf("expected type=activity, got %q", rec.Type)
		}
		if rec.Data.ID <= prev {
			t.Fatalf("expected ascending IDs, got %d after %d", rec.Data.ID, prev)
		}
		prev = rec.Data.ID
	}
}

func TestSchedulerStartStop(t *testing.T) {
	ms := &mockStore{entries: testEntries(2)}
	dest := &mockDestination{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	sched := NewScheduler(ms, []Destination{dest}, 50*time.Millisecond, logger)
	sched.Start()

	// Wait for at least the initial export + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}

	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}
	lines := nonEmptyLines(string(data))
	// 1 header + 2 entries.
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	sched := NewScheduler(&mockStore{}, nil, time.Minute, logger)
	// Stop without Start should not panic.
	sched.Stop()
}

func TestSchedulerMultipleDestinations(t *testing.T) {
	ms := &mockStore{entries: testEntries(1)}
	dest1 := &mockDestination{}
	dest2 := &mockDestination{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	sched := NewScheduler(ms, []Destination{dest1, dest2}, time.Second, logger)
	sched.Start()

	// Wait for the initial export.
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	if dest1.writes.Load() < 1 {
		t.Fatal("dest1 expected at least 1 write")
	}
	if dest2.writes.Load() < 1 {
		t.Fatal("dest2 expected at least 1 write")
	}
}

package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alfredjeanlab/pulse/internal/model"
	"github.com/alfredjeanlab/pulse/internal/store"
)

// fakeStore captures activity calls for assertions.
type fakeStore struct {
	store.Store // panics on anything not overridden

	entries   []*model.ActivityEntry
	failWrite bool
	gotLimit  int
}

func (s *fakeStore) RecordActivity(_ context.Context, e *model.ActivityEntry) error {
	if s.failWrite {
		return errors.New("store unavailable")
	}
	e.ID = int64(len(s.entries) + 1)
	e.CreatedAt = time.Now()
	s.entries = append(s.entries, e)
	return nil
}

func (s *fakeStore) ListActivity(_ context.Context, projectID string, limit int) ([]*model.ActivityEntry, error) {
	s.gotLimit = limit
	var out []*model.ActivityEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if projectID != "" && s.entries[i].ProjectID != projectID {
			continue
		}
		out = append(out, s.entries[i])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestRecord(t *testing.T) {
	st := &fakeStore{}
	l := New(st)

	err := l.Record(context.Background(), &model.ActivityEntry{
		ProjectID: "p1",
		Actor:     "alice",
		Action:    "task_created",
		TargetID:  "T-1",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(st.entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(st.entries))
	}
}

func TestRecord_Validation(t *testing.T) {
	l := New(&fakeStore{})

	if err := l.Record(context.Background(), &model.ActivityEntry{Action: "x"}); err == nil {
		t.Error("expected error for missing project_id")
	}
	if err := l.Record(context.Background(), &model.ActivityEntry{ProjectID: "p1"}); err == nil {
		t.Error("expected error for missing action")
	}
}

func TestRecord_SurfacesStoreError(t *testing.T) {
	l := New(&fakeStore{failWrite: true})

	err := l.Record(context.Background(), &model.ActivityEntry{ProjectID: "p1", Action: "x"})
	if err == nil {
		t.Fatal("expected store error to surface")
	}
}

func TestQuery_NewestFirstAndFiltered(t *testing.T) {
	st := &fakeStore{}
	l := New(st)
	ctx := context.Background()

	for i, proj := range []string{"p1", "p2", "p1"} {
		if err := l.Record(ctx, &model.ActivityEntry{ProjectID: proj, Action: "a", TargetID: string(rune('A' + i))}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := l.Query(ctx, "p1", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].ID <= got[1].ID {
		t.Errorf("not newest-first: ids %d, %d", got[0].ID, got[1].ID)
	}
}

func TestQuery_DefaultLimit(t *testing.T) {
	st := &fakeStore{}
	l := New(st)

	if _, err := l.Query(context.Background(), "", 0); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if st.gotLimit != DefaultQueryLimit {
		t.Errorf("limit passed = %d, want %d", st.gotLimit, DefaultQueryLimit)
	}
}

package presence

import (
	"testing"
	"time"
)

func TestTracker_TouchAndActive(t *testing.T) {
	tr := New()

	tr.Touch("alice", "request")
	tr.Touch("bob", "stream")
	tr.Touch("", "request") // ignored

	active := tr.Active(0)
	if len(active) != 2 {
		t.Fatalf("active = %v, want 2 users", active)
	}
	// Sorted for deterministic fan-out order.
	if active[0] != "alice" || active[1] != "bob" {
		t.Errorf("active = %v, want [alice bob]", active)
	}
}

func TestTracker_ActiveWindowExcludesStale(t *testing.T) {
	tr := New()

	tr.Touch("alice", "request")
	tr.mu.Lock()
	tr.users["alice"].lastSeen = time.Now().Add(-10 * time.Minute)
	tr.mu.Unlock()
	tr.Touch("bob", "request")

	active := tr.Active(DefaultActiveWindow)
	if len(active) != 1 || active[0] != "bob" {
		t.Fatalf("active = %v, want [bob]", active)
	}
}

func TestTracker_Roster(t *testing.T) {
	tr := New()

	tr.Touch("alice", "request")
	tr.Touch("alice", "heartbeat")
	tr.Touch("bob", "stream")

	roster := tr.Roster()
	if len(roster) != 2 {
		t.Fatalf("roster has %d entries, want 2", len(roster))
	}
	for _, e := range roster {
		if e.UserID == "alice" {
			if e.TouchedN != 2 {
				t.Errorf("alice touch count = %d, want 2", e.TouchedN)
			}
			if e.Source != "heartbeat" {
				t.Errorf("alice source = %q, want heartbeat", e.Source)
			}
		}
	}
}

func TestTracker_Sweep(t *testing.T) {
	tr := New()

	tr.Touch("alice", "request")
	tr.Touch("bob", "request")
	tr.mu.Lock()
	tr.users["alice"].lastSeen = time.Now().Add(-time.Hour)
	tr.mu.Unlock()

	tr.sweep(30 * time.Minute)

	if got := tr.Roster(); len(got) != 1 || got[0].UserID != "bob" {
		t.Fatalf("after sweep roster = %+v, want only bob", got)
	}
}

func TestTracker_ReaperStartStop(t *testing.T) {
	tr := New()
	tr.StartReaper(&ReaperConfig{EvictAfter: time.Minute, SweepInterval: 10 * time.Millisecond})
	tr.Touch("alice", "request")
	time.Sleep(30 * time.Millisecond)
	tr.Stop()

	// Recently-touched user survives sweeping.
	if got := tr.Active(0); len(got) != 1 {
		t.Fatalf("active = %v, want [alice]", got)
	}
}

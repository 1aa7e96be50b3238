// Package presence tracks which users are currently active.
//
// The Tracker maintains an in-memory map of users, touched by the server
// whenever an authenticated request arrives, a stream session opens, or an
// explicit presence heartbeat is posted. The notification fan-out consults
// it to resolve "all currently-active users" recipient sets. A background
// reaper evicts users idle past a threshold so the map cannot grow without
// bound.
package presence

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DefaultActiveWindow is how recently a user must have been seen to count
// as active.
const DefaultActiveWindow = 5 * time.Minute

// Entry represents a single user's live presence state.
type Entry struct {
	UserID    string    `json:"user_id"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Source    string    `json:"source,omitempty"` // "request", "stream", "heartbeat"
	IdleSecs  float64   `json:"idle_secs"`
	TouchedN  int64     `json:"touch_count"`
}

// ReaperConfig configures the background stale-user reaper.
type ReaperConfig struct {
	// EvictAfter is how long a user must be idle before being removed.
	// Default: 30 minutes.
	EvictAfter time.Duration

	// SweepInterval is how often the reaper scans for stale users.
	// Default: 60 seconds.
	SweepInterval time.Duration
}

// Tracker maintains an in-memory roster of active users.
type Tracker struct {
	mu    sync.RWMutex
	users map[string]*userState

	reaperStop chan struct{}
	reaperDone chan struct{}
}

type userState struct {
	firstSeen time.Time
	lastSeen  time.Time
	source    string
	touched   int64
}

// New creates a new presence tracker.
func New() *Tracker {
	return &Tracker{users: make(map[string]*userState)}
}

// Touch records activity for a user. Source describes what triggered the update
// ("request", "stream", "heartbeat"); empty user IDs are ignored.
func (t *Tracker) Touch(userID, source string) {
	if userID == "" {
		return
	}

	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.users[userID]
	if !ok {
		state = &userState{firstSeen: now}
		t.users[userID] = state
	}
	state.lastSeen = now
	state.source = source
	state.touched++
}

// Active returns the IDs of users seen within the window, sorted for
// deterministic fan-out order. A zero window uses DefaultActiveWindow.
func (t *Tracker) Active(window time.Duration) []string {
	if window <= 0 {
		window = DefaultActiveWindow
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	now := time.Now()
	ids := make([]string, 0, len(t.users))
	for id, state := range t.users {
		if now.Sub(state.lastSeen) <= window {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Roster returns a snapshot of all tracked users, most recently active first.
func (t *Tracker) Roster() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := time.Now()
	entries := make([]Entry, 0, len(t.users))
	for id, state := range t.users {
		entries = append(entries, Entry{
			UserID:    id,
			FirstSeen: state.firstSeen,
			LastSeen:  state.lastSeen,
			Source:    state.source,
			IdleSecs:  now.Sub(state.lastSeen).Seconds(),
			TouchedN:  state.touched,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastSeen.After(entries[j].LastSeen)
	})
	return entries
}

// StartReaper launches a background goroutine that periodically evicts idle
// users. Call Stop() to shut it down.
func (t *Tracker) StartReaper(cfg *ReaperConfig) {
	if cfg == nil {
		cfg = &ReaperConfig{}
	}
	if cfg.EvictAfter == 0 {
		cfg.EvictAfter = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 60 * time.Second
	}

	t.reaperStop = make(chan struct{})
	t.reaperDone = make(chan struct{})

	go t.reapLoop(cfg)
	slog.Info("presence: reaper started",
		"evict_after", cfg.EvictAfter,
		"sweep_interval", cfg.SweepInterval)
}

// Stop shuts down the reaper goroutine.
func (t *Tracker) Stop() {
	if t.reaperStop != nil {
		close(t.reaperStop)
		<-t.reaperDone
		t.reaperStop = nil
		t.reaperDone = nil
	}
}

func (t *Tracker) reapLoop(cfg *ReaperConfig) {
	defer close(t.reaperDone)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.reaperStop:
			return
		case <-ticker.C:
			t.sweep(cfg.EvictAfter)
		}
	}
}

func (t *Tracker) sweep(evictAfter time.Duration) {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	for id, state := range t.users {
		if now.Sub(state.lastSeen) > evictAfter {
			delete(t.users, id)
		}
	}
}

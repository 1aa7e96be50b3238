package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/changes", s.handleAnnounceChange)
	mux.HandleFunc("GET /v1/events/stream", s.handleStream)
	mux.HandleFunc("GET /v1/events/recent", s.handleRecentEvents)
	mux.HandleFunc("GET /v1/notifications", s.handleListNotifications)
	mux.HandleFunc("GET /v1/notifications/unread_count", s.handleUnreadCount)
	mux.HandleFunc("POST /v1/notifications/{id}/read", s.handleMarkRead)
	mux.HandleFunc("POST /v1/notifications/read_all", s.handleMarkAllRead)
	mux.HandleFunc("DELETE /v1/notifications/read", s.handleDeleteRead)
	mux.HandleFunc("DELETE /v1/notifications/{id}", s.handleDeleteNotification)
	mux.HandleFunc("GET /v1/activity", s.handleActivity)
	mux.HandleFunc("GET /v1/presence", s.handlePresence)
	mux.HandleFunc("POST /v1/presence/heartbeat", s.handlePresenceHeartbeat)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, s.trackPresence(mux))
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnnounceChange handles POST /v1/changes. The tracker's mutation
// handlers call this after a write commits; the body is a model.Change.
func (s *Server) handleAnnounceChange(w http.ResponseWriter, r *http.Request) {
	var change model.Change
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if change.Actor == "" {
		change.Actor = requestUser(r)
	}

	if err := s.Announce(r.Context(), change); err != nil {
		// A rejected change is the caller's fault; a failed audit append
		// is ours, and the caller must know the trail lost the write.
		if errors.Is(err, ErrInvalidChange) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleRecentEvents handles GET /v1/events/recent?since=<ms>&project=.
// Clients recovering from a dropped stream replay the window they missed.
func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var since int64
	if v := q.Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be a unix millisecond timestamp")
			return
		}
		since = n
	}

	events := s.bus.Recent(since, q.Get("project"))
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// handleListNotifications handles GET /v1/notifications?unread=true.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "X-Pulse-User header is required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := s.fanout.List(r.Context(), user, unreadOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

// handleUnreadCount handles GET /v1/notifications/unread_count.
func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "X-Pulse-User header is required")
		return
	}

	count, err := s.fanout.UnreadCount(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

// handleMarkRead handles POST /v1/notifications/{id}/read.
func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.fanout.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMarkAllRead handles POST /v1/notifications/read_all.
func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "X-Pulse-User header is required")
		return
	}

	updated, err := s.fanout.MarkAllRead(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

// handleDeleteNotification handles DELETE /v1/notifications/{id}.
func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.fanout.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete notification")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleDeleteRead handles DELETE /v1/notifications/read.
func (s *Server) handleDeleteRead(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "X-Pulse-User header is required")
		return
	}

	deleted, err := s.fanout.DeleteRead(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// handleActivity handles GET /v1/activity?project=&limit=.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := s.activity.Query(r.Context(), q.Get("project"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query activity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"activity": entries})
}

// handlePresence handles GET /v1/presence.
func (s *Server) handlePresence(w http.ResponseWriter, r *http.Request) {
	window := time.Duration(0)
	if v := r.URL.Query().Get("window_secs"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			window = time.Duration(n) * time.Second
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"active": s.presence.Active(window),
		"roster": s.presence.Roster(),
	})
}

// handlePresenceHeartbeat handles POST /v1/presence/heartbeat.
func (s *Server) handlePresenceHeartbeat(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "X-Pulse-User header is required")
		return
	}

	s.presence.Touch(user, "heartbeat")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

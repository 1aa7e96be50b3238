package ui

import (
	"fmt"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorTask    = 74  // blue
	colorComment = 114 // green
	colorBlocker = 173 // orange
	colorProject = 176 // purple
	colorUnread  = 222 // yellow
	colorMuted   = 245 // medium gray
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderEventType returns the event type colored by kind.
func RenderEventType(t model.EventType) string {
	switch t {
	case model.EventTaskUpdated:
		return render(colorTask, string(t))
	case model.EventCommentAdded:
		return render(colorComment, string(t))
	case model.EventBlockerChanged:
		return render(colorBlocker, string(t))
	case model.EventProjectUpdated:
		return render(colorProject, string(t))
	}
	return string(t)
}

// RenderUnread returns s highlighted as an unread notification marker.
func RenderUnread(s string) string {
	return render(colorUnread, s)
}

// RenderMuted returns s in the muted (gray) color, used for timestamps
// and actor names.
func RenderMuted(s string) string {
	return render(colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

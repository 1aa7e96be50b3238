package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/pulse/internal/store"
)

// exportLimit bounds how much of the trail one export fetches. The trail is
// append-only and exported newest-window-first, so the archive object always
// holds the most recent entries up to this cap.
const exportLimit = 10000

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	EntryCount int       `json:"entry_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes the activity trail from the store as JSONL to w,
// oldest entry first.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	entries, err := s.ListActivity(ctx, "", exportLimit)
	if err != nil {
		return fmt.Errorf("list activity: %w", err)
	}

	// The store returns newest first; the archive reads top to bottom.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		EntryCount: len(entries),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, entry := range entries {
		if err := enc.Encode(record{Type: "activity", Data: entry}); err != nil {
			return fmt.Errorf("encode entry %d: %w", entry.ID, err)
		}
	}

	return nil
}

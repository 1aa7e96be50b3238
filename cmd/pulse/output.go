package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/pulse/internal/model"
	"github.com/alfredjeanlab/pulse/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// printEvent writes one event as a single line, for watch and recent.
func printEvent(evt model.Event) {
	if jsonOutput {
		data, err := json.Marshal(evt)
		if err != nil {
			return
		}
		fmt.Println(string(data))
		return
	}

	target := evt.Payload.ProjectID
	if evt.Payload.ProjectSlug != "" {
		target = evt.Payload.ProjectSlug
	}
	switch {
	case evt.Payload.TaskID != "":
		target += "/" + evt.Payload.TaskID
	case evt.Payload.CommentID != "":
		target += "/" + evt.Payload.CommentID
	case evt.Payload.BlockerID != "":
		target += "/" + evt.Payload.BlockerID
	}

	fmt.Printf("%s %s %s %s %s\n",
		ui.RenderMuted(evt.Time().Local().Format("15:04:05")),
		ui.RenderEventType(evt.Type),
		evt.Payload.Action,
		target,
		ui.RenderMuted(evt.Actor),
	)
}

func printNotificationTable(notifications []*model.Notification) {
	if len(notifications) == 0 {
		fmt.Println("inbox empty")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tWHEN\tTITLE\tMESSAGE")
	for _, n := range notifications {
		marker := "  "
		if !n.Read {
			marker = ui.RenderUnread("* ")
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n",
			marker,
			n.ID,
			ui.RenderMuted(n.CreatedAt.Local().Format("Jan 02 15:04")),
			n.Title,
			n.Message,
		)
	}
	_ = w.Flush()
}

func printActivityTable(entries []*model.ActivityEntry) {
	if len(entries) == 0 {
		fmt.Println("no activity")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPROJECT\tACTOR\tACTION\tTARGET")
	for _, entry := range entries {
		target := entry.TargetType
		if entry.TargetID != "" {
			target += ":" + entry.TargetID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ui.RenderMuted(entry.CreatedAt.Local().Format("Jan 02 15:04")),
			entry.ProjectID,
			entry.Actor,
			entry.Action,
			target,
		)
	}
	_ = w.Flush()
}

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:     "recent",
	Short:   "Show recent events from the replay buffer",
	GroupID: "events",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")
		since, _ := cmd.Flags().GetDuration("since")

		var sinceMillis int64
		if since > 0 {
			sinceMillis = time.Now().Add(-since).UnixMilli()
		}

		events, err := pulseClient.RecentEvents(context.Background(), sinceMillis, project)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(events)
			return nil
		}
		for _, evt := range events {
			printEvent(evt)
		}
		return nil
	},
}

func init() {
	recentCmd.Flags().String("project", "", "only show events for this project ID or slug")
	recentCmd.Flags().Duration("since", 0, "only show events newer than this age (e.g. 10m)")
}

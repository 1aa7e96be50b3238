package main

import (
	"context"

	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Short:   "Show the activity trail",
	GroupID: "events",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := pulseClient.Activity(context.Background(), project, limit)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(entries)
			return nil
		}
		printActivityTable(entries)
		return nil
	},
}

func init() {
	activityCmd.Flags().String("project", "", "only show activity for this project")
	activityCmd.Flags().Int("limit", 0, "maximum entries to fetch (server default 50)")
}

package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/pulse/internal/model"
	"github.com/spf13/cobra"
)

var announceCmd = &cobra.Command{
	Use:     "announce <type>",
	Short:   "Announce a committed change to the pipeline",
	GroupID: "events",
	Long: `Announce tells the server that a domain mutation has committed.
The type is one of task_updated, project_updated, comment_added,
blocker_changed. Normally the tracker's mutation handlers do this; the
command exists for scripting and for smoke-testing a deployment.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")
		slug, _ := cmd.Flags().GetString("slug")
		task, _ := cmd.Flags().GetString("task")
		comment, _ := cmd.Flags().GetString("comment")
		blocker, _ := cmd.Flags().GetString("blocker")
		action, _ := cmd.Flags().GetString("action")
		assignee, _ := cmd.Flags().GetString("assignee")
		title, _ := cmd.Flags().GetString("title")
		message, _ := cmd.Flags().GetString("message")
		link, _ := cmd.Flags().GetString("link")

		change := &model.Change{
			Type:  model.EventType(args[0]),
			Actor: user,
			Payload: model.EventPayload{
				ProjectID:   project,
				ProjectSlug: slug,
				TaskID:      task,
				CommentID:   comment,
				BlockerID:   blocker,
				Action:      action,
				Assignee:    assignee,
			},
			Title:   title,
			Message: message,
			Link:    link,
		}
		if !change.Type.IsValid() {
			return fmt.Errorf("unknown change type %q", args[0])
		}

		if err := pulseClient.Announce(context.Background(), change); err != nil {
			return err
		}
		fmt.Println("accepted")
		return nil
	},
}

func init() {
	announceCmd.Flags().String("project", "", "project ID (required)")
	announceCmd.Flags().String("slug", "", "project slug")
	announceCmd.Flags().String("task", "", "task ID")
	announceCmd.Flags().String("comment", "", "comment ID")
	announceCmd.Flags().String("blocker", "", "blocker ID")
	announceCmd.Flags().String("action", "", "action verb, e.g. status_changed (required)")
	announceCmd.Flags().String("assignee", "", "task assignee")
	announceCmd.Flags().String("title", "", "notification title override")
	announceCmd.Flags().String("message", "", "notification message")
	announceCmd.Flags().String("link", "", "notification link override")
	_ = announceCmd.MarkFlagRequired("project")
	_ = announceCmd.MarkFlagRequired("action")
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var inboxCmd = &cobra.Command{
	Use:     "inbox",
	Short:   "Show and manage your notification inbox",
	GroupID: "inbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		unreadOnly, _ := cmd.Flags().GetBool("unread")

		notifications, err := pulseClient.ListNotifications(context.Background(), unreadOnly)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(notifications)
			return nil
		}
		printNotificationTable(notifications)
		return nil
	},
}

var inboxCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the unread notification count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := pulseClient.UnreadCount(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(map[string]int{"unread_count": count})
			return nil
		}
		fmt.Println(count)
		return nil
	},
}

var inboxReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pulseClient.MarkRead(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("notification %s marked read\n", args[0])
		return nil
	},
}

var inboxReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark all notifications as read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		updated, err := pulseClient.MarkAllRead(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%d notifications marked read\n", updated)
		return nil
	},
}

var inboxRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pulseClient.DeleteNotification(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("notification %s deleted\n", args[0])
		return nil
	},
}

var inboxClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all read notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := pulseClient.DeleteRead(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%d notifications deleted\n", deleted)
		return nil
	},
}

func init() {
	inboxCmd.Flags().Bool("unread", false, "only show unread notifications")

	inboxCmd.AddCommand(inboxCountCmd)
	inboxCmd.AddCommand(inboxReadCmd)
	inboxCmd.AddCommand(inboxReadAllCmd)
	inboxCmd.AddCommand(inboxRemoveCmd)
	inboxCmd.AddCommand(inboxClearCmd)
}

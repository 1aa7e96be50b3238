package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var presenceCmd = &cobra.Command{
	Use:     "presence",
	Short:   "Show who is currently active",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := pulseClient.Presence(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}

		if len(resp.Roster) == 0 {
			fmt.Println("nobody around")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USER\tLAST SEEN\tSOURCE\tIDLE")
		for _, entry := range resp.Roster {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\n",
				entry.UserID,
				entry.LastSeen.Local().Format("15:04:05"),
				entry.Source,
				entry.IdleSecs,
			)
		}
		return w.Flush()
	},
}

var presenceHeartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Mark yourself active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pulseClient.Heartbeat(context.Background()); err != nil {
			return err
		}
		fmt.Printf("%s is here\n", user)
		return nil
	},
}

func init() {
	presenceCmd.AddCommand(presenceHeartbeatCmd)
}

package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/alfredjeanlab/pulse/internal/client"
	"github.com/alfredjeanlab/pulse/internal/ui"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	jsonOutput bool
	user       string

	pulseClient client.PulseClient
)

func defaultUser() string {
	if u := os.Getenv("PULSE_USER"); u != "" {
		return u
	}
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return name
		}
	}
	return "unknown"
}

func defaultHTTPURL() string {
	if s := os.Getenv("PULSE_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:   "pulse <command>",
	Short: "CLI client for the pulse change-notification service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		pulseClient = client.NewHTTPClient(httpURL, activeRemoteToken(), user)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if pulseClient != nil {
			pulseClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&user, "user", defaultUser(), "user identity for inbox and presence")

	rootCmd.AddGroup(
		&cobra.Group{ID: "events", Title: "Events:"},
		&cobra.Group{ID: "inbox", Title: "Inbox:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	// Events
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(announceCmd)
	rootCmd.AddCommand(activityCmd)

	// Inbox
	rootCmd.AddCommand(inboxCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(presenceCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

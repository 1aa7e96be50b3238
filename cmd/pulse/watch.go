package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/alfredjeanlab/pulse/internal/events"
	"github.com/alfredjeanlab/pulse/internal/model"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Tail the live event stream",
	GroupID: "events",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")
		natsMode, _ := cmd.Flags().GetBool("nats")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// lastSeen tracks the newest printed timestamp so reconnects can
		// replay exactly the gap.
		var lastSeen atomic.Int64

		printed := func(evt model.Event) {
			if ts := evt.Timestamp; ts > lastSeen.Load() {
				lastSeen.Store(ts)
			}
			printEvent(evt)
		}

		if natsMode {
			natsURL := os.Getenv("PULSE_NATS_URL")
			if natsURL == "" {
				natsURL = activeRemoteNATSURL()
			}
			if natsURL == "" {
				return fmt.Errorf("--nats requires PULSE_NATS_URL or an active remote with a NATS URL")
			}
			return watchNATS(ctx, natsURL, project, printed)
		}

		return watchSSE(ctx, project, &lastSeen, printed)
	},
}

// watchSSE tails the server's SSE stream, reconnecting with backoff. After
// each reconnect it replays the missed window through the recent-events
// endpoint before resuming the live stream.
func watchSSE(ctx context.Context, project string, lastSeen *atomic.Int64, print func(model.Event)) error {
	backoff := time.Second
	for {
		if since := lastSeen.Load(); since > 0 {
			missed, err := pulseClient.RecentEvents(ctx, since, project)
			if err == nil {
				for _, evt := range missed {
					print(evt)
				}
			} else if ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "catch-up failed: %v\n", err)
			}
		}

		err := pulseClient.StreamEvents(ctx, project, print)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "stream dropped: %v (reconnecting in %s)\n", err, backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

// watchNATS consumes events straight from the broker mirror instead of the
// server's SSE stream. Useful when many watchers would otherwise hold HTTP
// connections open.
func watchNATS(ctx context.Context, natsURL, project string, print func(model.Event)) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.SubjectAll)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			var evt model.Event
			if err := json.Unmarshal(data, &evt); err != nil {
				continue
			}
			if !evt.MatchesProject(project) {
				continue
			}
			print(evt)
		}
	}
}

func init() {
	watchCmd.Flags().String("project", "", "only show events for this project ID or slug")
	watchCmd.Flags().Bool("nats", false, "consume from the NATS mirror instead of SSE")
}

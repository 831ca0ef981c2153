package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/civicmap/civicmap/internal/comment"
	"github.com/civicmap/civicmap/internal/config"
	"github.com/civicmap/civicmap/internal/mapview"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the map live, printing comments as they are posted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}
}

func runWatch() error {
	cfg := config.FromEnv()
	if cfg.MapToken == "" {
		// The map still works without tiles, inserts just print as text.
		slog.Warn("no map token configured, tile layer disabled")
	}

	api := newAPIClient()

	view := mapview.New(func(c *comment.Comment) {
		fmt.Printf("#%-4d [%s] %s  %s  ^%d\n",
			c.ID, c.Theme, formatLocation(c.Latitude, c.Longitude),
			truncate(c.CommentText, 60), c.Upvotes)
	})
	view.Load(api)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, err := api.StreamInserts(ctx)
	if err != nil {
		return fmt.Errorf("connecting to insert feed: %w", err)
	}

	fmt.Printf("Watching %s (%d comments), Ctrl-C to stop\n", getServerURL(), len(view.Markers()))
	view.Run(ctx, events)
	return nil
}

package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/civicmap/civicmap/internal/classify"
	"github.com/civicmap/civicmap/internal/config"
	"github.com/civicmap/civicmap/internal/feed"
	"github.com/civicmap/civicmap/internal/logging"
	"github.com/civicmap/civicmap/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the civicmap API server",
		Long:  "Start the HTTP server hosting the comments API, the classification endpoint, and the realtime insert feed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")

	return cmd
}

func runServe(port int) error {
	cfg := config.FromEnv()
	logging.Setup(cfg.DevMode)

	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	database, err := openDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeDB(database)

	classifier, err := classify.NewClassifier(cfg.ModelAPIKey)
	if err != nil {
		return fmt.Errorf("creating classifier: %w", err)
	}

	var broadcaster feed.Broadcaster = feed.NewHub()
	if cfg.RedisAddr != "" {
		redisFeed, err := feed.NewRedisBroadcaster(cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("connecting realtime bridge to redis at %s: %w", cfg.RedisAddr, err)
		}
		defer func() {
			if err := redisFeed.Close(); err != nil {
				slog.Warn("closing redis bridge", "error", err)
			}
		}()
		broadcaster = redisFeed
		slog.Info("realtime feed bridged through redis", "addr", cfg.RedisAddr)
	}

	srv := web.NewServer(database, classifier, broadcaster)

	slog.Info("civicmap server listening", "port", port)
	return srv.ListenAndServe(port)
}

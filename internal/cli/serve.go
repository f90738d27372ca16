package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/house-market/internal/backend"
	"github.com/evcraddock/house-market/internal/browse"
	"github.com/evcraddock/house-market/internal/config"
	"github.com/evcraddock/house-market/internal/db"
	"github.com/evcraddock/house-market/internal/listing"
	"github.com/evcraddock/house-market/internal/logging"
	"github.com/evcraddock/house-market/internal/sample"
	"github.com/evcraddock/house-market/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port       int
		devMode    bool
		backendURL string
		backendKey string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Long:  "Start an HTTP server for the web UI and the listings API. Settings come from HM_ environment variables and .env; flags override them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("dev") {
				cfg.DevMode = devMode
			}
			if flags.Changed("backend-url") {
				cfg.BackendURL = backendURL
			}
			if flags.Changed("backend-key") {
				cfg.BackendKey = backendKey
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().BoolVar(&devMode, "dev", false, "development mode (text logs at debug level)")
	cmd.Flags().StringVar(&backendURL, "backend-url", "", "REST backend URL (default: local database)")
	cmd.Flags().StringVar(&backendKey, "backend-key", "", "REST backend API key")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logging.Setup(cfg.DevMode)

	source, cleanup, err := newSource(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := web.NewServer(source, browse.Options{
		Fallback:       sample.Listings,
		PageSizes:      cfg.PageSizes(),
		DeadZone:       cfg.DeadZone,
		NoScrollToggle: !cfg.ScrollToggle,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.ListenAndServe(ctx, cfg.Port)
}

// newSource picks the listing source: the REST backend when configured,
// otherwise the local SQLite store. cleanup releases whatever was opened.
func newSource(cfg config.Config) (browse.Source, func(), error) {
	if cfg.UseBackend() {
		c, err := backend.NewClient(cfg.BackendURL, cfg.BackendKey)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using REST backend", "url", cfg.BackendURL)
		return c, func() {}, nil
	}

	path, err := dbPath(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using local database", "path", path)
	return listing.NewRepository(database), func() { closeDB(database) }, nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vflor92/REanalyzer/internal/api"
	"github.com/vflor92/REanalyzer/internal/config"
	"github.com/vflor92/REanalyzer/internal/enrichment"
	"github.com/vflor92/REanalyzer/internal/extract"
	"github.com/vflor92/REanalyzer/internal/intake"
	"github.com/vflor92/REanalyzer/internal/rentcomps"
	"github.com/vflor92/REanalyzer/internal/scenarios"
	"github.com/vflor92/REanalyzer/internal/sites"
	"github.com/vflor92/REanalyzer/internal/store"
	"github.com/vflor92/REanalyzer/pkg/anthropic"
	"github.com/vflor92/REanalyzer/pkg/census"
	"github.com/vflor92/REanalyzer/pkg/geocode"
	"github.com/vflor92/REanalyzer/pkg/hud"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		extractor := extract.NewExtractor(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)

		server := api.NewServer(
			sites.NewService(st, extractor),
			scenarios.NewService(st),
			rentcomps.NewService(st, extractor),
			intake.NewService(extractor),
			enrichment.NewOrchestrator(st,
				geocode.NewClient(cfg.Mapbox.Token),
				census.NewClient(cfg.Census.Key),
				hud.NewClient(),
			),
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.Router(cfg.Server.AllowedOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// openStore builds the configured store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres", "":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

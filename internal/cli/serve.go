package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/osanchezp/casaflow/internal/auth"
	"github.com/osanchezp/casaflow/internal/config"
	"github.com/osanchezp/casaflow/internal/server"
	"github.com/osanchezp/casaflow/internal/storage/sqlite"
	"github.com/osanchezp/casaflow/pkg/logging"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	serveCmd.Flags().Bool("seed", false, "Seed an empty database with a demo household")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend API server",
	Long: `Start the HTTP API the movement form talks to, backed by a local
SQLite database. With --seed, an empty database is populated with a
small demo household so the form has members, categories, payment
methods and accounts to offer.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	store, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if seed, _ := cmd.Flags().GetBool("seed"); seed {
		if err := store.SeedDemo(cmd.Context()); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	tokens := auth.NewTokenManager(cfg.Server.TokenSecret, 30*24*time.Hour)
	srv := server.New(store, tokens, nil)
	if cfg.Server.Metrics {
		srv.EnableMetrics()
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "db", cfg.Server.DBPath)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

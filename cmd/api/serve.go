package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/app"
	"github.com/ArowuTest/surespace-functions/internal/triggers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server
const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var withWatcher bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server for M-Pesa callbacks and trigger deliveries",
		Long: `Start the HTTP server.

Examples:
  surespace serve
  surespace serve --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(withWatcher)
		},
	}

	cmd.Flags().BoolVar(&withWatcher, "watch", false, "also follow notification and message inserts via change streams")

	return cmd
}

func runServe(withWatcher bool) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Cancelled on SIGINT (Ctrl+C) and SIGTERM (kill/system shutdown)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Error("Error closing connections", zap.Error(err))
		}
	}()

	var watcher *triggers.Watcher
	if withWatcher {
		if watcher, err = a.Watcher(); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exiting")
	return nil
}

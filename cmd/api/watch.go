package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ArowuTest/surespace-functions/internal/app"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Send push notifications for new notification and chat message documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer a.Close(context.Background())

			watcher, err := a.Watcher()
			if err != nil {
				return err
			}
			return watcher.Run(ctx)
		},
	}
}

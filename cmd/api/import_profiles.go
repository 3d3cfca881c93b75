package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ArowuTest/surespace-functions/internal/app"
	"github.com/ArowuTest/surespace-functions/internal/seed"
	"github.com/spf13/cobra"
)

func importProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-profiles [csv]",
		Short: "Upsert user profiles and push tokens from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open CSV file: %w", err)
			}
			defer file.Close()

			ctx := context.Background()
			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer a.Close(ctx)

			result, err := seed.NewProfileImporter(a.Profiles, logger).Import(ctx, file)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

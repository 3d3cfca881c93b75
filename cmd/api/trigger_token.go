package main

import (
	"fmt"
	"time"

	"github.com/ArowuTest/surespace-functions/pkg/jwt"
	"github.com/spf13/cobra"
)

func triggerTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger-token",
		Short: "Mint a bearer token for a trigger source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}

			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if !cmd.Flags().Changed("ttl") {
				ttl = time.Duration(cfg.JWT.ExpiresIn) * time.Second
			}

			tokens, err := jwt.NewTokenService(cfg.JWT.Secret, ttl)
			if err != nil {
				return err
			}
			token, err := tokens.Generate(subject)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringP("subject", "s", "datastore-bridge", "Trigger source name")
	cmd.Flags().Duration("ttl", 0, "Token lifetime, 0 for no expiry (defaults to JWT_EXPIRESIN seconds)")

	return cmd
}

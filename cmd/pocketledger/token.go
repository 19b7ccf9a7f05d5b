package main

import (
	"fmt"
	"time"

	"github.com/sebuszqo/PocketLedger/internal/auth"
	"github.com/spf13/cobra"
)

// tokenCmd mints an access token for local use. Issuing tokens to real users
// belongs to the identity service in front of the ledger.
func tokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a user id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			if err := cfg.RequireJWTSecret(); err != nil {
				return err
			}
			jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
			if err != nil {
				return err
			}
			token, err := jwtManager.GenerateAccessJWT(userID, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id placed in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultAccessTokenDuration, "token lifetime")
	return cmd
}

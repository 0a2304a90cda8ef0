package main

import (
	"fmt"
	"time"

	"github.com/Domenick1991/flightclaim/internal/auth"
	"github.com/spf13/cobra"
)

var tokenUser string

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Issue a bearer token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		token, err := verifier.IssueToken(tokenUser, cfg.Auth.TokenTTL(), time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	issueTokenCmd.Flags().StringVar(&tokenUser, "user", "", "User id placed in the token subject")
	_ = issueTokenCmd.MarkFlagRequired("user")
}

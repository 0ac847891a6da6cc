package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/bldriq/internal/config"
	"github.com/MrJamesThe3rd/bldriq/internal/http/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Long:  "Signs a bearer token for --user with JWT_SECRET, for scripts and local testing against the API.",
	RunE:  runToken,
}

var (
	tokenUser string
	tokenTTL  time.Duration
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "Subject of the token (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	tok, err := auth.Sign(cfg.Auth.JWTSecret, tokenUser, tokenTTL)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), tok)

	return nil
}

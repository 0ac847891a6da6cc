package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/bldriq/internal/config"
	"github.com/MrJamesThe3rd/bldriq/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Applies the embedded SQL migrations to the database named by the DB_* environment variables.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")

	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/config"
	"github.com/MrJamesThe3rd/bldriq/internal/database"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
	"github.com/MrJamesThe3rd/bldriq/internal/project/store"
)

var importLegacyCmd = &cobra.Command{
	Use:   "import-legacy",
	Short: "Import projects exported from browser storage",
	Long: `Reads a JSON array of projects saved by the browser version of the estimator
and stores them in the configured database. Projects without an owner are
assigned to --user, or to the guest user when --user is empty.

With the memory backend the file is only parsed and priced (a dry run).`,
	RunE: runImportLegacy,
}

var (
	importFile string
	importUser string
)

func init() {
	importLegacyCmd.Flags().StringVarP(&importFile, "file", "f", "", "Legacy export JSON (required)")
	importLegacyCmd.Flags().StringVarP(&importUser, "user", "u", "", "Owner for projects that carry none")

	_ = importLegacyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(importLegacyCmd)
}

func runImportLegacy(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	c, err := catalog.Open(cfg.Catalog.Path, cfg.Catalog.ScopesCSV)
	if err != nil {
		return err
	}

	owner := importUser
	if owner == "" {
		owner = cfg.Auth.GuestUserID
	}

	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("opening legacy export: %w", err)
	}
	defer f.Close()

	projects, err := project.ParseLegacy(f, c, owner)
	if err != nil {
		return err
	}

	var repo project.Repository = store.NewMemory()

	if cfg.UsesDatabase() {
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()

		repo = store.New(db)
	} else {
		slog.Warn("memory backend selected, nothing will be persisted")
	}

	n, err := project.NewService(repo, c).Import(context.Background(), projects)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d project(s)\n", n)

	return nil
}

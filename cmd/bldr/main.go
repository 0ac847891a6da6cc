// Package main is the bldr command line: price a budget file, browse the
// catalog, import browser exports and manage the database.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "bldr",
	Short: "Construction budget estimator",
	Long:  "bldr prices tenant-improvement budgets from the scope catalog, assemblies and templates, and renders them as PDF, XLSX or HTML.",
}

var (
	catalogPath string
	scopesCSV   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog YAML to use instead of the built-in one (default $CATALOG_PATH)")
	rootCmd.PersistentFlags().StringVar(&scopesCSV, "scopes-csv", "", "Company scope table (CSV) replacing the catalog scopes (default $CATALOG_SCOPES_CSV)")
}

// openCatalog opens the catalog named by the flags, falling back to the
// configured one. It runs after godotenv so .env values apply.
func openCatalog() (*catalog.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	path, csv := catalogPath, scopesCSV
	if path == "" {
		path = cfg.Catalog.Path
	}

	if csv == "" {
		csv = cfg.Catalog.ScopesCSV
	}

	return catalog.Open(path, csv)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/export"
)

var catalogCmd = &cobra.Command{
	Use:       "catalog [scopes|assemblies|templates|benchmarks]",
	Short:     "List the reference catalog",
	Long:      "Lists scopes of work, assemblies, templates or cost-per-SF benchmarks from the active catalog.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"scopes", "assemblies", "templates", "benchmarks"},
	RunE:      runCatalog,
}

var catalogCategory string

func init() {
	catalogCmd.Flags().StringVarP(&catalogCategory, "category", "c", "", "Only list scopes in this category")

	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	c, err := openCatalog()
	if err != nil {
		return err
	}

	var out string

	switch args[0] {
	case "scopes":
		out = scopesTable(c, catalogCategory)
	case "assemblies":
		out = assembliesTable(c)
	case "templates":
		out = templatesTable(c)
	case "benchmarks":
		out = benchmarksTable(c)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)

	return nil
}

func scopesTable(c *catalog.Catalog, category string) string {
	scopes := c.Scopes()
	if category != "" {
		scopes = c.ScopesIn(category)
	}

	t := newTable("Category", "Scope", "Unit", "Unit cost")
	for _, s := range scopes {
		t.Row(s.Category, s.Name, string(s.Unit), export.USD(s.DefaultUnitCost))
	}

	return t.String()
}

func assembliesTable(c *catalog.Catalog) string {
	t := newTable("ID", "Name", "Category", "SF", "Base cost", "Missing scopes")

	for _, a := range c.Assemblies() {
		sqft := "-"
		if a.SquareFeet.Valid {
			sqft = a.SquareFeet.Decimal.String()
		}

		t.Row(a.ID, a.Name, a.Category, sqft,
			export.USD(estimate.AssemblyBaseCost(c, a)),
			strings.Join(estimate.MissingScopes(c, a), ", "))
	}

	return t.String()
}

func templatesTable(c *catalog.Catalog) string {
	t := newTable("Type", "Name", "Items", "GC markup", "General conditions", "Benchmark")

	for _, tpl := range c.Templates() {
		t.Row(tpl.Type, tpl.Name, fmt.Sprint(len(tpl.Items)),
			tpl.DefaultGCMarkup.String()+"%", tpl.DefaultGeneralConditions.String()+"%", tpl.Benchmark)
	}

	return t.String()
}

func benchmarksTable(c *catalog.Catalog) string {
	benchmarks := c.Benchmarks()

	types := make([]string, 0, len(benchmarks))
	for k := range benchmarks {
		types = append(types, k)
	}

	slices.Sort(types)

	t := newTable("Project type", "Min / SF", "Average / SF", "Max / SF")
	for _, k := range types {
		b := benchmarks[k]
		t.Row(k, export.USD(b.Min), export.USD(b.Average), export.USD(b.Max))
	}

	return t.String()
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/bldriq/internal/export"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
	"github.com/MrJamesThe3rd/bldriq/internal/project/store"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Price a budget file",
	Long: `Prices a YAML budget file and prints the line items and markup waterfall.

Example:
  bldr estimate --file suite300.yaml --pdf suite300.pdf --xlsx suite300.xlsx`,
	RunE: runEstimate,
}

var (
	estimateFile string
	estimatePDF  string
	estimateXLSX string
	estimateHTML string
	estimateZip  string
)

func init() {
	estimateCmd.Flags().StringVarP(&estimateFile, "file", "f", "", "Budget YAML file (required)")
	estimateCmd.Flags().StringVar(&estimatePDF, "pdf", "", "Write the PDF report to this path")
	estimateCmd.Flags().StringVar(&estimateXLSX, "xlsx", "", "Write the spreadsheet to this path")
	estimateCmd.Flags().StringVar(&estimateHTML, "html", "", "Write the HTML page to this path")
	estimateCmd.Flags().StringVar(&estimateZip, "zip", "", "Write all three formats as one zip archive")

	_ = estimateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	c, err := openCatalog()
	if err != nil {
		return err
	}

	f, err := os.Open(estimateFile)
	if err != nil {
		return fmt.Errorf("opening budget file: %w", err)
	}
	defer f.Close()

	b, err := parseBudget(f)
	if err != nil {
		return err
	}

	p, err := b.toProject(c)
	if err != nil {
		return err
	}

	projects := project.NewService(store.NewMemory(), c)

	if err := projects.Save(context.Background(), p); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(p, projects.Summary(p)))

	exports := export.NewService(projects)

	for _, out := range []struct {
		path   string
		format export.Format
	}{
		{estimatePDF, export.FormatPDF},
		{estimateXLSX, export.FormatXLSX},
		{estimateHTML, export.FormatHTML},
		{estimateZip, export.FormatZip},
	} {
		if out.path == "" {
			continue
		}

		file, err := exports.Render(p, out.format)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", out.format, err)
		}

		if err := os.WriteFile(out.path, file.Body, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out.path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out.path)
	}

	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	totalStyle  = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})
}

func renderSummary(p *project.Project, sum project.Summary) string {
	doc := export.NewDocument(p, sum, p.UpdatedAt)

	items := newTable("#", "Scope", "Unit", "Qty", "Unit cost", "Total")
	for _, r := range doc.Rows {
		items.Row(fmt.Sprint(r.Index), r.Name, r.Unit, export.Qty(r.Quantity), export.USD(r.UnitCost), export.USD(r.Total))
	}

	waterfall := newTable("Stage", "Amount")
	for _, s := range doc.Stages {
		label := s.Label
		if s.Total {
			label = totalStyle.Render(label)
		}

		waterfall.Row(label, export.USD(s.Amount))
	}

	out := []string{
		totalStyle.Render(doc.Title),
		items.String(),
		waterfall.String(),
		fmt.Sprintf("Range: %s to %s", export.USD(doc.RangeLow), export.USD(doc.RangeHigh)),
	}

	if doc.CostPerSqft.Valid {
		out = append(out, "Cost per SF: "+export.USD(doc.CostPerSqft.Decimal))
	}

	if b := doc.Benchmark; b != nil {
		out = append(out, fmt.Sprintf("Benchmark (%s): %s to %s per SF, %s", b.ProjectType, export.USD(b.Min), export.USD(b.Max), b.Verdict))
	}

	for _, is := range doc.Issues {
		out = append(out, warnStyle.Render("! "+is.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

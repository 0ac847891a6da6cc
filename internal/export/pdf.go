package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfMuted   = &props.Color{Red: 108, Green: 117, Blue: 125}
	pdfHeading = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfStriped = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// PDF renders a letter-size budget document.
func PDF(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   pdfMuted,
		}).
		Build()

	m := maroto.New(cfg)

	pdfHeader(m, doc)
	pdfItems(m, doc.Rows)
	pdfWaterfall(m, doc)
	pdfBreakdown(m, doc)
	pdfFooter(m)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating pdf: %w", err)
	}

	return out.GetBytes(), nil
}

func pdfHeader(m core.Maroto, doc Document) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(doc.Title, props.Text{Size: 16, Style: fontstyle.Bold}),
			),
		),
	)

	info := []string{}
	if doc.Address != "" {
		info = append(info, doc.Address)
	}

	if doc.GCCompanyName != "" {
		info = append(info, "Prepared by "+doc.GCCompanyName)
	}

	status := "Status: " + doc.Status
	if doc.TotalSqft.IsPositive() {
		status += fmt.Sprintf(" | %s SF", Qty(doc.TotalSqft))
	}

	info = append(info, status, "Generated "+doc.GeneratedAt.Format("January 2, 2006"))

	for _, line := range info {
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(text.New(line, props.Text{Size: 9, Color: pdfMuted})),
			),
		)
	}

	m.AddRows(row.New(4))
}

func pdfItems(m core.Maroto, rows []Row) {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Color: pdfWhite, Top: 1.5, Left: 1}
	headRight := head
	headRight.Align = align.Right
	headRight.Right = 1

	cell := &props.Cell{BackgroundColor: pdfHeading}

	m.AddRows(
		row.New(7).Add(
			col.New(5).Add(text.New("Scope", head)).WithStyle(cell),
			col.New(1).Add(text.New("Qty", headRight)).WithStyle(cell),
			col.New(1).Add(text.New("Unit", head)).WithStyle(cell),
			col.New(2).Add(text.New("Unit Cost", headRight)).WithStyle(cell),
			col.New(3).Add(text.New("Total", headRight)).WithStyle(cell),
		),
	)

	body := props.Text{Size: 8, Top: 1.5, Left: 1}
	right := body
	right.Align = align.Right
	right.Right = 1

	for i, r := range rows {
		name := r.Name
		if r.Taxable {
			name += " (T)"
		}

		line := row.New(7).Add(
			col.New(5).Add(text.New(name, body)),
			col.New(1).Add(text.New(Qty(r.Quantity), right)),
			col.New(1).Add(text.New(r.Unit, body)),
			col.New(2).Add(text.New(USD(r.UnitCost), right)),
			col.New(3).Add(text.New(USD(r.Total), right)),
		)

		if i%2 == 1 {
			line.WithStyle(&props.Cell{BackgroundColor: pdfStriped})
		}

		m.AddRows(line)
	}

	m.AddRows(row.New(4))
}

func pdfWaterfall(m core.Maroto, doc Document) {
	for _, s := range doc.Stages {
		label := props.Text{Size: 9, Align: align.Right}
		if s.Total {
			label.Style = fontstyle.Bold
			label.Size = 11
		}

		value := label
		value.Right = 1

		m.AddRows(
			row.New(6).Add(
				col.New(8).Add(text.New(s.Label, label)),
				col.New(4).Add(text.New(USD(s.Amount), value)),
			),
		)
	}

	summary := []Stage{
		{Label: "Budget Range (±15%)"},
	}
	values := []string{USD(doc.RangeLow) + " - " + USD(doc.RangeHigh)}

	if doc.CostPerSqft.Valid {
		summary = append(summary, Stage{Label: "Cost per SF"})
		values = append(values, USD(doc.CostPerSqft.Decimal))
	}

	if b := doc.Benchmark; b != nil {
		summary = append(summary, Stage{Label: fmt.Sprintf("Typical %s range", b.ProjectType)})
		values = append(values, fmt.Sprintf("%s - %s per SF (%s)", USD(b.Min), USD(b.Max), b.Verdict))
	}

	for i, s := range summary {
		m.AddRows(
			row.New(5).Add(
				col.New(8).Add(text.New(s.Label, props.Text{Size: 8, Align: align.Right, Color: pdfMuted})),
				col.New(4).Add(text.New(values[i], props.Text{Size: 8, Align: align.Right, Right: 1, Color: pdfMuted})),
			),
		)
	}

	m.AddRows(row.New(4))
}

func pdfBreakdown(m core.Maroto, doc Document) {
	if len(doc.Breakdown) == 0 {
		return
	}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New("Cost by Category", props.Text{Size: 11, Style: fontstyle.Bold})),
		),
	)

	for _, c := range doc.Breakdown {
		m.AddRows(
			row.New(5).Add(
				col.New(1).WithStyle(&props.Cell{BackgroundColor: hexColor(c.Color)}),
				col.New(7).Add(text.New(c.Name, props.Text{Size: 8, Left: 2})),
				col.New(4).Add(text.New(USD(c.Value), props.Text{Size: 8, Align: align.Right, Right: 1})),
			),
		)
	}

	m.AddRows(row.New(4))
}

func pdfFooter(m core.Maroto) {
	m.AddRows(
		row.New(14).Add(
			col.New(12).Add(text.New(Disclaimer, props.Text{Size: 7, Color: pdfMuted})),
		),
	)
}

// hexColor parses #RRGGBB, falling back to grey.
func hexColor(s string) *props.Color {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(s) != 7 {
		return &props.Color{Red: 160, Green: 160, Blue: 160}
	}

	return &props.Color{Red: int(v>>16&0xff), Green: int(v>>8&0xff), Blue: int(v&0xff)}
}

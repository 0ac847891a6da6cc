package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

const Disclaimer = "This is a preliminary budget estimate based on typical unit costs. Actual project costs may vary by ±15% " +
	"depending on site conditions, material selections, labor market, permit requirements, and project complexity. " +
	"Always obtain detailed quotes from licensed contractors before making final decisions."

// Document is a project flattened for rendering. Every renderer reads the
// same document so the formats never disagree on a number.
type Document struct {
	Title         string
	Address       string
	GCCompanyName string
	Status        string
	ProjectType   string
	Notes         string
	GeneratedAt   time.Time
	TotalSqft     decimal.Decimal

	Rows        []Row
	Stages      []Stage
	GrandTotal  decimal.Decimal
	RangeLow    decimal.Decimal
	RangeHigh   decimal.Decimal
	CostPerSqft decimal.NullDecimal
	Benchmark   *project.Benchmark
	Breakdown   []estimate.CategoryTotal
	Issues      []estimate.Issue
}

type Row struct {
	Index    int
	Name     string
	Unit     string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
	Total    decimal.Decimal
	Notes    string
	Taxable  bool
}

// Stage is one line of the markup waterfall.
type Stage struct {
	Label  string
	Amount decimal.Decimal
	Total  bool
}

func NewDocument(p *project.Project, sum project.Summary, generatedAt time.Time) Document {
	doc := Document{
		Title:         p.Name,
		Address:       p.Address,
		GCCompanyName: p.GCCompanyName,
		Status:        string(p.Status),
		ProjectType:   p.ProjectType,
		Notes:         p.Notes,
		GeneratedAt:   generatedAt,
		TotalSqft:     p.TotalSqft,
		Stages:        Stages(sum.Totals, p.Settings),
		GrandTotal:    sum.Totals.GrandTotal,
		RangeLow:      sum.Totals.RangeLow,
		RangeHigh:     sum.Totals.RangeHigh,
		CostPerSqft:   sum.CostPerSqft,
		Benchmark:     sum.Benchmark,
		Breakdown:     sum.Breakdown,
		Issues:        sum.Issues,
	}

	for i, it := range p.LineItems {
		doc.Rows = append(doc.Rows, Row{
			Index:    i + 1,
			Name:     it.ScopeName,
			Unit:     string(it.Unit),
			Quantity: it.Quantity,
			UnitCost: it.UnitCost,
			Total:    it.Total,
			Notes:    it.Notes,
			Taxable:  it.Taxable,
		})
	}

	return doc
}

// Stages lists the waterfall from subtotal to grand total. Optional stages
// only appear when they add something, and only the fee lines of the
// budget's markup model are listed.
func Stages(t estimate.Totals, s estimate.Settings) []Stage {
	stages := []Stage{{Label: "Subtotal", Amount: t.Subtotal}}

	add := func(label string, pct, amount decimal.Decimal) {
		if amount.IsPositive() {
			stages = append(stages, Stage{Label: fmt.Sprintf("%s (%s%%)", label, pct.String()), Amount: amount})
		}
	}

	add("Scope Gap Buffer", s.ScopeGapBuffer, t.ScopeGapBuffer)
	add("General Conditions", s.GeneralConditions, t.GeneralConditions)

	if t.MarkupModel == estimate.MarkupOverheadProfit {
		add("Overhead", s.Overhead, t.Overhead)
		add("Profit", s.Profit, t.Profit)
	} else {
		add("GC Markup", s.GCMarkup, t.GCMarkup)
	}

	add("Bond & Insurance", s.BondInsurance, t.BondInsurance)
	add("Contingency", s.Contingency, t.Contingency)
	add("Sales Tax on taxable items", s.SalesTax, t.SalesTax)

	return append(stages, Stage{Label: "Grand Total", Amount: t.GrandTotal, Total: true})
}

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// USD formats an amount as dollars with thousands separators, rounded half
// away from zero to cents.
func USD(d decimal.Decimal) string {
	d = d.Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	return sign + "$" + usdPrinter.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// Qty drops trailing zeros: 12 stays 12, 2.50 becomes 2.5.
func Qty(d decimal.Decimal) string {
	return d.String()
}

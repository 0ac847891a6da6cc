package estimate

import (
	"github.com/shopspring/decimal"
)

// MarkupModel selects how contractor fee is charged on a budget.
type MarkupModel string

const (
	MarkupGC             MarkupModel = "gc_markup"
	MarkupOverheadProfit MarkupModel = "overhead_profit"
)

func (m MarkupModel) Valid() bool {
	return m == MarkupGC || m == MarkupOverheadProfit
}

var (
	rangeLow  = decimal.RequireFromString("0.85")
	rangeHigh = decimal.RequireFromString("1.15")
)

// Settings holds the percentage inputs of the markup waterfall. All values
// are whole percentages (8 means 8%).
type Settings struct {
	MarkupModel         MarkupModel     `json:"markup_model" yaml:"markup_model" validate:"omitempty,oneof=gc_markup overhead_profit"`
	GeneralConditions   decimal.Decimal `json:"general_conditions_percentage" yaml:"general_conditions_percentage" validate:"gte=0"`
	GCMarkup            decimal.Decimal `json:"gc_markup_percentage" yaml:"gc_markup_percentage" validate:"gte=0"`
	Overhead            decimal.Decimal `json:"overhead_percentage" yaml:"overhead_percentage" validate:"gte=0"`
	Profit              decimal.Decimal `json:"profit_percentage" yaml:"profit_percentage" validate:"gte=0"`
	BondInsurance       decimal.Decimal `json:"bond_insurance_percentage" yaml:"bond_insurance_percentage" validate:"gte=0"`
	Contingency         decimal.Decimal `json:"contingency_percentage" yaml:"contingency_percentage" validate:"gte=0"`
	SalesTax            decimal.Decimal `json:"sales_tax_percentage" yaml:"sales_tax_percentage" validate:"gte=0"`
	ScopeGapBuffer      decimal.Decimal `json:"scope_gap_buffer_percentage" yaml:"scope_gap_buffer_percentage" validate:"gte=0"`
	ApplyScopeGapBuffer bool            `json:"apply_scope_gap_buffer" yaml:"apply_scope_gap_buffer"`
}

// Model returns the markup model, defaulting to GC markup.
func (s Settings) Model() MarkupModel {
	if s.MarkupModel == MarkupOverheadProfit {
		return MarkupOverheadProfit
	}

	return MarkupGC
}

// Totals exposes every stage of the waterfall so renderers never recompute.
type Totals struct {
	MarkupModel       MarkupModel     `json:"markup_model"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	ScopeGapBuffer    decimal.Decimal `json:"scope_gap_buffer"`
	GeneralConditions decimal.Decimal `json:"general_conditions"`
	GCMarkup          decimal.Decimal `json:"gc_markup"`
	Overhead          decimal.Decimal `json:"overhead"`
	Profit            decimal.Decimal `json:"profit"`
	BondInsurance     decimal.Decimal `json:"bond_insurance"`
	Contingency       decimal.Decimal `json:"contingency"`
	TaxableBase       decimal.Decimal `json:"taxable_base"`
	SalesTax          decimal.Decimal `json:"sales_tax"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	RangeLow          decimal.Decimal `json:"range_low"`
	RangeHigh         decimal.Decimal `json:"range_high"`
}

// percent treats negative input as absent.
func percent(base, pct decimal.Decimal) decimal.Decimal {
	if !pct.IsPositive() {
		return decimal.Zero
	}

	return base.Mul(pct.Shift(-2))
}

// Calculate runs the markup waterfall over the line items.
func Calculate(items []LineItem, s Settings) Totals {
	t := Totals{MarkupModel: s.Model()}

	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(it.Total)

		if it.Taxable {
			t.TaxableBase = t.TaxableBase.Add(it.Total)
		}
	}

	if s.ApplyScopeGapBuffer {
		t.ScopeGapBuffer = percent(t.Subtotal, s.ScopeGapBuffer)
	}

	running := t.Subtotal.Add(t.ScopeGapBuffer)

	t.GeneralConditions = percent(running, s.GeneralConditions)
	running = running.Add(t.GeneralConditions)

	switch t.MarkupModel {
	case MarkupOverheadProfit:
		t.Overhead = percent(running, s.Overhead)
		running = running.Add(t.Overhead)

		t.Profit = percent(running, s.Profit)
		running = running.Add(t.Profit)
	default:
		t.GCMarkup = percent(running, s.GCMarkup)
		running = running.Add(t.GCMarkup)
	}

	t.BondInsurance = percent(running, s.BondInsurance)
	running = running.Add(t.BondInsurance)

	t.Contingency = percent(running, s.Contingency)
	running = running.Add(t.Contingency)

	t.SalesTax = percent(t.TaxableBase, s.SalesTax)

	t.GrandTotal = running.Add(t.SalesTax)
	t.RangeLow = t.GrandTotal.Mul(rangeLow)
	t.RangeHigh = t.GrandTotal.Mul(rangeHigh)

	return t
}

// CostPerSqft divides the grand total by the project footprint. ok is false
// when there is no footprint to divide by.
func CostPerSqft(grandTotal, sqft decimal.Decimal) (decimal.Decimal, bool) {
	if !sqft.IsPositive() {
		return decimal.Zero, false
	}

	return grandTotal.DivRound(sqft, 2), true
}

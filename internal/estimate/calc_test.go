package estimate_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
)

func item(total string, taxable bool) estimate.LineItem {
	return estimate.LineItem{
		ID:        uuid.New(),
		Kind:      estimate.KindCustom,
		ScopeName: "Allowance",
		Quantity:  decimal.NewFromInt(1),
		UnitCost:  dec(total),
		Total:     dec(total),
		Taxable:   taxable,
	}
}

func TestCalculate(t *testing.T) {
	type testCase struct {
		name     string
		items    []estimate.LineItem
		settings estimate.Settings
		want     map[string]string
	}

	tests := []testCase{
		{
			name:  "GeneralConditionsAndMarkup",
			items: []estimate.LineItem{item("60000", false), item("40000", false)},
			settings: estimate.Settings{
				GeneralConditions: dec("8"),
				GCMarkup:          dec("15"),
			},
			want: map[string]string{
				"subtotal":   "100000",
				"gc":         "8000",
				"markup":     "16200",
				"grand":      "124200",
				"range_low":  "105570",
				"range_high": "142830",
			},
		},
		{
			name:  "BufferOnlyWhenApplied",
			items: []estimate.LineItem{item("100000", false)},
			settings: estimate.Settings{
				ScopeGapBuffer: dec("10"),
			},
			want: map[string]string{
				"buffer": "0",
				"grand":  "100000",
			},
		},
		{
			name:  "BufferFeedsGeneralConditions",
			items: []estimate.LineItem{item("100000", false)},
			settings: estimate.Settings{
				ScopeGapBuffer:      dec("10"),
				ApplyScopeGapBuffer: true,
				GeneralConditions:   dec("10"),
			},
			want: map[string]string{
				"buffer": "10000",
				"gc":     "11000",
				"grand":  "121000",
			},
		},
		{
			name:  "OverheadProfitIgnoresMarkup",
			items: []estimate.LineItem{item("100000", false)},
			settings: estimate.Settings{
				MarkupModel: estimate.MarkupOverheadProfit,
				GCMarkup:    dec("15"),
				Overhead:    dec("10"),
				Profit:      dec("10"),
			},
			want: map[string]string{
				"markup":   "0",
				"overhead": "10000",
				"profit":   "11000",
				"grand":    "121000",
			},
		},
		{
			name:  "GCMarkupIgnoresOverheadProfit",
			items: []estimate.LineItem{item("100000", false)},
			settings: estimate.Settings{
				GCMarkup: dec("10"),
				Overhead: dec("10"),
				Profit:   dec("10"),
			},
			want: map[string]string{
				"overhead": "0",
				"profit":   "0",
				"grand":    "110000",
			},
		},
		{
			name:  "BondContingencyAndTax",
			items: []estimate.LineItem{item("80000", false), item("20000", true)},
			settings: estimate.Settings{
				BondInsurance: dec("2"),
				Contingency:   dec("5"),
				SalesTax:      dec("10"),
			},
			want: map[string]string{
				"bond":        "2000",
				"contingency": "5100",
				"taxable":     "20000",
				"tax":         "2000",
				"grand":       "109100",
			},
		},
		{
			name:  "NegativePercentagesCountAsZero",
			items: []estimate.LineItem{item("1000", true)},
			settings: estimate.Settings{
				GeneralConditions: dec("-8"),
				SalesTax:          dec("-5"),
			},
			want: map[string]string{
				"gc":    "0",
				"tax":   "0",
				"grand": "1000",
			},
		},
		{
			name: "Empty",
			want: map[string]string{
				"subtotal":  "0",
				"grand":     "0",
				"range_low": "0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimate.Calculate(tt.items, tt.settings)

			fields := map[string]decimal.Decimal{
				"subtotal":    got.Subtotal,
				"buffer":      got.ScopeGapBuffer,
				"gc":          got.GeneralConditions,
				"markup":      got.GCMarkup,
				"overhead":    got.Overhead,
				"profit":      got.Profit,
				"bond":        got.BondInsurance,
				"contingency": got.Contingency,
				"taxable":     got.TaxableBase,
				"tax":         got.SalesTax,
				"grand":       got.GrandTotal,
				"range_low":   got.RangeLow,
				"range_high":  got.RangeHigh,
			}

			for name, want := range tt.want {
				assertDecimal(t, want, fields[name], name)
			}
		})
	}
}

func TestCalculate_Range(t *testing.T) {
	for _, grand := range []string{"0", "1", "0.01", "124200", "98765.43"} {
		got := estimate.Calculate([]estimate.LineItem{item(grand, false)}, estimate.Settings{})

		assert.True(t, got.RangeLow.Equal(got.GrandTotal.Mul(dec("0.85"))), grand)
		assert.True(t, got.RangeHigh.Equal(got.GrandTotal.Mul(dec("1.15"))), grand)
	}
}

func TestCalculate_Monotonic(t *testing.T) {
	items := []estimate.LineItem{item("50000", false), item("12500.50", true)}

	base := estimate.Settings{
		GeneralConditions:   dec("8"),
		GCMarkup:            dec("12"),
		Overhead:            dec("5"),
		Profit:              dec("5"),
		BondInsurance:       dec("1.5"),
		Contingency:         dec("3"),
		SalesTax:            dec("8.25"),
		ScopeGapBuffer:      dec("10"),
		ApplyScopeGapBuffer: true,
	}

	bumps := map[string]func(s *estimate.Settings){
		"GeneralConditions": func(s *estimate.Settings) { s.GeneralConditions = s.GeneralConditions.Add(dec("1")) },
		"GCMarkup":          func(s *estimate.Settings) { s.GCMarkup = s.GCMarkup.Add(dec("1")) },
		"Overhead":          func(s *estimate.Settings) { s.Overhead = s.Overhead.Add(dec("1")) },
		"Profit":            func(s *estimate.Settings) { s.Profit = s.Profit.Add(dec("1")) },
		"BondInsurance":     func(s *estimate.Settings) { s.BondInsurance = s.BondInsurance.Add(dec("1")) },
		"Contingency":       func(s *estimate.Settings) { s.Contingency = s.Contingency.Add(dec("1")) },
		"SalesTax":          func(s *estimate.Settings) { s.SalesTax = s.SalesTax.Add(dec("1")) },
		"ScopeGapBuffer":    func(s *estimate.Settings) { s.ScopeGapBuffer = s.ScopeGapBuffer.Add(dec("1")) },
	}

	for _, model := range []estimate.MarkupModel{estimate.MarkupGC, estimate.MarkupOverheadProfit} {
		s := base
		s.MarkupModel = model

		before := estimate.Calculate(items, s)
		assert.True(t, before.GrandTotal.GreaterThanOrEqual(before.Subtotal))

		for name, bump := range bumps {
			bumped := s
			bump(&bumped)

			after := estimate.Calculate(items, bumped)
			assert.True(t, after.GrandTotal.GreaterThanOrEqual(before.GrandTotal), "%s/%s", model, name)
		}
	}
}

func TestCostPerSqft(t *testing.T) {
	v, ok := estimate.CostPerSqft(dec("124200"), dec("1200"))
	assert.True(t, ok)
	assertDecimal(t, "103.5", v)

	_, ok = estimate.CostPerSqft(dec("124200"), decimal.Zero)
	assert.False(t, ok)
}

package estimate

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
)

var two = decimal.NewFromInt(2)

// MatchTier returns the first tier containing qty, in declared order.
// Catalog loading rejects overlapping tiers, so for loaded data at most one matches.
func MatchTier(tiers []catalog.ScaleDiscount, qty decimal.Decimal) (catalog.ScaleDiscount, bool) {
	for _, t := range tiers {
		if t.Contains(qty) {
			return t, true
		}
	}

	return catalog.ScaleDiscount{}, false
}

// EffectivePercent is the discount percent applied to an assembly at qty.
// distinctTypes is the number of distinct assembly types in the budget,
// including this one and excluding the common area.
//
// A negative percent on a conditional assembly is a baseline premium: full
// with one assembly type, halved with two, waived from three on.
func EffectivePercent(tiers []catalog.ScaleDiscount, conditional bool, qty decimal.Decimal, distinctTypes int) decimal.Decimal {
	tier, ok := MatchTier(tiers, qty)
	if !ok {
		return decimal.Zero
	}

	pct := tier.DiscountPercent
	if !pct.IsNegative() || !conditional {
		return pct
	}

	switch {
	case distinctTypes <= 1:
		return pct
	case distinctTypes == 2:
		return pct.Div(two)
	default:
		return decimal.Zero
	}
}

// ResolveUnitCost applies a discount percent to the summed component cost.
func ResolveUnitCost(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(1).Sub(percent.Shift(-2)))
}

// DistinctAssemblyTypes counts assembly ids among the items, ignoring the
// common area.
func DistinctAssemblyTypes(items []LineItem) int {
	seen := make(map[string]struct{})

	for _, it := range items {
		if it.Kind != KindAssembly || it.Assembly == nil {
			continue
		}

		seen[it.Assembly.ID] = struct{}{}
	}

	return len(seen)
}

func distinctWith(items []LineItem, assemblyID string) int {
	n := DistinctAssemblyTypes(items)

	for _, it := range items {
		if it.Kind == KindAssembly && it.Assembly != nil && it.Assembly.ID == assemblyID {
			return n
		}
	}

	return n + 1
}

// reprice recomputes an assembly item's unit cost and total in place and
// reports whether anything changed.
func reprice(li *LineItem, distinctTypes int) bool {
	ref := li.Assembly
	pct := EffectivePercent(ref.ScaleDiscounts, ref.Conditional, li.Quantity, distinctTypes)
	unitCost := ResolveUnitCost(ref.BaseUnitCost, pct)
	total := lineTotal(li.Quantity, unitCost)

	if unitCost.Equal(li.UnitCost) && total.Equal(li.Total) {
		return false
	}

	li.UnitCost = unitCost
	li.Total = total

	return true
}

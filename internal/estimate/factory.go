package estimate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
)

const DefaultCustomName = "Custom Item"

// ScopeItem prices qty units of a catalog scope at its default unit cost.
func ScopeItem(ref Reference, name string, qty decimal.Decimal) (LineItem, error) {
	if qty.IsNegative() {
		return LineItem{}, fmt.Errorf("%w: negative quantity for %q", ErrInvalidLineItem, name)
	}

	scope, ok := ref.Lookup(name)
	if !ok {
		return LineItem{}, fmt.Errorf("%w: %q", ErrUnknownScope, name)
	}

	li := LineItem{
		ID:        uuid.New(),
		Kind:      KindScope,
		ScopeName: scope.Name,
		Unit:      scope.Unit,
		Quantity:  qty,
		UnitCost:  scope.DefaultUnitCost,
	}
	li.recalc()

	return li, nil
}

// UnpricedItem is the placeholder for a scope the catalog does not know.
// It stays at $0 until someone enters a unit cost.
func UnpricedItem(name string, qty decimal.Decimal) LineItem {
	return LineItem{
		ID:        uuid.New(),
		Kind:      KindScope,
		ScopeName: name,
		Unit:      catalog.UnitEach,
		Quantity:  qty,
		UnitCost:  decimal.Zero,
		Total:     decimal.Zero,
		Unpriced:  true,
	}
}

// CustomItem is a user-defined lump sum starting at quantity 1 and cost 0.
func CustomItem(name string) LineItem {
	if name == "" {
		name = DefaultCustomName
	}

	return LineItem{
		ID:        uuid.New(),
		Kind:      KindCustom,
		ScopeName: name,
		Unit:      catalog.UnitLumpSum,
		Quantity:  decimal.NewFromInt(1),
		UnitCost:  decimal.Zero,
		Total:     decimal.Zero,
	}
}

// AssemblyBaseCost sums the default cost of every component the catalog
// knows. Components naming an unknown scope are left out of the sum.
func AssemblyBaseCost(ref Reference, a catalog.Assembly) decimal.Decimal {
	sum := decimal.Zero

	for _, it := range a.Items {
		scope, ok := ref.Lookup(it.ScopeName)
		if !ok {
			continue
		}

		sum = sum.Add(it.Quantity.Mul(scope.DefaultUnitCost))
	}

	return sum
}

// MissingScopes lists the components of a that cannot be priced.
func MissingScopes(ref Reference, a catalog.Assembly) []string {
	var missing []string

	for _, it := range a.Items {
		if _, ok := ref.Lookup(it.ScopeName); !ok {
			missing = append(missing, it.ScopeName)
		}
	}

	return missing
}

// AssemblyItem collapses an assembly into one line item priced through the
// discount resolver.
func AssemblyItem(ref Reference, a catalog.Assembly, qty decimal.Decimal, distinctTypes int) (LineItem, error) {
	if qty.IsNegative() {
		return LineItem{}, fmt.Errorf("%w: negative quantity for %q", ErrInvalidLineItem, a.Name)
	}

	li := LineItem{
		ID:        uuid.New(),
		Kind:      KindAssembly,
		ScopeName: a.Name,
		Unit:      catalog.UnitEach,
		Quantity:  qty,
		Notes:     a.Description,
		Assembly: &AssemblyRef{
			ID:             a.ID,
			Name:           a.Name,
			Category:       a.Category,
			Footprint:      a.SquareFeet,
			BaseUnitCost:   AssemblyBaseCost(ref, a),
			ScaleDiscounts: append([]catalog.ScaleDiscount(nil), a.ScaleDiscounts...),
			Conditional:    a.ConditionalBaselineMultiplier,
		},
	}
	reprice(&li, distinctTypes)

	return li, nil
}

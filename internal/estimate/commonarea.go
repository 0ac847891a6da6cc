package estimate

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
)

const (
	CommonAreaID       = "common-area-dynamic"
	CommonAreaCategory = "Common Area"

	wallHeightFt    = 10
	sqftPerFixture  = 100
	ceilingScope    = "Accoustical Ceiling Grid and Tile"
	paintScope      = "Interior Paint (include total sqft of wall and ceiling being painted)"
	flooringScope   = "Carpet Tile"
	baseScope       = "Rubber Base"
	electricalScope = "General Electrical Distribution for Tenant Improvement"
	lightingScope   = "New Troffer Lighting"
	ductScope       = "New General Duct Work and Distribution"
)

// CommonAreaAssembly sizes the shared-space package for sqft of unallocated
// floor, treating it as a square room with 10 ft walls.
func CommonAreaAssembly(sqft int64) catalog.Assembly {
	side := int64(math.Round(math.Sqrt(float64(sqft))))
	perimeter := 4 * side
	paint := perimeter * wallHeightFt
	fixtures := (sqft + sqftPerFixture - 1) / sqftPerFixture

	area := decimal.NewFromInt(sqft)

	return catalog.Assembly{
		ID:          CommonAreaID,
		Name:        fmt.Sprintf("Common Area (%d SF)", sqft),
		Description: "Shared space finishes sized from the square footage left after offices, restrooms and other assemblies",
		Category:    CommonAreaCategory,
		SquareFeet:  decimal.NewNullDecimal(area),
		Items: []catalog.AssemblyItem{
			{ScopeName: ceilingScope, Quantity: area, Notes: fmt.Sprintf("%d SF ceiling", sqft)},
			{ScopeName: paintScope, Quantity: decimal.NewFromInt(paint), Notes: fmt.Sprintf("%d LF perimeter x %d' tall = %d SF walls", perimeter, wallHeightFt, paint)},
			{ScopeName: flooringScope, Quantity: area, Notes: fmt.Sprintf("%d SF floor", sqft)},
			{ScopeName: baseScope, Quantity: decimal.NewFromInt(perimeter), Notes: fmt.Sprintf("%d LF perimeter", perimeter)},
			{ScopeName: electricalScope, Quantity: area, Notes: fmt.Sprintf("%d SF electrical distribution", sqft)},
			{ScopeName: lightingScope, Quantity: decimal.NewFromInt(fixtures), Notes: fmt.Sprintf("%d fixtures at 1 per %d SF", fixtures, sqftPerFixture)},
			{ScopeName: ductScope, Quantity: area, Notes: fmt.Sprintf("%d SF duct work distribution", sqft)},
		},
	}
}

// UsedSquareFeet is the footprint consumed by assemblies other than the
// common area: footprint times quantity, for items that declare one.
func UsedSquareFeet(items []LineItem) decimal.Decimal {
	used := decimal.Zero

	for _, it := range items {
		if it.Kind != KindAssembly || it.Assembly == nil || !it.Assembly.Footprint.Valid {
			continue
		}

		used = used.Add(it.Assembly.Footprint.Decimal.Mul(it.Quantity))
	}

	return used
}

// RemainingSquareFeet is total minus used, rounded to whole square feet.
// It may be zero or negative.
func RemainingSquareFeet(items []LineItem, totalSqft decimal.Decimal) decimal.Decimal {
	return totalSqft.Sub(UsedSquareFeet(items)).Round(0)
}

func commonAreaItem(ref Reference, sqft int64, id uuid.UUID) LineItem {
	a := CommonAreaAssembly(sqft)
	base := AssemblyBaseCost(ref, a)

	li := LineItem{
		ID:        id,
		Kind:      KindCommonArea,
		ScopeName: a.Name,
		Unit:      catalog.UnitEach,
		Quantity:  decimal.NewFromInt(1),
		UnitCost:  base,
		Notes:     a.Description,
		Assembly: &AssemblyRef{
			ID:           a.ID,
			Name:         a.Name,
			Category:     a.Category,
			Footprint:    a.SquareFeet,
			BaseUnitCost: base,
		},
	}
	li.recalc()

	return li
}

func sameCommonArea(a, b LineItem) bool {
	return a.Kind == b.Kind &&
		a.ScopeName == b.ScopeName &&
		a.Notes == b.Notes &&
		a.Quantity.Equal(b.Quantity) &&
		a.UnitCost.Equal(b.UnitCost) &&
		a.Total.Equal(b.Total) &&
		a.Assembly != nil && b.Assembly != nil &&
		a.Assembly.ID == b.Assembly.ID &&
		a.Assembly.Category == b.Assembly.Category &&
		a.Assembly.Footprint.Valid == b.Assembly.Footprint.Valid &&
		a.Assembly.Footprint.Decimal.Equal(b.Assembly.Footprint.Decimal) &&
		a.Assembly.BaseUnitCost.Equal(b.Assembly.BaseUnitCost) &&
		len(a.Assembly.ScaleDiscounts) == 0 && len(b.Assembly.ScaleDiscounts) == 0
}

// sizeCommonArea keeps at most one common-area item, sized to the remaining
// footprint, and drops it when nothing remains. The surviving item keeps its
// id and taxable flag.
func sizeCommonArea(ref Reference, items []LineItem, totalSqft decimal.Decimal) ([]LineItem, bool) {
	remaining := RemainingSquareFeet(items, totalSqft)

	existing := -1
	changed := false
	out := make([]LineItem, 0, len(items)+1)

	for _, it := range items {
		if it.Kind != KindCommonArea {
			out = append(out, it)
			continue
		}

		if existing >= 0 || !remaining.IsPositive() {
			changed = true
			continue
		}

		existing = len(out)
		out = append(out, it)
	}

	if !remaining.IsPositive() {
		return out, changed
	}

	if existing < 0 {
		return append(out, commonAreaItem(ref, remaining.IntPart(), uuid.New())), true
	}

	current := out[existing]
	desired := commonAreaItem(ref, remaining.IntPart(), current.ID)
	desired.Taxable = current.Taxable

	if sameCommonArea(current, desired) {
		return out, changed
	}

	out[existing] = desired

	return out, true
}

package estimate

import (
	"github.com/shopspring/decimal"
)

// Reconcile brings derived state back in line with the items: every total is
// quantity times unit cost, assemblies are repriced for the current assembly
// mix, and the common-area item is sized to the remaining footprint. The
// input is not modified. changed is false when the output equals the input,
// so running it again on its own output is a no-op.
func Reconcile(ref Reference, items []LineItem, totalSqft decimal.Decimal) ([]LineItem, bool) {
	out := cloneItems(items)
	changed := false

	distinct := DistinctAssemblyTypes(out)

	for i := range out {
		it := &out[i]

		if it.Kind == KindAssembly && it.Assembly != nil {
			if reprice(it, distinct) {
				changed = true
			}

			continue
		}

		total := lineTotal(it.Quantity, it.UnitCost)
		if !total.Equal(it.Total) {
			it.Total = total
			changed = true
		}
	}

	out, sized := sizeCommonArea(ref, out, totalSqft)

	return out, changed || sized
}

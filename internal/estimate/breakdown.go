package estimate

import (
	"github.com/shopspring/decimal"
)

const (
	CustomCategory = "Custom Items"
	OtherCategory  = "Other"
)

// Palette is the fixed color cycle for breakdown charts.
var Palette = []string{
	"#1B2D4F", "#F7931E", "#3b82f6", "#10b981", "#f59e0b", "#8b5cf6", "#ec4899",
	"#06b6d4", "#f43f5e", "#84cc16", "#6366f1", "#14b8a6", "#f97316", "#a855f7",
}

type CategoryTotal struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

type bucket struct {
	order  []string
	totals map[string]decimal.Decimal
}

func newBucket(order ...string) *bucket {
	b := &bucket{totals: make(map[string]decimal.Decimal)}
	for _, name := range order {
		b.seed(name)
	}

	return b
}

func (b *bucket) seed(name string) {
	if _, ok := b.totals[name]; ok {
		return
	}

	b.order = append(b.order, name)
	b.totals[name] = decimal.Zero
}

func (b *bucket) add(name string, v decimal.Decimal) {
	b.seed(name)
	b.totals[name] = b.totals[name].Add(v)
}

// Breakdown groups line item totals by category. Assembly categories come
// first in catalog order, then scope categories in catalog order, then scopes
// the catalog does not know, then custom items. Empty categories are dropped
// and colors are assigned by position.
func Breakdown(ref Reference, items []LineItem) []CategoryTotal {
	assemblies := newBucket(ref.AssemblyCategories()...)
	scopes := newBucket(ref.Categories()...)
	scopes.seed(OtherCategory)
	custom := newBucket(CustomCategory)

	for _, it := range items {
		switch {
		case it.IsAssembly() && it.Assembly != nil:
			assemblies.add(it.Assembly.Category, it.Total)
		case it.Kind == KindCustom:
			custom.add(CustomCategory, it.Total)
		default:
			category := OtherCategory
			if scope, ok := ref.Lookup(it.ScopeName); ok && !it.Unpriced {
				category = scope.Category
			}

			scopes.add(category, it.Total)
		}
	}

	var out []CategoryTotal

	for _, b := range []*bucket{assemblies, scopes, custom} {
		for _, name := range b.order {
			v := b.totals[name]
			if v.IsZero() {
				continue
			}

			out = append(out, CategoryTotal{
				Name:  name,
				Value: v,
				Color: Palette[len(out)%len(Palette)],
			})
		}
	}

	return out
}

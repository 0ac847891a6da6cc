// Package catalog holds the reference data the estimator prices against:
// the scope-of-work table, pre-packaged assemblies, project templates and
// cost-per-square-foot benchmarks. A Catalog is immutable once built.
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// ScopeOfWork is a priced unit of construction work.
type ScopeOfWork struct {
	Name            string          `json:"name"`
	Unit            UnitType        `json:"unit_type"`
	DefaultUnitCost decimal.Decimal `json:"default_unit_cost"`
	Category        string          `json:"category"`
}

type AssemblyItem struct {
	ScopeName string          `json:"scope_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
}

// ScaleDiscount is a quantity tier. A negative DiscountPercent inflates the
// price instead of reducing it.
type ScaleDiscount struct {
	MinQty          decimal.Decimal `json:"min_qty"`
	MaxQty          decimal.Decimal `json:"max_qty"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// Contains reports whether qty falls inside the tier, bounds inclusive.
func (s ScaleDiscount) Contains(qty decimal.Decimal) bool {
	return qty.GreaterThanOrEqual(s.MinQty) && qty.LessThanOrEqual(s.MaxQty)
}

func (s ScaleDiscount) overlaps(o ScaleDiscount) bool {
	return s.MinQty.LessThanOrEqual(o.MaxQty) && o.MinQty.LessThanOrEqual(s.MaxQty)
}

// Assembly bundles scope items into a single purchasable package.
type Assembly struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Category       string              `json:"category"`
	Items          []AssemblyItem      `json:"items"`
	ScaleDiscounts []ScaleDiscount     `json:"scale_discounts,omitempty"`
	SquareFeet     decimal.NullDecimal `json:"square_feet"`

	// ConditionalBaselineMultiplier limits a negative tier to budgets with
	// few distinct assembly types.
	ConditionalBaselineMultiplier bool `json:"conditional_baseline_multiplier,omitempty"`
}

type TemplateItem struct {
	ScopeName string          `json:"scope_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
}

// Template seeds a new budget with line items and default percentages.
type Template struct {
	Type                     string          `json:"type"`
	Name                     string          `json:"name"`
	Description              string          `json:"description"`
	Benchmark                string          `json:"benchmark"`
	DefaultGCMarkup          decimal.Decimal `json:"default_gc_markup"`
	DefaultGeneralConditions decimal.Decimal `json:"default_general_conditions"`
	ScopeGapBuffer           bool            `json:"scope_gap_buffer"`
	ScopeGapBufferPercentage decimal.Decimal `json:"scope_gap_buffer_percentage"`
	Items                    []TemplateItem  `json:"items"`
}

// Benchmark is a typical cost-per-square-foot band.
type Benchmark struct {
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Average decimal.Decimal `json:"average"`
}

// Contains reports whether a cost per square foot sits inside the band.
func (b Benchmark) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(b.Min) && v.LessThanOrEqual(b.Max)
}

type Catalog struct {
	scopes     []ScopeOfWork
	scopeIdx   map[string]int
	aliases    map[string]string
	assemblies []Assembly
	asmIdx     map[string]int
	templates  []Template
	benchmarks map[string]Benchmark

	categories         []string
	assemblyCategories []string
}

// Lookup finds a scope by exact name, falling back to the built-in alias table.
func (c *Catalog) Lookup(name string) (ScopeOfWork, bool) {
	if i, ok := c.scopeIdx[name]; ok {
		return c.scopes[i], true
	}

	if canonical, ok := c.aliases[name]; ok {
		if i, ok := c.scopeIdx[canonical]; ok {
			return c.scopes[i], true
		}
	}

	return ScopeOfWork{}, false
}

func (c *Catalog) Scopes() []ScopeOfWork {
	return append([]ScopeOfWork(nil), c.scopes...)
}

// ScopesIn returns the scopes of one category in table order.
func (c *Catalog) ScopesIn(category string) []ScopeOfWork {
	var out []ScopeOfWork

	for _, s := range c.scopes {
		if s.Category == category {
			out = append(out, s)
		}
	}

	return out
}

// Categories returns scope categories in first-seen table order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

func (c *Catalog) Assembly(id string) (Assembly, bool) {
	i, ok := c.asmIdx[id]
	if !ok {
		return Assembly{}, false
	}

	return c.assemblies[i], true
}

func (c *Catalog) Assemblies() []Assembly {
	return append([]Assembly(nil), c.assemblies...)
}

// AssemblyCategories returns assembly categories in first-seen order.
func (c *Catalog) AssemblyCategories() []string {
	return append([]string(nil), c.assemblyCategories...)
}

func (c *Catalog) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

func (c *Catalog) Template(templateType string) (Template, bool) {
	for _, t := range c.templates {
		if t.Type == templateType {
			return t, true
		}
	}

	return Template{}, false
}

func (c *Catalog) Benchmark(projectType string) (Benchmark, bool) {
	b, ok := c.benchmarks[projectType]
	return b, ok
}

func (c *Catalog) Benchmarks() map[string]Benchmark {
	out := make(map[string]Benchmark, len(c.benchmarks))
	for k, v := range c.benchmarks {
		out[k] = v
	}

	return out
}

func firstSeen(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		if seen[v] {
			continue
		}

		seen[v] = true
		out = append(out, v)
	}

	return out
}

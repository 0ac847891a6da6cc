package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultDocument []byte

type document struct {
	Scopes     []scopeDoc          `yaml:"scopes" validate:"required,min=1,dive"`
	Assemblies []assemblyDoc       `yaml:"assemblies" validate:"dive"`
	Templates  []templateDoc       `yaml:"templates" validate:"dive"`
	Aliases    map[string]string   `yaml:"aliases" validate:"dive,keys,required,endkeys,required"`
	Benchmarks map[string]benchDoc `yaml:"benchmarks" validate:"dive"`
}

type scopeDoc struct {
	Category string  `yaml:"category" validate:"required"`
	Name     string  `yaml:"name" validate:"required"`
	Unit     string  `yaml:"unit" validate:"required"`
	Cost     float64 `yaml:"cost" validate:"gte=0"`
}

type assemblyDoc struct {
	ID             string        `yaml:"id" validate:"required"`
	Name           string        `yaml:"name" validate:"required"`
	Description    string        `yaml:"description"`
	Category       string        `yaml:"category" validate:"required"`
	SquareFeet     *float64      `yaml:"square_feet" validate:"omitempty,gt=0"`
	Conditional    bool          `yaml:"conditional_baseline_multiplier"`
	ScaleDiscounts []discountDoc `yaml:"scale_discounts" validate:"dive"`
	Items          []itemDoc     `yaml:"items" validate:"required,min=1,dive"`
}

type discountDoc struct {
	MinQty          float64 `yaml:"min_qty" validate:"gte=0"`
	MaxQty          float64 `yaml:"max_qty" validate:"gtefield=MinQty"`
	DiscountPercent float64 `yaml:"discount_percent" validate:"gt=-100,lt=100"`
}

type itemDoc struct {
	Scope    string  `yaml:"scope" validate:"required"`
	Quantity float64 `yaml:"quantity" validate:"gte=0"`
	Notes    string  `yaml:"notes"`
}

type templateDoc struct {
	Type                     string    `yaml:"type" validate:"required"`
	Name                     string    `yaml:"name" validate:"required"`
	Description              string    `yaml:"description"`
	Benchmark                string    `yaml:"benchmark"`
	DefaultGCMarkup          float64   `yaml:"default_gc_markup" validate:"gte=0"`
	DefaultGeneralConditions float64   `yaml:"default_general_conditions" validate:"gte=0"`
	ScopeGapBuffer           bool      `yaml:"scope_gap_buffer"`
	ScopeGapBufferPercentage float64   `yaml:"scope_gap_buffer_percentage" validate:"gte=0"`
	Items                    []itemDoc `yaml:"items" validate:"dive"`
}

type benchDoc struct {
	Min     float64 `yaml:"min" validate:"gte=0"`
	Max     float64 `yaml:"max" validate:"gtefield=Min"`
	Average float64 `yaml:"average" validate:"gte=0"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return parse(defaultDocument)
}

// Load reads a catalog document in the same YAML layout as the built-in one.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	return parse(raw)
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	scopes := make([]ScopeOfWork, 0, len(doc.Scopes))

	for _, s := range doc.Scopes {
		unit, err := ParseUnitType(s.Unit)
		if err != nil {
			return nil, fmt.Errorf("%w: scope %q: %w", ErrInvalidCatalog, s.Name, err)
		}

		scopes = append(scopes, ScopeOfWork{
			Name:            s.Name,
			Unit:            unit,
			DefaultUnitCost: decimal.NewFromFloat(s.Cost),
			Category:        s.Category,
		})
	}

	assemblies := make([]Assembly, 0, len(doc.Assemblies))
	for _, a := range doc.Assemblies {
		assemblies = append(assemblies, a.toAssembly())
	}

	templates := make([]Template, 0, len(doc.Templates))
	for _, t := range doc.Templates {
		templates = append(templates, t.toTemplate())
	}

	benchmarks := make(map[string]Benchmark, len(doc.Benchmarks))
	for kind, b := range doc.Benchmarks {
		benchmarks[kind] = Benchmark{
			Min:     decimal.NewFromFloat(b.Min),
			Max:     decimal.NewFromFloat(b.Max),
			Average: decimal.NewFromFloat(b.Average),
		}
	}

	return build(scopes, assemblies, templates, doc.Aliases, benchmarks)
}

func (a assemblyDoc) toAssembly() Assembly {
	out := Assembly{
		ID:                            a.ID,
		Name:                          a.Name,
		Description:                   a.Description,
		Category:                      a.Category,
		ConditionalBaselineMultiplier: a.Conditional,
	}

	if a.SquareFeet != nil {
		out.SquareFeet = decimal.NewNullDecimal(decimal.NewFromFloat(*a.SquareFeet))
	}

	for _, d := range a.ScaleDiscounts {
		out.ScaleDiscounts = append(out.ScaleDiscounts, ScaleDiscount{
			MinQty:          decimal.NewFromFloat(d.MinQty),
			MaxQty:          decimal.NewFromFloat(d.MaxQty),
			DiscountPercent: decimal.NewFromFloat(d.DiscountPercent),
		})
	}

	for _, it := range a.Items {
		out.Items = append(out.Items, AssemblyItem{
			ScopeName: it.Scope,
			Quantity:  decimal.NewFromFloat(it.Quantity),
			Notes:     it.Notes,
		})
	}

	return out
}

func (t templateDoc) toTemplate() Template {
	out := Template{
		Type:                     t.Type,
		Name:                     t.Name,
		Description:              t.Description,
		Benchmark:                t.Benchmark,
		DefaultGCMarkup:          decimal.NewFromFloat(t.DefaultGCMarkup),
		DefaultGeneralConditions: decimal.NewFromFloat(t.DefaultGeneralConditions),
		ScopeGapBuffer:           t.ScopeGapBuffer,
		ScopeGapBufferPercentage: decimal.NewFromFloat(t.ScopeGapBufferPercentage),
		Items:                    make([]TemplateItem, 0, len(t.Items)),
	}

	for _, it := range t.Items {
		out.Items = append(out.Items, TemplateItem{
			ScopeName: it.Scope,
			Quantity:  decimal.NewFromFloat(it.Quantity),
			Notes:     it.Notes,
		})
	}

	return out
}

// build indexes the data and enforces the cross-record rules struct tags
// cannot express.
func build(
	scopes []ScopeOfWork,
	assemblies []Assembly,
	templates []Template,
	aliases map[string]string,
	benchmarks map[string]Benchmark,
) (*Catalog, error) {
	var errs []error

	c := &Catalog{
		scopes:     scopes,
		scopeIdx:   make(map[string]int, len(scopes)),
		aliases:    make(map[string]string, len(aliases)),
		assemblies: assemblies,
		asmIdx:     make(map[string]int, len(assemblies)),
		templates:  templates,
		benchmarks: benchmarks,
	}

	categories := make([]string, 0, len(scopes))

	for i, s := range scopes {
		if _, dup := c.scopeIdx[s.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate scope %q", s.Name))
			continue
		}

		if s.DefaultUnitCost.IsNegative() {
			errs = append(errs, fmt.Errorf("scope %q has a negative cost", s.Name))
		}

		c.scopeIdx[s.Name] = i
		categories = append(categories, s.Category)
	}

	assemblyCategories := make([]string, 0, len(assemblies))

	for i, a := range assemblies {
		if _, dup := c.asmIdx[a.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate assembly %q", a.ID))
			continue
		}

		if err := checkTiers(a); err != nil {
			errs = append(errs, err)
		}

		c.asmIdx[a.ID] = i
		assemblyCategories = append(assemblyCategories, a.Category)
	}

	for from, to := range aliases {
		if _, ok := c.scopeIdx[to]; !ok {
			errs = append(errs, fmt.Errorf("alias %q points at unknown scope %q", from, to))
			continue
		}

		c.aliases[from] = to
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}

	c.categories = firstSeen(categories)
	c.assemblyCategories = firstSeen(assemblyCategories)

	return c, nil
}

func checkTiers(a Assembly) error {
	for i, t := range a.ScaleDiscounts {
		if t.MinQty.GreaterThan(t.MaxQty) {
			return fmt.Errorf("assembly %q tier %d: min above max", a.ID, i)
		}

		for j := i + 1; j < len(a.ScaleDiscounts); j++ {
			if t.overlaps(a.ScaleDiscounts[j]) {
				return fmt.Errorf("assembly %q tiers %d and %d overlap", a.ID, i, j)
			}
		}
	}

	return nil
}

// WithScopes returns a copy of c whose scope table is replaced, keeping
// assemblies, templates and benchmarks. Aliases that no longer resolve are dropped.
func (c *Catalog) WithScopes(scopes []ScopeOfWork) (*Catalog, error) {
	known := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		known[s.Name] = true
	}

	aliases := make(map[string]string, len(c.aliases))

	for from, to := range c.aliases {
		if known[to] {
			aliases[from] = to
		}
	}

	return build(scopes, c.Assemblies(), c.Templates(), aliases, c.Benchmarks())
}

// Open builds the catalog a process runs with: the YAML at path or the
// built-in one, with its scope table replaced by scopesCSV when given.
func Open(path, scopesCSV string) (*Catalog, error) {
	var (
		c   *Catalog
		err error
	)

	if path != "" {
		c, err = LoadFile(path)
	} else {
		c, err = Default()
	}

	if err != nil {
		return nil, err
	}

	if scopesCSV == "" {
		return c, nil
	}

	f, err := os.Open(scopesCSV)
	if err != nil {
		return nil, fmt.Errorf("opening scope table: %w", err)
	}
	defer f.Close()

	scopes, err := ParseScopesCSV(f)
	if err != nil {
		return nil, err
	}

	return c.WithScopes(scopes)
}

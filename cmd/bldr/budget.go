package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

const cliUser = "cli"

// budgetFile is the YAML a budget is written in:
//
//	project_name: Suite 300
//	template: office-renovation
//	total_sqft: 1000
//	settings: {gc_markup_percentage: 12}
//	items:
//	  - {assembly: private-office, quantity: 2}
//	  - {scope: Carpet Tile, quantity: 800}
//	  - {custom: Espresso bar, unit_cost: 8500, taxable: true}
type budgetFile struct {
	Name          string         `yaml:"project_name"`
	Address       string         `yaml:"address"`
	GCCompanyName string         `yaml:"gc_company_name"`
	Notes         string         `yaml:"notes"`
	ProjectType   string         `yaml:"project_type"`
	Template      string         `yaml:"template"`
	TotalSqft     float64        `yaml:"total_sqft"`
	Settings      budgetSettings `yaml:"settings"`
	Items         []budgetItem   `yaml:"items"`
}

// budgetSettings overrides template defaults only for the keys present.
type budgetSettings struct {
	MarkupModel       string   `yaml:"markup_model"`
	GeneralConditions *float64 `yaml:"general_conditions_percentage"`
	GCMarkup          *float64 `yaml:"gc_markup_percentage"`
	Overhead          *float64 `yaml:"overhead_percentage"`
	Profit            *float64 `yaml:"profit_percentage"`
	BondInsurance     *float64 `yaml:"bond_insurance_percentage"`
	Contingency       *float64 `yaml:"contingency_percentage"`
	SalesTax          *float64 `yaml:"sales_tax_percentage"`
	ScopeGapBuffer    *float64 `yaml:"scope_gap_buffer_percentage"`
	ApplyBuffer       *bool    `yaml:"apply_scope_gap_buffer"`
}

type budgetItem struct {
	Scope    string   `yaml:"scope"`
	Assembly string   `yaml:"assembly"`
	Custom   string   `yaml:"custom"`
	Quantity *float64 `yaml:"quantity"`
	UnitCost *float64 `yaml:"unit_cost"`
	Notes    string   `yaml:"notes"`
	Taxable  bool     `yaml:"taxable"`
}

var errAmbiguousItem = errors.New("each item needs exactly one of scope, assembly or custom")

func parseBudget(r io.Reader) (budgetFile, error) {
	var b budgetFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&b); err != nil {
		return budgetFile{}, fmt.Errorf("decoding budget file: %w", err)
	}

	return b, nil
}

// toProject prices the budget through a draft, the same path the API takes.
func (b budgetFile) toProject(c *catalog.Catalog) (*project.Project, error) {
	d := estimate.NewDraft(c)

	p := &project.Project{
		UserID:        cliUser,
		Name:          b.Name,
		Address:       b.Address,
		GCCompanyName: b.GCCompanyName,
		Notes:         b.Notes,
		ProjectType:   b.ProjectType,
		TemplateType:  b.Template,
		Status:        project.StatusDraft,
	}

	if b.Template != "" {
		t, ok := c.Template(b.Template)
		if !ok {
			return nil, fmt.Errorf("%w: unknown template %q", project.ErrInvalidProject, b.Template)
		}

		if skipped := d.ApplyTemplate(t); len(skipped) > 0 {
			slog.Warn("template scopes not in catalog", "template", t.Type, "scopes", skipped)
		}

		if p.ProjectType == "" {
			p.ProjectType = t.Benchmark
		}
	}

	if err := d.SetSettings(b.Settings.apply(d.Settings())); err != nil {
		return nil, err
	}

	for i, it := range b.Items {
		if err := it.add(d); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	if err := d.SetTotalSqft(decimal.NewFromFloat(b.TotalSqft)); err != nil {
		return nil, err
	}

	p.Settings = d.Settings()
	p.TotalSqft = d.TotalSqft()
	p.LineItems = d.Items()

	return p, nil
}

func (s budgetSettings) apply(base estimate.Settings) estimate.Settings {
	if s.MarkupModel != "" {
		base.MarkupModel = estimate.MarkupModel(s.MarkupModel)
	}

	for _, o := range []struct {
		dst *decimal.Decimal
		v   *float64
	}{
		{&base.GeneralConditions, s.GeneralConditions},
		{&base.GCMarkup, s.GCMarkup},
		{&base.Overhead, s.Overhead},
		{&base.Profit, s.Profit},
		{&base.BondInsurance, s.BondInsurance},
		{&base.Contingency, s.Contingency},
		{&base.SalesTax, s.SalesTax},
		{&base.ScopeGapBuffer, s.ScopeGapBuffer},
	} {
		if o.v != nil {
			*o.dst = decimal.NewFromFloat(*o.v)
		}
	}

	if s.ApplyBuffer != nil {
		base.ApplyScopeGapBuffer = *s.ApplyBuffer
	}

	return base
}

func (it budgetItem) add(d *estimate.Draft) error {
	qty := decimal.NewFromInt(1)
	if it.Quantity != nil {
		qty = decimal.NewFromFloat(*it.Quantity)
	}

	var (
		li  estimate.LineItem
		err error
	)

	switch {
	case it.Scope != "" && it.Assembly == "" && it.Custom == "":
		li, err = d.AddScope(it.Scope, qty)
	case it.Assembly != "" && it.Scope == "" && it.Custom == "":
		li, err = d.AddAssembly(it.Assembly, qty)
	case it.Custom != "" && it.Scope == "" && it.Assembly == "":
		li = d.AddCustom(it.Custom)
		err = d.UpdateQuantity(li.ID, qty)
	default:
		return errAmbiguousItem
	}

	if err != nil {
		return err
	}

	if it.UnitCost != nil {
		if err := d.UpdateUnitCost(li.ID, decimal.NewFromFloat(*it.UnitCost)); err != nil {
			return err
		}
	}

	if it.Notes != "" {
		if err := d.UpdateNotes(li.ID, it.Notes); err != nil {
			return err
		}
	}

	if it.Taxable {
		return d.SetTaxable(li.ID, true)
	}

	return nil
}

// Package estimate is the budget calculation engine: it turns scope and
// assembly selections into priced line items, keeps derived items (assembly
// multipliers, the common-area package) consistent, and rolls everything up
// into a markup waterfall and a category breakdown.
//
// Everything here is synchronous and free of I/O.
package estimate

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
)

var (
	ErrUnknownScope         = errors.New("unknown scope of work")
	ErrUnknownAssembly      = errors.New("unknown assembly")
	ErrItemNotFound         = errors.New("line item not found")
	ErrManagedItem          = errors.New("line item is managed by the estimator")
	ErrInvalidLineItem      = errors.New("invalid line item")
	ErrInvalidSquareFootage = errors.New("total square footage must not be negative")
)

// Reference is the read-only reference data the engine prices against.
// *catalog.Catalog implements it.
type Reference interface {
	Lookup(name string) (catalog.ScopeOfWork, bool)
	Assembly(id string) (catalog.Assembly, bool)
	Categories() []string
	AssemblyCategories() []string
}

// Kind discriminates the line item variants.
type Kind string

const (
	KindScope      Kind = "scope"
	KindCustom     Kind = "custom"
	KindAssembly   Kind = "assembly"
	KindCommonArea Kind = "common_area"
)

func (k Kind) Valid() bool {
	switch k {
	case KindScope, KindCustom, KindAssembly, KindCommonArea:
		return true
	}

	return false
}

// AssemblyRef is carried only by assembly and common-area items. It keeps
// what the resolver needs so an item can be repriced without the catalog.
type AssemblyRef struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Category       string                  `json:"category"`
	Footprint      decimal.NullDecimal     `json:"footprint"`
	BaseUnitCost   decimal.Decimal         `json:"base_unit_cost"`
	ScaleDiscounts []catalog.ScaleDiscount `json:"scale_discounts,omitempty"`
	Conditional    bool                    `json:"conditional,omitempty"`
}

type LineItem struct {
	ID        uuid.UUID        `json:"id"`
	Kind      Kind             `json:"kind"`
	ScopeName string           `json:"scope_name"`
	Unit      catalog.UnitType `json:"unit_type"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  decimal.Decimal  `json:"unit_cost"`
	Total     decimal.Decimal  `json:"total"`
	Notes     string           `json:"notes,omitempty"`
	Taxable   bool             `json:"taxable,omitempty"`

	// Unpriced marks a scope item whose scope is not in the catalog.
	Unpriced bool `json:"unpriced,omitempty"`

	Assembly *AssemblyRef `json:"assembly,omitempty"`
}

// IsAssembly reports whether the item is a packaged assembly, the
// common-area package included.
func (li LineItem) IsAssembly() bool {
	return li.Kind == KindAssembly || li.Kind == KindCommonArea
}

// Validate rejects field combinations that no variant allows.
func (li LineItem) Validate() error {
	if !li.Kind.Valid() {
		return fmt.Errorf("%w: kind %q", ErrInvalidLineItem, li.Kind)
	}

	if li.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidLineItem)
	}

	if li.Quantity.IsNegative() || li.UnitCost.IsNegative() {
		return fmt.Errorf("%w: %q has a negative quantity or unit cost", ErrInvalidLineItem, li.ScopeName)
	}

	switch li.Kind {
	case KindAssembly, KindCommonArea:
		if li.Assembly == nil {
			return fmt.Errorf("%w: %s item %q has no assembly", ErrInvalidLineItem, li.Kind, li.ScopeName)
		}

		if li.Unpriced {
			return fmt.Errorf("%w: assembly %q cannot be unpriced", ErrInvalidLineItem, li.ScopeName)
		}
	default:
		if li.Assembly != nil {
			return fmt.Errorf("%w: %s item %q carries an assembly", ErrInvalidLineItem, li.Kind, li.ScopeName)
		}
	}

	if li.Kind == KindCustom && li.Unpriced {
		return fmt.Errorf("%w: custom item %q cannot be unpriced", ErrInvalidLineItem, li.ScopeName)
	}

	return nil
}

func (li *LineItem) recalc() {
	li.Total = lineTotal(li.Quantity, li.UnitCost)
}

func lineTotal(qty, unitCost decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitCost).Round(2)
}

func (li LineItem) clone() LineItem {
	if li.Assembly != nil {
		ref := *li.Assembly
		ref.ScaleDiscounts = append([]catalog.ScaleDiscount(nil), li.Assembly.ScaleDiscounts...)
		li.Assembly = &ref
	}

	return li
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}

	return out
}

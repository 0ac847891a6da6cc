package estimate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
)

const copySuffix = " (Copy)"

// Draft is a budget in progress. Every mutation runs one reconcile pass, so
// the items seen from outside are always consistent.
type Draft struct {
	ref       Reference
	items     []LineItem
	totalSqft decimal.Decimal
	settings  Settings

	// fingerprint of the last reconciled state; 0 means none.
	memo uint64
}

func NewDraft(ref Reference) *Draft {
	return &Draft{ref: ref}
}

// LoadDraft rebuilds a draft from persisted items. Stored totals and
// common-area sizing are recomputed rather than trusted.
func LoadDraft(ref Reference, items []LineItem, totalSqft decimal.Decimal, settings Settings) (*Draft, error) {
	if totalSqft.IsNegative() {
		return nil, ErrInvalidSquareFootage
	}

	seen := make(map[uuid.UUID]struct{}, len(items))

	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}

		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidLineItem, it.ID)
		}

		seen[it.ID] = struct{}{}
	}

	d := &Draft{
		ref:       ref,
		items:     cloneItems(items),
		totalSqft: totalSqft,
		settings:  settings,
	}
	d.recompute()

	return d, nil
}

func (d *Draft) Items() []LineItem {
	return cloneItems(d.items)
}

func (d *Draft) Item(id uuid.UUID) (LineItem, bool) {
	i := d.index(id)
	if i < 0 {
		return LineItem{}, false
	}

	return d.items[i].clone(), true
}

func (d *Draft) TotalSqft() decimal.Decimal {
	return d.totalSqft
}

func (d *Draft) SetTotalSqft(sqft decimal.Decimal) error {
	if sqft.IsNegative() {
		return ErrInvalidSquareFootage
	}

	d.totalSqft = sqft
	d.recompute()

	return nil
}

func (d *Draft) Settings() Settings {
	return d.settings
}

func (d *Draft) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	d.settings = s

	return nil
}

// AddScope adds a catalog scope. A name the catalog does not know is added
// unpriced at $0 and shows up in Issues.
func (d *Draft) AddScope(name string, qty decimal.Decimal) (LineItem, error) {
	li, err := ScopeItem(d.ref, name, qty)
	switch {
	case err == nil:
	case qty.IsNegative():
		return LineItem{}, err
	default:
		li = UnpricedItem(name, qty)
	}

	return d.add(li), nil
}

func (d *Draft) AddCustom(name string) LineItem {
	return d.add(CustomItem(name))
}

func (d *Draft) AddAssembly(id string, qty decimal.Decimal) (LineItem, error) {
	a, ok := d.ref.Assembly(id)
	if !ok {
		return LineItem{}, fmt.Errorf("%w: %q", ErrUnknownAssembly, id)
	}

	li, err := AssemblyItem(d.ref, a, qty, distinctWith(d.items, a.ID))
	if err != nil {
		return LineItem{}, err
	}

	return d.add(li), nil
}

// ApplyTemplate replaces the items with the template's and takes over its
// default percentages. It returns the template scopes the catalog does not
// know, which are left out.
func (d *Draft) ApplyTemplate(t catalog.Template) []string {
	var skipped []string

	items := make([]LineItem, 0, len(t.Items))

	for _, ti := range t.Items {
		li, err := ScopeItem(d.ref, ti.ScopeName, ti.Quantity)
		if err != nil {
			skipped = append(skipped, ti.ScopeName)
			continue
		}

		li.Notes = ti.Notes
		items = append(items, li)
	}

	d.items = items
	d.settings.GCMarkup = t.DefaultGCMarkup
	d.settings.GeneralConditions = t.DefaultGeneralConditions
	d.settings.ApplyScopeGapBuffer = t.ScopeGapBuffer
	d.settings.ScopeGapBuffer = decimal.Zero

	if t.ScopeGapBuffer {
		d.settings.ScopeGapBuffer = t.ScopeGapBufferPercentage
	}

	d.recompute()

	return skipped
}

func (d *Draft) UpdateQuantity(id uuid.UUID, qty decimal.Decimal) error {
	if qty.IsNegative() {
		return fmt.Errorf("%w: negative quantity", ErrInvalidLineItem)
	}

	return d.edit(id, func(li *LineItem) error {
		li.Quantity = qty
		return nil
	})
}

// UpdateUnitCost overrides an item's unit cost. For an assembly the value
// becomes the pre-discount base, so tiers keep applying.
func (d *Draft) UpdateUnitCost(id uuid.UUID, cost decimal.Decimal) error {
	if cost.IsNegative() {
		return fmt.Errorf("%w: negative unit cost", ErrInvalidLineItem)
	}

	return d.edit(id, func(li *LineItem) error {
		if li.Kind == KindAssembly {
			li.Assembly.BaseUnitCost = cost
			return nil
		}

		li.UnitCost = cost
		li.Unpriced = false

		return nil
	})
}

func (d *Draft) UpdateNotes(id uuid.UUID, notes string) error {
	return d.edit(id, func(li *LineItem) error {
		li.Notes = notes
		return nil
	})
}

func (d *Draft) SetTaxable(id uuid.UUID, taxable bool) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	d.items[i].Taxable = taxable
	d.recompute()

	return nil
}

func (d *Draft) RenameCustom(id uuid.UUID, name string) error {
	return d.edit(id, func(li *LineItem) error {
		if li.Kind != KindCustom {
			return fmt.Errorf("%w: only custom items can be renamed", ErrInvalidLineItem)
		}

		if name == "" {
			name = DefaultCustomName
		}

		li.ScopeName = name

		return nil
	})
}

// Duplicate copies an item under a new id, right after the original.
func (d *Draft) Duplicate(id uuid.UUID) (LineItem, error) {
	i := d.index(id)
	if i < 0 {
		return LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	if d.items[i].Kind == KindCommonArea {
		return LineItem{}, fmt.Errorf("%w: the common area cannot be duplicated", ErrManagedItem)
	}

	dup := d.items[i].clone()
	dup.ID = uuid.New()
	dup.Notes += copySuffix

	items := make([]LineItem, 0, len(d.items)+1)
	items = append(items, d.items[:i+1]...)
	items = append(items, dup)
	items = append(items, d.items[i+1:]...)
	d.items = items

	d.recompute()

	got, _ := d.Item(dup.ID)

	return got, nil
}

func (d *Draft) Remove(id uuid.UUID) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	if d.items[i].Kind == KindCommonArea {
		return fmt.Errorf("%w: the common area follows the square footage", ErrManagedItem)
	}

	d.items = append(d.items[:i:i], d.items[i+1:]...)
	d.recompute()

	return nil
}

func (d *Draft) Totals() Totals {
	return Calculate(d.items, d.settings)
}

func (d *Draft) Breakdown() []CategoryTotal {
	return Breakdown(d.ref, d.items)
}

func (d *Draft) Issues() []Issue {
	return Issues(d.items)
}

func (d *Draft) CostPerSqft() (decimal.Decimal, bool) {
	return CostPerSqft(d.Totals().GrandTotal, d.totalSqft)
}

func (d *Draft) add(li LineItem) LineItem {
	d.items = append(d.items, li)
	d.recompute()

	got, _ := d.Item(li.ID)

	return got
}

// edit applies fn to a user-editable item. The common area is rebuilt from
// the square footage and cannot be edited directly.
func (d *Draft) edit(id uuid.UUID, fn func(li *LineItem) error) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	if d.items[i].Kind == KindCommonArea {
		return fmt.Errorf("%w: the common area follows the square footage", ErrManagedItem)
	}

	li := d.items[i].clone()
	if err := fn(&li); err != nil {
		return err
	}

	d.items[i] = li
	d.recompute()

	return nil
}

func (d *Draft) index(id uuid.UUID) int {
	for i, it := range d.items {
		if it.ID == id {
			return i
		}
	}

	return -1
}

func (d *Draft) recompute() {
	fp, ok := fingerprint(d.items, d.totalSqft)
	if ok && fp == d.memo {
		return
	}

	d.items, _ = Reconcile(d.ref, d.items, d.totalSqft)

	d.memo, ok = fingerprint(d.items, d.totalSqft)
	if !ok {
		d.memo = 0
	}
}

type itemPrint struct {
	ID        string
	Kind      string
	Quantity  string
	UnitCost  string
	Total     string
	Assembly  string
	Footprint string
	Base      string
	Notes     string
}

type draftPrint struct {
	Items     []itemPrint
	TotalSqft string
}

// fingerprint hashes what reconcile reads. Decimals are hashed through their
// string form since their fields are unexported.
func fingerprint(items []LineItem, totalSqft decimal.Decimal) (uint64, bool) {
	p := draftPrint{
		Items:     make([]itemPrint, len(items)),
		TotalSqft: totalSqft.String(),
	}

	for i, it := range items {
		ip := itemPrint{
			ID:       it.ID.String(),
			Kind:     string(it.Kind),
			Quantity: it.Quantity.String(),
			UnitCost: it.UnitCost.String(),
			Total:    it.Total.String(),
			Notes:    it.Notes,
		}

		if it.Assembly != nil {
			ip.Assembly = it.Assembly.ID
			ip.Base = it.Assembly.BaseUnitCost.String()

			if it.Assembly.Footprint.Valid {
				ip.Footprint = it.Assembly.Footprint.Decimal.String()
			}
		}

		p.Items[i] = ip
	}

	h, err := hashstructure.Hash(p, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, false
	}

	return h, true
}

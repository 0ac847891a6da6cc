package project

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/encoding"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
)

const legacyGeneralConditions = 8

// legacyProject is the browser local-storage shape of a project.
type legacyProject struct {
	ID                          string       `json:"id"`
	UserID                      string       `json:"userId"`
	ProjectName                 string       `json:"projectName"`
	Address                     string       `json:"address"`
	GCCompanyName               string       `json:"gcCompanyName"`
	GCMarkupPercentage          *float64     `json:"gcMarkupPercentage"`
	GeneralConditionsPercentage *float64     `json:"generalConditionsPercentage"`
	OverheadPercentage          *float64     `json:"overheadPercentage"`
	ProfitPercentage            *float64     `json:"profitPercentage"`
	BondInsurancePercentage     *float64     `json:"bondInsurancePercentage"`
	SalesTaxPercentage          *float64     `json:"salesTaxPercentage"`
	ContingencyPercentage       *float64     `json:"contingencyPercentage"`
	ScopeGapBufferPercentage    *float64     `json:"scopeGapBufferPercentage"`
	TemplateType                string       `json:"templateType"`
	TotalSqft                   *float64     `json:"totalSqft"`
	LineItems                   []legacyItem `json:"lineItems"`
	Status                      string       `json:"status"`
	Notes                       string       `json:"notes"`
	CreatedAt                   string       `json:"createdAt"`
	UpdatedAt                   string       `json:"updatedAt"`
}

type legacyItem struct {
	ID                  string   `json:"id"`
	ScopeName           string   `json:"scopeName"`
	UnitType            string   `json:"unitType"`
	Quantity            float64  `json:"quantity"`
	UnitCost            float64  `json:"unitCost"`
	Notes               string   `json:"notes"`
	IsCustom            bool     `json:"isCustom"`
	CustomScopeName     string   `json:"customScopeName"`
	Taxable             bool     `json:"taxable"`
	IsAssembly          bool     `json:"isAssembly"`
	AssemblyID          string   `json:"assemblyId"`
	AssemblyName        string   `json:"assemblyName"`
	AssemblyCategory    string   `json:"assemblyCategory"`
	AssemblySqft        *float64 `json:"assemblySqft"`
	IsDynamicCommonArea bool     `json:"isDynamicCommonArea"`
}

// ParseLegacy converts a local-storage export (a JSON array of projects) into
// projects. Boolean item flags become item kinds, a missing owner becomes
// guestUserID and a missing general conditions percentage becomes 8. The
// common-area item is dropped since saving regenerates it.
func ParseLegacy(r io.Reader, ref estimate.Reference, guestUserID string) ([]*Project, error) {
	body, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("reading legacy export: %w", err)
	}

	var raw []legacyProject
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding legacy export: %w", ErrInvalidProject, err)
	}

	projects := make([]*Project, 0, len(raw))

	for _, lp := range raw {
		projects = append(projects, lp.toProject(ref, guestUserID))
	}

	return projects, nil
}

func (lp legacyProject) toProject(ref estimate.Reference, guestUserID string) *Project {
	p := &Project{
		ID:            parseID(lp.ID),
		UserID:        lp.UserID,
		Name:          lp.ProjectName,
		Address:       lp.Address,
		GCCompanyName: lp.GCCompanyName,
		Notes:         lp.Notes,
		TemplateType:  lp.TemplateType,
		Status:        Status(lp.Status),
		TotalSqft:     nonNegative(lp.TotalSqft),
		CreatedAt:     parseTime(lp.CreatedAt),
		UpdatedAt:     parseTime(lp.UpdatedAt),
	}

	if p.UserID == "" {
		p.UserID = guestUserID
	}

	if p.Status == "" {
		p.Status = StatusDraft
	}

	s := estimate.Settings{
		GCMarkup:          nonNegative(lp.GCMarkupPercentage),
		GeneralConditions: nonNegative(lp.GeneralConditionsPercentage),
		Overhead:          nonNegative(lp.OverheadPercentage),
		Profit:            nonNegative(lp.ProfitPercentage),
		BondInsurance:     nonNegative(lp.BondInsurancePercentage),
		SalesTax:          nonNegative(lp.SalesTaxPercentage),
		Contingency:       nonNegative(lp.ContingencyPercentage),
		ScopeGapBuffer:    nonNegative(lp.ScopeGapBufferPercentage),
	}

	if s.GeneralConditions.IsZero() {
		s.GeneralConditions = decimal.NewFromInt(legacyGeneralConditions)
	}

	if s.Overhead.IsPositive() || s.Profit.IsPositive() {
		s.MarkupModel = estimate.MarkupOverheadProfit
	}

	s.ApplyScopeGapBuffer = s.ScopeGapBuffer.IsPositive()
	p.Settings = s

	seen := make(map[uuid.UUID]struct{}, len(lp.LineItems))

	for _, li := range lp.LineItems {
		if li.IsDynamicCommonArea {
			continue
		}

		item := li.toLineItem(ref)

		// Older exports reused timestamp ids for items added in the same tick.
		if _, dup := seen[item.ID]; dup {
			item.ID = uuid.New()
		}

		seen[item.ID] = struct{}{}
		p.LineItems = append(p.LineItems, item)
	}

	return p
}

func (li legacyItem) toLineItem(ref estimate.Reference) estimate.LineItem {
	unit, err := catalog.ParseUnitType(li.UnitType)
	if err != nil {
		unit = catalog.UnitEach
	}

	item := estimate.LineItem{
		ID:        parseID(li.ID),
		Kind:      estimate.KindScope,
		ScopeName: li.ScopeName,
		Unit:      unit,
		Quantity:  decimal.NewFromFloat(li.Quantity),
		UnitCost:  decimal.NewFromFloat(li.UnitCost),
		Notes:     li.Notes,
		Taxable:   li.Taxable,
	}

	switch {
	case li.IsAssembly:
		item.Kind = estimate.KindAssembly
		item.Unit = catalog.UnitEach
		item.Assembly = &estimate.AssemblyRef{
			ID:           li.AssemblyID,
			Name:         firstNonEmpty(li.AssemblyName, li.ScopeName),
			Category:     li.AssemblyCategory,
			BaseUnitCost: item.UnitCost,
		}

		if li.AssemblySqft != nil {
			item.Assembly.Footprint = decimal.NewNullDecimal(decimal.NewFromFloat(*li.AssemblySqft))
		}

		// Pick the tiers back up from the catalog so the mix rules still apply.
		if a, ok := ref.Assembly(li.AssemblyID); ok {
			item.Assembly.ScaleDiscounts = a.ScaleDiscounts
			item.Assembly.Conditional = a.ConditionalBaselineMultiplier
			item.Assembly.BaseUnitCost = estimate.AssemblyBaseCost(ref, a)
		}
	case li.IsCustom:
		item.Kind = estimate.KindCustom
		item.ScopeName = firstNonEmpty(li.CustomScopeName, li.ScopeName, estimate.DefaultCustomName)
	default:
		if _, ok := ref.Lookup(li.ScopeName); !ok && item.UnitCost.IsZero() {
			item.Unpriced = true
		}
	}

	return item
}

// parseID keeps ids that are already UUIDs and derives a stable one from
// anything else (older exports used timestamps).
func parseID(raw string) uuid.UUID {
	if raw == "" {
		return uuid.New()
	}

	if id, err := uuid.Parse(raw); err == nil {
		return id
	}

	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(raw))
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return t.UTC()
}

func nonNegative(v *float64) decimal.Decimal {
	if v == nil || *v < 0 {
		return decimal.Zero
	}

	return decimal.NewFromFloat(*v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}

	return ""
}

package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bldriq/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/bldriq/internal/alias/store"
	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/export"
	bldrHttp "github.com/MrJamesThe3rd/bldriq/internal/http"
	aliasHandler "github.com/MrJamesThe3rd/bldriq/internal/http/alias"
	catalogHandler "github.com/MrJamesThe3rd/bldriq/internal/http/catalog"
	estimateHandler "github.com/MrJamesThe3rd/bldriq/internal/http/estimate"
	projectHandler "github.com/MrJamesThe3rd/bldriq/internal/http/project"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
	projectStore "github.com/MrJamesThe3rd/bldriq/internal/project/store"
)

type projectBody struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"project_name"`
	Status     project.Status      `json:"status"`
	LineItems  []estimate.LineItem `json:"line_items"`
	Subtotal   decimal.Decimal     `json:"subtotal"`
	GrandTotal decimal.Decimal     `json:"grand_total"`
	Summary    project.Summary     `json:"summary"`
}

func newServer(t *testing.T) http.Handler {
	t.Helper()

	c, err := catalog.Default()
	require.NoError(t, err)

	projects := project.NewService(projectStore.NewMemory(), c)
	exports := export.NewService(projects)
	aliases := alias.NewService(aliasStore.NewMemory(), c)

	return bldrHttp.New(
		bldrHttp.Options{AllowedOrigins: []string{"*"}, GuestUserID: "guest-user-1"},
		catalogHandler.NewHandler(c),
		estimateHandler.NewHandler(c),
		projectHandler.NewHandler(projects, exports, c),
		aliasHandler.NewHandler(aliases),
	)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func findKind(items []estimate.LineItem, kind estimate.Kind) (estimate.LineItem, bool) {
	for _, it := range items {
		if it.Kind == kind {
			return it, true
		}
	}

	return estimate.LineItem{}, false
}

func TestProjectLifecycle(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/projects",
		`{"project_name": "Suite 300", "template_type": "office-renovation", "total_sqft": 1000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[projectBody](t, rec)
	assert.Equal(t, project.StatusDraft, created.Status)
	require.Len(t, created.LineItems, 14, "13 template scopes plus the common area")

	common, ok := findKind(created.LineItems, estimate.KindCommonArea)
	require.True(t, ok)
	assert.Equal(t, "Common Area (1000 SF)", common.ScopeName)
	require.NotNil(t, created.Summary.Benchmark)
	assert.Equal(t, "office", created.Summary.Benchmark.ProjectType)

	base := "/api/v1/projects/" + created.ID.String()

	rec = do(t, h, http.MethodPost, base+"/items", `{"kind": "assembly", "assembly_id": "private-office", "quantity": 2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	withOffices := decode[projectBody](t, rec)
	common, ok = findKind(withOffices.LineItems, estimate.KindCommonArea)
	require.True(t, ok)
	assert.Equal(t, "Common Area (800 SF)", common.ScopeName)
	assert.True(t, withOffices.Subtotal.Equal(withOffices.Summary.Totals.Subtotal))

	rec = do(t, h, http.MethodPatch, base+"/items/"+common.ID.String(), `{"quantity": 3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "the common area is managed")

	first := withOffices.LineItems[0]
	rec = do(t, h, http.MethodPatch, base+"/items/"+first.ID.String(), `{"quantity": 4, "notes": "verify on site"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	patched := decode[projectBody](t, rec)
	assert.True(t, patched.LineItems[0].Quantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "verify on site", patched.LineItems[0].Notes)

	rec = do(t, h, http.MethodPost, base+"/items/"+first.ID.String()+"/duplicate", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, decode[projectBody](t, rec).LineItems, len(patched.LineItems)+1)

	rec = do(t, h, http.MethodDelete, base+"/items/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, base, `{"status": "Active", "project_name": "Suite 300 rev B"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, project.StatusActive, decode[projectBody](t, rec).Status)

	rec = do(t, h, http.MethodPut, base, `{"status": "Paused"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/duplicate", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dup := decode[projectBody](t, rec)
	assert.Equal(t, "Suite 300 rev B (Copy)", dup.Name)
	assert.Equal(t, project.StatusDraft, dup.Status)

	rec = do(t, h, http.MethodGet, "/api/v1/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]projectBody](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, dup.ID, list[0].ID, "most recently updated first")

	rec = do(t, h, http.MethodGet, "/api/v1/projects/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[project.Stats](t, rec)
	assert.Equal(t, 2, stats.TotalProjects)
	assert.Equal(t, 1, stats.ActiveProjects)

	rec = do(t, h, http.MethodGet, base+"/export?format=xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Suite-300-rev-B.xlsx")

	rec = do(t, h, http.MethodGet, base+"/export?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectErrors(t *testing.T) {
	h := newServer(t)

	type testCase struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}

	tests := []testCase{
		{name: "BadID", method: http.MethodGet, path: "/api/v1/projects/not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "Missing", method: http.MethodGet, path: "/api/v1/projects/" + uuid.NewString(), wantStatus: http.StatusNotFound},
		{name: "MalformedBody", method: http.MethodPost, path: "/api/v1/projects", body: `{"project_name": `, wantStatus: http.StatusBadRequest},
		{name: "UnknownField", method: http.MethodPost, path: "/api/v1/projects", body: `{"name": "x"}`, wantStatus: http.StatusBadRequest},
		{name: "MissingName", method: http.MethodPost, path: "/api/v1/projects", body: `{"address": "1 Main"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "UnknownTemplate", method: http.MethodPost, path: "/api/v1/projects", body: `{"project_name": "x", "template_type": "spaceport"}`, wantStatus: http.StatusUnprocessableEntity},
		{
			name:       "NegativePercentage",
			method:     http.MethodPost,
			path:       "/api/v1/projects",
			body:       `{"project_name": "x", "settings": {"gc_markup_percentage": -5}}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "NegativeSquareFootage",
			method:     http.MethodPost,
			path:       "/api/v1/projects",
			body:       `{"project_name": "x", "total_sqft": -10}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestAddItem(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/projects", `{"project_name": "Blank"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	items := "/api/v1/projects/" + decode[projectBody](t, rec).ID.String() + "/items"

	type testCase struct {
		name       string
		body       string
		wantStatus int
	}

	tests := []testCase{
		{name: "Scope", body: `{"kind": "scope", "scope_name": "Carpet Tile", "quantity": 100}`, wantStatus: http.StatusCreated},
		{name: "UnknownScopeIsUnpriced", body: `{"kind": "scope", "scope_name": "Signage", "quantity": 2}`, wantStatus: http.StatusCreated},
		{name: "Custom", body: `{"kind": "custom", "scope_name": "Espresso bar", "quantity": 1}`, wantStatus: http.StatusCreated},
		{name: "UnknownAssembly", body: `{"kind": "assembly", "assembly_id": "spa", "quantity": 1}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "NegativeQuantity", body: `{"kind": "scope", "scope_name": "Carpet Tile", "quantity": -1}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "CommonAreaKind", body: `{"kind": "common_area"}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, items, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	rec = do(t, h, http.MethodGet, strings.TrimSuffix(items, "/items"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[projectBody](t, rec)
	require.Len(t, got.LineItems, 3)
	assert.True(t, got.LineItems[1].Unpriced)
	require.Len(t, got.Summary.Issues, 1)
	assert.Equal(t, estimate.IssueUnpriced, got.Summary.Issues[0].Kind)
}

func TestEstimate(t *testing.T) {
	h := newServer(t)

	body := fmt.Sprintf(`{
		"line_items": [{"id": %q, "kind": "custom", "scope_name": "Allowance", "unit_type": "LS", "quantity": 1, "unit_cost": 100000}],
		"settings": {"general_conditions_percentage": 8, "gc_markup_percentage": 15}
	}`, uuid.NewString())

	rec := do(t, h, http.MethodPost, "/api/v1/estimate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[struct {
		Totals estimate.Totals `json:"totals"`
	}](t, rec)
	assert.True(t, resp.Totals.GrandTotal.Equal(decimal.NewFromInt(124200)), resp.Totals.GrandTotal.String())
	assert.True(t, resp.Totals.RangeLow.Equal(decimal.NewFromInt(105570)))

	rec = do(t, h, http.MethodPost, "/api/v1/estimate", `{"settings": {"sales_tax_percentage": -1}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCatalogAndAliases(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/catalog/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]string](t, rec), 13)

	rec = do(t, h, http.MethodGet, "/api/v1/catalog/assemblies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]json.RawMessage](t, rec), 9)

	rec = do(t, h, http.MethodGet, "/api/v1/catalog/benchmarks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]catalog.Benchmark](t, rec), "restaurant")

	rec = do(t, h, http.MethodPost, "/api/v1/aliases", `{"raw_pattern": "carpet squares", "scope_name": "Carpet Tile"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/aliases", `{"raw_pattern": "neon", "scope_name": "Neon Signage"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/aliases/suggest?raw=Lobby+carpet+squares", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"scope_name":"Carpet Tile"`)

	rec = do(t, h, http.MethodGet, "/api/v1/aliases/suggest", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportLegacy(t *testing.T) {
	h := newServer(t)

	body := `[{"id": "1712345678901", "userId": "someone-else", "projectName": "Old cafe", "status": "Active",
		"lineItems": [{"id": "a1", "scopeName": "Carpet Tile", "unitType": "sqft", "quantity": 10, "unitCost": 6}]}]`

	rec := do(t, h, http.MethodPost, "/api/v1/projects/import", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"imported": 1}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]projectBody](t, rec)
	require.Len(t, list, 1, "imported under the caller")
	assert.Equal(t, "Old cafe", list[0].Name)
	assert.True(t, list[0].Subtotal.Equal(decimal.NewFromInt(60)))

	rec = do(t, h, http.MethodPost, "/api/v1/projects/import", `{"not": "an array"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/http/respond"
)

type Handler struct {
	catalog *catalog.Catalog
}

func NewHandler(c *catalog.Catalog) *Handler {
	return &Handler{catalog: c}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/scopes", h.scopes)
	r.Get("/categories", h.categories)
	r.Get("/assemblies", h.assemblies)
	r.Get("/templates", h.templates)
	r.Get("/benchmarks", h.benchmarks)
}

type scopeResponse struct {
	catalog.ScopeOfWork
	Reasoning string `json:"reasoning"`
}

// scopes lists the catalog, optionally narrowed with ?category=.
func (h *Handler) scopes(w http.ResponseWriter, r *http.Request) {
	list := h.catalog.Scopes()
	if c := r.URL.Query().Get("category"); c != "" {
		list = h.catalog.ScopesIn(c)
	}

	resp := make([]scopeResponse, len(list))
	for i, s := range list {
		resp[i] = scopeResponse{ScopeOfWork: s, Reasoning: s.Unit.Reasoning()}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.catalog.Categories())
}

type assemblyResponse struct {
	catalog.Assembly
	BaseUnitCost  decimal.Decimal `json:"base_unit_cost"`
	MissingScopes []string        `json:"missing_scopes,omitempty"`
}

func (h *Handler) assemblies(w http.ResponseWriter, _ *http.Request) {
	list := h.catalog.Assemblies()

	resp := make([]assemblyResponse, len(list))
	for i, a := range list {
		resp[i] = assemblyResponse{
			Assembly:      a,
			BaseUnitCost:  estimate.AssemblyBaseCost(h.catalog, a),
			MissingScopes: estimate.MissingScopes(h.catalog, a),
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) templates(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.catalog.Templates())
}

func (h *Handler) benchmarks(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.catalog.Benchmarks())
}

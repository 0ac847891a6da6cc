package estimate

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/http/respond"
)

// Handler prices a budget without saving it.
type Handler struct {
	ref estimate.Reference
}

func NewHandler(ref estimate.Reference) *Handler {
	return &Handler{ref: ref}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.estimate)
}

type estimateRequest struct {
	Items     []estimate.LineItem `json:"line_items"`
	TotalSqft decimal.Decimal     `json:"total_sqft"`
	Settings  estimate.Settings   `json:"settings"`
}

type estimateResponse struct {
	Items       []estimate.LineItem      `json:"line_items"`
	Totals      estimate.Totals          `json:"totals"`
	Breakdown   []estimate.CategoryTotal `json:"breakdown"`
	Issues      []estimate.Issue         `json:"issues"`
	CostPerSqft decimal.NullDecimal      `json:"cost_per_sqft"`
}

// estimate reconciles the posted items (tiers, common area) and prices them.
func (h *Handler) estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := req.Settings.Validate(); err != nil {
		respond.Error(w, err)
		return
	}

	d, err := estimate.LoadDraft(h.ref, req.Items, req.TotalSqft, req.Settings)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := estimateResponse{
		Items:     d.Items(),
		Totals:    d.Totals(),
		Breakdown: d.Breakdown(),
		Issues:    d.Issues(),
	}

	if v, ok := d.CostPerSqft(); ok {
		resp.CostPerSqft = decimal.NewNullDecimal(v)
	}

	respond.JSON(w, http.StatusOK, resp)
}

package project

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/http/auth"
	"github.com/MrJamesThe3rd/bldriq/internal/http/respond"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

func (h *Handler) itemRoutes(r chi.Router) {
	r.Post("/", h.addItem)
	r.Patch("/{itemID}", h.updateItem)
	r.Delete("/{itemID}", h.removeItem)
	r.Post("/{itemID}/duplicate", h.duplicateItem)
}

type addItemRequest struct {
	Kind       estimate.Kind   `json:"kind"`
	ScopeName  string          `json:"scope_name"`
	AssemblyID string          `json:"assembly_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

func (req addItemRequest) apply(d *estimate.Draft) error {
	switch req.Kind {
	case estimate.KindScope:
		_, err := d.AddScope(req.ScopeName, req.Quantity)
		return err
	case estimate.KindCustom:
		li := d.AddCustom(req.ScopeName)
		if req.Quantity.IsZero() {
			return nil
		}

		return d.UpdateQuantity(li.ID, req.Quantity)
	case estimate.KindAssembly:
		_, err := d.AddAssembly(req.AssemblyID, req.Quantity)
		return err
	default:
		return fmt.Errorf("%w: kind must be scope, custom or assembly", estimate.ErrInvalidLineItem)
	}
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req addItemRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Edit(r.Context(), id, auth.UserID(r.Context()), req.apply)
	h.writeEdit(w, p, err, http.StatusCreated)
}

type updateItemRequest struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
	Taxable  *bool            `json:"taxable,omitempty"`
	Name     *string          `json:"scope_name,omitempty"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	var req updateItemRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Edit(r.Context(), id, auth.UserID(r.Context()), func(d *estimate.Draft) error {
		if req.Name != nil {
			if err := d.RenameCustom(itemID, *req.Name); err != nil {
				return err
			}
		}

		if req.Quantity != nil {
			if err := d.UpdateQuantity(itemID, *req.Quantity); err != nil {
				return err
			}
		}

		if req.UnitCost != nil {
			if err := d.UpdateUnitCost(itemID, *req.UnitCost); err != nil {
				return err
			}
		}

		if req.Notes != nil {
			if err := d.UpdateNotes(itemID, *req.Notes); err != nil {
				return err
			}
		}

		if req.Taxable != nil {
			return d.SetTaxable(itemID, *req.Taxable)
		}

		return nil
	})
	h.writeEdit(w, p, err, http.StatusOK)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	p, err := h.svc.Edit(r.Context(), id, auth.UserID(r.Context()), func(d *estimate.Draft) error {
		return d.Remove(itemID)
	})
	h.writeEdit(w, p, err, http.StatusOK)
}

func (h *Handler) duplicateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	p, err := h.svc.Edit(r.Context(), id, auth.UserID(r.Context()), func(d *estimate.Draft) error {
		_, err := d.Duplicate(itemID)
		return err
	})
	h.writeEdit(w, p, err, http.StatusCreated)
}

func (h *Handler) writeEdit(w http.ResponseWriter, p *project.Project, err error, status int) {
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, status, h.withSummary(p))
}

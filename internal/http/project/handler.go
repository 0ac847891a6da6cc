package project

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/export"
	"github.com/MrJamesThe3rd/bldriq/internal/http/auth"
	"github.com/MrJamesThe3rd/bldriq/internal/http/respond"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

type Handler struct {
	svc     *project.Service
	exports *export.Service
	ref     estimate.Reference
}

func NewHandler(svc *project.Service, exports *export.Service, ref estimate.Reference) *Handler {
	return &Handler{svc: svc, exports: exports, ref: ref}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/stats", h.stats)
	r.Post("/import", h.importLegacy)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
		r.Post("/duplicate", h.duplicate)
		r.Get("/export", h.export)

		r.Route("/items", h.itemRoutes)
	})
}

type projectResponse struct {
	*project.Project
	Summary project.Summary `json:"summary"`
}

func (h *Handler) withSummary(p *project.Project) projectResponse {
	return projectResponse{Project: p, Summary: h.svc.Summary(p)}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err)
		return
	}

	if projects == nil {
		projects = []*project.Project{}
	}

	respond.JSON(w, http.StatusOK, projects)
}

type createProjectRequest struct {
	Name          string            `json:"project_name"`
	Address       string            `json:"address"`
	GCCompanyName string            `json:"gc_company_name"`
	Notes         string            `json:"notes"`
	ProjectType   string            `json:"project_type"`
	TemplateType  string            `json:"template_type"`
	TotalSqft     decimal.Decimal   `json:"total_sqft"`
	Settings      estimate.Settings `json:"settings"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Create(r.Context(), project.CreateParams{
		UserID:        auth.UserID(r.Context()),
		Name:          req.Name,
		Address:       req.Address,
		GCCompanyName: req.GCCompanyName,
		Notes:         req.Notes,
		ProjectType:   req.ProjectType,
		TemplateType:  req.TemplateType,
		TotalSqft:     req.TotalSqft,
		Settings:      req.Settings,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, h.withSummary(p))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, stats)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.withSummary(p))
}

type updateProjectRequest struct {
	Name          *string            `json:"project_name,omitempty"`
	Address       *string            `json:"address,omitempty"`
	GCCompanyName *string            `json:"gc_company_name,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	ProjectType   *string            `json:"project_type,omitempty"`
	Status        *project.Status    `json:"status,omitempty"`
	TotalSqft     *decimal.Decimal   `json:"total_sqft,omitempty"`
	Settings      *estimate.Settings `json:"settings,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateProjectRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Update(r.Context(), id, auth.UserID(r.Context()), project.UpdateParams{
		Name:          req.Name,
		Address:       req.Address,
		GCCompanyName: req.GCCompanyName,
		Notes:         req.Notes,
		ProjectType:   req.ProjectType,
		Status:        req.Status,
		Settings:      req.Settings,
		TotalSqft:     req.TotalSqft,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.withSummary(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id, auth.UserID(r.Context())); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.svc.Duplicate(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, h.withSummary(p))
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	file, err := h.exports.Export(r.Context(), id, auth.UserID(r.Context()), format)
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}

type importResponse struct {
	Imported int `json:"imported"`
}

// importLegacy takes a browser local-storage export. Every project lands
// under the caller, whatever owner the export recorded.
func (h *Handler) importLegacy(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	projects, err := project.ParseLegacy(r.Body, h.ref, userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	for _, p := range projects {
		p.UserID = userID
	}

	n, err := h.svc.Import(r.Context(), projects)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{Imported: n})
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid "+param)
		return uuid.Nil, false
	}

	return id, true
}

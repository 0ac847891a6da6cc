package alias

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bldriq/internal/alias"
	"github.com/MrJamesThe3rd/bldriq/internal/http/respond"
)

type Handler struct {
	svc *alias.Service
}

func NewHandler(svc *alias.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Get("/resolve", h.resolve)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Raw       string `json:"raw"`
	ScopeName string `json:"scope_name"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raw")
	if raw == "" {
		respond.Message(w, http.StatusBadRequest, "raw query parameter is required")
		return
	}

	scope, err := h.svc.Suggest(r.Context(), raw)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Raw: raw, ScopeName: scope})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raw")
	if raw == "" {
		respond.Message(w, http.StatusBadRequest, "raw query parameter is required")
		return
	}

	scope, err := h.svc.Resolve(r.Context(), raw)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Raw: raw, ScopeName: scope})
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern"`
	ScopeName  string `json:"scope_name"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if req.RawPattern == "" || req.ScopeName == "" {
		respond.Message(w, http.StatusBadRequest, "raw_pattern and scope_name are required")
		return
	}

	if err := h.svc.Learn(r.Context(), req.RawPattern, req.ScopeName); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Package respond writes JSON bodies and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/bldriq/internal/alias"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/export"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Error picks the status for err. Anything unrecognized is logged and
// reported as an internal error without leaking details.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		Message(w, status, "internal error")

		return
	}

	Message(w, status, err.Error())
}

func Status(err error) int {
	switch {
	case errors.Is(err, project.ErrNotFound),
		errors.Is(err, estimate.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, project.ErrInvalidProject),
		errors.Is(err, estimate.ErrInvalidSettings),
		errors.Is(err, estimate.ErrInvalidLineItem),
		errors.Is(err, estimate.ErrInvalidSquareFootage),
		errors.Is(err, estimate.ErrUnknownScope),
		errors.Is(err, estimate.ErrUnknownAssembly),
		errors.Is(err, estimate.ErrManagedItem),
		errors.Is(err, alias.ErrUnknownScope),
		errors.Is(err, alias.ErrEmptyPattern):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body, rejecting unknown fields. On failure it has
// already written a 400.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		Message(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}

	return true
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hubpal/backend/internal/repository"
	"github.com/hubpal/backend/internal/service"
)

// SignOffHandler serves the bookkeeping sign-off demo endpoint.
type SignOffHandler struct {
	signoffs *service.SignOffService
}

// NewSignOffHandler creates a SignOffHandler.
func NewSignOffHandler(signoffs *service.SignOffService) *SignOffHandler {
	return &SignOffHandler{signoffs: signoffs}
}

// SignOff handles POST /api/projects/{id}/milestones/{mid}/signoff.
// Repeated calls return the event ID recorded the first time.
func (h *SignOffHandler) SignOff(w http.ResponseWriter, r *http.Request) {
	eventID, err := h.signoffs.SignOff(r.Context(), r.PathValue("id"), r.PathValue("mid"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "signoff_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"event_id": eventID})
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
	"github.com/hubpal/backend/internal/store"
)

// MilestoneHandler serves direct milestone status mutations.
type MilestoneHandler struct {
	store *store.ProjectStore
}

// NewMilestoneHandler creates a MilestoneHandler.
func NewMilestoneHandler(st *store.ProjectStore) *MilestoneHandler {
	return &MilestoneHandler{store: st}
}

// PatchStatus handles PATCH /api/projects/{id}/milestones/{mid}/status.
// Only single forward steps are accepted; anything else is a conflict.
func (h *MilestoneHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	projectID := r.PathValue("id")
	milestoneID := r.PathValue("mid")

	err := h.store.SetMilestoneStatus(r.Context(), projectID, milestoneID, model.MilestoneStatus(req.Status), nil)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if errors.Is(err, store.ErrInvalidTransition) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_transition"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}

	project, perr := h.store.GetByID(projectID)
	if perr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(project)
}

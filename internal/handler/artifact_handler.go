package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hubpal/backend/internal/repository"
	"github.com/hubpal/backend/internal/service"
)

const maxArtifactBytes = 10 << 20 // 10 MiB

// ArtifactHandler serves the milestone artifact upload demo endpoint.
type ArtifactHandler struct {
	artifacts *service.ArtifactService
}

// NewArtifactHandler creates an ArtifactHandler.
func NewArtifactHandler(artifacts *service.ArtifactService) *ArtifactHandler {
	return &ArtifactHandler{artifacts: artifacts}
}

// Upload handles POST /api/projects/{id}/milestones/{mid}/artifact. The
// artifact comes in as multipart form data under the "file" field.
func (h *ArtifactHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxArtifactBytes); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_multipart"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "file_required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ref, err := h.artifacts.Upload(r.Context(), r.PathValue("id"), r.PathValue("mid"), header.Filename, file, contentType)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "upload_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"artifact_ref": ref})
}

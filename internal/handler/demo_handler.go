package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hubpal/backend/internal/service"
)

// DemoHandler serves the demo seeding and reset endpoints.
type DemoHandler struct {
	seeds service.SeedService
}

// NewDemoHandler creates a DemoHandler.
func NewDemoHandler(seeds service.SeedService) *DemoHandler {
	return &DemoHandler{seeds: seeds}
}

// Seed handles POST /api/demo/seed. Both passes are idempotent, so hitting
// the endpoint repeatedly is harmless.
func (h *DemoHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := h.seeds.SeedIfEmpty(r.Context()); err != nil {
		slog.Error("demo seed failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "seed_failed"})
		return
	}
	if err := h.seeds.SeedBooksDemo(r.Context()); err != nil {
		slog.Error("books demo seed failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "seed_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Reset handles POST /api/demo/reset. It wipes the store and reseeds from
// scratch.
func (h *DemoHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.seeds.ResetAndReseed(r.Context()); err != nil {
		slog.Error("demo reset failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "reset_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

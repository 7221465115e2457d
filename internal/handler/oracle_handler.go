package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hubpal/backend/internal/repository"
	"github.com/hubpal/backend/internal/service"
)

// OracleHandler serves the oracle verification and cross-chain relay demo
// endpoints.
type OracleHandler struct {
	verify *service.VerifyService
}

// NewOracleHandler creates an OracleHandler.
func NewOracleHandler(verify *service.VerifyService) *OracleHandler {
	return &OracleHandler{verify: verify}
}

// Verify handles POST /api/projects/{id}/milestones/{mid}/verify. The
// milestone is advanced all the way to verified in one call.
func (h *OracleHandler) Verify(w http.ResponseWriter, r *http.Request) {
	txHash, err := h.verify.Verify(r.Context(), r.PathValue("id"), r.PathValue("mid"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "verify_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"tx_hash": txHash})
}

// Relay handles POST /api/projects/{id}/milestones/{mid}/relay. It only
// narrates a cross-chain message in the activity log.
func (h *OracleHandler) Relay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromChain string `json:"from_chain"`
		ToChain   string `json:"to_chain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	if req.FromChain == "" || req.ToChain == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "chains_required"})
		return
	}

	txHash, err := h.verify.RelayMessage(r.Context(), r.PathValue("id"), r.PathValue("mid"), req.FromChain, req.ToChain)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "relay_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"tx_hash": txHash})
}

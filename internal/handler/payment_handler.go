package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hubpal/backend/internal/repository"
	"github.com/hubpal/backend/internal/service"
)

// PaymentHandler serves the stablecoin payment demo endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Pay handles POST /api/projects/{id}/milestones/{mid}/payments. The mode
// field selects a single installment or a full release; it defaults to
// installment.
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	var (
		result *service.PaymentResult
		err    error
	)
	switch req.Mode {
	case "", "installment":
		result, err = h.payments.PayInstallment(r.Context(), r.PathValue("id"), r.PathValue("mid"))
	case "full":
		result, err = h.payments.PayFull(r.Context(), r.PathValue("id"), r.PathValue("mid"))
	default:
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_mode"})
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if errors.Is(err, service.ErrAlreadySettled) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "already_settled"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "payment_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

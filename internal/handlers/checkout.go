package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/service"
)

// CheckoutHandler обрабатывает оформление заказов
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler создает новый CheckoutHandler
func NewCheckoutHandler(checkoutService *service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

type checkoutRequest struct {
	PlanCode string `json:"plan_code"`
}

// CreateCheckout обрабатывает POST /api/v1/checkout
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.PlanCode == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.checkoutService.CreateCheckout(r.Context(), userID, req.PlanCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPlanNotFound):
			http.Error(w, "Not Found", http.StatusNotFound)
		case errors.Is(err, domain.ErrNotConfigured):
			h.logger.Error("checkout rejected: gateway is not configured", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		case errors.Is(err, domain.ErrGateway):
			h.logger.Error("checkout failed at payment gateway",
				zap.String("user_id", userID.String()),
				zap.String("plan_code", req.PlanCode),
				zap.Error(err),
			)
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
		case errors.Is(err, domain.ErrDuplicatePayment):
			http.Error(w, "Conflict", http.StatusConflict)
		case errors.Is(err, service.ErrInvalidInput):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		default:
			h.logger.Error("failed to create checkout", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("failed to encode checkout response", zap.Error(err))
	}
}

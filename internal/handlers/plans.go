package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/service"
)

// PlanHandler отдает каталог тарифов
type PlanHandler struct {
	planService *service.PlanService
	logger      *zap.Logger
}

// NewPlanHandler создает новый PlanHandler
func NewPlanHandler(planService *service.PlanService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

// ListPlans обрабатывает GET /api/v1/plans
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.planService.ListPlans(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			h.logger.Error("plan listing rejected: pricing is not configured", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		h.logger.Error("failed to list plans", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(quotes); err != nil {
		h.logger.Error("failed to encode plans response", zap.Error(err))
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/service"
)

// Провайдер шлет небольшие JSON-уведомления; лимит отсекает мусорные тела
const maxWebhookBody = 1 << 20

// WebhookHandler принимает уведомления платежного провайдера
type WebhookHandler struct {
	webhookService *service.WebhookService
	logger         *zap.Logger
}

// NewWebhookHandler создает новый WebhookHandler
func NewWebhookHandler(webhookService *service.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		logger:         logger,
	}
}

// HandleYooKassa обрабатывает POST /api/v1/webhooks/yookassa.
// Любой ответ кроме 2xx провайдер трактует как сбой и повторяет доставку,
// поэтому временные ошибки возвращаются как 502, а не глотаются.
func (h *WebhookHandler) HandleYooKassa(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.webhookService.HandleNotification(r.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingProviderID):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		case errors.Is(err, domain.ErrNotConfigured):
			h.logger.Error("webhook rejected: gateway is not configured", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		case errors.Is(err, domain.ErrGateway):
			h.logger.Warn("webhook verification read failed, provider will redeliver", zap.Error(err))
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
		default:
			h.logger.Error("failed to handle webhook", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	if !result.Matched {
		h.logger.Warn("webhook for unknown payment acknowledged",
			zap.String("event", result.Event),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"ok":      true,
		"matched": result.Matched,
	}); err != nil {
		h.logger.Error("failed to encode webhook response", zap.Error(err))
	}
}

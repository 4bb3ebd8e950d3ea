package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/metrics"
	"github.com/videopromo/videopromo-backend/internal/repository/postgres"
)

// NotificationResult — итог обработки уведомления провайдера
type NotificationResult struct {
	Event  string
	Status string
	// Matched = false: платеж с таким id нам не известен; уведомление
	// подтверждено получением без побочных эффектов
	Matched           bool
	OrderTransitioned bool
}

// WebhookService сверяет уведомления провайдера с его же API и применяет
// переходы статусов к платежам и заказам
type WebhookService struct {
	payments domain.PaymentRepository
	gateway  PaymentGateway
	gwCfg    GatewayConfig
}

// NewWebhookService создает новый WebhookService
func NewWebhookService(payments domain.PaymentRepository, gateway PaymentGateway, gwCfg GatewayConfig) *WebhookService {
	return &WebhookService{
		payments: payments,
		gateway:  gateway,
		gwCfg:    gwCfg,
	}
}

type webhookNotification struct {
	Event  string `json:"event"`
	Object struct {
		ID string `json:"id"`
	} `json:"object"`
}

// HandleNotification обрабатывает входящее уведомление провайдера.
// Телу уведомления не доверяем: авторитетный статус всегда перечитывается
// прямым запросом к провайдеру — подписи на вебхуке нет, проверочное чтение
// и есть якорь доверия.
func (s *WebhookService) HandleNotification(ctx context.Context, raw []byte) (*NotificationResult, error) {
	var notification webhookNotification
	if err := json.Unmarshal(raw, &notification); err != nil {
		metrics.IncWebhook("bad_request")
		return nil, fmt.Errorf("webhook service: malformed notification: %v: %w", err, domain.ErrMissingProviderID)
	}
	if notification.Object.ID == "" {
		metrics.IncWebhook("bad_request")
		return nil, fmt.Errorf("webhook service: %w", domain.ErrMissingProviderID)
	}

	if !s.gwCfg.Configured() {
		return nil, fmt.Errorf("webhook service: YOOKASSA_* values are missing: %w", domain.ErrNotConfigured)
	}

	// Сбой шлюза — не применяем никаких переходов, провайдер доставит повторно
	verified, err := s.gateway.GetPayment(ctx, notification.Object.ID)
	if err != nil {
		metrics.IncWebhook("gateway_error")
		return nil, fmt.Errorf("webhook service: failed to verify payment %q: %w", notification.Object.ID, err)
	}

	applied, err := s.payments.ApplyProviderStatus(ctx, notification.Object.ID, verified.Status, raw, time.Now())
	if err != nil {
		if errors.Is(err, postgres.ErrPaymentNotFound) {
			// Уведомление могло обогнать локальную запись платежа или
			// относиться к чужой транзакции. Подтверждаем получение,
			// иначе провайдер исчерпает бюджет повторов на гонке.
			metrics.IncWebhook("unmatched")
			return &NotificationResult{
				Event:   notification.Event,
				Status:  verified.Status,
				Matched: false,
			}, nil
		}
		metrics.IncWebhook("error")
		return nil, fmt.Errorf("webhook service: failed to apply status for payment %q: %w", notification.Object.ID, err)
	}

	metrics.IncWebhook("applied")
	if applied.PaidAtSet {
		metrics.AddRevenue(applied.AmountRub)
	}

	return &NotificationResult{
		Event:             notification.Event,
		Status:            verified.Status,
		Matched:           true,
		OrderTransitioned: applied.OrderTransitioned,
	}, nil
}

// ReverifyPayment перечитывает статус платежа у провайдера и применяет
// те же переходы, что и вебхук. Используется фоновой сверкой для платежей,
// по которым уведомление не дошло.
func (s *WebhookService) ReverifyPayment(ctx context.Context, providerPaymentID string) (*domain.ReconcileResult, error) {
	if !s.gwCfg.Configured() {
		return nil, fmt.Errorf("webhook service: YOOKASSA_* values are missing: %w", domain.ErrNotConfigured)
	}

	verified, err := s.gateway.GetPayment(ctx, providerPaymentID)
	if err != nil {
		return nil, fmt.Errorf("webhook service: failed to verify payment %q: %w", providerPaymentID, err)
	}

	// nil вместо сырого вебхука: сохраненное тело уведомления не затирается
	applied, err := s.payments.ApplyProviderStatus(ctx, providerPaymentID, verified.Status, nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("webhook service: failed to apply status for payment %q: %w", providerPaymentID, err)
	}

	if applied.PaidAtSet {
		metrics.AddRevenue(applied.AmountRub)
	}

	return applied, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/metrics"
	"github.com/videopromo/videopromo-backend/internal/repository/postgres"
)

// CheckoutResult — ответ на оформление заказа
type CheckoutResult struct {
	OrderID           uuid.UUID `json:"order_id"`
	ProviderPaymentID string    `json:"payment_id"`
	ConfirmationURL   string    `json:"confirmation_url"`
}

// CheckoutService оформляет заказ: считает цену, сохраняет Order,
// открывает транзакцию у провайдера и сохраняет Payment
type CheckoutService struct {
	plans    domain.PlanRepository
	orders   domain.OrderRepository
	payments domain.PaymentRepository
	gateway  PaymentGateway
	pricing  *Pricing
	gwCfg    GatewayConfig
}

// NewCheckoutService создает новый CheckoutService
func NewCheckoutService(
	plans domain.PlanRepository,
	orders domain.OrderRepository,
	payments domain.PaymentRepository,
	gateway PaymentGateway,
	pricing *Pricing,
	gwCfg GatewayConfig,
) *CheckoutService {
	return &CheckoutService{
		plans:    plans,
		orders:   orders,
		payments: payments,
		gateway:  gateway,
		pricing:  pricing,
		gwCfg:    gwCfg,
	}
}

// CreateCheckout оформляет заказ для пользователя по коду тарифа.
// Повторный вызов для той же пары пользователь+тариф создает независимый
// заказ и независимую транзакцию: дедупликации на этом уровне нет.
func (s *CheckoutService) CreateCheckout(ctx context.Context, userID uuid.UUID, planCode string) (*CheckoutResult, error) {
	// Preflight до любых обращений к базе: и шлюз, и цены
	if !s.gwCfg.Configured() {
		metrics.IncCheckout("not_configured")
		return nil, fmt.Errorf("checkout service: YOOKASSA_* values are missing: %w", domain.ErrNotConfigured)
	}
	if !s.pricing.Configured() {
		metrics.IncCheckout("not_configured")
		return nil, fmt.Errorf("checkout service: COST_* values are missing: %w", domain.ErrNotConfigured)
	}

	if planCode == "" {
		return nil, fmt.Errorf("checkout service: plan_code is required: %w", ErrInvalidInput)
	}

	plan, err := s.plans.GetActivePlanByCode(ctx, planCode)
	if err != nil {
		if errors.Is(err, postgres.ErrPlanNotFound) {
			metrics.IncCheckout("plan_not_found")
			return nil, domain.ErrPlanNotFound
		}
		metrics.IncCheckout("error")
		return nil, fmt.Errorf("checkout service: failed to resolve plan %q: %w", planCode, err)
	}

	priceRub, costEstimateRub, err := s.pricing.Price(plan)
	if err != nil {
		metrics.IncCheckout("not_configured")
		return nil, fmt.Errorf("checkout service: %w", err)
	}

	// Заказ коммитится до обращения к шлюзу: его id — ключ идемпотентности,
	// он должен существовать и быть долговечным даже при сбое следующего шага
	order, err := s.orders.CreateOrder(ctx, userID, plan.ID, priceRub, costEstimateRub)
	if err != nil {
		metrics.IncCheckout("error")
		return nil, fmt.Errorf("checkout service: failed to create order: %w", err)
	}

	provider, err := s.gateway.CreatePayment(ctx, CreatePaymentRequest{
		AmountRub:      priceRub,
		ReturnURL:      s.gwCfg.ReturnURL,
		Description:    fmt.Sprintf("Video Promo SaaS order %s", order.ID),
		IdempotenceKey: order.ID.String(),
		Metadata: map[string]string{
			"order_id":  order.ID.String(),
			"user_id":   userID.String(),
			"plan_code": plan.Code,
		},
	})
	if err != nil {
		// Заказ остается в payment_pending без платежа: это восстановимое
		// состояние, его доберет сверка, заказ не теряется
		metrics.IncCheckout("gateway_error")
		return nil, fmt.Errorf("checkout service: failed to create provider transaction for order %s: %w", order.ID, err)
	}

	status := provider.Status
	if status == "" {
		status = domain.PaymentStatusPending
	}

	payment := &domain.Payment{
		OrderID:           order.ID,
		Provider:          domain.PaymentProviderYooKassa,
		ProviderPaymentID: provider.ID,
		Status:            status,
		AmountRub:         priceRub,
	}
	if provider.ConfirmationURL != "" {
		payment.ConfirmationURL = &provider.ConfirmationURL
	}

	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		if errors.Is(err, postgres.ErrDuplicatePayment) {
			metrics.IncCheckout("error")
			return nil, domain.ErrDuplicatePayment
		}
		metrics.IncCheckout("error")
		return nil, fmt.Errorf("checkout service: failed to persist payment for order %s: %w", order.ID, err)
	}

	metrics.IncCheckout("created")

	return &CheckoutResult{
		OrderID:           order.ID,
		ProviderPaymentID: provider.ID,
		ConfirmationURL:   provider.ConfirmationURL,
	}, nil
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

// Моки репозиториев и шлюза для сервисных тестов

type userRepoMock struct {
	mock.Mock
}

func (m *userRepoMock) CreateUser(ctx context.Context, email, passwordHash, consentVersion string) (*domain.User, error) {
	args := m.Called(ctx, email, passwordHash, consentVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *userRepoMock) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *userRepoMock) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type tokenRepoMock struct {
	mock.Mock
}

func (m *tokenRepoMock) CreateEmailVerification(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, tokenHash, expiresAt).Error(0)
}

func (m *tokenRepoMock) ConsumeEmailVerification(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash, now)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *tokenRepoMock) CreateSession(ctx context.Context, userID uuid.UUID, refreshTokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, refreshTokenHash, expiresAt).Error(0)
}

func (m *tokenRepoMock) RevokeSession(ctx context.Context, refreshTokenHash string) error {
	return m.Called(ctx, refreshTokenHash).Error(0)
}

type planRepoMock struct {
	mock.Mock
}

func (m *planRepoMock) GetActivePlanByCode(ctx context.Context, code string) (*domain.Plan, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *planRepoMock) ListActivePlans(ctx context.Context) ([]*domain.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Plan), args.Error(1)
}

type orderRepoMock struct {
	mock.Mock
}

func (m *orderRepoMock) CreateOrder(ctx context.Context, userID, planID uuid.UUID, priceRub, costEstimateRub int) (*domain.Order, error) {
	args := m.Called(ctx, userID, planID, priceRub, costEstimateRub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *orderRepoMock) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *orderRepoMock) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

type paymentRepoMock struct {
	mock.Mock
}

func (m *paymentRepoMock) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *paymentRepoMock) GetPaymentByProviderID(ctx context.Context, providerPaymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, providerPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *paymentRepoMock) ApplyProviderStatus(ctx context.Context, providerPaymentID, status string, rawWebhook []byte, now time.Time) (*domain.ReconcileResult, error) {
	args := m.Called(ctx, providerPaymentID, status, rawWebhook, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconcileResult), args.Error(1)
}

func (m *paymentRepoMock) ListUnsettledPayments(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Payment, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

type gatewayMock struct {
	mock.Mock
}

func (m *gatewayMock) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*domain.ProviderPayment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderPayment), args.Error(1)
}

func (m *gatewayMock) GetPayment(ctx context.Context, providerPaymentID string) (*domain.ProviderPayment, error) {
	args := m.Called(ctx, providerPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderPayment), args.Error(1)
}

func floatPtr(v float64) *float64 {
	return &v
}

func testPricing() *Pricing {
	return NewPricing(PricingConfig{
		CostImageRub:       floatPtr(10),
		CostVideoRub:       floatPtr(20),
		CostTrainingRub:    floatPtr(500),
		MinPriceMultiplier: 2.0,
	})
}

func testGatewayConfig() GatewayConfig {
	return GatewayConfig{
		APIBase:   "https://gateway.test/v3",
		ShopID:    "shop-1",
		SecretKey: "secret",
		ReturnURL: "https://app.test/pay/return",
	}
}

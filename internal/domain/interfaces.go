package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash, consentVersion string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	MarkEmailVerified(ctx context.Context, userID uuid.UUID) error
	SetRole(ctx context.Context, userID uuid.UUID, role string) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

// AuthTokenRepository определяет методы для одноразовых токенов и refresh-сессий
type AuthTokenRepository interface {
	CreateEmailVerification(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	// ConsumeEmailVerification гасит токен и возвращает владельца.
	// Уже использованный или неизвестный токен — ErrTokenInvalid, просроченный — ErrTokenExpired.
	ConsumeEmailVerification(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error)
	CreateSession(ctx context.Context, userID uuid.UUID, refreshTokenHash string, expiresAt time.Time) error
	RevokeSession(ctx context.Context, refreshTokenHash string) error
}

// PlanRepository определяет методы для работы с тарифами
type PlanRepository interface {
	GetActivePlanByCode(ctx context.Context, code string) (*Plan, error)
	ListActivePlans(ctx context.Context) ([]*Plan, error)
}

// StyleRepository определяет методы для работы с каталогом стилей
type StyleRepository interface {
	ListActiveStyles(ctx context.Context) ([]*Style, error)
	ListStyles(ctx context.Context) ([]*Style, error)
	CreateStyle(ctx context.Context, code, name, description string) (*Style, error)
	GetStyleByID(ctx context.Context, id uuid.UUID) (*Style, error)
	UpdateStyle(ctx context.Context, style *Style) error
}

// OrderRepository определяет методы для работы с заказами
type OrderRepository interface {
	CreateOrder(ctx context.Context, userID, planID uuid.UUID, priceRub, costEstimateRub int) (*Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*Order, error)
}

// PaymentRepository определяет методы для работы с платежами
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByProviderID(ctx context.Context, providerPaymentID string) (*Payment, error)
	// ApplyProviderStatus атомарно применяет подтвержденный статус провайдера:
	// зеркалит статус, сохраняет сырое уведомление (если передано), выставляет
	// paid_at не более одного раза и переводит заказ из payment_pending.
	// Повторная доставка того же статуса — no-op по побочным эффектам.
	ApplyProviderStatus(ctx context.Context, providerPaymentID, status string, rawWebhook []byte, now time.Time) (*ReconcileResult, error)
	ListUnsettledPayments(ctx context.Context, olderThan time.Time, limit int) ([]*Payment, error)
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus представляет статус заказа
type OrderStatus string

const (
	OrderStatusPaymentPending OrderStatus = "payment_pending"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusCanceled       OrderStatus = "canceled"
)

// Статусы платежа — словарь провайдера (ЮKassa), храним как есть
const (
	PaymentStatusPending           = "pending"
	PaymentStatusWaitingForCapture = "waiting_for_capture"
	PaymentStatusSucceeded         = "succeeded"
	PaymentStatusCanceled          = "canceled"
)

// PaymentProviderYooKassa — единственный поддерживаемый провайдер
const PaymentProviderYooKassa = "yookassa"

// User представляет пользователя системы
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"` // Не отправляем хеш в JSON
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"-"`
	ConsentVersion  string     `json:"-"`
	ConsentedAt     *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	LastLoginAt     *time.Time `json:"-"`
}

// EmailVerification представляет одноразовый токен подтверждения почты
type EmailVerification struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// UserSession представляет refresh-сессию пользователя
type UserSession struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	RefreshTokenHash string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	CreatedAt        time.Time
}

// Plan представляет тариф из каталога.
// Заказ снимает слепок цены, поэтому тариф после продажи менять нельзя.
type Plan struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	ImagesCount int       `json:"images_count"`
	VideosCount int       `json:"videos_count"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"-"`
}

// PlanQuote — тариф с рассчитанными ценами для выдачи каталога
type PlanQuote struct {
	Code                string `json:"code"`
	Title               string `json:"title"`
	ImagesCount         int    `json:"images_count"`
	VideosCount         int    `json:"videos_count"`
	PriceRubFirstOrder  int    `json:"price_rub_first_order"`
	PriceRubRepeatOrder int    `json:"price_rub_repeat_order"`
}

// Style представляет визуальный стиль роликов из каталога
type Style struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	Weight      int       `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Order представляет намерение покупки одного тарифа
type Order struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"-"`
	PlanID          uuid.UUID   `json:"plan_id"`
	Status          OrderStatus `json:"status"`
	Currency        string      `json:"currency"`
	PriceRub        int         `json:"price_rub"`
	CostEstimateRub int         `json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Payment представляет одну попытку списания средств за заказ
type Payment struct {
	ID                uuid.UUID  `json:"id"`
	OrderID           uuid.UUID  `json:"order_id"`
	Provider          string     `json:"provider"`
	ProviderPaymentID string     `json:"provider_payment_id"`
	Status            string     `json:"status"`
	AmountRub         int        `json:"amount_rub"`
	ConfirmationURL   *string    `json:"confirmation_url,omitempty"`
	RawWebhook        []byte     `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
}

// Settled сообщает, вышел ли платеж из неокончательного статуса
func (p *Payment) Settled() bool {
	return p.Status == PaymentStatusSucceeded || p.Status == PaymentStatusCanceled
}

// ProviderPayment представляет состояние транзакции на стороне провайдера
type ProviderPayment struct {
	ID              string
	Status          string
	ConfirmationURL string
}

// ReconcileResult описывает, что изменила сверка статуса платежа
type ReconcileResult struct {
	PaymentID         uuid.UUID
	OrderID           uuid.UUID
	Status            string
	AmountRub         int
	PaidAtSet         bool
	OrderTransitioned bool
}

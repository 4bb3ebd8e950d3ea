package domain

import "errors"

// Ошибки пользователей и аутентификации
var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrTokenInvalid       = errors.New("invalid or used token")
	ErrTokenExpired       = errors.New("token expired")
)

// Ошибки каталога
var (
	ErrPlanNotFound  = errors.New("plan not found")
	ErrStyleExists   = errors.New("style code already exists")
	ErrStyleNotFound = errors.New("style not found")
)

// Ошибки заказов и платежей
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrDuplicatePayment = errors.New("payment with this provider id already exists")
)

// ErrNotConfigured — обязательная конфигурация (ЮKassa или цены) не задана.
// Проверяется в момент запроса, а не на старте, чтобы не блокировать
// частичные деплои. Никогда не подменяется нулевыми значениями.
var ErrNotConfigured = errors.New("required configuration is missing")

// ErrGateway — провайдер платежей вернул ошибку или некорректный ответ
var ErrGateway = errors.New("payment gateway error")

// ErrMissingProviderID — в уведомлении провайдера нет id транзакции
var ErrMissingProviderID = errors.New("notification has no payment id")

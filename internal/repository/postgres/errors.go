package postgres

import "errors"

// Ошибки пользователей
var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
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

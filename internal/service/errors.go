package service

import "errors"

// Ошибки входных данных и доступа
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

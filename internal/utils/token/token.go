package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// DefaultBytes длина случайного токена в байтах
const DefaultBytes = 32

// NewURLSafe генерирует случайный url-safe токен.
// Сам токен уходит пользователю, в базе храним только его SHA-256.
func NewURLSafe() (string, error) {
	buf := make([]byte, DefaultBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// SHA256Hex возвращает hex-представление SHA-256 от значения
func SHA256Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

// AuthTokenRepository реализует domain.AuthTokenRepository
type AuthTokenRepository struct {
	db DBTX
}

// NewAuthTokenRepository создает новый AuthTokenRepository
func NewAuthTokenRepository(db DBTX) *AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

// CreateEmailVerification сохраняет хеш токена подтверждения почты
func (r *AuthTokenRepository) CreateEmailVerification(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO email_verifications (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)`,
		userID, tokenHash, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to create email verification for user %s: %w", userID, err)
	}
	return nil
}

// ConsumeEmailVerification гасит непогашенный токен и возвращает владельца.
// Гашение условным UPDATE, чтобы параллельные запросы не использовали токен дважды.
func (r *AuthTokenRepository) ConsumeEmailVerification(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error) {
	var userID uuid.UUID
	var expiresAt time.Time

	err := r.db.QueryRow(ctx,
		`UPDATE email_verifications
		 SET consumed_at = $2
		 WHERE token_hash = $1 AND consumed_at IS NULL
		 RETURNING user_id, expires_at`,
		tokenHash, now,
	).Scan(&userID, &expiresAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.ErrTokenInvalid
		}
		return uuid.Nil, fmt.Errorf("repository: failed to consume email verification: %w", err)
	}

	if expiresAt.Before(now) {
		return uuid.Nil, domain.ErrTokenExpired
	}

	return userID, nil
}

// CreateSession сохраняет refresh-сессию пользователя
func (r *AuthTokenRepository) CreateSession(ctx context.Context, userID uuid.UUID, refreshTokenHash string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_sessions (user_id, refresh_token_hash, expires_at)
		 VALUES ($1, $2, $3)`,
		userID, refreshTokenHash, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to create session for user %s: %w", userID, err)
	}
	return nil
}

// RevokeSession отзывает refresh-сессию по хешу токена
func (r *AuthTokenRepository) RevokeSession(ctx context.Context, refreshTokenHash string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE user_sessions
		 SET revoked_at = NOW()
		 WHERE refresh_token_hash = $1 AND revoked_at IS NULL`,
		refreshTokenHash,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to revoke session: %w", err)
	}
	return nil
}

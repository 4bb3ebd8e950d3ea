package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

// UserRepository реализует domain.UserRepository
type UserRepository struct {
	db DBTX
}

// NewUserRepository создает новый UserRepository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser создает нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, email, passwordHash, consentVersion string) (*domain.User, error) {
	user := &domain.User{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   passwordHash,
		Role:           "user",
		IsActive:       true,
		ConsentVersion: consentVersion,
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, consent_version, consented_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING created_at, consented_at`,
		user.ID, email, passwordHash, consentVersion,
	).Scan(&user.CreatedAt, &user.ConsentedAt)

	if err != nil {
		// Проверка на уникальность email (код ошибки PostgreSQL)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("repository: failed to create user %q: %w", email, err)
	}

	return user, nil
}

// GetUserByEmail получает пользователя по email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx,
		`SELECT id, email, password_hash, email_verified_at, role, is_active, consent_version, consented_at, created_at, last_login_at
		 FROM users
		 WHERE email = $1`,
		email,
	)
}

// GetUserByID получает пользователя по ID
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getUser(ctx,
		`SELECT id, email, password_hash, email_verified_at, role, is_active, consent_version, consented_at, created_at, last_login_at
		 FROM users
		 WHERE id = $1`,
		id,
	)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.EmailVerifiedAt,
		&user.Role, &user.IsActive, &user.ConsentVersion, &user.ConsentedAt,
		&user.CreatedAt, &user.LastLoginAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: failed to get user: %w", err)
	}

	return user, nil
}

// MarkEmailVerified отмечает почту подтвержденной (только один раз)
func (r *UserRepository) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users
		 SET email_verified_at = NOW()
		 WHERE id = $1 AND email_verified_at IS NULL`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to mark email verified for user %s: %w", userID, err)
	}
	return nil
}

// SetRole меняет роль пользователя
func (r *UserRepository) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET role = $1 WHERE id = $2`,
		role, userID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to set role for user %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TouchLastLogin обновляет время последнего входа
func (r *UserRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to touch last login for user %s: %w", userID, err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/repository/postgres"
	"github.com/videopromo/videopromo-backend/internal/utils/jwt"
	"github.com/videopromo/videopromo-backend/internal/utils/password"
	"github.com/videopromo/videopromo-backend/internal/utils/token"
)

// Версия текста согласий, снимок которой пишется в профиль
const consentVersion = "v1.0"

// Consents — обязательные согласия при регистрации
type Consents struct {
	Rights       bool `json:"consent_rights"`
	Face         bool `json:"consent_face"`
	NoThirdParty bool `json:"consent_no_third_party"`
	Storage      bool `json:"consent_storage"`
	Terms        bool `json:"consent_terms"`
}

// All сообщает, даны ли все согласия
func (c Consents) All() bool {
	return c.Rights && c.Face && c.NoThirdParty && c.Storage && c.Terms
}

// AuthServiceConfig — параметры аутентификации
type AuthServiceConfig struct {
	MinPasswordLength    int
	VerificationTokenTTL time.Duration
	RefreshTokenTTL      time.Duration
	AdminBootstrapToken  string
}

// LoginResult — пара токенов после входа
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService реализует регистрацию, подтверждение почты и вход
type AuthService struct {
	users          domain.UserRepository
	tokens         domain.AuthTokenRepository
	passwordHasher password.Hasher
	jwtManager     *jwt.Manager
	cfg            AuthServiceConfig
}

// NewAuthService создает новый AuthService
func NewAuthService(
	users domain.UserRepository,
	tokens domain.AuthTokenRepository,
	passwordHasher password.Hasher,
	jwtManager *jwt.Manager,
	cfg AuthServiceConfig,
) *AuthService {
	return &AuthService{
		users:          users,
		tokens:         tokens,
		passwordHasher: passwordHasher,
		jwtManager:     jwtManager,
		cfg:            cfg,
	}
}

// Signup регистрирует пользователя и возвращает токен подтверждения почты.
// Реальной отправки письма нет: ссылку собирает вызывающий (в dev — в ответе).
func (s *AuthService) Signup(ctx context.Context, email, userPassword string, consents Consents) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("auth service: invalid email: %w", ErrInvalidInput)
	}
	if len(userPassword) < s.cfg.MinPasswordLength {
		return "", fmt.Errorf("auth service: password too short: %w", ErrInvalidInput)
	}
	if !consents.All() {
		return "", fmt.Errorf("auth service: all consents are required: %w", ErrInvalidInput)
	}

	hash, err := s.passwordHasher.Hash(userPassword)
	if err != nil {
		return "", fmt.Errorf("auth service: failed to hash password for %q: %w", email, err)
	}

	user, err := s.users.CreateUser(ctx, email, hash, consentVersion)
	if err != nil {
		if errors.Is(err, postgres.ErrUserExists) {
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("auth service: failed to create user %q: %w", email, err)
	}

	verifyToken, err := token.NewURLSafe()
	if err != nil {
		return "", fmt.Errorf("auth service: %w", err)
	}

	expiresAt := time.Now().Add(s.cfg.VerificationTokenTTL)
	if err := s.tokens.CreateEmailVerification(ctx, user.ID, token.SHA256Hex(verifyToken), expiresAt); err != nil {
		return "", fmt.Errorf("auth service: failed to store verification for %q: %w", email, err)
	}

	return verifyToken, nil
}

// VerifyEmail гасит токен подтверждения и отмечает почту подтвержденной
func (s *AuthService) VerifyEmail(ctx context.Context, verifyToken string) error {
	if verifyToken == "" {
		return fmt.Errorf("auth service: token is required: %w", ErrInvalidInput)
	}

	userID, err := s.tokens.ConsumeEmailVerification(ctx, token.SHA256Hex(verifyToken), time.Now())
	if err != nil {
		// Не оборачиваем sentinel errors
		if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrTokenExpired) {
			return err
		}
		return fmt.Errorf("auth service: failed to consume verification token: %w", err)
	}

	if err := s.users.MarkEmailVerified(ctx, userID); err != nil {
		return fmt.Errorf("auth service: failed to mark email verified for %s: %w", userID, err)
	}

	return nil
}

// Login проверяет учетные данные и выдает access-токен и refresh-сессию
func (s *AuthService) Login(ctx context.Context, email, userPassword string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: failed to get user %q: %w", email, err)
	}

	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if user.EmailVerifiedAt == nil {
		return nil, domain.ErrEmailNotVerified
	}
	if err := s.passwordHasher.Check(user.PasswordHash, userPassword); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth service: failed to generate access token: %w", err)
	}

	refresh, err := token.NewURLSafe()
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	expiresAt := time.Now().Add(s.cfg.RefreshTokenTTL)
	if err := s.tokens.CreateSession(ctx, user.ID, token.SHA256Hex(refresh), expiresAt); err != nil {
		return nil, fmt.Errorf("auth service: failed to create session for %s: %w", user.ID, err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("auth service: failed to touch last login for %s: %w", user.ID, err)
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Logout отзывает refresh-сессию
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("auth service: refresh token is required: %w", ErrInvalidInput)
	}

	if err := s.tokens.RevokeSession(ctx, token.SHA256Hex(refreshToken)); err != nil {
		return fmt.Errorf("auth service: failed to revoke session: %w", err)
	}

	return nil
}

// Me получает профиль пользователя
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("auth service: failed to get user %s: %w", userID, err)
	}
	return user, nil
}

// BootstrapAdmin назначает роль admin по секретному токену из окружения
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, bootstrapToken string) error {
	if s.cfg.AdminBootstrapToken == "" || bootstrapToken != s.cfg.AdminBootstrapToken {
		return ErrForbidden
	}

	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("auth service: failed to get user %q: %w", email, err)
	}
	if user.EmailVerifiedAt == nil {
		return fmt.Errorf("auth service: user email not verified: %w", ErrInvalidInput)
	}

	if err := s.users.SetRole(ctx, user.ID, "admin"); err != nil {
		return fmt.Errorf("auth service: failed to set admin role for %s: %w", user.ID, err)
	}

	return nil
}

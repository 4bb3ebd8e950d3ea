package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/service"
)

// AuthHandler обрабатывает запросы регистрации и входа
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
	appDomain   string
	env         string
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger, appDomain, env string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
		appDomain:   appDomain,
		env:         env,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	service.Consents
}

// Signup обрабатывает POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	verifyToken, err := h.authService.Signup(r.Context(), req.Email, req.Password, req.Consents)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			http.Error(w, "Conflict", http.StatusConflict)
		case errors.Is(err, service.ErrInvalidInput):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		default:
			h.logger.Error("failed to sign up user", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	resp := map[string]string{
		"message": "verification email sent",
	}
	// Почтовый транспорт не подключен: вне production ссылка отдается в ответе
	if h.env != "production" {
		resp["dev_verify_link"] = fmt.Sprintf("https://%s/api/v1/auth/verify?token=%s", h.appDomain, verifyToken)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode signup response", zap.Error(err))
	}
}

// VerifyEmail обрабатывает GET /api/v1/auth/verify?token=...
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	verifyToken := r.URL.Query().Get("token")

	err := h.authService.VerifyEmail(r.Context(), verifyToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput), errors.Is(err, domain.ErrTokenInvalid):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		case errors.Is(err, domain.ErrTokenExpired):
			http.Error(w, "Gone", http.StatusGone)
		default:
			h.logger.Error("failed to verify email", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": "email verified"}); err != nil {
		h.logger.Error("failed to encode verify response", zap.Error(err))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, domain.ErrEmailNotVerified):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, service.ErrInvalidInput):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		default:
			h.logger.Error("failed to log in user", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Authorization", "Bearer "+result.AccessToken)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("failed to encode login response", zap.Error(err))
	}
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout обрабатывает POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to log out user", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// Me обрабатывает GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		h.logger.Error("failed to fetch user profile", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := meResponse{
		ID:            user.ID.String(),
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerifiedAt != nil,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode profile response", zap.Error(err))
	}
}

type bootstrapAdminRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// BootstrapAdmin обрабатывает POST /api/v1/auth/bootstrap-admin
func (h *AuthHandler) BootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	var req bootstrapAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	err := h.authService.BootstrapAdmin(r.Context(), req.Email, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, "Not Found", http.StatusNotFound)
		default:
			h.logger.Error("failed to bootstrap admin", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": "admin role granted"}); err != nil {
		h.logger.Error("failed to encode bootstrap response", zap.Error(err))
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/service"
)

// StyleHandler отдает каталог стилей и админские операции над ним
type StyleHandler struct {
	styleService *service.StyleService
	authService  *service.AuthService
	logger       *zap.Logger
}

// NewStyleHandler создает новый StyleHandler
func NewStyleHandler(styleService *service.StyleService, authService *service.AuthService, logger *zap.Logger) *StyleHandler {
	return &StyleHandler{
		styleService: styleService,
		authService:  authService,
		logger:       logger,
	}
}

// requireAdmin проверяет, что запрос сделан пользователем с ролью admin
func (h *StyleHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	userID, ok := GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return false
		}
		h.logger.Error("failed to resolve user role", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}

	if user.Role != "admin" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// ListStyles обрабатывает GET /api/v1/styles — только активные стили
func (h *StyleHandler) ListStyles(w http.ResponseWriter, r *http.Request) {
	styles, err := h.styleService.ListActive(r.Context())
	if err != nil {
		h.logger.Error("failed to list styles", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(styles); err != nil {
		h.logger.Error("failed to encode styles response", zap.Error(err))
	}
}

// ListAllStyles обрабатывает GET /api/v1/admin/styles — включая скрытые
func (h *StyleHandler) ListAllStyles(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	styles, err := h.styleService.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list all styles", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(styles); err != nil {
		h.logger.Error("failed to encode styles response", zap.Error(err))
	}
}

type createStyleRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateStyle обрабатывает POST /api/v1/admin/styles
func (h *StyleHandler) CreateStyle(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req createStyleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	style, err := h.styleService.Create(r.Context(), req.Code, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStyleExists):
			http.Error(w, "Conflict", http.StatusConflict)
		case errors.Is(err, service.ErrInvalidInput):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		default:
			h.logger.Error("failed to create style", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(style); err != nil {
		h.logger.Error("failed to encode style response", zap.Error(err))
	}
}

type updateStyleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateStyle обрабатывает PATCH /api/v1/admin/styles/{id}
func (h *StyleHandler) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	styleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var req updateStyleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	style, err := h.styleService.Update(r.Context(), styleID, service.StyleUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStyleNotFound):
			http.Error(w, "Not Found", http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidInput):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		default:
			h.logger.Error("failed to update style", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(style); err != nil {
		h.logger.Error("failed to encode style response", zap.Error(err))
	}
}

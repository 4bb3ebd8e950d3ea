package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/repository/postgres"
)

// StyleUpdate — изменяемые поля стиля; nil означает «не трогать»
type StyleUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// StyleService управляет каталогом стилей
type StyleService struct {
	styles domain.StyleRepository
}

// NewStyleService создает новый StyleService
func NewStyleService(styles domain.StyleRepository) *StyleService {
	return &StyleService{styles: styles}
}

// ListActive получает активные стили для витрины
func (s *StyleService) ListActive(ctx context.Context) ([]*domain.Style, error) {
	styles, err := s.styles.ListActiveStyles(ctx)
	if err != nil {
		return nil, fmt.Errorf("style service: failed to list active styles: %w", err)
	}
	return styles, nil
}

// ListAll получает все стили для админки
func (s *StyleService) ListAll(ctx context.Context) ([]*domain.Style, error) {
	styles, err := s.styles.ListStyles(ctx)
	if err != nil {
		return nil, fmt.Errorf("style service: failed to list styles: %w", err)
	}
	return styles, nil
}

// Create создает новый стиль
func (s *StyleService) Create(ctx context.Context, code, name, description string) (*domain.Style, error) {
	if len(code) < 2 || len(name) < 2 {
		return nil, fmt.Errorf("style service: code and name are required: %w", ErrInvalidInput)
	}

	style, err := s.styles.CreateStyle(ctx, code, name, description)
	if err != nil {
		if errors.Is(err, postgres.ErrStyleExists) {
			return nil, domain.ErrStyleExists
		}
		return nil, fmt.Errorf("style service: failed to create style %q: %w", code, err)
	}

	return style, nil
}

// Update применяет частичное обновление стиля
func (s *StyleService) Update(ctx context.Context, id uuid.UUID, update StyleUpdate) (*domain.Style, error) {
	style, err := s.styles.GetStyleByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrStyleNotFound) {
			return nil, domain.ErrStyleNotFound
		}
		return nil, fmt.Errorf("style service: failed to get style %s: %w", id, err)
	}

	if update.Name != nil {
		style.Name = *update.Name
	}
	if update.Description != nil {
		style.Description = *update.Description
	}
	if update.IsActive != nil {
		style.IsActive = *update.IsActive
	}

	if err := s.styles.UpdateStyle(ctx, style); err != nil {
		if errors.Is(err, postgres.ErrStyleNotFound) {
			return nil, domain.ErrStyleNotFound
		}
		return nil, fmt.Errorf("style service: failed to update style %s: %w", id, err)
	}

	return style, nil
}

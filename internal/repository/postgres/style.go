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

// StyleRepository реализует domain.StyleRepository
type StyleRepository struct {
	db DBTX
}

// NewStyleRepository создает новый StyleRepository
func NewStyleRepository(db DBTX) *StyleRepository {
	return &StyleRepository{db: db}
}

const styleColumns = `id, code, name, description, is_active, weight, created_at, updated_at`

// ListActiveStyles получает активные стили для публичной витрины
func (r *StyleRepository) ListActiveStyles(ctx context.Context) ([]*domain.Style, error) {
	return r.listStyles(ctx,
		`SELECT `+styleColumns+`
		 FROM styles
		 WHERE is_active = TRUE
		 ORDER BY weight DESC, name ASC`,
	)
}

// ListStyles получает все стили для админки
func (r *StyleRepository) ListStyles(ctx context.Context) ([]*domain.Style, error) {
	return r.listStyles(ctx,
		`SELECT `+styleColumns+`
		 FROM styles
		 ORDER BY name ASC`,
	)
}

func (r *StyleRepository) listStyles(ctx context.Context, query string) ([]*domain.Style, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list styles: %w", err)
	}
	defer rows.Close()

	var styles []*domain.Style
	for rows.Next() {
		style := &domain.Style{}
		err := rows.Scan(&style.ID, &style.Code, &style.Name, &style.Description, &style.IsActive, &style.Weight, &style.CreatedAt, &style.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan style: %w", err)
		}
		styles = append(styles, style)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating styles: %w", err)
	}

	return styles, nil
}

// CreateStyle создает новый стиль
func (r *StyleRepository) CreateStyle(ctx context.Context, code, name, description string) (*domain.Style, error) {
	style := &domain.Style{
		Code:        code,
		Name:        name,
		Description: description,
		IsActive:    true,
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO styles (code, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, weight, created_at, updated_at`,
		code, name, description,
	).Scan(&style.ID, &style.Weight, &style.CreatedAt, &style.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrStyleExists
		}
		return nil, fmt.Errorf("repository: failed to create style %q: %w", code, err)
	}

	return style, nil
}

// GetStyleByID получает стиль по ID
func (r *StyleRepository) GetStyleByID(ctx context.Context, id uuid.UUID) (*domain.Style, error) {
	style := &domain.Style{}

	err := r.db.QueryRow(ctx,
		`SELECT `+styleColumns+`
		 FROM styles
		 WHERE id = $1`,
		id,
	).Scan(&style.ID, &style.Code, &style.Name, &style.Description, &style.IsActive, &style.Weight, &style.CreatedAt, &style.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStyleNotFound
		}
		return nil, fmt.Errorf("repository: failed to get style %s: %w", id, err)
	}

	return style, nil
}

// UpdateStyle сохраняет изменяемые поля стиля
func (r *StyleRepository) UpdateStyle(ctx context.Context, style *domain.Style) error {
	result, err := r.db.Exec(ctx,
		`UPDATE styles
		 SET name = $1, description = $2, is_active = $3, updated_at = NOW()
		 WHERE id = $4`,
		style.Name, style.Description, style.IsActive, style.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update style %s: %w", style.ID, err)
	}
	if result.RowsAffected() == 0 {
		return ErrStyleNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

// PlanRepository реализует domain.PlanRepository.
// Тарифы создаются административно и для ядра доступны только на чтение.
type PlanRepository struct {
	db DBTX
}

// NewPlanRepository создает новый PlanRepository
func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

// GetActivePlanByCode получает активный тариф по коду
func (r *PlanRepository) GetActivePlanByCode(ctx context.Context, code string) (*domain.Plan, error) {
	plan := &domain.Plan{}

	err := r.db.QueryRow(ctx,
		`SELECT id, code, title, images_count, videos_count, is_active, created_at
		 FROM plans
		 WHERE code = $1 AND is_active = TRUE`,
		code,
	).Scan(&plan.ID, &plan.Code, &plan.Title, &plan.ImagesCount, &plan.VideosCount, &plan.IsActive, &plan.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("repository: failed to get plan by code %q: %w", code, err)
	}

	return plan, nil
}

// ListActivePlans получает активные тарифы по возрастанию числа видео
func (r *PlanRepository) ListActivePlans(ctx context.Context) ([]*domain.Plan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, code, title, images_count, videos_count, is_active, created_at
		 FROM plans
		 WHERE is_active = TRUE
		 ORDER BY videos_count ASC`,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to list active plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		plan := &domain.Plan{}
		err := rows.Scan(&plan.ID, &plan.Code, &plan.Title, &plan.ImagesCount, &plan.VideosCount, &plan.IsActive, &plan.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating plans: %w", err)
	}

	return plans, nil
}

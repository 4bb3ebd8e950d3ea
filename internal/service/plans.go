package service

import (
	"context"
	"fmt"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

// PlanService отдает каталог тарифов с рассчитанными ценами
type PlanService struct {
	plans   domain.PlanRepository
	pricing *Pricing
}

// NewPlanService создает новый PlanService
func NewPlanService(plans domain.PlanRepository, pricing *Pricing) *PlanService {
	return &PlanService{
		plans:   plans,
		pricing: pricing,
	}
}

// ListPlans получает активные тарифы с ценами первого и повторного заказа
func (s *PlanService) ListPlans(ctx context.Context) ([]*domain.PlanQuote, error) {
	plans, err := s.plans.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan service: failed to list plans: %w", err)
	}

	quotes := make([]*domain.PlanQuote, 0, len(plans))
	for _, plan := range plans {
		first, repeat, err := s.pricing.Variants(plan)
		if err != nil {
			return nil, fmt.Errorf("plan service: %w", err)
		}

		quotes = append(quotes, &domain.PlanQuote{
			Code:                plan.Code,
			Title:               plan.Title,
			ImagesCount:         plan.ImagesCount,
			VideosCount:         plan.VideosCount,
			PriceRubFirstOrder:  first,
			PriceRubRepeatOrder: repeat,
		})
	}

	return quotes, nil
}

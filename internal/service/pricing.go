package service

import (
	"fmt"
	"math"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

// PricingConfig — стоимостные параметры из конфигурации.
// nil означает «не задано»: цена никогда не считается от нулевой себестоимости.
type PricingConfig struct {
	CostImageRub       *float64
	CostVideoRub       *float64
	CostTrainingRub    *float64
	MinPriceMultiplier float64
}

// Configured сообщает, заданы ли все стоимостные параметры
func (c PricingConfig) Configured() bool {
	return c.CostImageRub != nil && c.CostVideoRub != nil && c.CostTrainingRub != nil
}

// Pricing считает цены тарифов из себестоимости
type Pricing struct {
	cfg PricingConfig
}

// NewPricing создает новый Pricing
func NewPricing(cfg PricingConfig) *Pricing {
	return &Pricing{cfg: cfg}
}

// Configured сообщает, заданы ли все стоимостные параметры
func (p *Pricing) Configured() bool {
	return p.cfg.Configured()
}

// Price считает цену для клиента и оценку себестоимости, обе в целых рублях.
// Стоимость обучения пока включается всегда: повторные заказы на этапе
// оформления не отличаются (только в витрине тарифов).
func (p *Pricing) Price(plan *domain.Plan) (priceRub, costEstimateRub int, err error) {
	if !p.cfg.Configured() {
		return 0, 0, fmt.Errorf("pricing: COST_* values are missing: %w", domain.ErrNotConfigured)
	}

	cost := p.cost(plan, true)
	return ceilRub(cost * p.cfg.MinPriceMultiplier), ceilRub(cost), nil
}

// Variants считает две витринные цены: первый заказ (с обучением)
// и повторный (без обучения). Никуда не сохраняются.
func (p *Pricing) Variants(plan *domain.Plan) (firstRub, repeatRub int, err error) {
	if !p.cfg.Configured() {
		return 0, 0, fmt.Errorf("pricing: COST_* values are missing: %w", domain.ErrNotConfigured)
	}

	firstRub = ceilRub(p.cost(plan, true) * p.cfg.MinPriceMultiplier)
	repeatRub = ceilRub(p.cost(plan, false) * p.cfg.MinPriceMultiplier)
	return firstRub, repeatRub, nil
}

func (p *Pricing) cost(plan *domain.Plan, withTraining bool) float64 {
	cost := float64(plan.ImagesCount)*(*p.cfg.CostImageRub) + float64(plan.VideosCount)*(*p.cfg.CostVideoRub)
	if withTraining {
		cost += *p.cfg.CostTrainingRub
	}
	return cost
}

// ceilRub округляет вверх до целого рубля, дробных рублей не бывает
func ceilRub(v float64) int {
	return int(math.Ceil(v))
}

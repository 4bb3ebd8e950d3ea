package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

// OrderRepository реализует domain.OrderRepository
type OrderRepository struct {
	db DBTX
}

// NewOrderRepository создает новый OrderRepository
func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder создает новый заказ в статусе payment_pending.
// Коммит заказа идет отдельной транзакцией до обращения к провайдеру:
// id заказа служит ключом идемпотентности и должен пережить сбой шлюза.
func (r *OrderRepository) CreateOrder(ctx context.Context, userID, planID uuid.UUID, priceRub, costEstimateRub int) (*domain.Order, error) {
	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		PlanID:          planID,
		Status:          domain.OrderStatusPaymentPending,
		Currency:        "RUB",
		PriceRub:        priceRub,
		CostEstimateRub: costEstimateRub,
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, plan_id, status, currency, price_rub, cost_estimate_rub)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		order.ID, userID, planID, order.Status, order.Currency, priceRub, costEstimateRub,
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to create order for user %s: %w", userID, err)
	}

	return order, nil
}

// GetOrderByID получает заказ по ID
func (r *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, plan_id, status, currency, price_rub, cost_estimate_rub, created_at, updated_at
		 FROM orders
		 WHERE id = $1`,
		id,
	).Scan(&order.ID, &order.UserID, &order.PlanID, &order.Status, &order.Currency, &order.PriceRub, &order.CostEstimateRub, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order %s: %w", id, err)
	}

	return order, nil
}

// GetOrdersByUserID получает все заказы пользователя
func (r *OrderRepository) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, plan_id, status, currency, price_rub, cost_estimate_rub, created_at, updated_at
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get orders for user %s: %w", userID, err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(&order.ID, &order.UserID, &order.PlanID, &order.Status, &order.Currency, &order.PriceRub, &order.CostEstimateRub, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	return orders, nil
}

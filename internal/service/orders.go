package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

// OrderService отдает заказы пользователя
type OrderService struct {
	orders domain.OrderRepository
}

// NewOrderService создает новый OrderService
func NewOrderService(orders domain.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// GetOrders получает все заказы пользователя
func (s *OrderService) GetOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orders.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("order service: failed to get orders for user %s: %w", userID, err)
	}

	return orders, nil
}

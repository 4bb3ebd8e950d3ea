package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

// PaymentRepository реализует domain.PaymentRepository
type PaymentRepository struct {
	db DBTX
}

// NewPaymentRepository создает новый PaymentRepository
func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, order_id, provider, provider_payment_id, status, amount_rub, confirmation_url, raw_webhook, created_at, paid_at`

// CreatePayment сохраняет платеж, полученный от провайдера при создании транзакции
func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO payments (id, order_id, provider, provider_payment_id, status, amount_rub, confirmation_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		payment.ID, payment.OrderID, payment.Provider, payment.ProviderPaymentID,
		payment.Status, payment.AmountRub, payment.ConfirmationURL,
	).Scan(&payment.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicatePayment
		}
		return fmt.Errorf("repository: failed to create payment %q: %w", payment.ProviderPaymentID, err)
	}

	return nil
}

// GetPaymentByProviderID получает платеж по внешнему id транзакции
func (r *PaymentRepository) GetPaymentByProviderID(ctx context.Context, providerPaymentID string) (*domain.Payment, error) {
	payment := &domain.Payment{}

	err := r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+`
		 FROM payments
		 WHERE provider_payment_id = $1`,
		providerPaymentID,
	).Scan(
		&payment.ID, &payment.OrderID, &payment.Provider, &payment.ProviderPaymentID,
		&payment.Status, &payment.AmountRub, &payment.ConfirmationURL, &payment.RawWebhook,
		&payment.CreatedAt, &payment.PaidAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("repository: failed to get payment %q: %w", providerPaymentID, err)
	}

	return payment, nil
}

// ApplyProviderStatus применяет подтвержденный провайдером статус к платежу и заказу.
// Вся работа идет в одной транзакции под блокировкой строки платежа, чтобы
// параллельные доставки одного уведомления не сработали дважды: paid_at
// выставляется условным UPDATE (WHERE paid_at IS NULL), заказ переводится
// только из payment_pending.
func (r *PaymentRepository) ApplyProviderStatus(ctx context.Context, providerPaymentID, status string, rawWebhook []byte, now time.Time) (*domain.ReconcileResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction for payment %q: %w", providerPaymentID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	result := &domain.ReconcileResult{Status: status}

	// Блокируем строку платежа: сериализует дубли вебхуков по одному платежу
	err = tx.QueryRow(ctx,
		`SELECT id, order_id, amount_rub
		 FROM payments
		 WHERE provider_payment_id = $1
		 FOR UPDATE`,
		providerPaymentID,
	).Scan(&result.PaymentID, &result.OrderID, &result.AmountRub)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("repository: failed to lock payment %q: %w", providerPaymentID, err)
	}

	// Зеркалим статус провайдера и сохраняем сырое уведомление для аудита.
	// nil rawWebhook (сверка без вебхука) не затирает сохраненное тело.
	_, err = tx.Exec(ctx,
		`UPDATE payments
		 SET status = $1, raw_webhook = COALESCE($2::jsonb, raw_webhook)
		 WHERE id = $3`,
		status, rawWebhook, result.PaymentID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to update payment %s status: %w", result.PaymentID, err)
	}

	switch status {
	case domain.PaymentStatusSucceeded:
		paidTag, err := tx.Exec(ctx,
			`UPDATE payments
			 SET paid_at = $1
			 WHERE id = $2 AND paid_at IS NULL`,
			now, result.PaymentID,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to set paid_at for payment %s: %w", result.PaymentID, err)
		}
		result.PaidAtSet = paidTag.RowsAffected() > 0

		orderTag, err := tx.Exec(ctx,
			`UPDATE orders
			 SET status = $1, updated_at = $2
			 WHERE id = $3 AND status = $4`,
			domain.OrderStatusPaid, now, result.OrderID, domain.OrderStatusPaymentPending,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to mark order %s paid: %w", result.OrderID, err)
		}
		result.OrderTransitioned = orderTag.RowsAffected() > 0

	case domain.PaymentStatusCanceled:
		orderTag, err := tx.Exec(ctx,
			`UPDATE orders
			 SET status = $1, updated_at = $2
			 WHERE id = $3 AND status = $4`,
			domain.OrderStatusCanceled, now, result.OrderID, domain.OrderStatusPaymentPending,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to cancel order %s: %w", result.OrderID, err)
		}
		result.OrderTransitioned = orderTag.RowsAffected() > 0
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit status for payment %s: %w", result.PaymentID, err)
	}

	return result, nil
}

// ListUnsettledPayments получает платежи в неокончательных статусах старше olderThan
func (r *PaymentRepository) ListUnsettledPayments(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+`
		 FROM payments
		 WHERE status NOT IN ($1, $2) AND created_at < $3
		 ORDER BY created_at ASC
		 LIMIT $4`,
		domain.PaymentStatusSucceeded, domain.PaymentStatusCanceled, olderThan, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to list unsettled payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment := &domain.Payment{}
		err := rows.Scan(
			&payment.ID, &payment.OrderID, &payment.Provider, &payment.ProviderPaymentID,
			&payment.Status, &payment.AmountRub, &payment.ConfirmationURL, &payment.RawWebhook,
			&payment.CreatedAt, &payment.PaidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating unsettled payments: %w", err)
	}

	return payments, nil
}

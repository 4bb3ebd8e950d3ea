package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/repository/postgres"
)

// Reconciler перечитывает статус платежа у провайдера и применяет переходы
type Reconciler interface {
	ReverifyPayment(ctx context.Context, providerPaymentID string) (*domain.ReconcileResult, error)
}

// PoolConfig — настройки пула сверки платежей
type PoolConfig struct {
	Workers      int
	QueueSize    int
	ScanInterval time.Duration
	// StaleAfter — возраст платежа, после которого его пора перепроверять.
	// Свежие платежи не трогаем: по ним еще идет обычный вебхук.
	StaleAfter time.Duration
}

// Pool представляет пул воркеров для фоновой сверки незавершенных платежей.
// Закрывает сценарий потерянного вебхука: заказ, застрявший в payment_pending,
// добирается прямым опросом провайдера.
type Pool struct {
	workers      int
	queue        chan string
	payments     domain.PaymentRepository
	reconciler   Reconciler
	logger       *zap.Logger
	wg           sync.WaitGroup
	scanWG       sync.WaitGroup
	scanInterval time.Duration
	staleAfter   time.Duration
}

// NewPool создает новый worker pool
func NewPool(cfg PoolConfig, payments domain.PaymentRepository, reconciler Reconciler, logger *zap.Logger) *Pool {
	return &Pool{
		workers:      cfg.Workers,
		queue:        make(chan string, cfg.QueueSize),
		payments:     payments,
		reconciler:   reconciler,
		logger:       logger,
		scanInterval: cfg.ScanInterval,
		staleAfter:   cfg.StaleAfter,
	}
}

// Start запускает worker pool
func (p *Pool) Start(ctx context.Context) {
	// Запускаем воркеры
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	// Запускаем сканер незавершенных платежей
	p.scanWG.Add(1)
	go p.scanner(ctx)
}

// Stop останавливает worker pool. Очередь закрывается только после выхода
// сканера, иначе его отправка может попасть в уже закрытый канал.
func (p *Pool) Stop() {
	p.scanWG.Wait()
	close(p.queue)
	p.wg.Wait()
}

// worker обрабатывает платежи из очереди
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Info("reconcile worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("reconcile worker stopping", zap.Int("worker_id", id))
			return
		case providerPaymentID, ok := <-p.queue:
			if !ok {
				return
			}
			p.reverify(ctx, providerPaymentID)
		}
	}
}

// scanner периодически сканирует незавершенные платежи
func (p *Pool) scanner(ctx context.Context) {
	defer p.scanWG.Done()

	ticker := time.NewTicker(p.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("reconcile scanner stopping")
			return
		case <-ticker.C:
			p.scanUnsettled(ctx)
		}
	}
}

// scanUnsettled находит зависшие платежи и отправляет их в очередь
func (p *Pool) scanUnsettled(ctx context.Context) {
	cutoff := time.Now().Add(-p.staleAfter)

	payments, err := p.payments.ListUnsettledPayments(ctx, cutoff, cap(p.queue))
	if err != nil {
		p.logger.Error("failed to list unsettled payments", zap.Error(err))
		return
	}

	for _, payment := range payments {
		select {
		case p.queue <- payment.ProviderPaymentID:
			// Успешно добавлено в очередь
		case <-ctx.Done():
			return
		default:
			// Очередь заполнена, доберем на следующем проходе
			p.logger.Warn("reconcile queue is full, skipping payment",
				zap.String("provider_payment_id", payment.ProviderPaymentID))
		}
	}
}

// reverify сверяет один платеж с провайдером
func (p *Pool) reverify(ctx context.Context, providerPaymentID string) {
	p.logger.Debug("reverifying payment", zap.String("provider_payment_id", providerPaymentID))

	result, err := p.reconciler.ReverifyPayment(ctx, providerPaymentID)
	if err != nil {
		if errors.Is(err, postgres.ErrPaymentNotFound) {
			return
		}
		// Сбой шлюза не фатален: платеж попадет в следующий скан
		p.logger.Error("failed to reverify payment",
			zap.String("provider_payment_id", providerPaymentID),
			zap.Error(err),
		)
		return
	}

	if result.OrderTransitioned {
		p.logger.Info("payment reconciled",
			zap.String("provider_payment_id", providerPaymentID),
			zap.String("order_id", result.OrderID.String()),
			zap.String("status", result.Status),
		)
	}
}

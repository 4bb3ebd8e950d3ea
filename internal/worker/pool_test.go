package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/repository/postgres"
)

type paymentListStub struct {
	mu       sync.Mutex
	payments []*domain.Payment
	calls    int
}

func (s *paymentListStub) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	return nil
}

func (s *paymentListStub) GetPaymentByProviderID(ctx context.Context, providerPaymentID string) (*domain.Payment, error) {
	return nil, postgres.ErrPaymentNotFound
}

func (s *paymentListStub) ApplyProviderStatus(ctx context.Context, providerPaymentID, status string, rawWebhook []byte, now time.Time) (*domain.ReconcileResult, error) {
	return nil, postgres.ErrPaymentNotFound
}

func (s *paymentListStub) ListUnsettledPayments(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	// Отдаем платежи только на первом скане, чтобы не плодить дубликаты в тесте
	if s.calls > 1 {
		return nil, nil
	}
	return s.payments, nil
}

// blockingListStub держит первый скан открытым, пока его не отпустят
type blockingListStub struct {
	paymentListStub
	startOnce sync.Once
	started   chan struct{}
	release   chan struct{}
}

func (s *blockingListStub) ListUnsettledPayments(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Payment, error) {
	s.startOnce.Do(func() { close(s.started) })
	<-s.release
	return s.paymentListStub.ListUnsettledPayments(ctx, olderThan, limit)
}

type reconcilerStub struct {
	mu   sync.Mutex
	seen map[string]int
	err  error
	done chan struct{}
	want int
}

func newReconcilerStub(want int, err error) *reconcilerStub {
	return &reconcilerStub{
		seen: make(map[string]int),
		err:  err,
		done: make(chan struct{}),
		want: want,
	}
}

func (s *reconcilerStub) ReverifyPayment(ctx context.Context, providerPaymentID string) (*domain.ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen[providerPaymentID]++
	if total := len(s.seen); total == s.want {
		close(s.done)
	}

	if s.err != nil {
		return nil, s.err
	}
	return &domain.ReconcileResult{
		OrderID:           uuid.New(),
		Status:            domain.PaymentStatusSucceeded,
		OrderTransitioned: true,
	}, nil
}

func TestPool_ReconcilesUnsettledPayments(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	payments := &paymentListStub{
		payments: []*domain.Payment{
			{ID: uuid.New(), ProviderPaymentID: "yk-payment-1", Status: domain.PaymentStatusPending},
			{ID: uuid.New(), ProviderPaymentID: "yk-payment-2", Status: domain.PaymentStatusWaitingForCapture},
		},
	}
	reconciler := newReconcilerStub(2, nil)

	pool := NewPool(PoolConfig{
		Workers:      2,
		QueueSize:    10,
		ScanInterval: 10 * time.Millisecond,
		StaleAfter:   time.Minute,
	}, payments, reconciler, logger)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	select {
	case <-reconciler.done:
	case <-time.After(2 * time.Second):
		t.Fatal("payments were not reconciled in time")
	}

	cancel()
	pool.Stop()

	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()
	assert.Contains(t, reconciler.seen, "yk-payment-1")
	assert.Contains(t, reconciler.seen, "yk-payment-2")
}

func TestPool_StopWaitsForScanInFlight(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	payments := &blockingListStub{
		paymentListStub: paymentListStub{
			payments: []*domain.Payment{
				{ID: uuid.New(), ProviderPaymentID: "yk-payment-1", Status: domain.PaymentStatusPending},
			},
		},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	reconciler := newReconcilerStub(1, nil)

	pool := NewPool(PoolConfig{
		Workers:      1,
		QueueSize:    10,
		ScanInterval: 10 * time.Millisecond,
		StaleAfter:   time.Minute,
	}, payments, reconciler, logger)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	select {
	case <-payments.started:
	case <-time.After(2 * time.Second):
		t.Fatal("scan did not start in time")
	}

	// Останавливаемся посреди скана: очередь должна пережить отправку
	// платежей, найденных этим сканом
	cancel()

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("pool stopped while a scan was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(payments.release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after the scan finished")
	}
}

func TestPool_SurvivesReconcileErrors(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	payments := &paymentListStub{
		payments: []*domain.Payment{
			{ID: uuid.New(), ProviderPaymentID: "yk-payment-1", Status: domain.PaymentStatusPending},
		},
	}
	// Сбой шлюза не должен ронять воркеров
	reconciler := newReconcilerStub(1, domain.ErrGateway)

	pool := NewPool(PoolConfig{
		Workers:      1,
		QueueSize:    10,
		ScanInterval: 10 * time.Millisecond,
		StaleAfter:   time.Minute,
	}, payments, reconciler, logger)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	select {
	case <-reconciler.done:
	case <-time.After(2 * time.Second):
		t.Fatal("payment was not attempted in time")
	}

	cancel()
	pool.Stop()

	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()
	assert.Equal(t, 1, len(reconciler.seen))
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/repository/postgres"
)

func TestWebhookService_HandleNotification(t *testing.T) {
	ctx := context.Background()
	raw := []byte(`{"event":"payment.succeeded","object":{"id":"yk-payment-1","status":"succeeded"}}`)

	t.Run("Success applies verified status", func(t *testing.T) {
		payments := &paymentRepoMock{}
		gateway := &gatewayMock{}
		svc := NewWebhookService(payments, gateway, testGatewayConfig())

		gateway.On("GetPayment", mock.Anything, "yk-payment-1").
			Return(&domain.ProviderPayment{ID: "yk-payment-1", Status: domain.PaymentStatusSucceeded}, nil).Once()
		payments.On("ApplyProviderStatus", mock.Anything, "yk-payment-1", domain.PaymentStatusSucceeded, raw, mock.Anything).
			Return(&domain.ReconcileResult{
				PaymentID:         uuid.New(),
				OrderID:           uuid.New(),
				Status:            domain.PaymentStatusSucceeded,
				AmountRub:         2800,
				PaidAtSet:         true,
				OrderTransitioned: true,
			}, nil).Once()

		result, err := svc.HandleNotification(ctx, raw)
		require.NoError(t, err)
		assert.True(t, result.Matched)
		assert.True(t, result.OrderTransitioned)
		assert.Equal(t, "payment.succeeded", result.Event)
		assert.Equal(t, domain.PaymentStatusSucceeded, result.Status)

		gateway.AssertExpectations(t)
		payments.AssertExpectations(t)
	})

	t.Run("Body status is ignored, provider status wins", func(t *testing.T) {
		payments := &paymentRepoMock{}
		gateway := &gatewayMock{}
		svc := NewWebhookService(payments, gateway, testGatewayConfig())

		// Тело утверждает succeeded, провайдер отвечает canceled
		gateway.On("GetPayment", mock.Anything, "yk-payment-1").
			Return(&domain.ProviderPayment{ID: "yk-payment-1", Status: domain.PaymentStatusCanceled}, nil).Once()
		payments.On("ApplyProviderStatus", mock.Anything, "yk-payment-1", domain.PaymentStatusCanceled, raw, mock.Anything).
			Return(&domain.ReconcileResult{Status: domain.PaymentStatusCanceled, OrderTransitioned: true}, nil).Once()

		result, err := svc.HandleNotification(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCanceled, result.Status)
		payments.AssertExpectations(t)
	})

	t.Run("Unknown payment acknowledged without effects", func(t *testing.T) {
		payments := &paymentRepoMock{}
		gateway := &gatewayMock{}
		svc := NewWebhookService(payments, gateway, testGatewayConfig())

		gateway.On("GetPayment", mock.Anything, "yk-payment-1").
			Return(&domain.ProviderPayment{ID: "yk-payment-1", Status: domain.PaymentStatusSucceeded}, nil).Once()
		payments.On("ApplyProviderStatus", mock.Anything, "yk-payment-1", domain.PaymentStatusSucceeded, raw, mock.Anything).
			Return(nil, postgres.ErrPaymentNotFound).Once()

		result, err := svc.HandleNotification(ctx, raw)
		require.NoError(t, err)
		assert.False(t, result.Matched)
		assert.False(t, result.OrderTransitioned)
	})

	t.Run("Malformed body", func(t *testing.T) {
		svc := NewWebhookService(&paymentRepoMock{}, &gatewayMock{}, testGatewayConfig())

		result, err := svc.HandleNotification(ctx, []byte("not json"))
		assert.ErrorIs(t, err, domain.ErrMissingProviderID)
		assert.Nil(t, result)
	})

	t.Run("Missing object id", func(t *testing.T) {
		svc := NewWebhookService(&paymentRepoMock{}, &gatewayMock{}, testGatewayConfig())

		result, err := svc.HandleNotification(ctx, []byte(`{"event":"payment.succeeded","object":{}}`))
		assert.ErrorIs(t, err, domain.ErrMissingProviderID)
		assert.Nil(t, result)
	})

	t.Run("Gateway not configured", func(t *testing.T) {
		svc := NewWebhookService(&paymentRepoMock{}, &gatewayMock{}, GatewayConfig{})

		result, err := svc.HandleNotification(ctx, raw)
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
		assert.Nil(t, result)
	})

	t.Run("Verification read failure aborts", func(t *testing.T) {
		payments := &paymentRepoMock{}
		gateway := &gatewayMock{}
		svc := NewWebhookService(payments, gateway, testGatewayConfig())

		gateway.On("GetPayment", mock.Anything, "yk-payment-1").
			Return(nil, domain.ErrGateway).Once()

		result, err := svc.HandleNotification(ctx, raw)
		assert.ErrorIs(t, err, domain.ErrGateway)
		assert.Nil(t, result)

		// Никаких переходов без подтвержденного статуса
		payments.AssertNotCalled(t, "ApplyProviderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Repository error", func(t *testing.T) {
		payments := &paymentRepoMock{}
		gateway := &gatewayMock{}
		svc := NewWebhookService(payments, gateway, testGatewayConfig())

		gateway.On("GetPayment", mock.Anything, "yk-payment-1").
			Return(&domain.ProviderPayment{ID: "yk-payment-1", Status: domain.PaymentStatusSucceeded}, nil).Once()
		payments.On("ApplyProviderStatus", mock.Anything, "yk-payment-1", domain.PaymentStatusSucceeded, raw, mock.Anything).
			Return(nil, errors.New("database error")).Once()

		result, err := svc.HandleNotification(ctx, raw)
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestWebhookService_ReverifyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success without raw body", func(t *testing.T) {
		payments := &paymentRepoMock{}
		gateway := &gatewayMock{}
		svc := NewWebhookService(payments, gateway, testGatewayConfig())

		gateway.On("GetPayment", mock.Anything, "yk-payment-1").
			Return(&domain.ProviderPayment{ID: "yk-payment-1", Status: domain.PaymentStatusSucceeded}, nil).Once()
		// nil вместо тела вебхука: сохраненное уведомление не затирается
		payments.On("ApplyProviderStatus", mock.Anything, "yk-payment-1", domain.PaymentStatusSucceeded, []byte(nil), mock.Anything).
			Return(&domain.ReconcileResult{Status: domain.PaymentStatusSucceeded, AmountRub: 2800, PaidAtSet: true}, nil).Once()

		result, err := svc.ReverifyPayment(ctx, "yk-payment-1")
		require.NoError(t, err)
		assert.True(t, result.PaidAtSet)
		payments.AssertExpectations(t)
	})

	t.Run("Gateway not configured", func(t *testing.T) {
		svc := NewWebhookService(&paymentRepoMock{}, &gatewayMock{}, GatewayConfig{})

		result, err := svc.ReverifyPayment(ctx, "yk-payment-1")
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
		assert.Nil(t, result)
	})

	t.Run("Unknown payment propagates error", func(t *testing.T) {
		payments := &paymentRepoMock{}
		gateway := &gatewayMock{}
		svc := NewWebhookService(payments, gateway, testGatewayConfig())

		gateway.On("GetPayment", mock.Anything, "yk-gone").
			Return(&domain.ProviderPayment{ID: "yk-gone", Status: domain.PaymentStatusCanceled}, nil).Once()
		payments.On("ApplyProviderStatus", mock.Anything, "yk-gone", domain.PaymentStatusCanceled, []byte(nil), mock.Anything).
			Return(nil, postgres.ErrPaymentNotFound).Once()

		result, err := svc.ReverifyPayment(ctx, "yk-gone")
		assert.ErrorIs(t, err, postgres.ErrPaymentNotFound)
		assert.Nil(t, result)
	})
}

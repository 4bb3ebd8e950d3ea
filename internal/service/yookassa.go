package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/metrics"
)

// GatewayConfig — учетные данные магазина в ЮKassa
type GatewayConfig struct {
	APIBase   string
	ShopID    string
	SecretKey string
	ReturnURL string
}

// Configured сообщает, заданы ли все обязательные параметры шлюза
func (c GatewayConfig) Configured() bool {
	return c.ShopID != "" && c.SecretKey != "" && c.ReturnURL != ""
}

// CreatePaymentRequest — параметры создания транзакции у провайдера
type CreatePaymentRequest struct {
	AmountRub int
	ReturnURL string
	// Description — свободный текст, виден плательщику
	Description string
	// IdempotenceKey передается провайдеру без изменений при каждом повторе
	// одной и той же логической попытки: это его механизм дедупликации.
	// Мы используем id заказа, поэтому на заказ возможна максимум одна транзакция.
	IdempotenceKey string
	Metadata       map[string]string
}

// PaymentGateway определяет методы взаимодействия с провайдером платежей
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*domain.ProviderPayment, error)
	// GetPayment всегда читает свежее состояние у провайдера, без кеша:
	// финансовые решения по запомненному статусу принимать нельзя.
	GetPayment(ctx context.Context, providerPaymentID string) (*domain.ProviderPayment, error)
}

// YooKassaClient реализует PaymentGateway поверх HTTP API ЮKassa v3.
// Внутри клиента нет повторов: политика повтора принадлежит вызывающему.
type YooKassaClient struct {
	cfg        GatewayConfig
	httpClient *http.Client
}

// NewYooKassaClient создает новый клиент ЮKassa
func NewYooKassaClient(cfg GatewayConfig) *YooKassaClient {
	return &YooKassaClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type yooKassaAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type yooKassaConfirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type yooKassaCreateRequest struct {
	Amount       yooKassaAmount       `json:"amount"`
	Confirmation yooKassaConfirmation `json:"confirmation"`
	Capture      bool                 `json:"capture"`
	Description  string               `json:"description"`
	Metadata     map[string]string    `json:"metadata,omitempty"`
}

type yooKassaPaymentResponse struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Confirmation *yooKassaConfirmation `json:"confirmation"`
}

// CreatePayment создает транзакцию у провайдера
func (c *YooKassaClient) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*domain.ProviderPayment, error) {
	payload := yooKassaCreateRequest{
		Amount: yooKassaAmount{
			Value:    EncodeAmountRub(req.AmountRub),
			Currency: "RUB",
		},
		Confirmation: yooKassaConfirmation{
			Type:      "redirect",
			ReturnURL: req.ReturnURL,
		},
		Capture:     true,
		Description: req.Description,
		Metadata:    req.Metadata,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("yookassa: failed to marshal create request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBase+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("yookassa: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", req.IdempotenceKey)
	httpReq.SetBasicAuth(c.cfg.ShopID, c.cfg.SecretKey)

	payment, err := c.do(httpReq)
	if err != nil {
		metrics.IncGatewayRequest("create", "error")
		return nil, err
	}

	if payment.ID == "" {
		metrics.IncGatewayRequest("create", "error")
		return nil, fmt.Errorf("yookassa: no payment id in response: %w", domain.ErrGateway)
	}

	metrics.IncGatewayRequest("create", "ok")
	return payment, nil
}

// GetPayment получает текущее состояние транзакции у провайдера
func (c *YooKassaClient) GetPayment(ctx context.Context, providerPaymentID string) (*domain.ProviderPayment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIBase+"/payments/"+providerPaymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("yookassa: failed to create request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.ShopID, c.cfg.SecretKey)

	payment, err := c.do(httpReq)
	if err != nil {
		metrics.IncGatewayRequest("get", "error")
		return nil, err
	}

	metrics.IncGatewayRequest("get", "ok")
	return payment, nil
}

func (c *YooKassaClient) do(req *http.Request) (*domain.ProviderPayment, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yookassa: request failed: %v: %w", err, domain.ErrGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("yookassa: unexpected status %d: %s: %w", resp.StatusCode, body, domain.ErrGateway)
	}

	var payment yooKassaPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("yookassa: failed to decode response: %v: %w", err, domain.ErrGateway)
	}

	out := &domain.ProviderPayment{
		ID:     payment.ID,
		Status: payment.Status,
	}
	if payment.Confirmation != nil {
		out.ConfirmationURL = payment.Confirmation.ConfirmationURL
	}
	return out, nil
}

// EncodeAmountRub кодирует целые рубли в строку с ровно двумя знаками
// после точки, как ожидает провайдер. Без float: конвертация точная.
func EncodeAmountRub(amountRub int) string {
	return strconv.Itoa(amountRub) + ".00"
}

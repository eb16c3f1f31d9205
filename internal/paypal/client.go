// Package paypal проверяет захваченные платежи через PayPal Orders API.
// Сервер не доверяет клиенту: оплаченный заказ перепроверяется по
// статусу и сумме до того, как попадет в БД.
package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"fbpitch/internal/config"
	"fbpitch/internal/money"
)

// Базовые URL по средам. Среда выбирается конфигурацией, не кодом.
const (
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
	liveBaseURL    = "https://api-m.paypal.com"
)

// statusCompleted - единственный статус, при котором платеж считается подтвержденным.
const statusCompleted = "COMPLETED"

// ErrNotVerified - платеж не подтвержден: статус не COMPLETED или сумма расходится.
var ErrNotVerified = errors.New("платеж не подтвержден шлюзом")

// Client - клиент PayPal REST API с ограниченным таймаутом.
type Client struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
	tracer   trace.Tracer
}

// NewClient создает клиент для настроенной среды (sandbox или live).
func NewClient(cfg config.PayPalConfig) *Client {
	baseURL := sandboxBaseURL
	if cfg.Env == "live" {
		baseURL = liveBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
		http:     &http.Client{Timeout: cfg.Timeout},
		tracer:   otel.Tracer("paypal-client"),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
}

// VerifyOrder запрашивает заказ у шлюза и подтверждает, что его статус
// ровно COMPLETED и захваченная сумма численно равна ожидаемой.
func (c *Client) VerifyOrder(ctx context.Context, gatewayOrderID string, expected money.Fils) error {
	ctx, span := c.tracer.Start(ctx, "PayPal.VerifyOrder")
	defer span.End()

	token, err := c.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения токена шлюза: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v2/checkout/orders/%s", c.baseURL, url.PathEscape(gatewayOrderID)), nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса заказа у шлюза: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("шлюз вернул статус %d: %w", resp.StatusCode, ErrNotVerified)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return fmt.Errorf("ошибка разбора ответа шлюза: %w", err)
	}

	if order.Status != statusCompleted {
		return fmt.Errorf("статус заказа %q: %w", order.Status, ErrNotVerified)
	}

	if len(order.PurchaseUnits) == 0 {
		return fmt.Errorf("в ответе шлюза нет purchase units: %w", ErrNotVerified)
	}
	captured, err := money.FromKD(order.PurchaseUnits[0].Amount.Value)
	if err != nil {
		return fmt.Errorf("ошибка разбора суммы шлюза: %w", err)
	}
	if captured != expected {
		return fmt.Errorf("сумма шлюза %s не равна ожидаемой %s: %w", captured, expected, ErrNotVerified)
	}

	return nil
}

// accessToken получает OAuth-токен по client credentials.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", body)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("токен не выдан, статус %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", errors.New("пустой access_token в ответе шлюза")
	}
	return tr.AccessToken, nil
}

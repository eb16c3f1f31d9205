// Package sheets дописывает строки заказов в Google-таблицу оператора.
// Авторизация - сервисный аккаунт: RS256-подписанный JWT обменивается
// на access token, дальше обычный values.append.
package sheets

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"fbpitch/internal/config"
	"fbpitch/internal/model"
)

const (
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	defaultAPIURL   = "https://sheets.googleapis.com"
	scope           = "https://www.googleapis.com/auth/spreadsheets"
)

// Client дописывает значения в лист таблицы.
type Client struct {
	tokenURL    string
	apiURL      string
	clientEmail string
	privateKey  *rsa.PrivateKey
	sheetID     string
	sheetRange  string
	http        *http.Client
	tracer      trace.Tracer
}

// NewClient разбирает ключ сервисного аккаунта и создает клиент.
// В env приватный ключ лежит с экранированными переводами строк.
func NewClient(cfg config.SheetsConfig) (*Client, error) {
	pem := strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора ключа сервисного аккаунта: %w", err)
	}

	return &Client{
		tokenURL:    defaultTokenURL,
		apiURL:      defaultAPIURL,
		clientEmail: cfg.ClientEmail,
		privateKey:  key,
		sheetID:     cfg.SheetID,
		sheetRange:  cfg.Range,
		http:        &http.Client{Timeout: 15 * time.Second},
		tracer:      otel.Tracer("sheets-client"),
	}, nil
}

// AppendOrder дописывает по строке на каждую позицию заказа.
func (c *Client) AppendOrder(ctx context.Context, order *model.Order) error {
	ctx, span := c.tracer.Start(ctx, "Sheets.AppendOrder")
	defer span.End()

	token, err := c.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения токена Sheets: %w", err)
	}

	var values [][]interface{}
	for _, item := range order.Items {
		values = append(values, []interface{}{
			order.OrderID,
			order.Customer,
			order.Amount.String(),
			order.PaymentMethod,
			order.PromoCode,
			order.DiscountPercent,
			item.Name,
			item.Size,
			item.Quality,
			item.Sleeve,
			item.Patch,
			item.CustomName,
			item.Instagram,
			item.Price.String(),
			order.Address.FirstName,
			order.Address.LastName,
			order.Address.Phone,
			order.Address.Street,
			order.Address.City,
			order.Address.State,
			order.Address.Postal,
			order.CreatedAt.Format(time.RFC3339),
		})
	}

	body, err := json.Marshal(map[string]interface{}{"values": values})
	if err != nil {
		return fmt.Errorf("ошибка сериализации строк: %w", err)
	}

	appendURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED",
		c.apiURL, url.PathEscape(c.sheetID), url.PathEscape(c.sheetRange))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, appendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса к Sheets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheets вернул статус %d", resp.StatusCode)
	}
	return nil
}

// accessToken обменивает подписанный JWT сервисного аккаунта на access token.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   c.clientEmail,
		"scope": scope,
		"aud":   c.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("токен не выдан, статус %d", resp.StatusCode)
	}

	var tr struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("пустой access_token в ответе")
	}
	return tr.AccessToken, nil
}

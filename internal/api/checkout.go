package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fbpitch/internal/checkout"
	"fbpitch/internal/database"
	"fbpitch/internal/metrics"
	"fbpitch/internal/model"
	"fbpitch/internal/money"
	"fbpitch/internal/promo"
)

// CheckoutHandler принимает оформление заказа и применение промокодов.
type CheckoutHandler struct {
	pipeline *checkout.Pipeline
	promos   *promo.Resolver
	storage  database.Storage
}

// NewCheckoutHandler создает новый экземпляр CheckoutHandler.
func NewCheckoutHandler(pipeline *checkout.Pipeline, promos *promo.Resolver, storage database.Storage) *CheckoutHandler {
	return &CheckoutHandler{pipeline: pipeline, promos: promos, storage: storage}
}

// Submit проводит заказ через конвейер оформления.
// HTTP-статус выбирается по виду отказа конвейера.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	handlerName := "Checkout"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	customer, ok := customerFrom(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", handlerName)
		return
	}

	var req checkout.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", handlerName)
		return
	}
	// Покупатель берется из токена, а не из тела запроса.
	req.Customer = customer

	order, err := h.pipeline.Submit(r.Context(), &req)
	if err != nil {
		respondWithError(w, statusForKind(checkout.KindOf(err)), checkoutMessage(err), handlerName)
		return
	}

	respondOK(w, handlerName, map[string]interface{}{
		"success": true,
		"orderId": order.OrderID,
		"message": "Order placed successfully",
	})
}

// applyRequest - применение промокода к подытогу корзины.
type applyRequest struct {
	Code     string     `json:"code"`
	Subtotal money.Fils `json:"subtotal"`
}

// ApplyPromo нормализует код и возвращает процент и пересчитанный итог.
func (h *CheckoutHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	handlerName := "ApplyPromo"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", handlerName)
		return
	}

	result, err := h.promos.Apply(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		if errors.Is(err, promo.ErrEmptyCode) || errors.Is(err, promo.ErrUnknownCode) {
			respondWithError(w, http.StatusBadRequest, err.Error(), handlerName)
			return
		}
		log.Printf("Ошибка применения промокода: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	respondOK(w, handlerName, result)
}

// ListOrders возвращает заказы с фильтрами админского списка, новые первыми.
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	handlerName := "ListOrders"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	filter, err := parseOrderFilter(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), handlerName)
		return
	}

	orders, err := h.storage.ListOrders(r.Context(), filter)
	if err != nil {
		log.Printf("Ошибка получения списка заказов: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	respondOK(w, handlerName, orders)
}

// parseOrderFilter разбирает query-параметры фильтра заказов.
// Даты принимаются как YYYY-MM-DD, сумма - как "d.ddd" в динарах.
func parseOrderFilter(r *http.Request) (database.OrderFilter, error) {
	var filter database.OrderFilter
	query := r.URL.Query()

	if raw := query.Get("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("Invalid startDate, expected YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if raw := query.Get("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("Invalid endDate, expected YYYY-MM-DD")
		}
		// Конец дня включительно.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}
	if raw := query.Get("minAmount"); raw != "" {
		amount, err := money.FromKD(raw)
		if err != nil {
			return filter, errors.New("Invalid minAmount")
		}
		filter.MinAmount = amount
	}
	filter.Customer = query.Get("customer")
	return filter, nil
}

// statusForKind отображает вид отказа конвейера на HTTP-статус.
func statusForKind(kind checkout.Kind) int {
	switch kind {
	case checkout.KindInvalidOrderData, checkout.KindInvalidPhoneFormat:
		return http.StatusBadRequest
	case checkout.KindPaymentUnverified:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"fbpitch/internal/auth"
	"fbpitch/internal/cart"
	"fbpitch/internal/checkout"
	"fbpitch/internal/database"
	"fbpitch/internal/metrics"
	"fbpitch/internal/model"
	"fbpitch/internal/money"
)

// CartHandler обрабатывает корзину покупателя. Покупатель определяется
// по токену, а не по полю запроса: чужую корзину запросом не откроешь.
type CartHandler struct {
	carts   cart.Repository
	storage database.Storage
}

// NewCartHandler создает новый экземпляр CartHandler.
func NewCartHandler(carts cart.Repository, storage database.Storage) *CartHandler {
	return &CartHandler{carts: carts, storage: storage}
}

// cartResponse - корзина с посчитанным на сервере подытогом.
type cartResponse struct {
	Items    []model.LineItem `json:"items"`
	Subtotal money.Fils       `json:"subtotal"`
}

// Get возвращает корзину текущего покупателя.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	handlerName := "GetCart"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	customer, ok := customerFrom(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", handlerName)
		return
	}

	items, err := h.carts.Load(r.Context(), customer)
	if err != nil {
		log.Printf("Ошибка загрузки корзины %s: %v", customer, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	if items == nil {
		items = []model.LineItem{}
	}

	full := model.Cart{CustomerID: customer, Items: items}
	respondOK(w, handlerName, cartResponse{Items: items, Subtotal: full.Subtotal()})
}

// addRequest - добавление товара с выбранными опциями.
type addRequest struct {
	ProductID string           `json:"productId"`
	Options   checkout.Options `json:"options"`
}

// Add конфигурирует товар и кладет позицию в корзину.
// Цена позиции считается на сервере, клиентская цена игнорируется.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	handlerName := "AddToCart"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	customer, ok := customerFrom(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", handlerName)
		return
	}

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", handlerName)
		return
	}
	if req.ProductID == "" {
		respondWithError(w, http.StatusBadRequest, "Product id is required", handlerName)
		return
	}

	product, err := h.storage.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found", handlerName)
			return
		}
		log.Printf("Ошибка получения товара %s: %v", req.ProductID, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}

	item, err := checkout.Customize(product, req.Options)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, checkoutMessage(err), handlerName)
		return
	}

	if err := h.carts.Add(r.Context(), customer, item); err != nil {
		log.Printf("Ошибка сохранения корзины %s: %v", customer, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	respondOK(w, handlerName, item)
}

// Remove убирает позицию по ?index= либо очищает корзину целиком.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	handlerName := "RemoveFromCart"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	customer, ok := customerFrom(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", handlerName)
		return
	}

	rawIndex := r.URL.Query().Get("index")
	if rawIndex == "" {
		if err := h.carts.Clear(r.Context(), customer); err != nil {
			log.Printf("Ошибка очистки корзины %s: %v", customer, err)
			respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
			return
		}
		respondOK(w, handlerName, map[string]string{"status": "cleared"})
		return
	}

	index, err := strconv.Atoi(rawIndex)
	if err != nil || index < 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid index", handlerName)
		return
	}

	// Индекс за границами - no-op, как и в хранилище.
	if err := h.carts.Remove(r.Context(), customer, index); err != nil {
		log.Printf("Ошибка удаления из корзины %s: %v", customer, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	respondOK(w, handlerName, map[string]string{"status": "removed"})
}

// customerFrom достает имя покупателя из клаймов токена.
func customerFrom(r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok || claims.Username == "" {
		return "", false
	}
	return claims.Username, true
}

// checkoutMessage возвращает пользовательское сообщение ошибки конфигурации.
func checkoutMessage(err error) string {
	var pipelineErr *checkout.Error
	if errors.As(err, &pipelineErr) {
		return pipelineErr.Message
	}
	return "Invalid product options"
}

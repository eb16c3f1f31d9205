package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"fbpitch/internal/cache"
	"fbpitch/internal/database"
	"fbpitch/internal/metrics"
	"fbpitch/internal/model"
)

// ProductHandler обрабатывает HTTP-запросы каталога.
type ProductHandler struct {
	storage database.Storage // Используем интерфейс
	cache   cache.Cache      // Используем интерфейс
}

// NewProductHandler создает новый экземпляр ProductHandler.
func NewProductHandler(storage database.Storage, cache cache.Cache) *ProductHandler {
	return &ProductHandler{storage: storage, cache: cache}
}

// List возвращает каталог с необязательными фильтрами search/category.
// Одиночный товар (?id=) идет через кэш, список - напрямую из БД.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	handlerName := "ListProducts"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	if id := r.URL.Query().Get("id"); id != "" {
		h.getByID(w, r, id, handlerName)
		return
	}

	filter := database.ProductFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}
	products, err := h.storage.ListProducts(r.Context(), filter)
	if err != nil {
		log.Printf("Ошибка получения каталога: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	respondOK(w, handlerName, products)
}

// getByID ищет товар сначала в кэше, затем в БД.
func (h *ProductHandler) getByID(w http.ResponseWriter, r *http.Request, id, handlerName string) {
	if cached, found := h.cache.Get(r.Context(), id); found {
		metrics.CacheHits.Inc()
		respondOK(w, handlerName, cached)
		return
	}
	metrics.CacheMisses.Inc()

	product, err := h.storage.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found", handlerName)
			return
		}
		log.Printf("Ошибка получения товара %s: %v", id, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}

	h.cache.Set(r.Context(), id, product)
	respondOK(w, handlerName, product)
}

// Create сохраняет новый товар каталога (только админ).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	handlerName := "CreateProduct"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", handlerName)
		return
	}
	if !productComplete(&product) {
		respondWithError(w, http.StatusBadRequest, "Missing required product fields", handlerName)
		return
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if err := h.storage.CreateProduct(r.Context(), &product); err != nil {
		log.Printf("Ошибка создания товара: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}

	productCopy := product
	h.cache.Set(r.Context(), product.ID, &productCopy)
	respondOK(w, handlerName, product)
}

// Update заменяет изменяемые поля товара (только админ).
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	handlerName := "UpdateProduct"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", handlerName)
		return
	}
	if product.ID == "" {
		respondWithError(w, http.StatusBadRequest, "Product id is required", handlerName)
		return
	}
	if !productComplete(&product) {
		respondWithError(w, http.StatusBadRequest, "Missing required product fields", handlerName)
		return
	}

	if err := h.storage.UpdateProduct(r.Context(), &product); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found", handlerName)
			return
		}
		log.Printf("Ошибка обновления товара %s: %v", product.ID, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}

	// Перезаписываем кэш свежей версией, чтобы читатели не видели старую.
	productCopy := product
	h.cache.Set(r.Context(), product.ID, &productCopy)
	respondOK(w, handlerName, product)
}

// Delete удаляет товар по ?id= (только админ). Идемпотентен.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	handlerName := "DeleteProduct"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	id := r.URL.Query().Get("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Product id is required", handlerName)
		return
	}

	if err := h.storage.DeleteProduct(r.Context(), id); err != nil {
		log.Printf("Ошибка удаления товара %s: %v", id, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}

	h.cache.Delete(r.Context(), id)
	respondOK(w, handlerName, map[string]string{"status": "deleted"})
}

// productComplete проверяет обязательные поля карточки товара.
func productComplete(p *model.Product) bool {
	return p.Name != "" && p.Price.IsPositive() && p.Image != "" &&
		len(p.Categories) > 0 && p.League != ""
}

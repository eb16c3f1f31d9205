package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"fbpitch/internal/database"
	"fbpitch/internal/metrics"
	"fbpitch/internal/model"
	"fbpitch/internal/validator"
)

// ContactNotifier ставит уведомление о сообщении обратной связи в очередь.
type ContactNotifier interface {
	EnqueueContact(ctx context.Context, msg *model.ContactMessage) error
}

// ContactHandler обрабатывает форму обратной связи.
type ContactHandler struct {
	storage  database.Storage
	notifier ContactNotifier
}

// NewContactHandler создает новый экземпляр ContactHandler.
func NewContactHandler(storage database.Storage, notifier ContactNotifier) *ContactHandler {
	return &ContactHandler{storage: storage, notifier: notifier}
}

// Submit сохраняет сообщение и ставит уведомление в очередь.
// Отказ очереди не портит ответ: сообщение уже в БД.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	handlerName := "ContactSubmit"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	var msg model.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", handlerName)
		return
	}
	if err := validator.ValidateStruct(&msg); err != nil {
		respondWithError(w, http.StatusBadRequest, "Name, email and message are required", handlerName)
		return
	}

	if err := h.storage.SaveContactMessage(r.Context(), &msg); err != nil {
		log.Printf("Ошибка сохранения сообщения: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}

	if err := h.notifier.EnqueueContact(r.Context(), &msg); err != nil {
		log.Printf("Не удалось поставить уведомление о сообщении %d: %v", msg.ID, err)
	}

	respondOK(w, handlerName, map[string]interface{}{"success": true, "id": msg.ID})
}

// List возвращает сообщения обратной связи, новые первыми (только админ).
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	handlerName := "ListContactMessages"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	messages, err := h.storage.ListContactMessages(r.Context())
	if err != nil {
		log.Printf("Ошибка получения сообщений: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	if messages == nil {
		messages = []model.ContactMessage{}
	}
	respondOK(w, handlerName, messages)
}

// Delete удаляет сообщение по ?id= (только админ). Идемпотентен.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	handlerName := "DeleteContactMessage"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid message id", handlerName)
		return
	}

	if err := h.storage.DeleteContactMessage(r.Context(), id); err != nil {
		log.Printf("Ошибка удаления сообщения %d: %v", id, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	respondOK(w, handlerName, map[string]string{"status": "deleted"})
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fbpitch/internal/metrics"
)

// respondWithJSON вспомогательная функция для отправки JSON-ответов.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError отправляет JSON-ошибку и учитывает её в метриках.
func respondWithError(w http.ResponseWriter, code int, message string, handlerName string) {
	metrics.HttpRequestsTotal.WithLabelValues(handlerName, strconv.Itoa(code)).Inc()
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondOK учитывает успешный запрос в метриках и отправляет тело.
func respondOK(w http.ResponseWriter, handlerName string, payload interface{}) {
	metrics.HttpRequestsTotal.WithLabelValues(handlerName, "200").Inc()
	respondWithJSON(w, http.StatusOK, payload)
}

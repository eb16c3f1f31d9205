package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"fbpitch/internal/auth"
	"fbpitch/internal/database"
	"fbpitch/internal/metrics"
	"fbpitch/internal/model"
)

// UserHandler обрабатывает регистрацию, вход и проверку токенов.
type UserHandler struct {
	auth    *auth.Service
	storage database.Storage
}

// NewUserHandler создает новый экземпляр UserHandler.
func NewUserHandler(authService *auth.Service, storage database.Storage) *UserHandler {
	return &UserHandler{auth: authService, storage: storage}
}

// credentials - тело запросов signup/login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup регистрирует покупателя. Пароль сразу превращается в bcrypt-хэш.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	handlerName := "Signup"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", handlerName)
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required", handlerName)
		return
	}

	if _, err := h.storage.GetUser(r.Context(), creds.Username); err == nil {
		respondWithError(w, http.StatusBadRequest, "Username already taken", handlerName)
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		log.Printf("Ошибка проверки имени %s: %v", creds.Username, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		log.Printf("Ошибка хэширования пароля: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}

	user := &model.User{Username: creds.Username, PasswordHash: hash, Role: model.RoleUser}
	if err := h.storage.CreateUser(r.Context(), user); err != nil {
		log.Printf("Ошибка создания пользователя %s: %v", creds.Username, err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}

	token, err := h.auth.IssueToken(user.Username, user.Role)
	if err != nil {
		log.Printf("Ошибка выпуска токена: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	respondOK(w, handlerName, map[string]string{"token": token, "username": user.Username})
}

// Login выдает токен покупателя по имени и паролю.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	handlerName := "Login"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", handlerName)
		return
	}

	user, err := h.storage.GetUser(r.Context(), strings.TrimSpace(creds.Username))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found", handlerName)
			return
		}
		log.Printf("Ошибка получения пользователя: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, creds.Password) {
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials", handlerName)
		return
	}

	token, err := h.auth.IssueToken(user.Username, user.Role)
	if err != nil {
		log.Printf("Ошибка выпуска токена: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", handlerName)
		return
	}
	respondOK(w, handlerName, map[string]string{"token": token, "username": user.Username, "role": user.Role})
}

// AdminLogin сверяет учётные данные админа из конфигурации и выдает
// токен с ролью admin.
func (h *UserHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	handlerName := "AdminLogin"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", handlerName)
		return
	}

	token, err := h.auth.AdminLogin(creds.Username, creds.Password)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials", handlerName)
		return
	}
	respondOK(w, handlerName, map[string]string{"token": token})
}

// VerifyAdmin проверяет bearer-токен и сообщает, админский ли он.
func (h *UserHandler) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	handlerName := "VerifyAdmin"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", handlerName)
		return
	}
	claims, err := h.auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", handlerName)
		return
	}

	respondOK(w, handlerName, map[string]interface{}{
		"valid":   true,
		"isAdmin": claims.Role == model.RoleAdmin,
		"role":    claims.Role,
	})
}

// Package auth выпускает и проверяет bearer-токены администратора и
// покупателей. Пароли хранятся только как bcrypt-хэши, имя админа
// сравнивается за константное время.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"fbpitch/internal/config"
	"fbpitch/internal/model"
)

// Срок жизни токена - сутки.
const tokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("Invalid Credentials")
	ErrUnauthorized       = errors.New("Unauthorized")
	ErrForbidden          = errors.New("Forbidden")
)

type contextKey struct{}

// claimsKey - ключ контекста для положенных middleware клаймов.
var claimsKey = contextKey{}

// Claims - полезная нагрузка токена: имя и роль.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service проверяет учётные данные и работает с токенами.
type Service struct {
	secret            []byte
	adminUsername     string
	adminPasswordHash string
}

// NewService создает сервис аутентификации из конфигурации.
func NewService(cfg config.AuthConfig) *Service {
	return &Service{
		secret:            []byte(cfg.JWTSecret),
		adminUsername:     cfg.AdminUsername,
		adminPasswordHash: cfg.AdminPasswordHash,
	}
}

// AdminLogin сверяет учётные данные админа и выпускает токен с ролью admin.
func (s *Service) AdminLogin(username, password string) (string, error) {
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password))
	if !nameOK || passErr != nil {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(username, model.RoleAdmin)
}

// IssueToken выпускает подписанный HS256-токен со сроком жизни сутки.
func (s *Service) IssueToken(username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

// VerifyToken проверяет подпись и срок токена и возвращает клаймы.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// HashPassword возвращает bcrypt-хэш пароля.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с bcrypt-хэшем.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Middleware возвращает chi-совместимую прослойку, пропускающую только
// токены с требуемой ролью: нет/битый токен - 401, чужая роль - 403.
func (s *Service) Middleware(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := s.claimsFromRequest(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Role != requiredRole {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// claimsFromRequest извлекает и проверяет bearer-токен запроса.
func (s *Service) claimsFromRequest(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, ErrUnauthorized
	}
	return s.VerifyToken(strings.TrimPrefix(header, "Bearer "))
}

// WithClaims кладет клаймы в контекст запроса.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom достает клаймы, положенные middleware.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

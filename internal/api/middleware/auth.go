package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

const (
	msgMissingToken = "Token de acesso ausente."
	msgInvalidToken = "Token de acesso inválido."
)

type userKey struct{}

// Claims полезная нагрузка access-токена
type Claims struct {
	Login        string `json:"login"`
	PermissionID int    `json:"permissao"`
	CompanyID    *int64 `json:"empresa,omitempty"`
	jwt.RegisteredClaims
}

// Auth проверяет Bearer-токен (HS256) и кладёт пользователя в контекст
// Без валидного токена отвечает 401
func Auth(secret string, log Logger) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				log.Warn("%s %s - missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			user, err := ParseToken(raw, key)
			if err != nil {
				log.Warn("%s %s - invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// ParseToken проверяет подпись и срок действия токена и извлекает пользователя
func ParseToken(raw string, key []byte) (domain.AuthUser, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.AuthUser{}, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.AuthUser{}, errors.New("subject must be a positive user id")
	}

	return domain.AuthUser{
		ID:           id,
		Login:        claims.Login,
		PermissionID: claims.PermissionID,
		CompanyID:    claims.CompanyID,
	}, nil
}

// WithUser кладёт пользователя в контекст
func WithUser(ctx context.Context, user domain.AuthUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser достаёт аутентифицированного пользователя из контекста
func GetUser(ctx context.Context) (domain.AuthUser, bool) {
	user, ok := ctx.Value(userKey{}).(domain.AuthUser)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

package middleware

import (
	"NoteKeeper/internal/model"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const (
	principalKey ctxKey = iota
	authErrKey
)

// DefaultTokenTTL время жизни токена по умолчанию.
const DefaultTokenTTL = time.Hour

var (
	// ErrNoToken заголовок Authorization отсутствует или без токена.
	ErrNoToken = errors.New("access token required")
	// ErrBadToken подпись, срок действия или формат токена неверны.
	ErrBadToken = errors.New("invalid or expired token")
)

// Claims полезная нагрузка access-токена.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"id"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// BuildToken подписывает HS256-токен для пользователя.
func BuildToken(p model.Principal, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   p.ID,
		Role:     p.Role,
		Username: p.Username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок действия токена.
func ParseToken(tokenStr, secret string) (model.Principal, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return model.Principal{}, ErrBadToken
	}
	return model.Principal{ID: claims.UserID, Role: claims.Role, Username: claims.Username}, nil
}

// bearerToken достаёт токен из "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// WithAuth разбирает Bearer-токен и кладёт пользователя в контекст.
// Запрос не отклоняется: решение принимает RequireAuth.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if p, err := ParseToken(token, secret); err == nil {
				ctx = context.WithValue(ctx, principalKey, p)
			} else {
				ctx = context.WithValue(ctx, authErrKey, err)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth пропускает только запросы с валидным токеном:
// нет токена — 401, невалидный токен — 403.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipal(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if _, bad := r.Context().Value(authErrKey).(error); bad {
			http.Error(w, ErrBadToken.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, ErrNoToken.Error(), http.StatusUnauthorized)
	})
}

// GetPrincipal возвращает пользователя, установленного WithAuth.
func GetPrincipal(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return 0, false
	}
	return p.ID, true
}

// WithPrincipal кладёт пользователя в контекст напрямую (тесты, внутренние вызовы).
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"familycart-go/pkg/logger"
)

// TokenParser validates an access token and returns the subject user UUID.
type TokenParser interface {
	Parse(token string) (string, error)
}

// UserLoader resolves the token subject into the authenticated user.
type UserLoader interface {
	LoadByUUID(ctx context.Context, uuid string) (User, error)
}

// User is the authenticated caller placed on the request context.
type User struct {
	ID            uint
	UUID          string
	Username      string
	Email         string
	EmailVerified bool
}

type contextKey int

const userKey contextKey = iota

type JWTAuth struct {
	tokens TokenParser
	users  UserLoader
	log    logger.Logger
}

func NewJWTAuth(tokens TokenParser, users UserLoader, log logger.Logger) *JWTAuth {
	return &JWTAuth{tokens: tokens, users: users, log: log}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		subject, err := a.tokens.Parse(token)
		if err != nil {
			unauthorized(w)
			return
		}

		authed, err := a.users.LoadByUUID(r.Context(), subject)
		if err != nil {
			a.log.BusinessError("auth: token subject not resolvable", err)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), authed)))
	})
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	return user, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "authentication required",
		"payload": nil,
		"status":  0,
	})
}

// Package auth resolves the acting identity of a request from its session
// cookie or bearer token.
package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"fooddelight/food-svc/internal/domain"
)

const CookieName = "session"

type contextKey string

const (
	identityKey contextKey = "identity"
	tokenKey    contextKey = "session_token"
)

// Resolver is the part of the identity provider the middleware needs.
type Resolver interface {
	CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error)
}

// Token returns the bearer token if present, otherwise the session cookie.
func Token(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Middleware stores the resolved identity in the request context. Requests
// with unknown tokens continue anonymously.
func Middleware(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := Token(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), tokenKey, token)
			identity, err := resolver.CurrentIdentity(ctx, token)
			if err != nil {
				log.Printf("[food-svc] session lookup failed: %v", err)
			}
			if identity != nil {
				ctx = context.WithValue(ctx, identityKey, identity)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns nil for anonymous requests.
func IdentityFrom(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityKey).(*domain.Identity)
	return identity
}

func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func SetCookie(w http.ResponseWriter, session domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/careercompass/backend/internal/auth"
)

// ContextKey is a custom type for context keys
type ContextKey string

// PrincipalKey is the context key for the resolved session principal
const PrincipalKey ContextKey = "principal"

// SessionCookie is the cookie carrying the access token
const SessionCookie = "accessToken"

// tokenFromRequest extracts the session token from the Authorization
// header or, failing that, the session cookie.
func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// ResolveSession returns a middleware that resolves the session token into
// a Principal and stores it in the request context. Requests without a
// valid token pass through unauthenticated; rejection is the route
// guard's job, not this middleware's.
func ResolveSession(sessionSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, ok := auth.Resolve(tokenFromRequest(r), sessionSecret); ok {
				ctx := context.WithValue(r.Context(), PrincipalKey, p)

				AddLogField(w, "user_id", p.ID)
				AddLogField(w, "email", p.Email)

				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetPrincipal extracts the session principal from the request context
func GetPrincipal(r *http.Request) (auth.Principal, bool) {
	p, ok := r.Context().Value(PrincipalKey).(auth.Principal)
	return p, ok
}

// WithPrincipal returns a copy of ctx carrying the principal. Handler
// tests use it to simulate an authenticated request.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

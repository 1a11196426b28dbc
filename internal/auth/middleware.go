// middleware.go — HTTP middleware for auth enforcement.
// Provides Bearer token extraction and admin context injection.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// ctxKey is an unexported type to avoid context key collisions. Using a
// struct type (not string) means no other package can overwrite it.
type ctxKey struct{}

// RequireAdmin is an HTTP middleware that validates the Bearer JWT in the
// Authorization header. On success, injects the parsed claims into the
// request context. On failure, responds with 401 JSON and does not call next.
func RequireAdmin(secret []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			writeAuthError(w, "missing_token", "Authorization header required")
			return
		}

		claims, err := ValidateToken(secret, tokenStr)
		if err != nil {
			// Parse error details stay out of the response.
			writeAuthError(w, "invalid_token", "Invalid or expired token")
			return
		}
		if claims.Role != "admin" {
			writeAuthError(w, "invalid_token", "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext retrieves the claims injected by RequireAdmin.
// Panics if called outside a protected handler: a wiring mistake should
// be a loud panic in development, not a silent security hole.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	if !ok {
		panic("auth.ClaimsFromContext: called outside admin-protected handler — RequireAdmin middleware not applied")
	}
	return c
}

// extractBearerToken pulls the token from "Authorization: Bearer <token>".
// Returns empty string if header is missing or malformed.
func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
}

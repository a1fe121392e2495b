package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carepulse/booking-platform/internal/auth"
	"github.com/carepulse/booking-platform/internal/session"
)

// SessionJWT enforces an HMAC-signed session token and threads the caller
// identity into the request context. When store is non-nil, tokens revoked
// by sign-out are rejected even before expiry.
func SessionJWT(secret string, store auth.TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "auth disabled", http.StatusUnauthorized)
				return
			}
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")
			claims := &auth.Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if store != nil {
				active, err := store.IsActive(r.Context(), claims.ID)
				if err != nil {
					http.Error(w, "session lookup failed", http.StatusServiceUnavailable)
					return
				}
				if !active {
					http.Error(w, "session revoked", http.StatusUnauthorized)
					return
				}
			}

			ctx := session.WithUser(r.Context(), claims.Subject, claims.Role)
			ctx = session.WithTokenID(ctx, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose session role is not admin. Must run
// after SessionJWT.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := session.RoleFromContext(r.Context())
		if !ok || role != "admin" {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

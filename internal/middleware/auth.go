// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"babymorph/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// claimsKey is the context key for the verified token claims.
const claimsKey contextKey = "claims"

// Identity verifies a Bearer token when one is present and stores the
// claims in the request context. It does NOT enforce authentication —
// requests without a token (or with a bad one) continue unauthenticated,
// and enforcement happens in RequireAdmin or in handlers that need a user.
func Identity(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token != "" {
				if claims, err := auth.ParseToken(secret, token); err == nil {
					ctx := context.WithValue(r.Context(), claimsKey, claims)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests without a valid admin token. Must be
// applied after Identity in the middleware chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !claims.IsAdmin {
			writeJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromCtx extracts the verified claims from the request context.
// Returns nil for unauthenticated requests.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// bearerToken pulls the token out of an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

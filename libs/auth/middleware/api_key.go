// Package middleware provides caller authentication for the library API.
//
// Callers are trusted front ends.  They authenticate with the shared API key
// carried in the Authorization header using the ApiKey token type, and pass
// the end user they act for in the API-User-ID header.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ApiKeyAuthType is the token type expected in the Authorization header
const ApiKeyAuthType = "ApiKey"

// UserIDHeader is the header that carries the acting user's ID
const UserIDHeader = "API-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// APIKeyMiddleware validates the Authorization header ("ApiKey <key>") and
// the API-User-ID header, and places the acting user's ID in the context
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract API key from the Authorization header
			var providedKey string
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "ApiKey <key>"
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.EqualFold(parts[0], ApiKeyAuthType) {
					providedKey = parts[1]
				}
			}

			// If no API key provided or it doesn't match, return 401
			if providedKey == "" || providedKey != apiKey {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid or missing API key"}`))
				return
			}

			// The acting user must always be identified
			userID := r.Header.Get(UserIDHeader)
			if userID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"missing ` + UserIDHeader + ` header"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID retrieves the acting user's ID from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

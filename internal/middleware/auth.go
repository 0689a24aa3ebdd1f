package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/roomgrid/roomgrid/internal/auth"
	"github.com/roomgrid/roomgrid/internal/identity"
	"github.com/roomgrid/roomgrid/internal/model"
)

// RequesterResolver verifies a raw bearer token and returns the
// verified identity. *service.IdentityResolver satisfies it.
type RequesterResolver interface {
	ResolveRequester(ctx context.Context, rawToken string) (*model.Identity, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Resolver RequesterResolver
}

// Auth returns a middleware that authenticates requests by verifying
// the bearer identity token and injecting the verified identity into
// the request context. Both missing and invalid tokens are terminal
// for the request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken := extractBearerToken(r)

			ident, err := cfg.Resolver.ResolveRequester(r.Context(), rawToken)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, identity.ErrMissingToken) {
					reason = "missing_token"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, err)
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("identity_id", ident.ID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the bearer token from the Authorization
// header. Returns empty string if absent or malformed.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter, err error) {
	message := "invalid token"
	if errors.Is(err, identity.ErrMissingToken) {
		message = "missing token"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   message,
		"details": err.Error(),
	})
}

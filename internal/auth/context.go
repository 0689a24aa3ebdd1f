// Package auth provides identity context plumbing for HTTP handlers.
package auth

import (
	"context"

	"github.com/roomgrid/roomgrid/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityContextKey is the context key for storing the verified identity.
const identityContextKey contextKey = "identity"

// ContextWithIdentity adds a verified identity to the context.
func ContextWithIdentity(ctx context.Context, ident *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, ident)
}

// IdentityFromContext retrieves the verified identity from the context.
// Returns nil if not present.
func IdentityFromContext(ctx context.Context) *model.Identity {
	ident, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok {
		return nil
	}
	return ident
}

// IdentityIDFromContext is a convenience function to get the identity ID.
// Returns empty string if not authenticated.
func IdentityIDFromContext(ctx context.Context) string {
	ident := IdentityFromContext(ctx)
	if ident == nil {
		return ""
	}
	return ident.ID
}

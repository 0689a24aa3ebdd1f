// Package identity verifies external identity tokens.
// Tokens are OIDC access tokens signed by the identity provider and
// validated against its published JWKS.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/roomgrid/roomgrid/internal/model"
)

// Verification errors. Both are terminal for the request.
var (
	ErrMissingToken = errors.New("missing identity token")
	ErrInvalidToken = errors.New("invalid identity token")
)

// tokenClaims extends the registered claims with the provider fields we use.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Verifier validates identity tokens and extracts the internal identity.
type Verifier struct {
	keyFunc jwt.Keyfunc
	issuer  string
}

// NewVerifier creates a Verifier with an explicit key function.
// If issuer is non-empty, tokens must carry a matching iss claim.
func NewVerifier(keyFunc jwt.Keyfunc, issuer string) *Verifier {
	return &Verifier{keyFunc: keyFunc, issuer: issuer}
}

// NewJWKSVerifier creates a Verifier backed by the provider's JWKS endpoint.
// Keys are fetched once and refreshed in the background; unknown key IDs
// trigger an immediate refresh so freshly rotated keys validate.
func NewJWKSVerifier(ctx context.Context, jwksURL, issuer string) (*Verifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   5 * time.Minute,
		RefreshRateLimit:  1 * time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch JWKS: %w", err)
	}

	return NewVerifier(jwks.Keyfunc, issuer), nil
}

// Verify parses and validates a raw bearer token and returns the
// verified identity. Expired, malformed, or badly signed tokens all
// fail with ErrInvalidToken; an empty token fails with ErrMissingToken.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*model.Identity, error) {
	if rawToken == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, v.keyFunc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}

	ident := &model.Identity{
		ID:    claims.Subject,
		Email: claims.Email,
	}
	if claims.ExpiresAt != nil {
		ident.ExpiresAt = claims.ExpiresAt.Time
	}

	return ident, nil
}

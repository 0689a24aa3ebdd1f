package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roomgrid/roomgrid/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for verified identities.
	identityCachePrefix = "identity:token:"
	// identityCacheTTL is the maximum time-to-live for cached identities.
	// The effective TTL is further bounded by the token's own expiry.
	identityCacheTTL = 5 * time.Minute
)

// cachedIdentity is the Redis representation of a verified identity.
type cachedIdentity struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// GetIdentity retrieves a cached verified identity by token fingerprint.
// Returns nil on cache miss.
func (c *Cache) GetIdentity(ctx context.Context, fingerprint string) (*model.Identity, error) {
	key := identityCachePrefix + fingerprint

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedIdentity
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	ident := &model.Identity{
		ID:    cached.ID,
		Email: cached.Email,
	}
	if cached.ExpiresAt > 0 {
		ident.ExpiresAt = time.Unix(cached.ExpiresAt, 0)
	}

	return ident, nil
}

// SetIdentity caches a verified identity keyed by token fingerprint.
// A cached entry never outlives the token it was verified from.
func (c *Cache) SetIdentity(ctx context.Context, fingerprint string, ident *model.Identity) error {
	key := identityCachePrefix + fingerprint

	ttl := identityCacheTTL
	if !ident.ExpiresAt.IsZero() {
		untilExpiry := time.Until(ident.ExpiresAt)
		if untilExpiry <= 0 {
			return nil
		}
		if untilExpiry < ttl {
			ttl = untilExpiry
		}
	}

	cached := cachedIdentity{
		ID:    ident.ID,
		Email: ident.Email,
	}
	if !ident.ExpiresAt.IsZero() {
		cached.ExpiresAt = ident.ExpiresAt.Unix()
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// DeleteIdentity removes a cached identity.
func (c *Cache) DeleteIdentity(ctx context.Context, fingerprint string) error {
	key := identityCachePrefix + fingerprint
	return c.client.Del(ctx, key).Err()
}

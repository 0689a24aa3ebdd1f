package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/roomgrid/roomgrid/internal/identity"
	"github.com/roomgrid/roomgrid/internal/metrics"
	"github.com/roomgrid/roomgrid/internal/model"
	"github.com/roomgrid/roomgrid/internal/repository"
)

// ErrUnknownInvitee is returned under the strict invite policy when an
// invited username has no owner.
var ErrUnknownInvitee = errors.New("unknown invitee username")

// InvitePolicy controls how unresolved invite usernames are handled.
type InvitePolicy string

const (
	// InviteLenient silently drops unresolved usernames.
	InviteLenient InvitePolicy = "lenient"
	// InviteStrict fails the request on the first unresolved username.
	InviteStrict InvitePolicy = "strict"
)

// IdentityResolver translates verified external identities and usernames
// into internal identity IDs.
type IdentityResolver struct {
	verifier     TokenVerifier
	cache        IdentityCache
	users        UserStore
	invitePolicy InvitePolicy
	metrics      metrics.Recorder
}

// NewIdentityResolver creates an IdentityResolver. cache may be nil to
// disable token caching.
func NewIdentityResolver(verifier TokenVerifier, cache IdentityCache, users UserStore, invitePolicy InvitePolicy, recorder metrics.Recorder) *IdentityResolver {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if invitePolicy == "" {
		invitePolicy = InviteLenient
	}
	return &IdentityResolver{
		verifier:     verifier,
		cache:        cache,
		users:        users,
		invitePolicy: invitePolicy,
		metrics:      recorder,
	}
}

// ResolveRequester verifies a raw bearer token and returns the internal
// identity. Verified identities are cached by token fingerprint so
// repeated requests with the same token skip the provider round trip.
// Fails with identity.ErrMissingToken or identity.ErrInvalidToken.
func (r *IdentityResolver) ResolveRequester(ctx context.Context, rawToken string) (*model.Identity, error) {
	if rawToken == "" {
		return nil, identity.ErrMissingToken
	}

	fingerprint := identity.Fingerprint(rawToken)

	if r.cache != nil {
		cached, err := r.cache.GetIdentity(ctx, fingerprint)
		if err == nil && cached != nil {
			r.metrics.IncAuthCacheHit()
			return cached, nil
		}
		r.metrics.IncAuthCacheMiss()
	}

	ident, err := r.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		// Best effort - a cache write failure must not fail the request.
		_ = r.cache.SetIdentity(ctx, fingerprint, ident)
	}

	return ident, nil
}

// ResolveUsernames maps invite usernames to identity IDs, preserving
// input order. Under the lenient policy unresolved names are dropped;
// under the strict policy the first unresolved name fails the call.
func (r *IdentityResolver) ResolveUsernames(ctx context.Context, names []string) ([]string, error) {
	resolved := make([]string, 0, len(names))

	for _, name := range names {
		identityID, err := r.users.GetIdentityIDByUsername(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				if r.invitePolicy == InviteStrict {
					return nil, fmt.Errorf("%w: %q", ErrUnknownInvitee, name)
				}
				continue
			}
			return nil, fmt.Errorf("resolve username %q: %w", name, err)
		}
		resolved = append(resolved, identityID)
	}

	return resolved, nil
}

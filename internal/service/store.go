// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/roomgrid/roomgrid/internal/model"
)

// UserStore is the user registry surface the services depend on.
// *repository.Repository satisfies it; tests use in-memory fakes.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByIdentity(ctx context.Context, identityID string) (*model.User, error)
	GetIdentityIDByUsername(ctx context.Context, username string) (string, error)
	SearchUsernames(ctx context.Context, query, excludeIdentityID string, limit int) ([]string, error)
	SampleUserIDs(ctx context.Context, n int, exclude []string) ([]string, error)
}

// RoomStore is the chatroom storage surface the room service depends on.
type RoomStore interface {
	CreateRoom(ctx context.Context, room *model.Chatroom) error
	RoomExists(ctx context.Context, roomID string) (bool, error)
}

// TokenVerifier validates a raw bearer credential and returns the
// verified identity. *identity.Verifier satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*model.Identity, error)
}

// IdentityCache caches verified identities keyed by token fingerprint.
// *cache.Cache satisfies it. A nil cache disables caching.
type IdentityCache interface {
	GetIdentity(ctx context.Context, fingerprint string) (*model.Identity, error)
	SetIdentity(ctx context.Context, fingerprint string, ident *model.Identity) error
}

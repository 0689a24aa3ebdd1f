package service

import (
	"context"
	"errors"
	"strings"

	"github.com/roomgrid/roomgrid/internal/model"
	"github.com/roomgrid/roomgrid/internal/repository"
)

// fakeUserStore is an in-memory UserStore. Sampling is deterministic:
// it returns population members in order, skipping excluded IDs.
type fakeUserStore struct {
	usersByIdentity map[string]*model.User
	population      []string
	sampleErr       error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{usersByIdentity: make(map[string]*model.User)}
}

func (f *fakeUserStore) addUser(identityID, username string) {
	f.usersByIdentity[identityID] = &model.User{
		ID:         "row-" + identityID,
		IdentityID: identityID,
		Username:   username,
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	if _, ok := f.usersByIdentity[user.IdentityID]; ok {
		return repository.ErrIdentityExists
	}
	for _, existing := range f.usersByIdentity {
		if existing.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	f.usersByIdentity[user.IdentityID] = user
	return nil
}

func (f *fakeUserStore) GetUserByIdentity(ctx context.Context, identityID string) (*model.User, error) {
	user, ok := f.usersByIdentity[identityID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetIdentityIDByUsername(ctx context.Context, username string) (string, error) {
	for id, user := range f.usersByIdentity {
		if user.Username == username {
			return id, nil
		}
	}
	return "", repository.ErrUserNotFound
}

func (f *fakeUserStore) SearchUsernames(ctx context.Context, query, excludeIdentityID string, limit int) ([]string, error) {
	var results []string
	for id, user := range f.usersByIdentity {
		if id == excludeIdentityID {
			continue
		}
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(query)) {
			results = append(results, user.Username)
		}
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func (f *fakeUserStore) SampleUserIDs(ctx context.Context, n int, exclude []string) ([]string, error) {
	if f.sampleErr != nil {
		return nil, f.sampleErr
	}
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	var ids []string
	for _, id := range f.population {
		if excluded[id] {
			continue
		}
		ids = append(ids, id)
		if len(ids) == n {
			break
		}
	}
	return ids, nil
}

// fakeRoomStore is an in-memory RoomStore with knobs to simulate
// identifier collisions.
type fakeRoomStore struct {
	rooms              map[string]*model.Chatroom
	existsAlways       bool
	conflictsRemaining int
	createErr          error
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]*model.Chatroom)}
}

func (f *fakeRoomStore) RoomExists(ctx context.Context, roomID string) (bool, error) {
	if f.existsAlways {
		return true, nil
	}
	_, ok := f.rooms[roomID]
	return ok, nil
}

func (f *fakeRoomStore) CreateRoom(ctx context.Context, room *model.Chatroom) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.conflictsRemaining > 0 {
		f.conflictsRemaining--
		return repository.ErrRoomIDExists
	}
	if _, ok := f.rooms[room.ID]; ok {
		return repository.ErrRoomIDExists
	}
	f.rooms[room.ID] = room
	return nil
}

// fakeVerifier returns a fixed identity or error.
type fakeVerifier struct {
	ident *model.Identity
	err   error
	calls int
}

func (f *fakeVerifier) Verify(ctx context.Context, rawToken string) (*model.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ident, nil
}

// fakeIdentityCache is an in-memory IdentityCache.
type fakeIdentityCache struct {
	entries map[string]*model.Identity
}

func newFakeIdentityCache() *fakeIdentityCache {
	return &fakeIdentityCache{entries: make(map[string]*model.Identity)}
}

func (f *fakeIdentityCache) GetIdentity(ctx context.Context, fingerprint string) (*model.Identity, error) {
	return f.entries[fingerprint], nil
}

func (f *fakeIdentityCache) SetIdentity(ctx context.Context, fingerprint string, ident *model.Identity) error {
	f.entries[fingerprint] = ident
	return nil
}

var errStorage = errors.New("storage down")

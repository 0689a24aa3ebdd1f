package handler

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/roomgrid/roomgrid/internal/model"
	"github.com/roomgrid/roomgrid/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubUserStore backs the real services with in-memory state so the
// handlers can be exercised over httptest without a database.
type stubUserStore struct {
	usersByIdentity map[string]*model.User
	population      []string
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{usersByIdentity: make(map[string]*model.User)}
}

func (s *stubUserStore) addUser(identityID, username string) {
	s.usersByIdentity[identityID] = &model.User{
		ID:         "row-" + identityID,
		IdentityID: identityID,
		Username:   username,
	}
}

func (s *stubUserStore) CreateUser(ctx context.Context, user *model.User) error {
	if _, ok := s.usersByIdentity[user.IdentityID]; ok {
		return repository.ErrIdentityExists
	}
	for _, existing := range s.usersByIdentity {
		if existing.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	s.usersByIdentity[user.IdentityID] = user
	return nil
}

func (s *stubUserStore) GetUserByIdentity(ctx context.Context, identityID string) (*model.User, error) {
	user, ok := s.usersByIdentity[identityID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserStore) GetIdentityIDByUsername(ctx context.Context, username string) (string, error) {
	for id, user := range s.usersByIdentity {
		if user.Username == username {
			return id, nil
		}
	}
	return "", repository.ErrUserNotFound
}

func (s *stubUserStore) SearchUsernames(ctx context.Context, query, excludeIdentityID string, limit int) ([]string, error) {
	var results []string
	for id, user := range s.usersByIdentity {
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

func (s *stubUserStore) SampleUserIDs(ctx context.Context, n int, exclude []string) ([]string, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	var ids []string
	for _, id := range s.population {
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

// stubRoomStore is an in-memory RoomStore.
type stubRoomStore struct {
	rooms map[string]*model.Chatroom
}

func newStubRoomStore() *stubRoomStore {
	return &stubRoomStore{rooms: make(map[string]*model.Chatroom)}
}

func (s *stubRoomStore) RoomExists(ctx context.Context, roomID string) (bool, error) {
	_, ok := s.rooms[roomID]
	return ok, nil
}

func (s *stubRoomStore) CreateRoom(ctx context.Context, room *model.Chatroom) error {
	if _, ok := s.rooms[room.ID]; ok {
		return repository.ErrRoomIDExists
	}
	s.rooms[room.ID] = room
	return nil
}

// stubVerifier is never reached in handler tests: identities are
// injected into the request context directly.
type stubVerifier struct{}

func (stubVerifier) Verify(ctx context.Context, rawToken string) (*model.Identity, error) {
	return &model.Identity{ID: "stub"}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/roomgrid/roomgrid/internal/metrics"
	"github.com/roomgrid/roomgrid/internal/model"
	"github.com/roomgrid/roomgrid/internal/repository"
)

// User service errors.
var (
	ErrEmptyUsername  = errors.New("username is empty")
	ErrAlreadyClaimed = errors.New("identity already has a username")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmptyQuery     = errors.New("search query is empty")
)

// searchResultLimit caps username search results.
const searchResultLimit = 10

// UserService handles username claims and lookups.
type UserService struct {
	users   UserStore
	metrics metrics.Recorder
}

// NewUserService creates a UserService.
func NewUserService(users UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{users: users, metrics: recorder}
}

// ClaimUsername registers a username for a verified identity. The claim
// is a single atomic insert: uniqueness of both the identity and the
// username is enforced by storage constraints, so concurrent claims of
// the same name cannot both succeed.
func (s *UserService) ClaimUsername(ctx context.Context, ident *model.Identity, desired string) (*model.User, error) {
	desired = strings.TrimSpace(desired)
	if desired == "" {
		return nil, ErrEmptyUsername
	}

	user := &model.User{
		ID:         ulid.Make().String(),
		IdentityID: ident.ID,
		Email:      ident.Email,
		Username:   desired,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrIdentityExists):
			return nil, ErrAlreadyClaimed
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		default:
			return nil, fmt.Errorf("claim username: %w", err)
		}
	}

	s.metrics.IncUsernameClaimed()

	return user, nil
}

// LookupUsername returns the username claimed by an identity.
func (s *UserService) LookupUsername(ctx context.Context, identityID string) (string, error) {
	user, err := s.users.GetUserByIdentity(ctx, identityID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup username: %w", err)
	}
	return user.Username, nil
}

// SearchUsers returns usernames matching the query, excluding the
// requester, capped at searchResultLimit.
func (s *UserService) SearchUsers(ctx context.Context, requesterID, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	usernames, err := s.users.SearchUsernames(ctx, query, requesterID, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	return usernames, nil
}

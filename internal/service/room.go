package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/roomgrid/roomgrid/internal/metrics"
	"github.com/roomgrid/roomgrid/internal/model"
	"github.com/roomgrid/roomgrid/internal/repository"
)

// Room service errors.
var (
	ErrTooManyUsers       = errors.New("too many users for chatroom capacity")
	ErrIDSpaceExhausted   = errors.New("failed to generate unique chatroom ID")
	ErrPopulationTooSmall = errors.New("not enough users to fill chatroom")
)

// BackfillPolicy controls what happens when the user population is
// smaller than the remaining seats.
type BackfillPolicy string

const (
	// BackfillBestEffort ships the room under capacity.
	BackfillBestEffort BackfillPolicy = "best-effort"
	// BackfillStrict fails the request on a shortfall.
	BackfillStrict BackfillPolicy = "strict"
)

const (
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// maxRoomIDDraws bounds the collision redraw loop. With a 62^255
	// keyspace a single collision is already astronomically unlikely,
	// so exhausting the cap means something is broken, not unlucky.
	maxRoomIDDraws = 10
)

// RoomService assembles and persists fixed-capacity chatrooms.
type RoomService struct {
	users    UserStore
	rooms    RoomStore
	resolver *IdentityResolver
	capacity int
	idLength int
	backfill BackfillPolicy
	metrics  metrics.Recorder
}

// NewRoomService creates a RoomService. capacity and idLength must be
// positive; backfill defaults to best-effort.
func NewRoomService(users UserStore, rooms RoomStore, resolver *IdentityResolver, capacity, idLength int, backfill BackfillPolicy, recorder metrics.Recorder) *RoomService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if backfill == "" {
		backfill = BackfillBestEffort
	}
	return &RoomService{
		users:    users,
		rooms:    rooms,
		resolver: resolver,
		capacity: capacity,
		idLength: idLength,
		backfill: backfill,
		metrics:  recorder,
	}
}

// Capacity returns the configured room capacity.
func (s *RoomService) Capacity() int {
	return s.capacity
}

// CreateRoom builds and persists a chatroom for the requester and the
// invited usernames, backfilling remaining seats with randomly sampled
// users. The returned member list holds the requester first, then
// resolved invitees in input order, then backfilled users.
//
// No partial room is ever persisted: capacity violations fail before an
// identifier is drawn, and the final insert is a single atomic record.
func (s *RoomService) CreateRoom(ctx context.Context, requesterID string, invitees []string) (*model.Chatroom, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRoomAssemblyDuration(time.Since(start))
	}()

	// Step 1: resolve invitees, preserving input order.
	resolved, err := s.resolver.ResolveUsernames(ctx, invitees)
	if err != nil {
		return nil, err
	}

	// Step 2: seed membership with the requester, deduplicating.
	// The requester appearing in the invite list has no effect.
	members := make([]string, 0, s.capacity)
	seen := make(map[string]bool, s.capacity)
	members = append(members, requesterID)
	seen[requesterID] = true
	for _, id := range resolved {
		if seen[id] {
			continue
		}
		members = append(members, id)
		seen[id] = true
	}

	// Step 3: capacity check before any identifier is drawn.
	if len(members) > s.capacity {
		return nil, fmt.Errorf("%w: %d invited, capacity %d", ErrTooManyUsers, len(members), s.capacity)
	}

	// Step 4: random backfill of remaining seats, excluding everyone
	// already seeded. Best-effort by default: a short sample ships a
	// smaller room.
	if remaining := s.capacity - len(members); remaining > 0 {
		sampled, err := s.users.SampleUserIDs(ctx, remaining, members)
		if err != nil {
			return nil, fmt.Errorf("backfill sample: %w", err)
		}
		if s.backfill == BackfillStrict && len(sampled) < remaining {
			return nil, fmt.Errorf("%w: need %d, got %d", ErrPopulationTooSmall, remaining, len(sampled))
		}
		members = append(members, sampled...)
	}

	// Steps 5-6: draw an unused identifier and persist atomically.
	// The existence check is advisory; the unique constraint on insert
	// closes the race between two concurrent draws of the same ID.
	room, err := s.persistRoom(ctx, members)
	if err != nil {
		return nil, err
	}

	s.metrics.IncRoomCreated()
	s.metrics.ObserveRoomSize(len(room.Members))

	return room, nil
}

// persistRoom draws identifiers until one inserts cleanly, up to
// maxRoomIDDraws attempts.
func (s *RoomService) persistRoom(ctx context.Context, members []string) (*model.Chatroom, error) {
	for i := 0; i < maxRoomIDDraws; i++ {
		roomID, err := newRoomID(s.idLength)
		if err != nil {
			return nil, fmt.Errorf("generate room ID: %w", err)
		}

		exists, err := s.rooms.RoomExists(ctx, roomID)
		if err != nil {
			return nil, fmt.Errorf("check room ID: %w", err)
		}
		if exists {
			s.metrics.IncRoomIDCollision()
			continue
		}

		room := &model.Chatroom{
			ID:        roomID,
			Members:   members,
			CreatedAt: time.Now().UTC(),
		}

		err = s.rooms.CreateRoom(ctx, room)
		if err == nil {
			return room, nil
		}
		if errors.Is(err, repository.ErrRoomIDExists) {
			// Lost the race to a concurrent insert - redraw.
			s.metrics.IncRoomIDCollision()
			continue
		}
		return nil, fmt.Errorf("persist room: %w", err)
	}

	return nil, ErrIDSpaceExhausted
}

// newRoomID draws a fixed-length identifier uniformly from the
// 62-symbol alphanumeric alphabet using crypto/rand.
func newRoomID(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		idx, err := cryptoRandInt(len(roomIDAlphabet))
		if err != nil {
			return "", err
		}
		b[i] = roomIDAlphabet[idx]
	}
	return string(b), nil
}

// cryptoRandInt returns a cryptographically secure random integer in [0, max).
func cryptoRandInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/roomgrid/roomgrid/internal/model"
)

// Common errors for chatroom repository operations.
var (
	ErrRoomNotFound = errors.New("chatroom not found")
	ErrRoomIDExists = errors.New("chatroom ID already exists")
)

// CreateRoom inserts a chatroom as a single atomic record. Identifier
// uniqueness is enforced by a database constraint; callers treat
// ErrRoomIDExists as a signal to redraw.
func (r *Repository) CreateRoom(ctx context.Context, room *model.Chatroom) error {
	query := `
		INSERT INTO chatrooms (room_id, members, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query,
		room.ID,
		pq.Array(room.Members),
		room.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrRoomIDExists
		}
		return fmt.Errorf("failed to create chatroom: %w", err)
	}

	return nil
}

// RoomExists checks whether a chatroom identifier is already taken.
func (r *Repository) RoomExists(ctx context.Context, roomID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM chatrooms WHERE room_id = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, roomID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check chatroom existence: %w", err)
	}

	return exists, nil
}

// GetRoomByID retrieves a chatroom with its full member list.
func (r *Repository) GetRoomByID(ctx context.Context, roomID string) (*model.Chatroom, error) {
	query := `
		SELECT room_id, members, created_at
		FROM chatrooms
		WHERE room_id = $1
	`

	var room model.Chatroom
	err := r.pool.QueryRow(ctx, query, roomID).Scan(
		&room.ID,
		&room.Members,
		&room.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get chatroom: %w", err)
	}

	return &room, nil
}

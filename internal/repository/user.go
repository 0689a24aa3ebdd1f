package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/roomgrid/roomgrid/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrIdentityExists = errors.New("identity already registered")
	ErrUsernameExists = errors.New("username already taken")
)

// Constraint names from the users migration. Used to classify
// unique violations on the atomic insert.
const (
	identityConstraint = "users_identity_id_key"
	usernameConstraint = "users_username_key"
)

// CreateUser inserts a new user atomically. Uniqueness of both the
// identity and the username is enforced by database constraints, so two
// concurrent claims of the same username cannot both succeed.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, identity_id, email, username, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.IdentityID,
		user.Email,
		user.Username,
		user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, identityConstraint) {
			return ErrIdentityExists
		}
		if isUniqueViolation(err, usernameConstraint) {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByIdentity retrieves a user by their provider identity ID.
func (r *Repository) GetUserByIdentity(ctx context.Context, identityID string) (*model.User, error) {
	query := `
		SELECT id, identity_id, email, username, created_at
		FROM users
		WHERE identity_id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, identityID).Scan(
		&user.ID,
		&user.IdentityID,
		&user.Email,
		&user.Username,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by identity: %w", err)
	}

	return &user, nil
}

// GetIdentityIDByUsername resolves a username to its owning identity ID.
func (r *Repository) GetIdentityIDByUsername(ctx context.Context, username string) (string, error) {
	query := `SELECT identity_id FROM users WHERE username = $1`

	var identityID string
	err := r.pool.QueryRow(ctx, query, username).Scan(&identityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to resolve username: %w", err)
	}

	return identityID, nil
}

// SearchUsernames returns usernames matching the query, case-insensitive,
// excluding the requester, ordered ascending.
func (r *Repository) SearchUsernames(ctx context.Context, query, excludeIdentityID string, limit int) ([]string, error) {
	sql := `
		SELECT username FROM users
		WHERE username ILIKE $1 AND identity_id != $2
		ORDER BY username ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, sql, "%"+query+"%", excludeIdentityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search usernames: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames = append(usernames, username)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usernames: %w", err)
	}

	return usernames, nil
}

// CountUsers returns the total number of registered users.
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// SampleUserIDs returns up to n distinct identity IDs sampled uniformly at
// random from the user population, excluding the given IDs. Fewer than n
// rows come back when the population is too small.
func (r *Repository) SampleUserIDs(ctx context.Context, n int, exclude []string) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	query := `
		SELECT identity_id FROM users
		WHERE NOT (identity_id = ANY($1))
		ORDER BY random()
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, pq.Array(exclude), n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan identity ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sampled users: %w", err)
	}

	return ids, nil
}

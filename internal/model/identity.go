package model

import "time"

// Identity is a verified external identity, produced by token
// verification. It may exist before the user has claimed a username.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

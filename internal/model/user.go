// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered user with a claimed username.
// IdentityID is issued by the external identity provider and is the
// stable key used everywhere inside the system. A username, once
// claimed, is never reassigned.
type User struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email,omitempty"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
}

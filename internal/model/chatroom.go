package model

import "time"

// Chatroom is an immutable group chat record. Members holds internal
// identity IDs in assembly order: the requester first, then resolved
// invitees, then randomly backfilled participants. The member list
// never contains duplicates and never exceeds the configured capacity.
type Chatroom struct {
	ID        string    `json:"id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// HasMember reports whether the given identity ID is in the room.
func (c *Chatroom) HasMember(identityID string) bool {
	for _, m := range c.Members {
		if m == identityID {
			return true
		}
	}
	return false
}

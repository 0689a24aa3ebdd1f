// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Chatroom assembly metrics
	IncRoomCreated()
	IncRoomIDCollision()
	ObserveRoomSize(size int)
	ObserveRoomAssemblyDuration(duration time.Duration)

	// User registry metrics
	IncUsernameClaimed()

	// Auth metrics
	IncAuthCacheHit()
	IncAuthCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Snapshot holds point-in-time counter values.
type Snapshot struct {
	RoomsCreated     int64 `json:"rooms_created"`
	RoomIDCollisions int64 `json:"room_id_collisions"`
	UsernamesClaimed int64 `json:"usernames_claimed"`
	AuthCacheHits    int64 `json:"auth_cache_hits"`
	AuthCacheMisses  int64 `json:"auth_cache_misses"`
}

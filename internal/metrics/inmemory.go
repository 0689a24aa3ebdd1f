package metrics

import (
	"sync/atomic"
	"time"
)

// InMemory is a Recorder backed by atomic counters.
// Useful for tests and the in-process snapshot endpoint.
type InMemory struct {
	roomsCreated     atomic.Int64
	roomIDCollisions atomic.Int64
	usernamesClaimed atomic.Int64
	authCacheHits    atomic.Int64
	authCacheMisses  atomic.Int64
}

// NewInMemory creates an in-memory metrics recorder.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (m *InMemory) IncRoomCreated()     { m.roomsCreated.Add(1) }
func (m *InMemory) IncRoomIDCollision() { m.roomIDCollisions.Add(1) }

// ObserveRoomSize is a no-op for the in-memory recorder; sizes are
// bounded by capacity and not worth a histogram here.
func (m *InMemory) ObserveRoomSize(size int) {}

func (m *InMemory) ObserveRoomAssemblyDuration(duration time.Duration) {}

func (m *InMemory) IncUsernameClaimed() { m.usernamesClaimed.Add(1) }
func (m *InMemory) IncAuthCacheHit()    { m.authCacheHits.Add(1) }
func (m *InMemory) IncAuthCacheMiss()   { m.authCacheMisses.Add(1) }

// Snapshot returns the current counter values.
func (m *InMemory) Snapshot() Snapshot {
	return Snapshot{
		RoomsCreated:     m.roomsCreated.Load(),
		RoomIDCollisions: m.roomIDCollisions.Load(),
		UsernamesClaimed: m.usernamesClaimed.Load(),
		AuthCacheHits:    m.authCacheHits.Load(),
		AuthCacheMisses:  m.authCacheMisses.Load(),
	}
}

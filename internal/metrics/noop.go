package metrics

import "time"

// Noop is a Recorder that discards all events.
type Noop struct{}

// NewNoop creates a no-op metrics recorder.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) IncRoomCreated()                                 {}
func (n *Noop) IncRoomIDCollision()                             {}
func (n *Noop) ObserveRoomSize(size int)                        {}
func (n *Noop) ObserveRoomAssemblyDuration(duration time.Duration) {}
func (n *Noop) IncUsernameClaimed()                             {}
func (n *Noop) IncAuthCacheHit()                                {}
func (n *Noop) IncAuthCacheMiss()                               {}

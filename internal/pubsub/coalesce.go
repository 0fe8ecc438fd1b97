package pubsub

import "sync/atomic"

// Coalescer is a single-slot notification gate. A producer that fires many
// times in a burst results in at most one outstanding notification; the
// consumer drains the slot before processing, so an update arriving during
// processing raises a fresh notification.
//
// This is the "atomic updated flag" pattern used to hand streaming response
// data from a network goroutine to a single-threaded consumer.
type Coalescer struct {
	pending atomic.Bool
	notify  func()
}

// NewCoalescer creates a coalescer that invokes notify on the first Raise
// after each Drain. notify may be nil when only the pending flag is wanted.
func NewCoalescer(notify func()) *Coalescer {
	return &Coalescer{notify: notify}
}

// Raise marks a notification pending. Returns true if this call was the one
// that raised it (and therefore triggered notify); false if one was already
// outstanding and the call coalesced into it.
func (c *Coalescer) Raise() bool {
	if c.pending.Swap(true) {
		return false
	}
	if c.notify != nil {
		c.notify()
	}
	return true
}

// Drain clears the pending slot, allowing the next Raise to notify again.
// Call it immediately before processing, not after: an update that arrives
// mid-processing must not be lost.
func (c *Coalescer) Drain() bool {
	return c.pending.Swap(false)
}

// Pending reports whether a notification is outstanding.
func (c *Coalescer) Pending() bool {
	return c.pending.Load()
}

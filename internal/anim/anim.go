// Package anim provides time-based eased values for smooth scrolling and
// similar motion, plus a registry that tracks which animations still need
// frame ticks.
package anim

import (
	"math"
	"sync"
	"time"
)

// Easing maps normalized time [0,1] to normalized progress [0,1].
type Easing func(t float64) float64

// Linear progresses uniformly.
func Linear(t float64) float64 { return t }

// EaseOut decelerates toward the target.
func EaseOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOut accelerates then decelerates.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Anim is a scalar moving from one value to another over a duration. The
// zero duration form is an immediate set. Not safe for concurrent use.
type Anim struct {
	from, to float64
	start    time.Time
	dur      time.Duration
	easing   Easing
}

// New creates an animation resting at v.
func New(v float64) *Anim {
	return &Anim{from: v, to: v, easing: EaseOut}
}

// SetEasing replaces the easing curve for subsequent targets.
func (a *Anim) SetEasing(e Easing) {
	a.easing = e
}

// Set jumps to v immediately, cancelling any motion.
func (a *Anim) Set(v float64) {
	a.from = v
	a.to = v
	a.dur = 0
}

// AnimateTo starts motion from the current value toward target. A zero
// duration behaves like Set.
func (a *Anim) AnimateTo(target float64, dur time.Duration, now time.Time) {
	if dur <= 0 {
		a.Set(target)
		return
	}
	a.from = a.Value(now)
	a.to = target
	a.start = now
	a.dur = dur
}

// Value returns the eased value at the given time.
func (a *Anim) Value(now time.Time) float64 {
	if a.dur <= 0 {
		return a.to
	}
	t := float64(now.Sub(a.start)) / float64(a.dur)
	if t >= 1 {
		return a.to
	}
	if t <= 0 {
		return a.from
	}
	return a.from + (a.to-a.from)*a.easing(t)
}

// Target returns the value the animation is heading to.
func (a *Anim) Target() float64 {
	return a.to
}

// Done reports whether motion has completed at the given time.
func (a *Anim) Done(now time.Time) bool {
	return a.dur <= 0 || now.Sub(a.start) >= a.dur
}

// Registry tracks animations that still need frames. The UI adds an
// animation when it starts and polls Active each tick; finished entries
// drop out on their own, so ticking stops when motion stops.
type Registry struct {
	mu     sync.Mutex
	active map[*Anim]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: map[*Anim]struct{}{}}
}

// Add registers an animation for ticking. Adding twice is harmless.
func (r *Registry) Add(a *Anim) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[a] = struct{}{}
}

// Active prunes finished animations and reports whether any remain.
func (r *Registry) Active(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for a := range r.active {
		if a.Done(now) {
			delete(r.active, a)
		}
	}
	return len(r.active) > 0
}

// Remove unregisters an animation without waiting for it to finish.
func (r *Registry) Remove(a *Anim) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, a)
}

// NearlyEqual reports whether two values are within half a cell, the
// threshold below which motion is invisible in a terminal.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.5
}

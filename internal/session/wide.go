package session

import (
	"math"
	"time"

	"github.com/zjrosen/gemview/internal/anim"
	"github.com/zjrosen/gemview/internal/pubsub"
)

// wideState tracks horizontal scroll offsets of preformatted blocks wider
// than the viewport. Offsets are keyed by block id; at most one block
// animates at a time.
type wideState struct {
	offsets   map[uint16]int
	anim      *anim.Anim
	active    uint16
	animating bool
}

func (w *wideState) init() {
	w.offsets = map[uint16]int{}
	w.anim = anim.New(0)
}

func (w *wideState) reset() {
	clear(w.offsets)
	w.active = 0
	w.animating = false
	w.anim.Set(0)
}

// ScrollWideBlock shifts a wide preformatted block horizontally by delta
// cells, clamped to [0, blockWidth-viewWidth]. Returns false when the
// block cannot scroll further (or is not wider than the view); the caller
// then falls back to vertical scrolling.
func (s *Session) ScrollWideBlock(preID uint16, delta int, now time.Time) bool {
	maxOff := s.doc.PreMaxWidth(preID) - s.width
	if maxOff <= 0 {
		return false
	}
	cur := s.wide.offsets[preID]
	target := cur + delta
	if target < 0 {
		target = 0
	}
	if target > maxOff {
		target = maxOff
	}
	if target == cur {
		return false
	}
	s.wide.offsets[preID] = target

	if s.smoothScrolling {
		if !s.wide.animating || s.wide.active != preID {
			s.wide.anim.Set(float64(cur))
		}
		s.wide.active = preID
		s.wide.animating = true
		s.wide.anim.AnimateTo(float64(target), smoothScrollDuration, now)
		s.anims.Add(s.wide.anim)
	} else {
		s.wide.active = preID
		s.wide.animating = false
		s.wide.anim.Set(float64(target))
	}

	s.invalidateWideBlock(preID)
	s.broker.Publish(pubsub.UpdatedEvent, RunsInvalidated{Count: s.invalid.Len()})
	return true
}

// WideOffset returns the horizontal offset to draw a block at, honoring
// in-flight motion and re-clamping after any relayout.
func (s *Session) WideOffset(preID uint16, now time.Time) int {
	var off int
	if s.wide.animating && s.wide.active == preID {
		off = int(math.Round(s.wide.anim.Value(now)))
	} else {
		off = s.wide.offsets[preID]
	}
	maxOff := s.doc.PreMaxWidth(preID) - s.width
	if maxOff < 0 {
		maxOff = 0
	}
	if off > maxOff {
		off = maxOff
	}
	if off < 0 {
		off = 0
	}
	return off
}

// invalidateWideBlock queues every run of the block for repaint. Each run
// repaints at full width, so text sliding out leaves no residue.
func (s *Session) invalidateWideBlock(preID uint16) {
	for _, run := range s.doc.PreRuns(preID) {
		s.invalidateRun(run)
	}
}

// TickAnimations advances per-frame state and reports whether another
// frame is needed. While a wide block is in motion its runs are
// re-invalidated every frame, including one final frame at rest.
func (s *Session) TickAnimations(now time.Time) bool {
	if s.wide.animating {
		s.invalidateWideBlock(s.wide.active)
		if s.wide.anim.Done(now) {
			s.wide.animating = false
		}
	}
	return s.anims.Active(now) || s.wide.animating
}

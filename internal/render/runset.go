package render

import (
	"sort"

	"github.com/zjrosen/gemview/internal/gemtext"
)

// RunSet collects runs whose content changed without the document moving,
// so the next frame can repaint just their rows. Entries are tied to one
// document generation; adding a run from a newer generation discards the
// stale entries.
type RunSet struct {
	gen  uint64
	runs map[*gemtext.Run]struct{}
}

// NewRunSet creates an empty set.
func NewRunSet() *RunSet {
	return &RunSet{runs: map[*gemtext.Run]struct{}{}}
}

// Add inserts a run from the given document generation.
func (s *RunSet) Add(run *gemtext.Run, gen uint64) {
	if run == nil {
		return
	}
	if gen != s.gen {
		clear(s.runs)
		s.gen = gen
	}
	s.runs[run] = struct{}{}
}

// Len returns the number of pending runs.
func (s *RunSet) Len() int {
	return len(s.runs)
}

// Generation returns the generation the current entries belong to.
func (s *RunSet) Generation() uint64 {
	return s.gen
}

// Drain removes and returns all pending runs in document order.
func (s *RunSet) Drain() []*gemtext.Run {
	if len(s.runs) == 0 {
		return nil
	}
	out := make([]*gemtext.Run, 0, len(s.runs))
	for run := range s.runs {
		out = append(out, run)
	}
	clear(s.runs)
	sort.Slice(out, func(i, j int) bool { return out[i].Bounds.Y < out[j].Bounds.Y })
	return out
}

// Clear empties the set.
func (s *RunSet) Clear() {
	clear(s.runs)
}

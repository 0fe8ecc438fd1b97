// Package render caches rendered document rows across frames. A VisBuf
// holds a small ring of viewport-sized buffers tiled over the document so
// that scrolling only redraws rows that newly became visible, and a RunSet
// collects individual runs whose content changed in place.
package render

import (
	"sort"

	"github.com/zjrosen/gemview/internal/gemtext"
)

// NumBuffers is the size of the buffer ring. Three viewport-height tiles
// cover any viewport position plus one tile of scroll margin in each
// direction.
const NumBuffers = 3

// Buffer is one tile of rendered rows. Origin is the document row of
// Rows[0]; Valid is the contiguous sub-range of the tile that holds
// current content.
type Buffer struct {
	Rows   []string
	Origin int
	Valid  gemtext.Range
}

// span returns the document range the buffer covers.
func (b *Buffer) span(h int) gemtext.Range {
	return gemtext.Range{Start: b.Origin, End: b.Origin + h}
}

// VisBuf tiles NumBuffers viewport-height buffers over document rows.
// Not safe for concurrent use; the session owns it.
type VisBuf struct {
	h    int
	bufs [NumBuffers]*Buffer
}

// NewVisBuf creates an unallocated VisBuf. Alloc must be called before use.
func NewVisBuf() *VisBuf {
	v := &VisBuf{}
	for i := range v.bufs {
		v.bufs[i] = &Buffer{Origin: -1}
	}
	return v
}

// Alloc sizes every buffer for a viewport h rows tall and invalidates all
// content. Calling it with the current height is a no-op.
func (v *VisBuf) Alloc(h int) {
	if h == v.h {
		return
	}
	v.h = h
	for _, b := range v.bufs {
		b.Rows = make([]string, h)
		b.Origin = -1
		b.Valid = gemtext.Range{}
	}
}

// Height returns the per-buffer height.
func (v *VisBuf) Height() int {
	return v.h
}

// Reposition retiles the buffers so that vis is covered. Buffers already
// at a needed origin keep their content and validity; the rest are
// reassigned to the uncovered origins with empty validity.
func (v *VisBuf) Reposition(vis gemtext.Range) {
	if v.h <= 0 {
		return
	}
	// Tile origins are aligned to multiples of the buffer height. The
	// first tile starts at or above vis.Start; three tiles then cover
	// the viewport wherever it falls within the first tile.
	first := floorDiv(vis.Start, v.h) * v.h
	needed := map[int]bool{}
	for i := 0; i < NumBuffers; i++ {
		needed[first+i*v.h] = true
	}

	var free []*Buffer
	for _, b := range v.bufs {
		if needed[b.Origin] {
			delete(needed, b.Origin)
		} else {
			free = append(free, b)
		}
	}

	var missing []int
	for origin := range needed {
		missing = append(missing, origin)
	}
	sort.Ints(missing)
	for i, origin := range missing {
		b := free[i]
		b.Origin = origin
		b.Valid = gemtext.Range{}
		for j := range b.Rows {
			b.Rows[j] = ""
		}
	}
}

// InvalidRanges returns the rows of full not covered by any buffer's valid
// content, as disjoint ascending ranges. The caller renders these and then
// calls Validate.
func (v *VisBuf) InvalidRanges(full gemtext.Range) []gemtext.Range {
	var valid []gemtext.Range
	for _, b := range v.bufs {
		if b.Origin < 0 {
			continue
		}
		if r := b.Valid.Intersect(full); !r.IsEmpty() {
			valid = append(valid, r)
		}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Start < valid[j].Start })

	var out []gemtext.Range
	cursor := full.Start
	for _, r := range valid {
		if r.Start > cursor {
			out = append(out, gemtext.Range{Start: cursor, End: r.Start})
		}
		if r.End > cursor {
			cursor = r.End
		}
	}
	if cursor < full.End {
		out = append(out, gemtext.Range{Start: cursor, End: full.End})
	}
	return out
}

// Validate records that the rows of r now hold current content. Validity
// per buffer stays contiguous: a disjoint validation replaces the old
// range rather than extending it.
func (v *VisBuf) Validate(r gemtext.Range) {
	for _, b := range v.bufs {
		if b.Origin < 0 {
			continue
		}
		part := r.Intersect(b.span(v.h))
		if part.IsEmpty() {
			continue
		}
		switch {
		case b.Valid.IsEmpty():
			b.Valid = part
		case part.Start <= b.Valid.End && b.Valid.Start <= part.End:
			b.Valid = gemtext.Range{
				Start: min(b.Valid.Start, part.Start),
				End:   max(b.Valid.End, part.End),
			}
		default:
			b.Valid = part
		}
	}
}

// Invalidate drops all cached content, forcing a full redraw.
func (v *VisBuf) Invalidate() {
	for _, b := range v.bufs {
		b.Valid = gemtext.Range{}
	}
}

// InvalidateRange drops cached content overlapping r. When r splits a
// buffer's validity in two, the larger remainder is kept.
func (v *VisBuf) InvalidateRange(r gemtext.Range) {
	for _, b := range v.bufs {
		if b.Valid.IsEmpty() || !b.Valid.Overlaps(r) {
			continue
		}
		above := gemtext.Range{Start: b.Valid.Start, End: r.Start}
		below := gemtext.Range{Start: r.End, End: b.Valid.End}
		switch {
		case above.Len() >= below.Len() && !above.IsEmpty():
			b.Valid = above
		case !below.IsEmpty():
			b.Valid = below
		default:
			b.Valid = gemtext.Range{}
		}
	}
}

// SetRow stores rendered content for document row y. Returns false when no
// buffer covers the row.
func (v *VisBuf) SetRow(y int, s string) bool {
	if b := v.bufferFor(y); b != nil {
		b.Rows[y-b.Origin] = s
		return true
	}
	return false
}

// Row returns the cached content for document row y. ok is false when the
// row is outside every buffer or not validated.
func (v *VisBuf) Row(y int) (s string, ok bool) {
	b := v.bufferFor(y)
	if b == nil || !b.Valid.Contains(y) {
		return "", false
	}
	return b.Rows[y-b.Origin], true
}

func (v *VisBuf) bufferFor(y int) *Buffer {
	for _, b := range v.bufs {
		if b.Origin >= 0 && b.span(v.h).Contains(y) {
			return b
		}
	}
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

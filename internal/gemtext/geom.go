// Package gemtext lays out text/gemini and text/plain source into
// positioned runs at a given viewport width, and owns the media store for
// inline image/audio content. Coordinates are terminal cells: X is a
// column, Y is a row.
package gemtext

// Pos is a point in document space.
type Pos struct {
	X, Y int
}

// Rect is a rectangle in document space.
type Rect struct {
	X, Y, W, H int
}

// YSpan returns the half-open vertical range covered by the rectangle.
func (r Rect) YSpan() Range {
	return Range{Start: r.Y, End: r.Y + r.H}
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Range is a half-open interval of rows [Start, End).
type Range struct {
	Start, End int
}

// IsEmpty reports whether the range covers no rows.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Len returns the number of rows covered.
func (r Range) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether the row lies inside the range.
func (r Range) Contains(y int) bool {
	return y >= r.Start && y < r.End
}

// Overlaps reports whether the two ranges share any row.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Intersect clips the range to o. The result may be empty.
func (r Range) Intersect(o Range) Range {
	out := Range{Start: max(r.Start, o.Start), End: min(r.End, o.End)}
	if out.IsEmpty() {
		return Range{}
	}
	return out
}

// Clamp limits v into [Start, End].
func (r Range) Clamp(v int) int {
	if v < r.Start {
		return r.Start
	}
	if v > r.End {
		return r.End
	}
	return v
}

package geometry

import "github.com/ironsheep/snipext/internal/page"

const (
	// MinSelectionSize is the smallest meaningful selection edge, in
	// device-independent pixels. Smaller selections are accidental
	// clicks, not selections.
	MinSelectionSize = 5

	// MinImageOverlap is the minimum intersection width and height, in
	// device-independent pixels, for an image to count as a candidate.
	MinImageOverlap = 10
)

// Intersects reports whether two axis-aligned rectangles overlap.
//
// The test is strict rectangle exclusion: rectangles that merely share
// an edge or a corner do not intersect.
func Intersects(a, b page.Rect) bool {
	if a.X+a.W <= b.X || b.X+b.W <= a.X {
		return false
	}
	if a.Y+a.H <= b.Y || b.Y+b.H <= a.Y {
		return false
	}
	return true
}

// Intersection returns the overlapping region of two rectangles, or the
// zero Rect when they do not intersect.
func Intersection(a, b page.Rect) page.Rect {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.W, b.X+b.W)
	y2 := min(a.Y+a.H, b.Y+b.H)
	if x2 <= x1 || y2 <= y1 {
		return page.Rect{}
	}
	return page.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Meaningful reports whether a selection rectangle clears the
// MinSelectionSize threshold in both dimensions.
func Meaningful(r page.Rect) bool {
	return r.W >= MinSelectionSize && r.H >= MinSelectionSize
}

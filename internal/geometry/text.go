package geometry

import (
	"strings"

	"github.com/ironsheep/snipext/internal/page"
)

// FindSelectableText collects the native page text overlapping the
// selection rectangle.
//
// The primary pass walks elements in document order and includes the
// direct text of every element whose box intersects the selection. As a
// fallback for layouts where per-element geometry is unreliable, the
// text of the element at the selection's center point is appended, but
// only if its trimmed text was not already collected, so output order
// always follows document traversal, never the fallback.
//
// Identical trimmed strings are reported once.
func FindSelectableText(snap *page.Snapshot, sel page.Rect) []string {
	seen := map[string]bool{}
	var out []string

	add := func(text string) {
		t := strings.TrimSpace(text)
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}

	for _, n := range snap.Nodes() {
		if n.Text == "" {
			continue
		}
		if Intersects(n.Box, sel) {
			add(n.Text)
		}
	}

	// Fallback for layouts where per-text-node geometry is unreliable:
	// the element under the selection center contributes its rendered
	// subtree text, appended only when not already collected.
	center := sel.Center()
	if n, ok := snap.ElementAt(center.X, center.Y); ok {
		add(n.FullText)
	}

	return out
}

package geometry

import (
	"strings"
	"testing"

	"github.com/ironsheep/snipext/internal/fault"
	"github.com/ironsheep/snipext/internal/page"
)

// parseSnapshot builds a snapshot from annotated HTML.
func parseSnapshot(t *testing.T, html string, opts ...page.Option) *page.Snapshot {
	t.Helper()
	snap, err := page.Parse(strings.NewReader(html), opts...)
	if err != nil {
		t.Fatalf("failed to parse snapshot: %v", err)
	}
	return snap
}

func TestFindCandidateImages(t *testing.T) {
	snap := parseSnapshot(t, `<html><body>
		<img src="inside.png" data-box="10,10,100,80" width="200" height="160">
		<img src="sliver.png" data-box="195,10,100,80">
		<img src="outside.png" data-box="500,500,100,80">
		<div data-box="20,100,150,60" style="background-image: url('banner.jpg')"></div>
		<p data-box="10,200,100,20">no image here</p>
	</body></html>`)

	sel := page.Rect{X: 0, Y: 0, W: 200, H: 300}
	got := FindCandidateImages(snap, sel)

	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}

	// Document order: the <img> before the background-image div.
	if got[0].SourceURL != "inside.png" {
		t.Errorf("candidate 0 = %q, want inside.png", got[0].SourceURL)
	}
	if got[1].SourceURL != "banner.jpg" {
		t.Errorf("candidate 1 = %q, want banner.jpg", got[1].SourceURL)
	}

	if got[0].NaturalWidth != 200 || got[0].NaturalHeight != 160 {
		t.Errorf("natural size = %dx%d, want 200x160", got[0].NaturalWidth, got[0].NaturalHeight)
	}

	want := page.Rect{X: 10, Y: 10, W: 100, H: 80}
	if got[0].Intersection != want {
		t.Errorf("intersection = %+v, want %+v", got[0].Intersection, want)
	}
}

func TestFindCandidateImages_SliverThreshold(t *testing.T) {
	// The image hangs 10px into the selection: intersection width is
	// exactly the threshold and must be excluded.
	snap := parseSnapshot(t, `<html><body>
		<img src="edge.png" data-box="190,0,100,100">
	</body></html>`)

	got := FindCandidateImages(snap, page.Rect{X: 0, Y: 0, W: 200, H: 200})
	if len(got) != 0 {
		t.Fatalf("10px sliver should be excluded, got %+v", got)
	}

	// One more pixel of overlap and it qualifies.
	snap = parseSnapshot(t, `<html><body>
		<img src="edge.png" data-box="189,0,100,100">
	</body></html>`)
	got = FindCandidateImages(snap, page.Rect{X: 0, Y: 0, W: 200, H: 200})
	if len(got) != 1 {
		t.Fatalf("11px overlap should qualify, got %+v", got)
	}
}

func TestCandidateImage_Resolve(t *testing.T) {
	html := `<html><body>
		<img src="a.png" data-box="0,0,100,100">
	</body></html>`
	snap := parseSnapshot(t, html)

	cands := FindCandidateImages(snap, page.Rect{X: 0, Y: 0, W: 200, H: 200})
	if len(cands) != 1 {
		t.Fatalf("want 1 candidate, got %d", len(cands))
	}

	if _, err := cands[0].Resolve(snap); err != nil {
		t.Errorf("resolve against the originating snapshot failed: %v", err)
	}

	// Resolving against a snapshot where the element vanished or changed
	// its image must fail as a geometry read failure.
	changed := parseSnapshot(t, `<html><body>
		<img src="other.png" data-box="0,0,100,100">
	</body></html>`)
	if _, err := cands[0].Resolve(changed); !fault.Is(err, fault.GeometryReadFailure) {
		t.Errorf("resolve against a mutated snapshot: err = %v, want GEOMETRY_READ_FAILURE", err)
	}

	empty := parseSnapshot(t, `<html><body></body></html>`)
	if _, err := cands[0].Resolve(empty); err == nil {
		t.Error("resolve against an empty snapshot must fail")
	}
}

func TestFindCandidateImages_OrderStable(t *testing.T) {
	html := `<html><body>
		<img src="a.png" data-box="0,0,50,50">
		<img src="b.png" data-box="0,60,50,50">
		<img src="c.png" data-box="0,120,50,50">
	</body></html>`
	sel := page.Rect{X: 0, Y: 0, W: 200, H: 200}

	first := FindCandidateImages(parseSnapshot(t, html), sel)
	second := FindCandidateImages(parseSnapshot(t, html), sel)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("want 3 candidates from both scans, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].SourceURL != second[i].SourceURL {
			t.Errorf("order differs at %d: %q vs %q", i, first[i].SourceURL, second[i].SourceURL)
		}
	}
}

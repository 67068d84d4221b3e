package extract

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/snipext/internal/fault"
	"github.com/ironsheep/snipext/internal/geometry"
	"github.com/ironsheep/snipext/internal/page"
)

// CompositeCapture renders a best-effort raster of the selection area:
// a canvas filled with the page background color, with every resolvable
// image that overlaps the rectangle drawn at its page position, scaled
// to its rendered box and clipped to the selection.
//
// This is the pipeline's one whole-rectangle capture mechanism. It
// catches text baked into imagery that per-element discovery cannot
// attribute, while staying pure: no live-page access, only snapshot
// data. Individual rasters that fail to resolve are skipped; the
// composite is best-effort and may legitimately contribute nothing.
func CompositeCapture(snap *page.Snapshot, sel page.Rect) (image.Image, error) {
	w, h := int(sel.W), int(sel.H)
	if w <= 0 || h <= 0 {
		return nil, fault.New(fault.InvalidImage, "capture", "capture area %dx%d has no pixels", w, h)
	}

	bg := snap.Background()
	canvas := imaging.New(w, h, color.NRGBA{
		R: uint8(bg.R*255 + 0.5),
		G: uint8(bg.G*255 + 0.5),
		B: uint8(bg.B*255 + 0.5),
		A: 255,
	})

	for _, n := range snap.Nodes() {
		if n.ImageURL == "" || !geometry.Intersects(n.Box, sel) {
			continue
		}
		if int(n.Box.W) <= 0 || int(n.Box.H) <= 0 {
			continue
		}
		raster, err := snap.Raster(n.ImageURL)
		if err != nil {
			continue
		}
		scaled := imaging.Resize(raster, int(n.Box.W), int(n.Box.H), imaging.Lanczos)
		// Paste clips to the canvas bounds, which realizes the
		// selection-rectangle clip.
		canvas = imaging.Paste(canvas, scaled, image.Pt(int(n.Box.X-sel.X), int(n.Box.Y-sel.Y)))
	}

	return canvas, nil
}

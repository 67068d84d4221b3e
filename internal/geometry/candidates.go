package geometry

import (
	"fmt"

	"github.com/ironsheep/snipext/internal/fault"
	"github.com/ironsheep/snipext/internal/page"
)

// CandidateImage records one image-bearing element overlapping a
// selection. It carries a weak back-reference to its node (index plus
// geometry snapshot), never the node itself: the live page can mutate
// independently, so the raster is re-resolved by URL at use time and
// resolution failure is an expected outcome.
type CandidateImage struct {
	// NodeIndex is the document-order index of the originating element.
	NodeIndex int `json:"node_index"`

	// SourceURL is the image source the element declared.
	SourceURL string `json:"source_url"`

	// NaturalWidth and NaturalHeight are the intrinsic dimensions when
	// the snapshot declared them, zero otherwise.
	NaturalWidth  int `json:"natural_width,omitempty"`
	NaturalHeight int `json:"natural_height,omitempty"`

	// Intersection is the overlap between the element's box and the
	// selection rectangle, recorded for provenance in results.
	Intersection page.Rect `json:"intersection"`
}

// Label identifies the candidate in result output and error messages.
func (c CandidateImage) Label() string {
	return fmt.Sprintf("image %d (%s)", c.NodeIndex, c.SourceURL)
}

// Resolve re-reads the candidate's backing node through its weak
// back-reference. Failure means the element vanished or now declares a
// different image, which yields a GEOMETRY_READ_FAILURE fault; callers
// record it and move on to the next candidate.
func (c CandidateImage) Resolve(snap *page.Snapshot) (page.Node, error) {
	n, ok := snap.NodeByIndex(c.NodeIndex)
	if !ok || n.ImageURL != c.SourceURL {
		return page.Node{}, fault.New(fault.GeometryReadFailure, "ocr",
			"%s is no longer at its discovered position", c.Label())
	}
	return n, nil
}

// FindCandidateImages scans the snapshot for image-bearing elements
// (native <img> elements and elements declaring an inline background
// image) whose intersection with the selection exceeds MinImageOverlap
// in both dimensions.
//
// Results are in document order, which is stable for a fixed snapshot.
func FindCandidateImages(snap *page.Snapshot, sel page.Rect) []CandidateImage {
	var out []CandidateImage
	for _, n := range snap.Nodes() {
		if n.ImageURL == "" {
			continue
		}
		inter := Intersection(n.Box, sel)
		if inter.W <= MinImageOverlap || inter.H <= MinImageOverlap {
			continue
		}
		out = append(out, CandidateImage{
			NodeIndex:     n.Index,
			SourceURL:     n.ImageURL,
			NaturalWidth:  n.NaturalWidth,
			NaturalHeight: n.NaturalHeight,
			Intersection:  inter,
		})
	}
	return out
}

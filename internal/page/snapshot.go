package page

import (
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/net/html"
)

// Rect is an axis-aligned rectangle in page coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// The top and left edges are inclusive, the bottom and right exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Point is a position in page coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Viewport describes the visible window onto the page at capture time.
type Viewport struct {
	ScrollX float64 `json:"scroll_x"`
	ScrollY float64 `json:"scroll_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// RasterResolver maps an image URL to its decoded raster. Resolution is
// fallible: the underlying page may have dropped or replaced the image
// since the snapshot was taken.
type RasterResolver func(url string) (image.Image, error)

// Node is one rendered element of the snapshot, flattened in document
// order. Index is stable for the life of the snapshot and serves as the
// weak back-reference candidate images carry.
type Node struct {
	// Index is the node's position in document-order traversal.
	Index int

	// Box is the element's page-coordinate bounding rectangle.
	Box Rect

	// Tag is the lowercase element name ("img", "div", "p", ...).
	Tag string

	// Text is the element's direct text content (child text nodes only,
	// not descendants), whitespace-collapsed and trimmed.
	Text string

	// FullText is the element's whole-subtree rendered text,
	// whitespace-collapsed and trimmed. The center-point text fallback
	// reads this: descendants without layout geometry have no Node of
	// their own, so their text is only reachable through an ancestor.
	FullText string

	// ImageURL is the element's image source: the src of an <img>, or
	// the URL of an inline background-image declaration. Empty when the
	// element bears no image.
	ImageURL string

	// NaturalWidth and NaturalHeight are the image's intrinsic pixel
	// dimensions when declared, zero otherwise.
	NaturalWidth  int
	NaturalHeight int

	// Interactive marks elements the selection layer must pass through
	// untouched: links, buttons, form fields, explicit button roles and
	// anything carrying a click handler.
	Interactive bool
}

// Snapshot is an immutable rendered-document snapshot.
type Snapshot struct {
	nodes      []Node
	viewport   Viewport
	resolver   RasterResolver
	background colorful.Color
}

// Option configures snapshot parsing.
type Option func(*Snapshot)

// WithViewport records the capture-time viewport.
func WithViewport(vp Viewport) Option {
	return func(s *Snapshot) { s.viewport = vp }
}

// WithRasterResolver installs the resolver used by Raster.
func WithRasterResolver(r RasterResolver) Option {
	return func(s *Snapshot) { s.resolver = r }
}

// WithRasters installs a fixed URL-to-raster map as the resolver.
func WithRasters(rasters map[string]image.Image) Option {
	return func(s *Snapshot) {
		s.resolver = func(url string) (image.Image, error) {
			img, ok := rasters[url]
			if !ok {
				return nil, fmt.Errorf("no raster for %q", url)
			}
			return img, nil
		}
	}
}

// Parse reads an annotated HTML document and builds a Snapshot.
//
// Every element carrying a data-box attribute becomes a Node; elements
// without layout geometry are skipped, since nothing in the pipeline can
// reason about an element it cannot place. The page background color is
// taken from an inline background-color on <body> (or <html> as a
// fallback) and defaults to white.
func Parse(r io.Reader, opts ...Option) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	snap := &Snapshot{background: colorful.Color{R: 1, G: 1, B: 1}}
	for _, opt := range opts {
		opt(snap)
	}

	for _, sel := range []string{"body", "html"} {
		if c, ok := parseCSSColor(inlineStyle(doc.Find(sel).First())["background-color"]); ok {
			snap.background = c
			break
		}
	}

	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		boxAttr, ok := s.Attr("data-box")
		if !ok {
			return
		}
		box, err := parseBox(boxAttr)
		if err != nil {
			return
		}

		n := Node{
			Index:    len(snap.nodes),
			Box:      box,
			Tag:      goquery.NodeName(s),
			Text:     directText(s),
			FullText: strings.Join(strings.Fields(s.Text()), " "),
		}

		style := inlineStyle(s)
		if n.Tag == "img" {
			n.ImageURL, _ = s.Attr("src")
			n.NaturalWidth = intAttr(s, "width")
			n.NaturalHeight = intAttr(s, "height")
		} else if url := backgroundImageURL(style["background-image"]); url != "" {
			n.ImageURL = url
		}
		n.Interactive = isInteractive(s, n.Tag)

		snap.nodes = append(snap.nodes, n)
	})

	return snap, nil
}

// Nodes returns the snapshot's elements in document order. The returned
// slice is shared; callers must not modify it.
func (s *Snapshot) Nodes() []Node {
	return s.nodes
}

// Viewport returns the capture-time viewport.
func (s *Snapshot) Viewport() Viewport {
	return s.viewport
}

// Background returns the page background color.
func (s *Snapshot) Background() colorful.Color {
	return s.background
}

// NodeByIndex re-resolves a node by its document-order index. The second
// return is false when the index is out of range, which callers treat as
// the referenced element having vanished.
func (s *Snapshot) NodeByIndex(i int) (Node, bool) {
	if i < 0 || i >= len(s.nodes) {
		return Node{}, false
	}
	return s.nodes[i], true
}

// ElementAt returns the deepest element whose box contains the point.
// Document order places descendants after their ancestors, so the last
// match is the most specific one.
func (s *Snapshot) ElementAt(x, y float64) (Node, bool) {
	found := false
	var hit Node
	for _, n := range s.nodes {
		if n.Box.Contains(x, y) {
			hit = n
			found = true
		}
	}
	return hit, found
}

// Raster resolves an image URL to its decoded raster through the
// snapshot's resolver.
func (s *Snapshot) Raster(url string) (image.Image, error) {
	if s.resolver == nil {
		return nil, fmt.Errorf("no raster resolver configured")
	}
	return s.resolver(url)
}

// parseBox parses a data-box attribute of the form "x,y,w,h".
func parseBox(attr string) (Rect, error) {
	parts := strings.Split(attr, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("data-box %q: want 4 fields, got %d", attr, len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}, fmt.Errorf("data-box %q: %w", attr, err)
		}
		vals[i] = v
	}
	return Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}

// directText collects the element's own text-node children, collapsing
// runs of whitespace to single spaces. Descendant element text is left to
// the descendants' own nodes so traversal order stays document order.
func directText(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func intAttr(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

// interactiveTags are element types the selection layer never captures.
var interactiveTags = map[string]bool{
	"a":        true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"label":    true,
	"summary":  true,
}

func isInteractive(s *goquery.Selection, tag string) bool {
	if interactiveTags[tag] {
		return true
	}
	if role, ok := s.Attr("role"); ok {
		switch strings.ToLower(strings.TrimSpace(role)) {
		case "button", "link", "checkbox", "menuitem", "tab":
			return true
		}
	}
	_, hasClick := s.Attr("onclick")
	return hasClick
}

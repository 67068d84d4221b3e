package page

import (
	"image"
	"strings"
	"testing"
)

func parse(t *testing.T, html string, opts ...Option) *Snapshot {
	t.Helper()
	snap, err := Parse(strings.NewReader(html), opts...)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return snap
}

func TestParse_Nodes(t *testing.T) {
	snap := parse(t, `<html><body style="background-color: #f0f0f0">
		<p data-box="10,20,300,18">Hello world</p>
		<img src="logo.png" data-box="10,50,64,64" width="128" height="128">
		<div data-box="0,120,400,80" style="background-image: url('hero.jpg'); color: red"></div>
		<span>no box, no node</span>
	</body></html>`)

	nodes := snap.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}

	p := nodes[0]
	if p.Tag != "p" || p.Text != "Hello world" {
		t.Errorf("node 0 = %q %q, want p with Hello world", p.Tag, p.Text)
	}
	if p.Box != (Rect{X: 10, Y: 20, W: 300, H: 18}) {
		t.Errorf("node 0 box = %+v", p.Box)
	}

	img := nodes[1]
	if img.ImageURL != "logo.png" {
		t.Errorf("img url = %q, want logo.png", img.ImageURL)
	}
	if img.NaturalWidth != 128 || img.NaturalHeight != 128 {
		t.Errorf("img natural size = %dx%d, want 128x128", img.NaturalWidth, img.NaturalHeight)
	}

	div := nodes[2]
	if div.ImageURL != "hero.jpg" {
		t.Errorf("background image url = %q, want hero.jpg", div.ImageURL)
	}

	bg := snap.Background()
	if bg.R < 0.93 || bg.R > 0.95 {
		t.Errorf("background R = %v, want ~0.94 (#f0)", bg.R)
	}
}

func TestParse_Interactive(t *testing.T) {
	snap := parse(t, `<html><body>
		<a href="/x" data-box="0,0,50,20">link</a>
		<button data-box="0,30,50,20">btn</button>
		<input data-box="0,60,50,20">
		<div role="button" data-box="0,90,50,20">roleish</div>
		<div onclick="go()" data-box="0,120,50,20">handled</div>
		<p data-box="0,150,50,20">plain</p>
	</body></html>`)

	nodes := snap.Nodes()
	if len(nodes) != 6 {
		t.Fatalf("got %d nodes, want 6", len(nodes))
	}
	for i, want := range []bool{true, true, true, true, true, false} {
		if nodes[i].Interactive != want {
			t.Errorf("node %d (%s) Interactive = %v, want %v", i, nodes[i].Tag, nodes[i].Interactive, want)
		}
	}
}

func TestParse_MalformedBoxSkipped(t *testing.T) {
	snap := parse(t, `<html><body>
		<p data-box="not,a,box,really">bad</p>
		<p data-box="1,2,3">short</p>
		<p data-box="0,0,10,10">good</p>
	</body></html>`)

	if len(snap.Nodes()) != 1 {
		t.Fatalf("malformed boxes must be skipped, got %d nodes", len(snap.Nodes()))
	}
}

func TestElementAt_Deepest(t *testing.T) {
	snap := parse(t, `<html><body>
		<div data-box="0,0,200,200">outer
			<div data-box="50,50,100,100">inner</div>
		</div>
	</body></html>`)

	n, ok := snap.ElementAt(100, 100)
	if !ok {
		t.Fatal("expected a hit")
	}
	if n.Text != "inner" {
		t.Errorf("ElementAt hit %q, want the deepest element (inner)", n.Text)
	}

	n, ok = snap.ElementAt(10, 10)
	if !ok || n.Text != "outer" {
		t.Errorf("ElementAt(10,10) = %q ok=%v, want outer", n.Text, ok)
	}

	if _, ok := snap.ElementAt(500, 500); ok {
		t.Error("expected no hit outside every box")
	}
}

func TestSnapshot_Raster(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	snap := parse(t, `<html><body><img src="a.png" data-box="0,0,40,40"></body></html>`,
		WithRasters(map[string]image.Image{"a.png": img}))

	got, err := snap.Raster("a.png")
	if err != nil {
		t.Fatalf("Raster failed: %v", err)
	}
	if got != img {
		t.Error("Raster returned a different image")
	}

	if _, err := snap.Raster("vanished.png"); err == nil {
		t.Error("unknown raster must fail")
	}

	bare := parse(t, `<html><body></body></html>`)
	if _, err := bare.Raster("a.png"); err == nil {
		t.Error("snapshot without resolver must fail resolution")
	}
}

func TestParseCSSColor(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
		wantR  float64
	}{
		{"#ffffff", true, 1},
		{"#fff", true, 1},
		{"#000000", true, 0},
		{"white", true, 1},
		{"rgb(255, 0, 0)", true, 1},
		{"rgb(256, 0, 0)", false, 0},
		{"linear-gradient(red, blue)", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		c, ok := parseCSSColor(tt.in)
		if ok != tt.wantOK {
			t.Errorf("parseCSSColor(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && (c.R < tt.wantR-0.01 || c.R > tt.wantR+0.01) {
			t.Errorf("parseCSSColor(%q).R = %v, want %v", tt.in, c.R, tt.wantR)
		}
	}
}

func TestBackgroundImageURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`url("banner.png")`, "banner.png"},
		{`url('banner.png')`, "banner.png"},
		{`url(banner.png)`, "banner.png"},
		{`linear-gradient(red, blue)`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		if got := backgroundImageURL(tt.in); got != tt.want {
			t.Errorf("backgroundImageURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

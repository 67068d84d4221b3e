package ocr

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"os"
)

type sourceKind int

const (
	kindURL sourceKind = iota
	kindRaster
	kindFile
)

// ImageSource is a tagged variant over the ways an image can reach the
// adapter: a URL resolved through a snapshot, an already-decoded raster,
// or a file on disk. A single dispatch in raster() replaces runtime type
// sniffing at the call sites.
type ImageSource struct {
	kind    sourceKind
	label   string
	url     string
	path    string
	resolve func(url string) (image.Image, error)
	img     image.Image
}

// FromURL builds a source that resolves url through resolve at use time.
// Resolution is deferred so that a page that drops the image between
// discovery and recognition surfaces as an INVALID_IMAGE fault, not a
// stale raster.
func FromURL(label, url string, resolve func(string) (image.Image, error)) ImageSource {
	return ImageSource{kind: kindURL, label: label, url: url, resolve: resolve}
}

// FromRaster builds a source over an already-decoded raster.
func FromRaster(label string, img image.Image) ImageSource {
	return ImageSource{kind: kindRaster, label: label, img: img}
}

// FromFile builds a source that decodes a file on disk at use time.
func FromFile(path string) ImageSource {
	return ImageSource{kind: kindFile, label: path, path: path}
}

// Label identifies the source in results and error messages.
func (s ImageSource) Label() string {
	return s.label
}

// raster materializes the source as a decoded image.
func (s ImageSource) raster() (image.Image, error) {
	switch s.kind {
	case kindURL:
		if s.resolve == nil {
			return nil, fmt.Errorf("no resolver for %q", s.url)
		}
		return s.resolve(s.url)
	case kindRaster:
		if s.img == nil {
			return nil, fmt.Errorf("nil raster for %q", s.label)
		}
		return s.img, nil
	case kindFile:
		f, err := os.Open(s.path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	default:
		return nil, fmt.Errorf("unknown image source kind %d", s.kind)
	}
}

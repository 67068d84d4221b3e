package ocr

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestImageSource_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texty.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, textRaster(t, "HI", 1)); err != nil {
		f.Close()
		t.Fatal(err)
	}
	f.Close()

	src := FromFile(path)
	if src.Label() != path {
		t.Errorf("Label() = %q, want the file path", src.Label())
	}

	img, err := src.raster()
	if err != nil {
		t.Fatalf("raster failed: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Errorf("decoded raster is empty: %v", img.Bounds())
	}

	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.png")).raster(); err == nil {
		t.Error("missing file must fail resolution")
	}
}

func TestImageSource_FromRaster(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src := FromRaster("fixture", img)

	got, err := src.raster()
	if err != nil {
		t.Fatalf("raster failed: %v", err)
	}
	if got != img {
		t.Error("raster must return the wrapped image")
	}

	if _, err := FromRaster("nil", nil).raster(); err == nil {
		t.Error("nil raster must fail resolution")
	}
}

func TestImageSource_FromURL(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src := FromURL("image 0 (a.png)", "a.png", func(url string) (image.Image, error) {
		if url != "a.png" {
			t.Errorf("resolver got url %q, want a.png", url)
		}
		return img, nil
	})

	got, err := src.raster()
	if err != nil {
		t.Fatalf("raster failed: %v", err)
	}
	if got != img {
		t.Error("raster must return the resolved image")
	}

	if _, err := FromURL("bare", "a.png", nil).raster(); err == nil {
		t.Error("missing resolver must fail resolution")
	}
}

package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"os/exec"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// requireTesseract skips tests that need a working engine install.
func requireTesseract(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("Tesseract not available")
	}
}

// blankRaster creates a uniformly white image.
func blankRaster(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

// drawText renders text with basicfont at the given baseline.
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// textRaster creates a white image with black rendered text, scaled up
// by pixel replication so the engine has enough resolution to work with.
func textRaster(t *testing.T, text string, scale int) *image.RGBA {
	t.Helper()

	width := len(text)*7 + 40
	height := 40
	small := blankRaster(width, height)
	drawText(small, 20, 25, text, color.Black)

	if scale <= 1 {
		return small
	}
	big := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					big.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return big
}

package ocr

import (
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// MaxDimension is the largest edge, in pixels, a raster keeps after
// preprocessing. Tesseract gains nothing from more resolution and the
// decode/recognition cost grows quadratically.
const MaxDimension = 2000

// contrastFactor is the linear stretch applied around each pixel's
// channel average when contrast enhancement is enabled.
const contrastFactor = 1.2

// PreprocessOptions control the independent preprocessing toggles.
// The zero value disables everything; use DefaultPreprocessOptions for
// the standard pipeline settings.
type PreprocessOptions struct {
	// Grayscale converts to luminance-weighted grayscale
	// (0.299R + 0.587G + 0.114B).
	Grayscale bool

	// EnhanceContrast applies a linear contrast stretch of
	// contrastFactor around the per-pixel channel average.
	EnhanceContrast bool

	// MaxDimension overrides the downscale bound when positive.
	MaxDimension int
}

// DefaultPreprocessOptions returns the standard settings: both toggles
// on, MaxDimension bound.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{Grayscale: true, EnhanceContrast: true, MaxDimension: MaxDimension}
}

// Preprocess prepares a raster for recognition.
//
// The raster is downscaled to fit MaxDimension×MaxDimension preserving
// aspect ratio (never upscaled), optionally converted to grayscale and
// optionally contrast-stretched. The result is always a freshly
// allocated drawable NRGBA raster regardless of the input's concrete
// type.
func Preprocess(img image.Image, opts PreprocessOptions) *image.NRGBA {
	maxDim := opts.MaxDimension
	if maxDim <= 0 {
		maxDim = MaxDimension
	}

	out := imaging.Clone(img)
	b := out.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		out = imaging.Fit(out, maxDim, maxDim, imaging.Lanczos)
	}

	if opts.Grayscale {
		// imaging.Grayscale uses the BT.601 luminance weights
		// 0.299R + 0.587G + 0.114B.
		out = imaging.Grayscale(out)
	}

	if opts.EnhanceContrast {
		stretchContrast(out, contrastFactor)
	}

	return out
}

// stretchContrast pushes each channel away from the pixel's own channel
// average by the given factor, clamped to [0, 255]. Unlike a global
// histogram stretch this needs no second pass over the raster.
func stretchContrast(img *image.NRGBA, factor float64) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		avg := (float64(pix[i]) + float64(pix[i+1]) + float64(pix[i+2])) / 3
		for c := 0; c < 3; c++ {
			v := avg + (float64(pix[i+c])-avg)*factor
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			pix[i+c] = uint8(v + 0.5)
		}
	}
}

// inkThreshold is the binarization level separating ink from background
// when estimating coverage.
const inkThreshold = 128

// blankInkCoverage is the ink fraction below which a raster is treated
// as blank: recognizing it would only return noise, so the engine pass
// is skipped entirely.
const blankInkCoverage = 0.0005

// IsBlank reports whether a raster carries too little ink to be worth a
// recognition pass.
func IsBlank(img image.Image) bool {
	return InkCoverage(img) < blankInkCoverage
}

// InkCoverage estimates the fraction of a raster covered by ink-dark
// pixels, using a fixed-level binarization. A blank or near-blank
// raster, the usual outcome of compositing a selection with no visible
// imagery, scores approximately zero.
func InkCoverage(img image.Image) float64 {
	bin := segment.Threshold(img, inkThreshold)
	b := bin.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	dark := 0
	for _, v := range bin.Pix {
		if v == 0 {
			dark++
		}
	}
	return float64(dark) / float64(total)
}

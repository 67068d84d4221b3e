// Package ocr wraps the Tesseract engine (via gosseract/v2) behind the
// pipeline's recognition adapter.
//
// The adapter owns the engine lifecycle: lazy, idempotent initialization
// per language set, image preprocessing, time-bounded recognition and a
// small warmed-worker cache that amortizes engine start-up across calls.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// Language data files are required per language (tesseract-ocr-eng,
// tesseract-ocr-spa, tesseract-ocr-fra for the default set).
//
// # Worker Cache
//
// One initialized engine worker is kept per distinct language set and
// terminated after five minutes of disuse. The cache is purely a latency
// optimization: its absence never changes results. Concurrent calls
// requesting the same uninitialized language set share a single
// in-flight initialization.
//
// # Time Bounds
//
// Recognition has a hard 30-second budget. A pass that exceeds it fails
// with an OCR_TIMEOUT fault and its worker is retired; a hung native
// call cannot be interrupted, so the worker is closed once the call
// eventually returns.
//
// # Failure Taxonomy
//
// All failures carry a fault.Code: ENGINE_UNAVAILABLE (engine could not
// load), INVALID_IMAGE (zero-dimension or unreadable source),
// OCR_TIMEOUT, RECOGNITION_FAILED (engine-reported error). Every one is
// recoverable at the call site; an image that recognizes to empty text
// is a success carrying a warning, not an error.
package ocr

// Package extract orchestrates one selection-to-text extraction call.
//
// Given a document snapshot and a committed selection rectangle, the
// aggregator collects native selectable text through the geometry
// engine, runs OCR over every candidate image in discovery order, adds a
// whole-rectangle composite capture as one final virtual image, and
// merges all sources into a single deterministic combined text.
//
// # Failure Model
//
// Sub-step failures are captured, never thrown: each one becomes an
// entry in Result.Errors and processing continues. The only error
// Extract itself returns is the SELECTION_TOO_SMALL contract violation
// for rectangles under the meaningful-selection threshold. In the worst
// case the returned Result has empty CombinedText and a non-empty error
// list, but it still exists.
//
// # Determinism
//
// CombinedText is a pure function of the snapshot, the rectangle and the
// per-image recognition outcomes: sources are merged in discovery order,
// never completion order. OCR passes run sequentially, bounding peak
// memory to one decoded raster and one engine pass at a time.
package extract

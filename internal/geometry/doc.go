// Package geometry decides which parts of a document snapshot
// participate in a rectangular selection.
//
// All functions are pure and synchronous: they read a snapshot and a
// selection rectangle and return candidate sets, with no I/O and no
// retained state. Output order is stable for a fixed snapshot (document
// order for images, traversal order for text), which the extraction
// aggregator relies on for deterministic merged output.
//
// # Thresholds
//
// Two size thresholds guard the pipeline:
//
//   - MinSelectionSize (5px): a selection rectangle narrower or shorter
//     than this is not meaningful and must never enter the pipeline.
//   - MinImageOverlap (10px): an image whose intersection with the
//     selection is at most this wide or tall is an incidental sliver;
//     running OCR on such a slice wastes engine time on an unreadable
//     strip.
package geometry

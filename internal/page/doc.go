// Package page models an immutable snapshot of a rendered document.
//
// A snapshot is produced outside this module (typically by a headless
// browser dump or a test fixture builder) and consumed by the selection
// and extraction pipeline. It combines three things:
//
//   - The document's HTML structure, parsed with goquery.
//   - Per-element layout geometry, carried as page-coordinate boxes in
//     data-box="x,y,w,h" attributes on each rendered element.
//   - A raster resolver that maps image URLs to decoded image.Image
//     values on demand.
//
// # Coordinate System
//
// All boxes use page coordinates: origin at the document's top-left,
// X increasing rightward, Y increasing downward, units are
// device-independent pixels. Viewport coordinates are derived by
// subtracting the scroll offsets recorded in the snapshot's Viewport.
//
// # Immutability
//
// A Snapshot never changes after Parse returns. The live page it was
// taken from can, however, change independently: rasters referenced by
// the snapshot may no longer resolve. All consumers must treat raster
// resolution as fallible.
package page

// Package selection turns pointer and keyboard input into committed
// selection rectangles.
//
// A Machine walks Idle → Armed → Dragging → {Committed | Cancelled} →
// Idle. Arming installs a full-viewport capture overlay with a crosshair
// affordance; dragging tracks the axis-aligned box between the anchor
// and the pointer; releasing commits the rectangle to the extraction
// aggregator, unless it falls below the meaningful-selection threshold,
// in which case the gesture is silently discarded.
//
// Pointer-downs on interactive page controls (links, buttons, form
// fields, button roles, click handlers) are passed through untouched so
// the host page stays usable while armed.
//
// The machine is built for single-goroutine, cooperative event delivery:
// feed it events from one loop. One Machine manages one active capture
// session; construct per activation rather than sharing an ambient
// global.
package selection

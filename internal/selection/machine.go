package selection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ironsheep/snipext/internal/extract"
	"github.com/ironsheep/snipext/internal/geometry"
	"github.com/ironsheep/snipext/internal/page"
)

// State is the machine's position in the selection lifecycle.
type State int

const (
	StateIdle State = iota
	StateArmed
	StateDragging
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateDragging:
		return "dragging"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Overlay is the capture-layer collaborator: the full-viewport surface
// that intercepts input and renders selection feedback while armed.
type Overlay interface {
	// Install mounts the capture layer and sets the crosshair cursor.
	Install()

	// Remove tears the capture layer down and restores the cursor.
	Remove()

	// SetSelection updates the visual selection rectangle while dragging.
	SetSelection(r page.Rect)

	// ShowLoading displays the blocking (but not page-modal) extraction
	// indicator; HideLoading removes it.
	ShowLoading()
	HideLoading()
}

// Sink is the result-display collaborator. It owns rendering, editing
// and copy behavior; the machine only delivers outcomes.
type Sink interface {
	ExtractionComplete(res *extract.Result, sel extract.SelectionRect)
	ExtractionError(message string, sel extract.SelectionRect)

	// SelectionCancelled notifies a user-initiated abort so activation
	// UI can be cleared.
	SelectionCancelled()
}

// ExtractFunc runs one extraction for a committed rectangle. The
// aggregator's Extract, closed over its snapshot, satisfies it.
type ExtractFunc func(ctx context.Context, sel extract.SelectionRect) (*extract.Result, error)

// Config wires a Machine's collaborators.
type Config struct {
	Overlay  Overlay
	Sink     Sink
	Extract  ExtractFunc
	Viewport page.Viewport
	Logger   zerolog.Logger
}

// Machine is one selection session's state machine.
type Machine struct {
	cfg     Config
	state   State
	session uuid.UUID
	anchor  page.Point
	current page.Rect
	log     zerolog.Logger
}

// New creates an idle machine. Activate starts a session.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg, state: StateIdle, log: cfg.Logger}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Activate arms the machine: the overlay is installed and input
// capture begins. Re-entrant activation while armed or dragging is a
// no-op.
func (m *Machine) Activate() {
	if m.state != StateIdle {
		return
	}
	m.session = uuid.New()
	m.log = m.cfg.Logger.With().Str("session", m.session.String()).Logger()
	m.state = StateArmed
	m.cfg.Overlay.Install()
	m.log.Debug().Msg("selection armed")
}

// Deactivate tears the session down from any state without emitting a
// cancellation notice.
func (m *Machine) Deactivate() {
	if m.state == StateIdle {
		return
	}
	m.cfg.Overlay.Remove()
	m.state = StateIdle
}

// PointerDown feeds a pointer-down event. The return value reports
// whether the machine consumed the event; false means the embedding
// layer must let the page handle it (interactive targets stay usable).
func (m *Machine) PointerDown(ev PointerEvent) bool {
	if m.state != StateArmed {
		return false
	}
	if ev.Button != ButtonPrimary || ev.Target.Interactive {
		return false
	}
	m.anchor = page.Point{X: ev.X, Y: ev.Y}
	m.current = page.Rect{X: ev.X, Y: ev.Y}
	m.state = StateDragging
	return true
}

// PointerMove feeds a pointer-move event. While dragging it recomputes
// the visual rectangle as the axis-aligned box between the anchor and
// the pointer; nothing is finalized.
func (m *Machine) PointerMove(ev PointerEvent) {
	if m.state != StateDragging {
		return
	}
	m.current = boxBetween(m.anchor, page.Point{X: ev.X, Y: ev.Y})
	m.cfg.Overlay.SetSelection(m.current)
}

// PointerUp feeds a pointer-up event, ending a drag.
//
// A rectangle below the meaningful-selection threshold (including the
// zero-size rectangle of a bare click on the overlay) cancels silently.
// Anything larger commits: the rectangle goes to the extractor, a
// loading indicator covers the wait, and the outcome is forwarded to
// the sink. The overlay is removed on every exit path.
func (m *Machine) PointerUp(ev PointerEvent) {
	if m.state != StateDragging {
		return
	}
	rect := boxBetween(m.anchor, page.Point{X: ev.X, Y: ev.Y})

	if !geometry.Meaningful(rect) {
		// A click that lands on the capture layer without a real drag is
		// a cancellation gesture; a sub-threshold drag discards quietly.
		if ev.Target.Overlay && rect.W == 0 && rect.H == 0 {
			m.cancel(true)
			return
		}
		m.cancel(false)
		return
	}

	m.commit(rect)
}

// KeyDown feeds a key event. Escape cancels while armed or dragging.
func (m *Machine) KeyDown(k Key) {
	if k != KeyEscape {
		return
	}
	if m.state == StateArmed || m.state == StateDragging {
		m.cancel(true)
	}
}

// cancel ends the session. notify controls whether the sink learns of
// the abort: user-initiated cancellations notify, silent discards of
// sub-threshold drags do not.
func (m *Machine) cancel(notify bool) {
	m.state = StateCancelled
	m.cfg.Overlay.Remove()
	m.state = StateIdle
	m.log.Debug().Bool("notified", notify).Msg("selection cancelled")
	if notify {
		m.cfg.Sink.SelectionCancelled()
	}
}

// commit runs the extraction for a finalized rectangle and settles the
// session. The loading indicator and the overlay are removed on every
// exit path, including a panicking extractor; extraction failures are
// reported to the sink, and the machine does not re-arm itself.
func (m *Machine) commit(rect page.Rect) {
	m.state = StateCommitted
	sel := extract.SelectionRect{
		Page: rect,
		Viewport: page.Rect{
			X: rect.X - m.cfg.Viewport.ScrollX,
			Y: rect.Y - m.cfg.Viewport.ScrollY,
			W: rect.W,
			H: rect.H,
		},
	}

	m.cfg.Overlay.ShowLoading()
	defer func() {
		m.cfg.Overlay.HideLoading()
		m.cfg.Overlay.Remove()
		m.state = StateIdle
		if r := recover(); r != nil {
			m.log.Error().Interface("panic", r).Msg("extraction panicked")
			m.cfg.Sink.ExtractionError(fmt.Sprintf("extraction panicked: %v", r), sel)
		}
	}()

	res, err := m.cfg.Extract(context.Background(), sel)
	if err != nil {
		m.log.Warn().Err(err).Msg("extraction failed")
		m.cfg.Sink.ExtractionError(err.Error(), sel)
		return
	}
	m.cfg.Sink.ExtractionComplete(res, sel)
}

// boxBetween returns the axis-aligned rectangle spanned by two points.
func boxBetween(a, b page.Point) page.Rect {
	r := page.Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}
	if r.W < 0 {
		r.X, r.W = b.X, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = b.Y, -r.H
	}
	return r
}

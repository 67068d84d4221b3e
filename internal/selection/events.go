package selection

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonAuxiliary
)

// Target describes what a pointer event landed on, as reported by the
// embedding environment.
type Target struct {
	// Interactive marks links, buttons, form fields, role="button"
	// elements and anything carrying a click handler. Events on such
	// targets pass through to the page.
	Interactive bool

	// Overlay marks the capture layer itself.
	Overlay bool
}

// PointerEvent is one pointer interaction in page coordinates.
type PointerEvent struct {
	X      float64
	Y      float64
	Button Button
	Target Target
}

// Key identifies the keyboard input the machine reacts to.
type Key int

const (
	// KeyEscape cancels an armed or in-progress selection.
	KeyEscape Key = iota
)

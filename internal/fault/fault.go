// Package fault defines the structured error taxonomy shared by the
// extraction pipeline.
//
// Every recoverable pipeline failure is classified under a Code so that
// callers can report per-image and per-stage failures without string
// matching. Faults wrap an optional cause and participate in the standard
// errors.Is/errors.As chains.
package fault

import (
	"errors"
	"fmt"
)

// Code identifies a class of pipeline failure.
type Code string

const (
	// SelectionTooSmall indicates a selection rectangle below the minimum
	// meaningful size (5px in either dimension). This is a caller contract
	// violation, not a recoverable pipeline failure.
	SelectionTooSmall Code = "SELECTION_TOO_SMALL"

	// EngineUnavailable indicates the OCR engine could not be loaded or
	// configured for the requested language set.
	EngineUnavailable Code = "ENGINE_UNAVAILABLE"

	// InvalidImage indicates a zero-dimension or unreadable image source.
	InvalidImage Code = "INVALID_IMAGE"

	// OcrTimeout indicates recognition exceeded its hard time budget.
	OcrTimeout Code = "OCR_TIMEOUT"

	// RecognitionFailed indicates the engine itself reported an error.
	RecognitionFailed Code = "RECOGNITION_FAILED"

	// GeometryReadFailure indicates a candidate's bounding rectangle or
	// backing node could not be read at use time.
	GeometryReadFailure Code = "GEOMETRY_READ_FAILURE"
)

// Fault is a classified pipeline error.
type Fault struct {
	// Code is the failure class.
	Code Code

	// Stage names the pipeline stage that produced the failure
	// (e.g. "initialize", "preprocess", "recognize", "capture").
	Stage string

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (f *Fault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *Fault) Unwrap() error {
	return f.Cause
}

// New creates a Fault without an underlying cause.
func New(code Code, stage, format string, args ...interface{}) *Fault {
	return &Fault{
		Code:    code,
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a Fault wrapping cause. A nil cause is allowed and behaves
// like New.
func Wrap(cause error, code Code, stage, format string, args ...interface{}) *Fault {
	return &Fault{
		Code:    code,
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// CodeOf returns the Code carried by err, unwrapping as needed.
// Errors outside the taxonomy report the empty code.
func CodeOf(err error) Code {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code
	}
	return ""
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

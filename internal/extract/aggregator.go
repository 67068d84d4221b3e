package extract

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/snipext/internal/fault"
	"github.com/ironsheep/snipext/internal/geometry"
	"github.com/ironsheep/snipext/internal/ocr"
	"github.com/ironsheep/snipext/internal/page"
)

// SelectionRect is a committed selection in both coordinate spaces: Page
// is scroll-adjusted, Viewport is relative to the capture-time viewport.
type SelectionRect struct {
	Page     page.Rect `json:"page"`
	Viewport page.Rect `json:"viewport"`
}

// OcrAttempt records the outcome for one candidate image, success or
// failure, in discovery order.
type OcrAttempt struct {
	// Source identifies the image (node index and URL, or the virtual
	// region capture).
	Source string `json:"source"`

	// Text is the recognized text; empty on failure or blank images.
	Text string `json:"text"`

	// Confidence is the mean word confidence (0–100) on success.
	Confidence float64 `json:"confidence,omitempty"`

	// ProcessingTimeMs is the recognition wall time on success.
	ProcessingTimeMs int64 `json:"processing_time_ms,omitempty"`

	// Warning is set for valid-but-empty outcomes.
	Warning string `json:"warning,omitempty"`

	// Err describes the failure when the attempt did not succeed.
	Err string `json:"error,omitempty"`
}

// ExtractionError is one captured sub-step failure.
type ExtractionError struct {
	// Stage names the failing step: "initialize", "ocr" or "capture".
	Stage string `json:"stage"`

	// Code classifies the failure.
	Code fault.Code `json:"code,omitempty"`

	// Message is the failure description.
	Message string `json:"message"`

	// ImageIndex is the 1-based candidate index for per-image failures,
	// zero otherwise.
	ImageIndex int `json:"image_index,omitempty"`
}

// Result is the merged outcome of one extraction call. It is constructed
// once, immutable once returned, and owned by the caller.
type Result struct {
	// SelectableText is the normalized native page text inside the
	// selection.
	SelectableText string `json:"selectable_text"`

	// OcrText is the concatenation of all successful, non-empty OCR
	// texts in discovery order, joined by blank lines.
	OcrText string `json:"ocr_text"`

	// CombinedText merges SelectableText and OcrText. It never contains
	// four or more consecutive newlines.
	CombinedText string `json:"combined_text"`

	// Images holds one attempt per candidate image plus the region
	// capture, in discovery order.
	Images []OcrAttempt `json:"images"`

	// Errors lists every captured sub-step failure.
	Errors []ExtractionError `json:"errors"`
}

// Recognizer is the OCR adapter surface the aggregator consumes. The
// engine adapter satisfies it; tests substitute fixed stubs.
type Recognizer interface {
	Initialize(ctx context.Context, langs string) error
	Recognize(ctx context.Context, src ocr.ImageSource, langs string) (*ocr.Result, error)
	ActiveLanguages() string
}

// Aggregator runs extraction calls against one recognizer.
type Aggregator struct {
	rec Recognizer
	log zerolog.Logger
}

// New creates an aggregator over the given recognizer.
func New(rec Recognizer, log zerolog.Logger) *Aggregator {
	return &Aggregator{rec: rec, log: log}
}

// Extract performs one full extraction over the snapshot.
//
// It returns an error only for a selection rectangle below the
// meaningful threshold, which is a contract violation on the caller's
// part; every other failure is captured in the Result.
func (a *Aggregator) Extract(ctx context.Context, snap *page.Snapshot, sel SelectionRect) (*Result, error) {
	if !geometry.Meaningful(sel.Page) {
		return nil, fault.New(fault.SelectionTooSmall, "extract",
			"selection %.0fx%.0f is below the %dpx minimum", sel.Page.W, sel.Page.H, geometry.MinSelectionSize)
	}

	res := &Result{}
	res.SelectableText = NormalizeText(strings.Join(geometry.FindSelectableText(snap, sel.Page), "\n"))

	candidates := geometry.FindCandidateImages(snap, sel.Page)
	if len(candidates) == 0 {
		// Fast path: no OCR work means no engine initialization cost.
		res.CombinedText = res.SelectableText
		return res, nil
	}

	langs := a.rec.ActiveLanguages()
	if err := a.rec.Initialize(ctx, langs); err != nil {
		// Selectable text already collected survives an unusable engine.
		a.log.Warn().Err(err).Msg("engine initialization failed")
		res.Errors = append(res.Errors, ExtractionError{
			Stage:   "initialize",
			Code:    fault.CodeOf(err),
			Message: err.Error(),
		})
		res.CombinedText = res.SelectableText
		return res, nil
	}

	var ocrTexts []string
	for i, cand := range candidates {
		if _, err := cand.Resolve(snap); err != nil {
			res.Errors = append(res.Errors, ExtractionError{
				Stage:      "ocr",
				Code:       fault.CodeOf(err),
				Message:    err.Error(),
				ImageIndex: i + 1,
			})
			res.Images = append(res.Images, OcrAttempt{Source: cand.Label(), Err: err.Error()})
			continue
		}
		attempt := a.recognizeOne(ctx, ocr.FromURL(cand.Label(), cand.SourceURL, snap.Raster), langs)
		if attempt.Err != "" {
			res.Errors = append(res.Errors, ExtractionError{
				Stage:      "ocr",
				Code:       attempt.code,
				Message:    attempt.Err,
				ImageIndex: i + 1,
			})
		} else if attempt.Text != "" {
			ocrTexts = append(ocrTexts, attempt.Text)
		}
		res.Images = append(res.Images, attempt.OcrAttempt)
	}

	// One more virtual image: a composite of everything visible inside
	// the rectangle, to catch text rendered in ways per-element
	// discovery cannot see.
	if capture, err := CompositeCapture(snap, sel.Page); err != nil {
		res.Errors = append(res.Errors, ExtractionError{
			Stage:   "capture",
			Code:    fault.CodeOf(err),
			Message: err.Error(),
		})
	} else if ocr.IsBlank(capture) {
		// Nothing resolvable rendered into the composite; recognizing a
		// blank canvas would only add noise to the attempt list.
		a.log.Debug().Msg("region capture is blank, skipping")
	} else {
		attempt := a.recognizeOne(ctx, ocr.FromRaster(regionCaptureLabel, capture), langs)
		if attempt.Err != "" {
			res.Errors = append(res.Errors, ExtractionError{
				Stage:   "capture",
				Code:    attempt.code,
				Message: attempt.Err,
			})
		} else if attempt.Text != "" {
			ocrTexts = append(ocrTexts, attempt.Text)
		}
		res.Images = append(res.Images, attempt.OcrAttempt)
	}

	res.OcrText = strings.Join(ocrTexts, "\n\n")
	res.CombinedText = MergeCombined(res.SelectableText, ocrTexts)
	return res, nil
}

// regionCaptureLabel names the virtual whole-rectangle image in results.
const regionCaptureLabel = "region capture"

type attemptOutcome struct {
	OcrAttempt
	code fault.Code
}

// recognizeOne runs a single recognition and folds its outcome (success,
// empty-with-warning or failure) into an attempt record. One image's
// failure never aborts the remaining images.
func (a *Aggregator) recognizeOne(ctx context.Context, src ocr.ImageSource, langs string) attemptOutcome {
	out := attemptOutcome{OcrAttempt: OcrAttempt{Source: src.Label()}}

	r, err := a.rec.Recognize(ctx, src, langs)
	if err != nil {
		a.log.Debug().Err(err).Str("source", src.Label()).Msg("recognition failed")
		out.Err = err.Error()
		out.code = fault.CodeOf(err)
		return out
	}

	out.Text = r.Text
	out.Confidence = r.Confidence
	out.ProcessingTimeMs = r.ProcessingTimeMs
	out.Warning = r.Warning
	return out
}

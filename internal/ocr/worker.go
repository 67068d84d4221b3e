package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// worker is one initialized engine instance bound to a language set.
//
// Initialization runs once per worker; every caller that raced into the
// same language set waits on ready and shares the outcome. mu serializes
// engine passes, since a gosseract client is not safe for concurrent
// use.
type worker struct {
	langs string

	// ready is closed when init completes; err is valid afterwards.
	ready chan struct{}
	err   error

	mu     chan struct{} // buffered-1 semaphore; acquired per engine pass
	client *gosseract.Client
	closed bool

	timer *time.Timer
}

func newWorker(langs string) *worker {
	w := &worker{
		langs: langs,
		ready: make(chan struct{}),
		mu:    make(chan struct{}, 1),
	}
	w.mu <- struct{}{}
	return w
}

// init loads and configures the engine. Runs in its own goroutine,
// exactly once per worker.
func (w *worker) init() {
	defer close(w.ready)

	client := gosseract.NewClient()
	if err := client.SetLanguage(strings.Split(w.langs, "+")...); err != nil {
		client.Close()
		w.err = fmt.Errorf("failed to set language %q: %w", w.langs, err)
		return
	}
	w.client = client
}

// passResult carries one engine pass's outcome.
type passResult struct {
	text  string
	boxes []gosseract.BoundingBox
	err   error
}

// run performs one recognition pass. It blocks on the worker semaphore,
// hands the raster to tesseract through a temporary PNG (the engine
// wants a file path), and reports text plus word boxes. Word-box
// extraction failure is not fatal; the text is still returned with nil
// boxes.
func (w *worker) run(img image.Image) passResult {
	<-w.mu
	defer func() { w.mu <- struct{}{} }()

	if w.closed {
		return passResult{err: fmt.Errorf("worker for %q is closed", w.langs)}
	}

	tmp, err := os.CreateTemp("", "snipext-ocr-*.png")
	if err != nil {
		return passResult{err: fmt.Errorf("failed to create temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return passResult{err: fmt.Errorf("failed to encode temp image: %w", err)}
	}
	tmp.Close()

	if err := w.client.SetImage(tmpPath); err != nil {
		return passResult{err: fmt.Errorf("failed to set image: %w", err)}
	}

	text, err := w.client.Text()
	if err != nil {
		return passResult{err: fmt.Errorf("OCR failed: %w", err)}
	}

	boxes, err := w.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return passResult{text: text}
	}
	return passResult{text: text, boxes: boxes}
}

// close terminates the worker. It waits for any in-flight pass to
// return before freeing the native client, so an abandoned (timed-out)
// pass finishes in the background and is reaped here.
func (w *worker) close() {
	<-w.mu
	defer func() { w.mu <- struct{}{} }()

	if w.closed {
		return
	}
	w.closed = true
	if w.client != nil {
		w.client.Close()
	}
}

// meanConfidence averages word confidences into a 0–100 score.
func meanConfidence(boxes []gosseract.BoundingBox) float64 {
	if len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes))
}

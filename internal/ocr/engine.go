package ocr

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/snipext/internal/fault"
	"github.com/ironsheep/snipext/internal/settings"
)

const (
	// DefaultLanguages is the language set used when neither the caller
	// nor the settings store specifies one.
	DefaultLanguages = "eng+fra+spa"

	// RecognizeTimeout is the hard budget for a single engine pass.
	RecognizeTimeout = 30 * time.Second

	// WorkerIdleTTL is how long an unused warmed worker survives before
	// it is terminated to bound memory.
	WorkerIdleTTL = 5 * time.Minute

	// WarningNoText marks a successful recognition that found nothing.
	WarningNoText = "no text found"
)

// Result is the outcome of one successful recognition pass.
type Result struct {
	// Text is the recognized text, trimmed. Empty when Warning is set.
	Text string `json:"text"`

	// Confidence is the mean word confidence, 0–100.
	Confidence float64 `json:"confidence"`

	// ProcessingTimeMs is wall time for preprocessing plus recognition.
	ProcessingTimeMs int64 `json:"processing_time_ms"`

	// Warning is set on valid-but-empty outcomes such as a blank image.
	Warning string `json:"warning,omitempty"`
}

// Engine is the recognition adapter. It is safe for concurrent use; the
// worker cache is its only shared mutable state.
type Engine struct {
	mu      sync.Mutex
	workers map[string]*worker
	active  string

	store   settings.Store
	log     zerolog.Logger
	timeout time.Duration
	idleTTL time.Duration
	pre     PreprocessOptions
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore wires the language-preference store. The stored preference
// seeds the active language set; SetLanguage persists through it.
func WithStore(s settings.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger installs a logger. Progress and cache events are emitted at
// debug level; correctness never depends on anyone listening.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTimeout overrides the recognition budget. Intended for tests.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithIdleTTL overrides the worker idle eviction delay. Intended for tests.
func WithIdleTTL(d time.Duration) Option {
	return func(e *Engine) { e.idleTTL = d }
}

// WithPreprocessOptions overrides the preprocessing toggles.
func WithPreprocessOptions(opts PreprocessOptions) Option {
	return func(e *Engine) { e.pre = opts }
}

// NewEngine creates an adapter. No engine work happens until the first
// Initialize or Recognize call.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		workers: make(map[string]*worker),
		active:  DefaultLanguages,
		log:     zerolog.Nop(),
		timeout: RecognizeTimeout,
		idleTTL: WorkerIdleTTL,
		pre:     DefaultPreprocessOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store != nil {
		if langs, ok := e.store.Language(); ok {
			e.active = NormalizeLanguages(langs)
		}
	}
	return e
}

// NormalizeLanguages canonicalizes a "+"-separated language set: codes
// are trimmed, empties dropped, duplicates removed and the remainder
// sorted, so "spa+eng" and "eng+spa" share one worker. An empty set
// normalizes to DefaultLanguages.
func NormalizeLanguages(langs string) string {
	seen := map[string]bool{}
	var codes []string
	for _, c := range strings.Split(langs, "+") {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		codes = append(codes, c)
	}
	if len(codes) == 0 {
		return DefaultLanguages
	}
	sort.Strings(codes)
	return strings.Join(codes, "+")
}

// ActiveLanguages returns the engine's current language set.
func (e *Engine) ActiveLanguages() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// SetLanguage updates the active language set. With persist, the
// preference is written to the settings store fire-and-forget: a storage
// failure is logged and otherwise ignored.
func (e *Engine) SetLanguage(langs string, persist bool) {
	norm := NormalizeLanguages(langs)

	e.mu.Lock()
	e.active = norm
	e.mu.Unlock()

	if persist && e.store != nil {
		if err := e.store.SetLanguage(norm); err != nil {
			e.log.Warn().Err(err).Str("languages", norm).Msg("failed to persist language preference")
		}
	}
}

// Initialize warms a worker for the given language set ("" means the
// active set). It is idempotent, and concurrent callers share a single
// in-flight initialization. Failure yields an ENGINE_UNAVAILABLE fault.
func (e *Engine) Initialize(ctx context.Context, langs string) error {
	_, err := e.worker(ctx, e.resolveLanguages(langs))
	return err
}

// Recognize runs the full recognition path on one image source:
// resolve, preprocess, blank check, then a time-bounded engine pass.
//
// An unreadable or zero-dimension source fails with INVALID_IMAGE; a
// pass over budget fails with OCR_TIMEOUT; an engine error fails with
// RECOGNITION_FAILED. Empty recognized text is a success with
// Warning set; absence of text is not an error. The context is checked
// once, between preprocessing and the engine pass; after that only the
// timeout bounds the call.
func (e *Engine) Recognize(ctx context.Context, src ImageSource, langs string) (*Result, error) {
	start := time.Now()

	img, err := src.raster()
	if err != nil {
		return nil, fault.Wrap(err, fault.InvalidImage, "preprocess", "cannot read %s", src.Label())
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fault.New(fault.InvalidImage, "preprocess", "%s has zero dimensions", src.Label())
	}

	prepared := Preprocess(img, e.pre)

	if InkCoverage(prepared) < blankInkCoverage {
		e.log.Debug().Str("source", src.Label()).Msg("skipping blank raster")
		return &Result{Warning: WarningNoText, ProcessingTimeMs: time.Since(start).Milliseconds()}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fault.Wrap(err, fault.RecognitionFailed, "recognize", "cancelled before engine pass")
	}

	w, err := e.worker(ctx, e.resolveLanguages(langs))
	if err != nil {
		return nil, err
	}

	done := make(chan passResult, 1)
	go func() { done <- w.run(prepared) }()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fault.Wrap(res.err, fault.RecognitionFailed, "recognize", "engine pass failed for %s", src.Label())
		}
		e.scheduleEviction(w)
		text := strings.TrimSpace(res.text)
		elapsed := time.Since(start).Milliseconds()
		if text == "" {
			return &Result{Warning: WarningNoText, ProcessingTimeMs: elapsed}, nil
		}
		e.log.Debug().Str("source", src.Label()).Int("chars", len(text)).Int64("ms", elapsed).Msg("recognition complete")
		return &Result{Text: text, Confidence: meanConfidence(res.boxes), ProcessingTimeMs: elapsed}, nil

	case <-timer.C:
		// The native call cannot be interrupted. Retire the worker so
		// later calls get a fresh one, and reap it once the hung pass
		// finally returns.
		e.evict(w)
		go w.close()
		return nil, fault.New(fault.OcrTimeout, "recognize", "recognition of %s exceeded %s", src.Label(), e.timeout)
	}
}

// Close terminates every cached worker. Blocks until in-flight passes
// have drained.
func (e *Engine) Close() {
	e.mu.Lock()
	workers := make([]*worker, 0, len(e.workers))
	for _, w := range e.workers {
		workers = append(workers, w)
	}
	e.workers = make(map[string]*worker)
	e.mu.Unlock()

	for _, w := range workers {
		w.close()
	}
}

func (e *Engine) resolveLanguages(langs string) string {
	if strings.TrimSpace(langs) == "" {
		return e.ActiveLanguages()
	}
	return NormalizeLanguages(langs)
}

// worker returns the cached worker for the language set, starting a
// single shared initialization when none exists yet. A worker that
// failed to initialize is dropped from the cache so a later call can
// retry.
func (e *Engine) worker(ctx context.Context, langs string) (*worker, error) {
	e.mu.Lock()
	w, ok := e.workers[langs]
	if !ok {
		w = newWorker(langs)
		e.workers[langs] = w
		e.log.Debug().Str("languages", langs).Msg("starting engine worker")
		go w.init()
	}
	e.mu.Unlock()

	select {
	case <-w.ready:
	case <-ctx.Done():
		return nil, fault.Wrap(ctx.Err(), fault.EngineUnavailable, "initialize", "initialization cancelled")
	}

	if w.err != nil {
		e.evict(w)
		return nil, fault.Wrap(w.err, fault.EngineUnavailable, "initialize", "cannot load engine for %q", langs)
	}

	e.scheduleEviction(w)
	return w, nil
}

// evict removes a worker from the cache if it is still the cached entry
// for its language set.
func (e *Engine) evict(w *worker) {
	e.mu.Lock()
	if e.workers[w.langs] == w {
		delete(e.workers, w.langs)
	}
	e.mu.Unlock()
}

// scheduleEviction (re)arms the worker's idle timer. Each use pushes
// termination out by the idle TTL.
func (e *Engine) scheduleEviction(w *worker) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(e.idleTTL, func() {
		e.evict(w)
		w.close()
		e.log.Debug().Str("languages", w.langs).Msg("idle engine worker terminated")
	})
}

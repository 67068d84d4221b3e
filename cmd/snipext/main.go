package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/snipext/internal/extract"
	"github.com/ironsheep/snipext/internal/ocr"
	"github.com/ironsheep/snipext/internal/page"
	"github.com/ironsheep/snipext/internal/raster"
	"github.com/ironsheep/snipext/internal/settings"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("snipext %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		pagePath   = flag.String("page", "", "annotated HTML snapshot to extract from")
		rasterDir  = flag.String("rasters", "", "directory holding the snapshot's image files")
		rectSpec   = flag.String("rect", "", "selection rectangle as x,y,w,h in page pixels")
		imagePath  = flag.String("image", "", "recognize a single image file instead of a snapshot")
		langs      = flag.String("langs", "", "OCR language set, e.g. eng+spa (default: stored preference)")
		configPath = flag.String("settings", "", "settings file path (default: no persistence)")
		asJSON     = flag.Bool("json", false, "print the full extraction result as JSON")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*debug {
		log = log.Level(zerolog.InfoLevel)
	}

	if *imagePath == "" && (*pagePath == "" || *rectSpec == "") {
		flag.Usage()
		os.Exit(2)
	}

	engineOpts := []ocr.Option{ocr.WithLogger(log)}
	var store settings.Store
	if *configPath != "" {
		store = settings.NewFileStore(*configPath)
		engineOpts = append(engineOpts, ocr.WithStore(store))
	}
	engine := ocr.NewEngine(engineOpts...)
	defer engine.Close()

	if *langs != "" {
		engine.SetLanguage(*langs, store != nil)
	}

	if *imagePath != "" {
		recognizeFile(log, engine, *imagePath, *asJSON)
		return
	}

	rect, err := parseRect(*rectSpec)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -rect")
	}

	f, err := os.Open(*pagePath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open page snapshot")
	}
	defer f.Close()

	var opts []page.Option
	if *rasterDir != "" {
		opts = append(opts, page.WithRasterResolver(raster.DirResolver(*rasterDir, raster.NewCache())))
		if *debug {
			logRasterDir(log, *rasterDir)
		}
	}
	snap, err := page.Parse(f, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse page snapshot")
	}

	agg := extract.New(engine, log)
	res, err := agg.Extract(context.Background(), snap, extract.SelectionRect{Page: rect, Viewport: rect})
	if err != nil {
		log.Fatal().Err(err).Msg("extraction rejected")
	}

	for _, e := range res.Errors {
		log.Warn().Str("stage", e.Stage).Str("code", string(e.Code)).Int("image", e.ImageIndex).Msg(e.Message)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatal().Err(err).Msg("cannot encode result")
		}
		return
	}
	fmt.Println(res.CombinedText)
}

// recognizeFile runs recognition over a single image file, bypassing
// snapshot extraction entirely.
func recognizeFile(log zerolog.Logger, engine *ocr.Engine, path string, asJSON bool) {
	res, err := engine.Recognize(context.Background(), ocr.FromFile(path), "")
	if err != nil {
		log.Fatal().Err(err).Str("image", path).Msg("recognition failed")
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatal().Err(err).Msg("cannot encode result")
		}
		return
	}
	if res.Warning != "" {
		log.Warn().Str("image", path).Msg(res.Warning)
		return
	}
	fmt.Println(res.Text)
}

// logRasterDir reports the dimensions and format of every raster in the
// snapshot's image directory, to help diagnose resolution failures.
func logRasterDir(log zerolog.Logger, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("cannot list raster directory")
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := raster.Stat(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Debug().Err(err).Str("file", e.Name()).Msg("unreadable raster")
			continue
		}
		log.Debug().Str("file", e.Name()).Str("format", info.Format).
			Int("width", info.Width).Int("height", info.Height).Msg("raster available")
	}
}

// parseRect parses "x,y,w,h".
func parseRect(spec string) (page.Rect, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return page.Rect{}, fmt.Errorf("want x,y,w,h, got %q", spec)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return page.Rect{}, fmt.Errorf("bad field %q: %w", p, err)
		}
		vals[i] = v
	}
	return page.Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}

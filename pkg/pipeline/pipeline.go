// Package pipeline builds the photo menu: load → place → render.
//
// The CLI, the site server and the terminal viewer all produce the menu the
// same way, so the stages live here:
//
//  1. Load: collect the items to show, from embedded demo data or from the
//     backend photo list
//  2. Place: scatter the items over the canvas with the placement generator
//  3. Render: produce SVG, JSON, PNG or PDF from the placed canvas
//
// The backend photo list and the placed canvas are cached. Placement is
// deterministic for a given seed, so a cached canvas is exactly what a fresh
// run would produce.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, client.Photos(), client.BaseURL(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  pipeline.SourceBackend,
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/denoseu/dn-house/pkg/cache"
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/canvas/placement"
	"github.com/denoseu/dn-house/pkg/errors"
)

const (
	// DefaultCount is the number of demo cards on the menu.
	DefaultCount = 12

	// DefaultSeed is the default placement seed.
	DefaultSeed = placement.DefaultSeed

	// DefaultScale is the PNG scale factor.
	DefaultScale = 1.0
)

// Item sources.
const (
	SourceDemo    = "demo"
	SourceBackend = "backend"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidSources is the set of supported item sources.
var ValidSources = map[string]bool{
	SourceDemo:    true,
	SourceBackend: true,
}

// Options configures a pipeline run.
type Options struct {
	// Load options
	Source  string `json:"source"`
	Count   int    `json:"count,omitempty"` // demo: cards to make; backend: cap, 0 = all photos
	Refresh bool   `json:"refresh,omitempty"`

	// Place options
	Width        float64 `json:"width,omitempty"`
	Height       float64 `json:"height,omitempty"`
	Seed         uint64  `json:"seed,omitempty"`
	GridFallback bool    `json:"grid_fallback,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Background string   `json:"background,omitempty"`
	ShowBounds bool     `json:"show_bounds,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Items     []placement.Item
	Canvas    canvas.Canvas
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items      int
	Placed     int
	Skipped    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the photo list came from cache
	LayoutHit bool // Whether the placed canvas came from cache
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	return errors.ValidateFormats(formats, ValidFormats)
}

// ValidateSource checks that a source is valid.
func ValidateSource(source string) error {
	if !ValidSources[source] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid source: %q (must be one of: demo, backend)", source)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLoadDefaults()
	if err := ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Count < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "count must not be negative, got %d", o.Count)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must not be negative")
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLoadDefaults sets default values for loading.
func (o *Options) SetLoadDefaults() {
	if o.Source == "" {
		o.Source = SourceDemo
	}
	if o.Source == SourceDemo && o.Count == 0 {
		o.Count = DefaultCount
	}
	o.setLogger()
}

// SetLayoutDefaults sets default values for placement.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = placement.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = placement.DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	o.setLogger()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PlacementOptions returns the generator options for this run.
func (o *Options) PlacementOptions() placement.Options {
	p := placement.DefaultOptions()
	p.Width = o.Width
	p.Height = o.Height
	p.Seed = o.Seed
	p.GridFallback = o.GridFallback
	return p
}

// CanvasKeyOpts returns cache key options for the placed canvas.
func (o *Options) CanvasKeyOpts() cache.CanvasKeyOpts {
	return cache.CanvasKeyOpts{
		Source: o.Source,
		Count:  o.Count,
		Width:  o.Width,
		Height: o.Height,
		Seed:   o.Seed,
		Grid:   o.GridFallback,
	}
}

// String summarizes the options for logs.
func (o *Options) String() string {
	return fmt.Sprintf("source=%s count=%d size=%.0fx%.0f seed=%d", o.Source, o.Count, o.Width, o.Height, o.Seed)
}

// Package viewport implements the pan/zoom transform used to explore a canvas
// that is larger than the screen.
//
// A [Transform] maps canvas coordinates to viewport (screen) coordinates:
//
//	screen = canvas*Scale + Translate
//
// The [Controller] owns one transform and keeps two invariants after every
// operation:
//
//   - Scale stays within [Config.MinZoom, Config.MaxZoom].
//   - On each axis Translate stays within [view - content*Scale, 0], so the
//     canvas cannot be dragged to reveal empty space beyond its edges. When
//     the scaled canvas is smaller than the viewport on an axis that range is
//     empty, and the axis is pinned to the centered value instead.
//
// Every input modality (drag, wheel, pinch, keys) funnels through
// [Controller.Pan] and [Controller.ZoomAt]; see [Gestures].
//
// A Controller is not safe for concurrent use. Callers drive it from a single
// event loop.
package viewport

import (
	"math"

	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/errors"
)

// Defaults for [Config].
const (
	DefaultMinZoom    = 0.3
	DefaultMaxZoom    = 3.0
	DefaultFitPadding = 0.9
	DefaultZoomStep   = 1.1
)

// Transform is the canvas-to-viewport mapping.
type Transform struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
}

// Config describes the viewport and the canvas it shows.
type Config struct {
	Viewport canvas.Size
	Canvas   canvas.Size

	MinZoom float64
	MaxZoom float64

	// FitPadding shrinks the fitted scale so the canvas does not touch the
	// viewport edges.
	FitPadding float64

	// ZoomStep is the scale factor applied per wheel notch.
	ZoomStep float64
}

func (c *Config) setDefaults() {
	if c.MinZoom == 0 {
		c.MinZoom = DefaultMinZoom
	}
	if c.MaxZoom == 0 {
		c.MaxZoom = DefaultMaxZoom
	}
	if c.FitPadding == 0 {
		c.FitPadding = DefaultFitPadding
	}
	if c.ZoomStep == 0 {
		c.ZoomStep = DefaultZoomStep
	}
}

// Validate reports a configuration that cannot produce a usable transform.
func (c Config) Validate() error {
	switch {
	case c.Viewport.W <= 0 || c.Viewport.H <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "viewport size must be positive, got %vx%v", c.Viewport.W, c.Viewport.H)
	case c.Canvas.W <= 0 || c.Canvas.H <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must be positive, got %vx%v", c.Canvas.W, c.Canvas.H)
	case c.MinZoom <= 0 || c.MaxZoom < c.MinZoom:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid zoom range [%v, %v]", c.MinZoom, c.MaxZoom)
	case c.FitPadding <= 0 || c.FitPadding > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "fit padding must be in (0, 1], got %v", c.FitPadding)
	case c.ZoomStep <= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "zoom step must be greater than 1, got %v", c.ZoomStep)
	}
	return nil
}

// Controller holds the current transform of one viewport.
type Controller struct {
	cfg Config
	t   Transform
}

// New returns a controller showing the canvas centered at scale 1 (clamped to
// the zoom range). Zero zoom fields take their defaults.
func New(cfg Config) (*Controller, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{cfg: cfg}
	c.ResetToCentered()
	return c, nil
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform { return c.t }

// Config returns the controller configuration with defaults applied.
func (c *Controller) Config() Config { return c.cfg }

// Pan sets the translation to (x, y) and clamps it.
func (c *Controller) Pan(x, y float64) {
	c.t.TranslateX = c.clampAxis(x, c.cfg.Viewport.W, c.cfg.Canvas.W)
	c.t.TranslateY = c.clampAxis(y, c.cfg.Viewport.H, c.cfg.Canvas.H)
}

// PanBy moves the translation by (dx, dy).
func (c *Controller) PanBy(dx, dy float64) {
	c.Pan(c.t.TranslateX+dx, c.t.TranslateY+dy)
}

// ZoomAt changes the scale while keeping the canvas point under anchor
// (in viewport coordinates) fixed on screen, then clamps the translation.
func (c *Controller) ZoomAt(anchor canvas.Point, scale float64) {
	p := c.ScreenToCanvas(anchor)
	c.t.Scale = c.clampScale(scale)
	c.Pan(anchor.X-p.X*c.t.Scale, anchor.Y-p.Y*c.t.Scale)
}

// ZoomBy multiplies the scale by factor around anchor.
func (c *Controller) ZoomBy(anchor canvas.Point, factor float64) {
	c.ZoomAt(anchor, c.t.Scale*factor)
}

// ResetToCentered shows the canvas at scale 1 with its center on the
// viewport center.
func (c *Controller) ResetToCentered() {
	c.t.Scale = c.clampScale(1)
	c.center()
}

// FitToViewport scales the canvas to fit the viewport, shrunk by the fit
// padding and clamped to the zoom range, and centers it.
func (c *Controller) FitToViewport() {
	v, cv := c.cfg.Viewport, c.cfg.Canvas
	c.t.Scale = c.clampScale(min(v.W/cv.W, v.H/cv.H) * c.cfg.FitPadding)
	c.center()
}

// Resize changes the viewport size and re-clamps the current translation.
// Non-positive sizes are ignored.
func (c *Controller) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	c.cfg.Viewport = canvas.Size{W: w, H: h}
	c.Pan(c.t.TranslateX, c.t.TranslateY)
}

// ScreenToCanvas converts a viewport point to canvas coordinates.
func (c *Controller) ScreenToCanvas(p canvas.Point) canvas.Point {
	return canvas.Point{
		X: (p.X - c.t.TranslateX) / c.t.Scale,
		Y: (p.Y - c.t.TranslateY) / c.t.Scale,
	}
}

// CanvasToScreen converts a canvas point to viewport coordinates.
func (c *Controller) CanvasToScreen(p canvas.Point) canvas.Point {
	return canvas.Point{
		X: p.X*c.t.Scale + c.t.TranslateX,
		Y: p.Y*c.t.Scale + c.t.TranslateY,
	}
}

// VisibleRect returns the canvas-space box currently shown in the viewport.
func (c *Controller) VisibleRect() canvas.Box {
	tl := c.ScreenToCanvas(canvas.Point{})
	br := c.ScreenToCanvas(canvas.Point{X: c.cfg.Viewport.W, Y: c.cfg.Viewport.H})
	return canvas.Box{
		CX: (tl.X + br.X) / 2,
		CY: (tl.Y + br.Y) / 2,
		W:  br.X - tl.X,
		H:  br.Y - tl.Y,
	}
}

// Center returns the viewport center in viewport coordinates.
func (c *Controller) Center() canvas.Point {
	return canvas.Point{X: c.cfg.Viewport.W / 2, Y: c.cfg.Viewport.H / 2}
}

func (c *Controller) center() {
	v, cv, s := c.cfg.Viewport, c.cfg.Canvas, c.t.Scale
	c.Pan((v.W-cv.W*s)/2, (v.H-cv.H*s)/2)
}

func (c *Controller) clampScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return c.t.Scale
	}
	return min(max(s, c.cfg.MinZoom), c.cfg.MaxZoom)
}

// clampAxis coerces t into [view - content*scale, 0]. An empty range pins the
// axis to the centered value.
func (c *Controller) clampAxis(t, view, content float64) float64 {
	lo := view - content*c.t.Scale
	if lo > 0 {
		return lo / 2
	}
	return min(max(t, lo), 0)
}

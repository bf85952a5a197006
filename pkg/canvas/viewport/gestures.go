package viewport

import "github.com/denoseu/dn-house/pkg/canvas"

// Gestures turns raw pointer events into controller updates. Drag, wheel and
// pinch all end in [Controller.Pan] or [Controller.ZoomAt], so clamping and
// anchoring behave the same for every input device.
type Gestures struct {
	c *Controller

	dragging  bool
	dragStart canvas.Point
	dragFrom  Transform

	pinching   bool
	pinchDist  float64
	pinchScale float64
}

// NewGestures returns a gesture tracker driving c.
func NewGestures(c *Controller) *Gestures {
	return &Gestures{c: c}
}

// Dragging reports whether a drag is in progress.
func (g *Gestures) Dragging() bool { return g.dragging }

// Pinching reports whether a pinch is in progress.
func (g *Gestures) Pinching() bool { return g.pinching }

// DragStart records the pointer position and the transform at press time.
func (g *Gestures) DragStart(p canvas.Point) {
	g.dragging = true
	g.dragStart = p
	g.dragFrom = g.c.Transform()
}

// DragMove pans by the pointer's offset from the drag start. It is a no-op
// without a preceding DragStart.
func (g *Gestures) DragMove(p canvas.Point) {
	if !g.dragging {
		return
	}
	g.c.Pan(g.dragFrom.TranslateX+p.X-g.dragStart.X, g.dragFrom.TranslateY+p.Y-g.dragStart.Y)
}

// DragEnd finishes the drag.
func (g *Gestures) DragEnd() { g.dragging = false }

// Wheel zooms one step at anchor. Negative deltaY (wheel up) zooms in.
func (g *Gestures) Wheel(anchor canvas.Point, deltaY float64) {
	step := g.c.cfg.ZoomStep
	switch {
	case deltaY < 0:
		g.c.ZoomBy(anchor, step)
	case deltaY > 0:
		g.c.ZoomBy(anchor, 1/step)
	}
}

// PinchStart records the finger distance and scale. Coincident fingers do
// not start a pinch.
func (g *Gestures) PinchStart(p1, p2 canvas.Point) {
	d := p1.Dist(p2)
	if d == 0 {
		return
	}
	g.dragging = false
	g.pinching = true
	g.pinchDist = d
	g.pinchScale = g.c.Transform().Scale
}

// PinchMove zooms at the finger midpoint by the ratio of the current finger
// distance to the starting one.
func (g *Gestures) PinchMove(p1, p2 canvas.Point) {
	if !g.pinching {
		return
	}
	g.c.ZoomAt(p1.Mid(p2), g.pinchScale*p1.Dist(p2)/g.pinchDist)
}

// PinchEnd finishes the pinch.
func (g *Gestures) PinchEnd() { g.pinching = false }

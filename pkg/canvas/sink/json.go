package sink

import (
	"encoding/json"

	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/canvas/viewport"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	seed      uint64
	hasSeed   bool
	source    string
	transform *viewport.Transform
}

// WithJSONSeed records the placement seed so the layout can be regenerated.
func WithJSONSeed(seed uint64) JSONOption {
	return func(r *jsonRenderer) { r.seed, r.hasSeed = seed, true }
}

// WithJSONSource records where the cards came from ("demo" or "backend").
func WithJSONSource(s string) JSONOption { return func(r *jsonRenderer) { r.source = s } }

// WithJSONTransform includes the viewport transform the canvas was shown with.
func WithJSONTransform(t viewport.Transform) JSONOption {
	return func(r *jsonRenderer) { r.transform = &t }
}

type jsonOutput struct {
	Width     float64             `json:"width"`
	Height    float64             `json:"height"`
	Requested int                 `json:"requested"`
	Skipped   int                 `json:"skipped"`
	Source    string              `json:"source,omitempty"`
	Seed      *uint64             `json:"seed,omitempty"`
	Transform *viewport.Transform `json:"transform,omitempty"`
	Cards     []jsonCard          `json:"cards"`
}

type jsonCard struct {
	canvas.Card
	Bounds jsonBox `json:"bounds"`
}

type jsonBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON serializes c with each card's rotated bounding box.
func RenderJSON(c canvas.Canvas, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:     c.Width,
		Height:    c.Height,
		Requested: c.Requested,
		Skipped:   c.Skipped(),
		Source:    r.source,
		Transform: r.transform,
		Cards:     make([]jsonCard, 0, len(c.Cards)),
	}
	if r.hasSeed {
		out.Seed = &r.seed
	}
	for _, card := range c.Cards {
		b := card.Bounds()
		out.Cards = append(out.Cards, jsonCard{
			Card:   card,
			Bounds: jsonBox{X: b.Left(), Y: b.Top(), Width: b.W, Height: b.H},
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// ReadJSON parses output of [RenderJSON] back into a canvas.
func ReadJSON(data []byte) (canvas.Canvas, error) {
	var in jsonOutput
	if err := json.Unmarshal(data, &in); err != nil {
		return canvas.Canvas{}, err
	}
	c := canvas.Canvas{
		Width:     in.Width,
		Height:    in.Height,
		Requested: in.Requested,
		Cards:     make([]canvas.Card, 0, len(in.Cards)),
	}
	for _, jc := range in.Cards {
		c.Cards = append(c.Cards, jc.Card)
	}
	return c, nil
}

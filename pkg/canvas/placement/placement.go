// Package placement scatters cards over a canvas without overlap.
//
// [Generate] uses rejection sampling: for each requested card it draws a
// random tilt and a random center inside the padded canvas, and keeps the
// first sample whose rotated bounding box does not conflict with any card
// already placed (see [canvas.Conflicts]). After [Options.MaxAttempts]
// rejected samples the card is skipped, so a crowded canvas yields fewer
// cards than requested. That is the expected outcome, not an error.
//
// The generator is deterministic for a given [Options.Seed] and input, which
// lets the pipeline cache placed canvases.
package placement

import (
	"math/rand/v2"

	"github.com/denoseu/dn-house/pkg/canvas"
)

// Defaults for [Options].
const (
	DefaultWidth       = 3500.0
	DefaultHeight      = 3000.0
	DefaultPadding     = 100.0
	DefaultBuffer      = 20.0
	DefaultMaxAttempts = 200
	DefaultMaxRotation = 20.0
	DefaultSeed        = uint64(42)
)

// Item is one card to place. A zero Kind lets the generator pick one.
type Item struct {
	ID      string
	Kind    canvas.Kind
	Image   string
	Caption string
}

// Options configures [Generate].
type Options struct {
	Width  float64
	Height float64

	// Sizes maps each kind to its unrotated frame size.
	Sizes canvas.Sizes

	// Padding keeps every rotated card this far from the canvas edges.
	Padding float64

	// Buffer relaxes the separation test: neighbours may overlap by up to
	// Buffer pixels on each axis.
	Buffer float64

	// MaxAttempts caps the samples drawn per card.
	MaxAttempts int

	// MaxRotation bounds the tilt in degrees; tilts are drawn from
	// [-MaxRotation, +MaxRotation].
	MaxRotation float64

	Seed uint64

	// GridFallback places cards that ran out of attempts on the first free
	// cell of a regular grid, untilted. Cards with no free cell are still
	// skipped.
	GridFallback bool
}

// DefaultOptions returns the options used by the menu page.
func DefaultOptions() Options {
	return Options{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Sizes:       canvas.DefaultSizes,
		Padding:     DefaultPadding,
		Buffer:      DefaultBuffer,
		MaxAttempts: DefaultMaxAttempts,
		MaxRotation: DefaultMaxRotation,
		Seed:        DefaultSeed,
	}
}

func (o *Options) setDefaults() {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if len(o.Sizes) == 0 {
		o.Sizes = d.Sizes
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	if o.MaxRotation < 0 {
		o.MaxRotation = -o.MaxRotation
	}
}

// NewRand returns the generator's RNG for seed. Callers that need to draw
// related randomness (demo captions, kinds) share it to stay reproducible.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Generate places items on a canvas. The result holds at most len(items)
// cards, each stamped with its 1-based input position. Randomly placed cards
// keep input order; grid fallback cards follow them.
func Generate(items []Item, opts Options) canvas.Canvas {
	return GenerateWithRand(items, opts, NewRand(opts.Seed))
}

// GenerateWithRand is [Generate] with a caller-supplied RNG.
func GenerateWithRand(items []Item, opts Options, rng *rand.Rand) canvas.Canvas {
	opts.setDefaults()

	out := canvas.Canvas{
		Width:     opts.Width,
		Height:    opts.Height,
		Requested: len(items),
		Cards:     make([]canvas.Card, 0, len(items)),
	}
	placed := make([]canvas.Box, 0, len(items))

	var skipped []canvas.Card
	for i, it := range items {
		card := newCard(it, i, opts, rng)
		if box, ok := sample(&card, placed, opts, rng); ok {
			out.Cards = append(out.Cards, card)
			placed = append(placed, box)
			continue
		}
		skipped = append(skipped, card)
	}

	if opts.GridFallback && len(skipped) > 0 {
		out.Cards = fillGrid(out.Cards, placed, skipped, opts)
	}
	return out
}

func newCard(it Item, idx int, opts Options, rng *rand.Rand) canvas.Card {
	kind := it.Kind
	if !kind.Valid() {
		kind = canvas.Kinds[rng.IntN(len(canvas.Kinds))]
	}
	size := opts.Sizes.Of(kind)
	return canvas.Card{
		ID:      it.ID,
		Kind:    kind,
		Image:   it.Image,
		Caption: it.Caption,
		Stamp:   idx + 1,
		Width:   size.W,
		Height:  size.H,
	}
}

// sample draws up to MaxAttempts candidate placements for card and commits
// the first one that keeps the separation test against every placed box.
func sample(card *canvas.Card, placed []canvas.Box, opts Options, rng *rand.Rand) (canvas.Box, bool) {
	for range opts.MaxAttempts {
		rot := (rng.Float64()*2 - 1) * opts.MaxRotation
		bw, bh := canvas.RotatedExtent(card.Width, card.Height, rot)
		box := canvas.Box{
			CX: uniform(rng, opts.Padding+bw/2, opts.Width-opts.Padding-bw/2),
			CY: uniform(rng, opts.Padding+bh/2, opts.Height-opts.Padding-bh/2),
			W:  bw,
			H:  bh,
		}
		if fits(box, placed, opts.Buffer) {
			card.X, card.Y, card.Rotation = box.CX, box.CY, rot
			return box, true
		}
	}
	return canvas.Box{}, false
}

// uniform draws from [lo, hi]. A card larger than the padded canvas has an
// empty range and is centered instead.
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return (lo + hi) / 2
	}
	return lo + rng.Float64()*(hi-lo)
}

func fits(box canvas.Box, placed []canvas.Box, buffer float64) bool {
	for _, p := range placed {
		if canvas.Conflicts(box, p, buffer) {
			return false
		}
	}
	return true
}

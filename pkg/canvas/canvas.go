// Package canvas defines the cards placed on the photo menu and the geometry
// used to keep them apart.
//
// The menu is a large virtual area (a [Canvas]) onto which postcards and
// polaroids ([Card]) are scattered with a slight random tilt. Coordinates are
// in canvas pixels with the origin at the top-left corner and Y growing
// downwards. A card's position is its center.
//
// Overlap is judged on the axis-aligned bounding box of the rotated card
// ([Card.Bounds]), not on the rotated polygon itself. Two boxes conflict when
// their centers are closer than their combined half-extents minus a buffer on
// both axes at once ([Conflicts]). This is an approximation tuned for looks,
// not a packing guarantee.
//
// Subpackages build on these types:
//   - placement: random non-overlapping layout generator
//   - viewport: pan/zoom controller for viewing a canvas
//   - sink: SVG and JSON renderers
//   - samples: embedded demo data
package canvas

import (
	"fmt"
	"math"
)

// Kind is the visual presentation of a card.
type Kind string

const (
	KindPostcard Kind = "postcard"
	KindPolaroid Kind = "polaroid"
)

// DefaultKind is used when an upload does not choose a style.
const DefaultKind = KindPostcard

// Kinds lists every valid kind in a stable order.
var Kinds = []Kind{KindPostcard, KindPolaroid}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindPostcard || k == KindPolaroid
}

// ParseKind converts s to a Kind. The empty string yields [DefaultKind].
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return DefaultKind, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown card kind %q", s)
	}
	return k, nil
}

// Size is a width/height pair in canvas pixels.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Sizes maps each kind to its unrotated frame size.
type Sizes map[Kind]Size

// DefaultSizes are the frame sizes of the postcard and polaroid artwork.
var DefaultSizes = Sizes{
	KindPostcard: {W: 500, H: 350},
	KindPolaroid: {W: 300, H: 350},
}

// Of returns the size for k, falling back to the postcard size.
func (s Sizes) Of(k Kind) Size {
	if sz, ok := s[k]; ok {
		return sz
	}
	return DefaultSizes[KindPostcard]
}

// Point is a position in either canvas or screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Box is an axis-aligned rectangle described by its center and size.
type Box struct {
	CX, CY float64
	W, H   float64
}

// Left returns the left edge.
func (b Box) Left() float64 { return b.CX - b.W/2 }

// Right returns the right edge.
func (b Box) Right() float64 { return b.CX + b.W/2 }

// Top returns the top edge.
func (b Box) Top() float64 { return b.CY - b.H/2 }

// Bottom returns the bottom edge.
func (b Box) Bottom() float64 { return b.CY + b.H/2 }

// Contains reports whether p lies inside b (edges included).
func (b Box) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() && p.Y >= b.Top() && p.Y <= b.Bottom()
}

// RotatedExtent returns the size of the axis-aligned box enclosing a w×h
// rectangle rotated by deg degrees.
func RotatedExtent(w, h, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	return w*c + h*s, w*s + h*c
}

// Conflicts reports whether a and b violate the minimum-separation test:
// on both axes their centers are closer than the combined half-extents
// minus buffer.
func Conflicts(a, b Box, buffer float64) bool {
	dx := math.Abs(a.CX - b.CX)
	dy := math.Abs(a.CY - b.CY)
	return dx < (a.W+b.W)/2-buffer && dy < (a.H+b.H)/2-buffer
}

// Card is a photo placed on the canvas.
type Card struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"kind"`
	Image    string  `json:"image"`
	Caption  string  `json:"caption"`
	Stamp    int     `json:"stamp"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Center returns the card position.
func (c Card) Center() Point { return Point{X: c.X, Y: c.Y} }

// Bounds returns the axis-aligned box of the rotated card.
func (c Card) Bounds() Box {
	w, h := RotatedExtent(c.Width, c.Height, c.Rotation)
	return Box{CX: c.X, CY: c.Y, W: w, H: h}
}

// Canvas is the virtual area holding the placed cards.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Cards  []Card  `json:"cards"`

	// Requested is how many cards the generator was asked for. It is larger
	// than len(Cards) when some cards found no free spot.
	Requested int `json:"requested"`
}

// Size returns the canvas dimensions.
func (c Canvas) Size() Size { return Size{W: c.Width, H: c.Height} }

// Skipped returns how many requested cards were not placed.
func (c Canvas) Skipped() int { return max(c.Requested-len(c.Cards), 0) }

// Conflicts returns the index pairs of cards violating the separation test.
func (c Canvas) Conflicts(buffer float64) [][2]int {
	var out [][2]int
	for i := range c.Cards {
		bi := c.Cards[i].Bounds()
		for j := i + 1; j < len(c.Cards); j++ {
			if Conflicts(bi, c.Cards[j].Bounds(), buffer) {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// CardAt returns the topmost card whose rotated bounds contain p.
// Later cards are drawn on top, so the search runs backwards.
func (c Canvas) CardAt(p Point) (Card, bool) {
	for i := len(c.Cards) - 1; i >= 0; i-- {
		if c.Cards[i].Bounds().Contains(p) {
			return c.Cards[i], true
		}
	}
	return Card{}, false
}

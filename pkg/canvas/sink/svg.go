package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/canvas/viewport"
)

const cardCSS = `
    .card { cursor: pointer; }
    .card .frame { fill: #fffdf7; stroke: #d8cfc0; stroke-width: 2; }
    .card .photo { fill: #e9e1d3; }
    .card .caption { font-family: 'Patrick Hand', 'Comic Sans MS', cursive; font-size: 22px; fill: #3b3024; }
    .card .stamp { fill: #f6e7d8; stroke: #c27c5b; stroke-dasharray: 4 3; }
    .card .stamp-text { font-family: Georgia, serif; font-size: 20px; fill: #c27c5b; }
    .card:hover .frame { stroke: #c27c5b; stroke-width: 4; }`

// Polaroid and postcard frame insets, in canvas pixels.
const (
	framePad         = 16
	polaroidCaptionH = 70
	stampW, stampH   = 70, 84
	captionMaxChars  = 28
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	transform  *viewport.Transform
	background string
	bounds     bool
	title      string
	width      float64
	height     float64
}

// WithTransform renders the canvas as seen through a viewport transform. The
// SVG then takes the viewport size set by [WithSize].
func WithTransform(t viewport.Transform) SVGOption {
	return func(r *svgRenderer) { r.transform = &t }
}

// WithSize overrides the output width and height.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithBounds outlines each card's rotated bounding box, which is what the
// placement generator keeps apart.
func WithBounds() SVGOption { return func(r *svgRenderer) { r.bounds = true } }

// WithTitle sets the SVG <title>.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG draws every card of c in placement order, so later cards sit on
// top of earlier ones.
func RenderSVG(c canvas.Canvas, opts ...SVGOption) []byte {
	r := svgRenderer{width: c.Width, height: c.Height}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cardCSS)

	if r.transform != nil {
		t := r.transform
		fmt.Fprintf(&buf, `  <g transform="translate(%.2f %.2f) scale(%.4f)">`+"\n", t.TranslateX, t.TranslateY, t.Scale)
	} else {
		buf.WriteString("  <g>\n")
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect class="canvas" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			c.Width, c.Height, escapeXML(r.background))
	}

	for _, card := range c.Cards {
		renderCard(&buf, card)
	}
	if r.bounds {
		for _, card := range c.Cards {
			renderBounds(&buf, card.Bounds())
		}
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderCard(buf *bytes.Buffer, c canvas.Card) {
	fmt.Fprintf(buf, `  <g class="card %s" id="card-%s" transform="translate(%.2f %.2f) rotate(%.2f)">`+"\n",
		c.Kind, escapeXML(c.ID), c.X, c.Y, c.Rotation)
	x, y := -c.Width/2, -c.Height/2
	fmt.Fprintf(buf, `    <rect class="frame" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4"/>`+"\n",
		x, y, c.Width, c.Height)

	switch c.Kind {
	case canvas.KindPolaroid:
		pw, ph := c.Width-2*framePad, c.Height-framePad-polaroidCaptionH
		renderPhoto(buf, c.Image, x+framePad, y+framePad, pw, ph)
		renderCaption(buf, c.Caption, 0, c.Height/2-polaroidCaptionH/2, "middle")
	default:
		pw, ph := c.Width/2-framePad, c.Height-2*framePad
		renderPhoto(buf, c.Image, x+framePad, y+framePad, pw, ph)
		sx, sy := c.Width/2-framePad-stampW, y+framePad
		fmt.Fprintf(buf, `    <rect class="stamp" x="%.1f" y="%.1f" width="%d" height="%d"/>`+"\n", sx, sy, stampW, stampH)
		fmt.Fprintf(buf, `    <text class="stamp-text" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle">%d</text>`+"\n",
			sx+stampW/2.0, sy+stampH/2.0, c.Stamp)
		renderCaption(buf, c.Caption, c.Width/4, 0, "middle")
	}
	buf.WriteString("  </g>\n")
}

func renderPhoto(buf *bytes.Buffer, href string, x, y, w, h float64) {
	if href == "" {
		fmt.Fprintf(buf, `    <rect class="photo" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n", x, y, w, h)
		return
	}
	fmt.Fprintf(buf, `    <image class="photo" href="%s" xlink:href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
		escapeXML(href), escapeXML(href), x, y, w, h)
}

func renderCaption(buf *bytes.Buffer, caption string, x, y float64, anchor string) {
	if caption == "" {
		return
	}
	fmt.Fprintf(buf, `    <text class="caption" x="%.1f" y="%.1f" text-anchor="%s" dominant-baseline="middle">%s</text>`+"\n",
		x, y, anchor, escapeXML(truncate(caption, captionMaxChars)))
}

func renderBounds(buf *bytes.Buffer, b canvas.Box) {
	fmt.Fprintf(buf, `  <rect class="bounds" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#e05a47" stroke-dasharray="6 4"/>`+"\n",
		b.Left(), b.Top(), b.W, b.H)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Package sink renders a placed [canvas.Canvas] to output formats.
//
//   - SVG: the postcard and polaroid frames with captions and stamps
//   - JSON: the raw placement for external viewers
//   - PNG and PDF: SVG converted through rsvg-convert
//
// Basic usage:
//
//	svg := sink.RenderSVG(c,
//	    sink.WithTransform(ctrl.Transform()),
//	    sink.WithBackground("#fdf6ec"),
//	)
//
// PNG and PDF need librsvg on PATH: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux).
package sink

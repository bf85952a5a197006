package pipeline

import (
	"context"
	"fmt"

	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/canvas/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, c canvas.Canvas, opts Options) (map[string][]byte, error) {
	svgOpts := svgOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(c, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(c, sink.WithJSONSeed(opts.Seed), sink.WithJSONSource(opts.Source))
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, c, opts.Scale, svgOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, c, svgOpts...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithTitle("dn-house menu")}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.ShowBounds {
		svgOpts = append(svgOpts, sink.WithBounds())
	}
	return svgOpts
}

package sink

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/errors"
)

// ConverterBinary is the librsvg command used for raster and PDF output.
const ConverterBinary = "rsvg-convert"

// RenderPNG renders c as PNG at the given scale (1 when scale <= 0).
func RenderPNG(ctx context.Context, c canvas.Canvas, scale float64, opts ...SVGOption) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, RenderSVG(c, opts...), "png", "-z", strconv.FormatFloat(scale, 'f', -1, 64))
}

// RenderPDF renders c as a single-page PDF.
func RenderPDF(ctx context.Context, c canvas.Canvas, opts ...SVGOption) ([]byte, error) {
	return convert(ctx, RenderSVG(c, opts...), "pdf")
}

// ConverterAvailable reports whether rsvg-convert is on PATH.
func ConverterAvailable() bool {
	_, err := exec.LookPath(ConverterBinary)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	if !ConverterAvailable() {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s output requires %s (install librsvg)", format, ConverterBinary)
	}
	args := append([]string{"-f", format}, extra...)
	cmd := exec.CommandContext(ctx, ConverterBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", ConverterBinary, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}

package pipeline

import (
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/canvas/placement"
)

// Place runs the placement generator over items.
func Place(items []placement.Item, opts Options) canvas.Canvas {
	return placement.Generate(items, opts.PlacementOptions())
}

package placement

import "github.com/denoseu/dn-house/pkg/canvas"

// fillGrid places skipped cards, untilted, on the first grid cell that passes
// the separation test. The grid cell is the largest frame size so any kind
// fits any cell.
func fillGrid(cards []canvas.Card, placed []canvas.Box, skipped []canvas.Card, opts Options) []canvas.Card {
	var cell canvas.Size
	for _, sz := range opts.Sizes {
		cell.W = max(cell.W, sz.W)
		cell.H = max(cell.H, sz.H)
	}
	centers := gridCenters(cell, opts)

	for _, card := range skipped {
		for _, c := range centers {
			box := canvas.Box{CX: c.X, CY: c.Y, W: card.Width, H: card.Height}
			if !fits(box, placed, opts.Buffer) {
				continue
			}
			card.X, card.Y, card.Rotation = c.X, c.Y, 0
			cards = append(cards, card)
			placed = append(placed, box)
			break
		}
	}
	return cards
}

func gridCenters(cell canvas.Size, opts Options) []canvas.Point {
	if cell.W <= 0 || cell.H <= 0 {
		return nil
	}
	var pts []canvas.Point
	for y := opts.Padding + cell.H/2; y <= opts.Height-opts.Padding-cell.H/2; y += cell.H {
		for x := opts.Padding + cell.W/2; x <= opts.Width-opts.Padding-cell.W/2; x += cell.W {
			pts = append(pts, canvas.Point{X: x, Y: y})
		}
	}
	return pts
}

package pipeline

import (
	"context"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/canvas/placement"
	"github.com/denoseu/dn-house/pkg/canvas/samples"
)

// PhotoSource lists the photos stored in the backend.
type PhotoSource interface {
	List(ctx context.Context) ([]backend.Photo, error)
}

// demoSalt separates the demo-data RNG stream from the placement stream so
// changing the caption pool does not move the cards.
const demoSalt = 0x5eed

// DemoItems returns opts.Count demo items for opts.Seed.
func DemoItems(opts Options) ([]placement.Item, error) {
	return samples.DemoItems(opts.Count, placement.NewRand(opts.Seed^demoSalt))
}

// PhotoItems maps backend photos one-to-one onto placement items, keeping at
// most count of them (all when count is 0). A photo without a valid type
// gets a random kind from the generator.
func PhotoItems(photos []backend.Photo, count int) []placement.Item {
	if count > 0 && len(photos) > count {
		photos = photos[:count]
	}
	items := make([]placement.Item, 0, len(photos))
	for _, p := range photos {
		it := placement.Item{ID: p.ID, Image: p.URL, Caption: p.Caption}
		if p.Type.Valid() {
			it.Kind = p.Type
		}
		items = append(items, it)
	}
	return items
}

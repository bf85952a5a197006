// Package samples provides the demo cards shown on the photo menu when no
// backend photos are available.
//
// The captions and images live in an embedded TOML file. Captions are drawn
// without replacement from a shuffled pool; when the pool runs out it is
// reshuffled, so a large menu repeats captions only after using all of them.
package samples

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/canvas/placement"
)

//go:embed samples.toml
var samplesTOML []byte

// idSpace namespaces demo card IDs so they never collide with backend IDs.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://dn-house/demo"))

// Pool is the set of demo captions and images.
type Pool struct {
	Images   []string            `toml:"images"`
	Captions []string            `toml:"captions"`
	Kinds    map[canvas.Kind]int `toml:"kinds"`
}

var (
	defaultPool     Pool
	defaultPoolErr  error
	defaultPoolOnce sync.Once
)

// Default returns the embedded pool. It is parsed once.
func Default() (Pool, error) {
	defaultPoolOnce.Do(func() {
		defaultPool, defaultPoolErr = Parse(samplesTOML)
	})
	return defaultPool, defaultPoolErr
}

// Parse decodes a pool from TOML and checks it is usable.
func Parse(data []byte) (Pool, error) {
	var p Pool
	if _, err := toml.Decode(string(data), &p); err != nil {
		return Pool{}, fmt.Errorf("parse samples: %w", err)
	}
	if len(p.Captions) == 0 {
		return Pool{}, fmt.Errorf("parse samples: no captions")
	}
	for k, w := range p.Kinds {
		if !k.Valid() {
			return Pool{}, fmt.Errorf("parse samples: unknown kind %q", k)
		}
		if w < 0 {
			return Pool{}, fmt.Errorf("parse samples: negative weight for %q", k)
		}
	}
	return p, nil
}

// Items returns n demo items drawn from p with rng. Kinds are picked by the
// pool weights; with no weights the kind is left for the placement generator
// to choose. IDs are derived from rng, so the same seed yields the same IDs.
func (p Pool) Items(n int, rng *rand.Rand) []placement.Item {
	if n <= 0 {
		return nil
	}
	captions := newDeck(p.Captions, rng)
	images := newDeck(p.Images, rng)

	items := make([]placement.Item, n)
	for i := range items {
		items[i] = placement.Item{
			ID:      uuid.NewSHA1(idSpace, fmt.Appendf(nil, "%d/%d", rng.Uint64(), i)).String(),
			Kind:    p.pickKind(rng),
			Image:   images.next(),
			Caption: captions.next(),
		}
	}
	return items
}

// DemoItems is [Pool.Items] on the embedded pool.
func DemoItems(n int, rng *rand.Rand) ([]placement.Item, error) {
	p, err := Default()
	if err != nil {
		return nil, err
	}
	return p.Items(n, rng), nil
}

func (p Pool) pickKind(rng *rand.Rand) canvas.Kind {
	total := 0
	for _, k := range canvas.Kinds {
		total += p.Kinds[k]
	}
	if total == 0 {
		return ""
	}
	r := rng.IntN(total)
	for _, k := range canvas.Kinds {
		if r < p.Kinds[k] {
			return k
		}
		r -= p.Kinds[k]
	}
	return canvas.DefaultKind
}

// deck deals values in shuffled order and reshuffles once exhausted.
type deck struct {
	values []string
	pos    int
	rng    *rand.Rand
}

func newDeck(values []string, rng *rand.Rand) *deck {
	d := &deck{values: append([]string(nil), values...), rng: rng}
	d.shuffle()
	return d
}

func (d *deck) shuffle() {
	d.rng.Shuffle(len(d.values), func(i, j int) { d.values[i], d.values[j] = d.values[j], d.values[i] })
	d.pos = 0
}

func (d *deck) next() string {
	if len(d.values) == 0 {
		return ""
	}
	if d.pos == len(d.values) {
		d.shuffle()
	}
	v := d.values[d.pos]
	d.pos++
	return v
}

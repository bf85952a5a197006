package pages

import (
	"context"
	"sync"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/errors"
)

// LoadFunc produces the menu canvas, typically by fetching photos and
// running the placement generator.
type LoadFunc func(ctx context.Context) (canvas.Canvas, error)

// Ticket identifies one load. Results carrying an outdated ticket are
// dropped.
type Ticket uint64

// Menu is the photo menu. Loads may finish out of order; only the most
// recently started one is applied, and nothing is applied after Close.
type Menu struct {
	load LoadFunc

	mu      sync.Mutex
	gen     Ticket
	closed  bool
	loading bool
	canvas  canvas.Canvas
	status  Status
}

// NewMenu returns a menu that fills itself with load.
func NewMenu(load LoadFunc) *Menu {
	return &Menu{load: load}
}

// Begin starts a load and returns its ticket. Any earlier load in flight
// becomes stale.
func (m *Menu) Begin() Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.loading = true
	return m.gen
}

// Finish applies the result of the load identified by t. It returns false
// when the result was dropped because a newer load started or the menu was
// closed. On error the previous canvas is kept.
func (m *Menu) Finish(t Ticket, c canvas.Canvas, err error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || t != m.gen {
		return false
	}
	m.loading = false
	if err != nil {
		m.status = failure(errors.UserMessage(err, backend.MsgListPhotos))
		return true
	}
	m.canvas = c
	m.status = Status{}
	return true
}

// Load runs a full load synchronously.
func (m *Menu) Load(ctx context.Context) error {
	t := m.Begin()
	c, err := m.load(ctx)
	m.Finish(t, c, err)
	return err
}

// Close stops the menu from accepting results.
func (m *Menu) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.loading = false
	m.gen++
}

// Canvas returns the current canvas.
func (m *Menu) Canvas() canvas.Canvas {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canvas
}

// Status returns the feedback of the last applied load.
func (m *Menu) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Loading reports whether the newest load is still running.
func (m *Menu) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

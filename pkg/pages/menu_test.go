package pages

import (
	"context"
	"sync"
	"testing"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/errors"
)

func canvasOf(n int) canvas.Canvas {
	return canvas.Canvas{Width: 100, Height: 100, Requested: n, Cards: make([]canvas.Card, n)}
}

func TestMenuLoad(t *testing.T) {
	m := NewMenu(func(context.Context) (canvas.Canvas, error) { return canvasOf(3), nil })
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(m.Canvas().Cards) != 3 || m.Loading() {
		t.Errorf("Canvas = %+v, Loading = %v", m.Canvas(), m.Loading())
	}
}

func TestMenuStaleResultDropped(t *testing.T) {
	m := NewMenu(nil)
	first := m.Begin()
	second := m.Begin()

	if !m.Finish(second, canvasOf(2), nil) {
		t.Fatal("newest load should be applied")
	}
	if m.Finish(first, canvasOf(7), nil) {
		t.Error("stale load should be dropped")
	}
	if got := len(m.Canvas().Cards); got != 2 {
		t.Errorf("canvas has %d cards, want 2 from the newest load", got)
	}
}

func TestMenuClosedDropsResults(t *testing.T) {
	m := NewMenu(nil)
	tk := m.Begin()
	m.Close()
	if m.Finish(tk, canvasOf(4), nil) {
		t.Error("result after Close should be dropped")
	}
	if len(m.Canvas().Cards) != 0 || m.Loading() {
		t.Errorf("closed menu changed: %+v", m.Canvas())
	}
}

func TestMenuFailureKeepsCanvas(t *testing.T) {
	m := NewMenu(nil)
	m.Finish(m.Begin(), canvasOf(5), nil)

	m.Finish(m.Begin(), canvas.Canvas{}, errors.New(errors.ErrCodeNetwork, backend.MsgListPhotos))
	if len(m.Canvas().Cards) != 5 {
		t.Error("failed load should keep the previous canvas")
	}
	if s := m.Status(); !s.IsError() || s.Text != "Failed to fetch photos" {
		t.Errorf("Status = %+v", s)
	}
}

func TestMenuConcurrentLoads(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	m := NewMenu(func(ctx context.Context) (canvas.Canvas, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			<-release
		}
		return canvasOf(n), nil
	})

	done := make(chan struct{})
	go func() {
		m.Load(context.Background())
		close(done)
	}()

	// Wait until the first load is blocked inside the loader.
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n == 1 {
			break
		}
	}
	m.Load(context.Background())
	close(release)
	<-done

	if got := len(m.Canvas().Cards); got != 2 {
		t.Errorf("canvas from load %d applied, want the second load", got)
	}
}

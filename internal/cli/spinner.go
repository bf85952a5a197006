package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/denoseu/dn-house/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on w until stopped or until its context is
// cancelled. The line can be changed while it spins.
type Spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
	stopped chan struct{}

	mu      sync.Mutex
	started bool
	message string
	width   int // widest line written, for clearing
}

// newSpinner creates a spinner that stops when ctx is cancelled.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the status text shown next to the frame.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Message returns the current status text.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := frame + " " + s.message
	s.width = max(s.width, len([]rune(line)))
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop stops the animation and clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
	})
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// menuStatus shows the current menu pipeline stage on a spinner. It wraps the
// installed menu hooks so verbose logging keeps working.
type menuStatus struct {
	spin *Spinner
	next observability.MenuHooks
}

// followMenu points spin at the menu pipeline events until the returned
// function is called.
func followMenu(spin *Spinner) (restore func()) {
	prev := observability.Menu()
	observability.SetMenuHooks(&menuStatus{spin: spin, next: prev})
	return func() { observability.SetMenuHooks(prev) }
}

func (m *menuStatus) OnLoadStart(ctx context.Context, source string) {
	m.spin.SetMessage(fmt.Sprintf("Loading %s photos...", source))
	m.next.OnLoadStart(ctx, source)
}

func (m *menuStatus) OnLoadComplete(ctx context.Context, source string, items int, d time.Duration, err error) {
	if err == nil {
		m.spin.SetMessage(fmt.Sprintf("Placing %d cards...", items))
	}
	m.next.OnLoadComplete(ctx, source, items, d, err)
}

func (m *menuStatus) OnPlacement(ctx context.Context, requested, placed int, d time.Duration) {
	m.spin.SetMessage(fmt.Sprintf("Rendering %d of %d cards...", placed, requested))
	m.next.OnPlacement(ctx, requested, placed, d)
}

func (m *menuStatus) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	if err == nil {
		m.spin.SetMessage(fmt.Sprintf("Rendered %s", strings.Join(formats, ", ")))
	}
	m.next.OnRenderComplete(ctx, formats, d, err)
}

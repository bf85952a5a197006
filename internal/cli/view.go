package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/canvas/viewport"
	"github.com/denoseu/dn-house/pkg/pages"
	"github.com/denoseu/dn-house/pkg/pipeline"
)

// Screen pixels covered by one terminal cell. Cells are roughly twice as
// tall as they are wide.
const (
	cellW = 10.0
	cellH = 20.0
)

// Terminal lines used by the header and footer.
const viewChrome = 2

// Zoom range of the terminal viewer. A terminal is small next to the canvas,
// so it may zoom out further than the site.
const (
	viewMinZoom = 0.05
	viewMaxZoom = viewport.DefaultMaxZoom
)

// keyPanStep is how far one arrow key press moves, in screen pixels.
const keyPanStep = 4 * cellW

var (
	viewDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	viewErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	viewPostcardStyle = lipgloss.NewStyle().Foreground(colorYellow)
	viewPolaroidStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

// viewCommand creates the view command, an interactive terminal viewer for
// the photo menu.
func (c *CLI) viewCommand() *cobra.Command {
	var flags menuFlags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore the photo menu in the terminal",
		Long: `Explore the photo menu in the terminal.

Drag with the mouse or use the arrow keys (hjkl) to pan. Scroll or press +/-
to zoom. Press f to fit the whole menu, r to reset to 100%, n to shuffle with
the next seed and q to quit. Hovering a card shows its caption.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.menuOptions(cmd, &flags)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			m, err := newViewModel(ctx, runner, opts)
			if err != nil {
				return err
			}
			defer m.menu.Close()

			p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// canvasLoader loads a canvas for a set of options.
type canvasLoader interface {
	MenuLoader(opts pipeline.Options) pages.LoadFunc
}

// menuLoadedMsg carries the result of one menu load.
type menuLoadedMsg struct {
	ticket pages.Ticket
	canvas canvas.Canvas
	err    error
}

// viewModel is the bubbletea model of the terminal viewer.
type viewModel struct {
	ctx    context.Context
	loader canvasLoader
	opts   pipeline.Options

	menu     *pages.Menu
	ctrl     *viewport.Controller
	gestures *viewport.Gestures

	cols, rows int
	hover      string
	fitted     bool
}

func newViewModel(ctx context.Context, loader canvasLoader, opts pipeline.Options) (*viewModel, error) {
	ctrl, err := viewport.New(viewport.Config{
		Viewport: canvas.Size{W: 80 * cellW, H: (24 - viewChrome) * cellH},
		Canvas:   canvas.Size{W: opts.Width, H: opts.Height},
		MinZoom:  viewMinZoom,
		MaxZoom:  viewMaxZoom,
	})
	if err != nil {
		return nil, err
	}
	return &viewModel{
		ctx:      ctx,
		loader:   loader,
		opts:     opts,
		menu:     pages.NewMenu(loader.MenuLoader(opts)),
		ctrl:     ctrl,
		gestures: viewport.NewGestures(ctrl),
		cols:     80,
		rows:     24 - viewChrome,
	}, nil
}

func (m *viewModel) Init() tea.Cmd {
	return m.load()
}

// load starts a menu load with the current options. Results of loads that
// were superseded by a later one are dropped in Update.
func (m *viewModel) load() tea.Cmd {
	ticket := m.menu.Begin()
	load := m.loader.MenuLoader(m.opts)
	ctx := m.ctx
	return func() tea.Msg {
		c, err := load(ctx)
		return menuLoadedMsg{ticket: ticket, canvas: c, err: err}
	}
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case menuLoadedMsg:
		if m.menu.Finish(msg.ticket, msg.canvas, msg.err) && msg.err == nil && !m.fitted {
			m.ctrl.FitToViewport()
			m.fitted = true
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-viewChrome, 1)
		m.ctrl.Resize(float64(m.cols)*cellW, float64(m.rows)*cellH)
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *viewModel) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "+", "=":
		m.ctrl.ZoomBy(m.ctrl.Center(), m.ctrl.Config().ZoomStep)
	case "-", "_":
		m.ctrl.ZoomBy(m.ctrl.Center(), 1/m.ctrl.Config().ZoomStep)
	case "left", "h":
		m.ctrl.PanBy(keyPanStep, 0)
	case "right", "l":
		m.ctrl.PanBy(-keyPanStep, 0)
	case "up", "k":
		m.ctrl.PanBy(0, keyPanStep*cellH/cellW)
	case "down", "j":
		m.ctrl.PanBy(0, -keyPanStep*cellH/cellW)
	case "r":
		m.ctrl.ResetToCentered()
	case "f":
		m.ctrl.FitToViewport()
	case "n":
		m.opts.Seed++
		return m.load()
	}
	return nil
}

func (m *viewModel) handleMouse(msg tea.MouseMsg) {
	// Mouse rows count from the top of the terminal; the header takes one.
	p := canvas.Point{X: (float64(msg.X) + 0.5) * cellW, Y: (float64(msg.Y-1) + 0.5) * cellH}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.gestures.Wheel(p, -1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.gestures.Wheel(p, 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.gestures.DragStart(p)
	case msg.Action == tea.MouseActionMotion:
		m.gestures.DragMove(p)
	case msg.Action == tea.MouseActionRelease:
		m.gestures.DragEnd()
	}

	m.hover = ""
	if card, ok := m.menu.Canvas().CardAt(m.ctrl.ScreenToCanvas(p)); ok {
		m.hover = card.Caption
	}
}

func (m *viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("dn-house menu"))
	b.WriteString(viewDimStyle.Render(fmt.Sprintf("  seed %d  drag/arrows pan  scroll/+- zoom  f fit  r reset  n shuffle  q quit", m.opts.Seed)))
	b.WriteString("\n")

	b.WriteString(renderCells(m.menu.Canvas(), m.ctrl, m.cols, m.rows))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m *viewModel) statusLine() string {
	if m.menu.Loading() {
		return viewDimStyle.Render("Loading photos...")
	}
	if st := m.menu.Status(); st.IsError() {
		return viewErrorStyle.Render(st.Text)
	}
	c := m.menu.Canvas()
	t := m.ctrl.Transform()
	line := fmt.Sprintf("%d cards  zoom %.0f%%  offset %.0f,%.0f", len(c.Cards), t.Scale*100, t.TranslateX, t.TranslateY)
	if n := c.Skipped(); n > 0 {
		line += fmt.Sprintf("  %d skipped", n)
	}
	if m.hover != "" {
		line += "  " + StyleHighlight.Render(m.hover)
	}
	return viewDimStyle.Render(line)
}

// cellRect is a card's footprint in terminal cells, inclusive on all edges.
type cellRect struct {
	left, top, right, bottom int
}

// cardCells maps the card's collision box to terminal cells.
func cardCells(card canvas.Card, ctrl *viewport.Controller) cellRect {
	b := card.Bounds()
	tl := ctrl.CanvasToScreen(canvas.Point{X: b.Left(), Y: b.Top()})
	br := ctrl.CanvasToScreen(canvas.Point{X: b.Right(), Y: b.Bottom()})
	return cellRect{
		left:   int(math.Floor(tl.X / cellW)),
		top:    int(math.Floor(tl.Y / cellH)),
		right:  int(math.Ceil(br.X/cellW)) - 1,
		bottom: int(math.Ceil(br.Y/cellH)) - 1,
	}
}

// frame holds the border runes of one card kind.
type frame struct {
	h, v, tl, tr, bl, br rune
	style                lipgloss.Style
}

var frames = map[canvas.Kind]frame{
	canvas.KindPostcard: {'─', '│', '┌', '┐', '└', '┘', viewPostcardStyle},
	canvas.KindPolaroid: {'═', '║', '╔', '╗', '╚', '╝', viewPolaroidStyle},
}

// renderCells draws the visible part of c as a cols×rows grid. Cards are
// painted in order, so later cards cover earlier ones as on the site.
func renderCells(c canvas.Canvas, ctrl *viewport.Controller, cols, rows int) string {
	grid := make([][]rune, rows)
	owner := make([][]int, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cols))
		owner[y] = make([]int, cols)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	put := func(x, y int, r rune, card int) {
		if x < 0 || y < 0 || x >= cols || y >= rows {
			return
		}
		grid[y][x] = r
		owner[y][x] = card
	}

	for i, card := range c.Cards {
		r := cardCells(card, ctrl)
		if r.right < 0 || r.bottom < 0 || r.left >= cols || r.top >= rows {
			continue
		}
		f, ok := frames[card.Kind]
		if !ok {
			f = frames[canvas.DefaultKind]
		}
		for y := r.top; y <= r.bottom; y++ {
			for x := r.left; x <= r.right; x++ {
				ch := ' '
				switch {
				case y == r.top && x == r.left:
					ch = f.tl
				case y == r.top && x == r.right:
					ch = f.tr
				case y == r.bottom && x == r.left:
					ch = f.bl
				case y == r.bottom && x == r.right:
					ch = f.br
				case y == r.top || y == r.bottom:
					ch = f.h
				case x == r.left || x == r.right:
					ch = f.v
				}
				put(x, y, ch, i)
			}
		}
		if width := r.right - r.left - 1; width > 0 && r.bottom-r.top > 1 {
			label := []rune(card.Caption)
			if len(label) > width {
				label = label[:width]
			}
			for j, ch := range label {
				put(r.left+1+j, r.top+1, ch, i)
			}
		}
	}

	var b strings.Builder
	for y := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		writeStyledRow(&b, grid[y], owner[y], c.Cards)
	}
	return b.String()
}

// writeStyledRow colors runs of cells that belong to the same card.
func writeStyledRow(b *strings.Builder, row []rune, owner []int, cards []canvas.Card) {
	start := 0
	for x := 1; x <= len(row); x++ {
		if x < len(row) && owner[x] == owner[start] {
			continue
		}
		run := string(row[start:x])
		if id := owner[start]; id >= 0 {
			f, ok := frames[cards[id].Kind]
			if !ok {
				f = frames[canvas.DefaultKind]
			}
			run = f.style.Render(run)
		}
		b.WriteString(run)
		start = x
	}
}

// Package gridview is the Bubble Tea shell around the viewport
// controller. It adapts terminal input (keys, wheel, pointer) into the
// controller's abstract events and renders the controller's surfaces
// back into terminal cells.
package gridview

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/gridline/internal/config"
	"github.com/zjrosen/gridline/internal/data"
	"github.com/zjrosen/gridline/internal/engine"
	"github.com/zjrosen/gridline/internal/grid"
	"github.com/zjrosen/gridline/internal/keys"
	"github.com/zjrosen/gridline/internal/log"
)

// Pixels per terminal cell. The controller and engine work in pixels;
// these factors are the terminal's device pixel ratio analog.
const (
	scaleX = 8
	scaleY = 20
)

// frameInterval paces coalesced vertical repaints.
const frameInterval = time.Second / 60

// Zone identifiers for pointer hit testing.
const (
	zoneVBar = "gridview.vbar"
	zoneHBar = "gridview.hbar"
)

// frameMsg fires a pending coalesced repaint.
type frameMsg struct{}

// dataChangedMsg reports that the dataset changed on disk.
type dataChangedMsg struct{}

// frameScheduler queues controller callbacks until the next frame tick.
type frameScheduler struct {
	fns []func()
}

func (s *frameScheduler) Schedule(fn func()) { s.fns = append(s.fns, fn) }

func (s *frameScheduler) flush() {
	fns := s.fns
	s.fns = nil
	for _, fn := range fns {
		fn()
	}
}

// Model is the grid viewer component.
type Model struct {
	cfg      config.Config
	viewport *grid.Viewport
	sched    *frameScheduler

	header  *engine.Surface
	content *engine.Surface

	km   keys.KeyMap
	jump textinput.Model

	width  int
	height int

	initialized bool
	tickQueued  bool
	jumping     bool
	showHelp    bool
	helpView    string

	dragging bool
	dragAxis grid.Axis

	onChange <-chan struct{}
	errMsg   string
}

// New constructs the viewer around a row source. rows is the dataset's
// row count; onChange, when non-nil, delivers dataset refresh signals.
func New(cfg config.Config, source data.RowSource, rows int64, onChange <-chan struct{}) (Model, error) {
	columns := cfg.Dataset.Columns
	if namer, ok := source.(data.ColumnNamer); ok {
		columns = int64(len(namer.ColumnNames()))
	}

	gc := grid.Config{
		Columns:         columns,
		Rows:            rows,
		CellWidth:       cfg.Grid.CellWidth,
		CellHeight:      cfg.Grid.CellHeight,
		HeaderHeight:    cfg.Grid.HeaderHeight,
		SegmentSize:     cfg.Grid.SegmentSize,
		MaxSafeRowIndex: cfg.Grid.MaxSafeRowIndex,
	}
	if err := gc.Validate(); err != nil {
		return Model{}, err
	}

	header := engine.NewSurface(0, 0)
	header.SetScale(scaleX, scaleY)
	content := engine.NewSurface(0, 0)
	content.SetScale(scaleX, scaleY)

	sched := &frameScheduler{}
	vp, err := grid.NewViewport(gc, engine.NewFactory(source), header, content, sched)
	if err != nil {
		return Model{}, err
	}

	jump := textinput.New()
	jump.Placeholder = "row"
	jump.Prompt = ":"
	jump.CharLimit = 12

	return Model{
		cfg:      cfg,
		viewport: vp,
		sched:    sched,
		header:   header,
		content:  content,
		km:       keys.DefaultKeyMap(),
		jump:     jump,
		onChange: onChange,
	}, nil
}

// Viewport exposes the controller, mainly for tests and the status bar.
func (m Model) Viewport() *grid.Viewport { return m.viewport }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return listenForChanges(m.onChange)
}

// listenForChanges waits for one dataset change notification.
func listenForChanges(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dataChangedMsg{}
	}
}

// contentRows returns the terminal rows available to grid content:
// everything minus header, horizontal bar, and status bar.
func (m Model) contentRows() int {
	rows := m.height - 3
	if rows < 0 {
		rows = 0
	}
	return rows
}

// contentCols returns the terminal columns available to grid content;
// the rightmost column belongs to the vertical scrollbar.
func (m Model) contentCols() int {
	cols := m.width - 1
	if cols < 0 {
		cols = 0
	}
	return cols
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Resize(
			float64(m.contentCols())*scaleX,
			float64(m.contentRows())*scaleY,
		)
		m.initialized = true
		m.helpView = ""
		return m, nil

	case frameMsg:
		m.tickQueued = false
		m.sched.flush()
		return m, nil

	case dataChangedMsg:
		log.Info(log.CatUI, "dataset changed, refreshing")
		m.refresh()
		return m, listenForChanges(m.onChange)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

// refresh rebuilds the engine so stale cached segments are dropped.
func (m *Model) refresh() {
	m.viewport.Resize(
		float64(m.contentCols())*scaleX,
		float64(m.contentRows())*scaleY,
	)
}

// scheduleFrame returns the tick command for a queued repaint, at most
// one in flight.
func (m *Model) scheduleFrame() tea.Cmd {
	if len(m.sched.fns) == 0 || m.tickQueued {
		return nil
	}
	m.tickQueued = true
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.jumping {
		return m.handleJumpKey(msg)
	}

	km := m.km
	switch {
	case key.Matches(msg, km.Quit):
		m.viewport.Close()
		return m, tea.Quit

	case key.Matches(msg, km.Help):
		m.showHelp = !m.showHelp
		if m.showHelp && m.helpView == "" {
			m.helpView = renderHelp(m.width, m.cfg.UI.MarkdownStyle)
		}
		return m, nil

	case key.Matches(msg, km.Escape):
		m.showHelp = false
		m.errMsg = ""
		return m, nil

	case key.Matches(msg, km.Up):
		m.viewport.HandleWheel(grid.WheelEvent{DeltaY: -1, Mode: grid.DeltaLine})
		return m, m.scheduleFrame()

	case key.Matches(msg, km.Down):
		m.viewport.HandleWheel(grid.WheelEvent{DeltaY: 1, Mode: grid.DeltaLine})
		return m, m.scheduleFrame()

	case key.Matches(msg, km.Left):
		m.viewport.HandleWheel(grid.WheelEvent{DeltaX: -1, Mode: grid.DeltaLine, Horizontal: true})
		return m, nil

	case key.Matches(msg, km.Right):
		m.viewport.HandleWheel(grid.WheelEvent{DeltaX: 1, Mode: grid.DeltaLine, Horizontal: true})
		return m, nil

	case key.Matches(msg, km.PageUp):
		m.viewport.HandleWheel(grid.WheelEvent{DeltaY: -m.viewport.Config().VisibleHeight, Mode: grid.DeltaPixel})
		return m, m.scheduleFrame()

	case key.Matches(msg, km.PageDown):
		m.viewport.HandleWheel(grid.WheelEvent{DeltaY: m.viewport.Config().VisibleHeight, Mode: grid.DeltaPixel})
		return m, m.scheduleFrame()

	case key.Matches(msg, km.Top):
		m.viewport.ScrollToRow(0)
		return m, nil

	case key.Matches(msg, km.Bottom):
		m.viewport.ScrollToRow(m.viewport.Config().Rows - 1)
		return m, nil

	case key.Matches(msg, km.Jump):
		m.jumping = true
		m.jump.SetValue("")
		return m, m.jump.Focus()

	case key.Matches(msg, km.Refresh):
		m.refresh()
		return m, nil
	}

	return m, nil
}

func (m Model) handleJumpKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.jumping = false
		m.jump.Blur()
		raw := m.jump.Value()
		row, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			m.errMsg = fmt.Sprintf("not a row number: %q", raw)
			return m, nil
		}
		m.errMsg = ""
		// Users count rows from one.
		m.viewport.ScrollToRow(row - 1)
		return m, nil

	case tea.KeyEscape:
		m.jumping = false
		m.jump.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.wheel(msg, -1)
	case tea.MouseButtonWheelDown:
		return m.wheel(msg, 1)
	case tea.MouseButtonWheelLeft:
		m.viewport.HandleWheel(grid.WheelEvent{DeltaX: -1, Mode: grid.DeltaLine, Horizontal: true})
		return m, nil
	case tea.MouseButtonWheelRight:
		m.viewport.HandleWheel(grid.WheelEvent{DeltaX: 1, Mode: grid.DeltaLine, Horizontal: true})
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m.pointerDown(msg)
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.viewport.MoveThumbDrag(m.dragAxis, m.dragPos(msg))
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.viewport.EndThumbDrag(m.dragAxis)
			m.dragging = false
		}
	}
	return m, nil
}

// wheel dispatches a wheel tick; shift turns it horizontal.
func (m Model) wheel(msg tea.MouseMsg, dir float64) (Model, tea.Cmd) {
	if msg.Shift {
		m.viewport.HandleWheel(grid.WheelEvent{DeltaY: dir, Mode: grid.DeltaLine, Horizontal: true})
		return m, nil
	}
	m.viewport.HandleWheel(grid.WheelEvent{DeltaY: dir, Mode: grid.DeltaLine})
	return m, m.scheduleFrame()
}

// pointerDown routes a click to a thumb drag or a track jump. The thumb
// hit is checked first so thumb clicks never reach the track-click path.
func (m Model) pointerDown(msg tea.MouseMsg) (Model, tea.Cmd) {
	if z := zone.Get(zoneVBar); z != nil && z.InBounds(msg) {
		_, relY := z.Pos(msg)
		pos := float64(relY) * scaleY
		if m.onThumb(grid.Vertical, relY) {
			m.dragging = true
			m.dragAxis = grid.Vertical
			m.viewport.StartThumbDrag(grid.Vertical, pos, nil)
		} else {
			m.viewport.HandleTrackClick(grid.Vertical, pos)
		}
		return m, nil
	}
	if z := zone.Get(zoneHBar); z != nil && z.InBounds(msg) {
		relX, _ := z.Pos(msg)
		pos := float64(relX) * scaleX
		if m.onThumb(grid.Horizontal, relX) {
			m.dragging = true
			m.dragAxis = grid.Horizontal
			m.viewport.StartThumbDrag(grid.Horizontal, pos, nil)
		} else {
			m.viewport.HandleTrackClick(grid.Horizontal, pos)
		}
		return m, nil
	}
	return m, nil
}

// onThumb reports whether a track-relative cell index falls on the thumb.
func (m Model) onThumb(axis grid.Axis, rel int) bool {
	start, length := m.thumbCells(axis)
	return rel >= start && rel < start+length
}

// dragPos converts a pointer position to track-relative pixels for an
// active drag.
func (m Model) dragPos(msg tea.MouseMsg) float64 {
	id := zoneVBar
	scale := float64(scaleY)
	if m.dragAxis == grid.Horizontal {
		id = zoneHBar
		scale = float64(scaleX)
	}
	z := zone.Get(id)
	if z == nil {
		return 0
	}
	relX, relY := z.Pos(msg)
	if m.dragAxis == grid.Horizontal {
		return float64(relX) * scale
	}
	return float64(relY) * scale
}

// thumbCells converts thumb geometry from pixels to terminal cells.
func (m Model) thumbCells(axis grid.Axis) (start, length int) {
	g := m.viewport.Geometry(axis)
	scale := float64(scaleY)
	if axis == grid.Horizontal {
		scale = float64(scaleX)
	}
	start = int(math.Round(g.ThumbOffset / scale))
	length = int(math.Round(g.ThumbSize / scale))
	if length < 1 {
		length = 1
	}
	return start, length
}

package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/colgrid/pkg/export"
	"github.com/matzehuels/colgrid/pkg/grid"
	"github.com/matzehuels/colgrid/pkg/pipeline"
	"github.com/matzehuels/colgrid/pkg/scenario"
)

// Key step sizes of the viewer, in pixels.
const (
	viewScrollStep = 40.0
	viewResizeStep = 10.0

	// viewPxPerCell maps pixels to terminal cells in the column strip.
	viewPxPerCell = 8.0
)

var (
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewRealizedStyle = lipgloss.NewStyle().Foreground(colorWhite)
	viewDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	viewErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// ViewModel is the bubbletea model of the interactive viewer. It owns one
// engine built from a scenario and replays the scenario's steps on demand.
type ViewModel struct {
	scenario *scenario.Scenario
	engine   *grid.Engine
	steps    []scenario.Step
	next     int

	// Cursor indexes the visible columns in display order.
	Cursor int

	snap    grid.Snapshot
	status  string
	failure bool
}

// NewViewModel builds the engine for sc and settles its initial layout.
func NewViewModel(sc *scenario.Scenario, opts ...grid.Option) (ViewModel, error) {
	steps, err := sc.ParsedSteps()
	if err != nil {
		return ViewModel{}, err
	}
	e, err := sc.Build(opts...)
	if err != nil {
		return ViewModel{}, err
	}
	m := ViewModel{scenario: sc, engine: e, steps: steps}
	m.settle()
	return m, nil
}

func (m ViewModel) Init() tea.Cmd {
	return nil
}

func (m ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status, m.failure = "", false

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.engine.SetScrollOffset(math.Max(0, m.engine.LayoutContext().ScrollOffset-viewScrollStep))
	case "right", "l":
		m.engine.SetScrollOffset(m.engine.LayoutContext().ScrollOffset + viewScrollStep)
	case "tab":
		m.moveCursor(1)
	case "shift+tab":
		m.moveCursor(-1)
	case "+", "=":
		m.resize(viewResizeStep)
	case "-", "_":
		m.resize(-viewResizeStep)
	case "f":
		if id, ok := m.current(); ok {
			m.report(m.engine.SetFocus(id), "focused "+string(id))
		}
	case "F":
		m.engine.ClearFocus()
		m.status = "focus cleared"
	case "x":
		if id, ok := m.current(); ok {
			c, _ := m.engine.Set().Get(id)
			c.SetVisible(false)
			m.status = "hid " + string(id)
		}
	case "a":
		for _, c := range m.engine.Set().Columns() {
			c.SetVisible(true)
		}
		m.status = "all columns shown"
	case "n":
		m.step()
	}

	m.settle()
	if n := len(m.snap.Widths); m.Cursor >= n {
		m.Cursor = max(0, n-1)
	}
	return m, nil
}

func (m *ViewModel) settle() {
	m.snap = m.engine.Settle(pipeline.DefaultMaxPasses)
}

func (m *ViewModel) moveCursor(d int) {
	n := len(m.engine.Set().VisibleColumns())
	if n == 0 {
		return
	}
	m.Cursor = (m.Cursor + d + n) % n
}

func (m ViewModel) current() (grid.ID, bool) {
	vis := m.engine.Set().VisibleColumns()
	if m.Cursor < 0 || m.Cursor >= len(vis) {
		return "", false
	}
	return vis[m.Cursor].ID(), true
}

func (m *ViewModel) resize(delta float64) {
	id, ok := m.current()
	if !ok {
		return
	}
	granted, err := m.engine.ResizeColumn(id, delta)
	m.report(err, fmt.Sprintf("resized %s by %+.1f", id, granted))
}

func (m *ViewModel) step() {
	if m.next >= len(m.steps) {
		m.status = "no more steps"
		return
	}
	st := m.steps[m.next]
	m.next++
	m.report(st.Apply(m.engine), fmt.Sprintf("step %d: %s", m.next, st))
}

func (m *ViewModel) report(err error, ok string) {
	if err != nil {
		m.status, m.failure = err.Error(), true
		return
	}
	m.status = ok
}

func (m ViewModel) View() string {
	var b strings.Builder
	lc := m.engine.LayoutContext()

	b.WriteString(StyleTitle.Render("colgrid " + m.scenario.Name))
	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render(fmt.Sprintf("available %.0f · viewport %.0f · scroll %.0f · frozen %d · step %d/%d",
		m.snap.Available, lc.ViewportWidth, lc.ScrollOffset, lc.FrozenCount, m.next, len(m.steps))))
	b.WriteString("\n\n")

	rows := export.Rows(m.snap)
	b.WriteString(m.strip(rows))
	b.WriteString("\n\n")

	t := export.Table(export.Frame{Snapshot: m.snap}, 1).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(viewDimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row < 0:
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			case row == m.Cursor:
				return viewSelectedStyle
			case row < len(rows) && rows[row].Realized:
				return viewRealizedStyle
			}
			return viewDimStyle
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.status != "" {
		style := StyleHighlight
		if m.failure {
			style = viewErrorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(viewDimStyle.Render("←/→ scroll  tab column  +/- resize  f focus  x hide  a show all  n next step  q quit"))
	return b.String()
}

// strip draws the visible columns to scale. Realized columns are bright.
func (m ViewModel) strip(rows []export.Row) string {
	var b strings.Builder
	for i, r := range rows {
		n := max(1, int(math.Round(r.Width/viewPxPerCell)))
		label := string(r.ID)
		if len(label) > n {
			label = label[:n]
		}
		cell := "│" + label + strings.Repeat(" ", n-len(label))

		style := viewDimStyle
		if r.Realized {
			style = viewRealizedStyle
		}
		if i == m.Cursor {
			style = viewSelectedStyle
		}
		b.WriteString(style.Render(cell))
	}
	b.WriteString(viewDimStyle.Render("│"))
	return b.String()
}

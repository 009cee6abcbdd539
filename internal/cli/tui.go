package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/eventline/pkg/task"
	"github.com/matzehuels/eventline/pkg/timeline"
)

// cellWidth is the pixel width of one terminal column used when laying out
// for the terminal, matching the per-character estimate of label widths.
const cellWidth = 6.6

// Timeline styles
var (
	tlCursorStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	tlEventStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tlAxisStyle   = lipgloss.NewStyle().Foreground(colorGray)
	tlHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TimelineModel - Interactive timeline browser
// =============================================================================

// TimelineModel is the bubbletea model for browsing a snapshot. Every
// navigation key recomputes the layout for the new view.
type TimelineModel struct {
	Snapshot task.Snapshot
	Viewport timeline.View
	Result   timeline.Result

	// Cursor indexes the task nodes of Result, skipping the event marker.
	Cursor   int
	Focus    string
	Selected string

	Width  int
	Buffer float64

	now time.Time
}

// NewTimelineModel creates a timeline model showing the default view for
// the snapshot.
func NewTimelineModel(snap task.Snapshot, now time.Time, buffer float64) TimelineModel {
	m := TimelineModel{
		Snapshot: snap,
		Viewport: timeline.ViewFor(snap.Anchor, now),
		Width:    80,
		Buffer:   buffer,
		now:      now,
	}
	return m.relayout()
}

func (m TimelineModel) Init() tea.Cmd {
	return nil
}

func (m TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.Viewport = m.Viewport.Shift(timeline.Left)
		case "right", "l":
			m.Viewport = m.Viewport.Shift(timeline.Right)
		case "+", "=":
			m.Viewport = m.Viewport.ZoomIn()
		case "-", "_":
			m.Viewport = m.Viewport.ZoomOut()
		case "r":
			m.Viewport = timeline.ViewFor(m.Snapshot.Anchor, m.now)
		case "tab", "down", "j":
			m.Cursor++
			return m.clampCursor(), nil
		case "shift+tab", "up", "k":
			m.Cursor--
			return m.clampCursor(), nil
		case "enter", " ":
			if id := m.current(); id != "" {
				if m.Focus == id {
					m.Focus, m.Selected = "", ""
				} else {
					m.Focus, m.Selected = id, id
				}
			}
			return m, nil
		case "esc":
			m.Focus, m.Selected = "", ""
			return m, nil
		default:
			return m, nil
		}
		return m.relayout(), nil
	case tea.WindowSizeMsg:
		m.Width = max(msg.Width, 20)
		return m.relayout(), nil
	}
	return m, nil
}

// relayout recomputes the packing for the current view and width, keeping
// the cursor on the same task when it is still visible.
func (m TimelineModel) relayout() TimelineModel {
	prev := m.current()
	m.Result = timeline.Compute(timeline.Input{
		Snapshot:   m.Snapshot,
		Range:      m.Viewport.Range,
		PixelWidth: float64(m.Width) * cellWidth,
		Buffer:     m.Buffer,
	})
	if i := slices.IndexFunc(m.taskNodes(), func(n timeline.Node) bool { return n.ID == prev }); i >= 0 {
		m.Cursor = i
	}
	return m.clampCursor()
}

func (m TimelineModel) clampCursor() TimelineModel {
	n := len(m.taskNodes())
	m.Cursor = min(max(m.Cursor, 0), max(n-1, 0))
	return m
}

func (m TimelineModel) taskNodes() []timeline.Node {
	return slices.DeleteFunc(slices.Clone(m.Result.Nodes), func(n timeline.Node) bool { return n.IsEvent })
}

// current returns the ID of the task under the cursor, or "".
func (m TimelineModel) current() string {
	nodes := m.taskNodes()
	if m.Cursor < 0 || m.Cursor >= len(nodes) {
		return ""
	}
	return nodes[m.Cursor].ID
}

func (m TimelineModel) View() string {
	var b strings.Builder

	title := m.Snapshot.Anchor.DisplayTitle()
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %s", m.Viewport.Range, m.Viewport.Zoom)))
	b.WriteString("\n\n")

	b.WriteString(m.axis())
	b.WriteString("\n")

	styles := m.nodeStyles()
	for level := 0; level <= m.Result.MaxLevel; level++ {
		b.WriteString(m.row(level, styles))
		b.WriteString("\n")
	}
	if len(m.Result.Nodes) == 0 {
		b.WriteString(StyleDim.Render("  no tasks in this range"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.details())
	b.WriteString(tlHelpStyle.Render("←/→ pan  +/- zoom  r reset  tab select  ⏎ focus  esc clear  q quit"))
	return b.String()
}

// column maps a timeline percentage to a terminal column.
func (m TimelineModel) column(pct float64) int {
	return min(max(int(pct*float64(m.Width)/100), 0), m.Width-1)
}

// axis renders the tick labels above a ruler line.
func (m TimelineModel) axis() string {
	labels := []rune(strings.Repeat(" ", m.Width))
	ruler := []rune(strings.Repeat("─", m.Width))
	layout := "Jan 2"
	if m.Viewport.Zoom == timeline.ZoomFull {
		layout = "Jan 06"
	}
	next := 0
	for _, t := range m.Viewport.Ticks() {
		col := m.column(m.Viewport.Range.Position(t))
		ruler[col] = '┬'
		label := []rune(t.Format(layout))
		if col < next || col+len(label) > m.Width {
			continue
		}
		copy(labels[col:], label)
		next = col + len(label) + 1
	}
	return tlAxisStyle.Render(string(labels)) + "\n" + tlAxisStyle.Render(string(ruler))
}

// row renders the labels packed into one level.
func (m TimelineModel) row(level int, styles map[string]lipgloss.Style) string {
	var b strings.Builder
	pos := 0
	for _, n := range m.Result.Nodes {
		if n.Level != level {
			continue
		}
		start := max(m.column(n.Left()), pos)
		if start >= m.Width {
			break
		}
		label := []rune(n.Title)
		if room := m.Width - start; len(label) > room {
			label = label[:room]
		}
		b.WriteString(strings.Repeat(" ", start-pos))
		b.WriteString(styles[n.ID].Render(string(label)))
		pos = start + len(label)
	}
	return b.String()
}

// nodeStyles picks a style for every visible node from the cursor, focus and
// selection state.
func (m TimelineModel) nodeStyles() map[string]lipgloss.Style {
	styles := make(map[string]lipgloss.Style, len(m.Result.Nodes))
	var related map[string]bool
	if m.Selected != "" {
		related = timeline.RelatedSet(m.Selected, m.Snapshot.Tasks)
	}
	for _, n := range m.Result.Nodes {
		s := StyleValue
		switch {
		case n.IsEvent:
			s = tlEventStyle
		case related != nil && !related[n.ID]:
			s = StyleDim
		case n.Task.Completed:
			s = StyleDim.Strikethrough(true)
		case n.Task.Important:
			s = StyleImportant
		}
		styles[n.ID] = s
	}

	deps, dependents := m.Result.Edges(m.Focus)
	for _, e := range deps {
		styles[e.To.ID] = styleDependsOn
	}
	for _, e := range dependents {
		styles[e.From.ID] = styleRequiredFor
	}
	if id := m.current(); id != "" {
		styles[id] = styles[id].Inherit(tlCursorStyle)
	}
	return styles
}

// details describes the task under the cursor.
func (m TimelineModel) details() string {
	id := m.current()
	if id == "" {
		return ""
	}
	t, ok := m.Snapshot.Lookup(id)
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(t.Title))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(dateOf(*t, m.Snapshot.Anchor.Time())))
	if when := task.Describe(t.Date, m.Snapshot.Anchor.Title); when != "" {
		b.WriteString(StyleDim.Render(" · " + when))
	}
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n")
	}
	if len(t.Dependencies) > 0 {
		b.WriteString(styleDependsOn.Render("depends on: " + strings.Join(t.Dependencies, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

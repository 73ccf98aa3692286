package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"wikitrail/trail/internal/explorer"
	"wikitrail/trail/internal/linksource"
)

type expandedMsg struct {
	id  string
	out explorer.Outcome
	err error
}

// Model is the bubbletea model of the explorer screen.
type Model struct {
	ctx     context.Context
	x       *explorer.Explorer
	surface *Surface

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model
	seeding bool

	rows    []row
	cursor  int
	pending map[string]bool

	status    string
	statusErr bool
	width     int
	height    int
}

// NewModel returns a model driving x, whose surface must be s.
func NewModel(ctx context.Context, x *explorer.Explorer, s *Surface) Model {
	ti := textinput.New()
	ti.Placeholder = "Topic name"
	ti.CharLimit = 256
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		x:       x,
		surface: s,
		keys:    keys,
		help:    help.New(),
		spinner: sp,
		input:   ti,
		pending: make(map[string]bool),
	}
	m.rows = outline(s.Nodes())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.surface.waitForChange(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case changedMsg:
		m.refresh()
		return m, m.surface.waitForChange()

	case expandedMsg:
		delete(m.pending, msg.id)
		m.refresh()
		m.reportExpansion(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.seeding {
			return m.updateSeeding(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.hover()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.hover()
		}

	case key.Matches(msg, m.keys.Expand):
		id, ok := m.current()
		if !ok || m.pending[id] {
			return m, nil
		}
		m.pending[id] = true
		m.setStatus(fmt.Sprintf("Expanding %s...", m.name(id)), false)
		return m, m.expand(id)

	case key.Matches(msg, m.keys.Remove):
		id, ok := m.current()
		if !ok {
			return m, nil
		}
		name := m.name(id)
		m.send(explorer.Event{Kind: explorer.RightClicked, NodeID: id})
		m.refresh()
		m.setStatus(fmt.Sprintf("Removed %s", name), false)

	case key.Matches(msg, m.keys.Reset):
		m.send(explorer.Event{Kind: explorer.Clicked})
		m.refresh()
		m.setStatus("", false)

	case msg.String() == "/":
		m.seeding = true
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateSeeding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.seeding = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.seeding = false
		m.input.Blur()
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			return m, nil
		}
		if added := m.x.Seed(name); len(added) == 0 {
			m.setStatus(fmt.Sprintf("%s is already in the graph", name), true)
		} else {
			m.setStatus(fmt.Sprintf("Added %s", name), false)
		}
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// expand resolves id off the event loop.
func (m Model) expand(id string) tea.Cmd {
	ctx, x := m.ctx, m.x
	return func() tea.Msg {
		out, err := x.Expand(ctx, id)
		return expandedMsg{id: id, out: out, err: err}
	}
}

func (m *Model) reportExpansion(msg expandedMsg) {
	switch {
	case errors.Is(msg.err, linksource.ErrNotFound):
		m.setStatus(fmt.Sprintf("No page for %s", msg.id), true)
	case msg.err != nil:
		m.setStatus(fmt.Sprintf("Expand failed: %v", msg.err), true)
	case msg.out.Stale:
		m.setStatus("Node was removed before its links arrived", true)
	default:
		s := fmt.Sprintf("%s: +%d topics, +%d links", m.name(msg.out.ID), len(msg.out.AddedNodes), len(msg.out.AddedEdges))
		if msg.out.Rename.Kind != explorer.Unchanged {
			s += fmt.Sprintf(" (%s)", msg.out.Rename.Kind)
		}
		m.setStatus(s, false)
	}
}

func (m *Model) hover() {
	if id, ok := m.current(); ok {
		m.send(explorer.Event{Kind: explorer.Hovered, NodeID: id})
	}
}

func (m *Model) send(ev explorer.Event) {
	if err := m.x.HandleEvent(m.ctx, ev); err != nil && !errors.Is(err, explorer.ErrUnknownNode) {
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) refresh() {
	m.rows = outline(m.surface.Nodes())
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) current() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return "", false
	}
	return m.rows[m.cursor].node.ID, true
}

func (m Model) name(id string) string {
	if n, ok := m.surface.Node(id); ok {
		return n.Name
	}
	return id
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wikitrail"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("  No topics yet. Press / to add one."))
		b.WriteString("\n")
	}

	traced := make(map[string]bool)
	snap := m.x.Snapshot()
	for _, id := range snap.Trace.Nodes {
		traced[id] = true
	}

	for i, r := range m.visibleRows() {
		n := r.node
		prefix := "  "
		if i+m.offset() == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		style := nodeStyle(n.Color, m.surface.NodeStyle(n.ID), traced[n.ID])
		line := fmt.Sprintf("%s%s%s (%d)", prefix, indent(r.depth), style.Render(n.Name), n.Size)
		if m.pending[n.ID] {
			line += " " + m.spinner.View()
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if detail := m.detail(snap.Trace.Nodes); detail != "" {
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(detail))
		b.WriteString("\n")
	}

	if m.seeding {
		b.WriteString("\n  Add topic: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n  ")
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(successStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// detail describes the node under the cursor: its label, its trace back
// to a root, and its outgoing links.
func (m Model) detail(trace []string) string {
	id, ok := m.current()
	if !ok {
		return ""
	}
	n, ok := m.surface.Node(id)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(n.Label)
	b.WriteString(fmt.Sprintf("\nlevel %d, %d links", n.Level, n.Size))

	if len(trace) > 0 && trace[len(trace)-1] == id {
		names := make([]string, len(trace))
		for i, t := range trace {
			names[i] = m.name(t)
		}
		b.WriteString("\n")
		b.WriteString(traceStyle.Render(strings.Join(names, " › ")))
	}

	var out []string
	for _, e := range m.surface.Edges() {
		if e.From != id {
			continue
		}
		out = append(out, fmt.Sprintf("%s %s", edgeGlyph(m.surface.EdgeStyle(e.ID)), m.name(e.To)))
	}
	if len(out) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(out, "\n"))
	}
	return b.String()
}

// listHeight is the number of rows that fit above the detail pane.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return len(m.rows)
	}
	h := m.height / 2
	if h < 5 {
		h = 5
	}
	return h
}

func (m Model) offset() int {
	h := m.listHeight()
	if m.cursor < h {
		return 0
	}
	return m.cursor - h + 1
}

func (m Model) visibleRows() []row {
	start := m.offset()
	end := min(start+m.listHeight(), len(m.rows))
	return m.rows[start:end]
}

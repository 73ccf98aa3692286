package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wikitrail/trail/internal/highlight"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(highlight.DimColor)).
			Faint(true)

	traceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(highlight.TraceColor)).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)
)

// nodeStyle colors a node by level, dimmed when inactive.
func nodeStyle(color string, style highlight.NodeStyle, traced bool) lipgloss.Style {
	switch {
	case traced:
		return traceStyle
	case !style.Active || style.Opacity < highlight.ActiveOpacity:
		return dimStyle
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
}

// edgeGlyph draws an edge as a line whose weight follows its width.
func edgeGlyph(style highlight.EdgeStyle) string {
	var line string
	switch {
	case style.Width >= highlight.TracedEdgeWidth:
		line = "━━▶"
	case style.Width >= highlight.ConnectedEdgeWidth:
		line = "──▶"
	case style.Class == highlight.EdgeUnrelated:
		line = "┄┄▷"
	default:
		line = "─▷"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(style.Color)).Render(line)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

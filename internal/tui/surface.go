// Package tui renders the explored graph in the terminal and turns key
// presses into explorer events.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"wikitrail/trail/internal/explorer"
)

// Surface is an explorer.Surface that keeps a Mirror and wakes the UI after
// every change. Notifications coalesce, so Apply never blocks.
type Surface struct {
	*explorer.Mirror
	changed chan struct{}
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{
		Mirror:  explorer.NewMirror(),
		changed: make(chan struct{}, 1),
	}
}

// Apply implements explorer.Surface.
func (s *Surface) Apply(b explorer.Batch) {
	s.Mirror.Apply(b)
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

type changedMsg struct{}

// waitForChange blocks until the surface changes.
func (s *Surface) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-s.changed
		return changedMsg{}
	}
}

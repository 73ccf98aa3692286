package explorer

import (
	"context"

	"wikitrail/trail/internal/highlight"
	"wikitrail/trail/internal/store"
	"wikitrail/trail/internal/trace"
)

// EventKind is a discrete input from the surface.
type EventKind int

const (
	Clicked EventKind = iota
	Hovered
	Held
	RightClicked
)

func (k EventKind) String() string {
	switch k {
	case Clicked:
		return "clicked"
	case Hovered:
		return "hovered"
	case Held:
		return "held"
	case RightClicked:
		return "right-clicked"
	default:
		return "unknown"
	}
}

// Event is an input on a node. An empty NodeID means no node was hit.
type Event struct {
	Kind   EventKind
	NodeID string
}

// HandleEvent runs the operation an event names: a click expands, a hover or
// hold traces, a right click removes, and any event that hit no node resets.
func (x *Explorer) HandleEvent(ctx context.Context, ev Event) error {
	if ev.NodeID == "" {
		x.Reset()
		return nil
	}
	switch ev.Kind {
	case Clicked:
		_, err := x.Expand(ctx, ev.NodeID)
		return err
	case Hovered, Held:
		_, err := x.Select(ev.NodeID)
		return err
	case RightClicked:
		x.Remove(ev.NodeID)
	}
	return nil
}

// Snapshot is a copy of the explorer's state.
type Snapshot struct {
	Nodes    []store.Node    `json:"nodes" yaml:"nodes"`
	Edges    []store.Edge    `json:"edges" yaml:"edges"`
	Roots    []string        `json:"roots" yaml:"roots"`
	State    highlight.State `json:"-" yaml:"-"`
	Selected string          `json:"selected,omitempty" yaml:"selected,omitempty"`
	Trace    trace.Result    `json:"trace" yaml:"trace"`
}

// Snapshot returns copies of every node, edge, and root plus the highlight.
func (x *Explorer) Snapshot() Snapshot {
	x.mu.Lock()
	defer x.mu.Unlock()

	selected, _ := x.hl.Selected()
	return Snapshot{
		Nodes:    x.g.Nodes(),
		Edges:    x.g.Edges(),
		Roots:    x.roots.IDs(),
		State:    x.hl.State(),
		Selected: selected,
		Trace:    x.hl.Trace(),
	}
}

// Roots returns the root IDs in seed order.
func (x *Explorer) Roots() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.roots.IDs()
}

// NodeStyle returns the highlight style of a node.
func (x *Explorer) NodeStyle(id string) highlight.NodeStyle {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.hl.NodeStyle(id)
}

// EdgeStyle returns the highlight style of an edge.
func (x *Explorer) EdgeStyle(id string) highlight.EdgeStyle {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.hl.EdgeStyle(x.g, id)
}

// EdgeConnecting returns the edge from -> to, if any.
func (x *Explorer) EdgeConnecting(from, to string) (store.Edge, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.g.EdgeConnecting(from, to)
}

// Package highlight derives trace, dimming, and edge emphasis from the
// selected node.
//
// The machine has two states, Reset and Traced. Every transition into Traced
// tears down the previous derived state with a full Reset pass and then
// recomputes everything for the new selection; nothing is patched
// incrementally. Derived state is returned as an Update for the caller to
// push to the visualization surface.
package highlight

import (
	"slices"

	"wikitrail/trail/internal/trace"
)

// Machine holds the selection and the styles derived from it.
type Machine struct {
	state    State
	selected string
	trace    trace.Result
	nodes    map[string]NodeStyle
	edges    map[string]EdgeStyle
}

// New returns a machine in the Reset state.
func New() *Machine {
	return &Machine{}
}

// State returns the current mode.
func (m *Machine) State() State { return m.state }

// IsReset reports whether no highlight overrides are active.
func (m *Machine) IsReset() bool { return m.state == StateReset }

// Selected returns the traced node, if any.
func (m *Machine) Selected() (string, bool) {
	return m.selected, m.state == StateTraced
}

// Trace returns a copy of the active trace in root-to-leaf order.
func (m *Machine) Trace() trace.Result {
	return trace.Result{
		Nodes: slices.Clone(m.trace.Nodes),
		Edges: slices.Clone(m.trace.Edges),
	}
}

// References reports whether id is the selection or lies on the trace.
func (m *Machine) References(id string) bool {
	if m.state != StateTraced {
		return false
	}
	return m.selected == id || slices.Contains(m.trace.Nodes, id)
}

// Reset restores every node and edge in g to its default style. It is a
// no-op returning an empty Update when already reset.
func (m *Machine) Reset(g Graph) Update {
	if m.state == StateReset {
		return Update{}
	}
	u := Update{
		Nodes: make(map[string]NodeStyle),
		Edges: make(map[string]EdgeStyle),
	}
	for _, n := range g.Nodes() {
		u.Nodes[n.ID] = DefaultNodeStyle()
	}
	for _, e := range g.Edges() {
		u.Edges[e.ID] = DefaultEdgeStyle(e)
	}
	m.state = StateReset
	m.selected = ""
	m.trace = trace.Result{}
	m.nodes = nil
	m.edges = nil
	return u
}

// Select traces id: it resets, then classifies every edge as traced,
// connected, or unrelated and every node as active or inactive. Selecting a
// node missing from g leaves the machine reset.
func (m *Machine) Select(g Graph, roots trace.Roots, nb Neighborhood, id string) Update {
	u := m.Reset(g)
	if !g.Has(id) {
		return u
	}

	tr := trace.Trace(g, roots, id)
	tracedEdges := toSet(tr.Edges)
	connectedEdges := toSet(nb.ConnectedEdges(id))
	activeNodes := toSet(tr.Nodes)
	activeNodes[id] = true
	for _, n := range nb.ConnectedNodes(id) {
		activeNodes[n] = true
	}

	m.nodes = make(map[string]NodeStyle)
	m.edges = make(map[string]EdgeStyle)
	for _, e := range g.Edges() {
		var style EdgeStyle
		switch {
		case tracedEdges[e.ID]:
			style = EdgeStyle{Class: EdgeTraced, Width: TracedEdgeWidth, Color: TraceColor}
		case connectedEdges[e.ID]:
			style = EdgeStyle{Class: EdgeConnected, Width: ConnectedEdgeWidth, Color: LevelColor(e.Level)}
		default:
			style = EdgeStyle{Class: EdgeUnrelated, Width: DefaultEdgeWidth, Color: DimColor}
		}
		m.edges[e.ID] = style
	}
	for _, n := range g.Nodes() {
		style := NodeStyle{Active: false, Opacity: InactiveOpacity}
		if activeNodes[n.ID] {
			style = NodeStyle{Active: true, Opacity: ActiveOpacity}
		}
		m.nodes[n.ID] = style
	}

	m.state = StateTraced
	m.selected = id
	m.trace = tr

	if u.Nodes == nil {
		u = Update{Nodes: make(map[string]NodeStyle), Edges: make(map[string]EdgeStyle)}
	}
	for nid, style := range m.nodes {
		u.Nodes[nid] = style
	}
	for eid, style := range m.edges {
		u.Edges[eid] = style
	}
	return u
}

// Refresh recomputes the traced state against the current graph, for use
// after the graph changed while traced. It returns an empty Update when reset.
func (m *Machine) Refresh(g Graph, roots trace.Roots, nb Neighborhood) Update {
	if m.state != StateTraced {
		return Update{}
	}
	return m.Select(g, roots, nb, m.selected)
}

// Rename rewrites every reference to oldID so it names newID.
func (m *Machine) Rename(oldID, newID string) {
	if oldID == newID {
		return
	}
	if m.selected == oldID {
		m.selected = newID
	}
	for i, id := range m.trace.Nodes {
		if id == oldID {
			m.trace.Nodes[i] = newID
		}
	}
	if style, ok := m.nodes[oldID]; ok {
		delete(m.nodes, oldID)
		if _, exists := m.nodes[newID]; !exists {
			m.nodes[newID] = style
		}
	}
}

// Forget drops derived styles for nodes and edges that left the graph.
func (m *Machine) Forget(nodeIDs, edgeIDs []string) {
	for _, id := range nodeIDs {
		delete(m.nodes, id)
	}
	for _, id := range edgeIDs {
		delete(m.edges, id)
	}
	if len(edgeIDs) > 0 && len(m.trace.Edges) > 0 {
		gone := toSet(edgeIDs)
		m.trace.Edges = slices.DeleteFunc(m.trace.Edges, func(id string) bool { return gone[id] })
	}
}

// NodeStyle returns the current style of a node.
func (m *Machine) NodeStyle(id string) NodeStyle {
	if style, ok := m.nodes[id]; ok {
		return style
	}
	return DefaultNodeStyle()
}

// EdgeStyle returns the current style of an edge.
func (m *Machine) EdgeStyle(g Graph, id string) EdgeStyle {
	if style, ok := m.edges[id]; ok {
		return style
	}
	if e, ok := g.Edge(id); ok {
		return DefaultEdgeStyle(e)
	}
	return EdgeStyle{Width: DefaultEdgeWidth}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

package explorer

import (
	"sync"

	"wikitrail/trail/internal/highlight"
	"wikitrail/trail/internal/store"
)

// Batch is one set of changes pushed to the surface. Records are complete:
// an updated node or edge replaces the surface's copy.
type Batch struct {
	AddNodes    []store.Node
	UpdateNodes []store.Node
	RemoveNodes []string
	AddEdges    []store.Edge
	UpdateEdges []store.Edge
	RemoveEdges []string
	Styles      highlight.Update
}

// Empty reports whether the batch changes nothing.
func (b Batch) Empty() bool {
	return len(b.AddNodes) == 0 && len(b.UpdateNodes) == 0 && len(b.RemoveNodes) == 0 &&
		len(b.AddEdges) == 0 && len(b.UpdateEdges) == 0 && len(b.RemoveEdges) == 0 &&
		b.Styles.Empty()
}

// Surface is the visualization the explorer renders into. It answers
// adjacency queries from what it has drawn.
type Surface interface {
	highlight.Neighborhood
	Apply(b Batch)
}

// Mirror is a headless Surface that keeps its own copy of every record and
// style it was sent. It is safe for concurrent use.
type Mirror struct {
	mu         sync.RWMutex
	g          *store.Store
	nodeStyles map[string]highlight.NodeStyle
	edgeStyles map[string]highlight.EdgeStyle
	applied    int
}

// NewMirror returns an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{
		g:          store.New(),
		nodeStyles: make(map[string]highlight.NodeStyle),
		edgeStyles: make(map[string]highlight.EdgeStyle),
	}
}

// Apply implements Surface.
func (m *Mirror) Apply(b Batch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied++

	for _, id := range b.RemoveEdges {
		m.g.RemoveEdge(id)
		delete(m.edgeStyles, id)
	}
	for _, e := range b.UpdateEdges {
		m.g.RemoveEdge(e.ID)
	}
	for _, id := range b.RemoveNodes {
		m.g.RemoveNode(id)
		delete(m.nodeStyles, id)
	}
	m.g.AddNodes(b.AddNodes...)
	for _, n := range b.UpdateNodes {
		rec := n
		if !m.g.UpdateNode(n.ID, func(cur *store.Node) { *cur = rec }) {
			m.g.AddNodes(n)
		}
	}
	m.g.AddEdges(b.UpdateEdges...)
	m.g.AddEdges(b.AddEdges...)

	for id, style := range b.Styles.Nodes {
		m.nodeStyles[id] = style
	}
	for id, style := range b.Styles.Edges {
		m.edgeStyles[id] = style
	}
}

// ConnectedNodes implements highlight.Neighborhood.
func (m *Mirror) ConnectedNodes(id string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.g.Neighbors(id)
}

// ConnectedEdges implements highlight.Neighborhood.
func (m *Mirror) ConnectedEdges(id string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	incident := m.g.IncidentEdges(id)
	ids := make([]string, 0, len(incident))
	for _, e := range incident {
		ids = append(ids, e.ID)
	}
	return ids
}

// Nodes returns the drawn nodes in insertion order.
func (m *Mirror) Nodes() []store.Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.g.Nodes()
}

// Edges returns the drawn edges in insertion order.
func (m *Mirror) Edges() []store.Edge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.g.Edges()
}

// Node returns one drawn node.
func (m *Mirror) Node(id string) (store.Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.g.Node(id)
}

// NodeStyle returns the last style sent for a node, or the default.
func (m *Mirror) NodeStyle(id string) highlight.NodeStyle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if style, ok := m.nodeStyles[id]; ok {
		return style
	}
	return highlight.DefaultNodeStyle()
}

// EdgeStyle returns the last style sent for an edge, or the default.
func (m *Mirror) EdgeStyle(id string) highlight.EdgeStyle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if style, ok := m.edgeStyles[id]; ok {
		return style
	}
	if e, ok := m.g.Edge(id); ok {
		return highlight.DefaultEdgeStyle(e)
	}
	return highlight.EdgeStyle{Width: highlight.DefaultEdgeWidth}
}

// Applied returns how many batches were applied.
func (m *Mirror) Applied() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.applied
}

// changes records the pre-mutation presence of every node and edge an
// operation touches, so the resulting Batch can say which records were
// added, updated, or removed.
type changes struct {
	g           *store.Store
	nodes       []string
	nodeExisted map[string]bool
	edges       []string
	edgeExisted map[string]bool
}

func newChanges(g *store.Store) *changes {
	return &changes{
		g:           g,
		nodeExisted: make(map[string]bool),
		edgeExisted: make(map[string]bool),
	}
}

// node must be called before the node is mutated.
func (c *changes) node(ids ...string) {
	for _, id := range ids {
		if _, seen := c.nodeExisted[id]; seen {
			continue
		}
		c.nodeExisted[id] = c.g.Has(id)
		c.nodes = append(c.nodes, id)
	}
}

// edge must be called before the edge is mutated, or with existed=false for
// an edge that was just created.
func (c *changes) edge(id string, existed bool) {
	if _, seen := c.edgeExisted[id]; seen {
		return
	}
	c.edgeExisted[id] = existed
	c.edges = append(c.edges, id)
}

func (c *changes) batch() Batch {
	var b Batch
	for _, id := range c.nodes {
		n, ok := c.g.Node(id)
		switch existed := c.nodeExisted[id]; {
		case existed && ok:
			b.UpdateNodes = append(b.UpdateNodes, n)
		case !existed && ok:
			b.AddNodes = append(b.AddNodes, n)
		case existed && !ok:
			b.RemoveNodes = append(b.RemoveNodes, id)
		}
	}
	for _, id := range c.edges {
		e, ok := c.g.Edge(id)
		switch existed := c.edgeExisted[id]; {
		case existed && ok:
			b.UpdateEdges = append(b.UpdateEdges, e)
		case !existed && ok:
			b.AddEdges = append(b.AddEdges, e)
		case existed && !ok:
			b.RemoveEdges = append(b.RemoveEdges, id)
		}
	}
	return b
}

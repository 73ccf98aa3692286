package highlight

import "wikitrail/trail/internal/store"

// State is the highlight mode.
type State int

const (
	StateReset State = iota
	StateTraced
)

func (s State) String() string {
	switch s {
	case StateTraced:
		return "traced"
	default:
		return "reset"
	}
}

// EdgeClass classifies an edge relative to the selected node.
type EdgeClass int

const (
	EdgeDefault EdgeClass = iota
	EdgeTraced
	EdgeConnected
	EdgeUnrelated
)

func (c EdgeClass) String() string {
	switch c {
	case EdgeTraced:
		return "traced"
	case EdgeConnected:
		return "connected"
	case EdgeUnrelated:
		return "unrelated"
	default:
		return "default"
	}
}

// NodeStyle is the derived visual state of a node.
type NodeStyle struct {
	Active  bool
	Opacity float64
}

// EdgeStyle is the derived visual state of an edge.
type EdgeStyle struct {
	Class EdgeClass
	Width int
	Color string
}

// DefaultNodeStyle is the style of every node while reset.
func DefaultNodeStyle() NodeStyle {
	return NodeStyle{Active: true, Opacity: ActiveOpacity}
}

// DefaultEdgeStyle is the style of e while reset: derived only from its level.
func DefaultEdgeStyle(e store.Edge) EdgeStyle {
	return EdgeStyle{Class: EdgeDefault, Width: DefaultEdgeWidth, Color: LevelColor(e.Level)}
}

// Update is a batch of style changes to push to the visualization surface.
type Update struct {
	Nodes map[string]NodeStyle
	Edges map[string]EdgeStyle
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return len(u.Nodes) == 0 && len(u.Edges) == 0
}

// Neighborhood answers which nodes and edges touch a node, as the
// visualization surface sees them.
type Neighborhood interface {
	ConnectedNodes(id string) []string
	ConnectedEdges(id string) []string
}

// Graph is the read access the machine needs.
type Graph interface {
	Has(id string) bool
	Node(id string) (store.Node, bool)
	Nodes() []store.Node
	Edges() []store.Edge
	Edge(id string) (store.Edge, bool)
	EdgeConnecting(from, to string) (store.Edge, bool)
}

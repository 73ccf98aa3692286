package store

// Node is a topic in the explored graph.
type Node struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`   // unwrapped display name, used to resolve the page
	Label  string  `json:"label" yaml:"label"` // word-wrapped Name
	Level  int     `json:"level" yaml:"level"`
	Parent string  `json:"parent,omitempty" yaml:"parent,omitempty"` // empty for roots
	Size   int     `json:"size" yaml:"size"`                         // degree after the last edge change
	Color  string  `json:"color" yaml:"color"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
}

// HasParent reports whether the node was created by expanding another node.
func (n Node) HasParent() bool { return n.Parent != "" }

// Edge is a directed link between two nodes.
type Edge struct {
	ID    string `json:"id" yaml:"id"`
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Level int    `json:"level" yaml:"level"` // level of To when the edge was created
}

type nodeEntry struct {
	node Node
	seq  uint64
}

type edgeEntry struct {
	edge Edge
	seq  uint64
}

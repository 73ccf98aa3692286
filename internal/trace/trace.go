// Package trace walks parent pointers from a node back to a root.
//
// A broken chain never fails loudly: a missing node, a parentless non-root,
// or a chain longer than MaxHops yields an empty trace, and a missing edge
// between two traced nodes is skipped.
package trace

import (
	"slices"

	"wikitrail/trail/internal/store"
)

// MaxHops bounds the number of parent steps taken before giving up.
const MaxHops = 100

// Graph is the read access the walk needs.
type Graph interface {
	Node(id string) (store.Node, bool)
	EdgeConnecting(from, to string) (store.Edge, bool)
}

// Roots reports which node IDs terminate a walk.
type Roots interface {
	Contains(id string) bool
}

// Result is a trace in root-to-leaf order.
type Result struct {
	Nodes []string `json:"nodes" yaml:"nodes"`
	Edges []string `json:"edges" yaml:"edges"`
}

// Empty reports whether the trace found no path.
func (r Result) Empty() bool { return len(r.Nodes) == 0 }

// Nodes returns the IDs from id up to and including the first root reached,
// ordered leaf first. It returns nil if no root is reached within MaxHops.
func Nodes(g Graph, roots Roots, id string) []string {
	var path []string
	current := id
	for hops := 0; ; hops++ {
		n, ok := g.Node(current)
		if !ok {
			return nil
		}
		path = append(path, current)
		if roots.Contains(current) {
			return path
		}
		if hops >= MaxHops || !n.HasParent() {
			return nil
		}
		current = n.Parent
	}
}

// Edges returns the IDs of the edges joining consecutive nodes of a
// root-first path, looking up each pair in the parent -> child direction.
// Pairs without an edge are skipped.
func Edges(g Graph, rootFirst []string) []string {
	var ids []string
	for i := 0; i+1 < len(rootFirst); i++ {
		if e, ok := g.EdgeConnecting(rootFirst[i], rootFirst[i+1]); ok {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Trace computes the root-first node path to id and the edges along it.
func Trace(g Graph, roots Roots, id string) Result {
	nodes := Nodes(g, roots, id)
	if len(nodes) == 0 {
		return Result{}
	}
	slices.Reverse(nodes)
	return Result{Nodes: nodes, Edges: Edges(g, nodes)}
}

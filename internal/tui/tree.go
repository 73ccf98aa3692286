package tui

import "wikitrail/trail/internal/store"

// row is one line of the outline: a node and its indentation.
type row struct {
	node  store.Node
	depth int
}

// outline orders nodes depth-first along parent pointers. Nodes without a
// parent in the set start a new top-level entry, in insertion order.
func outline(nodes []store.Node) []row {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}
	children := make(map[string][]store.Node)
	var tops []store.Node
	for _, n := range nodes {
		if n.HasParent() && present[n.Parent] && n.Parent != n.ID {
			children[n.Parent] = append(children[n.Parent], n)
		} else {
			tops = append(tops, n)
		}
	}

	rows := make([]row, 0, len(nodes))
	visited := make(map[string]bool, len(nodes))
	var walk func(n store.Node, depth int)
	walk = func(n store.Node, depth int) {
		if visited[n.ID] {
			return
		}
		visited[n.ID] = true
		rows = append(rows, row{node: n, depth: depth})
		for _, c := range children[n.ID] {
			walk(c, depth+1)
		}
	}
	for _, n := range tops {
		walk(n, 0)
	}
	// Parent cycles have no top-level entry.
	for _, n := range nodes {
		walk(n, 0)
	}
	return rows
}

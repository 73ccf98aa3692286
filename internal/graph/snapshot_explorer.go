package graph

import (
	"slices"

	"wikitrail/trail/internal/explorer"
)

// SnapshotFromExplorer builds a GraphSnapshot from an explorer snapshot
func SnapshotFromExplorer(s explorer.Snapshot) *GraphSnapshot {
	nodes := make([]*NodeInfo, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		nodes = append(nodes, &NodeInfo{
			ID:     n.ID,
			Name:   n.Name,
			Level:  n.Level,
			Parent: n.Parent,
			Root:   slices.Contains(s.Roots, n.ID),
		})
	}

	edges := make([]EdgeInfo, 0, len(s.Edges))
	for _, e := range s.Edges {
		edges = append(edges, EdgeInfo{ID: e.ID, From: e.From, To: e.To})
	}

	return NewSnapshot(nodes, edges)
}

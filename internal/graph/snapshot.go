// Package graph analyzes a snapshot of the explored graph: topology,
// articulation points and bridges, branch fragility, reach, and related
// topics.
package graph

import "sort"

// Unassigned is the branch of a node whose parent chain is broken.
const Unassigned = "unassigned"

// NodeInfo is a lightweight node representation decoupled from the explorer
type NodeInfo struct {
	ID     string
	Name   string
	Level  int
	Parent string // "" for roots
	Root   bool
}

// EdgeInfo is a lightweight edge representation
type EdgeInfo struct {
	ID   string
	From string
	To   string
}

// GraphSnapshot holds a graph with precomputed adjacency lists and branch map
type GraphSnapshot struct {
	Nodes    map[string]*NodeInfo
	Edges    []EdgeInfo
	Adj      map[string][]string // undirected
	OutAdj   map[string][]string // directed: from -> to
	InAdj    map[string][]string // directed: to -> from
	Branches map[string]string   // node ID -> level-1 ancestor
}

// NewSnapshot builds a GraphSnapshot from raw nodes and edges. Edges with a
// missing endpoint are dropped.
func NewSnapshot(nodes []*NodeInfo, edges []EdgeInfo) *GraphSnapshot {
	nodeMap := make(map[string]*NodeInfo, len(nodes))
	adj := make(map[string][]string)
	outAdj := make(map[string][]string)
	inAdj := make(map[string][]string)

	for _, n := range nodes {
		nodeMap[n.ID] = n
		adj[n.ID] = nil // ensure entry exists
		outAdj[n.ID] = nil
		inAdj[n.ID] = nil
	}

	kept := make([]EdgeInfo, 0, len(edges))
	for _, e := range edges {
		if _, ok := nodeMap[e.From]; !ok {
			continue
		}
		if _, ok := nodeMap[e.To]; !ok {
			continue
		}
		kept = append(kept, e)
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
		outAdj[e.From] = append(outAdj[e.From], e.To)
		inAdj[e.To] = append(inAdj[e.To], e.From)
	}

	return &GraphSnapshot{
		Nodes:    nodeMap,
		Edges:    kept,
		Adj:      adj,
		OutAdj:   outAdj,
		InAdj:    inAdj,
		Branches: computeBranches(nodeMap),
	}
}

// FilterToBranch returns a new snapshot containing only id and the nodes
// whose parent chain passes through it
func (s *GraphSnapshot) FilterToBranch(id string) *GraphSnapshot {
	included := make(map[string]bool)
	for nid := range s.Nodes {
		isDescendantOf(nid, id, s.Nodes, included, make(map[string]bool))
	}

	var filteredNodes []*NodeInfo
	for _, nid := range s.NodeIDs() {
		if included[nid] {
			filteredNodes = append(filteredNodes, s.Nodes[nid])
		}
	}

	var filteredEdges []EdgeInfo
	for _, e := range s.Edges {
		if included[e.From] && included[e.To] {
			filteredEdges = append(filteredEdges, e)
		}
	}

	return NewSnapshot(filteredNodes, filteredEdges)
}

// NodeIDs returns a sorted list of all node IDs (for deterministic output)
func (s *GraphSnapshot) NodeIDs() []string {
	ids := make([]string, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Name returns the display name of a node, or its ID if unknown
func (s *GraphSnapshot) Name(id string) string {
	if n, ok := s.Nodes[id]; ok && n.Name != "" {
		return n.Name
	}
	return id
}

func isDescendantOf(nodeID, ancestorID string, nodes map[string]*NodeInfo, cache, visiting map[string]bool) bool {
	if nodeID == ancestorID {
		cache[nodeID] = true
		return true
	}
	if cached, ok := cache[nodeID]; ok {
		return cached
	}
	node, ok := nodes[nodeID]
	if !ok || node.Parent == "" || visiting[nodeID] {
		cache[nodeID] = false
		return false
	}
	visiting[nodeID] = true
	result := isDescendantOf(node.Parent, ancestorID, nodes, cache, visiting)
	cache[nodeID] = result
	return result
}

func computeBranches(nodes map[string]*NodeInfo) map[string]string {
	branches := make(map[string]string, len(nodes))
	for id, node := range nodes {
		if node.Level <= 1 {
			branches[id] = id
		} else {
			branches[id] = findLevel1Ancestor(id, nodes)
		}
	}
	return branches
}

func findLevel1Ancestor(nodeID string, nodes map[string]*NodeInfo) string {
	current := nodeID
	visited := make(map[string]bool)
	for {
		if visited[current] {
			return Unassigned // cycle
		}
		visited[current] = true
		node, ok := nodes[current]
		if !ok {
			return Unassigned
		}
		if node.Level <= 1 {
			return current
		}
		if node.Parent == "" {
			return Unassigned
		}
		current = node.Parent
	}
}

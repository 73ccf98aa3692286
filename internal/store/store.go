// Package store holds the node and edge collections of an explored graph.
//
// The Store is the only mutator of graph data. It is not safe for concurrent
// use; the owning explorer serializes access. Every query returns copies, so
// callers may mutate the store while ranging over a previous result.
//
// Two relations are kept apart: the directed edge relation (out/in indexes)
// used for rendering and edge lookup, and the single-parent tree relation
// (Node.Parent) used for ancestry walks. Neither is derived from the other.
package store

import (
	"sort"

	"github.com/google/uuid"
)

// Store is an in-memory directed graph keyed by normalized node ID.
type Store struct {
	nodes map[string]*nodeEntry
	edges map[string]*edgeEntry
	out   map[string]map[string]string // from -> to -> edge ID
	in    map[string]map[string]string // to -> from -> edge ID
	seq   uint64

	// NewEdgeID assigns IDs to edges inserted without one.
	NewEdgeID func() string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		nodes:     make(map[string]*nodeEntry),
		edges:     make(map[string]*edgeEntry),
		out:       make(map[string]map[string]string),
		in:        make(map[string]map[string]string),
		NewEdgeID: uuid.NewString,
	}
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

// AddNodes inserts nodes and returns the IDs actually added. A node whose ID
// already exists, or that has an empty ID, is skipped; the existing record is
// left untouched.
func (s *Store) AddNodes(nodes ...Node) []string {
	added := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, ok := s.nodes[n.ID]; ok {
			continue
		}
		s.nodes[n.ID] = &nodeEntry{node: n, seq: s.next()}
		added = append(added, n.ID)
	}
	return added
}

// AddEdges inserts edges and returns the inserted records with their IDs.
// An edge is dropped when an edge with the same direction already connects
// its endpoints, when either endpoint is missing, or when it is a self-loop.
func (s *Store) AddEdges(edges ...Edge) []Edge {
	added := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		if !s.Has(e.From) || !s.Has(e.To) {
			continue
		}
		if _, ok := s.EdgeConnecting(e.From, e.To); ok {
			continue
		}
		if e.ID == "" {
			e.ID = s.NewEdgeID()
		}
		if _, ok := s.edges[e.ID]; ok {
			continue
		}
		s.link(e)
		added = append(added, e)
	}
	return added
}

func (s *Store) link(e Edge) {
	s.edges[e.ID] = &edgeEntry{edge: e, seq: s.next()}
	if s.out[e.From] == nil {
		s.out[e.From] = make(map[string]string)
	}
	if s.in[e.To] == nil {
		s.in[e.To] = make(map[string]string)
	}
	s.out[e.From][e.To] = e.ID
	s.in[e.To][e.From] = e.ID
}

func (s *Store) unlink(id string) (Edge, bool) {
	entry, ok := s.edges[id]
	if !ok {
		return Edge{}, false
	}
	e := entry.edge
	delete(s.edges, id)
	delete(s.out[e.From], e.To)
	if len(s.out[e.From]) == 0 {
		delete(s.out, e.From)
	}
	delete(s.in[e.To], e.From)
	if len(s.in[e.To]) == 0 {
		delete(s.in, e.To)
	}
	return e, true
}

// RemoveNode deletes a node after deleting every edge incident to it. It
// returns the removed node and edges, or false if the node was absent.
// Sizes of former neighbors are not recomputed; see SyncSizes.
func (s *Store) RemoveNode(id string) (Node, []Edge, bool) {
	entry, ok := s.nodes[id]
	if !ok {
		return Node{}, nil, false
	}
	incident := s.IncidentEdges(id)
	removed := make([]Edge, 0, len(incident))
	for _, e := range incident {
		if gone, ok := s.unlink(e.ID); ok {
			removed = append(removed, gone)
		}
	}
	delete(s.nodes, id)
	return entry.node, removed, true
}

// RemoveEdge deletes a single edge by ID.
func (s *Store) RemoveEdge(id string) (Edge, bool) {
	return s.unlink(id)
}

// UpdateNode applies patch to the stored node. The ID cannot be changed
// through a patch. It reports whether the node existed.
func (s *Store) UpdateNode(id string, patch func(n *Node)) bool {
	entry, ok := s.nodes[id]
	if !ok {
		return false
	}
	patch(&entry.node)
	entry.node.ID = id
	return true
}

// Has reports whether a node with the given ID exists.
func (s *Store) Has(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Node returns a copy of the node with the given ID.
func (s *Store) Node(id string) (Node, bool) {
	entry, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return entry.node, true
}

// Edge returns a copy of the edge with the given ID.
func (s *Store) Edge(id string) (Edge, bool) {
	entry, ok := s.edges[id]
	if !ok {
		return Edge{}, false
	}
	return entry.edge, true
}

// EdgeConnecting returns the edge from -> to, if any. Direction matters.
func (s *Store) EdgeConnecting(from, to string) (Edge, bool) {
	id, ok := s.out[from][to]
	if !ok {
		return Edge{}, false
	}
	return s.Edge(id)
}

// Nodes returns all nodes in insertion order.
func (s *Store) Nodes() []Node {
	return s.NodesWhere(nil)
}

// NodesWhere returns the nodes matching pred in insertion order. A nil pred
// matches every node.
func (s *Store) NodesWhere(pred func(Node) bool) []Node {
	entries := make([]*nodeEntry, 0, len(s.nodes))
	for _, entry := range s.nodes {
		if pred == nil || pred(entry.node) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	nodes := make([]Node, len(entries))
	for i, entry := range entries {
		nodes[i] = entry.node
	}
	return nodes
}

// IDs returns every node ID in insertion order.
func (s *Store) IDs() []string {
	nodes := s.Nodes()
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// Edges returns all edges in insertion order.
func (s *Store) Edges() []Edge {
	return s.edgesWhere(nil)
}

func (s *Store) edgesWhere(pred func(Edge) bool) []Edge {
	entries := make([]*edgeEntry, 0, len(s.edges))
	for _, entry := range s.edges {
		if pred == nil || pred(entry.edge) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	edges := make([]Edge, len(entries))
	for i, entry := range entries {
		edges[i] = entry.edge
	}
	return edges
}

// IncidentEdges returns every edge with id as either endpoint.
func (s *Store) IncidentEdges(id string) []Edge {
	return s.edgesWhere(func(e Edge) bool { return e.From == id || e.To == id })
}

// Neighbors returns the IDs adjacent to id in either direction, each once,
// in edge insertion order.
func (s *Store) Neighbors(id string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range s.IncidentEdges(id) {
		other := e.To
		if other == id {
			other = e.From
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids
}

// Degree counts the edges incident to id.
func (s *Store) Degree(id string) int {
	return len(s.out[id]) + len(s.in[id])
}

// Len returns the number of nodes.
func (s *Store) Len() int { return len(s.nodes) }

// EdgeLen returns the number of edges.
func (s *Store) EdgeLen() int { return len(s.edges) }

// SyncSizes sets Size to the current degree for each listed node that exists.
func (s *Store) SyncSizes(ids ...string) {
	for _, id := range ids {
		if entry, ok := s.nodes[id]; ok {
			entry.node.Size = s.Degree(id)
		}
	}
}

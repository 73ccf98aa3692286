package graph

import (
	"sort"

	"wikitrail/trail/internal/store"
	"wikitrail/trail/internal/trace"
)

// DetachedNode is a node whose parent chain does not reach a root
type DetachedNode struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Level int    `json:"level" yaml:"level"`
}

// ReachReport contains traceback analysis results
type ReachReport struct {
	Reachable     int            `json:"reachable" yaml:"reachable"`
	DetachedCount int            `json:"detached_count" yaml:"detached_count"`
	Detached      []DetachedNode `json:"detached" yaml:"detached"`
	MaxDepth      int            `json:"max_depth" yaml:"max_depth"`
	AvgDepth      float64        `json:"avg_depth" yaml:"avg_depth"`
}

// traceView adapts a snapshot to the traceback engine.
type traceView struct {
	snap  *GraphSnapshot
	pairs map[[2]string]string
}

func newTraceView(snap *GraphSnapshot) *traceView {
	pairs := make(map[[2]string]string, len(snap.Edges))
	for _, e := range snap.Edges {
		pairs[[2]string{e.From, e.To}] = e.ID
	}
	return &traceView{snap: snap, pairs: pairs}
}

func (v *traceView) Node(id string) (store.Node, bool) {
	n, ok := v.snap.Nodes[id]
	if !ok {
		return store.Node{}, false
	}
	return store.Node{ID: n.ID, Name: n.Name, Level: n.Level, Parent: n.Parent}, true
}

func (v *traceView) EdgeConnecting(from, to string) (store.Edge, bool) {
	id, ok := v.pairs[[2]string{from, to}]
	if !ok {
		return store.Edge{}, false
	}
	return store.Edge{ID: id, From: from, To: to}, true
}

func (v *traceView) Contains(id string) bool {
	n, ok := v.snap.Nodes[id]
	return ok && n.Root
}

// ComputeReach traces every node back to a root. Nodes whose trace is empty
// are detached; depth is the number of parent hops to the root.
func ComputeReach(snap *GraphSnapshot, topN int) *ReachReport {
	view := newTraceView(snap)
	r := &ReachReport{}

	totalDepth := 0
	for _, id := range snap.NodeIDs() {
		chain := trace.Nodes(view, view, id)
		if len(chain) == 0 {
			n := snap.Nodes[id]
			r.Detached = append(r.Detached, DetachedNode{ID: id, Name: snap.Name(id), Level: n.Level})
			continue
		}
		r.Reachable++
		depth := len(chain) - 1
		totalDepth += depth
		if depth > r.MaxDepth {
			r.MaxDepth = depth
		}
	}

	r.DetachedCount = len(r.Detached)
	if r.Reachable > 0 {
		r.AvgDepth = float64(totalDepth) / float64(r.Reachable)
	}
	sort.SliceStable(r.Detached, func(i, j int) bool { return r.Detached[i].Level < r.Detached[j].Level })
	if len(r.Detached) > topN {
		r.Detached = r.Detached[:topN]
	}
	return r
}

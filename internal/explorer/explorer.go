// Package explorer coordinates the explored graph: it owns the store, the
// root set, and the highlight machine, runs expansions against a link
// source, and pushes every change to a Surface.
//
// Every synchronous operation runs to completion under one mutex. The only
// call made without it is the link source lookup inside Expand, so the graph
// is never observed half-updated and concurrent expansions are allowed.
package explorer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"wikitrail/trail/internal/highlight"
	"wikitrail/trail/internal/linksource"
	"wikitrail/trail/internal/metrics"
	"wikitrail/trail/internal/normalize"
	"wikitrail/trail/internal/store"
	"wikitrail/trail/internal/trace"
)

// ErrUnknownNode is returned when an operation names a node not in the graph.
var ErrUnknownNode = errors.New("unknown node")

const (
	minJitter = 5.0
	maxJitter = 15.0
)

// Options configure an Explorer. The zero value is usable.
type Options struct {
	// Surface receives every change. Defaults to a new Mirror.
	Surface Surface
	// LabelWidth wraps display labels. Defaults to normalize.DefaultLabelWidth.
	LabelWidth int
	Metrics    *metrics.Registry
	Logger     *slog.Logger
	// Rand drives spawn jitter.
	Rand *rand.Rand
	// NewEdgeID overrides edge ID generation.
	NewEdgeID func() string
}

// Explorer is the graph state engine.
type Explorer struct {
	mu      sync.Mutex
	g       *store.Store
	roots   *trace.RootSet
	hl      *highlight.Machine
	surface Surface
	source  linksource.Source

	labelWidth int
	rand       *rand.Rand
	metrics    *metrics.Registry
	log        *slog.Logger
}

// New returns an empty explorer resolving topics through src.
func New(src linksource.Source, opts Options) *Explorer {
	x := &Explorer{
		g:          store.New(),
		roots:      trace.NewRootSet(),
		hl:         highlight.New(),
		surface:    opts.Surface,
		source:     src,
		labelWidth: opts.LabelWidth,
		rand:       opts.Rand,
		metrics:    opts.Metrics,
		log:        opts.Logger,
	}
	if x.surface == nil {
		x.surface = NewMirror()
	}
	if x.labelWidth <= 0 {
		x.labelWidth = normalize.DefaultLabelWidth
	}
	if x.rand == nil {
		x.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if x.log == nil {
		x.log = slog.Default()
	}
	if opts.NewEdgeID != nil {
		x.g.NewEdgeID = opts.NewEdgeID
	}
	return x
}

// Surface returns the surface changes are pushed to.
func (x *Explorer) Surface() Surface { return x.surface }

// Seed inserts topics as level-0 roots and returns the IDs added. Topics that
// normalize to an existing node are skipped.
func (x *Explorer) Seed(names ...string) []string {
	x.mu.Lock()
	defer x.mu.Unlock()

	c := newChanges(x.g)
	var nodes []store.Node
	for _, name := range names {
		id := normalize.ID(name)
		if id == "" || x.g.Has(id) {
			continue
		}
		px, py := x.spawnNear(float64(x.roots.Len())*4*maxJitter, 0)
		c.node(id)
		nodes = append(nodes, store.Node{
			ID:    id,
			Name:  name,
			Label: normalize.Label(name, x.labelWidth),
			Level: 0,
			Color: highlight.LevelColor(0),
			X:     px,
			Y:     py,
		})
		x.roots.Add(id)
	}
	added := x.g.AddNodes(nodes...)
	x.flush(c)
	x.log.Debug("seeded", "nodes", added)
	return added
}

// Node returns a copy of one node.
func (x *Explorer) Node(id string) (store.Node, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.g.Node(id)
}

// Len returns the number of nodes.
func (x *Explorer) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.g.Len()
}

// Select traces id and returns the trace in root-to-leaf order.
func (x *Explorer) Select(id string) (trace.Result, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.g.Has(id) {
		return trace.Result{}, fmt.Errorf("selecting %q: %w", id, ErrUnknownNode)
	}
	u := x.hl.Select(x.g, x.roots, x.surface, id)
	x.push(Batch{Styles: u})
	tr := x.hl.Trace()
	if tr.Empty() && !x.roots.Contains(id) {
		x.log.Warn("no trace to a root", "node", id)
	}
	return tr, nil
}

// Reset clears the highlight. It is a no-op when nothing is highlighted.
func (x *Explorer) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.push(Batch{Styles: x.hl.Reset(x.g)})
}

// Remove deletes a node and its edges. Removing an absent node is a no-op
// and returns false.
func (x *Explorer) Remove(id string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.g.Has(id) {
		return false
	}
	if x.hl.References(id) {
		x.push(Batch{Styles: x.hl.Reset(x.g)})
	}

	neighbors := x.g.Neighbors(id)
	c := newChanges(x.g)
	c.node(id)
	c.node(neighbors...)
	for _, e := range x.g.IncidentEdges(id) {
		c.edge(e.ID, true)
	}

	_, removed, _ := x.g.RemoveNode(id)
	x.g.SyncSizes(neighbors...)
	x.roots.Remove(id)

	edgeIDs := make([]string, 0, len(removed))
	for _, e := range removed {
		edgeIDs = append(edgeIDs, e.ID)
	}
	x.hl.Forget([]string{id}, edgeIDs)

	x.push(c.batch())
	x.metrics.RecordRemoval()
	x.metrics.SetGraphSize(x.g.Len(), x.g.EdgeLen())
	x.log.Debug("removed node", "node", id, "edges", len(removed))
	return true
}

// flush pushes the structural changes in c, then refreshes an active
// highlight against the new graph.
func (x *Explorer) flush(c *changes) {
	x.push(c.batch())
	x.push(Batch{Styles: x.hl.Refresh(x.g, x.roots, x.surface)})
	x.metrics.SetGraphSize(x.g.Len(), x.g.EdgeLen())
}

func (x *Explorer) push(b Batch) {
	if b.Empty() {
		return
	}
	x.surface.Apply(b)
}

// spawnNear returns a point between minJitter and maxJitter from the anchor.
func (x *Explorer) spawnNear(ax, ay float64) (float64, float64) {
	r := minJitter + x.rand.Float64()*(maxJitter-minJitter)
	theta := x.rand.Float64() * 2 * math.Pi
	return ax + r*math.Cos(theta), ay + r*math.Sin(theta)
}

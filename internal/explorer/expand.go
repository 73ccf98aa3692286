package explorer

import (
	"context"
	"fmt"
	"time"

	"wikitrail/trail/internal/highlight"
	"wikitrail/trail/internal/normalize"
	"wikitrail/trail/internal/store"
)

// Outcome describes what one expansion did to the graph.
type Outcome struct {
	// ID is the expanded node after any rename.
	ID     string
	Rename RenameOutcome
	// AddedNodes are the children created, in link order.
	AddedNodes []string
	// AddedEdges are the edges created, in link order.
	AddedEdges []string
	// Stale is set when the node was removed while its links were being
	// fetched; nothing was changed.
	Stale bool
}

// Expand fetches the links of node id and merges them in as children. The
// link source is called without holding the explorer lock; on any source
// error the graph is left untouched and the call may be retried. Existing
// children and edges are skipped, so repeating an expansion only adds what
// is missing.
func (x *Explorer) Expand(ctx context.Context, id string) (Outcome, error) {
	start := time.Now()

	x.mu.Lock()
	n, ok := x.g.Node(id)
	x.mu.Unlock()
	if !ok {
		return Outcome{}, fmt.Errorf("expanding %q: %w", id, ErrUnknownNode)
	}

	res, err := x.source.Resolve(ctx, n.Name)
	if err != nil {
		x.metrics.RecordExpansion("error", time.Since(start))
		return Outcome{ID: id}, fmt.Errorf("expanding %q: %w", n.Name, err)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	// An overlapping expansion may already have renamed the node to its
	// canonical ID; merge into that node instead of dropping the response.
	if !x.g.Has(id) {
		if canon := normalize.ID(res.CanonicalName); canon != "" && x.g.Has(canon) {
			id = canon
		}
	}
	if !x.g.Has(id) {
		x.metrics.RecordExpansion("stale", time.Since(start))
		x.log.Warn("expanded node was removed during fetch", "node", id)
		return Outcome{ID: id, Stale: true}, nil
	}

	c := newChanges(x.g)
	rn := x.rename(c, id, res.CanonicalName)
	out := Outcome{ID: rn.ID, Rename: rn}

	parent, _ := x.g.Node(rn.ID)
	level := parent.Level + 1

	var (
		children []store.Node
		edges    []store.Edge
		linked   []string
		pending  = make(map[string]bool)
	)
	for _, name := range res.Links {
		cid := normalize.ID(name)
		if cid == "" || cid == rn.ID {
			continue
		}
		childLevel := level
		if existing, ok := x.g.Node(cid); ok {
			childLevel = existing.Level
		} else if !pending[cid] {
			pending[cid] = true
			cx, cy := x.spawnNear(parent.X, parent.Y)
			c.node(cid)
			children = append(children, store.Node{
				ID:     cid,
				Name:   name,
				Label:  normalize.Label(name, x.labelWidth),
				Level:  level,
				Parent: rn.ID,
				Color:  highlight.LevelColor(level),
				X:      cx,
				Y:      cy,
			})
		}
		edges = append(edges, store.Edge{From: rn.ID, To: cid, Level: childLevel})
		linked = append(linked, cid)
	}

	out.AddedNodes = x.g.AddNodes(children...)
	for _, e := range x.g.AddEdges(edges...) {
		c.edge(e.ID, false)
		out.AddedEdges = append(out.AddedEdges, e.ID)
	}

	c.node(rn.ID)
	c.node(linked...)
	x.g.SyncSizes(rn.ID)
	x.g.SyncSizes(linked...)

	x.flush(c)
	x.metrics.RecordExpansion("ok", time.Since(start))
	x.log.Debug("expanded node",
		"node", rn.ID, "rename", rn.Kind, "links", len(res.Links),
		"nodes_added", len(out.AddedNodes), "edges_added", len(out.AddedEdges))
	return out, nil
}

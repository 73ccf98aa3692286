package explorer

import (
	"fmt"

	"wikitrail/trail/internal/normalize"
	"wikitrail/trail/internal/store"
	"wikitrail/trail/internal/trace"
)

// RenameKind says how a rename changed the graph.
type RenameKind int

const (
	// Unchanged means the new name normalizes to the old ID.
	Unchanged RenameKind = iota
	// Renamed means the node moved to a free ID.
	Renamed
	// Merged means the node folded into an existing node.
	Merged
)

func (k RenameKind) String() string {
	switch k {
	case Renamed:
		return "renamed"
	case Merged:
		return "merged"
	default:
		return "unchanged"
	}
}

// RenameOutcome is the result of a rename. ID is the surviving node.
type RenameOutcome struct {
	Kind RenameKind
	ID   string
}

// Rename folds the node oldID into the node named newName. See rename.
func (x *Explorer) Rename(oldID, newName string) (RenameOutcome, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.g.Has(oldID) {
		return RenameOutcome{}, fmt.Errorf("renaming %q: %w", oldID, ErrUnknownNode)
	}
	c := newChanges(x.g)
	out := x.rename(c, oldID, newName)
	x.flush(c)
	return out, nil
}

// rename reconciles oldID with the entity named newName. Edges move first,
// then the node record is merged into an existing newID or rekeyed to it,
// then children, the root set, and the highlight follow. The caller holds
// x.mu and flushes c.
func (x *Explorer) rename(c *changes, oldID, newName string) RenameOutcome {
	newID := normalize.ID(newName)
	if newID == "" || newID == oldID {
		return RenameOutcome{Kind: Unchanged, ID: oldID}
	}
	old, _ := x.g.Node(oldID)

	c.node(oldID, newID)
	for _, e := range x.g.IncidentEdges(oldID) {
		c.edge(e.ID, true)
	}
	children := x.g.NodesWhere(func(n store.Node) bool { return n.Parent == oldID })
	for _, n := range children {
		c.node(n.ID)
	}

	touched := x.g.RepointEdges(oldID, newID)
	c.node(touched...)

	label := normalize.Label(newName, x.labelWidth)
	kind := Renamed
	if x.g.Has(newID) {
		kind = Merged
		inherit := x.descendsFrom(newID, oldID)
		x.g.RemoveNode(oldID)
		x.g.UpdateNode(newID, func(n *store.Node) {
			n.Name = newName
			n.Label = label
			// A survivor descended from the merged node takes over its parent.
			if inherit {
				n.Parent = old.Parent
			}
		})
	} else {
		x.g.Rekey(oldID, newID, func(n *store.Node) {
			n.Name = newName
			n.Label = label
		})
	}
	x.g.RepointParents(oldID, newID)

	x.roots.Rename(oldID, newID)
	x.hl.Rename(oldID, newID)
	var dropped []string
	for _, id := range c.edges {
		if _, ok := x.g.Edge(id); !ok {
			dropped = append(dropped, id)
		}
	}
	x.hl.Forget([]string{oldID}, dropped)

	x.g.SyncSizes(touched...)
	x.g.SyncSizes(newID)

	x.metrics.RecordRename(kind.String())
	x.log.Debug("renamed node", "kind", kind, "from", oldID, "to", newID, "dropped_edges", len(dropped))
	return RenameOutcome{Kind: kind, ID: newID}
}

// descendsFrom reports whether ancestor appears on id's parent chain.
func (x *Explorer) descendsFrom(id, ancestor string) bool {
	n, ok := x.g.Node(id)
	for hops := 0; ok && n.Parent != "" && hops < trace.MaxHops; hops++ {
		if n.Parent == ancestor {
			return true
		}
		n, ok = x.g.Node(n.Parent)
	}
	return false
}

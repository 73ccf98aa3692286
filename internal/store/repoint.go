package store

// RepointEdges rewrites every edge endpoint equal to oldID to newID, keeping
// edge IDs. newID does not need to exist yet. A rewritten edge that would
// duplicate an existing same-direction edge, or become a self-loop, is
// dropped. It returns the IDs of every node whose degree may have changed.
func (s *Store) RepointEdges(oldID, newID string) []string {
	if oldID == newID {
		return nil
	}
	touched := make(map[string]bool)
	var order []string
	touch := func(id string) {
		if !touched[id] {
			touched[id] = true
			order = append(order, id)
		}
	}

	for _, e := range s.IncidentEdges(oldID) {
		seq := s.edges[e.ID].seq
		s.unlink(e.ID)
		touch(e.From)
		touch(e.To)

		if e.From == oldID {
			e.From = newID
		}
		if e.To == oldID {
			e.To = newID
		}
		touch(e.From)
		touch(e.To)

		if e.From == e.To {
			continue
		}
		if _, dup := s.out[e.From][e.To]; dup {
			continue
		}
		s.link(e)
		s.edges[e.ID].seq = seq
	}
	return order
}

// RepointParents sets Parent to newID on every node whose Parent is oldID and
// returns the IDs changed. A node never becomes its own parent; such a node
// has its Parent cleared instead.
func (s *Store) RepointParents(oldID, newID string) []string {
	var changed []string
	for _, n := range s.NodesWhere(func(n Node) bool { return n.Parent == oldID }) {
		parent := newID
		if n.ID == newID {
			parent = ""
		}
		s.UpdateNode(n.ID, func(node *Node) { node.Parent = parent })
		changed = append(changed, n.ID)
	}
	return changed
}

// Rekey moves the node stored under oldID to newID, keeping its insertion
// position and every attribute except the ID, then applies patch. It fails if
// oldID is missing or newID is taken. Edges are not touched; use
// RepointEdges first.
func (s *Store) Rekey(oldID, newID string, patch func(n *Node)) bool {
	entry, ok := s.nodes[oldID]
	if !ok || newID == "" {
		return false
	}
	if _, taken := s.nodes[newID]; taken {
		return false
	}
	delete(s.nodes, oldID)
	entry.node.ID = newID
	if patch != nil {
		patch(&entry.node)
		entry.node.ID = newID
	}
	s.nodes[newID] = entry
	return true
}

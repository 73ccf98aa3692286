package trace

import "slices"

// RootSet is an ordered set of root node IDs.
type RootSet struct {
	ids []string
}

// NewRootSet builds a set from ids, dropping duplicates.
func NewRootSet(ids ...string) *RootSet {
	r := &RootSet{}
	for _, id := range ids {
		r.Add(id)
	}
	return r
}

// Add appends id unless it is already present.
func (r *RootSet) Add(id string) bool {
	if id == "" || r.Contains(id) {
		return false
	}
	r.ids = append(r.ids, id)
	return true
}

// Contains reports membership.
func (r *RootSet) Contains(id string) bool {
	return slices.Contains(r.ids, id)
}

// Remove deletes id, keeping the order of the rest.
func (r *RootSet) Remove(id string) bool {
	i := slices.Index(r.ids, id)
	if i < 0 {
		return false
	}
	r.ids = slices.Delete(r.ids, i, i+1)
	return true
}

// Rename replaces oldID with newID in place. If newID is already a root the
// old entry is dropped instead.
func (r *RootSet) Rename(oldID, newID string) bool {
	i := slices.Index(r.ids, oldID)
	if i < 0 || oldID == newID {
		return false
	}
	if r.Contains(newID) {
		r.ids = slices.Delete(r.ids, i, i+1)
		return true
	}
	r.ids[i] = newID
	return true
}

// IDs returns a copy of the roots in order.
func (r *RootSet) IDs() []string {
	return slices.Clone(r.ids)
}

// Len returns the number of roots.
func (r *RootSet) Len() int { return len(r.ids) }

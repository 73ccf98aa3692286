package graph

import (
	"math"
	"sort"
)

// RelatedNode is a node with its similarity score to a target node.
type RelatedNode struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
	Shared     int     `json:"shared" yaml:"shared"`
}

// CosineSimilarity computes cosine similarity between two link sets viewed
// as binary vectors. Returns 0.0 if either set is empty.
func CosineSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return float64(shared(a, b)) / math.Sqrt(float64(len(a))*float64(len(b)))
}

func shared(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if b[id] {
			n++
		}
	}
	return n
}

func neighborSet(snap *GraphSnapshot, id string) map[string]bool {
	set := make(map[string]bool, len(snap.Adj[id]))
	for _, other := range snap.Adj[id] {
		if other != id {
			set[other] = true
		}
	}
	return set
}

// FindRelated finds the top-N nodes whose neighbors most resemble id's.
// Only returns nodes with similarity >= minSimilarity. Results are sorted by
// descending similarity, then ID.
func FindRelated(snap *GraphSnapshot, id string, topN int, minSimilarity float64) []RelatedNode {
	target := neighborSet(snap, id)
	if len(target) == 0 {
		return nil
	}

	var results []RelatedNode
	for _, cid := range snap.NodeIDs() {
		if cid == id {
			continue
		}
		candidate := neighborSet(snap, cid)
		sim := CosineSimilarity(target, candidate)
		if sim > 0 && sim >= minSimilarity {
			results = append(results, RelatedNode{
				ID:         cid,
				Name:       snap.Name(cid),
				Similarity: sim,
				Shared:     shared(target, candidate),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

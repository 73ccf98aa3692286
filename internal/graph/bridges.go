package graph

import "sort"

// ArticulationPoint is a node whose removal disconnects the graph.
// ComponentsIfRemoved counts the pieces its component falls into.
type ArticulationPoint struct {
	ID                  string `json:"id" yaml:"id"`
	Name                string `json:"name" yaml:"name"`
	ComponentsIfRemoved int    `json:"components_if_removed" yaml:"components_if_removed"`
}

// BridgeEdge is a link whose removal disconnects the graph
type BridgeEdge struct {
	FromID   string `json:"from_id" yaml:"from_id"`
	ToID     string `json:"to_id" yaml:"to_id"`
	FromName string `json:"from_name" yaml:"from_name"`
	ToName   string `json:"to_name" yaml:"to_name"`
}

// FragileConnection represents two branches joined by very few links
type FragileConnection struct {
	BranchA    string `json:"branch_a" yaml:"branch_a"`
	BranchB    string `json:"branch_b" yaml:"branch_b"`
	CrossEdges int    `json:"cross_edges" yaml:"cross_edges"`
}

// BridgeReport contains bridge analysis results
type BridgeReport struct {
	ArticulationPoints []ArticulationPoint `json:"articulation_points" yaml:"articulation_points"`
	BridgeEdges        []BridgeEdge        `json:"bridge_edges" yaml:"bridge_edges"`
	FragileConnections []FragileConnection `json:"fragile_connections" yaml:"fragile_connections"`
	APCount            int                 `json:"ap_count" yaml:"ap_count"`
	BridgeCount        int                 `json:"bridge_count" yaml:"bridge_count"`
}

// ComputeBridges finds articulation points, bridge links, and fragile
// connections between branches. Link direction is ignored.
func ComputeBridges(snap *GraphSnapshot) *BridgeReport {
	if len(snap.Nodes) == 0 {
		return &BridgeReport{}
	}

	u := newUndirected(snap)
	cuts := u.cuts()

	report := &BridgeReport{FragileConnections: fragileConnections(snap)}
	for i, id := range u.ids {
		if cuts.splits[i] < 2 {
			continue
		}
		report.ArticulationPoints = append(report.ArticulationPoints, ArticulationPoint{
			ID:                  id,
			Name:                snap.Name(id),
			ComponentsIfRemoved: cuts.splits[i],
		})
	}
	for _, b := range cuts.bridges {
		from, to := u.ids[b[0]], u.ids[b[1]]
		report.BridgeEdges = append(report.BridgeEdges, BridgeEdge{
			FromID:   from,
			ToID:     to,
			FromName: snap.Name(from),
			ToName:   snap.Name(to),
		})
	}
	report.APCount = len(report.ArticulationPoints)
	report.BridgeCount = len(report.BridgeEdges)
	return report
}

// undirected is the snapshot as an index-addressed simple graph: opposite
// links collapse into one connection and self-links are dropped.
type undirected struct {
	ids []string
	adj [][]int
}

func newUndirected(snap *GraphSnapshot) *undirected {
	ids := snap.NodeIDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	u := &undirected{ids: ids, adj: make([][]int, len(ids))}
	linked := make(map[[2]int]bool)
	for _, e := range snap.Edges {
		a, okA := index[e.From]
		b, okB := index[e.To]
		if !okA || !okB || a == b {
			continue
		}
		key := [2]int{min(a, b), max(a, b)}
		if linked[key] {
			continue
		}
		linked[key] = true
		u.adj[a] = append(u.adj[a], b)
		u.adj[b] = append(u.adj[b], a)
	}
	return u
}

type cutSet struct {
	// splits[i] is how many pieces node i's component falls into without
	// it; values >= 2 mark articulation points.
	splits  []int
	bridges [][2]int
}

// cuts runs Tarjan's lowlink search over every component. The walk keeps an
// explicit stack so long chains of links cannot exhaust the goroutine stack.
func (u *undirected) cuts() cutSet {
	n := len(u.ids)
	order := make([]int, n) // discovery time, 0 = unvisited
	low := make([]int, n)
	separated := make([]int, n) // child subtrees that hang off the node alone
	isRoot := make([]bool, n)
	var bridges [][2]int

	type step struct{ node, parent, next int }
	clock := 0
	visit := func(v int) {
		clock++
		order[v] = clock
		low[v] = clock
	}

	for root := range n {
		if order[root] != 0 {
			continue
		}
		isRoot[root] = true
		visit(root)
		path := []step{{node: root, parent: -1}}

		for len(path) > 0 {
			top := &path[len(path)-1]
			v := top.node
			if top.next < len(u.adj[v]) {
				w := u.adj[v][top.next]
				top.next++
				switch {
				case w == top.parent:
				case order[w] != 0:
					low[v] = min(low[v], order[w])
				default:
					visit(w)
					path = append(path, step{node: w, parent: v})
				}
				continue
			}

			path = path[:len(path)-1]
			if len(path) == 0 {
				break
			}
			p := path[len(path)-1].node
			low[p] = min(low[p], low[v])
			if low[v] > order[p] {
				bridges = append(bridges, [2]int{p, v})
			}
			if low[v] >= order[p] {
				separated[p]++
			}
		}
	}

	cs := cutSet{splits: make([]int, n), bridges: bridges}
	for i := range n {
		switch {
		case isRoot[i]:
			cs.splits[i] = separated[i]
		case separated[i] > 0:
			// The piece holding the parent survives too.
			cs.splits[i] = separated[i] + 1
		}
	}
	return cs
}

// fragileConnections counts links between different branches and reports
// branch pairs joined by at most two. Each level-1 node heads its own
// branch, so links touching a root are skipped.
func fragileConnections(snap *GraphSnapshot) []FragileConnection {
	branchOf := func(id string) string {
		if b := snap.Branches[id]; b != "" {
			return b
		}
		return Unassigned
	}

	counts := make(map[[2]string]int)
	for _, e := range snap.Edges {
		if snap.Nodes[e.From].Level == 0 || snap.Nodes[e.To].Level == 0 {
			continue
		}
		a, b := branchOf(e.From), branchOf(e.To)
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		counts[[2]string{a, b}]++
	}

	var fragile []FragileConnection
	for pair, n := range counts {
		if n <= 2 {
			fragile = append(fragile, FragileConnection{BranchA: pair[0], BranchB: pair[1], CrossEdges: n})
		}
	}
	sort.Slice(fragile, func(i, j int) bool {
		if fragile[i].CrossEdges != fragile[j].CrossEdges {
			return fragile[i].CrossEdges < fragile[j].CrossEdges
		}
		if fragile[i].BranchA != fragile[j].BranchA {
			return fragile[i].BranchA < fragile[j].BranchA
		}
		return fragile[i].BranchB < fragile[j].BranchB
	})
	return fragile
}

package graph

import "sort"

// HubNode is a node with high connectivity
type HubNode struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Degree    int    `json:"degree" yaml:"degree"`
	InDegree  int    `json:"in_degree" yaml:"in_degree"`
	OutDegree int    `json:"out_degree" yaml:"out_degree"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// LevelCount is the number of nodes at one expansion level
type LevelCount struct {
	Level int `json:"level" yaml:"level"`
	Count int `json:"count" yaml:"count"`
}

// TopologyReport contains topology analysis results
type TopologyReport struct {
	TotalNodes        int            `json:"total_nodes" yaml:"total_nodes"`
	TotalEdges        int            `json:"total_edges" yaml:"total_edges"`
	NumRoots          int            `json:"num_roots" yaml:"num_roots"`
	NumComponents     int            `json:"num_components" yaml:"num_components"`
	LargestComponent  int            `json:"largest_component" yaml:"largest_component"`
	SmallestComponent int            `json:"smallest_component" yaml:"smallest_component"`
	OrphanCount       int            `json:"orphan_count" yaml:"orphan_count"`
	OrphanIDs         []string       `json:"orphan_ids" yaml:"orphan_ids"`
	DegreeHistogram   []DegreeBucket `json:"degree_histogram" yaml:"degree_histogram"`
	Levels            []LevelCount   `json:"levels" yaml:"levels"`
	Hubs              []HubNode      `json:"hubs" yaml:"hubs"`
}

// ComputeTopology analyzes graph topology: components, orphans, degree and
// level distribution, hubs
func ComputeTopology(snap *GraphSnapshot, hubThreshold, topN int) *TopologyReport {
	totalNodes := len(snap.Nodes)
	totalEdges := len(snap.Edges)

	if totalNodes == 0 {
		return &TopologyReport{
			DegreeHistogram: defaultHistogram(),
		}
	}

	// Connected components via UnionFind
	nodeIDs := snap.NodeIDs()
	uf := NewUnionFind(nodeIDs)
	for _, e := range snap.Edges {
		uf.Union(e.From, e.To)
	}

	components := uf.Components()
	numComponents := len(components)
	largest, smallest := 0, totalNodes
	for _, c := range components {
		if len(c) > largest {
			largest = len(c)
		}
		if len(c) < smallest {
			smallest = len(c)
		}
	}

	// Orphans: degree == 0
	var orphans []string
	for _, id := range nodeIDs {
		if len(snap.Adj[id]) == 0 {
			orphans = append(orphans, id)
		}
	}
	orphanCount := len(orphans)
	sort.Strings(orphans)
	if len(orphans) > topN {
		orphans = orphans[:topN]
	}

	// Degree histogram (log-scale buckets)
	buckets := [7]int{}
	for _, id := range nodeIDs {
		degree := len(snap.Adj[id])
		buckets[degreeBucket(degree)]++
	}
	histogram := defaultHistogram()
	for i := range histogram {
		histogram[i].Count = buckets[i]
	}

	// Nodes per expansion level
	perLevel := make(map[int]int)
	roots := 0
	for _, n := range snap.Nodes {
		perLevel[n.Level]++
		if n.Root {
			roots++
		}
	}
	levels := make([]LevelCount, 0, len(perLevel))
	for level, count := range perLevel {
		levels = append(levels, LevelCount{Level: level, Count: count})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })

	// Hubs: degree > threshold
	var hubs []HubNode
	for _, id := range nodeIDs {
		degree := len(snap.Adj[id])
		if degree > hubThreshold {
			hubs = append(hubs, HubNode{
				ID:        id,
				Name:      snap.Name(id),
				Degree:    degree,
				InDegree:  len(snap.InAdj[id]),
				OutDegree: len(snap.OutAdj[id]),
			})
		}
	}
	sort.SliceStable(hubs, func(i, j int) bool { return hubs[i].Degree > hubs[j].Degree })
	if len(hubs) > topN {
		hubs = hubs[:topN]
	}

	return &TopologyReport{
		TotalNodes:        totalNodes,
		TotalEdges:        totalEdges,
		NumRoots:          roots,
		NumComponents:     numComponents,
		LargestComponent:  largest,
		SmallestComponent: smallest,
		OrphanCount:       orphanCount,
		OrphanIDs:         orphans,
		DegreeHistogram:   histogram,
		Levels:            levels,
		Hubs:              hubs,
	}
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	case degree <= 31:
		return 5
	default:
		return 6
	}
}

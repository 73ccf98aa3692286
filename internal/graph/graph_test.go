package graph

import (
	"fmt"
	"testing"

	"wikitrail/trail/internal/explorer"
	"wikitrail/trail/internal/store"
)

// quickSnapshot builds a flat snapshot of level-0 roots
func quickSnapshot(nodeIDs []string, edges [][2]string) *GraphSnapshot {
	var nodes []*NodeInfo
	for _, id := range nodeIDs {
		nodes = append(nodes, &NodeInfo{ID: id, Name: "Node " + id, Level: 0, Root: true})
	}
	return NewSnapshot(nodes, edgeInfos(edges))
}

func edgeInfos(edges [][2]string) []EdgeInfo {
	var infos []EdgeInfo
	for i, e := range edges {
		infos = append(infos, EdgeInfo{ID: fmt.Sprintf("e%d", i), From: e[0], To: e[1]})
	}
	return infos
}

// treeSnapshot builds nodes from (id, parent) pairs; levels follow parents
func treeSnapshot(pairs [][2]string, edges [][2]string) *GraphSnapshot {
	level := make(map[string]int)
	var nodes []*NodeInfo
	for _, p := range pairs {
		id, parent := p[0], p[1]
		n := &NodeInfo{ID: id, Name: "Node " + id, Parent: parent, Root: parent == ""}
		if parent != "" {
			n.Level = level[parent] + 1
		}
		level[id] = n.Level
		nodes = append(nodes, n)
	}
	return NewSnapshot(nodes, edgeInfos(edges))
}

// --- Topology Tests ---

func TestTopology_EmptyGraph(t *testing.T) {
	snap := NewSnapshot(nil, nil)
	r := ComputeTopology(snap, 4, 10)
	if r.TotalNodes != 0 || r.TotalEdges != 0 || r.NumComponents != 0 {
		t.Errorf("empty graph should have all zeros, got nodes=%d edges=%d components=%d",
			r.TotalNodes, r.TotalEdges, r.NumComponents)
	}
	if len(r.DegreeHistogram) != 7 {
		t.Errorf("histogram should have 7 buckets, got %d", len(r.DegreeHistogram))
	}
}

func TestTopology_SingleComponent(t *testing.T) {
	snap := quickSnapshot(
		[]string{"A", "B", "C", "D", "E"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "E"}},
	)
	r := ComputeTopology(snap, 4, 10)
	if r.NumComponents != 1 {
		t.Errorf("expected 1 component, got %d", r.NumComponents)
	}
	if r.LargestComponent != 5 {
		t.Errorf("expected largest=5, got %d", r.LargestComponent)
	}
	if r.OrphanCount != 0 {
		t.Errorf("expected 0 orphans, got %d", r.OrphanCount)
	}
}

func TestTopology_TwoComponents(t *testing.T) {
	snap := quickSnapshot(
		[]string{"A", "B", "C", "D", "E"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"D", "E"}},
	)
	r := ComputeTopology(snap, 4, 10)
	if r.NumComponents != 2 {
		t.Errorf("expected 2 components, got %d", r.NumComponents)
	}
	if r.LargestComponent != 3 {
		t.Errorf("expected largest=3, got %d", r.LargestComponent)
	}
	if r.SmallestComponent != 2 {
		t.Errorf("expected smallest=2, got %d", r.SmallestComponent)
	}
}

func TestTopology_DanglingEdgeDropped(t *testing.T) {
	snap := quickSnapshot([]string{"A", "B"}, [][2]string{{"A", "B"}, {"A", "ghost"}})
	r := ComputeTopology(snap, 4, 10)
	if r.TotalEdges != 1 {
		t.Errorf("expected 1 edge, got %d", r.TotalEdges)
	}
}

func TestOrphan_Detection(t *testing.T) {
	snap := quickSnapshot(
		[]string{"A", "B", "C"},
		[][2]string{{"A", "B"}},
	)
	r := ComputeTopology(snap, 4, 10)
	if r.OrphanCount != 1 {
		t.Errorf("expected 1 orphan, got %d", r.OrphanCount)
	}
	if len(r.OrphanIDs) != 1 || r.OrphanIDs[0] != "C" {
		t.Errorf("C should be the orphan, got %v", r.OrphanIDs)
	}
}

func TestHub_Detection(t *testing.T) {
	snap := quickSnapshot(
		[]string{"center", "s1", "s2", "s3", "s4", "s5"},
		[][2]string{{"center", "s1"}, {"center", "s2"}, {"center", "s3"}, {"center", "s4"}, {"s5", "center"}},
	)
	r := ComputeTopology(snap, 4, 10)
	if len(r.Hubs) != 1 {
		t.Fatalf("expected 1 hub, got %d", len(r.Hubs))
	}
	hub := r.Hubs[0]
	if hub.ID != "center" || hub.Name != "Node center" {
		t.Errorf("expected center as hub, got %+v", hub)
	}
	if hub.OutDegree != 4 || hub.InDegree != 1 {
		t.Errorf("expected out=4 in=1, got out=%d in=%d", hub.OutDegree, hub.InDegree)
	}
}

func TestTopology_Levels(t *testing.T) {
	snap := treeSnapshot(
		[][2]string{{"r", ""}, {"a", "r"}, {"b", "r"}, {"c", "a"}},
		[][2]string{{"r", "a"}, {"r", "b"}, {"a", "c"}},
	)
	r := ComputeTopology(snap, 4, 10)
	want := []LevelCount{{0, 1}, {1, 2}, {2, 1}}
	if len(r.Levels) != len(want) {
		t.Fatalf("expected %d levels, got %v", len(want), r.Levels)
	}
	for i := range want {
		if r.Levels[i] != want[i] {
			t.Errorf("level %d: got %+v, want %+v", i, r.Levels[i], want[i])
		}
	}
	if r.NumRoots != 1 {
		t.Errorf("expected 1 root, got %d", r.NumRoots)
	}
}

// --- Tarjan Tests ---

func TestTarjan_Bridge(t *testing.T) {
	snap := quickSnapshot(
		[]string{"A", "B", "C"},
		[][2]string{{"A", "B"}, {"B", "C"}},
	)
	r := ComputeBridges(snap)
	if r.BridgeCount != 2 {
		t.Errorf("expected 2 bridges, got %d", r.BridgeCount)
	}
	foundB := false
	for _, ap := range r.ArticulationPoints {
		if ap.ID == "B" {
			foundB = true
		}
	}
	if !foundB {
		t.Errorf("B should be AP")
	}
}

func TestTarjan_ComponentsIfRemoved(t *testing.T) {
	snap := quickSnapshot(
		[]string{"A", "B", "C", "D", "E"},
		[][2]string{{"B", "A"}, {"B", "C"}, {"B", "D"}, {"D", "E"}},
	)
	r := ComputeBridges(snap)
	splits := make(map[string]int)
	for _, ap := range r.ArticulationPoints {
		splits[ap.ID] = ap.ComponentsIfRemoved
	}
	if splits["B"] != 3 || splits["D"] != 2 || len(splits) != 2 {
		t.Errorf("unexpected splits %v", splits)
	}
	if r.BridgeCount != 4 {
		t.Errorf("every link of a tree is a bridge, got %d", r.BridgeCount)
	}
}

func TestTarjan_CycleNoBridges(t *testing.T) {
	snap := quickSnapshot(
		[]string{"A", "B", "C"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}},
	)
	r := ComputeBridges(snap)
	if r.BridgeCount != 0 {
		t.Errorf("triangle should have 0 bridges, got %d", r.BridgeCount)
	}
	if r.APCount != 0 {
		t.Errorf("triangle should have 0 APs, got %d", r.APCount)
	}
}

func TestTarjan_OppositeLinksAreOneConnection(t *testing.T) {
	snap := quickSnapshot(
		[]string{"A", "B"},
		[][2]string{{"A", "B"}, {"B", "A"}},
	)
	r := ComputeBridges(snap)
	if r.BridgeCount != 1 {
		t.Errorf("A<->B is still a single bridge, got %d", r.BridgeCount)
	}
}

func TestTarjan_TwoCyclesJoined(t *testing.T) {
	snap := quickSnapshot(
		[]string{"A", "B", "C", "D", "E", "F"},
		[][2]string{
			{"A", "B"}, {"B", "C"}, {"C", "A"}, // triangle 1
			{"D", "E"}, {"E", "F"}, {"F", "D"}, // triangle 2
			{"C", "D"}, // bridge
		},
	)
	r := ComputeBridges(snap)
	if r.BridgeCount != 1 {
		t.Errorf("expected 1 bridge (C-D), got %d", r.BridgeCount)
	}
	apIDs := make(map[string]bool)
	for _, ap := range r.ArticulationPoints {
		apIDs[ap.ID] = true
	}
	if !apIDs["C"] || !apIDs["D"] {
		t.Errorf("C and D should be APs, got %v", apIDs)
	}
}

// --- Branch Tests ---

func TestBranch_Computation(t *testing.T) {
	snap := treeSnapshot(
		[][2]string{{"root", ""}, {"cat", "root"}, {"item", "cat"}, {"leaf", "item"}},
		nil,
	)
	for id, want := range map[string]string{"root": "root", "cat": "cat", "item": "cat", "leaf": "cat"} {
		if got := snap.Branches[id]; got != want {
			t.Errorf("branch of %s: got %s, want %s", id, got, want)
		}
	}
}

func TestBranch_BrokenChain(t *testing.T) {
	snap := NewSnapshot([]*NodeInfo{
		{ID: "root", Level: 0, Root: true},
		{ID: "lost", Level: 3, Parent: "gone"},
	}, nil)
	if snap.Branches["lost"] != Unassigned {
		t.Errorf("expected unassigned, got %s", snap.Branches["lost"])
	}
}

func TestFragile_Connections(t *testing.T) {
	snap := treeSnapshot(
		[][2]string{{"root", ""}, {"cat1", "root"}, {"cat2", "root"}, {"item1", "cat1"}, {"item2", "cat2"}},
		[][2]string{{"root", "cat1"}, {"root", "cat2"}, {"cat1", "item1"}, {"cat2", "item2"}, {"item1", "item2"}},
	)
	r := ComputeBridges(snap)
	if len(r.FragileConnections) != 1 {
		t.Fatalf("expected 1 fragile connection, got %v", r.FragileConnections)
	}
	fc := r.FragileConnections[0]
	if fc.BranchA != "cat1" || fc.BranchB != "cat2" || fc.CrossEdges != 1 {
		t.Errorf("unexpected fragile connection %+v", fc)
	}
}

func TestFilterToBranch(t *testing.T) {
	snap := treeSnapshot(
		[][2]string{{"root", ""}, {"cat1", "root"}, {"cat2", "root"}, {"item1", "cat1"}, {"item2", "cat2"}},
		[][2]string{{"root", "cat1"}, {"root", "cat2"}, {"cat1", "item1"}, {"cat2", "item2"}, {"item1", "item2"}},
	)
	sub := snap.FilterToBranch("cat1")
	if len(sub.Nodes) != 2 {
		t.Fatalf("expected cat1 and item1, got %v", sub.NodeIDs())
	}
	if len(sub.Edges) != 1 || sub.Edges[0].From != "cat1" {
		t.Errorf("expected only cat1 -> item1, got %v", sub.Edges)
	}
}

// --- Reach Tests ---

func TestReach(t *testing.T) {
	snap := NewSnapshot([]*NodeInfo{
		{ID: "r", Level: 0, Root: true},
		{ID: "a", Level: 1, Parent: "r"},
		{ID: "b", Level: 2, Parent: "a"},
		{ID: "lost", Level: 2, Parent: "removed"},
		{ID: "loop1", Level: 3, Parent: "loop2"},
		{ID: "loop2", Level: 4, Parent: "loop1"},
	}, edgeInfos([][2]string{{"r", "a"}, {"a", "b"}}))

	r := ComputeReach(snap, 10)
	if r.Reachable != 3 {
		t.Errorf("expected 3 reachable, got %d", r.Reachable)
	}
	if r.DetachedCount != 3 {
		t.Errorf("expected 3 detached, got %d", r.DetachedCount)
	}
	if r.Detached[0].ID != "lost" {
		t.Errorf("detached should be ordered by level, got %v", r.Detached)
	}
	if r.MaxDepth != 2 {
		t.Errorf("expected max depth 2, got %d", r.MaxDepth)
	}
	if r.AvgDepth != 1.0 {
		t.Errorf("expected avg depth 1.0, got %f", r.AvgDepth)
	}
}

// --- Similarity Tests ---

func TestCosineSimilarity(t *testing.T) {
	set := func(ids ...string) map[string]bool {
		m := make(map[string]bool)
		for _, id := range ids {
			m[id] = true
		}
		return m
	}
	if sim := CosineSimilarity(set("a", "b"), set("a", "b")); sim != 1.0 {
		t.Errorf("identical sets: expected 1.0, got %f", sim)
	}
	if sim := CosineSimilarity(set("a"), set("b")); sim != 0.0 {
		t.Errorf("disjoint sets: expected 0.0, got %f", sim)
	}
	if sim := CosineSimilarity(set(), set("b")); sim != 0.0 {
		t.Errorf("empty set: expected 0.0, got %f", sim)
	}
	if sim := CosineSimilarity(set("a", "b", "c", "d"), set("a")); sim != 0.5 {
		t.Errorf("expected 0.5, got %f", sim)
	}
}

func TestFindRelated(t *testing.T) {
	snap := quickSnapshot(
		[]string{"x", "y", "z", "p", "q", "r"},
		[][2]string{{"x", "p"}, {"x", "q"}, {"y", "p"}, {"y", "q"}, {"z", "r"}},
	)
	related := FindRelated(snap, "x", 5, 0.1)
	if len(related) != 1 {
		t.Fatalf("expected only y, got %v", related)
	}
	if related[0].ID != "y" || related[0].Shared != 2 || related[0].Similarity != 1.0 {
		t.Errorf("unexpected result %+v", related[0])
	}
	if got := FindRelated(snap, "lonely", 5, 0); got != nil {
		t.Errorf("unknown node should have no related nodes, got %v", got)
	}
}

// --- UnionFind Tests ---

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind([]string{"a", "b", "c", "d"})
	if !uf.Union("a", "b") {
		t.Error("a and b should start separate")
	}
	if uf.Union("b", "a") {
		t.Error("second union should report no change")
	}
	if uf.Union("a", "ghost") {
		t.Error("unknown IDs should be ignored")
	}
	uf.Union("c", "b")
	if uf.Size("a") != 3 {
		t.Errorf("expected size 3, got %d", uf.Size("a"))
	}
	comps := uf.Components()
	if len(comps) != 2 || len(comps[0]) != 3 || comps[1][0] != "d" {
		t.Errorf("unexpected components %v", comps)
	}
}

// --- Health Tests ---

func TestHealthScore_Range(t *testing.T) {
	snap := quickSnapshot([]string{"A", "B", "C"}, nil)
	r := Analyze(snap, DefaultConfig())
	if r.HealthScore < 0 || r.HealthScore > 1 {
		t.Errorf("health out of range: %f", r.HealthScore)
	}

	snap2 := treeSnapshot([][2]string{{"A", ""}, {"B", "A"}}, [][2]string{{"A", "B"}})
	r2 := Analyze(snap2, DefaultConfig())
	if r2.HealthScore < 0 || r2.HealthScore > 1 {
		t.Errorf("health out of range: %f", r2.HealthScore)
	}
}

func TestHealthScore_Perfect(t *testing.T) {
	snap := treeSnapshot(
		[][2]string{{"A", ""}, {"B", "A"}, {"C", "A"}},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}},
	)
	r := Analyze(snap, &AnalyzerConfig{HubThreshold: 10, TopN: 50})
	if r.HealthScore < 0.95 {
		t.Errorf("perfect graph should have health ~1.0, got %f", r.HealthScore)
	}
}

func TestHealthScore_SeedsDoNotCountAsFragmentation(t *testing.T) {
	snap := treeSnapshot(
		[][2]string{{"A", ""}, {"B", "A"}, {"C", ""}, {"D", "C"}},
		[][2]string{{"A", "B"}, {"C", "D"}},
	)
	r := Analyze(snap, DefaultConfig())
	if r.HealthBreakdown.Components != 1.0 {
		t.Errorf("two seeds in two components should score 1.0, got %f", r.HealthBreakdown.Components)
	}
}

func TestSnapshotFromExplorer(t *testing.T) {
	snap := SnapshotFromExplorer(explorer.Snapshot{
		Nodes: []store.Node{
			{ID: "r", Name: "R", Level: 0},
			{ID: "foo", Name: "Foo", Level: 1, Parent: "r"},
		},
		Edges: []store.Edge{{ID: "e1", From: "r", To: "foo", Level: 1}},
		Roots: []string{"r"},
	})
	if !snap.Nodes["r"].Root || snap.Nodes["foo"].Root {
		t.Error("only r should be a root")
	}
	if snap.Name("foo") != "Foo" || snap.Nodes["foo"].Parent != "r" {
		t.Errorf("unexpected node %+v", snap.Nodes["foo"])
	}
	if len(snap.OutAdj["r"]) != 1 || snap.OutAdj["r"][0] != "foo" {
		t.Errorf("unexpected adjacency %v", snap.OutAdj)
	}
}

package explorer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikitrail/trail/internal/ctxlog"
	"wikitrail/trail/internal/highlight"
	"wikitrail/trail/internal/linksource"
	"wikitrail/trail/internal/metrics"
	"wikitrail/trail/internal/store"
)

func newTestExplorer(t *testing.T, src linksource.Source) (*Explorer, *Mirror) {
	t.Helper()
	mirror := NewMirror()
	n := 0
	x := New(src, Options{
		Surface: mirror,
		Rand:    rand.New(rand.NewPCG(1, 2)),
		Logger:  ctxlog.Discard(),
		NewEdgeID: func() string {
			n++
			return fmt.Sprintf("e%d", n)
		},
	})
	return x, mirror
}

func mustNode(t *testing.T, x *Explorer, id string) store.Node {
	t.Helper()
	n, ok := x.Node(id)
	require.True(t, ok, "node %q missing", id)
	return n
}

func mustEdge(t *testing.T, x *Explorer, from, to string) store.Edge {
	t.Helper()
	e, ok := x.EdgeConnecting(from, to)
	require.True(t, ok, "edge %s -> %s missing", from, to)
	return e
}

// assertMirrored checks that the surface holds exactly the explorer's records.
func assertMirrored(t *testing.T, x *Explorer, mirror *Mirror) {
	t.Helper()
	snap := x.Snapshot()
	assert.ElementsMatch(t, snap.Nodes, mirror.Nodes())
	assert.ElementsMatch(t, snap.Edges, mirror.Edges())
}

func assertSizesMatchDegree(t *testing.T, x *Explorer) {
	t.Helper()
	snap := x.Snapshot()
	degree := make(map[string]int)
	for _, e := range snap.Edges {
		degree[e.From]++
		degree[e.To]++
	}
	for _, n := range snap.Nodes {
		assert.Equal(t, degree[n.ID], n.Size, "size of %s", n.ID)
	}
}

func TestSeed_SkipsEquivalentNames(t *testing.T) {
	x, mirror := newTestExplorer(t, linksource.NewStatic())
	added := x.Seed("Albert Einstein", "albert_einstein", "  ALBERT   einstein ")
	assert.Equal(t, []string{"albert_einstein"}, added)
	assert.Equal(t, 1, x.Len())
	assert.Equal(t, []string{"albert_einstein"}, x.Roots())

	n := mustNode(t, x, "albert_einstein")
	assert.Equal(t, "Albert Einstein", n.Name)
	assert.Equal(t, 0, n.Level)
	assert.False(t, n.HasParent())
	assertMirrored(t, x, mirror)
}

func TestExpand_AddsChildren(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo", "Bar")
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")

	out, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)
	assert.Equal(t, "r", out.ID)
	assert.Equal(t, Unchanged, out.Rename.Kind)
	assert.Equal(t, []string{"foo", "bar"}, out.AddedNodes)
	assert.Len(t, out.AddedEdges, 2)

	for _, id := range []string{"foo", "bar"} {
		n := mustNode(t, x, id)
		assert.Equal(t, 1, n.Level)
		assert.Equal(t, "r", n.Parent)
		assert.Equal(t, 1, n.Size)
		assert.Equal(t, highlight.LevelColor(1), n.Color)
		assert.Equal(t, 1, mustEdge(t, x, "r", id).Level)
	}
	assert.Equal(t, 2, mustNode(t, x, "r").Size)
	assertMirrored(t, x, mirror)
}

func TestExpand_SecondExpansionOnlyAddsMissing(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo", "Bar")
	x, _ := newTestExplorer(t, src)
	x.Seed("R")
	_, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)
	fooBefore := mustNode(t, x, "foo")

	src.AddPage("R", "Foo", "Baz")
	out, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)

	assert.Equal(t, []string{"baz"}, out.AddedNodes)
	require.Len(t, out.AddedEdges, 1)
	assert.Equal(t, mustEdge(t, x, "r", "baz").ID, out.AddedEdges[0])
	assert.Equal(t, fooBefore, mustNode(t, x, "foo"))
	assert.Equal(t, 4, x.Len())
	assert.Equal(t, 3, mustNode(t, x, "r").Size)
}

func TestExpand_SkipsSelfLinkAndDuplicates(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "r", "Foo", "foo", "FOO", "")
	x, _ := newTestExplorer(t, src)
	x.Seed("R")

	out, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, out.AddedNodes)
	assert.Len(t, out.AddedEdges, 1)
	assert.Equal(t, "Foo", mustNode(t, x, "foo").Name, "first spelling wins")
}

func TestExpand_LinkToExistingNodeKeepsItsLevel(t *testing.T) {
	src := linksource.NewStatic().
		AddPage("R", "Foo").
		AddPage("Foo", "R", "Leaf")
	x, _ := newTestExplorer(t, src)
	x.Seed("R")
	_, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)

	out, err := x.Expand(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf"}, out.AddedNodes)

	back := mustEdge(t, x, "foo", "r")
	assert.Equal(t, 0, back.Level)
	mustEdge(t, x, "r", "foo")
	assert.Equal(t, 0, mustNode(t, x, "r").Level)
	assert.Equal(t, 2, mustNode(t, x, "leaf").Level)
	assertSizesMatchDegree(t, x)
}

func TestExpand_SpawnsNearParent(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "A", "B", "C", "D", "E")
	x, _ := newTestExplorer(t, src)
	x.Seed("R")
	_, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)

	root := mustNode(t, x, "r")
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		n := mustNode(t, x, id)
		dist := math.Hypot(n.X-root.X, n.Y-root.Y)
		assert.GreaterOrEqual(t, dist, minJitter-1e-9, id)
		assert.LessOrEqual(t, dist, maxJitter+1e-9, id)
	}
}

func TestExpand_RedirectRenamesNode(t *testing.T) {
	src := linksource.NewStatic().
		AddPage("Albert Einstein", "Physics").
		AddRedirect("Einstein", "Albert Einstein")
	x, mirror := newTestExplorer(t, src)
	x.Seed("Einstein")

	out, err := x.Expand(context.Background(), "einstein")
	require.NoError(t, err)
	assert.Equal(t, RenameOutcome{Kind: Renamed, ID: "albert_einstein"}, out.Rename)
	assert.Equal(t, "albert_einstein", out.ID)

	_, ok := x.Node("einstein")
	assert.False(t, ok)
	n := mustNode(t, x, "albert_einstein")
	assert.Equal(t, "Albert Einstein", n.Name)
	assert.Equal(t, 0, n.Level)
	assert.Equal(t, []string{"albert_einstein"}, x.Roots())
	assert.Equal(t, "albert_einstein", mustNode(t, x, "physics").Parent)

	tr, err := x.Select("physics")
	require.NoError(t, err)
	assert.Equal(t, []string{"albert_einstein", "physics"}, tr.Nodes)
	assertMirrored(t, x, mirror)
}

func TestExpand_RedirectMergesIntoExistingNode(t *testing.T) {
	src := linksource.NewStatic().
		AddPage("R", "Colour", "Color").
		AddPage("Color", "Light").
		AddRedirect("Colour", "Color")
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")
	_, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)

	out, err := x.Expand(context.Background(), "colour")
	require.NoError(t, err)
	assert.Equal(t, RenameOutcome{Kind: Merged, ID: "color"}, out.Rename)
	assert.Equal(t, []string{"light"}, out.AddedNodes)

	_, ok := x.Node("colour")
	assert.False(t, ok)
	assert.Equal(t, "color", mustNode(t, x, "light").Parent)
	assert.Equal(t, 2, mustNode(t, x, "light").Level)
	// r -> colour collapsed onto the existing r -> color.
	mustEdge(t, x, "r", "color")
	mustEdge(t, x, "color", "light")
	assert.Len(t, x.Snapshot().Edges, 2)
	assertSizesMatchDegree(t, x)
	assertMirrored(t, x, mirror)
}

func TestExpand_SourceFailureLeavesGraphUntouched(t *testing.T) {
	boom := errors.New("boom")
	src := linksource.NewStatic().AddPage("R", "Foo").Fail("R", boom)
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")
	before := x.Snapshot()
	applied := mirror.Applied()

	_, err := x.Expand(context.Background(), "r")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, x.Snapshot())
	assert.Equal(t, applied, mirror.Applied())

	src.Fail("R", nil)
	out, err := x.Expand(context.Background(), "r")
	require.NoError(t, err, "a failed expansion can be retried")
	assert.Equal(t, []string{"foo"}, out.AddedNodes)
}

func TestExpand_NotFound(t *testing.T) {
	x, _ := newTestExplorer(t, linksource.NewStatic())
	x.Seed("Nowhere")
	_, err := x.Expand(context.Background(), "nowhere")
	assert.ErrorIs(t, err, linksource.ErrNotFound)
	assert.Equal(t, 1, x.Len())
}

func TestExpand_UnknownNode(t *testing.T) {
	x, _ := newTestExplorer(t, linksource.NewStatic())
	_, err := x.Expand(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestExpand_TargetRemovedDuringFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	src := linksource.SourceFunc(func(ctx context.Context, topic string) (linksource.Result, error) {
		close(started)
		<-release
		return linksource.Result{CanonicalName: topic, Links: []string{"Orphan"}}, nil
	})
	x, _ := newTestExplorer(t, src)
	x.Seed("R", "Other")

	type result struct {
		out Outcome
		err error
	}
	done := make(chan result)
	go func() {
		out, err := x.Expand(context.Background(), "r")
		done <- result{out, err}
	}()

	<-started
	require.True(t, x.Remove("r"))
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.True(t, res.out.Stale)
	assert.Empty(t, res.out.AddedNodes)
	_, ok := x.Node("orphan")
	assert.False(t, ok, "no detached subtree is created")
	assert.Equal(t, 1, x.Len())
}

func TestExpand_ConcurrentSameNode(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "A", "B", "C")
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := x.Expand(context.Background(), "r")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 4, x.Len())
	assert.Len(t, x.Snapshot().Edges, 3)
	assert.Equal(t, 3, mustNode(t, x, "r").Size)
	assertMirrored(t, x, mirror)
}

func TestExpand_OverlappingRenameMergesIntoCanonical(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	src := linksource.SourceFunc(func(ctx context.Context, topic string) (linksource.Result, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		entered <- struct{}{}
		<-release
		if n == 1 {
			return linksource.Result{CanonicalName: "Canon", Links: []string{"A"}}, nil
		}
		return linksource.Result{CanonicalName: "Canon", Links: []string{"A", "B"}}, nil
	})
	x, mirror := newTestExplorer(t, src)
	x.Seed("Alias")

	type result struct {
		out Outcome
		err error
	}
	done := make(chan result, 2)
	for range 2 {
		go func() {
			out, err := x.Expand(context.Background(), "alias")
			done <- result{out, err}
		}()
	}
	<-entered
	<-entered
	close(release)

	kinds := map[RenameKind]int{}
	for range 2 {
		res := <-done
		require.NoError(t, res.err)
		assert.False(t, res.out.Stale)
		assert.Equal(t, "canon", res.out.ID)
		kinds[res.out.Rename.Kind]++
	}
	assert.Equal(t, map[RenameKind]int{Renamed: 1, Unchanged: 1}, kinds)

	_, ok := x.Node("alias")
	assert.False(t, ok)
	mustNode(t, x, "canon")
	mustNode(t, x, "a")
	mustNode(t, x, "b")
	mustEdge(t, x, "canon", "a")
	mustEdge(t, x, "canon", "b")
	assert.Equal(t, 3, x.Len())
	assertSizesMatchDegree(t, x)
	assertMirrored(t, x, mirror)
}

func TestRename_MergeRepointsEdges(t *testing.T) {
	src := linksource.NewStatic().
		AddPage("X", "Old", "New").
		AddPage("Old", "Y")
	x, mirror := newTestExplorer(t, src)
	x.Seed("X")
	_, err := x.Expand(context.Background(), "x")
	require.NoError(t, err)
	_, err = x.Expand(context.Background(), "old")
	require.NoError(t, err)

	out, err := x.Rename("old", "New")
	require.NoError(t, err)
	assert.Equal(t, RenameOutcome{Kind: Merged, ID: "new"}, out)

	_, ok := x.Node("old")
	assert.False(t, ok)
	mustEdge(t, x, "x", "new")
	mustEdge(t, x, "new", "y")
	for _, e := range x.Snapshot().Edges {
		assert.NotEqual(t, "old", e.From)
		assert.NotEqual(t, "old", e.To)
	}

	survivor := mustNode(t, x, "new")
	assert.Equal(t, "New", survivor.Name)
	assert.Equal(t, 1, survivor.Level)
	assert.Equal(t, "x", survivor.Parent)
	assert.Equal(t, "new", mustNode(t, x, "y").Parent)
	assertSizesMatchDegree(t, x)
	assertMirrored(t, x, mirror)
}

func TestRename_PreservesAttributes(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo", "Bar")
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")
	_, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)
	before := mustNode(t, x, "foo")
	edgeBefore := mustEdge(t, x, "r", "foo")

	out, err := x.Rename("foo", "Foo Fighters")
	require.NoError(t, err)
	assert.Equal(t, RenameOutcome{Kind: Renamed, ID: "foo_fighters"}, out)

	after := mustNode(t, x, "foo_fighters")
	assert.Equal(t, before.Level, after.Level)
	assert.Equal(t, before.Parent, after.Parent)
	assert.Equal(t, before.X, after.X)
	assert.Equal(t, before.Y, after.Y)
	assert.Equal(t, before.Size, after.Size)
	assert.Equal(t, "Foo Fighters", after.Name)
	assert.Equal(t, edgeBefore.ID, mustEdge(t, x, "r", "foo_fighters").ID)
	assertMirrored(t, x, mirror)
}

func TestRename_RootAndChildren(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo")
	x, _ := newTestExplorer(t, src)
	x.Seed("R", "S")
	_, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)

	_, err = x.Rename("r", "Root Topic")
	require.NoError(t, err)
	assert.Equal(t, []string{"root_topic", "s"}, x.Roots())
	assert.Equal(t, "root_topic", mustNode(t, x, "foo").Parent)

	tr, err := x.Select("foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"root_topic", "foo"}, tr.Nodes)
	assert.Len(t, tr.Edges, 1)
}

func TestRename_RewritesSelection(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo", "Bar")
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")
	_, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)
	_, err = x.Select("foo")
	require.NoError(t, err)

	_, err = x.Rename("foo", "Food")
	require.NoError(t, err)
	snap := x.Snapshot()
	assert.Equal(t, "food", snap.Selected)
	assert.Equal(t, []string{"r", "food"}, snap.Trace.Nodes)
	assert.Equal(t, highlight.EdgeTraced, mirror.EdgeStyle(mustEdge(t, x, "r", "food").ID).Class)
	assert.Equal(t, highlight.InactiveOpacity, mirror.NodeStyle("bar").Opacity)
}

func TestRename_Unchanged(t *testing.T) {
	x, mirror := newTestExplorer(t, linksource.NewStatic())
	x.Seed("Foo")
	applied := mirror.Applied()

	out, err := x.Rename("foo", "  FOO ")
	require.NoError(t, err)
	assert.Equal(t, RenameOutcome{Kind: Unchanged, ID: "foo"}, out)
	assert.Equal(t, "Foo", mustNode(t, x, "foo").Name)
	assert.Equal(t, applied, mirror.Applied())
}

func TestRename_UnknownNode(t *testing.T) {
	x, _ := newTestExplorer(t, linksource.NewStatic())
	_, err := x.Rename("ghost", "Spirit")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestRename_MergeIntoOwnChild(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo").AddPage("Foo", "Foo Bar")
	x, _ := newTestExplorer(t, src)
	x.Seed("R")
	_, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)
	_, err = x.Expand(context.Background(), "foo")
	require.NoError(t, err)

	out, err := x.Rename("foo", "Foo Bar")
	require.NoError(t, err)
	assert.Equal(t, Merged, out.Kind)

	survivor := mustNode(t, x, "foo_bar")
	assert.Equal(t, "r", survivor.Parent, "takes over the merged node's parent")
	mustEdge(t, x, "r", "foo_bar")
	assert.Len(t, x.Snapshot().Edges, 1, "foo -> foo_bar became a self-loop and was dropped")
	assertSizesMatchDegree(t, x)
}

func TestRename_MergeIntoDescendant(t *testing.T) {
	src := linksource.NewStatic().
		AddPage("R", "Old").
		AddPage("Old", "A").
		AddPage("A", "New")
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")
	for _, id := range []string{"r", "old", "a"} {
		_, err := x.Expand(context.Background(), id)
		require.NoError(t, err)
	}
	require.Equal(t, "a", mustNode(t, x, "new").Parent)

	out, err := x.Rename("old", "New")
	require.NoError(t, err)
	assert.Equal(t, RenameOutcome{Kind: Merged, ID: "new"}, out)

	assert.Equal(t, "r", mustNode(t, x, "new").Parent)
	assert.Equal(t, "new", mustNode(t, x, "a").Parent)
	mustEdge(t, x, "r", "new")
	mustEdge(t, x, "new", "a")

	tr, err := x.Select("new")
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "new"}, tr.Nodes)
	tr, err = x.Select("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "new", "a"}, tr.Nodes)
	assertSizesMatchDegree(t, x)
	assertMirrored(t, x, mirror)
}

func TestRemove_Cascades(t *testing.T) {
	src := linksource.NewStatic().AddPage("A", "B").AddPage("B", "C")
	x, mirror := newTestExplorer(t, src)
	x.Seed("A")
	_, err := x.Expand(context.Background(), "a")
	require.NoError(t, err)
	_, err = x.Expand(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, 1, mustNode(t, x, "a").Size)
	require.Equal(t, 1, mustNode(t, x, "c").Size)

	assert.True(t, x.Remove("b"))
	for _, e := range x.Snapshot().Edges {
		assert.NotEqual(t, "b", e.From)
		assert.NotEqual(t, "b", e.To)
	}
	assert.Equal(t, 0, mustNode(t, x, "a").Size)
	assert.Equal(t, 0, mustNode(t, x, "c").Size)
	assertMirrored(t, x, mirror)
}

func TestRemove_Absent(t *testing.T) {
	x, mirror := newTestExplorer(t, linksource.NewStatic())
	x.Seed("A")
	applied := mirror.Applied()
	assert.False(t, x.Remove("ghost"))
	assert.Equal(t, applied, mirror.Applied())
}

func TestRemove_TracedNodeResetsFirst(t *testing.T) {
	src := linksource.NewStatic().AddPage("A", "B").AddPage("B", "C")
	x, mirror := newTestExplorer(t, src)
	x.Seed("A")
	_, _ = x.Expand(context.Background(), "a")
	_, _ = x.Expand(context.Background(), "b")
	_, err := x.Select("c")
	require.NoError(t, err)

	x.Remove("b")
	snap := x.Snapshot()
	assert.Equal(t, highlight.StateReset, snap.State)
	assert.Empty(t, snap.Selected)
	assert.True(t, snap.Trace.Empty())
	assert.Equal(t, highlight.ActiveOpacity, mirror.NodeStyle("a").Opacity)
	assert.Equal(t, highlight.ActiveOpacity, mirror.NodeStyle("c").Opacity)
}

func TestRemove_UnrelatedNodeKeepsTrace(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo", "Bar")
	x, _ := newTestExplorer(t, src)
	x.Seed("R")
	_, _ = x.Expand(context.Background(), "r")
	_, err := x.Select("foo")
	require.NoError(t, err)

	x.Remove("bar")
	snap := x.Snapshot()
	assert.Equal(t, "foo", snap.Selected)
	assert.Equal(t, []string{"r", "foo"}, snap.Trace.Nodes)
}

func TestRemove_Root(t *testing.T) {
	x, _ := newTestExplorer(t, linksource.NewStatic())
	x.Seed("A", "B")
	x.Remove("a")
	assert.Equal(t, []string{"b"}, x.Roots())
}

func TestSelect_SiblingSwitch(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo", "Bar")
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")
	_, err := x.Expand(context.Background(), "r")
	require.NoError(t, err)
	rFoo := mustEdge(t, x, "r", "foo").ID
	rBar := mustEdge(t, x, "r", "bar").ID

	_, err = x.Select("foo")
	require.NoError(t, err)
	assert.Equal(t, highlight.EdgeTraced, mirror.EdgeStyle(rFoo).Class)
	assert.Equal(t, highlight.InactiveOpacity, mirror.NodeStyle("bar").Opacity)

	tr, err := x.Select("bar")
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "bar"}, tr.Nodes)
	assert.Equal(t, []string{rBar}, tr.Edges)

	assert.NotEqual(t, highlight.EdgeTraced, mirror.EdgeStyle(rFoo).Class)
	assert.Equal(t, highlight.EdgeTraced, mirror.EdgeStyle(rBar).Class)
	assert.Equal(t, highlight.InactiveOpacity, mirror.NodeStyle("foo").Opacity)
	assert.Equal(t, highlight.ActiveOpacity, mirror.NodeStyle("bar").Opacity)
	assert.Equal(t, highlight.ActiveOpacity, mirror.NodeStyle("r").Opacity)
}

func TestSelect_UnknownNode(t *testing.T) {
	x, _ := newTestExplorer(t, linksource.NewStatic())
	_, err := x.Select("ghost")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestReset_Idempotent(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo", "Bar")
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")
	_, _ = x.Expand(context.Background(), "r")
	_, _ = x.Select("foo")

	x.Reset()
	applied := mirror.Applied()
	for _, n := range x.Snapshot().Nodes {
		assert.Equal(t, highlight.ActiveOpacity, mirror.NodeStyle(n.ID).Opacity)
	}
	for _, e := range x.Snapshot().Edges {
		assert.Equal(t, highlight.DefaultEdgeStyle(e), mirror.EdgeStyle(e.ID))
	}

	x.Reset()
	assert.Equal(t, applied, mirror.Applied(), "second reset pushes nothing")
}

func TestExpand_WhileTracedRefreshesHighlight(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo", "Bar").AddPage("Bar", "Late")
	x, mirror := newTestExplorer(t, src)
	x.Seed("R")
	_, _ = x.Expand(context.Background(), "r")
	_, err := x.Select("foo")
	require.NoError(t, err)

	_, err = x.Expand(context.Background(), "bar")
	require.NoError(t, err)
	assert.Equal(t, highlight.InactiveOpacity, mirror.NodeStyle("late").Opacity)
	assert.Equal(t, highlight.EdgeUnrelated, mirror.EdgeStyle(mustEdge(t, x, "bar", "late").ID).Class)
	assert.Equal(t, "foo", x.Snapshot().Selected)
}

func TestHandleEvent(t *testing.T) {
	src := linksource.NewStatic().AddPage("R", "Foo", "Bar")
	x, _ := newTestExplorer(t, src)
	x.Seed("R")
	ctx := context.Background()

	require.NoError(t, x.HandleEvent(ctx, Event{Kind: Clicked, NodeID: "r"}))
	assert.Equal(t, 3, x.Len())

	require.NoError(t, x.HandleEvent(ctx, Event{Kind: Hovered, NodeID: "foo"}))
	assert.Equal(t, "foo", x.Snapshot().Selected)

	require.NoError(t, x.HandleEvent(ctx, Event{Kind: Held, NodeID: "bar"}))
	assert.Equal(t, "bar", x.Snapshot().Selected)

	require.NoError(t, x.HandleEvent(ctx, Event{Kind: Clicked}))
	assert.Equal(t, highlight.StateReset, x.Snapshot().State)

	require.NoError(t, x.HandleEvent(ctx, Event{Kind: RightClicked, NodeID: "foo"}))
	assert.Equal(t, 2, x.Len())

	assert.ErrorIs(t, x.HandleEvent(ctx, Event{Kind: Hovered, NodeID: "ghost"}), ErrUnknownNode)
}

func TestMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	src := linksource.NewStatic().
		AddPage("Albert Einstein", "Physics").
		AddRedirect("Einstein", "Albert Einstein")
	x := New(src, Options{Metrics: reg, Logger: ctxlog.Discard()})
	x.Seed("Einstein", "Missing")

	_, err := x.Expand(context.Background(), "einstein")
	require.NoError(t, err)
	_, err = x.Expand(context.Background(), "missing")
	require.Error(t, err)
	x.Remove("physics")

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ExpansionsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ExpansionsTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.RenamesTotal.WithLabelValues("renamed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.RemovalsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.GraphNodes))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.GraphEdges))
}

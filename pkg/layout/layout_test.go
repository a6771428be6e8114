package layout

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/parser"
)

func mustParse(t *testing.T, source string) *ir.Diagram {
	t.Helper()
	return parser.Parse(source).IR
}

func TestComputeIsDeterministic(t *testing.T) {
	d := mustParse(t, "flowchart TD\nA-->B\nB-->C\nA-->C")
	first := Compute(d)
	second := Compute(d)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated layouts differ:\n first %+v\nsecond %+v", first, second)
	}
}

func TestNodeSizing(t *testing.T) {
	d := mustParse(t, "flowchart TD\nA\nB[A much longer label here]")
	l := Compute(d)

	if l.Nodes[0].Width != minNodeWidth {
		t.Errorf("short label width = %v, want %v", l.Nodes[0].Width, minNodeWidth)
	}
	wantWide := float64(len("A much longer label here")) * charWidth
	if l.Nodes[1].Width != wantWide {
		t.Errorf("long label width = %v, want %v", l.Nodes[1].Width, wantWide)
	}
	for _, n := range l.Nodes {
		if n.Height != nodeHeight {
			t.Errorf("node %s height = %v, want %v", n.ID, n.Height, nodeHeight)
		}
	}
}

func TestRankAssignment(t *testing.T) {
	d := mustParse(t, "flowchart TD\nA-->B\nB-->C")
	l := Compute(d)

	ranks := map[string]int{}
	for _, n := range l.Nodes {
		ranks[n.ID] = n.Rank
	}
	if ranks["A"] != 0 || ranks["B"] != 1 || ranks["C"] != 2 {
		t.Errorf("ranks = %v, want A:0 B:1 C:2", ranks)
	}
	// Vertical pitch is rank * (gap + height).
	for _, n := range l.Nodes {
		want := float64(n.Rank) * (verticalGap + nodeHeight)
		if n.Y != want {
			t.Errorf("node %s Y = %v, want %v", n.ID, n.Y, want)
		}
	}
}

func TestCycleFlagging(t *testing.T) {
	d := mustParse(t, "flowchart TD\nA-->B\nB-->C\nC-->A")
	l := Compute(d)

	if l.Stats.ReversedEdges < 1 {
		t.Errorf("ReversedEdges = %d, want >= 1", l.Stats.ReversedEdges)
	}
	reversed := 0
	for _, e := range l.Edges {
		if e.Reversed {
			reversed++
		}
	}
	if reversed != l.Stats.ReversedEdges {
		t.Errorf("flagged edges = %d, stats say %d", reversed, l.Stats.ReversedEdges)
	}
	for _, n := range l.Nodes {
		for _, v := range []float64{n.X, n.Y, n.Width, n.Height} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("node %s has non-finite geometry: %+v", n.ID, n)
			}
		}
	}
}

func TestEdgePathsConnectCenters(t *testing.T) {
	d := mustParse(t, "flowchart TD\nA-->B")
	l := Compute(d)

	if len(l.Edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(l.Edges))
	}
	path := l.Edges[0]
	if len(path.Points) != 2 {
		t.Fatalf("path points = %d, want 2", len(path.Points))
	}
	if path.Points[0] != l.Nodes[0].Center() || path.Points[1] != l.Nodes[1].Center() {
		t.Errorf("path = %+v, want centers %+v -> %+v",
			path.Points, l.Nodes[0].Center(), l.Nodes[1].Center())
	}
}

func TestClusterBoundingBox(t *testing.T) {
	d := mustParse(t, "flowchart TD\nsubgraph G [Title]\nA-->B\nend")
	l := Compute(d)

	if len(l.Clusters) != 1 {
		t.Fatalf("cluster count = %d, want 1", len(l.Clusters))
	}
	c := l.Clusters[0]
	if c.Title != "Title" {
		t.Errorf("cluster title = %q, want Title", c.Title)
	}
	for _, n := range l.Nodes {
		if !c.Rect.Contains(Point{X: n.X, Y: n.Y}) ||
			!c.Rect.Contains(Point{X: n.X + n.Width, Y: n.Y + n.Height}) {
			t.Errorf("member %s not inside cluster box %+v", n.ID, c.Rect)
		}
	}
	// Padding holds on every side of the members' union.
	memberBounds := l.Nodes[0].rect()
	for _, n := range l.Nodes[1:] {
		memberBounds = memberBounds.union(n.rect())
	}
	want := memberBounds.pad(clusterPadding)
	if c.Rect != want {
		t.Errorf("cluster rect = %+v, want %+v", c.Rect, want)
	}
}

func TestEmptyClusterDropped(t *testing.T) {
	d := ir.Empty(ir.DiagramFlowchart)
	d.Clusters = append(d.Clusters, ir.Cluster{ID: 0})
	l := Compute(d)
	if len(l.Clusters) != 0 {
		t.Errorf("empty cluster survived: %+v", l.Clusters)
	}
}

func TestEmptyDiagramBounds(t *testing.T) {
	l := Compute(ir.Empty(ir.DiagramUnknown))
	if l.Bounds != (Rect{}) {
		t.Errorf("Bounds = %+v, want zero rect", l.Bounds)
	}
	if l.Stats.NodeCount != 0 || l.Stats.EdgeCount != 0 {
		t.Errorf("Stats = %+v, want zero counts", l.Stats)
	}
}

func TestBoundsCoverEverything(t *testing.T) {
	d := mustParse(t, "flowchart TD\nsubgraph G\nA-->B\nend\nC-->D")
	l := Compute(d)

	for _, n := range l.Nodes {
		if !l.Bounds.Contains(Point{X: n.X, Y: n.Y}) ||
			!l.Bounds.Contains(Point{X: n.X + n.Width, Y: n.Y + n.Height}) {
			t.Errorf("node %s outside bounds %+v", n.ID, l.Bounds)
		}
	}
	for _, c := range l.Clusters {
		if !l.Bounds.Contains(Point{X: c.Rect.X, Y: c.Rect.Y}) {
			t.Errorf("cluster %d outside bounds %+v", c.Index, l.Bounds)
		}
	}
}

func TestUnresolvedEdgesSkipped(t *testing.T) {
	d := ir.Empty(ir.DiagramFlowchart)
	d.Nodes = append(d.Nodes, ir.Node{ID: "A"})
	d.Edges = append(d.Edges, ir.Edge{From: ir.NodeEndpoint(0), To: ir.NodeEndpoint(99)})
	d.Edges = append(d.Edges, ir.Edge{})

	l := Compute(d)
	if len(l.Edges) != 0 {
		t.Errorf("unresolvable edges survived: %+v", l.Edges)
	}
	// Stats report the IR totals, not the resolvable subset.
	if l.Stats.EdgeCount != 2 {
		t.Errorf("EdgeCount = %d, want 2", l.Stats.EdgeCount)
	}
}

func TestStatsCountUnresolvedEdges(t *testing.T) {
	d := ir.Empty(ir.DiagramFlowchart)
	d.Nodes = append(d.Nodes, ir.Node{ID: "A"}, ir.Node{ID: "B"})
	d.Edges = append(d.Edges, ir.Edge{From: ir.NodeEndpoint(0), To: ir.NodeEndpoint(1)})
	d.Edges = append(d.Edges, ir.Edge{From: ir.NodeEndpoint(0), To: ir.NodeEndpoint(42)})

	l, snapshots := ComputeTraced(d)
	if l.Stats.EdgeCount != 2 {
		t.Errorf("EdgeCount = %d, want 2", l.Stats.EdgeCount)
	}
	for i, s := range snapshots {
		if s.EdgeCount != 2 || s.NodeCount != 2 {
			t.Errorf("snapshot %d counts = %d nodes %d edges, want 2 and 2", i, s.NodeCount, s.EdgeCount)
		}
	}
}

func TestCrossingStageIsIdentity(t *testing.T) {
	d := mustParse(t, "flowchart TD\nA-->C\nB-->D\nA-->D\nB-->C")
	l := Compute(d)
	if l.Stats.CrossingCount != 0 {
		t.Errorf("CrossingCount = %d, want 0", l.Stats.CrossingCount)
	}
	// Insertion order survives within each rank.
	orders := map[string]int{}
	for _, n := range l.Nodes {
		orders[n.ID] = n.Order
	}
	if orders["A"] != 0 || orders["B"] != 1 {
		t.Errorf("rank 0 orders = %v, want A:0 B:1", orders)
	}
}

func TestComputeTracedSnapshots(t *testing.T) {
	d := mustParse(t, "flowchart TD\nA-->B\nB-->A")
	l, snapshots := ComputeTraced(d)

	wantStages := []string{"cycle_removal", "rank_assignment", "crossing_minimization", "post_processing"}
	if len(snapshots) != len(wantStages) {
		t.Fatalf("snapshot count = %d, want %d", len(snapshots), len(wantStages))
	}
	for i, s := range snapshots {
		if s.Stage != wantStages[i] {
			t.Errorf("snapshot %d stage = %q, want %q", i, s.Stage, wantStages[i])
		}
		if s.NodeCount != len(d.Nodes) || s.EdgeCount != len(d.Edges) {
			t.Errorf("snapshot %d counts = %d nodes %d edges, want %d and %d",
				i, s.NodeCount, s.EdgeCount, len(d.Nodes), len(d.Edges))
		}
		if s.ReversedEdges != l.Stats.ReversedEdges {
			t.Errorf("snapshot %d reversed = %d, want %d", i, s.ReversedEdges, l.Stats.ReversedEdges)
		}
	}
	// Crossing count appears once the minimization stage has run.
	if snapshots[0].CrossingCount != 0 || snapshots[3].CrossingCount != l.Stats.CrossingCount {
		t.Errorf("crossing counts = %d then %d, want 0 then %d",
			snapshots[0].CrossingCount, snapshots[3].CrossingCount, l.Stats.CrossingCount)
	}

	data, err := json.Marshal(snapshots[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"stage"`, `"reversed_edges"`, `"crossing_count"`, `"node_count"`, `"edge_count"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("snapshot JSON %s lacks %s", data, field)
		}
	}
	if l.Stats.PhaseIterations != len(snapshots) {
		t.Errorf("PhaseIterations = %d, want %d", l.Stats.PhaseIterations, len(snapshots))
	}

	untraced := Compute(d)
	if untraced.Stats.PhaseIterations != len(wantStages) {
		t.Errorf("untraced PhaseIterations = %d, want %d", untraced.Stats.PhaseIterations, len(wantStages))
	}
}

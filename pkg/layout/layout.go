// Package layout computes deterministic layered positions for parsed
// diagrams. The pipeline is a fixed sequence of stages over the IR; it never
// fails, it only skips elements it cannot resolve.
package layout

import (
	"math"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Geometry
// =============================================================================

const (
	charWidth      = 8.0
	minLabelChars  = 4
	minNodeWidth   = 72.0
	nodeHeight     = 40.0
	horizontalGap  = 48.0
	verticalGap    = 72.0
	clusterPadding = 24.0
)

// Point is one coordinate on the canvas.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

func (r Rect) union(other Rect) Rect {
	x1 := math.Min(r.X, other.X)
	y1 := math.Min(r.Y, other.Y)
	x2 := math.Max(r.X+r.Width, other.X+other.Width)
	y2 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func (r Rect) pad(amount float64) Rect {
	return Rect{
		X:      r.X - amount,
		Y:      r.Y - amount,
		Width:  r.Width + 2*amount,
		Height: r.Height + 2*amount,
	}
}

func (r Rect) finite() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// =============================================================================
// Output Types
// =============================================================================

// NodeBox is one positioned node, indexed like the IR node slice.
type NodeBox struct {
	Index  int     `json:"index" bson:"index"`
	ID     string  `json:"id" bson:"id"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Rank   int     `json:"rank" bson:"rank"`
	Order  int     `json:"order" bson:"order"`
}

// Center is the midpoint edge paths anchor to.
func (n NodeBox) Center() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
}

func (n NodeBox) rect() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// EdgePath is the routed polyline for one edge. Reversed marks edges whose
// direction was flipped during cycle removal; the path still runs from the
// declared source to the declared target.
type EdgePath struct {
	Index    int     `json:"index" bson:"index"`
	Points   []Point `json:"points" bson:"points"`
	Reversed bool    `json:"reversed" bson:"reversed"`
}

// ClusterBox is the padded bounding box of a cluster's members.
type ClusterBox struct {
	Index int    `json:"index" bson:"index"`
	Title string `json:"title,omitempty" bson:"title,omitempty"`
	Rect  Rect   `json:"rect" bson:"rect"`
}

// Stats summarizes one layout run.
type Stats struct {
	NodeCount       int `json:"node_count" bson:"node_count"`
	EdgeCount       int `json:"edge_count" bson:"edge_count"`
	CrossingCount   int `json:"crossing_count" bson:"crossing_count"`
	ReversedEdges   int `json:"reversed_edges" bson:"reversed_edges"`
	PhaseIterations int `json:"phase_iterations" bson:"phase_iterations"`
}

// Layout is the full positioned diagram.
type Layout struct {
	Nodes    []NodeBox    `json:"nodes" bson:"nodes"`
	Edges    []EdgePath   `json:"edges" bson:"edges"`
	Clusters []ClusterBox `json:"clusters" bson:"clusters"`
	Bounds   Rect         `json:"bounds" bson:"bounds"`
	Stats    Stats        `json:"stats" bson:"stats"`
}

// Snapshot records the running counters after one structural phase. Node
// and edge counts are the IR totals, so a snapshot series shows how the
// reversed and crossing counters evolve over a fixed-size input.
type Snapshot struct {
	Stage         string `json:"stage" bson:"stage"`
	ReversedEdges int    `json:"reversed_edges" bson:"reversed_edges"`
	CrossingCount int    `json:"crossing_count" bson:"crossing_count"`
	NodeCount     int    `json:"node_count" bson:"node_count"`
	EdgeCount     int    `json:"edge_count" bson:"edge_count"`
}

// =============================================================================
// Pipeline
// =============================================================================

// layoutEdge is the working copy of an edge with resolved node indexes.
type layoutEdge struct {
	index    int
	from     int
	to       int
	reversed bool
}

// Compute lays out a diagram. It is deterministic for identical input and
// total: unresolvable edges and degenerate clusters are skipped, never
// reported as errors.
func Compute(d *ir.Diagram) Layout {
	result, _ := run(d, false)
	return result
}

// ComputeTraced lays out a diagram and records a snapshot after each
// structural phase.
func ComputeTraced(d *ir.Diagram) (Layout, []Snapshot) {
	return run(d, true)
}

func run(d *ir.Diagram, traced bool) (Layout, []Snapshot) {
	nodes := measureNodes(d)
	edges := resolveEdges(d)

	var snapshots []Snapshot
	reversed, crossings := 0, 0
	snap := func(stage string) {
		if !traced {
			return
		}
		snapshots = append(snapshots, Snapshot{
			Stage:         stage,
			ReversedEdges: reversed,
			CrossingCount: crossings,
			NodeCount:     len(d.Nodes),
			EdgeCount:     len(d.Edges),
		})
	}

	reversed = removeCycles(edges)
	snap("cycle_removal")

	assignRanks(nodes, edges)
	snap("rank_assignment")

	crossings = minimizeCrossings(nodes, edges)
	snap("crossing_minimization")

	position(nodes)
	edgePaths := routeEdges(nodes, edges)
	clusters := boxClusters(d, nodes)
	bounds := computeBounds(nodes, clusters)
	snap("post_processing")

	phases := len(snapshots)
	if !traced {
		phases = 4
	}
	return Layout{
		Nodes:    nodes,
		Edges:    edgePaths,
		Clusters: clusters,
		Bounds:   bounds,
		Stats: Stats{
			NodeCount:       len(d.Nodes),
			EdgeCount:       len(d.Edges),
			CrossingCount:   crossings,
			ReversedEdges:   reversed,
			PhaseIterations: phases,
		},
	}, snapshots
}

// measureNodes sizes every node from its display label. Width scales with
// the label length at a fixed character width and never drops below the
// minimum box size.
func measureNodes(d *ir.Diagram) []NodeBox {
	nodes := make([]NodeBox, len(d.Nodes))
	for i := range d.Nodes {
		label := d.NodeDisplay(&d.Nodes[i])
		chars := len([]rune(label))
		if chars < minLabelChars {
			chars = minLabelChars
		}
		width := float64(chars) * charWidth
		if width < minNodeWidth {
			width = minNodeWidth
		}
		nodes[i] = NodeBox{
			Index:  i,
			ID:     d.Nodes[i].ID,
			Width:  width,
			Height: nodeHeight,
		}
	}
	return nodes
}

// resolveEdges keeps only edges whose endpoints resolve to node indexes.
func resolveEdges(d *ir.Diagram) []layoutEdge {
	edges := make([]layoutEdge, 0, len(d.Edges))
	for i, e := range d.Edges {
		from, ok := endpointIndex(d, e.From)
		if !ok {
			continue
		}
		to, ok := endpointIndex(d, e.To)
		if !ok {
			continue
		}
		edges = append(edges, layoutEdge{index: i, from: from, to: to})
	}
	return edges
}

func endpointIndex(d *ir.Diagram, ep ir.Endpoint) (int, bool) {
	switch ep.Kind {
	case ir.EndpointNode:
		idx := int(ep.Node)
		if idx < 0 || idx >= len(d.Nodes) {
			return 0, false
		}
		return idx, true
	case ir.EndpointPort:
		idx := int(ep.Port)
		if idx < 0 || idx >= len(d.Ports) {
			return 0, false
		}
		node := int(d.Ports[idx].Node)
		if node < 0 || node >= len(d.Nodes) {
			return 0, false
		}
		return node, true
	default:
		return 0, false
	}
}

// removeCycles flags edges that point backwards in declaration order. The
// index heuristic stands in for a full cycle detection pass: any cycle must
// contain at least one edge whose target was declared before its source, so
// flipping those is enough to make ranking terminate.
func removeCycles(edges []layoutEdge) int {
	reversed := 0
	for i := range edges {
		if edges[i].from > edges[i].to {
			edges[i].reversed = true
			reversed++
		}
	}
	return reversed
}

// assignRanks relaxes rank[target] = max(rank[target], rank[source]+1) until
// nothing changes, walking reversed edges backwards. The pass cap covers the
// longest possible dependency chain.
func assignRanks(nodes []NodeBox, edges []layoutEdge) {
	maxPasses := 2*len(edges) + 1
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, e := range edges {
			from, to := e.from, e.to
			if e.reversed {
				from, to = to, from
			}
			if nodes[to].Rank < nodes[from].Rank+1 {
				nodes[to].Rank = nodes[from].Rank + 1
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

// minimizeCrossings is the identity ordering. Nodes keep their insertion
// order within each rank and the reported crossing count is zero.
func minimizeCrossings(nodes []NodeBox, edges []layoutEdge) int {
	_ = nodes
	_ = edges
	return 0
}

// position groups nodes by rank in insertion order and spreads each rank
// horizontally. Ranks stack vertically at a fixed pitch.
func position(nodes []NodeBox) {
	perRank := make(map[int]int)
	for i := range nodes {
		order := perRank[nodes[i].Rank]
		perRank[nodes[i].Rank] = order + 1

		nodes[i].Order = order
		nodes[i].X = float64(order) * (horizontalGap + nodes[i].Width)
		nodes[i].Y = float64(nodes[i].Rank) * (verticalGap + nodeHeight)
	}
}

// routeEdges draws each edge as a straight segment between node centers.
func routeEdges(nodes []NodeBox, edges []layoutEdge) []EdgePath {
	paths := make([]EdgePath, len(edges))
	for i, e := range edges {
		paths[i] = EdgePath{
			Index:    e.index,
			Points:   []Point{nodes[e.from].Center(), nodes[e.to].Center()},
			Reversed: e.reversed,
		}
	}
	return paths
}

// boxClusters computes the padded bounding box of each cluster's members.
// Clusters with no resolvable members produce non-finite unions and are
// dropped.
func boxClusters(d *ir.Diagram, nodes []NodeBox) []ClusterBox {
	boxes := make([]ClusterBox, 0, len(d.Clusters))
	for i, cluster := range d.Clusters {
		bounds := Rect{X: math.Inf(1), Y: math.Inf(1), Width: math.Inf(-1), Height: math.Inf(-1)}
		first := true
		for _, member := range cluster.Members {
			idx := int(member)
			if idx < 0 || idx >= len(nodes) {
				continue
			}
			if first {
				bounds = nodes[idx].rect()
				first = false
			} else {
				bounds = bounds.union(nodes[idx].rect())
			}
		}
		padded := bounds.pad(clusterPadding)
		if !padded.finite() {
			continue
		}
		boxes = append(boxes, ClusterBox{
			Index: i,
			Title: d.LabelText(cluster.Title),
			Rect:  padded,
		})
	}
	return boxes
}

// computeBounds unions every node box and padded cluster box, then pads the
// result once more so strokes at the border stay inside the canvas.
func computeBounds(nodes []NodeBox, clusters []ClusterBox) Rect {
	var bounds Rect
	first := true
	accumulate := func(r Rect) {
		if first {
			bounds = r
			first = false
		} else {
			bounds = bounds.union(r)
		}
	}
	for _, n := range nodes {
		accumulate(n.rect())
	}
	for _, c := range clusters {
		accumulate(c.Rect)
	}
	if first {
		return Rect{}
	}
	return bounds.pad(clusterPadding)
}

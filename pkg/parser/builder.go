package parser

import (
	"fmt"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// IR Builder
// =============================================================================

// Result is what parsing produces: a diagram that is always usable plus the
// warnings accumulated on the way there.
type Result struct {
	IR       *ir.Diagram `json:"ir"`
	Warnings []string    `json:"warnings"`
}

// builder accumulates IR state while dialect parsers walk the source. Node
// and cluster identity is by normalized id; repeated mentions merge instead
// of duplicating.
type builder struct {
	d            *ir.Diagram
	nodeIndex    map[string]ir.NodeID
	clusterIndex map[string]int
	warnings     []string
	autoCreated  []string
}

func newBuilder(t ir.DiagramType) *builder {
	return &builder{
		d:            ir.Empty(t),
		nodeIndex:    make(map[string]ir.NodeID),
		clusterIndex: make(map[string]int),
		warnings:     []string{},
	}
}

func (b *builder) setDirection(dir ir.Direction) {
	b.d.Direction = dir
}

func (b *builder) warn(msg string) {
	b.warnings = append(b.warnings, msg)
}

func (b *builder) warnf(format string, args ...any) {
	b.warn(fmt.Sprintf(format, args...))
}

// warnUnsupported records the standard complaint for a line no dialect rule
// matched.
func (b *builder) warnUnsupported(lineNumber int, dialect ir.DiagramType, text string) {
	b.warnf("Line %d: unsupported %s syntax: %s", lineNumber, dialect, text)
}

func (b *builder) nodeCount() int { return len(b.d.Nodes) }
func (b *builder) edgeCount() int { return len(b.d.Edges) }

// internLabel stores cleaned label text and returns its handle, or nil when
// the text cleans down to nothing.
func (b *builder) internLabel(raw string, span ir.Span) *ir.LabelID {
	text := cleanLabel(raw)
	if text == "" {
		return nil
	}
	id := ir.LabelID(len(b.d.Labels))
	b.d.Labels = append(b.d.Labels, ir.Label{Text: text, Span: span})
	return &id
}

// internNode creates or merges a node. The merge rule: a label attaches only
// if the node has none yet, and a shape overwrites only while the stored
// shape is still the default rectangle. Every occurrence extends SpanAll.
func (b *builder) internNode(id, label string, shape ir.NodeShape, span ir.Span) ir.NodeID {
	if existing, ok := b.nodeIndex[id]; ok {
		node := &b.d.Nodes[existing]
		if node.Label == nil {
			node.Label = b.internLabel(label, span)
		}
		if node.Shape == ir.ShapeRect && shape != ir.ShapeRect {
			node.Shape = shape
		}
		node.SpanAll = append(node.SpanAll, span)
		return existing
	}

	nodeID := ir.NodeID(len(b.d.Nodes))
	b.d.Nodes = append(b.d.Nodes, ir.Node{
		ID:      id,
		Label:   b.internLabel(label, span),
		Shape:   shape,
		Span:    span,
		SpanAll: []ir.Span{span},
	})
	b.nodeIndex[id] = nodeID
	return nodeID
}

// internImplicitNode interns a node that only ever appeared as an edge
// endpoint, remembering it for the recovery diagnostic at finish time.
func (b *builder) internImplicitNode(id string, span ir.Span) ir.NodeID {
	if existing, ok := b.nodeIndex[id]; ok {
		return existing
	}
	nodeID := b.internNode(id, "", ir.ShapeRect, span)
	b.d.Nodes[nodeID].Implicit = true
	b.autoCreated = append(b.autoCreated, id)
	return nodeID
}

func (b *builder) addClassToNode(nodeID ir.NodeID, class string) {
	node := &b.d.Nodes[nodeID]
	for _, existing := range node.Classes {
		if existing == class {
			return
		}
	}
	node.Classes = append(node.Classes, class)
}

func (b *builder) addEntityAttribute(nodeID ir.NodeID, attr ir.EntityAttribute) {
	node := &b.d.Nodes[nodeID]
	node.Members = append(node.Members, attr)
}

// ensureCluster creates a cluster for key or returns the existing index. A
// title attaches on re-ensure only when the cluster has none yet.
func (b *builder) ensureCluster(key, title string, span ir.Span) int {
	if idx, ok := b.clusterIndex[key]; ok {
		if b.d.Clusters[idx].Title == nil {
			b.d.Clusters[idx].Title = b.internLabel(title, span)
		}
		return idx
	}
	idx := len(b.d.Clusters)
	b.d.Clusters = append(b.d.Clusters, ir.Cluster{
		ID:    ir.ClusterID(idx),
		Title: b.internLabel(title, span),
		Span:  span,
	})
	b.clusterIndex[key] = idx
	return idx
}

// addNodeToCluster records membership, deduplicated.
func (b *builder) addNodeToCluster(idx int, nodeID ir.NodeID) {
	cluster := &b.d.Clusters[idx]
	for _, member := range cluster.Members {
		if member == nodeID {
			return
		}
	}
	cluster.Members = append(cluster.Members, nodeID)
}

// pushEdge appends an edge between two interned nodes.
func (b *builder) pushEdge(from, to ir.NodeID, arrow ir.ArrowType, label string, span ir.Span) {
	b.d.Edges = append(b.d.Edges, ir.Edge{
		From:  ir.NodeEndpoint(from),
		To:    ir.NodeEndpoint(to),
		Arrow: arrow,
		Label: b.internLabel(label, span),
		Span:  span,
	})
}

// finish runs semantic recovery and seals the result. Auto-created
// placeholder endpoints get an info diagnostic; edges that still point
// nowhere get counted into a warning. A diagram with no content at all gets
// the catch-all warning so downstream consumers know parsing found nothing,
// not that it crashed.
func (b *builder) finish() Result {
	if len(b.autoCreated) > 0 {
		var msg string
		if len(b.autoCreated) == 1 {
			msg = fmt.Sprintf("Auto-created placeholder node '%s' for dangling edge reference", b.autoCreated[0])
		} else {
			msg = fmt.Sprintf("Auto-created %d placeholder nodes for dangling edge references", len(b.autoCreated))
		}
		b.d.AddDiagnostic(ir.InfoDiagnostic(msg).
			WithCategory(ir.CategoryRecovery).
			WithSuggestion("Define these nodes explicitly for better diagram quality"))
	}

	unresolved := 0
	for _, e := range b.d.Edges {
		if !e.From.IsResolved() || !e.To.IsResolved() {
			unresolved++
		}
	}
	if unresolved > 0 {
		b.d.AddDiagnostic(ir.WarningDiagnostic(
			fmt.Sprintf("%d edge(s) have unresolved endpoints", unresolved)).
			WithCategory(ir.CategorySemantic))
	}

	if len(b.d.Nodes) == 0 && len(b.d.Edges) == 0 {
		b.warnf("No nodes or edges were recognized in the %s input", b.d.Type)
	}

	return Result{IR: b.d, Warnings: b.warnings}
}

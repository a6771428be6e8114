// Package ir defines the typed intermediate representation shared by the
// dialect parsers and the layout engine.
//
// All entities live in flat, insertion-ordered slices on [Diagram] and refer
// to each other by integer handles, never by pointer. Handles are stable for
// the lifetime of one Diagram: renderers may index into Nodes, Labels, and
// Clusters directly. A Diagram is built in a single parse pass and must be
// treated as immutable afterwards.
package ir

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Source Positions
// =============================================================================

// Position is a single point in the source text.
type Position struct {
	Line int `json:"line" bson:"line"`
	Col  int `json:"col" bson:"col"`
	Byte int `json:"byte" bson:"byte"`
}

// Span is a half-open source range attached to IR elements for diagnostics.
// The zero Span has no real source mapping and is valid for synthesized
// elements.
type Span struct {
	Start Position `json:"start" bson:"start"`
	End   Position `json:"end" bson:"end"`
}

// SpanAtLine builds a span covering one whole source line.
func SpanAtLine(line, lineLen int) Span {
	if lineLen < 1 {
		lineLen = 1
	}
	return Span{
		Start: Position{Line: line, Col: 1},
		End:   Position{Line: line, Col: lineLen},
	}
}

// =============================================================================
// Enumerations
// =============================================================================

// DiagramType classifies the input dialect. It drives which dialect parser
// runs; Unknown means no parser matched the first significant line.
type DiagramType string

const (
	DiagramFlowchart        DiagramType = "flowchart"
	DiagramSequence         DiagramType = "sequence"
	DiagramState            DiagramType = "state"
	DiagramGantt            DiagramType = "gantt"
	DiagramClass            DiagramType = "class"
	DiagramEr               DiagramType = "er"
	DiagramMindmap          DiagramType = "mindmap"
	DiagramPie              DiagramType = "pie"
	DiagramGitGraph         DiagramType = "gitGraph"
	DiagramJourney          DiagramType = "journey"
	DiagramRequirement      DiagramType = "requirementDiagram"
	DiagramTimeline         DiagramType = "timeline"
	DiagramQuadrantChart    DiagramType = "quadrantChart"
	DiagramSankey           DiagramType = "sankey"
	DiagramXyChart          DiagramType = "xyChart"
	DiagramBlockBeta        DiagramType = "block-beta"
	DiagramPacketBeta       DiagramType = "packet-beta"
	DiagramArchitectureBeta DiagramType = "architecture-beta"
	DiagramC4Context        DiagramType = "C4Context"
	DiagramC4Container      DiagramType = "C4Container"
	DiagramC4Component      DiagramType = "C4Component"
	DiagramC4Dynamic        DiagramType = "C4Dynamic"
	DiagramC4Deployment     DiagramType = "C4Deployment"
	DiagramUnknown          DiagramType = "unknown"
)

// Direction is the requested flow direction of the diagram.
// TB and TD are synonyms for top-to-bottom.
type Direction string

const (
	DirectionTB Direction = "TB"
	DirectionTD Direction = "TD"
	DirectionLR Direction = "LR"
	DirectionRL Direction = "RL"
	DirectionBT Direction = "BT"
)

// ParseDirection maps a direction token to a Direction, reporting whether
// the token was recognized.
func ParseDirection(token string) (Direction, bool) {
	switch token {
	case "TB":
		return DirectionTB, true
	case "TD":
		return DirectionTD, true
	case "LR":
		return DirectionLR, true
	case "RL":
		return DirectionRL, true
	case "BT":
		return DirectionBT, true
	}
	return DirectionTB, false
}

// NodeShape is a descriptive shape marker carried through to renderers.
// Shape never affects layout math.
type NodeShape string

const (
	ShapeRect             NodeShape = "rect"
	ShapeRounded          NodeShape = "rounded"
	ShapeStadium          NodeShape = "stadium"
	ShapeSubroutine       NodeShape = "subroutine"
	ShapeDiamond          NodeShape = "diamond"
	ShapeHexagon          NodeShape = "hexagon"
	ShapeCircle           NodeShape = "circle"
	ShapeAsymmetric       NodeShape = "asymmetric"
	ShapeCylinder         NodeShape = "cylinder"
	ShapeTrapezoid        NodeShape = "trapezoid"
	ShapeInvTrapezoid     NodeShape = "inv-trapezoid"
	ShapeDoubleCircle     NodeShape = "double-circle"
	ShapeNote             NodeShape = "note"
	ShapeParallelogram    NodeShape = "parallelogram"
	ShapeInvParallelogram NodeShape = "inv-parallelogram"
	ShapeTriangle         NodeShape = "triangle"
	ShapePentagon         NodeShape = "pentagon"
	ShapeStar             NodeShape = "star"
	ShapeCloud            NodeShape = "cloud"
	ShapeTag              NodeShape = "tag"
	ShapeCrossedCircle    NodeShape = "crossed-circle"
)

// ArrowType describes the stroke and head of an edge.
type ArrowType string

const (
	ArrowLine   ArrowType = "line"
	ArrowNormal ArrowType = "arrow"
	ArrowThick  ArrowType = "thick"
	ArrowDotted ArrowType = "dotted"
	ArrowCircle ArrowType = "circle"
	ArrowCross  ArrowType = "cross"
)

// =============================================================================
// Handles
// =============================================================================

// NodeID is a stable index into Diagram.Nodes.
type NodeID int

// PortID is a stable index into Diagram.Ports.
type PortID int

// LabelID is a stable index into Diagram.Labels.
type LabelID int

// ClusterID is a stable index into Diagram.Clusters.
type ClusterID int

// =============================================================================
// Entities
// =============================================================================

// Label is one interned label text. The label table is append-only so that
// LabelID handles stay valid.
type Label struct {
	Text string `json:"text" bson:"text"`
	Span Span   `json:"span" bson:"span"`
}

// Node is one diagram node. ID is the dedup key used by the builder's
// interning table; SpanAll accumulates every source occurrence.
type Node struct {
	ID       string    `json:"id" bson:"id"`
	Label    *LabelID  `json:"label,omitempty" bson:"label,omitempty"`
	Shape    NodeShape `json:"shape" bson:"shape"`
	Classes  []string  `json:"classes,omitempty" bson:"classes,omitempty"`
	Span     Span      `json:"span" bson:"span"`
	SpanAll  []Span    `json:"span_all,omitempty" bson:"span_all,omitempty"`
	Implicit bool      `json:"implicit,omitempty" bson:"implicit,omitempty"`

	// Members holds entity attributes for ER diagrams.
	Members []EntityAttribute `json:"members,omitempty" bson:"members,omitempty"`
}

// AttributeKey is the key modifier of an ER entity attribute.
type AttributeKey string

const (
	AttributeKeyNone    AttributeKey = ""
	AttributeKeyPrimary AttributeKey = "PK"
	AttributeKeyForeign AttributeKey = "FK"
	AttributeKeyUnique  AttributeKey = "UK"
)

// EntityAttribute is one attribute row of an ER entity block.
type EntityAttribute struct {
	DataType string       `json:"data_type" bson:"data_type"`
	Name     string       `json:"name" bson:"name"`
	Key      AttributeKey `json:"key,omitempty" bson:"key,omitempty"`
	Comment  string       `json:"comment,omitempty" bson:"comment,omitempty"`
}

// Port is a named attachment point owned by a node.
type Port struct {
	Node NodeID   `json:"node" bson:"node"`
	Name string   `json:"name" bson:"name"`
	Side SideHint `json:"side" bson:"side"`
	Span Span     `json:"span" bson:"span"`
}

// SideHint suggests which node side a port attaches to.
type SideHint string

const (
	SideAuto       SideHint = "auto"
	SideHorizontal SideHint = "horizontal"
	SideVertical   SideHint = "vertical"
)

// EndpointKind discriminates the Endpoint variant.
type EndpointKind string

const (
	EndpointUnresolved EndpointKind = "unresolved"
	EndpointNode       EndpointKind = "node"
	EndpointPort       EndpointKind = "port"
)

// Endpoint is a tagged reference to one side of an edge. Check Kind before
// reading Node or Port; the zero value is Unresolved.
type Endpoint struct {
	Kind EndpointKind `json:"kind" bson:"kind"`
	Node NodeID       `json:"node,omitempty" bson:"node,omitempty"`
	Port PortID       `json:"port,omitempty" bson:"port,omitempty"`
}

// NodeEndpoint builds an endpoint referencing a node handle.
func NodeEndpoint(id NodeID) Endpoint {
	return Endpoint{Kind: EndpointNode, Node: id}
}

// PortEndpoint builds an endpoint referencing a port handle.
func PortEndpoint(id PortID) Endpoint {
	return Endpoint{Kind: EndpointPort, Port: id}
}

// IsResolved reports whether the endpoint references a node or port.
func (e Endpoint) IsResolved() bool { return e.Kind == EndpointNode || e.Kind == EndpointPort }

// Edge is one directed connection between two endpoints.
type Edge struct {
	From  Endpoint  `json:"from" bson:"from"`
	To    Endpoint  `json:"to" bson:"to"`
	Arrow ArrowType `json:"arrow" bson:"arrow"`
	Label *LabelID  `json:"label,omitempty" bson:"label,omitempty"`
	Span  Span      `json:"span" bson:"span"`
}

// Cluster is a named grouping of nodes (subgraph), possibly nested.
// Members reference nodes in the same Diagram.
type Cluster struct {
	ID      ClusterID `json:"id" bson:"id"`
	Title   *LabelID  `json:"title,omitempty" bson:"title,omitempty"`
	Members []NodeID  `json:"members" bson:"members"`
	Span    Span      `json:"span" bson:"span"`
}

// ConstraintKind discriminates the Constraint variant.
type ConstraintKind string

const (
	ConstraintSameRank    ConstraintKind = "same-rank"
	ConstraintMinLength   ConstraintKind = "min-length"
	ConstraintPin         ConstraintKind = "pin"
	ConstraintOrderInRank ConstraintKind = "order-in-rank"
)

// Constraint is a layout hint accepted into the IR but not consumed by the
// layout engine. It is a forward-compatibility surface: parsers may record
// constraints and future engines may honor them.
type Constraint struct {
	Kind    ConstraintKind `json:"kind" bson:"kind"`
	NodeIDs []string       `json:"node_ids,omitempty" bson:"node_ids,omitempty"`
	FromID  string         `json:"from_id,omitempty" bson:"from_id,omitempty"`
	ToID    string         `json:"to_id,omitempty" bson:"to_id,omitempty"`
	MinLen  int            `json:"min_len,omitempty" bson:"min_len,omitempty"`
	X       float64        `json:"x,omitempty" bson:"x,omitempty"`
	Y       float64        `json:"y,omitempty" bson:"y,omitempty"`
	Span    Span           `json:"span" bson:"span"`
}

// =============================================================================
// Diagram - IR Container
// =============================================================================

// Diagram is the complete intermediate representation of one parsed input.
//
// All slices are insertion-ordered and index-stable: handles stored anywhere
// in the IR index directly into them. Warnings collects the parser's
// non-fatal recovery messages; Diagnostics carries the structured form.
type Diagram struct {
	Type        DiagramType  `json:"type" bson:"type"`
	Direction   Direction    `json:"direction" bson:"direction"`
	Nodes       []Node       `json:"nodes" bson:"nodes"`
	Edges       []Edge       `json:"edges" bson:"edges"`
	Ports       []Port       `json:"ports" bson:"ports"`
	Clusters    []Cluster    `json:"clusters" bson:"clusters"`
	Labels      []Label      `json:"labels" bson:"labels"`
	Constraints []Constraint `json:"constraints,omitempty" bson:"constraints,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// Empty builds an empty diagram of the given type with the default
// top-to-bottom direction.
func Empty(t DiagramType) *Diagram {
	return &Diagram{
		Type:      t,
		Direction: DirectionTB,
		Nodes:     []Node{},
		Edges:     []Edge{},
		Ports:     []Port{},
		Clusters:  []Cluster{},
		Labels:    []Label{},
	}
}

// FindNodeIndex returns the index of the node with the given id, or -1.
func (d *Diagram) FindNodeIndex(id string) int {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// LabelText resolves a label handle to its text. Returns the empty string
// for nil or out-of-range handles.
func (d *Diagram) LabelText(id *LabelID) string {
	if id == nil {
		return ""
	}
	i := int(*id)
	if i < 0 || i >= len(d.Labels) {
		return ""
	}
	return d.Labels[i].Text
}

// NodeDisplay returns the node's label text if present, otherwise its id.
func (d *Diagram) NodeDisplay(n *Node) string {
	if text := d.LabelText(n.Label); text != "" {
		return text
	}
	return n.ID
}

// AddDiagnostic appends a structured diagnostic.
func (d *Diagram) AddDiagnostic(diag Diagnostic) {
	d.Diagnostics = append(d.Diagnostics, diag)
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalDiagram serializes a Diagram to pretty-printed JSON bytes.
func MarshalDiagram(d *Diagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDiagram deserializes JSON bytes into a Diagram.
func UnmarshalDiagram(data []byte) (*Diagram, error) {
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal diagram: %w", err)
	}
	if d.Type == "" {
		d.Type = DiagramUnknown
	}
	if d.Direction == "" {
		d.Direction = DirectionTB
	}
	return &d, nil
}

// WriteDiagramFile writes a Diagram to a JSON file.
func WriteDiagramFile(d *Diagram, path string) error {
	data, err := MarshalDiagram(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDiagramFile reads a Diagram from a JSON file.
func ReadDiagramFile(path string) (*Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalDiagram(data)
}

// Package export converts a parsed diagram and its computed layout into
// interchange formats for downstream tools.
//
// The primary output is Graphviz DOT text built by [ToDOT]. When a layout is
// supplied, node positions are pinned so Graphviz reproduces the deterministic
// coordinates instead of computing its own. [RenderSVG] and [RenderPNG] feed
// the DOT text through Graphviz for vector and raster output.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/layout"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes shape and class metadata in node labels.
	// When false, only the display label is shown.
	Detailed bool
}

// ToDOT converts a diagram to Graphviz DOT format. The layout is optional;
// when non-nil, node positions and sizes are pinned with pos/width/height
// attributes. The resulting DOT string can be rendered with [RenderSVG] or
// [RenderPNG].
func ToDOT(d *ir.Diagram, l *layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(d.Direction))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	boxes := nodeBoxes(l)
	owner := clusterOwners(d)

	for ci := range d.Clusters {
		c := &d.Clusters[ci]
		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", ci)
		if title := d.LabelText(c.Title); title != "" {
			fmt.Fprintf(&buf, "    label=%q;\n", title)
		}
		for _, nid := range c.Members {
			if int(nid) < len(d.Nodes) && owner[int(nid)] == ci {
				writeNode(&buf, d, int(nid), boxes, opts, "    ")
			}
		}
		buf.WriteString("  }\n")
	}

	for i := range d.Nodes {
		if _, clustered := owner[i]; !clustered {
			writeNode(&buf, d, i, boxes, opts, "  ")
		}
	}

	buf.WriteString("\n")
	for i := range d.Edges {
		writeEdge(&buf, d, &d.Edges[i])
	}

	buf.WriteString("}\n")
	return buf.String()
}

// rankdir maps the diagram direction to a Graphviz rankdir value.
func rankdir(dir ir.Direction) string {
	switch dir {
	case ir.DirectionLR:
		return "LR"
	case ir.DirectionRL:
		return "RL"
	case ir.DirectionBT:
		return "BT"
	default:
		return "TB"
	}
}

// nodeBoxes indexes layout boxes by node index for pos pinning.
func nodeBoxes(l *layout.Layout) map[int]*layout.NodeBox {
	if l == nil {
		return nil
	}
	boxes := make(map[int]*layout.NodeBox, len(l.Nodes))
	for i := range l.Nodes {
		boxes[l.Nodes[i].Index] = &l.Nodes[i]
	}
	return boxes
}

// clusterOwners maps each clustered node index to its innermost cluster.
// Nested subgraphs record a node in every enclosing cluster; the innermost
// one is appended last, and DOT allows a node in only one subgraph.
func clusterOwners(d *ir.Diagram) map[int]int {
	owner := make(map[int]int)
	for ci := range d.Clusters {
		for _, nid := range d.Clusters[ci].Members {
			owner[int(nid)] = ci
		}
	}
	return owner
}

func writeNode(buf *bytes.Buffer, d *ir.Diagram, idx int, boxes map[int]*layout.NodeBox, opts Options, indent string) {
	n := &d.Nodes[idx]
	attrs := []string{fmt.Sprintf("label=%q", fmtNodeLabel(d, n, opts.Detailed))}
	attrs = append(attrs, shapeAttrs(n.Shape)...)
	if n.Implicit {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	if box, ok := boxes[idx]; ok {
		c := box.Center()
		attrs = append(attrs,
			fmt.Sprintf("pos=\"%.1f,%.1f!\"", c.X, -c.Y),
			fmt.Sprintf("width=%.3f", box.Width/72.0),
			fmt.Sprintf("height=%.3f", box.Height/72.0),
			"fixedsize=true")
	}
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs, ", "))
}

func fmtNodeLabel(d *ir.Diagram, n *ir.Node, detailed bool) string {
	label := d.NodeDisplay(n)
	if !detailed {
		return label
	}
	parts := []string{label, fmt.Sprintf("shape: %s", n.Shape)}
	if len(n.Classes) > 0 {
		parts = append(parts, "classes: "+strings.Join(n.Classes, " "))
	}
	for _, m := range n.Members {
		row := strings.TrimSpace(m.DataType + " " + m.Name)
		if m.Key != ir.AttributeKeyNone {
			row += " " + string(m.Key)
		}
		parts = append(parts, row)
	}
	return strings.Join(parts, "\n")
}

// shapeAttrs maps an IR shape marker to Graphviz node attributes. Markers
// without a Graphviz counterpart fall back to the box default.
func shapeAttrs(shape ir.NodeShape) []string {
	switch shape {
	case ir.ShapeDiamond:
		return []string{"shape=diamond"}
	case ir.ShapeHexagon:
		return []string{"shape=hexagon"}
	case ir.ShapeCircle:
		return []string{"shape=circle"}
	case ir.ShapeDoubleCircle:
		return []string{"shape=doublecircle"}
	case ir.ShapeCylinder:
		return []string{"shape=cylinder"}
	case ir.ShapeSubroutine:
		return []string{"shape=box", "peripheries=2"}
	case ir.ShapeStadium, ir.ShapeRounded:
		return nil
	case ir.ShapeParallelogram:
		return []string{"shape=parallelogram"}
	case ir.ShapeInvParallelogram:
		return []string{"shape=parallelogram", "orientation=180"}
	case ir.ShapeTrapezoid:
		return []string{"shape=trapezium"}
	case ir.ShapeInvTrapezoid:
		return []string{"shape=invtrapezium"}
	case ir.ShapeTriangle:
		return []string{"shape=triangle"}
	case ir.ShapePentagon:
		return []string{"shape=pentagon"}
	case ir.ShapeStar:
		return []string{"shape=star"}
	case ir.ShapeNote:
		return []string{"shape=note"}
	case ir.ShapeTag:
		return []string{"shape=cds"}
	case ir.ShapeAsymmetric:
		return []string{"shape=cds"}
	case ir.ShapeCloud:
		return []string{"shape=ellipse"}
	default:
		return nil
	}
}

func writeEdge(buf *bytes.Buffer, d *ir.Diagram, e *ir.Edge) {
	from, ok := endpointID(d, e.From)
	if !ok {
		return
	}
	to, ok := endpointID(d, e.To)
	if !ok {
		return
	}

	attrs := arrowAttrs(e.Arrow)
	if label := d.LabelText(e.Label); label != "" {
		attrs = append([]string{fmt.Sprintf("label=%q", label)}, attrs...)
	}
	if len(attrs) == 0 {
		fmt.Fprintf(buf, "  %q -> %q;\n", from, to)
		return
	}
	fmt.Fprintf(buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
}

// endpointID resolves an endpoint to its node id string. Ports resolve
// through their owning node.
func endpointID(d *ir.Diagram, ep ir.Endpoint) (string, bool) {
	switch ep.Kind {
	case ir.EndpointNode:
		if int(ep.Node) < len(d.Nodes) {
			return d.Nodes[ep.Node].ID, true
		}
	case ir.EndpointPort:
		if int(ep.Port) < len(d.Ports) {
			nid := d.Ports[ep.Port].Node
			if int(nid) < len(d.Nodes) {
				return d.Nodes[nid].ID, true
			}
		}
	}
	return "", false
}

// arrowAttrs maps an IR arrow type to Graphviz edge attributes.
func arrowAttrs(arrow ir.ArrowType) []string {
	switch arrow {
	case ir.ArrowLine:
		return []string{"dir=none"}
	case ir.ArrowThick:
		return []string{"penwidth=2"}
	case ir.ArrowDotted:
		return []string{"style=dashed"}
	case ir.ArrowCircle:
		return []string{"arrowhead=odot"}
	case ir.ArrowCross:
		return []string{"arrowhead=tee"}
	default:
		return nil
	}
}

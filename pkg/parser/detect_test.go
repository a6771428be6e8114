package parser

import (
	"testing"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

func TestDetectDiagramType(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   ir.DiagramType
	}{
		{"flowchart", "flowchart TD\nA-->B", ir.DiagramFlowchart},
		{"legacy graph", "graph LR\nA-->B", ir.DiagramFlowchart},
		{"graph no direction", "graph\nA-->B", ir.DiagramFlowchart},
		{"sequence", "sequenceDiagram\nA->>B: hi", ir.DiagramSequence},
		{"sequence lowercase", "sequencediagram\nA->>B: hi", ir.DiagramSequence},
		{"class", "classDiagram\nA <|-- B", ir.DiagramClass},
		{"state", "stateDiagram\n[*] --> A", ir.DiagramState},
		{"state v2", "stateDiagram-v2\n[*] --> A", ir.DiagramState},
		{"gantt", "gantt\ntitle Plan", ir.DiagramGantt},
		{"er", "erDiagram\nA ||--o{ B : has", ir.DiagramEr},
		{"mindmap", "mindmap\n  root", ir.DiagramMindmap},
		{"pie", "pie\n\"a\" : 1", ir.DiagramPie},
		{"git", "gitGraph\ncommit", ir.DiagramGitGraph},
		{"journey", "journey\ntitle Day", ir.DiagramJourney},
		{"requirement", "requirementDiagram\n", ir.DiagramRequirement},
		{"timeline", "timeline\n2002 : a", ir.DiagramTimeline},
		{"quadrant", "quadrantChart\ntitle Reach", ir.DiagramQuadrantChart},
		{"sankey", "sankey-beta\n", ir.DiagramSankey},
		{"xychart", "xychart-beta\n", ir.DiagramXyChart},
		{"block", "block-beta\n", ir.DiagramBlockBeta},
		{"packet", "packet-beta\n0-15: \"Port\"", ir.DiagramPacketBeta},
		{"architecture", "architecture-beta\n", ir.DiagramArchitectureBeta},
		{"c4 context", "C4Context\ntitle System", ir.DiagramC4Context},
		{"c4 container", "C4Container\n", ir.DiagramC4Container},
		{"c4 component", "C4Component\n", ir.DiagramC4Component},
		{"c4 dynamic", "C4Dynamic\n", ir.DiagramC4Dynamic},
		{"c4 deployment", "C4Deployment\n", ir.DiagramC4Deployment},
		{"c4 wrong case", "c4context\n", ir.DiagramUnknown},
		{"skips comments", "%% intro\n\nflowchart LR\nA-->B", ir.DiagramFlowchart},
		{"skips directive", "%%{init: {\"theme\": \"dark\"}}%%\nflowchart LR", ir.DiagramFlowchart},
		{"unknown", "not a diagram", ir.DiagramUnknown},
		{"empty", "", ir.DiagramUnknown},
		{"only comments", "%% nothing here", ir.DiagramUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDiagramType(tt.source); got != tt.want {
				t.Errorf("DetectDiagramType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectionSurvivesParsing(t *testing.T) {
	sources := []string{
		"flowchart LR\nA-->B",
		"sequenceDiagram\nA->>B: hi",
		"classDiagram\nA <|-- B",
		"stateDiagram-v2\n[*] --> A",
		"gantt\ntitle Plan",
		"erDiagram\nA ||--o{ B : has",
		"pie\n\"a\" : 1",
	}
	for _, source := range sources {
		want := DetectDiagramType(source)
		got := Parse(source).IR.Type
		if got != want {
			t.Errorf("Parse(%q).IR.Type = %q, want detected %q", source, got, want)
		}
	}
}

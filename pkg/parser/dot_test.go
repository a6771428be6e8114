package parser

import (
	"strings"
	"testing"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

func TestLooksLikeDOT(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"digraph G { a -> b }", true},
		{"strict digraph G { a -> b }", true},
		{"graph G { a -- b }", true},
		{"strict graph G { a -- b }", true},
		{"graph LR\nA-->B", false},
		{"digraph G", false},
		{"flowchart TD\nA-->B", false},
	}
	for _, tt := range tests {
		if got := looksLikeDOT(tt.source); got != tt.want {
			t.Errorf("looksLikeDOT(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestDOTBasicEdge(t *testing.T) {
	result := Parse(`digraph G { a -> b [label="x"]; }`)
	d := result.IR

	if d.Type != ir.DiagramFlowchart {
		t.Errorf("Type = %q, want %q", d.Type, ir.DiagramFlowchart)
	}
	if len(d.Nodes) != 2 {
		t.Fatalf("node count = %d, want 2", len(d.Nodes))
	}
	if len(d.Edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(d.Edges))
	}
	e := d.Edges[0]
	if e.Arrow != ir.ArrowNormal {
		t.Errorf("arrow = %q, want %q", e.Arrow, ir.ArrowNormal)
	}
	if got := d.LabelText(e.Label); got != "x" {
		t.Errorf("label = %q, want x", got)
	}
}

func TestDOTUndirected(t *testing.T) {
	d := Parse("graph G {\n  a -- b\n}").IR
	if len(d.Edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(d.Edges))
	}
	if d.Edges[0].Arrow != ir.ArrowLine {
		t.Errorf("arrow = %q, want %q", d.Edges[0].Arrow, ir.ArrowLine)
	}
}

func TestDOTChain(t *testing.T) {
	d := Parse("digraph G { a -> b -> c; }").IR
	if len(d.Nodes) != 3 || len(d.Edges) != 2 {
		t.Errorf("got %d nodes, %d edges, want 3 and 2", len(d.Nodes), len(d.Edges))
	}
}

func TestDOTSubgraph(t *testing.T) {
	source := strings.Join([]string{
		"digraph G {",
		"  subgraph cluster_backend {",
		"    api -> db",
		"  }",
		"  web -> api",
		"}",
	}, "\n")
	d := Parse(source).IR

	if len(d.Clusters) != 1 {
		t.Fatalf("cluster count = %d, want 1", len(d.Clusters))
	}
	if got := len(d.Clusters[0].Members); got != 2 {
		t.Errorf("cluster members = %d, want 2", got)
	}
	if d.FindNodeIndex("web") < 0 {
		t.Error("node outside subgraph missing")
	}
}

func TestDOTAttributeDefaultsSkipped(t *testing.T) {
	source := strings.Join([]string{
		"digraph G {",
		"  rankdir=LR",
		"  node [shape=box]",
		"  a -> b",
		"}",
	}, "\n")
	d := Parse(source).IR

	if len(d.Nodes) != 2 {
		t.Errorf("node count = %d, want 2 (defaults must not intern)", len(d.Nodes))
	}
}

func TestDOTQuotedAndHTMLLabels(t *testing.T) {
	escaped := Parse(`digraph G { a -> b [label="line \"two\""]; }`).IR
	if got := escaped.LabelText(escaped.Edges[0].Label); got != `line "two"` {
		t.Errorf("escaped label = %q, want %q", got, `line "two"`)
	}

	html := Parse("digraph G { a [label=<<b>Bold</b>>]; }").IR
	idx := html.FindNodeIndex("a")
	if idx < 0 {
		t.Fatal("node a missing")
	}
	if got := html.NodeDisplay(&html.Nodes[idx]); got != "Bold" {
		t.Errorf("html label = %q, want Bold", got)
	}
}

func TestDOTFirstLineArrowImpliesDirected(t *testing.T) {
	// No digraph keyword, but the body uses ->.
	d := Parse("graph G { a -> b }").IR
	if d.Edges[0].Arrow != ir.ArrowNormal {
		t.Errorf("arrow = %q, want %q", d.Edges[0].Arrow, ir.ArrowNormal)
	}
}

package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/cache"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/errors"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestExecuteBasic(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	result, err := r.Execute(ctx, "flowchart LR\nA[Start] --> B[End]", Options{
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.SourceHash == "" {
		t.Error("SourceHash should be set")
	}
	if result.Detected != ir.DiagramFlowchart {
		t.Errorf("Detected = %q, want %q", result.Detected, ir.DiagramFlowchart)
	}
	if result.Stats.NodeCount != 2 || result.Stats.EdgeCount != 1 {
		t.Errorf("Stats = %+v, want 2 nodes and 1 edge", result.Stats)
	}
	if result.Layout == nil || len(result.Layout.Nodes) != 2 {
		t.Fatalf("Layout = %+v, want 2 node boxes", result.Layout)
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot artifact = %s", result.Artifacts[FormatDOT])
	}
	if !strings.Contains(string(result.Artifacts[FormatJSON]), `"layout"`) {
		t.Errorf("json artifact missing layout section")
	}
}

func TestExecuteCacheHits(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	defer r.Close()

	opts := Options{Formats: []string{FormatDOT}}
	source := "flowchart TD\nA --> B"

	first, err := r.Execute(ctx, source, opts)
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.ParseHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}

	second, err := r.Execute(ctx, source, Options{Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.ParseHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if string(first.Artifacts[FormatDOT]) != string(second.Artifacts[FormatDOT]) {
		t.Error("cached artifact should match the computed one")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	defer r.Close()

	source := "flowchart TD\nA --> B"
	if _, err := r.Execute(ctx, source, Options{Formats: []string{FormatDOT}}); err != nil {
		t.Fatal(err)
	}

	refreshed, err := r.Execute(ctx, source, Options{Formats: []string{FormatDOT}, Refresh: true})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if refreshed.CacheInfo.ParseHit || refreshed.CacheInfo.LayoutHit || refreshed.CacheInfo.RenderHit {
		t.Errorf("Refresh run CacheInfo = %+v, want all misses", refreshed.CacheInfo)
	}
}

func TestExecuteTraceSnapshots(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	result, err := r.Execute(ctx, "flowchart TD\nA --> B\nB --> C", Options{
		Trace:   true,
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(result.Snapshots) != 4 {
		t.Fatalf("Snapshots = %d, want 4", len(result.Snapshots))
	}
	if result.CacheInfo.LayoutHit {
		t.Error("traced layouts should never come from cache")
	}
}

func TestExecuteDialectOverride(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	result, err := r.Execute(ctx, "sequenceDiagram\nAlice->>Bob: hello", Options{
		Dialect: "sequence",
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Detected != ir.DiagramSequence {
		t.Errorf("Detected = %q, want %q", result.Detected, ir.DiagramSequence)
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	if _, err := r.Execute(ctx, "flowchart TD\nA", Options{Formats: []string{"gif"}}); err == nil {
		t.Error("Execute should reject unknown formats")
	}
}

func TestExecuteOversizeSource(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	source := "flowchart TD\n" + strings.Repeat("x", errors.MaxSourceBytes)
	if _, err := r.Execute(ctx, source, Options{}); err == nil {
		t.Error("Execute should reject oversized input")
	}
}

func TestParseStageStandalone(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	parsed, err := r.Parse(ctx, "pie\n\"Dogs\": 40\n\"Cats\": 60", Options{})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if parsed.IR.Type != ir.DiagramPie {
		t.Errorf("Type = %q, want %q", parsed.IR.Type, ir.DiagramPie)
	}

	l, snapshots, err := r.ComputeLayout(ctx, parsed, Options{})
	if err != nil {
		t.Fatalf("ComputeLayout error: %v", err)
	}
	if snapshots != nil {
		t.Errorf("untraced snapshots = %v, want nil", snapshots)
	}
	if len(l.Nodes) != len(parsed.IR.Nodes) {
		t.Errorf("layout has %d boxes for %d nodes", len(l.Nodes), len(parsed.IR.Nodes))
	}
}

package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCommand executes the root command with args in a temp working
// directory so no user config file leaks in.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	t.Chdir(t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func writeDiagram(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagram.mmd")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCommandWritesIR(t *testing.T) {
	in := writeDiagram(t, "flowchart TD\nA[Start] --> B{Check}")
	out := filepath.Join(t.TempDir(), "out.json")

	if err := runCommand(t, "parse", in, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("parse = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"flowchart"`) {
		t.Errorf("output = %s, want flowchart IR", data)
	}
}

func TestParseCommandMissingFile(t *testing.T) {
	if err := runCommand(t, "parse", "/nonexistent/diagram.mmd", "--no-cache"); err == nil {
		t.Fatal("parse = nil, want error for missing file")
	}
}

func TestParseCommandDialectOverride(t *testing.T) {
	in := writeDiagram(t, "A --> B")
	out := filepath.Join(t.TempDir(), "out.json")

	if err := runCommand(t, "parse", in, "-o", out, "-d", "flowchart", "--no-cache"); err != nil {
		t.Fatalf("parse = %v", err)
	}
}

func TestLayoutCommandWritesGeometry(t *testing.T) {
	in := writeDiagram(t, "flowchart TD\nA --> B\nB --> C")
	out := filepath.Join(t.TempDir(), "layout.json")

	if err := runCommand(t, "layout", in, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("layout = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"bounds"`) {
		t.Errorf("output = %s, want layout bounds", data)
	}
}

func TestLayoutCommandTrace(t *testing.T) {
	in := writeDiagram(t, "flowchart TD\nA --> B")
	out := filepath.Join(t.TempDir(), "layout.json")

	if err := runCommand(t, "layout", in, "-o", out, "--trace", "--no-cache"); err != nil {
		t.Fatalf("layout --trace = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"snapshots"`) {
		t.Errorf("output = %s, want phase snapshots", data)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	in := writeDiagram(t, "flowchart LR\nA --> B")
	out := filepath.Join(t.TempDir(), "out.dot")

	if err := runCommand(t, "render", in, "-f", "dot", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("render = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph G {") {
		t.Errorf("output = %s, want DOT text", data)
	}
}

func TestRenderCommandRejectsBadFormat(t *testing.T) {
	in := writeDiagram(t, "flowchart TD\nA")
	if err := runCommand(t, "render", in, "-f", "gif", "--no-cache"); err == nil {
		t.Fatal("render = nil, want error for unknown format")
	}
}

func TestDetectCommand(t *testing.T) {
	in := writeDiagram(t, "sequenceDiagram\nAlice->>Bob: hi")
	if err := runCommand(t, "detect", in); err != nil {
		t.Fatalf("detect = %v", err)
	}
}

func TestJSONSibling(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"diagram.mmd", "diagram.json"},
		{"a/b/flow.dot", "a/b/flow.json"},
		{"noext", "noext.json"},
		{"dir.v2/noext", "dir.v2/noext.json"},
	}
	for _, tt := range tests {
		if got := jsonSibling(tt.in); got != tt.want {
			t.Errorf("jsonSibling(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCacheLocationConfigOverride(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Dir = "/tmp/custom-cache"
	dir, err := c.cacheLocation()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/custom-cache" {
		t.Errorf("cacheLocation() = %q, want config override", dir)
	}
}

package parser

import (
	"reflect"
	"testing"
)

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"A", "A"},
		{" spaced ", "spaced"},
		{`"quoted"`, "quoted"},
		{"'single'", "single"},
		{"a.b/c_d-e", "a.b/c_d-e"},
		{"name with spaces", "name"},
		{"a:b", "a"},
		{"a,b", "a"},
		{"+B", "B"},
		{"  +  activated", "activated"},
		{"", ""},
		{"   ", ""},
		{"héllo", "h"},
	}
	for _, tt := range tests {
		if got := normalizeIdentifier(tt.raw); got != tt.want {
			t.Errorf("normalizeIdentifier(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"Hello"`, "Hello"},
		{"  padded  ", "padded"},
		{"'quoted label'", "quoted label"},
		{"`ticks`", "ticks"},
		{"", ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		if got := cleanLabel(tt.raw); got != tt.want {
			t.Errorf("cleanLabel(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStripInlineComment(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"A --> B %% trailing", "A --> B "},
		{"A --> B", "A --> B"},
		{"%% whole line", ""},
		{`A["50%% off"] --> B`, `A["50%% off"] --> B`},
		{"A-->B%%not preceded by space", "A-->B%%not preceded by space"},
	}
	for _, tt := range tests {
		if got := stripInlineComment(tt.line); got != tt.want {
			t.Errorf("stripInlineComment(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"A-->B; B-->C", []string{"A-->B", "B-->C"}},
		{"A-->B", []string{"A-->B"}},
		{`A["x; y"]-->B`, []string{`A["x; y"]-->B`}},
		{"; ;", nil},
		{"a;;b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := splitStatements(tt.line)
		if len(got) == 0 {
			got = nil
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitStatements(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestExtractPipeLabel(t *testing.T) {
	label, ok, rest := extractPipeLabel("|go| B")
	if !ok || label != "go" || rest != " B" {
		t.Errorf("extractPipeLabel() = (%q, %v, %q)", label, ok, rest)
	}
	if _, ok, _ := extractPipeLabel("B"); ok {
		t.Error("extractPipeLabel without pipes should not match")
	}
	if _, ok, _ := extractPipeLabel("|unclosed"); ok {
		t.Error("extractPipeLabel with unclosed pipe should not match")
	}
}

// Package pipeline orchestrates the detect → parse → layout → export chain.
//
// This package implements the complete pipeline shared by the CLI and the
// HTTP service. Centralizing it keeps caching, hook emission, and stage
// timing consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: detect the dialect and build the IR
//  2. Layout: compute deterministic node/edge/cluster geometry
//  3. Export: generate output artifacts (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
// Parsing and layout never fail; errors surface only from input validation,
// option validation, and artifact rendering.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"dot"}}
//	result, err := runner.Execute(ctx, source, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dot := result.Artifacts["dot"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/cache"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/layout"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/parser"
)

// =============================================================================
// Defaults - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output artifacts.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// DialectAuto selects the dialect by running the detector on the source.
const DialectAuto = "auto"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Dialect forces a dialect instead of auto-detection. The value "dot"
	// routes straight to the DOT parser; "auto" (or empty) detects.
	Dialect string `json:"dialect,omitempty"`

	// Trace captures per-stage layout snapshots in the result.
	Trace bool `json:"trace,omitempty"`

	// Detailed includes shape and class metadata in exported node labels.
	Detailed bool `json:"detailed,omitempty"`

	// Formats lists the artifacts to produce.
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses cache reads, forcing recomputation.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string `json:"run_id"`

	// SourceHash is the content hash of the input text.
	SourceHash string `json:"source_hash"`

	// Detected is the dialect the detector (or the Dialect override) chose.
	Detected ir.DiagramType `json:"detected"`

	// Parse holds the IR and the parser's warnings.
	Parse *parser.Result `json:"parse"`

	// Layout holds the computed geometry.
	Layout *layout.Layout `json:"layout"`

	// Snapshots holds the per-stage layout trace when Options.Trace is set.
	Snapshots []layout.Snapshot `json:"snapshots,omitempty"`

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte `json:"-"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int           `json:"node_count"`
	EdgeCount  int           `json:"edge_count"`
	Warnings   int           `json:"warnings"`
	ParseTime  time.Duration `json:"parse_time"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool `json:"parse_hit"`
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"`
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Dialect == "" {
		o.Dialect = DialectAuto
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ParseKeyOpts returns cache key options for the parse stage.
func (o *Options) ParseKeyOpts() cache.ParseKeyOpts {
	return cache.ParseKeyOpts{Dialect: o.Dialect}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Traced: o.Trace}
}

// RenderKeyOpts returns cache key options for one artifact format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: format}
}

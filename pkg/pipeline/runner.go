package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/cache"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/errors"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it does not store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, source string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := errors.ValidateSourceSize(len(source)); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:      uuid.NewString(),
		SourceHash: cache.Hash([]byte(source)),
		Artifacts:  make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	parsed, parseHit, err := r.ParseWithCacheInfo(ctx, source, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Parse = parsed
	result.Detected = parsed.IR.Type
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = len(parsed.IR.Nodes)
	result.Stats.EdgeCount = len(parsed.IR.Edges)
	result.Stats.Warnings = len(parsed.Warnings)
	result.CacheInfo.ParseHit = parseHit

	r.Logger.Info("parsed diagram",
		"dialect", result.Detected,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"warnings", result.Stats.Warnings,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, snapshots, layoutHit, err := r.LayoutWithCacheInfo(ctx, parsed, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Snapshots = snapshots
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"bounds", fmt.Sprintf("%.0fx%.0f", l.Bounds.Width, l.Bounds.Height),
		"reversed_edges", l.Stats.ReversedEdges,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Export
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, parsed, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

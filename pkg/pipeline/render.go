package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/cache"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/export"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/layout"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/observability"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/parser"
)

// RenderWithCacheInfo generates artifacts with caching and returns whether
// every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, parsed *parser.Result, l *layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte)
	allCached := !opts.Refresh

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "render")
		return artifacts, true, nil
	}

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		observability.Pipeline().OnRenderStart(ctx, format)
		start := time.Now()
		data, err := r.renderFormat(ctx, parsed, l, format, opts)
		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data

		cacheKey := r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format))
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLRender) == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, parsed *parser.Result, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, parsed, l, opts)
	return artifacts, err
}

// renderFormat produces one artifact. The JSON format bundles the IR,
// warnings, and layout; the graphical formats go through DOT.
func (r *Runner) renderFormat(ctx context.Context, parsed *parser.Result, l *layout.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(struct {
			IR       any      `json:"ir"`
			Warnings []string `json:"warnings"`
			Layout   any      `json:"layout"`
		}{parsed.IR, parsed.Warnings, l}, "", "  ")
	case FormatDOT:
		dot := export.ToDOT(parsed.IR, l, export.Options{Detailed: opts.Detailed})
		return []byte(dot), nil
	case FormatSVG:
		dot := export.ToDOT(parsed.IR, l, export.Options{Detailed: opts.Detailed})
		return export.RenderSVG(ctx, dot)
	case FormatPNG:
		dot := export.ToDOT(parsed.IR, l, export.Options{Detailed: opts.Detailed})
		return export.RenderPNG(ctx, dot)
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

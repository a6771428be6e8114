package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/cache"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/layout"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/observability"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/parser"
)

// LayoutWithCacheInfo computes the layout with caching and returns cache hit
// info. Traced runs always recompute so the snapshots reflect this exact
// input; only the untraced geometry is cached.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, parsed *parser.Result, opts Options) (*layout.Layout, []layout.Snapshot, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}

	d := parsed.IR
	if opts.Trace {
		observability.Pipeline().OnLayoutStart(ctx, string(d.Type), len(d.Nodes))
		start := time.Now()
		l, snapshots := layout.ComputeTraced(d)
		observability.Pipeline().OnLayoutComplete(ctx, string(d.Type), time.Since(start), l.Stats.ReversedEdges)
		return &l, snapshots, false, nil
	}

	irData, err := json.Marshal(d)
	if err != nil {
		return nil, nil, false, err
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(irData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &cached, nil, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, string(d.Type), len(d.Nodes))
	start := time.Now()
	l := layout.Compute(d)
	observability.Pipeline().OnLayoutComplete(ctx, string(d.Type), time.Since(start), l.Stats.ReversedEdges)

	if data, err := json.Marshal(&l); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return &l, nil, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, parsed *parser.Result, opts Options) (*layout.Layout, []layout.Snapshot, error) {
	l, snapshots, _, err := r.LayoutWithCacheInfo(ctx, parsed, opts)
	return l, snapshots, err
}

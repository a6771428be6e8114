package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/cache"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/observability"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/parser"
)

// ParseWithCacheInfo parses the source with caching and returns cache hit
// info. The parse itself never fails; errors come only from option
// validation.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, source string, opts Options) (*parser.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	sourceHash := cache.Hash([]byte(source))
	cacheKey := r.Keyer.ParseKey(sourceHash, opts.ParseKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached parser.Result
			if err := json.Unmarshal(data, &cached); err == nil && cached.IR != nil {
				observability.Cache().OnCacheHit(ctx, "parse")
				return &cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "parse")
	}

	observability.Pipeline().OnParseStart(ctx, opts.Dialect)
	start := time.Now()

	var result parser.Result
	if opts.Dialect == DialectAuto || opts.Dialect == "" {
		result = parser.Parse(source)
	} else {
		result = parser.ParseDialect(source, opts.Dialect)
	}

	observability.Pipeline().OnParseComplete(ctx, string(result.IR.Type),
		len(result.IR.Nodes), time.Since(start), len(result.Warnings))

	if data, err := json.Marshal(&result); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLParse) == nil {
			observability.Cache().OnCacheSet(ctx, "parse", len(data))
		}
	}

	return &result, false, nil
}

// Parse is a convenience wrapper that discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, source string, opts Options) (*parser.Result, error) {
	result, _, err := r.ParseWithCacheInfo(ctx, source, opts)
	return result, err
}

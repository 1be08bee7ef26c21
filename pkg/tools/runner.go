package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/constellar/pkg/cache"
	"github.com/matzehuels/constellar/pkg/excalidraw"
	"github.com/matzehuels/constellar/pkg/observability"
)

// Result is the output of a tool call.
type Result struct {
	Tool     string          `json:"-"`
	Elements json.RawMessage `json:"elements"` // JSON array of Excalidraw elements
	Count    int             `json:"-"`
	Cached   bool            `json:"-"`
}

// Runner encapsulates tool execution with caching.
// Both CLI and API use it so caching and instrumentation live in one place.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration // lifetime of cached results
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
		TTL:    cache.TTLToolResult,
	}
}

// Run executes the named tool with JSON arguments.
func (r *Runner) Run(ctx context.Context, name string, args json.RawMessage) (*Result, error) {
	res, _, err := r.RunWithCacheInfo(ctx, name, args)
	return res, err
}

// RunWithCacheInfo executes the named tool and reports whether the result
// came from the cache. Only calls carrying a seed are cached; unseeded
// calls draw random identifiers and are never reused.
func (r *Runner) RunWithCacheInfo(ctx context.Context, name string, args json.RawMessage) (*Result, bool, error) {
	tool, err := Lookup(name)
	if err != nil {
		return nil, false, err
	}
	seed, err := peekSeed(args)
	if err != nil {
		return nil, false, err
	}

	var cacheKey string
	if seed != nil {
		v, err := canonical(args)
		if err != nil {
			return nil, false, err
		}
		argsHash, err := cache.HashJSON(v)
		if err != nil {
			return nil, false, fmt.Errorf("hash arguments: %w", err)
		}
		cacheKey = r.Keyer.ToolKey(name, argsHash)

		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var elems []json.RawMessage
			if err := json.Unmarshal(data, &elems); err == nil {
				observability.Cache().OnCacheHit(ctx, cache.KeyKind(cacheKey))
				r.Logger.Debug("tool cache hit", "tool", name, "elements", len(elems))
				return &Result{Tool: name, Elements: data, Count: len(elems), Cached: true}, true, nil
			}
			r.Logger.Warn("discarding corrupt cache entry", "tool", name, "key", cacheKey)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "tool", name, "error", err)
		}
		// A disabled cache reports its own misses.
		if reason, off := cache.IsDisabled(r.Cache); off {
			r.Logger.Debug("tool cache disabled", "tool", name, "reason", reason)
		} else {
			observability.Cache().OnCacheMiss(ctx, cache.KeyKind(cacheKey))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var ids excalidraw.IDGenerator
	if seed != nil {
		ids = excalidraw.NewSeededIDs(*seed)
	}

	count := nodeCount(args)
	observability.Layout().OnLayoutStart(ctx, name, count)
	start := time.Now()
	elems, err := tool.Call(ids, args)
	elapsed := time.Since(start)
	observability.Layout().OnLayoutComplete(ctx, name, len(elems), elapsed, err)
	if err != nil {
		return nil, false, err
	}

	data, err := json.Marshal(elems)
	if err != nil {
		return nil, false, fmt.Errorf("encode elements: %w", err)
	}
	r.Logger.Info("ran tool",
		"tool", name,
		"nodes", count,
		"elements", len(elems),
		"duration", elapsed)

	if cacheKey != "" {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "tool", name, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cache.KeyKind(cacheKey), len(data))
		}
	}
	return &Result{Tool: name, Elements: data, Count: len(elems)}, false, nil
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// nodeCount estimates the input size of a call for instrumentation: the
// number of nodes, components or steps, or 1 for primitive tools.
func nodeCount(raw json.RawMessage) int {
	var probe struct {
		Nodes      []json.RawMessage `json:"nodes"`
		Components []json.RawMessage `json:"components"`
		Steps      []json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 1
	}
	if n := len(probe.Nodes) + len(probe.Components) + len(probe.Steps); n > 0 {
		return n
	}
	return 1
}

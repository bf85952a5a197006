package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/cache"
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/canvas/placement"
	"github.com/denoseu/dn-house/pkg/errors"
	"github.com/denoseu/dn-house/pkg/observability"
	"github.com/denoseu/dn-house/pkg/pages"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, photo source and logger, so
// one Runner may serve concurrent requests with different options.
type Runner struct {
	Cache   cache.Cache
	Photos  PhotoSource
	BaseURL string
	Logger  *log.Logger
}

// NewRunner creates a runner. photos may be nil when only demo data is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, photos PhotoSource, baseURL string, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Photos:  photos,
		BaseURL: baseURL,
		Logger:  logger,
	}
}

// Execute runs the complete load → place → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	items, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Items = items
	result.Stats.Items = len(items)
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit

	opts.Logger.Info("loaded items",
		"source", opts.Source,
		"items", len(items),
		"duration", result.Stats.LoadTime)

	// Stage 2: Place
	layoutStart := time.Now()
	c, layoutHit, err := r.LayoutWithCacheInfo(ctx, items, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Canvas = c
	result.Stats.Placed = len(c.Cards)
	result.Stats.Skipped = c.Skipped()
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("placed cards",
		"placed", len(c.Cards),
		"skipped", c.Skipped(),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(ctx, c, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Menu().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo collects the items for opts.Source and reports whether
// the backend photo list came from cache. Demo items are never cached; they
// are generated from embedded data.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) ([]placement.Item, bool, error) {
	opts.SetLoadDefaults()
	if err := ValidateSource(opts.Source); err != nil {
		return nil, false, err
	}

	hooks := observability.Menu()
	hooks.OnLoadStart(ctx, opts.Source)
	start := time.Now()

	var (
		items []placement.Item
		hit   bool
		err   error
	)
	if opts.Source == SourceDemo {
		items, err = DemoItems(opts)
	} else {
		var photos []backend.Photo
		photos, hit, err = r.photos(ctx, opts)
		if err == nil {
			items = PhotoItems(photos, opts.Count)
		}
	}

	hooks.OnLoadComplete(ctx, opts.Source, len(items), time.Since(start), err)
	return items, hit, err
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) ([]placement.Item, error) {
	items, _, err := r.LoadWithCacheInfo(ctx, opts)
	return items, err
}

func (r *Runner) photos(ctx context.Context, opts Options) ([]backend.Photo, bool, error) {
	if r.Photos == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidConfig, "backend source needs a backend client")
	}
	key := cache.PhotosKey(r.BaseURL)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var photos []backend.Photo
			if err := json.Unmarshal(data, &photos); err == nil {
				observability.Cache().OnCacheHit(ctx, "photos")
				return photos, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", key, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "photos")
	}

	photos, err := r.Photos.List(ctx)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(photos); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLPhotos); err == nil {
			observability.Cache().OnCacheSet(ctx, "photos", len(data))
		}
	}
	return photos, false, nil
}

// InvalidatePhotos drops the cached photo list so the next backend load
// refetches it. Call it after any photo is uploaded, changed or deleted.
func (r *Runner) InvalidatePhotos(ctx context.Context) error {
	if err := r.Cache.Delete(ctx, cache.PhotosKey(r.BaseURL)); err != nil {
		r.Logger.Warn("cache invalidation failed", "key", "photos", "error", err)
		return err
	}
	return nil
}

// LayoutWithCacheInfo places items with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, items []placement.Item, opts Options) (canvas.Canvas, bool, error) {
	opts.SetLayoutDefaults()

	itemsData, err := json.Marshal(items)
	if err != nil {
		return canvas.Canvas{}, false, fmt.Errorf("serialize items for cache key: %w", err)
	}
	key := cache.CanvasKey(cache.Hash(itemsData), opts.CanvasKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var cached canvas.Canvas
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "canvas")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "canvas")

	start := time.Now()
	c := Place(items, opts)
	observability.Menu().OnPlacement(ctx, c.Requested, len(c.Cards), time.Since(start))

	if data, err := json.Marshal(c); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLCanvas); err == nil {
			observability.Cache().OnCacheSet(ctx, "canvas", len(data))
		}
	}
	return c, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, items []placement.Item, opts Options) (canvas.Canvas, error) {
	c, _, err := r.LayoutWithCacheInfo(ctx, items, opts)
	return c, err
}

// Canvas loads and places in one call.
func (r *Runner) Canvas(ctx context.Context, opts Options) (canvas.Canvas, error) {
	r.applyLogger(&opts)
	items, err := r.Load(ctx, opts)
	if err != nil {
		return canvas.Canvas{}, err
	}
	return r.Layout(ctx, items, opts)
}

// MenuLoader adapts the runner to a menu page loader.
func (r *Runner) MenuLoader(opts Options) pages.LoadFunc {
	return func(ctx context.Context) (canvas.Canvas, error) {
		return r.Canvas(ctx, opts)
	}
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

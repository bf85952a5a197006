package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/denoseu/dn-house/internal/config"
	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/cache"
	"github.com/denoseu/dn-house/pkg/httputil"
	"github.com/denoseu/dn-house/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// retryDelay is the first backoff step when api.retries is above zero.
	retryDelay = 500 * time.Millisecond
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Factories
// =============================================================================

// newClient creates a backend client from the api.* settings.
func (c *CLI) newClient() (*backend.Client, error) {
	api := c.Config.API
	opts := []backend.Option{backend.WithTimeout(api.Timeout)}
	if api.Retries > 0 {
		opts = append(opts, backend.WithRetry(httputil.Policy{Attempts: api.Retries + 1, Delay: retryDelay}))
	}
	return backend.NewClient(api.BaseURL, opts...)
}

// newCache picks the cache backend: none when disabled, Redis when an
// address is configured, the file cache otherwise. A file cache that cannot
// be located degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, client.Photos(), client.BaseURL(), c.Logger), nil
}

// invalidatePhotos drops the cached photo list after a photo changed, so the
// next menu load refetches it. Failures are logged, not returned.
func (c *CLI) invalidatePhotos(ctx context.Context, client *backend.Client) {
	store, err := c.newCache(ctx, false)
	if err != nil {
		c.Logger.Debug("cache unavailable, photo list not invalidated", "error", err)
		return
	}
	defer store.Close()
	_ = pipeline.NewRunner(store, nil, client.BaseURL(), c.Logger).InvalidatePhotos(ctx)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns cache.dir when set, else the XDG cache directory
// (~/.cache/dn-house/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// menuOptions returns the configured menu options, overridden by any flags
// the user set on cmd.
func (c *CLI) menuOptions(cmd *cobra.Command, f *menuFlags) pipeline.Options {
	opts := c.Config.PipelineOptions()
	opts.Logger = c.Logger
	flags := cmd.Flags()
	if flags.Changed("source") {
		opts.Source = f.source
	}
	if flags.Changed("count") {
		opts.Count = f.count
	}
	if flags.Changed("seed") {
		opts.Seed = f.seed
	}
	if flags.Changed("width") {
		opts.Width = f.width
	}
	if flags.Changed("height") {
		opts.Height = f.height
	}
	if flags.Changed("grid") {
		opts.GridFallback = f.grid
	}
	opts.Refresh = f.refresh
	return opts
}

// menuFlags are the canvas flags shared by layout and view.
type menuFlags struct {
	source  string
	count   int
	seed    uint64
	width   float64
	height  float64
	grid    bool
	refresh bool
	noCache bool
}

func (f *menuFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.source, "source", "s", pipeline.SourceDemo, "item source: demo, backend")
	cmd.Flags().IntVarP(&f.count, "count", "n", pipeline.DefaultCount, "demo cards to generate, or max backend photos (0 = all)")
	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "placement seed")
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().BoolVar(&f.grid, "grid", false, "place cards that found no spot on a fallback grid")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch the photo list instead of using the cache")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Package config loads dn-house settings.
//
// Values are layered: built-in defaults, then the YAML file, then DNHOUSE_*
// environment variables. Environment names map onto keys by section, so
// DNHOUSE_API_BASE_URL sets api.base_url and DNHOUSE_MENU_SEED sets
// menu.seed.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/denoseu/dn-house/pkg/pipeline"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "DNHOUSE_"

var sections = []string{"api", "server", "cache", "menu", "log"}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DNHOUSE_*). A missing file is not an
// error; an empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps DNHOUSE_CACHE_REDIS_ADDR to cache.redis_addr. Variables
// outside a known section keep their flat lowercase name.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range sections {
		if rest, ok := strings.CutPrefix(key, sec+"_"); ok {
			return sec + "." + rest
		}
	}
	return key
}

// Save writes the configuration to the given YAML file path, creating the
// parent directory.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: must be an http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be non-negative")
	}
	if c.API.Retries < 0 {
		return fmt.Errorf("api.retries must be non-negative")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	if c.Cache.RedisDB < 0 {
		return fmt.Errorf("cache.redis_db must be non-negative")
	}

	if err := pipeline.ValidateSource(c.Menu.Source); err != nil {
		return fmt.Errorf("menu.source: %w", err)
	}
	if c.Menu.Count < 0 {
		return fmt.Errorf("menu.count must be non-negative")
	}
	if c.Menu.Width <= 0 || c.Menu.Height <= 0 {
		return fmt.Errorf("menu.width and menu.height must be positive")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}

	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// PipelineOptions returns the menu settings as pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Source:       c.Menu.Source,
		Count:        c.Menu.Count,
		Seed:         c.Menu.Seed,
		Width:        c.Menu.Width,
		Height:       c.Menu.Height,
		GridFallback: c.Menu.Grid,
		Background:   c.Menu.Background,
	}
}

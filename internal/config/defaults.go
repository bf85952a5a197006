package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/canvas/placement"
	"github.com/denoseu/dn-house/pkg/pipeline"
)

// AppName names the configuration and cache directories.
const AppName = "dn-house"

// FileName is the configuration file name inside the config directory.
const FileName = "config.yaml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: backend.DefaultBaseURL,
			Timeout: backend.DefaultTimeout,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RequestTimeout: time.Minute,
		},
		Menu: MenuConfig{
			Source:     pipeline.SourceDemo,
			Count:      pipeline.DefaultCount,
			Seed:       pipeline.DefaultSeed,
			Width:      placement.DefaultWidth,
			Height:     placement.DefaultHeight,
			Background: "#f6efe4",
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns the config file location, honoring XDG_CONFIG_HOME
// (~/.config/dn-house/config.yaml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/dn-house/).
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/denoseu/dn-house/internal/config"
	"github.com/denoseu/dn-house/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c := &CLI{Config: config.DefaultConfig()}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, "dn-house"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirDefaultsToHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	c := &CLI{Config: config.DefaultConfig()}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}
	if want := filepath.Join(".cache", "dn-house"); !strings.HasSuffix(dir, want) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, want)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Dir = "/tmp/somewhere"

	c := &CLI{Config: cfg}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/tmp/somewhere" {
		t.Errorf("cacheDir() = %q, want cache.dir", dir)
	}
}

func TestNewCacheSelection(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	c := &CLI{Config: config.DefaultConfig(), Logger: newLogger(os.Stderr, LogInfo)}
	store, err := c.newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	if _, ok := store.(*cache.FileCache); !ok {
		t.Errorf("default cache = %T, want *cache.FileCache", store)
	}

	store, err = c.newCache(ctx, true)
	if err != nil {
		t.Fatalf("newCache(noCache) error: %v", err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("--no-cache cache = %T, want *cache.NullCache", store)
	}

	c.Config.Cache.Disabled = true
	store, _ = c.newCache(ctx, false)
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("disabled cache = %T, want *cache.NullCache", store)
	}
}

func TestCacheClearCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := filepath.Join(os.Getenv("XDG_CACHE_HOME"), "dn-house")

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"photos:a", "canvas:b", "canvas:c"} {
		if err := fc.Set(ctx, key, []byte("x"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := run(t, c, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	for _, key := range []string{"photos:a", "canvas:b", "canvas:c"} {
		if _, ok, _ := fc.Get(ctx, key); ok {
			t.Errorf("%s still cached after clear", key)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	c := newTestCLI(t)
	out, err := run(t, c, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), "dn-house")
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

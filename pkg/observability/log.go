package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charmbracelet logger.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger (log.Default() when nil).
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

// Install registers h for all hook categories.
func (h *LogHooks) Install() {
	SetMenuHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load start", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, items int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "duration", d, "err", err)
		return
	}
	h.logger.Debug("load complete", "source", source, "items", items, "duration", d)
}

func (h *LogHooks) OnPlacement(_ context.Context, requested, placed int, d time.Duration) {
	if placed < requested {
		h.logger.Debug("placement under-filled", "requested", requested, "placed", placed, "duration", d)
		return
	}
	h.logger.Debug("placement complete", "cards", placed, "duration", d)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ MenuHooks  = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)

package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks].
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, prefixed with "hook".
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hook")}
}

func (h *LogHooks) OnExtractStart(_ context.Context, path, searcher string) {
	h.logger.Debug("extract start", "path", path, "searcher", searcher)
}

func (h *LogHooks) OnExtractComplete(_ context.Context, path string, lines int, d time.Duration, err error) {
	h.logger.Debug("extract complete", "path", path, "lines", lines, "duration", d, "err", err)
}

func (h *LogHooks) OnParseComplete(_ context.Context, modules, failed int, d time.Duration) {
	h.logger.Debug("parse complete", "modules", modules, "failed", failed, "duration", d)
}

func (h *LogHooks) OnAnalyzeStart(_ context.Context, modules int, depths bool) {
	h.logger.Debug("analyze start", "modules", modules, "depths", depths)
}

func (h *LogHooks) OnAnalyzeComplete(_ context.Context, d time.Duration, err error) {
	h.logger.Debug("analyze complete", "duration", d, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	h.logger.Debug("render complete", "format", format, "duration", d, "err", err)
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

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

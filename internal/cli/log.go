package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hotspotmap/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Rendered 3 files (41ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// LogHooks reports pipeline and cache events to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// RegisterLogHooks installs LogHooks for l as the render and cache hooks.
func RegisterLogHooks(l *log.Logger) {
	h := &LogHooks{Logger: l}
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
}

func (h *LogHooks) OnParseStart(_ context.Context, kind, file string) {
	h.Logger.Debug("parsing", "kind", kind, "file", file)
}

func (h *LogHooks) OnParseComplete(_ context.Context, kind, file string, count int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("parse failed", "kind", kind, "file", file, "error", err)
		return
	}
	h.Logger.Debug("parsed", "kind", kind, "file", file, "count", count, "duration", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, mode string, formats []string) {
	h.Logger.Debug("rendering", "mode", mode, "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, mode string, formats []string, d time.Duration, err error) {
	h.Logger.Debug("rendered", "mode", mode, "formats", formats, "duration", d.Round(time.Microsecond), "error", err)
}

func (h *LogHooks) OnExternalTool(_ context.Context, tool string, d time.Duration, err error) {
	h.Logger.Debug("external tool", "tool", tool, "duration", d.Round(time.Millisecond), "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.RenderHooks = (*LogHooks)(nil)
	_ observability.CacheHooks  = (*LogHooks)(nil)
)

// Package cli implements the hotspotmap command-line interface.
//
// The commands are thin wrappers around pkg/pipeline: they translate flags
// (and an optional profile file) into pipeline.Options, run the pipeline and
// print the results.
//
// # Commands
//
//   - render: draw a floor-plan or thermal map to SVG, PDF, EPS, PNG, JSON or HTML
//   - inspect: browse the units of a floor-plan and their temperatures
//   - stack: draw the layer stack of a 3D layer configuration file
//   - serve: run the HTTP preview server
//   - cache: manage the converted-artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through the
// CLI's charmbracelet/log logger.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hotspotmap/pkg/cache"
	"github.com/matzehuels/hotspotmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "hotspotmap"

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
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(noCache), nil, c.Logger)
}

// newCache opens the file cache, falling back to no caching when the cache
// directory is unavailable.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache()
	}
	return cache.NewInstrumented(fc, "artifact")
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

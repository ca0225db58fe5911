package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hotspotmap/pkg/cache"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/observability"
	"github.com/matzehuels/hotspotmap/pkg/render"
	"github.com/matzehuels/hotspotmap/pkg/scene"
	"github.com/matzehuels/hotspotmap/pkg/thermal"
)

// Runner executes render runs, caching converted artifacts.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Merge combines 3D layer PDFs. It defaults to render.MergePDF.
	Merge func(ctx context.Context, out string, pages []string) error
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
		Merge:  render.MergePDF,
	}
}

// Execute validates opts and runs a 2D or 3D render, writing every artifact
// to opts.OutputDir.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.ThreeD {
		return r.Render3D(ctx, opts)
	}
	return r.Render2D(ctx, opts)
}

// Render2D renders a single floor-plan.
func (r *Runner) Render2D(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{Mode: opts.Mode}

	parseStart := time.Now()
	f, err := Load2D(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Units = f.FloorPlan.Len()
	r.logParsed(opts, result, []*Frame{f})

	renderStart := time.Now()
	files, err := r.renderFrame(ctx, f, opts, &result.CacheInfo)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.Stats.RenderTime = time.Since(renderStart)
	return result, nil
}

// Render3D renders every layer of a layer configuration and, with
// opts.Concat, merges the PDFs of the power-dissipating layers.
func (r *Runner) Render3D(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{Mode: opts.Mode}

	parseStart := time.Now()
	frames, err := Load3D(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Layers = len(frames)
	for _, f := range frames {
		result.Stats.Units += f.FloorPlan.Len()
	}
	r.logParsed(opts, result, frames)

	renderStart := time.Now()
	var pages []string
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opts.Logger.Info("processing layer", "layer", *f.Layer, "floorplan", f.FloorPlan.Source)
		files, err := r.renderFrame(ctx, f, opts, &result.CacheInfo)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", *f.Layer, err)
		}
		result.Files = append(result.Files, files...)
		result.Layers = append(result.Layers, LayerResult{Index: *f.Layer, Power: f.Power, Files: files})

		if !opts.Concat {
			continue
		}
		if !f.Power {
			opts.Logger.Info("skipping layer without power dissipation in concat", "layer", *f.Layer)
			continue
		}
		for _, path := range files {
			if isPDF(path) {
				pages = append(pages, path)
			}
		}
	}

	if opts.Concat {
		if len(pages) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidLayerConfig, "%s: no power-dissipating layers to concatenate", opts.Input)
		}
		out, err := r.merge(ctx, opts, pages)
		if err != nil {
			return nil, err
		}
		result.Concat = out
		result.Files = append(result.Files, out)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	return result, nil
}

// RenderWithCacheInfo lays out a frame and exports it in every requested
// format without touching the filesystem. Converted formats (pdf, eps, png)
// are served from the cache when possible.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f *Frame, opts Options) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo
	r.applyLogger(&opts)
	opts.SetRenderDefaults()

	s, err := Layout(f, opts)
	if err != nil {
		return nil, info, err
	}
	svg := RenderSVG(s)
	svgHash := cache.Hash(svg)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		var data []byte
		if IsConverted(format) {
			var hit bool
			data, hit, err = r.convertCached(ctx, s, svg, svgHash, format, opts)
			if hit {
				info.Hits++
			} else {
				info.Misses++
			}
		} else {
			data, err = renderDirect(f, s, svg, format, opts)
		}
		if err != nil {
			return nil, info, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, info, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache info.
func (r *Runner) Render(ctx context.Context, f *Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, f, opts)
	return artifacts, err
}

func (r *Runner) convertCached(ctx context.Context, s *scene.Scene, svg []byte, svgHash, format string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(svgHash, opts.ArtifactKeyOpts(format))
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		return data, true, nil
	} else if err != nil {
		opts.Logger.Debug("cache read failed", "format", format, "error", err)
	}

	data, err := Convert(ctx, s, svg, format, opts.PDFEngine)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
		opts.Logger.Debug("cache write failed", "format", format, "error", err)
	}
	return data, false, nil
}

// renderFrame renders f and writes its artifacts, returning the written
// paths in format order.
func (r *Runner) renderFrame(ctx context.Context, f *Frame, opts Options, info *CacheInfo) ([]string, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Mode, opts.Formats)
	start := time.Now()

	artifacts, ci, err := r.RenderWithCacheInfo(ctx, f, opts)
	info.Hits += ci.Hits
	info.Misses += ci.Misses

	var files []string
	if err == nil {
		for _, format := range opts.Formats {
			data, ok := artifacts[format]
			if !ok {
				continue
			}
			delete(artifacts, format)
			var path string
			path, err = writeFile(opts.OutputDir, OutputName(opts.Prefix, opts.Mode, format, f.Layer), data)
			if err != nil {
				break
			}
			opts.Logger.Info("generated file", "format", format, "file", path)
			files = append(files, path)
		}
	}
	hooks.OnRenderComplete(ctx, opts.Mode, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *Runner) merge(ctx context.Context, opts Options, pages []string) (string, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "create output directory %s", opts.OutputDir)
	}
	out := filepath.Join(opts.OutputDir, ConcatName(opts.Prefix, opts.Mode))
	opts.Logger.Info("concatenating layers", "pages", len(pages), "file", out)
	merge := r.Merge
	if merge == nil {
		merge = render.MergePDF
	}
	if err := merge(ctx, out, pages); err != nil {
		return "", err
	}
	return out, nil
}

func (r *Runner) logParsed(opts Options, result *Result, frames []*Frame) {
	if len(frames) == 0 || frames[0].Scale == nil {
		opts.Logger.Info("parsed floor-plan", "units", result.Stats.Units, "duration", result.Stats.ParseTime)
		return
	}
	var values []float64
	for _, f := range frames {
		values = append(values, f.Values()...)
	}
	result.Summary = thermal.Summarize(values)
	scale := frames[0].Scale
	result.Range = &scene.Range{Min: scale.Min, Max: scale.Max}
	opts.Logger.Info("parsed temperatures",
		"units", result.Stats.Units,
		"min", scale.Min,
		"max", scale.Max,
		"duration", result.Stats.ParseTime)
	opts.Logger.Debug("temperature summary",
		"count", result.Summary.Count,
		"mean", result.Summary.Mean,
		"std_dev", result.Summary.StdDev)
	if len(frames) == 1 && frames[0].Units != nil {
		if coolest, hottest, ok := thermal.Extremes(frames[0].Units); ok {
			opts.Logger.Info("extremes", "coolest", coolest.Name, "hottest", hottest.Name)
		}
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

func isPDF(path string) bool {
	return filepath.Ext(path) == "."+FormatPDF
}

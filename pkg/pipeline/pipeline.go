// Package pipeline provides the parse → color-map → render pipeline for
// hotspotmap.
//
// The CLI and the preview server both go through this package so that
// defaults, validation, output naming and caching behave identically.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read the floor-plan (or layer configuration) and temperatures
//  2. Layout: map temperatures to colors and lay out a [scene.Scene]
//  3. Render: export the scene in each requested format and write the files
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Input:       "ev6.flp",
//	    Temperature: "gcc.steady",
//	    Formats:     []string{"svg", "pdf"},
//	    OutputDir:   "out",
//	})
//	for _, f := range res.Files {
//	    fmt.Println(f)
//	}
//
// Layered (3D) runs set ThreeD and point Input at a layer configuration
// file. Every layer is rendered separately with a shared temperature range.
package pipeline

import (
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hotspotmap/pkg/cache"
	"github.com/matzehuels/hotspotmap/pkg/colormap"
	"github.com/matzehuels/hotspotmap/pkg/config"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/scene"
	"github.com/matzehuels/hotspotmap/pkg/thermal"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultZoom converts meters to canvas pixels.
	DefaultZoom = scene.DefaultZoom

	// DefaultFont is the label font family.
	DefaultFont = scene.DefaultFont

	// DefaultFontSize is the label font size in pixels.
	DefaultFontSize = scene.DefaultFontSize

	// DefaultFontWeight is the label font weight.
	DefaultFontWeight = scene.DefaultFontWeight

	// DefaultEngine renders pdf, eps and png without external tools.
	DefaultEngine = EngineNative

	// DefaultPNGScale is the rsvg-convert zoom for png output.
	DefaultPNGScale = 2.0
)

// Modes.
const (
	ModeFloorplan  = "flp"
	ModeSteady     = "steady"
	ModeGridSteady = "grid-steady"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatEPS  = "eps"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Engines for pdf, eps and png output.
const (
	// EngineRSVG converts the SVG with rsvg-convert.
	EngineRSVG = "rsvg"
	// EngineNative draws the scene with gonum/plot canvases.
	EngineNative = "native"
)

// ValidModes is the set of supported modes.
var ValidModes = map[string]bool{
	ModeFloorplan:  true,
	ModeSteady:     true,
	ModeGridSteady: true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPDF:  true,
	FormatEPS:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatHTML: true,
}

// ValidEngines is the set of supported conversion engines.
var ValidEngines = map[string]bool{
	EngineRSVG:   true,
	EngineNative: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a render run.
type Options struct {
	// Input options
	Input       string `json:"input"`                 // floor-plan, or layer configuration when ThreeD
	Temperature string `json:"temperature,omitempty"` // steady or grid steady file
	Mode        string `json:"mode,omitempty"`        // inferred when empty
	Rows        int    `json:"rows,omitempty"`
	Cols        int    `json:"cols,omitempty"`
	ThreeD      bool   `json:"three_d,omitempty"`

	// Output options
	OutputDir string   `json:"output_dir,omitempty"`
	Prefix    string   `json:"prefix,omitempty"` // defaults to the input file's stem
	Formats   []string `json:"formats,omitempty"`
	PDFEngine string   `json:"pdf_engine,omitempty"`
	Concat    bool     `json:"concat,omitempty"`

	// Drawing options
	Zoom           float64  `json:"zoom,omitempty"`
	Margin         float64  `json:"margin,omitempty"`
	Font           string   `json:"font,omitempty"`
	FontSize       float64  `json:"font_size,omitempty"`
	FontWeight     string   `json:"font_weight,omitempty"`
	HideNames      bool     `json:"hide_names,omitempty"`
	PrintArea      bool     `json:"print_area,omitempty"`
	ShowDimensions bool     `json:"dimensions,omitempty"`
	Palette        string   `json:"palette,omitempty"`
	Colors         []string `json:"colors,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result describes the outputs of a run.
type Result struct {
	// Mode is the (possibly inferred) mode.
	Mode string

	// Files lists every written file in write order.
	Files []string

	// Layers holds per-layer results of a 3D run.
	Layers []LayerResult

	// Concat is the merged PDF of a 3D run with Concat set.
	Concat string

	// Range is the temperature range the colors were mapped over.
	Range *scene.Range

	// Summary describes the temperatures (zero in flp mode).
	Summary thermal.Summary

	Stats     Stats
	CacheInfo CacheInfo
}

// LayerResult is the outcome for one layer of a 3D run.
type LayerResult struct {
	Index int
	Power bool
	Files []string
}

// Stats contains timing and size information.
type Stats struct {
	Units      int
	Layers     int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo counts converted artifacts served from the cache.
type CacheInfo struct {
	Hits   int
	Misses int
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMode checks that a mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: flp, steady, grid-steady)", mode)
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, pdf, eps, png, json, html)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a conversion engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid pdf engine: %q (must be one of: rsvg, native)", engine)
	}
	return nil
}

// InferMode picks the mode from the inputs: no temperature file means flp,
// a temperature file with grid dimensions means grid-steady, otherwise steady.
func InferMode(temperature string, rows, cols int) string {
	switch {
	case temperature == "":
		return ModeFloorplan
	case rows > 0 || cols > 0:
		return ModeGridSteady
	default:
		return ModeSteady
	}
}

// =============================================================================
// Options Methods
// =============================================================================

// SetRenderDefaults fills unset drawing and output options.
func (o *Options) SetRenderDefaults() {
	if o.Mode == "" {
		o.Mode = InferMode(o.Temperature, o.Rows, o.Cols)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PDFEngine == "" {
		o.PDFEngine = DefaultEngine
	}
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.FontWeight == "" {
		o.FontWeight = DefaultFontWeight
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Prefix == "" && o.Input != "" {
		base := filepath.Base(o.Input)
		o.Prefix = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if o.Concat && !slices.Contains(o.Formats, FormatPDF) {
		o.Formats = append(o.Formats, FormatPDF)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks that the options describe a
// runnable job.
func (o *Options) Validate() error {
	o.SetRenderDefaults()
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "an input floor-plan (or layer configuration with --3d) is required")
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.PDFEngine); err != nil {
		return err
	}
	switch o.Mode {
	case ModeSteady, ModeGridSteady:
		if o.Temperature == "" {
			return errors.New(errors.ErrCodeInvalidMode, "mode %s requires a temperature file", o.Mode)
		}
	case ModeFloorplan:
		if slices.Contains(o.Formats, FormatHTML) {
			return errors.New(errors.ErrCodeInvalidFormat, "html output needs temperatures (mode steady or grid-steady)")
		}
	}
	if o.Mode == ModeGridSteady && (o.Rows <= 0 || o.Cols <= 0) {
		return errors.New(errors.ErrCodeInvalidInput, "grid-steady mode requires positive --rows and --cols, got %dx%d", o.Rows, o.Cols)
	}
	if o.Concat && !o.ThreeD {
		return errors.New(errors.ErrCodeInvalidInput, "--concat only applies to 3D runs")
	}
	if o.Zoom < 0 || o.FontSize < 0 || o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "zoom, font size and margin must not be negative")
	}
	if _, err := o.ResolvePalette(); err != nil {
		return err
	}
	return nil
}

// ApplyProfile copies the settings of p into o. Fields named in explicit
// are left alone so that command-line flags win over the profile.
func (o *Options) ApplyProfile(p *config.Profile, explicit func(name string) bool) {
	if p == nil {
		return
	}
	if explicit == nil {
		explicit = func(string) bool { return false }
	}
	setF := func(name string, dst *float64, src *float64) {
		if src != nil && !explicit(name) {
			*dst = *src
		}
	}
	setS := func(name string, dst *string, src *string) {
		if src != nil && !explicit(name) {
			*dst = *src
		}
	}
	setB := func(name string, dst *bool, src *bool) {
		if src != nil && !explicit(name) {
			*dst = *src
		}
	}
	setF("zoom", &o.Zoom, p.Zoom)
	setF("margin", &o.Margin, p.Margin)
	setF("font-size", &o.FontSize, p.FontSize)
	setS("font", &o.Font, p.Font)
	setS("font-weight", &o.FontWeight, p.FontWeight)
	setS("palette", &o.Palette, p.Palette)
	setS("pdf-engine", &o.PDFEngine, p.PDFEngine)
	setS("output-dir", &o.OutputDir, p.OutputDir)
	setB("hide-names", &o.HideNames, p.HideNames)
	setB("print-area", &o.PrintArea, p.PrintArea)
	setB("dimensions", &o.ShowDimensions, p.Dimensions)
	if len(p.Formats) > 0 && !explicit("format") {
		o.Formats = slices.Clone(p.Formats)
	}
	if len(p.Colors) > 0 && !explicit("palette") {
		o.Colors = slices.Clone(p.Colors)
	}
}

// ResolvePalette returns the palette selected by Colors, or by the Palette
// name when no colors are given.
func (o *Options) ResolvePalette() (colormap.Palette, error) {
	if len(o.Colors) > 0 {
		return colormap.ParsePalette(o.Colors...)
	}
	return colormap.Named(o.Palette)
}

// SceneOptions returns the layout settings for scene.Build.
func (o *Options) SceneOptions() scene.Options {
	return scene.Options{
		Zoom:           o.Zoom,
		Margin:         o.Margin,
		Font:           o.Font,
		FontSize:       o.FontSize,
		FontWeight:     o.FontWeight,
		HideNames:      o.HideNames,
		PrintArea:      o.PrintArea,
		ShowDimensions: o.ShowDimensions,
	}
}

// ArtifactKeyOpts returns cache key options for a converted format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Engine: o.PDFEngine}
	if format == FormatPNG && o.PDFEngine == EngineRSVG {
		opts.Scale = DefaultPNGScale
	}
	return opts
}

// HasTemperatures reports whether the mode colors units by temperature.
func (o *Options) HasTemperatures() bool {
	return o.Mode == ModeSteady || o.Mode == ModeGridSteady
}

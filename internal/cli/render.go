package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hotspotmap/pkg/colormap"
	"github.com/matzehuels/hotspotmap/pkg/config"
	"github.com/matzehuels/hotspotmap/pkg/pipeline"
	"github.com/matzehuels/hotspotmap/pkg/scene"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	formats string
	config  string
	noCache bool
	opts    pipeline.Options
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	return c.renderCommandWith(&renderFlags{})
}

// renderCommandWith creates the render command bound to flags.
func (c *CLI) renderCommandWith(flags *renderFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <floorplan.flp|stack.lcf>",
		Short: "Render a floor-plan or thermal map",
		Long: `Render a HotSpot floor-plan, optionally colored by temperature.

Without -t the floor-plan is drawn in plain colors (flp mode). With a steady
file each unit is colored by its temperature; with a grid steady file and
--rows/--cols the die is drawn as a grid of colored cells. With --3d the
argument is a layer configuration file and one image is drawn per layer.`,
		Example: `  hotspotmap render ev6.flp
  hotspotmap render ev6.flp -t gcc.steady -f svg,pdf
  hotspotmap render ev6.flp -t gcc.grid.steady -r 64 -c 64
  hotspotmap render chip.lcf --3d -t chip.steady --concat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildRenderOptions(cmd, args[0], flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, flags.noCache)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.opts.Mode, "mode", "", "mode: flp, steady or grid-steady (inferred from -t and --rows/--cols)")
	f.StringVarP(&flags.opts.Temperature, "temperature", "t", "", "steady or grid steady temperature file")
	f.IntVarP(&flags.opts.Rows, "rows", "r", 0, "grid rows (grid steady files)")
	f.IntVarP(&flags.opts.Cols, "cols", "c", 0, "grid columns (grid steady files)")
	f.BoolVar(&flags.opts.ThreeD, "3d", false, "treat the input as a layer configuration file")
	f.StringVarP(&flags.opts.Prefix, "output", "o", "", "output file prefix (default: input file name without extension)")
	f.StringVarP(&flags.opts.OutputDir, "output-dir", "d", "", "output directory (default: current directory)")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), pdf, eps, png, json, html (comma-separated)")
	f.StringVar(&flags.opts.Font, "font", "", "label font family (default: Ubuntu)")
	f.Float64Var(&flags.opts.FontSize, "font-size", 0, "label font size in points (default: 9)")
	f.StringVar(&flags.opts.FontWeight, "font-weight", "", "label font weight (default: normal)")
	f.BoolVar(&flags.opts.HideNames, "hide-names", false, "do not label units with their names")
	f.Float64VarP(&flags.opts.Zoom, "zoom", "z", 0, "pixels per meter (default: 75000)")
	f.Float64Var(&flags.opts.Margin, "margin", 0, "margin around the chip in pixels (raised to fit --dimensions annotations)")
	f.BoolVar(&flags.opts.ShowDimensions, "dimensions", false, "annotate the die width and height in mm")
	f.BoolVar(&flags.opts.PrintArea, "print-area", false, "label units with their area in mm²")
	f.BoolVar(&flags.opts.Concat, "concat", false, "merge the PDFs of power-dissipating layers (requires --3d and pdfjam)")
	f.StringVar(&flags.opts.PDFEngine, "pdf-engine", "", "pdf/eps/png engine: native (default) or rsvg")
	f.StringVar(&flags.opts.Palette, "palette", "", "color palette: hotspot (default) or gray")
	f.StringVar(&flags.config, "config", "", "profile file (.toml or .yaml) with default drawing settings")
	f.BoolVar(&flags.noCache, "no-cache", false, "do not read or write the artifact cache")
	registerRenderCompletions(cmd)

	return cmd
}

// rangeWarning describes a color scale that cannot tell units apart.
func rangeWarning(r *scene.Range) string {
	if r == nil || r.Max > r.Min {
		return ""
	}
	return fmt.Sprintf("all temperatures are %s; the map uses a single color", colormap.Label(r.Min))
}

// buildRenderOptions merges the profile (if any) with the flags. Flags set
// on the command line win over the profile.
func buildRenderOptions(cmd *cobra.Command, input string, flags *renderFlags) (pipeline.Options, error) {
	opts := flags.opts
	opts.Input = input

	explicit := cmd.Flags().Changed
	if explicit("format") {
		opts.Formats = parseFormats(flags.formats)
	}
	if flags.config != "" {
		profile, err := config.Load(flags.config)
		if err != nil {
			return opts, err
		}
		opts.ApplyProfile(profile, explicit)
	}
	if len(opts.Formats) == 0 {
		opts.Formats = parseFormats(flags.formats)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// runRender executes the pipeline and prints the written files.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner := c.newRunner(noCache)
	defer runner.Close()

	opts.Logger = c.Logger
	opts.SetRenderDefaults()

	prog := newProgress(c.Logger)

	// External tools can take a while; show progress on a terminal.
	var spinner *Spinner
	if opts.PDFEngine == pipeline.EngineRSVG || opts.Concat {
		spinner = newSpinnerWithContext(ctx, "Rendering "+filepath.Base(opts.Input)+"...")
		spinner.Start()
	}

	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d files", len(result.Files)))

	printSuccess("Rendered %s (%s)", filepath.Base(opts.Input), result.Mode)
	for _, path := range result.Files {
		printFile(path)
	}
	printStats(result.Stats.Units, result.Stats.Layers, result.Range, result.CacheInfo.Hits)
	if msg := rangeWarning(result.Range); msg != "" {
		printWarning("%s", msg)
	}

	if result.Mode != pipeline.ModeFloorplan && !opts.ThreeD {
		printNewline()
		printNextStep("Browse unit temperatures", appName+" inspect "+opts.Input+" -t "+opts.Temperature)
	} else if opts.ThreeD && !opts.Concat {
		printNewline()
		printNextStep("Draw the layer stack", appName+" stack "+opts.Input)
	}
	return nil
}

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/pipeline"
	"github.com/matzehuels/hotspotmap/pkg/render/stackdiagram"
)

// stackFlags holds the command-line flags for the stack command.
type stackFlags struct {
	output   string
	detailed bool
	dot      bool
}

// stackCommand creates the stack command.
func (c *CLI) stackCommand() *cobra.Command {
	var flags stackFlags

	cmd := &cobra.Command{
		Use:   "stack <stack.lcf>",
		Short: "Draw the layer stack of a 3D layer configuration",
		Long: `Draw the layers of a layer configuration file top to bottom. Layers that
dissipate power are filled; passive layers are dashed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStack(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>-stack.svg)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show material properties and floor-plan sizes")
	cmd.Flags().BoolVar(&flags.dot, "dot", false, "write Graphviz DOT instead of SVG")

	return cmd
}

func (c *CLI) runStack(ctx context.Context, input string, flags stackFlags) error {
	cfg, err := pipeline.LoadStack(ctx, input)
	if err != nil {
		return err
	}
	c.Logger.Info("parsed layer configuration", "file", input, "layers", len(cfg.Layers), "power", len(cfg.PowerLayers()))

	dot := stackdiagram.ToDOT(cfg, stackdiagram.Options{Detailed: flags.detailed})

	ext := ".svg"
	if flags.dot {
		ext = ".dot"
	}
	out := flags.output
	if out == "" {
		base := filepath.Base(input)
		out = strings.TrimSuffix(base, filepath.Ext(base)) + "-stack" + ext
	}

	data := []byte(dot)
	if !flags.dot {
		if data, err = stackdiagram.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", out)
	}

	printSuccess("Drew %d layers", len(cfg.Layers))
	printFile(out)
	return nil
}

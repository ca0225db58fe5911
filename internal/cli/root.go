package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hotspotmap/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "hotspotmap draws floor-plans and thermal maps from HotSpot files",
		Long: `hotspotmap renders chip floor-plans and steady-state temperature maps
produced by the HotSpot thermal simulator as scaled vector diagrams, one
image per layer for stacked (3D) chips.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.stackCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

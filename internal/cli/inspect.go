package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hotspotmap/pkg/colormap"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/pipeline"
	"github.com/matzehuels/hotspotmap/pkg/thermal"
)

// inspectFlags holds the command-line flags for the inspect command.
type inspectFlags struct {
	temperature string
	sort        string
	desc        bool
	plain       bool
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect <floorplan.flp>",
		Short: "Browse the units of a floor-plan and their temperatures",
		Long: `Show the units of a floor-plan with their size, area and (with -t) their
steady-state temperature. On a terminal the table is interactive: s cycles
the sort key, r reverses the order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.temperature, "temperature", "t", "", "steady temperature file")
	cmd.Flags().StringVar(&flags.sort, "sort", sortByName, "sort key: name, area or temp")
	cmd.Flags().BoolVar(&flags.desc, "desc", false, "sort in descending order")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "print a static table even on a terminal")
	registerInspectCompletions(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, flags inspectFlags) error {
	if !slices.Contains(sortKeys, flags.sort) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown sort key %q (want name, area or temp)", flags.sort)
	}
	if flags.sort == sortByTemp && flags.temperature == "" {
		return errors.New(errors.ErrCodeInvalidInput, "sorting by temp requires a temperature file (-t)")
	}

	fp, err := pipeline.LoadFloorPlan(ctx, input)
	if err != nil {
		return err
	}

	var (
		units []thermal.UnitTemp
		scale *colormap.Scale
	)
	if flags.temperature != "" {
		s, err := pipeline.LoadSteady(ctx, flags.temperature)
		if err != nil {
			return err
		}
		if units, err = thermal.Match(fp, s); err != nil {
			return err
		}
		lo, hi, err := thermal.Range(s.Values())
		if err != nil {
			return err
		}
		scale = colormap.NewScale(lo, hi, colormap.HotSpot)
	}
	c.Logger.Debug("loaded floor-plan", "file", input, "units", fp.Len())

	rows := unitRows(fp, units)
	title := fmt.Sprintf("%s · %d units · %.3f × %.3f mm", filepath.Base(input), fp.Len(), fp.WidthMM(), fp.HeightMM())

	if flags.plain || !term.IsTerminal(os.Stdout.Fd()) {
		sortUnitRows(rows, flags.sort, flags.desc)
		fmt.Println(StyleTitle.Render(title))
		fmt.Println(unitTable(rows, scale, -1).Render())
		if coolest, hottest, ok := thermal.Extremes(units); ok {
			printKeyValue("Coolest", StyleCold.Render(coolest.Name+" "+colormap.Label(coolest.Temp)))
			printKeyValue("Hottest", StyleHot.Render(hottest.Name+" "+colormap.Label(hottest.Temp)))
		}
		return nil
	}

	model := NewUnitTableModel(title, rows, scale, flags.sort, flags.desc)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

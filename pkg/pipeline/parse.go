package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/hotspotmap/pkg/colormap"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/floorplan"
	"github.com/matzehuels/hotspotmap/pkg/observability"
	"github.com/matzehuels/hotspotmap/pkg/stack"
	"github.com/matzehuels/hotspotmap/pkg/thermal"
)

// Frame is one drawable picture: a floor-plan with the temperatures that
// belong to it. Units and Grid are both nil in flp mode.
type Frame struct {
	FloorPlan *floorplan.FloorPlan
	Units     []thermal.UnitTemp
	Grid      *thermal.Grid
	Scale     *colormap.Scale
	Title     string

	// Layer is the layer index in 3D runs, nil in 2D.
	Layer *int
	Power bool
}

// Values returns the frame's temperatures.
func (f *Frame) Values() []float64 {
	if f.Grid != nil {
		return f.Grid.Values
	}
	out := make([]float64, len(f.Units))
	for i, u := range f.Units {
		out[i] = u.Temp
	}
	return out
}

// parseWithHooks reports a parse to the observability hooks.
func parseWithHooks[T any](ctx context.Context, kind, file string, count func(T) int, fn func() (T, error)) (T, error) {
	hooks := observability.Render()
	hooks.OnParseStart(ctx, kind, file)
	start := time.Now()
	v, err := fn()
	n := 0
	if err == nil {
		n = count(v)
	}
	hooks.OnParseComplete(ctx, kind, file, n, time.Since(start), err)
	return v, err
}

// LoadFloorPlan reads the floor-plan at path.
func LoadFloorPlan(ctx context.Context, path string) (*floorplan.FloorPlan, error) {
	return parseWithHooks(ctx, "floorplan", path,
		func(fp *floorplan.FloorPlan) int { return fp.Len() },
		func() (*floorplan.FloorPlan, error) { return floorplan.ReadFile(path) })
}

// LoadSteady reads the steady temperature file at path.
func LoadSteady(ctx context.Context, path string) (*thermal.Steady, error) {
	return parseWithHooks(ctx, "steady", path,
		func(s *thermal.Steady) int { return len(s.Readings) },
		func() (*thermal.Steady, error) { return thermal.ReadSteadyFile(path) })
}

// LoadGrid reads a 2D grid steady file at path.
func LoadGrid(ctx context.Context, path string, rows, cols int) (*thermal.Grid, error) {
	return parseWithHooks(ctx, "grid", path,
		func(g *thermal.Grid) int { return len(g.Values) },
		func() (*thermal.Grid, error) { return thermal.ReadGridFile(path, rows, cols) })
}

// LoadGridStack reads a 3D grid steady file at path.
func LoadGridStack(ctx context.Context, path string, rows, cols int) (*thermal.GridStack, error) {
	return parseWithHooks(ctx, "grid", path,
		func(s *thermal.GridStack) int { return len(s.Layers) },
		func() (*thermal.GridStack, error) { return thermal.ReadGridStackFile(path, rows, cols) })
}

// LoadStack reads a layer configuration file and every floor-plan it names.
func LoadStack(ctx context.Context, path string) (*stack.Config, error) {
	return parseWithHooks(ctx, "lcf", path,
		func(c *stack.Config) int { return len(c.Layers) },
		func() (*stack.Config, error) { return stack.Load(path) })
}

// NewFrame builds a 2D frame from already parsed inputs. With units or
// grid set, the color scale spans their temperatures.
func NewFrame(fp *floorplan.FloorPlan, units []thermal.UnitTemp, grid *thermal.Grid, palette colormap.Palette) (*Frame, error) {
	f := &Frame{FloorPlan: fp, Units: units, Grid: grid}
	if units == nil && grid == nil {
		return f, nil
	}
	lo, hi, err := thermal.Range(f.Values())
	if err != nil {
		return nil, err
	}
	f.Scale = colormap.NewScale(lo, hi, palette)
	return f, nil
}

// Load2D reads the inputs of a 2D run into a single frame.
func Load2D(ctx context.Context, opts Options) (*Frame, error) {
	fp, err := LoadFloorPlan(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	palette, err := opts.ResolvePalette()
	if err != nil {
		return nil, err
	}

	var (
		units []thermal.UnitTemp
		grid  *thermal.Grid
	)
	switch opts.Mode {
	case ModeSteady:
		s, err := LoadSteady(ctx, opts.Temperature)
		if err != nil {
			return nil, err
		}
		if units, err = thermal.Match(fp, s); err != nil {
			return nil, err
		}
	case ModeGridSteady:
		if grid, err = LoadGrid(ctx, opts.Temperature, opts.Rows, opts.Cols); err != nil {
			return nil, err
		}
	}
	return NewFrame(fp, units, grid, palette)
}

// Load3D reads a layer configuration and the matching temperatures into
// one frame per layer, in configuration order. All frames share one scale
// spanning the temperatures of every layer.
func Load3D(ctx context.Context, opts Options) ([]*Frame, error) {
	cfg, err := LoadStack(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	palette, err := opts.ResolvePalette()
	if err != nil {
		return nil, err
	}

	frames := make([]*Frame, len(cfg.Layers))
	for i, l := range cfg.Layers {
		idx := l.Index
		frames[i] = &Frame{
			FloorPlan: l.FloorPlan,
			Title:     fmt.Sprintf("Layer %d", idx),
			Layer:     &idx,
			Power:     l.Power,
		}
	}

	var all []float64
	switch opts.Mode {
	case ModeSteady:
		s, err := LoadSteady(ctx, opts.Temperature)
		if err != nil {
			return nil, err
		}
		for _, f := range frames {
			layer := s.Layer(*f.Layer)
			if len(layer.Readings) == 0 {
				return nil, errors.New(errors.ErrCodeTemperatureMismatch,
					"%s: no layer_%d_ readings for layer %d", s.Source, *f.Layer, *f.Layer)
			}
			if f.Units, err = thermal.Match(f.FloorPlan, layer); err != nil {
				return nil, err
			}
		}
		all = s.Values()
	case ModeGridSteady:
		gs, err := LoadGridStack(ctx, opts.Temperature, opts.Rows, opts.Cols)
		if err != nil {
			return nil, err
		}
		for _, f := range frames {
			if f.Grid, err = gs.Layer(*f.Layer); err != nil {
				return nil, err
			}
		}
		all = gs.Values()
	default:
		return frames, nil
	}

	lo, hi, err := thermal.Range(all)
	if err != nil {
		return nil, err
	}
	scale := colormap.NewScale(lo, hi, palette)
	for _, f := range frames {
		f.Scale = scale
	}
	return frames, nil
}

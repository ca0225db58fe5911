package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/hotspotmap/pkg/colormap"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/thermal"
)

// HTMLData is the temperature data behind an interactive chart. Exactly one
// of Grid or Units is set.
type HTMLData struct {
	Title string
	Grid  *thermal.Grid
	Units []thermal.UnitTemp
	Scale *colormap.Scale
}

// RenderHTML renders an interactive go-echarts page: a heat-map of grid
// cells (row 0 on top), or a bar chart of per-unit temperatures.
func RenderHTML(d HTMLData) ([]byte, error) {
	if d.Scale == nil || (d.Grid == nil && len(d.Units) == 0) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "html output needs temperature data")
	}

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: d.Title, Width: "900px", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: d.Title,
			Subtitle: fmt.Sprintf("min %s, max %s", colormap.Label(d.Scale.Min), colormap.Label(d.Scale.Max))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(d.Scale.Min),
			Max:        float32(d.Scale.Max),
			InRange:    &opts.VisualMapInRange{Color: d.Scale.Palette.Hexes()},
		}),
	}

	var buf bytes.Buffer
	if d.Grid != nil {
		hm := charts.NewHeatMap()
		cols := make([]string, d.Grid.Cols)
		for i := range cols {
			cols[i] = strconv.Itoa(i)
		}
		rows := make([]string, d.Grid.Rows)
		for i := range rows {
			// Category axes grow upward; list rows bottom-first so row 0 is on top.
			rows[i] = strconv.Itoa(d.Grid.Rows - 1 - i)
		}
		data := make([]opts.HeatMapData, 0, len(d.Grid.Values))
		for row := 0; row < d.Grid.Rows; row++ {
			for col := 0; col < d.Grid.Cols; col++ {
				data = append(data, opts.HeatMapData{Value: [3]any{col, d.Grid.Rows - 1 - row, d.Grid.At(row, col)}})
			}
		}
		global = append(global,
			charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: cols, Name: "col"}),
			charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: rows, Name: "row"}),
		)
		hm.SetGlobalOptions(global...)
		hm.AddSeries("temperature", data)
		if err := hm.Render(&buf); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render heat-map")
		}
		return buf.Bytes(), nil
	}

	bar := charts.NewBar()
	names := make([]string, len(d.Units))
	values := make([]opts.BarData, len(d.Units))
	for i, u := range d.Units {
		names[i] = u.Name
		values[i] = opts.BarData{Name: u.Name, Value: u.Temp}
	}
	global = append(global, charts.WithYAxisOpts(opts.YAxis{Name: "K", Min: "dataMin"}))
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(names).AddSeries("temperature", values)
	if err := bar.Render(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render bar chart")
	}
	return buf.Bytes(), nil
}

// Package scene lays out a floor-plan (and optional temperatures) as a flat
// list of drawing primitives in canvas pixels.
//
// A [Scene] is format-agnostic: the sinks in pkg/render/sink turn it into
// SVG, EPS, PDF, PNG or JSON. Coordinates are y-down with the origin at the
// top-left corner of the canvas.
//
// Elements are emitted in input order (grid cells, then units, then the color
// bar) so that identical inputs always produce identical scenes.
package scene

import (
	"fmt"
	"math"

	"github.com/matzehuels/hotspotmap/pkg/colormap"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/floorplan"
	"github.com/matzehuels/hotspotmap/pkg/thermal"
)

// Rect kinds.
const (
	KindUnit   = "unit"
	KindCell   = "cell"
	KindSwatch = "swatch"
)

// Rect is a filled and/or stroked rectangle. An empty Fill or Stroke means
// none.
type Rect struct {
	ID     string   `json:"id,omitempty"`
	Kind   string   `json:"kind"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	W      float64  `json:"w"`
	H      float64  `json:"h"`
	Fill   string   `json:"fill,omitempty"`
	Stroke string   `json:"stroke,omitempty"`
	Value  *float64 `json:"value,omitempty"`
}

// Text is a label centered (or anchored) at X, Y. Rotate is in degrees,
// counter-clockwise.
type Text struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
	Anchor string  `json:"anchor"` // start, middle or end
	Rotate float64 `json:"rotate,omitempty"`
	Size   float64 `json:"size"`
}

// Line is a straight black stroke.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Font describes the label typeface.
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Weight string  `json:"weight"`
}

// Range is the temperature span of the color bar.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Scene is a laid-out drawing.
type Scene struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Title  string  `json:"title,omitempty"`
	Font   Font    `json:"font"`
	Range  *Range  `json:"range,omitempty"`
	Rects  []Rect  `json:"rects"`
	Lines  []Line  `json:"lines,omitempty"`
	Texts  []Text  `json:"texts,omitempty"`

	// Chip is the floor-plan bounding box in canvas pixels.
	Chip Rect `json:"chip"`
}

// Input is what gets drawn. With neither Units nor Grid the floor-plan is
// drawn outline-only and Scale is ignored.
type Input struct {
	FloorPlan *floorplan.FloorPlan
	Units     []thermal.UnitTemp // per-unit temperatures (steady)
	Grid      *thermal.Grid      // per-cell temperatures (grid steady)
	Scale     *colormap.Scale
	Title     string
}

// Build lays out in according to opts.
func Build(in Input, opts Options) (*Scene, error) {
	if in.FloorPlan == nil || in.FloorPlan.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFloorplan, "empty floor-plan")
	}
	if (in.Units != nil || in.Grid != nil) && in.Scale == nil {
		return nil, errors.New(errors.ErrCodeInternal, "temperatures given without a color scale")
	}
	opts.setDefaults()
	if opts.ShowDimensions {
		opts.Margin = max(opts.Margin, opts.dimClearance(in.Title != ""))
	}

	b := newBuilder(in, opts)
	switch {
	case in.Grid != nil:
		b.gridCells(in.Grid)
		b.units(nil, true)
	case in.Units != nil:
		temps := make(map[string]float64, len(in.Units))
		for _, u := range in.Units {
			temps[u.Name] = u.Temp
		}
		b.units(temps, false)
	default:
		b.units(nil, false)
	}
	if b.scale != nil {
		b.colorBar()
	}
	if opts.ShowDimensions {
		b.dimensions()
	}
	if in.Title != "" {
		b.title()
	}
	return b.scene, nil
}

type builder struct {
	in    Input
	opts  Options
	scale *colormap.Scale
	b     floorplan.Bounds
	scene *Scene
}

func newBuilder(in Input, opts Options) *builder {
	bb := &builder{in: in, opts: opts, b: in.FloorPlan.Bounds()}
	if in.Units != nil || in.Grid != nil {
		bb.scale = in.Scale
	}

	chipW := bb.b.Width() * opts.Zoom
	chipH := bb.b.Height() * opts.Zoom
	width := 2*opts.Margin + chipW
	if bb.scale != nil {
		width += barGap*opts.Zoom + barWidth(chipH, opts.BarCells)
	}
	bb.scene = &Scene{
		Width:  round(width),
		Height: round(2*opts.Margin + chipH),
		Title:  in.Title,
		Font:   Font{Family: opts.Font, Size: opts.FontSize, Weight: opts.FontWeight},
		Chip:   Rect{Kind: "chip", X: opts.Margin, Y: opts.Margin, W: round(chipW), H: round(chipH)},
	}
	if bb.scale != nil {
		bb.scene.Range = &Range{Min: bb.scale.Min, Max: bb.scale.Max}
	}
	return bb
}

// px maps a model-space point (meters, y-up) to canvas pixels (y-down).
func (b *builder) px(x, y float64) (float64, float64) {
	return round(b.opts.Margin + (x-b.b.MinX)*b.opts.Zoom),
		round(b.opts.Margin + (b.b.MaxY-y)*b.opts.Zoom)
}

func (b *builder) units(temps map[string]float64, outlineOnly bool) {
	for _, u := range b.in.FloorPlan.Units {
		x, y := b.px(u.X, u.Top())
		r := Rect{
			ID: u.Name, Kind: KindUnit,
			X: x, Y: y,
			W: round(u.Width * b.opts.Zoom), H: round(u.Height * b.opts.Zoom),
			Stroke: "#000000",
		}
		if t, ok := temps[u.Name]; ok && !outlineOnly {
			r.Fill = colormap.Hex(b.scale.At(t))
			r.Value = &t
		}
		b.scene.Rects = append(b.scene.Rects, r)
	}
	if b.opts.HideNames {
		return
	}
	for i, u := range b.in.FloorPlan.Units {
		r := b.scene.Rects[len(b.scene.Rects)-len(b.in.FloorPlan.Units)+i]
		label := u.Name
		if b.opts.PrintArea {
			label += fmt.Sprintf(" (%s)", formatArea(u.AreaMM2()))
		}
		if text, ok := FitLabel(label, r.W, r.H, b.opts.FontSize); ok {
			b.scene.Texts = append(b.scene.Texts, Text{
				X: round(r.X + r.W/2), Y: round(r.Y + r.H/2),
				Text: text, Anchor: "middle", Size: b.opts.FontSize,
			})
		}
	}
}

func (b *builder) gridCells(g *thermal.Grid) {
	chip := b.scene.Chip
	cw := chip.W / float64(g.Cols)
	ch := chip.H / float64(g.Rows)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			v := g.At(row, col)
			c := colormap.Hex(b.scale.At(v))
			b.scene.Rects = append(b.scene.Rects, Rect{
				ID:   fmt.Sprintf("cell-%d", row*g.Cols+col),
				Kind: KindCell,
				X:    round(chip.X + float64(col)*cw), Y: round(chip.Y + float64(row)*ch),
				W: round(cw), H: round(ch),
				Fill: c, Stroke: c,
				Value: &v,
			})
		}
	}
}

func (b *builder) colorBar() {
	n := b.opts.BarCells
	chip := b.scene.Chip
	cell := chip.H / float64(n)
	x0 := chip.X + chip.W + barGap*b.opts.Zoom
	ticks := b.scale.Ticks(n)
	// Swatches sample the palette itself so a degenerate range still shows it.
	unit := colormap.NewScale(0, 1, b.scale.Palette)

	for i := 0; i < n; i++ {
		// Cell 0 sits at the bottom and carries the coldest color.
		y := chip.Y + chip.H - float64(i+1)*cell
		fill := colormap.Hex(unit.At(float64(i) / float64(n-1)))
		b.scene.Rects = append(b.scene.Rects, Rect{
			ID: fmt.Sprintf("bar-%d", i), Kind: KindSwatch,
			X: round(x0 + 3*cell), Y: round(y), W: round(cell), H: round(cell),
			Fill: fill, Stroke: "#000000",
		})
		b.scene.Texts = append(b.scene.Texts, Text{
			X: round(x0 + 1.5*cell), Y: round(y + cell/2),
			Text: colormap.Label(ticks[i]), Anchor: "middle", Size: b.opts.FontSize,
		})
	}
}

// dimensions draws a double-headed height arrow left of the chip and a width
// arrow above it, each with its measurement in millimetres.
func (b *builder) dimensions() {
	chip := b.scene.Chip
	fs := b.opts.FontSize

	hx := chip.X - dimOffset
	b.arrow(hx, chip.Y+chip.H, hx, chip.Y)
	b.scene.Texts = append(b.scene.Texts, Text{
		X: hx - (dimTextOffset - dimOffset), Y: round(chip.Y + chip.H/2),
		Text:   fmt.Sprintf("Height %s mm", formatMM(b.in.FloorPlan.HeightMM())),
		Anchor: "middle", Rotate: 90, Size: fs,
	})

	wy := chip.Y - dimOffset
	b.arrow(chip.X, wy, chip.X+chip.W, wy)
	b.scene.Texts = append(b.scene.Texts, Text{
		X: round(chip.X + chip.W/2), Y: chip.Y + chip.H + dimTextOffset,
		Text:   fmt.Sprintf("Width %s mm", formatMM(b.in.FloorPlan.WidthMM())),
		Anchor: "middle", Size: fs,
	})
}

// title places the scene title at the top left. With dimensions it sits
// above the width arrow.
func (b *builder) title() {
	chip := b.scene.Chip
	size := b.opts.titleSize()
	y := b.opts.Margin / 4
	if b.opts.ShowDimensions {
		y = chip.Y - dimOffset - arrowHead - size
	}
	b.scene.Texts = append(b.scene.Texts, Text{
		X: chip.X, Y: round(y), Text: b.in.Title, Anchor: "start", Size: size,
	})
}

// arrow adds a line from (x1,y1) to (x2,y2) with 45° heads at both ends.
func (b *builder) arrow(x1, y1, x2, y2 float64) {
	b.scene.Lines = append(b.scene.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2})
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	ux, uy := dx/l, dy/l
	head := func(px, py, dirX, dirY float64) {
		// dir points back into the shaft; rotate it ±45°.
		for _, s := range []float64{1, -1} {
			c, sn := math.Cos(math.Pi/4), s*math.Sin(math.Pi/4)
			hx := dirX*c - dirY*sn
			hy := dirX*sn + dirY*c
			b.scene.Lines = append(b.scene.Lines, Line{
				X1: px, Y1: py, X2: round(px + hx*arrowHead), Y2: round(py + hy*arrowHead),
			})
		}
	}
	head(x2, y2, -ux, -uy)
	head(x1, y1, ux, uy)
}

func barWidth(chipH float64, cells int) float64 {
	return 4 * chipH / float64(cells)
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatArea(mm2 float64) string {
	return trimFloat(mm2, 3)
}

func formatMM(v float64) string {
	return trimFloat(v, 5)
}

func trimFloat(v float64, prec int) string {
	p := math.Pow(10, float64(prec))
	return fmt.Sprint(math.Round(v*p) / p)
}

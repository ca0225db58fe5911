// Package stackdiagram renders a layer configuration as a Graphviz diagram.
//
// Layers are drawn top to bottom as boxes joined by arrows, in file order.
// Power-dissipating layers are filled; passive layers (TIM, heat spreader,
// sink) are drawn dashed.
//
//	cfg, _ := stack.Load("chip.lcf")
//	dot := stackdiagram.ToDOT(cfg, stackdiagram.Options{Detailed: true})
//	svg, err := stackdiagram.RenderSVG(ctx, dot)
//
// For PDF or PNG output, pass the SVG to [render.ToPDF] or [render.ToPNG].
//
// [render.ToPDF]: github.com/matzehuels/hotspotmap/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/hotspotmap/pkg/render.ToPNG
package stackdiagram

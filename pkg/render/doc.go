// Package render provides format conversion for rendered heat-maps.
//
// # Overview
//
// Scenes are laid out by pkg/scene and serialized by the [sink] subpackage.
// This package holds the pieces that shell out to external tools:
//
//   - SVG to PDF/EPS/PNG conversion with rsvg-convert ([ToPDF], [ToEPS], [ToPNG])
//   - Side-by-side page merging with pdfjam ([MergePDF])
//
// Every invocation honours context cancellation and is reported to the
// registered observability render hooks. Failures carry the tool's stderr
// as an *errors.ToolError.
//
//	svg := sink.RenderSVG(s)
//	pdf, err := render.ToPDF(ctx, svg)
//	err = render.MergePDF(ctx, "out/chip-steady-concat.pdf", pages)
//
// Layer configurations are drawn by the [stackdiagram] subpackage.
//
// [sink]: github.com/matzehuels/hotspotmap/pkg/render/sink
// [stackdiagram]: github.com/matzehuels/hotspotmap/pkg/render/stackdiagram
package render

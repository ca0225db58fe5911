// Package sink turns a laid-out [scene.Scene] into output bytes.
//
// # Formats
//
//   - SVG: hand-written, byte-for-byte deterministic ([RenderSVG])
//   - JSON: scene export for external tools ([RenderJSON])
//   - EPS, PDF, PNG: drawn natively with gonum/plot canvases ([RenderVector])
//   - HTML: interactive go-echarts chart of the temperatures ([RenderHTML])
//
// PDF and PNG can alternatively be produced from the SVG with rsvg-convert
// (see [render.ToPDF]), which honours the requested font family.
//
//	s, _ := scene.Build(in, scene.Options{ShowDimensions: true})
//	svg := sink.RenderSVG(s, sink.WithTooltips())
//	eps, err := sink.RenderVector(s, sink.FormatEPS)
//
// [render.ToPDF]: github.com/matzehuels/hotspotmap/pkg/render.ToPDF
package sink

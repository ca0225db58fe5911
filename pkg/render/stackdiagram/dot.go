package stackdiagram

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/stack"
)

// Options configures stack diagram rendering.
type Options struct {
	// Detailed adds material properties and floor-plan summaries to labels.
	// When false, only the layer number and floor-plan file are shown.
	Detailed bool
}

// ToDOT converts a layer configuration to Graphviz DOT format.
func ToDOT(cfg *stack.Config, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph stack {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontsize=14, width=3, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.2;\n")
	buf.WriteString("\n")

	for _, l := range cfg.Layers {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(l, opts.Detailed))}
		if l.Power {
			attrs = append(attrs, "fillcolor=\"#ffcc00\"")
		} else {
			attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(l), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := 1; i < len(cfg.Layers); i++ {
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(cfg.Layers[i-1]), nodeID(cfg.Layers[i]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(l stack.Layer) string {
	return fmt.Sprintf("layer_%d", l.Index)
}

func fmtLabel(l stack.Layer, detailed bool) string {
	head := fmt.Sprintf("layer %d: %s", l.Index, filepath.Base(l.FloorPlanPath))
	if !detailed {
		return head
	}
	power := "passive"
	if l.Power {
		power = "power"
	}
	parts := []string{
		head,
		fmt.Sprintf("%s, thickness %g µm", power, math.Round(l.Thickness*1e9)/1e3),
		fmt.Sprintf("c=%g J/(m³K), r=%g mK/W", l.SpecificHeat, l.Resistivity),
	}
	if l.FloorPlan != nil {
		parts = append(parts, fmt.Sprintf("%d units, %g×%g mm", l.FloorPlan.Len(), l.FloorPlan.WidthMM(), l.FloorPlan.HeightMM()))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the diagram scales like the heat-maps.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

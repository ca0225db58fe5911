package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/hotspotmap/pkg/scene"
)

// strokeWidth is the outline width of units, swatches and arrows.
const strokeWidth = 1.0

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	tooltips   bool
}

// WithBackground fills the canvas with color before drawing. Pass "" for a
// transparent canvas.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTooltips adds a <title> with the temperature to every colored rect.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// RenderSVG writes the scene as a standalone SVG document. Elements keep
// scene order, so the output is byte-identical for identical scenes.
func RenderSVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(s.Width), num(s.Height), num(s.Width), num(s.Height))
	if s.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(s.Title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	fmt.Fprintf(&buf, `  <g stroke-width="%s">`+"\n", num(strokeWidth))
	for _, rc := range s.Rects {
		r.renderRect(&buf, rc)
	}
	buf.WriteString("  </g>\n")

	if len(s.Lines) > 0 {
		fmt.Fprintf(&buf, `  <g stroke="#000000" stroke-width="%s" stroke-linecap="round">`+"\n", num(strokeWidth))
		for _, l := range s.Lines {
			fmt.Fprintf(&buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(l.X1), num(l.Y1), num(l.X2), num(l.Y2))
		}
		buf.WriteString("  </g>\n")
	}

	if len(s.Texts) > 0 {
		fmt.Fprintf(&buf, `  <g font-family="%s" font-size="%s" font-weight="%s" fill="#000000">`+"\n",
			escapeXML(s.Font.Family), num(s.Font.Size), escapeXML(s.Font.Weight))
		for _, t := range s.Texts {
			renderText(&buf, t, s.Font.Size)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderRect(buf *bytes.Buffer, rc scene.Rect) {
	fill, stroke := rc.Fill, rc.Stroke
	if fill == "" {
		fill = "none"
	}
	if stroke == "" {
		stroke = "none"
	}
	id := ""
	if rc.ID != "" {
		id = fmt.Sprintf(` id="%s-%s"`, rc.Kind, escapeXML(rc.ID))
		if rc.Kind == scene.KindCell || rc.Kind == scene.KindSwatch {
			id = fmt.Sprintf(` id="%s"`, escapeXML(rc.ID))
		}
	}
	attrs := fmt.Sprintf(`%s x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"`,
		id, num(rc.X), num(rc.Y), num(rc.W), num(rc.H), fill, stroke)
	if r.tooltips && rc.Value != nil {
		label := rc.ID
		if rc.Kind == scene.KindCell {
			label = "cell " + rc.ID[len("cell-"):]
		}
		fmt.Fprintf(buf, "    <rect%s><title>%s: %sK</title></rect>\n", attrs, escapeXML(label), num(*rc.Value))
		return
	}
	fmt.Fprintf(buf, "    <rect%s/>\n", attrs)
}

func renderText(buf *bytes.Buffer, t scene.Text, baseSize float64) {
	anchor := t.Anchor
	if anchor == "" {
		anchor = "middle"
	}
	extra := ""
	if t.Size != 0 && t.Size != baseSize {
		extra += fmt.Sprintf(` font-size="%s"`, num(t.Size))
	}
	if t.Rotate != 0 {
		// Scene angles are counter-clockwise; SVG rotates clockwise in y-down space.
		extra += fmt.Sprintf(` transform="rotate(%s %s %s)"`, num(-t.Rotate), num(t.X), num(t.Y))
	}
	fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="%s" dominant-baseline="central"%s>%s</text>`+"\n",
		num(t.X), num(t.Y), anchor, extra, escapeXML(t.Text))
}

// num formats v with the shortest representation that round-trips.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

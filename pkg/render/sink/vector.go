package sink

import (
	"bytes"
	"image/color"
	"io"
	"math"
	"regexp"
	"sync"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/matzehuels/hotspotmap/pkg/colormap"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/scene"
)

// Vector formats supported by RenderVector.
const (
	FormatEPS = "eps"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// pngDPI renders PNGs at twice the 72 dpi point grid.
const pngDPI = 144

// documentDate is stamped into PDF metadata. Together with sorted resource
// catalogs it keeps repeated renders byte-identical.
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

var pinPDFDates = sync.OnceFunc(func() {
	fpdf.SetDefaultCatalogSort(true)
	fpdf.SetDefaultCreationDate(documentDate)
	fpdf.SetDefaultModificationDate(documentDate)
})

// epsDateRe matches the wall-clock DSC comment vgeps writes.
var epsDateRe = regexp.MustCompile(`(?m)^%%CreationDate:.*\n`)

type vectorCanvas interface {
	vg.CanvasSizer
	io.WriterTo
}

// RenderVector draws the scene natively with gonum/plot canvases, without
// external tools. One scene pixel maps to one point. Labels use the bundled
// Liberation Sans face; the scene's font family is not embedded.
func RenderVector(s *scene.Scene, format string) ([]byte, error) {
	w, h := vg.Points(s.Width), vg.Points(s.Height)

	var c vectorCanvas
	switch format {
	case FormatEPS:
		c = vgeps.NewTitle(w, h, s.Title)
	case FormatPDF:
		pinPDFDates()
		pc := vgpdf.New(w, h)
		pc.EmbedFonts(true)
		c = pc
	case FormatPNG:
		c = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(pngDPI))}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported vector format %q", format)
	}

	if err := drawScene(draw.New(c), s); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", format)
	}
	if format == FormatEPS {
		return epsDateRe.ReplaceAll(buf.Bytes(), nil), nil
	}
	return buf.Bytes(), nil
}

func drawScene(dc draw.Canvas, s *scene.Scene) error {
	top := s.Height
	pt := func(x, y float64) vg.Point { return vg.Point{X: vg.Points(x), Y: vg.Points(top - y)} }

	dc.SetColor(color.White)
	dc.Fill(rectPath(pt(0, 0), pt(s.Width, s.Height)))

	dc.SetLineWidth(vg.Points(1))
	for _, r := range s.Rects {
		p := rectPath(pt(r.X, r.Y), pt(r.X+r.W, r.Y+r.H))
		if r.Fill != "" {
			c, err := colormap.ParseHex(r.Fill)
			if err != nil {
				return err
			}
			dc.SetColor(c)
			dc.Fill(p)
		}
		if r.Stroke != "" {
			c, err := colormap.ParseHex(r.Stroke)
			if err != nil {
				return err
			}
			dc.SetColor(c)
			dc.Stroke(p)
		}
	}

	dc.SetColor(color.Black)
	for _, l := range s.Lines {
		var p vg.Path
		p.Move(pt(l.X1, l.Y1))
		p.Line(pt(l.X2, l.Y2))
		dc.Stroke(p)
	}

	for _, t := range s.Texts {
		size := t.Size
		if size == 0 {
			size = s.Font.Size
		}
		fnt := font.Font{Typeface: "Liberation", Variant: "Sans", Size: vg.Points(size)}
		sty := draw.TextStyle{
			Color:    color.Black,
			Font:     fnt,
			Rotation: t.Rotate * math.Pi / 180,
			XAlign:   xAlign(t.Anchor),
			YAlign:   draw.YCenter,
			Handler:  plot.DefaultTextHandler,
		}
		dc.FillText(sty, pt(t.X, t.Y), t.Text)
	}
	return nil
}

func rectPath(a, b vg.Point) vg.Path {
	var p vg.Path
	p.Move(a)
	p.Line(vg.Point{X: b.X, Y: a.Y})
	p.Line(b)
	p.Line(vg.Point{X: a.X, Y: b.Y})
	p.Close()
	return p
}

func xAlign(anchor string) draw.XAlignment {
	switch anchor {
	case "start":
		return draw.XLeft
	case "end":
		return draw.XRight
	}
	return draw.XCenter
}

package pipeline

import (
	"context"

	"github.com/matzehuels/hotspotmap/pkg/buildinfo"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/render"
	"github.com/matzehuels/hotspotmap/pkg/render/sink"
	"github.com/matzehuels/hotspotmap/pkg/scene"
)

// RenderSVG renders the primary SVG of a scene. Its hash keys every
// converted artifact in the cache.
func RenderSVG(s *scene.Scene) []byte {
	return sink.RenderSVG(s, sink.WithTooltips())
}

// IsConverted reports whether format is produced by a conversion engine.
func IsConverted(format string) bool {
	return format == FormatPDF || format == FormatEPS || format == FormatPNG
}

// Convert produces a pdf, eps or png artifact with the given engine. The
// rsvg engine converts svg; the native engine draws s directly.
func Convert(ctx context.Context, s *scene.Scene, svg []byte, format, engine string) ([]byte, error) {
	if engine == EngineNative {
		return sink.RenderVector(s, format)
	}
	switch format {
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	case FormatEPS:
		return render.ToEPS(ctx, svg)
	case FormatPNG:
		return render.ToPNG(ctx, svg, DefaultPNGScale)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "format %q is not converted", format)
}

// renderDirect produces the formats that need no conversion engine.
func renderDirect(f *Frame, s *scene.Scene, svg []byte, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatJSON:
		jsonOpts := []sink.JSONOption{
			sink.WithJSONProducer(buildinfo.Producer()),
			sink.WithJSONMode(opts.Mode),
		}
		if f.Layer != nil {
			jsonOpts = append(jsonOpts, sink.WithJSONLayer(*f.Layer))
		}
		return sink.RenderJSON(s, jsonOpts...)
	case FormatHTML:
		title := f.Title
		if title == "" {
			title = f.FloorPlan.Source
		}
		return sink.RenderHTML(sink.HTMLData{Title: title, Grid: f.Grid, Units: f.Units, Scale: f.Scale})
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
}

package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/floorplan"
	"github.com/matzehuels/hotspotmap/pkg/pipeline"
	"github.com/matzehuels/hotspotmap/pkg/thermal"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatEPS:  "application/postscript",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatHTML: "text/html; charset=utf-8",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUpload)
	if err := r.ParseMultipartForm(s.cfg.MaxUpload); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger.With(requestIDLogField, RequestID(r.Context()))

	frame, err := readFrame(r, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, err := s.runner.Render(r.Context(), frame, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", `inline; filename="`+pipeline.OutputName(opts.Prefix, opts.Mode, format, nil)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// renderOptions builds and validates the options of a render request.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Mode:      q.Get("mode"),
		PDFEngine: q.Get("engine"),
		Palette:   q.Get("palette"),
		HideNames: q.Get("hide_names") == "true",
		PrintArea: q.Get("print_area") == "true",

		ShowDimensions: q.Get("dimensions") == "true",
	}
	if f := strings.ToLower(q.Get("format")); f != "" {
		opts.Formats = []string{f}
	}

	var err error
	if opts.Rows, err = queryInt(r, "rows"); err != nil {
		return opts, err
	}
	if opts.Cols, err = queryInt(r, "cols"); err != nil {
		return opts, err
	}
	if opts.Zoom, err = queryFloat(r, "zoom"); err != nil {
		return opts, err
	}

	flp := formFile(r, "flp")
	if flp == nil {
		return opts, errors.New(errors.ErrCodeInvalidInput, "multipart field flp is required")
	}
	opts.Input = flp.Filename
	if temp := formFile(r, "temperature"); temp != nil {
		opts.Temperature = temp.Filename
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// readFrame parses the uploaded files into a frame.
func readFrame(r *http.Request, opts pipeline.Options) (*pipeline.Frame, error) {
	fp, err := readUpload(r, "flp", floorplan.Read)
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
	case pipeline.ModeSteady:
		st, err := readUpload(r, "temperature", thermal.ReadSteady)
		if err != nil {
			return nil, err
		}
		if units, err = thermal.Match(fp, st); err != nil {
			return nil, err
		}
	case pipeline.ModeGridSteady:
		grid, err = readUpload(r, "temperature", func(rd io.Reader, name string) (*thermal.Grid, error) {
			return thermal.ReadGrid(rd, name, opts.Rows, opts.Cols)
		})
		if err != nil {
			return nil, err
		}
	}
	return pipeline.NewFrame(fp, units, grid, palette)
}

func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// readUpload opens the uploaded file of field and parses it with read.
func readUpload[T any](r *http.Request, field string, read func(io.Reader, string) (T, error)) (T, error) {
	var zero T
	fh := formFile(r, field)
	if fh == nil {
		return zero, errors.New(errors.ErrCodeInvalidInput, "multipart field %s is required", field)
	}
	f, err := fh.Open()
	if err != nil {
		return zero, errors.Wrap(errors.ErrCodeInvalidInput, err, "open upload %s", fh.Filename)
	}
	defer f.Close()
	return read(f, fh.Filename)
}

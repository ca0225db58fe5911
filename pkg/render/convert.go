package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/observability"
)

const rsvgHint = "Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToEPS converts SVG bytes to Encapsulated PostScript using rsvg-convert.
func ToEPS(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "eps")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeExternalTool, "%s export requires librsvg. %s", format, rsvgHint)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := run(ctx, cmd); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// run executes cmd, reports it to the render hooks and turns failures into
// *errors.ToolError carrying stderr.
func run(ctx context.Context, cmd *exec.Cmd) error {
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	tool := cmd.Args[0]
	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		err = &errors.ToolError{Tool: tool, Stderr: strings.TrimSpace(errBuf.String()), Err: err}
	}
	observability.Render().OnExternalTool(ctx, tool, time.Since(start), err)
	return err
}

package render

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/matzehuels/hotspotmap/pkg/errors"
)

// MergePDF places pages side by side on landscape sheets and writes the
// result to out, using pdfjam (part of TeX Live).
func MergePDF(ctx context.Context, out string, pages []string) error {
	if len(pages) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no pages to merge")
	}
	if _, err := exec.LookPath("pdfjam"); err != nil {
		return errors.New(errors.ErrCodeExternalTool,
			"PDF concatenation requires pdfjam. Install with:\n  macOS:  brew install --cask mactex\n  Linux:  apt install texlive-extra-utils")
	}
	cmd := exec.CommandContext(ctx, "pdfjam", MergeArgs(out, pages)...)
	return run(ctx, cmd)
}

// MergeArgs returns the pdfjam arguments used by MergePDF.
func MergeArgs(out string, pages []string) []string {
	args := []string{"--nup", fmt.Sprintf("%dx1", len(pages)), "--landscape"}
	args = append(args, pages...)
	return append(args, "-o", out)
}

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/hotspotmap/pkg/errors"
)

// OutputName returns the file name for one artifact:
// "<prefix>-<mode>.<ext>" in 2D and "<prefix>-layer-<n>-<mode>.<ext>" for
// a layer of a 3D run.
func OutputName(prefix, mode, ext string, layer *int) string {
	if layer != nil {
		prefix = fmt.Sprintf("%s-layer-%d", prefix, *layer)
	}
	return fmt.Sprintf("%s-%s.%s", prefix, mode, ext)
}

// ConcatName returns the file name of the merged 3D PDF.
func ConcatName(prefix, mode string) string {
	return fmt.Sprintf("%s-%s-concat.pdf", prefix, mode)
}

// writeFile writes data to dir/name, creating dir when needed.
func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "create output directory %s", dir)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return path, nil
}

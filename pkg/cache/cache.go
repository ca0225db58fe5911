// Package cache stores converted render artifacts (PDF, EPS and PNG bytes
// produced by external tools) so repeated renders of an unchanged heat-map
// skip the conversion.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under the user cache directory (CLI)
//   - [RedisCache]: shared cache for the preview server
//   - [NullCache]: disables caching
//
// Keys come from a [Keyer]; the content hash of the SVG plus the conversion
// options fully determine an artifact.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// ArtifactTTL is how long converted artifacts are kept.
const ArtifactTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. The bool reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// DefaultDir returns the CLI cache directory ($XDG_CACHE_HOME/hotspotmap or
// the platform equivalent).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "hotspotmap"), nil
}

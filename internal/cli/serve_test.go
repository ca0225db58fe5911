package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/matzehuels/hotspotmap/pkg/cache"
)

func TestNewServeRunnerScopesKeys(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	r, err := c.newServeRunner(t.Context(), serveFlags{noCache: true})
	if err != nil {
		t.Fatalf("newServeRunner: %v", err)
	}
	defer r.Close()

	key := r.Keyer.ArtifactKey("abc", cache.ArtifactKeyOpts{Format: "pdf"})
	if !strings.HasPrefix(key, "hotspotmap:serve:") {
		t.Errorf("key %q is not scoped", key)
	}
}

func TestNewServeRunnerBadRedisURL(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	if _, err := c.newServeRunner(t.Context(), serveFlags{redisURL: "mysql://nope"}); err == nil {
		t.Error("expected error for a non-redis URL")
	}
}

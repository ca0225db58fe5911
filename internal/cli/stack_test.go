package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunStackDOT(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chip.dot")
	c := New(os.Stderr, LogInfo)

	err := c.runStack(t.Context(), "../../pkg/pipeline/testdata/chip.lcf", stackFlags{output: out, dot: true, detailed: true})
	if err != nil {
		t.Fatalf("runStack: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	for _, want := range []string{"digraph stack", `"layer_0" -> "layer_1"`, "quad.flp", "passive"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRunStackMissingFile(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	if err := c.runStack(t.Context(), "nope.lcf", stackFlags{dot: true}); err == nil {
		t.Error("expected error for missing layer configuration")
	}
}

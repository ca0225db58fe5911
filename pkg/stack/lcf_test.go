package stack

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/hotspotmap/pkg/errors"
)

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/chip.lcf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []Layer{
		{Index: 0, LateralHeatFlow: true, Power: true, SpecificHeat: 1.75e6, Resistivity: 0.01, Thickness: 0.00015,
			FloorPlanPath: filepath.Join("testdata", "core.flp")},
		{Index: 1, LateralHeatFlow: true, Power: false, SpecificHeat: 4e6, Resistivity: 0.25, Thickness: 2.0e-05,
			FloorPlanPath: filepath.Join("testdata", "tim.flp")},
	}
	if diff := cmp.Diff(want, cfg.Layers, cmpopts.IgnoreFields(Layer{}, "FloorPlan")); diff != "" {
		t.Errorf("Layers mismatch (-want +got):\n%s", diff)
	}
	if cfg.Layers[0].FloorPlan == nil || cfg.Layers[0].FloorPlan.Len() != 2 {
		t.Errorf("layer 0 floor-plan not loaded")
	}
	if cfg.Layers[1].FloorPlan == nil || cfg.Layers[1].FloorPlan.Len() != 1 {
		t.Errorf("layer 1 floor-plan not loaded")
	}

	power := cfg.PowerLayers()
	if len(power) != 1 || power[0].Index != 0 {
		t.Errorf("PowerLayers() = %+v, want only layer 0", power)
	}
}

func TestReadKeepsLastLayer(t *testing.T) {
	input := strings.Repeat("0\nY\nY\n1\n1\n1\na.flp\n", 1) + "1\nN\nN\n1\n1\n1\nb.flp\n"
	cfg, err := ReadLCF(strings.NewReader(input), "x.lcf", "")
	if err != nil {
		t.Fatalf("ReadLCF: %v", err)
	}
	if len(cfg.Layers) != 2 {
		t.Fatalf("len(Layers) = %d, want 2", len(cfg.Layers))
	}
	if cfg.Layers[1].FloorPlanPath != "b.flp" {
		t.Errorf("FloorPlanPath = %q, want b.flp", cfg.Layers[1].FloorPlanPath)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"incomplete", "0\nY\nY\n1\n1\n1\n", 6},
		{"bad flag", "0\nY\nmaybe\n1\n1\n1\na.flp\n", 3},
		{"bad number", "0\nY\nY\n1\nx\n1\na.flp\n", 5},
		{"bad layer", "-1\nY\nY\n1\n1\n1\na.flp\n", 1},
		{"duplicate layer", "0\nY\nY\n1\n1\n1\na.flp\n0\nY\nY\n1\n1\n1\nb.flp\n", 8},
		{"empty", "# only comments\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLCF(strings.NewReader(tt.input), "x.lcf", "")
			pe, ok := err.(*errors.ParseError)
			if !ok {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
			if !errors.Is(err, errors.ErrCodeInvalidLayerConfig) {
				t.Errorf("code = %v, want INVALID_LAYER_CONFIG", errors.GetCode(err))
			}
		})
	}
}

func TestReadLCFResolvesPaths(t *testing.T) {
	cfg, err := ReadLCF(strings.NewReader("0\nY\nY\n1\n1\n1\ncore.flp\n"), "x.lcf", "testdata")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("testdata", "core.flp"); cfg.Layers[0].FloorPlanPath != want {
		t.Errorf("FloorPlanPath = %q, want %q", cfg.Layers[0].FloorPlanPath, want)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("testdata/does-not-exist.lcf"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load error = %v, want FILE_NOT_FOUND", err)
	}
}

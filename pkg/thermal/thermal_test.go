package thermal

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/floorplan"
)

const quadFLP = `A	0.001	0.001	0	0.001
B	0.001	0.001	0.001	0.001
C	0.001	0.001	0	0
D	0.001	0.001	0.001	0
`

func quad(t *testing.T) *floorplan.FloorPlan {
	t.Helper()
	fp, err := floorplan.Read(strings.NewReader(quadFLP), "quad.flp")
	if err != nil {
		t.Fatalf("floorplan.Read: %v", err)
	}
	return fp
}

func TestReadSteady(t *testing.T) {
	s, err := ReadSteady(strings.NewReader("A\t341.1\nB\t350.0\n\nC\t338.2\nD\t360.5\n"), "quad.steady")
	if err != nil {
		t.Fatalf("ReadSteady: %v", err)
	}
	want := []Reading{{"A", 341.1}, {"B", 350.0}, {"C", 338.2}, {"D", 360.5}}
	if diff := cmp.Diff(want, s.Readings); diff != "" {
		t.Errorf("Readings mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSteadyErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"bad value", "A 341.1\nB hot\n", 2},
		{"extra field", "A 1 2\n", 1},
		{"single field", "A 1\nlayer_0\n", 2},
		{"duplicate", "A 1\nA 2\n", 2},
		{"empty", "\n\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSteady(strings.NewReader(tt.input), "x.steady")
			pe, ok := err.(*errors.ParseError)
			if !ok {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}

func TestSteadyLayer(t *testing.T) {
	s, err := ReadSteady(strings.NewReader("layer_0_A 300\nlayer_0_B 301\nlayer_1_A 310\nlayer_10_A 320\n"), "3d.steady")
	if err != nil {
		t.Fatal(err)
	}
	got := s.Layer(1)
	if diff := cmp.Diff([]Reading{{"A", 310}}, got.Readings); diff != "" {
		t.Errorf("Layer(1) mismatch (-want +got):\n%s", diff)
	}
	if n := len(s.Layer(0).Readings); n != 2 {
		t.Errorf("len(Layer(0)) = %d, want 2", n)
	}
}

func TestMatch(t *testing.T) {
	fp := quad(t)

	t.Run("complete", func(t *testing.T) {
		s := &Steady{Source: "s", Readings: []Reading{{"D", 4}, {"C", 3}, {"B", 2}, {"A", 1}}}
		got, err := Match(fp, s)
		if err != nil {
			t.Fatalf("Match: %v", err)
		}
		for i, name := range []string{"A", "B", "C", "D"} {
			if got[i].Name != name || got[i].Temp != float64(i+1) {
				t.Errorf("got[%d] = %s/%v, want %s/%d", i, got[i].Name, got[i].Temp, name, i+1)
			}
		}
	})

	t.Run("unknown unit", func(t *testing.T) {
		s := &Steady{Source: "s", Readings: []Reading{{"A", 1}, {"Z", 1}}}
		_, err := Match(fp, s)
		if !errors.Is(err, errors.ErrCodeTemperatureMismatch) {
			t.Fatalf("error = %v, want TEMPERATURE_MISMATCH", err)
		}
		if !strings.Contains(err.Error(), `"Z"`) {
			t.Errorf("error %q should name the unknown unit", err)
		}
	})

	t.Run("unknown unit line", func(t *testing.T) {
		s, err := ReadSteady(strings.NewReader("A 1\n# note\nB 2\nZ 3\nC 4\nD 5\n"), "x.steady")
		if err != nil {
			t.Fatalf("ReadSteady: %v", err)
		}
		_, err = Match(fp, s)
		pe, ok := err.(*errors.ParseError)
		if !ok {
			t.Fatalf("error = %v, want *ParseError", err)
		}
		if got := pe.Location(); got != "x.steady:4" {
			t.Errorf("Location() = %q, want %q", got, "x.steady:4")
		}
		if !errors.Is(err, errors.ErrCodeTemperatureMismatch) {
			t.Errorf("error code = %v, want TEMPERATURE_MISMATCH", errors.GetCode(err))
		}
	})

	t.Run("unknown unit in layer", func(t *testing.T) {
		s, err := ReadSteady(strings.NewReader("layer_0_A 1\nlayer_1_A 2\nlayer_1_Q 3\n"), "3d.steady")
		if err != nil {
			t.Fatalf("ReadSteady: %v", err)
		}
		_, err = Match(fp, s.Layer(1))
		if !strings.HasPrefix(fmt.Sprint(err), "3d.steady:3: ") {
			t.Errorf("error = %v, want it reported at 3d.steady:3", err)
		}
	})

	t.Run("missing unit", func(t *testing.T) {
		s := &Steady{Source: "s", Readings: []Reading{{"A", 1}, {"B", 1}}}
		_, err := Match(fp, s)
		if !errors.Is(err, errors.ErrCodeTemperatureMismatch) {
			t.Fatalf("error = %v, want TEMPERATURE_MISMATCH", err)
		}
		if !strings.Contains(err.Error(), "C, D") {
			t.Errorf("error %q should list missing units", err)
		}
	})
}

func TestReadGrid(t *testing.T) {
	g, err := ReadGrid(strings.NewReader("0 10\n1 20\n2 30\n3 40\n"), "g", 2, 2)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if g.At(0, 0) != 10 || g.At(0, 1) != 20 || g.At(1, 0) != 30 || g.At(1, 1) != 40 {
		t.Errorf("grid values = %v, want [10 20 30 40]", g.Values)
	}

	// Placement follows the index column, not line order.
	g, err = ReadGrid(strings.NewReader("3 40\n0 10\n2 30\n1 20\n"), "g", 2, 2)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if diff := cmp.Diff([]float64{10, 20, 30, 40}, g.Values); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
}

func TestReadGridErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rows  int
		cols  int
	}{
		{"short", "0 1\n1 2\n2 3\n", 2, 2},
		{"out of range", "0 1\n1 2\n2 3\n4 4\n", 2, 2},
		{"duplicate", "0 1\n0 2\n", 1, 2},
		{"bad index", "x 1\n", 1, 1},
		{"zero rows", "0 1\n", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadGrid(strings.NewReader(tt.input), "g", tt.rows, tt.cols); err == nil {
				t.Error("ReadGrid should fail")
			}
		})
	}
}

func TestReadGridStack(t *testing.T) {
	input := `layer_0
0	300
1	301

layer_2
0	310
1	311
`
	s, err := ReadGridStack(strings.NewReader(input), "3d.grid.steady", 1, 2)
	if err != nil {
		t.Fatalf("ReadGridStack: %v", err)
	}
	if diff := cmp.Diff([]int{0, 2}, s.Indexes()); diff != "" {
		t.Errorf("Indexes mismatch (-want +got):\n%s", diff)
	}
	g, err := s.Layer(2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{310, 311}, g.Values); diff != "" {
		t.Errorf("layer 2 mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Layer(1); !errors.Is(err, errors.ErrCodeTemperatureMismatch) {
		t.Errorf("Layer(1) error = %v, want TEMPERATURE_MISMATCH", err)
	}
	if diff := cmp.Diff([]float64{300, 301, 310, 311}, s.Values()); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
}

func TestReadGridStackErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"value before header", "0 1\nlayer_0\n0 1\n"},
		{"short section", "layer_0\n0 1\nlayer_1\n0 1\n1 2\n"},
		{"bad header", "layer_x\n0 1\n1 2\n"},
		{"duplicate section", "layer_0\n0 1\n1 2\nlayer_0\n0 1\n1 2\n"},
		{"no sections", "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadGridStack(strings.NewReader(tt.input), "g", 1, 2); err == nil {
				t.Error("ReadGridStack should fail")
			}
		})
	}
}

func TestRangeAndSummary(t *testing.T) {
	lo, hi, err := Range([]float64{341.1, 350.0, 338.2, 360.5})
	if err != nil {
		t.Fatal(err)
	}
	if lo != 338.2 || hi != 360.5 {
		t.Errorf("Range = (%v, %v), want (338.2, 360.5)", lo, hi)
	}
	if _, _, err := Range(nil); err == nil {
		t.Error("Range(nil) should fail")
	}

	s := Summarize([]float64{1, 2, 3, 4})
	if s.Count != 4 || s.Mean != 2.5 || s.Min != 1 || s.Max != 4 {
		t.Errorf("Summarize = %+v", s)
	}
	if math.Abs(s.StdDev-1.2909944487358056) > 1e-9 {
		t.Errorf("StdDev = %v, want ~1.291", s.StdDev)
	}
	if one := Summarize([]float64{7}); one.StdDev != 0 {
		t.Errorf("single-value StdDev = %v, want 0", one.StdDev)
	}
}

func TestExtremes(t *testing.T) {
	fp := quad(t)
	s := &Steady{Readings: []Reading{{"A", 341.1}, {"B", 350.0}, {"C", 338.2}, {"D", 360.5}}}
	units, err := Match(fp, s)
	if err != nil {
		t.Fatal(err)
	}
	cool, hot, ok := Extremes(units)
	if !ok || cool.Name != "C" || hot.Name != "D" {
		t.Errorf("Extremes = (%s, %s, %v), want (C, D, true)", cool.Name, hot.Name, ok)
	}
}

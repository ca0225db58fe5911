package colormap

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHotSpotEnds(t *testing.T) {
	if len(HotSpot) != 21 {
		t.Fatalf("len(HotSpot) = %d, want 21", len(HotSpot))
	}
	if got := Hex(HotSpot[0]); got != "#0000ff" {
		t.Errorf("coldest = %s, want #0000ff", got)
	}
	if got := Hex(HotSpot[len(HotSpot)-1]); got != "#ff0000" {
		t.Errorf("hottest = %s, want #ff0000", got)
	}
}

func TestScaleAt(t *testing.T) {
	s := NewScale(300, 400, HotSpot)

	tests := []struct {
		name string
		v    float64
		want string
	}{
		{"min", 300, "#0000ff"},
		{"max", 400, "#ff0000"},
		{"below", 250, "#0000ff"},
		{"above", 1e6, "#ff0000"},
		{"nan", math.NaN(), "#0000ff"},
		{"middle anchor", 350, "#00ff00"},
		{"between anchors", 302.5, "#001aff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hex(s.At(tt.v)); got != tt.want {
				t.Errorf("At(%v) = %s, want %s", tt.v, got, tt.want)
			}
		})
	}
}

func TestScaleDegenerate(t *testing.T) {
	s := NewScale(320, 320, nil)
	for _, v := range []float64{0, 320, 1000} {
		if got := s.At(v); got != HotSpot[0] {
			t.Errorf("At(%v) = %v, want first anchor", v, got)
		}
	}
}

func TestScaleMonotonicWithinSegment(t *testing.T) {
	s := NewScale(0, 1, MustParsePalette("#000000", "#ff8040"))
	prev := s.At(0)
	for i := 1; i <= 100; i++ {
		c := s.At(float64(i) / 100)
		if c.R < prev.R || c.G < prev.G || c.B < prev.B {
			t.Fatalf("channel decreased at %d: %v after %v", i, c, prev)
		}
		prev = c
	}
	if prev != (color.RGBA{R: 0xff, G: 0x80, B: 0x40, A: 0xff}) {
		t.Errorf("At(1) = %v, want high anchor", prev)
	}
}

func TestTicks(t *testing.T) {
	s := NewScale(338.2, 360.5, nil)
	ticks := s.Ticks(21)
	if len(ticks) != 21 {
		t.Fatalf("len = %d, want 21", len(ticks))
	}
	if ticks[0] != 338.2 || ticks[20] != 360.5 {
		t.Errorf("ends = %v, %v", ticks[0], ticks[20])
	}
	if ticks[1] != 339.32 {
		t.Errorf("ticks[1] = %v, want 339.32", ticks[1])
	}
	if diff := cmp.Diff([]float64{5}, NewScale(5, 9, nil).Ticks(1)); diff != "" {
		t.Errorf("Ticks(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(341.1); got != "341.1K" {
		t.Errorf("Label = %q", got)
	}
	if got := Label(339.315); got != "339.32K" {
		t.Errorf("Label = %q", got)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#0af")
	if err != nil {
		t.Fatal(err)
	}
	if Hex(c) != "#00aaff" {
		t.Errorf("ParseHex(#0af) = %s", Hex(c))
	}
	for _, bad := range []string{"", "#12345", "#zzzzzz"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) should fail", bad)
		}
	}
}

func TestNamed(t *testing.T) {
	p, err := Named("gray")
	if err != nil || len(p) != 2 {
		t.Errorf("Named(gray) = %v, %v", p, err)
	}
	if _, err := Named("rainbow"); err == nil {
		t.Error("Named(rainbow) should fail")
	}
	if got := HotSpot.Reversed()[0]; Hex(got) != "#ff0000" {
		t.Errorf("Reversed()[0] = %s", Hex(got))
	}
}

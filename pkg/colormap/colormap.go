// Package colormap maps temperatures to colors.
//
// A [Scale] spreads the anchors of a [Palette] evenly over a temperature
// range and interpolates linearly between neighbouring anchors, channel by
// channel. Values outside the range clamp to the end colors.
//
//	s := colormap.NewScale(338.2, 360.5, colormap.HotSpot)
//	fill := colormap.Hex(s.At(350.0))
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/hotspotmap/pkg/errors"
)

// Palette is an ordered list of anchor colors, coldest first.
type Palette []color.RGBA

// HotSpot is the 21-anchor blue → cyan → green → yellow → red palette.
var HotSpot = MustParsePalette(
	"#0000ff", "#0033ff", "#0066ff", "#0099ff", "#00ccff",
	"#00ffff", "#00ffcc", "#00ff99", "#00ff66", "#00ff33",
	"#00ff00", "#33ff00", "#66ff00", "#99ff00", "#ccff00",
	"#ffff00", "#ffcc00", "#ff9900", "#ff6600", "#ff3300",
	"#ff0000",
)

// Gray is a two-anchor white → black palette, useful for print.
var Gray = MustParsePalette("#ffffff", "#000000")

// Named returns a built-in palette by name.
func Named(name string) (Palette, error) {
	switch strings.ToLower(name) {
	case "", "hotspot":
		return HotSpot, nil
	case "gray", "grey":
		return Gray, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown palette %q (want hotspot or gray)", name)
}

// ParsePalette parses hex colors into a palette. At least two anchors are
// required.
func ParsePalette(hexes ...string) (Palette, error) {
	if len(hexes) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "palette needs at least 2 colors, got %d", len(hexes))
	}
	p := make(Palette, len(hexes))
	for i, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		p[i] = c
	}
	return p, nil
}

// MustParsePalette is like ParsePalette but panics on error.
func MustParsePalette(hexes ...string) Palette {
	p, err := ParsePalette(hexes...)
	if err != nil {
		panic(err)
	}
	return p
}

// Reversed returns a copy of p with the anchor order flipped.
func (p Palette) Reversed() Palette {
	out := make(Palette, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c
	}
	return out
}

// Hexes returns the anchors as "#rrggbb" strings.
func (p Palette) Hexes() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = Hex(c)
	}
	return out
}

// Scale maps the closed interval [Min, Max] onto a palette.
type Scale struct {
	Min     float64
	Max     float64
	Palette Palette
}

// NewScale returns a scale over [lo, hi]. A nil palette selects HotSpot.
func NewScale(lo, hi float64, p Palette) *Scale {
	if len(p) == 0 {
		p = HotSpot
	}
	return &Scale{Min: lo, Max: hi, Palette: p}
}

// At returns the color for v. Values at or below Min (and NaN) map to the
// first anchor, values at or above Max to the last. A degenerate range
// (Min == Max) maps everything to the first anchor.
func (s *Scale) At(v float64) color.RGBA {
	p := s.Palette
	if len(p) == 0 {
		p = HotSpot
	}
	if math.IsNaN(v) || s.Max <= s.Min || v <= s.Min {
		return p[0]
	}
	if v >= s.Max || len(p) == 1 {
		return p[len(p)-1]
	}

	pos := (v - s.Min) / (s.Max - s.Min) * float64(len(p)-1)
	i := int(math.Floor(pos))
	if i >= len(p)-1 {
		return p[len(p)-1]
	}
	return lerp(p[i], p[i+1], pos-float64(i))
}

// Ticks returns n evenly spaced values from Min to Max (inclusive), rounded
// to two decimals. n < 2 yields just Min.
func (s *Scale) Ticks(n int) []float64 {
	if n < 2 {
		return []float64{round2(s.Min)}
	}
	out := make([]float64, n)
	step := (s.Max - s.Min) / float64(n-1)
	for i := range out {
		out[i] = round2(s.Min + step*float64(i))
	}
	out[n-1] = round2(s.Max)
	return out
}

// Label formats a temperature for the color bar ("341.1K").
func Label(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64) + "K"
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: ch(a.A, b.A)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Hex formats c as "#rrggbb". Alpha is ignored.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidConfig, "invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidConfig, "invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

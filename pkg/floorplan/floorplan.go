// Package floorplan reads HotSpot floor-plan (.flp) files.
//
// A floor-plan lists the rectangular functional units of one chip layer, one
// unit per line:
//
//	# name   width    height   left-x   bottom-y  [specific-heat resistivity]
//	Icache   0.0031   0.0026   0.0049   0.0098
//
// All lengths are in meters. Fields are separated by any whitespace. A '#'
// starts a comment that runs to the end of the line, and blank lines are
// ignored, so the number of parsed units always equals the number of
// non-comment, non-blank lines.
//
// Unit names must be unique within a file. Overlapping units are accepted
// as-is; HotSpot itself validates geometry.
package floorplan

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/hotspotmap/pkg/errors"
)

// Unit is a single rectangular functional block.
type Unit struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"` // left edge
	Y      float64 `json:"y"` // bottom edge

	// Optional per-unit material properties (7-column floor-plans).
	SpecificHeat float64 `json:"specific_heat,omitempty"`
	Resistivity  float64 `json:"resistivity,omitempty"`
}

// Area returns the unit area in m².
func (u Unit) Area() float64 { return u.Width * u.Height }

// AreaMM2 returns the unit area in mm², rounded to three decimals.
func (u Unit) AreaMM2() float64 { return round(u.Area()*1e6, 3) }

// Right returns the x coordinate of the right edge.
func (u Unit) Right() float64 { return u.X + u.Width }

// Top returns the y coordinate of the top edge.
func (u Unit) Top() float64 { return u.Y + u.Height }

// FloorPlan is an ordered, immutable set of units.
type FloorPlan struct {
	Source string `json:"source,omitempty"`
	Units  []Unit `json:"units"`

	index map[string]int
}

// New builds a FloorPlan from units, rejecting duplicate names.
func New(source string, units []Unit) (*FloorPlan, error) {
	fp := &FloorPlan{Source: source, Units: units, index: make(map[string]int, len(units))}
	for i, u := range units {
		if _, dup := fp.index[u.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFloorplan, "%s: duplicate unit %q", source, u.Name)
		}
		fp.index[u.Name] = i
	}
	return fp, nil
}

// Len returns the number of units.
func (fp *FloorPlan) Len() int { return len(fp.Units) }

// Unit returns the unit with the given name.
func (fp *FloorPlan) Unit(name string) (Unit, bool) {
	i, ok := fp.index[name]
	if !ok {
		return Unit{}, false
	}
	return fp.Units[i], true
}

// Names returns unit names in file order.
func (fp *FloorPlan) Names() []string {
	names := make([]string, len(fp.Units))
	for i, u := range fp.Units {
		names[i] = u.Name
	}
	return names
}

// Bounds is the axis-aligned bounding box of a floor-plan, in meters.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Bounds returns the bounding box of all units.
func (fp *FloorPlan) Bounds() Bounds {
	if len(fp.Units) == 0 {
		return Bounds{}
	}
	first := fp.Units[0]
	b := Bounds{MinX: first.X, MinY: first.Y, MaxX: first.Right(), MaxY: first.Top()}
	for _, u := range fp.Units[1:] {
		b.MinX = min(b.MinX, u.X)
		b.MinY = min(b.MinY, u.Y)
		b.MaxX = max(b.MaxX, u.Right())
		b.MaxY = max(b.MaxY, u.Top())
	}
	return b
}

// WidthMM returns the chip width in mm, rounded to five decimals.
func (fp *FloorPlan) WidthMM() float64 { return round(fp.Bounds().Width()*1e3, 5) }

// HeightMM returns the chip height in mm, rounded to five decimals.
func (fp *FloorPlan) HeightMM() float64 { return round(fp.Bounds().Height()*1e3, 5) }

// ReadFile parses the floor-plan file at path.
func ReadFile(path string) (*FloorPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open floor-plan")
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses a floor-plan from r. The name is used in error messages and
// recorded as the FloorPlan source.
func Read(r io.Reader, name string) (*FloorPlan, error) {
	var units []Unit
	seen := make(map[string]int)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		u, err := parseUnit(fields)
		if err != nil {
			return nil, errors.Parsef(errors.ErrCodeInvalidFloorplan, name, line, "%v", err)
		}
		if prev, dup := seen[u.Name]; dup {
			return nil, errors.Parsef(errors.ErrCodeInvalidFloorplan, name, line,
				"duplicate unit %q (first on line %d)", u.Name, prev)
		}
		seen[u.Name] = line
		units = append(units, u)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFloorplan, err, "read %s", name)
	}
	if len(units) == 0 {
		return nil, errors.Parsef(errors.ErrCodeInvalidFloorplan, name, 0, "no units found")
	}
	return New(name, units)
}

// Fields strips a trailing '#' comment and splits the rest on whitespace.
func Fields(s string) []string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return strings.Fields(s)
}

type fieldError struct {
	msg string
}

func (e fieldError) Error() string { return e.msg }

func parseUnit(fields []string) (Unit, error) {
	if len(fields) != 5 && len(fields) != 7 {
		return Unit{}, fieldError{"expected 5 or 7 fields (name width height left-x bottom-y), got " + strconv.Itoa(len(fields))}
	}
	nums := make([]float64, len(fields)-1)
	labels := []string{"width", "height", "left-x", "bottom-y", "specific-heat", "resistivity"}
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Unit{}, fieldError{"invalid " + labels[i] + " " + strconv.Quote(f)}
		}
		nums[i] = v
	}
	u := Unit{Name: fields[0], Width: nums[0], Height: nums[1], X: nums[2], Y: nums[3]}
	if u.Width <= 0 || u.Height <= 0 {
		return Unit{}, fieldError{"unit " + strconv.Quote(u.Name) + " has non-positive size"}
	}
	if len(nums) == 6 {
		u.SpecificHeat, u.Resistivity = nums[4], nums[5]
	}
	return u, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

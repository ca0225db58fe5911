// Package thermal reads HotSpot temperature outputs and pairs them with
// floor-plans.
//
// Two formats are supported:
//
//   - steady: one "unit-name value" pair per line (one temperature per
//     floor-plan unit). In 3D runs every name carries a "layer_<n>_" prefix.
//   - grid steady: one "index value" pair per line sampled on a rows×cols
//     grid laid over the chip. In 3D runs the file is split into sections
//     headed by a "layer_<n>" line.
//
// Temperatures are in Kelvin. This package never derives temperatures; it
// only reads what the simulator produced.
package thermal

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/floorplan"
)

// Reading is one named temperature from a steady file.
type Reading struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Steady is the content of a steady temperature file, in file order.
type Steady struct {
	Source   string    `json:"source,omitempty"`
	Readings []Reading `json:"readings"`

	lines []int // source line of each reading, when parsed
}

// line returns the source line of reading i, or 0 when unknown.
func (s *Steady) line(i int) int {
	if i < len(s.lines) {
		return s.lines[i]
	}
	return 0
}

// Values returns the temperatures in file order.
func (s *Steady) Values() []float64 {
	out := make([]float64, len(s.Readings))
	for i, r := range s.Readings {
		out[i] = r.Value
	}
	return out
}

// Layer returns the readings for one layer of a 3D steady file with the
// "layer_<n>_" prefix removed. Readings of other layers are dropped.
func (s *Steady) Layer(n int) *Steady {
	prefix := fmt.Sprintf("layer_%d_", n)
	out := &Steady{Source: s.Source}
	for i, r := range s.Readings {
		if name, ok := strings.CutPrefix(r.Name, prefix); ok {
			out.Readings = append(out.Readings, Reading{Name: name, Value: r.Value})
			out.lines = append(out.lines, s.line(i))
		}
	}
	return out
}

// ReadSteadyFile parses the steady temperature file at path.
func ReadSteadyFile(path string) (*Steady, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open steady temperature file")
	}
	defer f.Close()
	return ReadSteady(f, path)
}

// ReadSteady parses "unit-name value" lines from r.
func ReadSteady(r io.Reader, name string) (*Steady, error) {
	s := &Steady{Source: name}
	seen := make(map[string]int)
	err := scanPairs(r, name, func(line int, key string, v float64) error {
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("duplicate reading for %q (first on line %d)", key, prev)
		}
		seen[key] = line
		s.Readings = append(s.Readings, Reading{Name: key, Value: v})
		s.lines = append(s.lines, line)
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(s.Readings) == 0 {
		return nil, errors.Parsef(errors.ErrCodeInvalidTemperature, name, 0, "no temperatures found")
	}
	return s, nil
}

// scanPairs walks non-blank, non-comment lines of r. Two-field lines are
// passed to pair; single-field lines go to header, or are rejected when
// header is nil.
func scanPairs(r io.Reader, name string, pair func(line int, key string, v float64) error, header func(line int, key string) error) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := floorplan.Fields(sc.Text())
		switch {
		case len(fields) == 0:
			continue
		case len(fields) == 1 && header != nil:
			if err := header(line, fields[0]); err != nil {
				return lineError(name, line, err)
			}
			continue
		case len(fields) != 2:
			return errors.Parsef(errors.ErrCodeInvalidTemperature, name, line, "expected 2 fields, got %d", len(fields))
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Parsef(errors.ErrCodeInvalidTemperature, name, line, "invalid temperature %q", fields[1])
		}
		if err := pair(line, fields[0], v); err != nil {
			return lineError(name, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTemperature, err, "read %s", name)
	}
	return nil
}

func lineError(name string, line int, err error) error {
	var pe *errors.ParseError
	if stderrors.As(err, &pe) {
		return err
	}
	return errors.Parsef(errors.ErrCodeInvalidTemperature, name, line, "%v", err)
}

// UnitTemp is a floor-plan unit paired with its temperature.
type UnitTemp struct {
	floorplan.Unit
	Temp float64 `json:"temp"`
}

// Match pairs every unit of fp with its reading in s. A reading naming an
// unknown unit, or a unit without a reading, is an error. Unknown units are
// reported at their line in the temperature file.
func Match(fp *floorplan.FloorPlan, s *Steady) ([]UnitTemp, error) {
	byName := make(map[string]float64, len(s.Readings))
	for i, r := range s.Readings {
		if _, ok := fp.Unit(r.Name); !ok {
			return nil, errors.Parsef(errors.ErrCodeTemperatureMismatch, s.Source, s.line(i),
				"unit %q is not in floor-plan %s", r.Name, fp.Source)
		}
		byName[r.Name] = r.Value
	}

	out := make([]UnitTemp, 0, fp.Len())
	var missing []string
	for _, u := range fp.Units {
		v, ok := byName[u.Name]
		if !ok {
			missing = append(missing, u.Name)
			continue
		}
		out = append(out, UnitTemp{Unit: u, Temp: v})
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, errors.New(errors.ErrCodeTemperatureMismatch,
			"%s: no temperature for unit(s) %s of %s", s.Source, strings.Join(missing, ", "), fp.Source)
	}
	return out, nil
}

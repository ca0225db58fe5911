// Package stack reads HotSpot layer configuration files (.lcf) describing
// 3D-stacked chips.
//
// An LCF lists layers from top to bottom. Each layer takes seven
// non-comment lines:
//
//	# layer number
//	0
//	# lateral heat flow Y/N?
//	Y
//	# power dissipation Y/N?
//	Y
//	# specific heat capacity in J/(m^3K)
//	1.75e6
//	# resistivity in (m-K)/W
//	0.01
//	# thickness in m
//	0.00015
//	# floorplan file
//	core.flp
//
// Floor-plan paths are relative to the directory of the LCF.
package stack

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/floorplan"
)

// linesPerLayer is the number of data lines describing one layer.
const linesPerLayer = 7

// Layer is one entry of a layer configuration file.
type Layer struct {
	Index           int     `json:"index"`
	LateralHeatFlow bool    `json:"lateral_heat_flow"`
	Power           bool    `json:"power"` // dissipates power
	SpecificHeat    float64 `json:"specific_heat"`
	Resistivity     float64 `json:"resistivity"`
	Thickness       float64 `json:"thickness"`
	FloorPlanPath   string  `json:"floorplan"`

	FloorPlan *floorplan.FloorPlan `json:"-"`
}

// Config is a parsed layer configuration in file order.
type Config struct {
	Source string  `json:"source,omitempty"`
	Layers []Layer `json:"layers"`
}

// PowerLayers returns the layers flagged as dissipating power, in file order.
func (c *Config) PowerLayers() []Layer {
	var out []Layer
	for _, l := range c.Layers {
		if l.Power {
			out = append(out, l)
		}
	}
	return out
}

// Load parses the LCF at path and reads every referenced floor-plan.
func Load(path string) (*Config, error) {
	cfg, err := ReadLCFFile(path)
	if err != nil {
		return nil, err
	}
	for i := range cfg.Layers {
		fp, err := floorplan.ReadFile(cfg.Layers[i].FloorPlanPath)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", cfg.Layers[i].Index, err)
		}
		cfg.Layers[i].FloorPlan = fp
	}
	return cfg, nil
}

// ReadLCFFile parses the LCF at path without loading floor-plans. Relative
// floor-plan paths are resolved against the LCF directory.
func ReadLCFFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open layer configuration")
	}
	defer f.Close()
	return ReadLCF(f, path, filepath.Dir(path))
}

// ReadLCF parses an LCF from r. Relative floor-plan paths are joined to baseDir.
func ReadLCF(r io.Reader, name, baseDir string) (*Config, error) {
	type entry struct {
		line int
		text string
	}
	var entries []entry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}
		entries = append(entries, entry{line, text})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayerConfig, err, "read %s", name)
	}
	if len(entries) == 0 {
		return nil, errors.Parsef(errors.ErrCodeInvalidLayerConfig, name, 0, "no layers found")
	}
	if len(entries)%linesPerLayer != 0 {
		last := entries[len(entries)-1].line
		return nil, errors.Parsef(errors.ErrCodeInvalidLayerConfig, name, last,
			"incomplete layer: %d data lines is not a multiple of %d", len(entries), linesPerLayer)
	}

	cfg := &Config{Source: name}
	seen := make(map[int]int)
	for start := 0; start < len(entries); start += linesPerLayer {
		e := entries[start : start+linesPerLayer]
		fail := func(i int, format string, args ...any) error {
			return errors.Parsef(errors.ErrCodeInvalidLayerConfig, name, e[i].line, format, args...)
		}

		var (
			l   Layer
			err error
		)
		if l.Index, err = strconv.Atoi(e[0].text); err != nil || l.Index < 0 {
			return nil, fail(0, "invalid layer number %q", e[0].text)
		}
		if prev, dup := seen[l.Index]; dup {
			return nil, fail(0, "duplicate layer %d (first on line %d)", l.Index, prev)
		}
		seen[l.Index] = e[0].line
		if l.LateralHeatFlow, err = parseFlag(e[1].text); err != nil {
			return nil, fail(1, "lateral heat flow: %v", err)
		}
		if l.Power, err = parseFlag(e[2].text); err != nil {
			return nil, fail(2, "power dissipation: %v", err)
		}
		for i, dst := range []*float64{&l.SpecificHeat, &l.Resistivity, &l.Thickness} {
			if *dst, err = strconv.ParseFloat(e[3+i].text, 64); err != nil {
				return nil, fail(3+i, "invalid number %q", e[3+i].text)
			}
		}
		l.FloorPlanPath = e[6].text
		if !filepath.IsAbs(l.FloorPlanPath) && baseDir != "" {
			l.FloorPlanPath = filepath.Join(baseDir, l.FloorPlanPath)
		}
		cfg.Layers = append(cfg.Layers, l)
	}
	return cfg, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	}
	return false, fmt.Errorf("expected Y or N, got %q", s)
}

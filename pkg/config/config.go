// Package config loads render profiles from TOML or YAML files.
//
// A profile mirrors the render flags so a lab can pin its house style:
//
//	# hotspotmap.toml
//	zoom = 90000
//	font = "DejaVu Sans"
//	font_size = 8
//	dimensions = true
//	formats = ["svg", "pdf"]
//	palette = "hotspot"
//
// Unset keys stay nil and leave the corresponding option untouched.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/hotspotmap/pkg/errors"
)

// Profile holds optional render settings.
type Profile struct {
	Zoom       *float64 `toml:"zoom" yaml:"zoom"`
	Margin     *float64 `toml:"margin" yaml:"margin"`
	Font       *string  `toml:"font" yaml:"font"`
	FontSize   *float64 `toml:"font_size" yaml:"font_size"`
	FontWeight *string  `toml:"font_weight" yaml:"font_weight"`
	HideNames  *bool    `toml:"hide_names" yaml:"hide_names"`
	PrintArea  *bool    `toml:"print_area" yaml:"print_area"`
	Dimensions *bool    `toml:"dimensions" yaml:"dimensions"`
	Formats    []string `toml:"formats" yaml:"formats"`
	Palette    *string  `toml:"palette" yaml:"palette"`
	// Colors overrides Palette with explicit hex anchors, coldest first.
	Colors    []string `toml:"colors" yaml:"colors"`
	PDFEngine *string  `toml:"pdf_engine" yaml:"pdf_engine"`
	OutputDir *string  `toml:"output_dir" yaml:"output_dir"`
}

// Load reads a profile, choosing the decoder by file extension
// (.toml, .yaml or .yml).
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return ParseTOML(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unsupported config extension %q (want .toml, .yaml or .yml)", path, ext)
	}
}

// ParseTOML decodes a TOML profile. Unknown keys are rejected.
func ParseTOML(data []byte, name string) (*Profile, error) {
	var p Profile
	md, err := toml.Decode(string(data), &p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", name)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", name, undecoded[0].String())
	}
	return &p, p.validate(name)
}

// ParseYAML decodes a YAML profile. Unknown keys are rejected.
func ParseYAML(data []byte, name string) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", name)
	}
	return &p, p.validate(name)
}

func (p *Profile) validate(name string) error {
	if p.Zoom != nil && *p.Zoom <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: zoom must be positive", name)
	}
	if p.FontSize != nil && *p.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: font_size must be positive", name)
	}
	if p.Margin != nil && *p.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: margin must not be negative", name)
	}
	return nil
}

// Package batch evaluates a list of tensile tests described in a JSON or
// YAML file.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/gotensile/internal/importer"
	"github.com/alexiusacademia/gotensile/internal/specimen"
)

// Definition is a batch of tests sharing one set of analysis settings.
//
// Example YAML file:
//
//	title: PLA dog bones
//	settings:
//	  fit_high: 0.01
//	  smooth: true
//	  zero_strain: true
//	tests:
//	  - title: "1_1"
//	    file: data/1_1.txt
//	    area0: 10
//	    length0: 50
type Definition struct {
	Title    string   `json:"title" yaml:"title"`
	Settings Settings `json:"settings" yaml:"settings"`
	Tests    []Test   `json:"tests" yaml:"tests"`

	// Directory relative test paths are resolved against
	baseDir string
}

// Settings override the default analysis options. Zero values keep the
// defaults.
type Settings struct {
	UnitSystem string `json:"unit_system,omitempty" yaml:"unit_system,omitempty"`

	HeaderLines      *int   `json:"header_lines,omitempty" yaml:"header_lines,omitempty"`
	DecimalSeparator string `json:"decimal_separator,omitempty" yaml:"decimal_separator,omitempty"`
	Delimiter        string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	DispUnit         string `json:"disp_unit,omitempty" yaml:"disp_unit,omitempty"`
	ForceUnit        string `json:"force_unit,omitempty" yaml:"force_unit,omitempty"`

	TruncateAt   float64 `json:"truncate_at,omitempty" yaml:"truncate_at,omitempty"`
	Smooth       bool    `json:"smooth,omitempty" yaml:"smooth,omitempty"`
	SmoothWindow int     `json:"smooth_window,omitempty" yaml:"smooth_window,omitempty"`
	SmoothOrder  int     `json:"smooth_order,omitempty" yaml:"smooth_order,omitempty"`

	FitLow  float64 `json:"fit_low,omitempty" yaml:"fit_low,omitempty"`
	FitHigh float64 `json:"fit_high,omitempty" yaml:"fit_high,omitempty"`

	ZeroStrain   bool    `json:"zero_strain,omitempty" yaml:"zero_strain,omitempty"`
	Tolerance    float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	StrainCutoff float64 `json:"strain_cutoff,omitempty" yaml:"strain_cutoff,omitempty"`
}

// Test is one specimen of the batch. Its unit and truncation fields
// override the batch settings.
type Test struct {
	Title   string  `json:"title" yaml:"title"`
	File    string  `json:"file" yaml:"file"`
	Area0   float64 `json:"area0" yaml:"area0"`     // mm²
	Length0 float64 `json:"length0" yaml:"length0"` // mm

	DispUnit   string  `json:"disp_unit,omitempty" yaml:"disp_unit,omitempty"`
	ForceUnit  string  `json:"force_unit,omitempty" yaml:"force_unit,omitempty"`
	TruncateAt float64 `json:"truncate_at,omitempty" yaml:"truncate_at,omitempty"`
}

// Load reads a definition from a .json, .yaml or .yml file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var def Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &def)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &def)
	default:
		return nil, fmt.Errorf("batch: unsupported definition format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("batch: parse %s: %w", path, err)
	}

	def.baseDir = filepath.Dir(path)
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks that every test names a file and a positive geometry.
func (d *Definition) Validate() error {
	if len(d.Tests) == 0 {
		return errors.New("batch: definition has no tests")
	}
	for i, t := range d.Tests {
		if t.File == "" {
			return fmt.Errorf("batch: test %d has no file", i+1)
		}
		if t.Area0 <= 0 || t.Length0 <= 0 {
			return fmt.Errorf("batch: test %d (%s) needs positive area0 and length0", i+1, t.File)
		}
	}
	if d.Settings.Delimiter != "" {
		if _, err := importer.ParseDelimiter(d.Settings.Delimiter); err != nil {
			return fmt.Errorf("batch: %w", err)
		}
	}
	return nil
}

// ImportOptions returns the reader options of test.
func (d *Definition) ImportOptions(t Test) importer.Options {
	opts := importer.DefaultOptions()
	s := d.Settings

	opts.Title = t.Title
	opts.Area0 = t.Area0
	opts.Length0 = t.Length0
	if s.HeaderLines != nil {
		opts.HeaderLines = *s.HeaderLines
	}
	if s.DecimalSeparator != "" {
		opts.DecimalSeparator = s.DecimalSeparator
	}
	if s.Delimiter != "" {
		// checked by Validate
		opts.Delimiter, _ = importer.ParseDelimiter(s.Delimiter)
	}
	opts.DispUnit = firstNonEmpty(t.DispUnit, s.DispUnit, opts.DispUnit)
	opts.ForceUnit = firstNonEmpty(t.ForceUnit, s.ForceUnit, opts.ForceUnit)
	return opts
}

// SpecimenOptions returns the analysis options of test.
func (d *Definition) SpecimenOptions(t Test) specimen.Options {
	opts := specimen.DefaultOptions()
	s := d.Settings

	if s.UnitSystem != "" {
		opts.UnitSystem = s.UnitSystem
	}
	opts.TruncateAt = s.TruncateAt
	if t.TruncateAt != 0 {
		opts.TruncateAt = t.TruncateAt
	}
	opts.Smooth = s.Smooth
	if s.SmoothWindow != 0 {
		opts.SmoothWindow = s.SmoothWindow
	}
	if s.SmoothOrder != 0 {
		opts.SmoothOrder = s.SmoothOrder
	}
	if s.FitLow != 0 {
		opts.FitLow = s.FitLow
	}
	if s.FitHigh != 0 {
		opts.FitHigh = s.FitHigh
	}
	opts.ZeroStrain = s.ZeroStrain
	if s.Tolerance != 0 {
		opts.Extract.Tolerance = s.Tolerance
	}
	if s.StrainCutoff != 0 {
		opts.Extract.StrainCutoff = s.StrainCutoff
	}
	return opts
}

// Path resolves the test's file against the definition's directory.
func (d *Definition) Path(t Test) string {
	if filepath.IsAbs(t.File) || d.baseDir == "" {
		return t.File
	}
	return filepath.Join(d.baseDir, t.File)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

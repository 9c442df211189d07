// Package importer reads tensile test exports into raw specimen records.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alexiusacademia/gotensile/internal/specimen"
	"github.com/alexiusacademia/gotensile/internal/units"
)

// ErrMalformed is returned for rows that cannot be read as two numbers.
var ErrMalformed = errors.New("importer: malformed data")

// Options describes the layout of an export file and the specimen geometry.
type Options struct {
	Title   string
	Machine string

	HeaderLines      int    // Lines skipped before the first data row
	Delimiter        rune   // Column separator of text exports
	DecimalSeparator string // "," or "."

	DispUnit  string
	ForceUnit string

	Area0   float64 // mm²
	Length0 float64 // mm
}

// DefaultOptions matches the tab-separated MTS export: eight header lines,
// decimal comma, displacement in mm and force in kN.
func DefaultOptions() Options {
	return Options{
		Machine:          "MTS",
		HeaderLines:      8,
		Delimiter:        '\t',
		DecimalSeparator: ",",
		DispUnit:         units.Millimeter,
		ForceUnit:        units.Kilonewton,
	}
}

// ReadFile reads path as an .xlsx workbook or, for any other extension, as
// delimited text. An empty Title defaults to the file name without
// extension.
func ReadFile(path string, opts Options) (*specimen.Raw, error) {
	if opts.Title == "" {
		opts.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(f, opts)
	}
	return ReadDelimited(f, opts)
}

// ReadDelimited reads a two-column (displacement, force) text export.
func ReadDelimited(r io.Reader, opts Options) (*specimen.Raw, error) {
	if opts.DecimalSeparator == string(opts.Delimiter) {
		return nil, fmt.Errorf("importer: decimal separator %q equals the column delimiter", opts.DecimalSeparator)
	}

	br := bufio.NewReader(r)
	for i := 0; i < opts.HeaderLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: file ends inside the %d header lines", ErrMalformed, opts.HeaderLines)
			}
			return nil, err
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var disp, force []float64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		line, _ := cr.FieldPos(0)
		d, f, err := parseRow(rec, opts.DecimalSeparator)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+opts.HeaderLines, err)
		}
		disp = append(disp, d)
		force = append(force, f)
	}

	return build(disp, force, opts)
}

func parseRow(fields []string, decimal string) (disp, force float64, err error) {
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("%w: need 2 columns, got %d", ErrMalformed, len(fields))
	}
	if disp, err = parseNumber(fields[0], decimal); err != nil {
		return 0, 0, err
	}
	if force, err = parseNumber(fields[1], decimal); err != nil {
		return 0, 0, err
	}
	return disp, force, nil
}

func parseNumber(s, decimal string) (float64, error) {
	s = strings.TrimSpace(s)
	if decimal != "" && decimal != "." {
		s = strings.ReplaceAll(s, decimal, ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformed, s)
	}
	return v, nil
}

func build(disp, force []float64, opts Options) (*specimen.Raw, error) {
	if len(disp) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformed)
	}
	raw := &specimen.Raw{
		Title:     opts.Title,
		Machine:   opts.Machine,
		Disp:      disp,
		Force:     force,
		DispUnit:  opts.DispUnit,
		ForceUnit: opts.ForceUnit,
		Area0:     opts.Area0,
		Length0:   opts.Length0,
	}
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	return raw, nil
}

// ParseDelimiter reads a column delimiter given as a single character or
// as "tab".
func ParseDelimiter(s string) (rune, error) {
	if s == "tab" || s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("importer: delimiter %q must be a single character or \"tab\"", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

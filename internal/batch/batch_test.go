package batch_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gotensile/internal/batch"
	"github.com/alexiusacademia/gotensile/internal/importer"
	"github.com/alexiusacademia/gotensile/internal/specimen"
	"github.com/alexiusacademia/gotensile/internal/units"
)

const (
	area0   = 10.0
	length0 = 50.0
)

func comma(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

// writeMTS writes a bilinear steel-like curve in the MTS text layout: mm
// and kN, decimal comma, eight header lines.
func writeMTS(t *testing.T, dir, name string, plastic bool) {
	t.Helper()
	var b strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "header %d\n", i+1)
	}
	for _, e := range importer.Linspace(0, 0.05, 2001) {
		stress := 200000 * e
		if plastic && e > 0.002 {
			stress = 400 + 1000*(e-0.002)
		}
		fmt.Fprintf(&b, "%s\t%s\n", comma(e*length0), comma(stress*area0/1000))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644))
}

const definitionYAML = `title: Steel
settings:
  fit_high: 0.0015
tests:
  - title: "1_1"
    file: data/1_1.txt
    area0: 10
    length0: 50
  - title: "1_2"
    file: data/missing.txt
    area0: 10
    length0: 50
  - title: "1_3"
    file: data/1_3.txt
    area0: 10
    length0: 50
  - title: "2_1"
    file: data/2_1.txt
    area0: 10
    length0: 50
`

func TestRunIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "data"), 0o755))
	writeMTS(t, filepath.Join(dir, "data"), "1_1.txt", true)
	writeMTS(t, filepath.Join(dir, "data"), "1_3.txt", false)
	writeMTS(t, filepath.Join(dir, "data"), "2_1.txt", true)

	path := filepath.Join(dir, "tests.yaml")
	require.NoError(t, os.WriteFile(path, []byte(definitionYAML), 0o644))

	def, err := batch.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Steel", def.Title)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	outcomes := batch.Run(def, logger)
	require.Len(t, outcomes, 4)

	require.NoError(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err, "missing file")
	assert.ErrorIs(t, outcomes[2].Err, specimen.ErrFeatureNotFound, "purely elastic record has no yield")
	require.NoError(t, outcomes[3].Err)

	assert.Equal(t, 2, batch.Failed(outcomes))
	ok := batch.Succeeded(outcomes)
	require.Len(t, ok, 2)
	assert.Equal(t, "1_1", ok[0].Title)
	assert.Equal(t, "2_1", ok[1].Title)

	p := ok[0].Properties
	assert.InEpsilon(t, 200000, p.YoungsModulus, 1e-6)
	assert.InDelta(t, 0.004025, p.OffsetYield.Strain, 1e-6)
	assert.InDelta(t, 448, p.Break.Stress, 1e-6)
	assert.Equal(t, ok[0].Properties, ok[1].Properties, "identical inputs give identical results")

	assert.Contains(t, logs.String(), "missing.txt")
}

func TestLoadJSONAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tests.json")
	doc := `{
  "settings": {"header_lines": 0, "decimal_separator": ".", "delimiter": ",",
               "force_unit": "N", "smooth": true, "smooth_window": 11,
               "tolerance": 0.05, "strain_cutoff": 0.01, "truncate_at": 3},
  "tests": [{"title": "a", "file": "/abs/a.csv", "area0": 5, "length0": 20, "disp_unit": "m", "truncate_at": 2}]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	def, err := batch.Load(path)
	require.NoError(t, err)
	test := def.Tests[0]

	io := def.ImportOptions(test)
	assert.Equal(t, 0, io.HeaderLines)
	assert.Equal(t, ".", io.DecimalSeparator)
	assert.Equal(t, ',', io.Delimiter)
	assert.Equal(t, units.Meter, io.DispUnit)
	assert.Equal(t, units.Newton, io.ForceUnit)
	assert.Equal(t, 5.0, io.Area0)

	so := def.SpecimenOptions(test)
	assert.True(t, so.Smooth)
	assert.Equal(t, 11, so.SmoothWindow)
	assert.Equal(t, 3, so.SmoothOrder)
	assert.Equal(t, 2.0, so.TruncateAt)
	assert.Equal(t, 0.05, so.Extract.Tolerance)
	assert.Equal(t, 0.01, so.Extract.StrainCutoff)
	assert.Equal(t, specimen.DefaultFitHigh, so.FitHigh)

	assert.Equal(t, "/abs/a.csv", def.Path(test))
}

func TestLoadRejectsBadDefinitions(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty.yaml":    "title: nothing\n",
		"nofile.yaml":   "tests:\n  - area0: 1\n    length0: 1\n",
		"geometry.yaml": "tests:\n  - file: a.txt\n    area0: 0\n    length0: 1\n",
		"format.toml":   "tests = []\n",
		"broken.json":   "{",
		"delim.yaml":    "settings:\n  delimiter: comma\ntests:\n  - file: a.txt\n    area0: 1\n    length0: 1\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := batch.Load(path)
		assert.Error(t, err, name)
	}
}

func TestTabDelimiterSetting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests.yaml")
	doc := "settings:\n  delimiter: tab\ntests:\n  - file: a.txt\n    area0: 1\n    length0: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	def, err := batch.Load(path)
	require.NoError(t, err)
	assert.Equal(t, '\t', def.ImportOptions(def.Tests[0]).Delimiter)
}

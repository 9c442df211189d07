package batch

import (
	"log/slog"

	"github.com/alexiusacademia/gotensile/internal/importer"
	"github.com/alexiusacademia/gotensile/internal/specimen"
)

// Outcome is the result of one test. Exactly one of Specimen and Err is set.
type Outcome struct {
	Test     Test
	Specimen *specimen.Analyzed
	Err      error
}

// Run evaluates every test in order. A failing test is logged and recorded
// in its outcome; the remaining tests still run.
func Run(def *Definition, logger *slog.Logger) []Outcome {
	if logger == nil {
		logger = slog.Default()
	}

	outcomes := make([]Outcome, 0, len(def.Tests))
	for _, t := range def.Tests {
		o := Outcome{Test: t}
		o.Specimen, o.Err = runOne(def, t)
		if o.Err != nil {
			logger.Error("test failed", "file", t.File, "title", t.Title, "err", o.Err)
		} else {
			logger.Debug("test analyzed", "title", o.Specimen.Title,
				"E", o.Specimen.Properties.YoungsModulus,
				"Rp0.2", o.Specimen.Properties.OffsetYield.Stress)
			for _, w := range o.Specimen.Warnings {
				logger.Warn(w, "title", o.Specimen.Title)
			}
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func runOne(def *Definition, t Test) (*specimen.Analyzed, error) {
	raw, err := importer.ReadFile(def.Path(t), def.ImportOptions(t))
	if err != nil {
		return nil, err
	}
	return specimen.Process(raw, def.SpecimenOptions(t))
}

// Succeeded returns the analyzed specimens of the successful outcomes, in
// order.
func Succeeded(outcomes []Outcome) []*specimen.Analyzed {
	var out []*specimen.Analyzed
	for _, o := range outcomes {
		if o.Err == nil && o.Specimen != nil {
			out = append(out, o.Specimen)
		}
	}
	return out
}

// Failed counts the outcomes with an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

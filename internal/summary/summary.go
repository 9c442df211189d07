// Package summary projects analyzed specimens into a comparison table and
// writes it to the terminal, a spreadsheet or a PDF report.
package summary

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alexiusacademia/gotensile/internal/specimen"
)

// Row is one specimen's line in the summary.
type Row struct {
	Title             string
	YoungsModulus     float64 // MPa
	InitialStress     float64 // MPa
	LinearLimitStress float64 // MPa
	OffsetYieldStress float64 // Rp0.2, MPa
	UltimateStress    float64 // MPa
	BreakingStress    float64 // MPa
	BreakingStrain    float64
}

// Table is the ordered list of rows.
type Table struct {
	Rows []Row
}

var columns = []string{
	"Test",
	"Young's modulus",
	"Initial stress of test",
	"Stress at linear limit",
	"Rp0.2",
	"Ultimate stress",
	"Breaking stress",
	"Breaking strain",
}

// Columns returns the table headers in output order.
func Columns() []string {
	return append([]string(nil), columns...)
}

// Build creates one row per specimen, in input order. Nil entries are
// skipped.
func Build(specimens []*specimen.Analyzed) Table {
	t := Table{Rows: make([]Row, 0, len(specimens))}
	for _, s := range specimens {
		if s == nil {
			continue
		}
		p := s.Properties
		t.Rows = append(t.Rows, Row{
			Title:             s.Title,
			YoungsModulus:     p.YoungsModulus,
			InitialStress:     p.Initial.Stress,
			LinearLimitStress: p.LinearLimit.Stress,
			OffsetYieldStress: p.OffsetYield.Stress,
			UltimateStress:    p.Ultimate.Stress,
			BreakingStress:    p.Break.Stress,
			BreakingStrain:    p.Break.Strain,
		})
	}
	return t
}

// Values returns the row's cells in column order.
func (r Row) Values() []interface{} {
	return []interface{}{
		r.Title,
		r.YoungsModulus,
		r.InitialStress,
		r.LinearLimitStress,
		r.OffsetYieldStress,
		r.UltimateStress,
		r.BreakingStress,
		r.BreakingStrain,
	}
}

// Strings returns the row's cells formatted for text output.
func (r Row) Strings() []string {
	return []string{
		r.Title,
		fmt.Sprintf("%.0f", r.YoungsModulus),
		fmt.Sprintf("%.2f", r.InitialStress),
		fmt.Sprintf("%.2f", r.LinearLimitStress),
		fmt.Sprintf("%.2f", r.OffsetYieldStress),
		fmt.Sprintf("%.2f", r.UltimateStress),
		fmt.Sprintf("%.2f", r.BreakingStress),
		fmt.Sprintf("%.4f", r.BreakingStrain),
	}
}

// Print writes the table as aligned text columns.
func (t Table) Print(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, c := range columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
	for _, r := range t.Rows {
		for i, v := range r.Strings() {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, v)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

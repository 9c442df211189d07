package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotensile/internal/diagram"
	"github.com/alexiusacademia/gotensile/internal/importer"
	"github.com/alexiusacademia/gotensile/internal/specimen"
	"github.com/alexiusacademia/gotensile/internal/units"
)

var (
	exampleShowDiagram bool
	exampleExportFile  string
)

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Evaluate the built-in synthetic test",
	Long: `Evaluate a synthetic, perfectly linear test record:
10001 samples, force 0 to 1000 N over a displacement of 0 to 1 mm,
A0 = 10 mm² and L0 = 10 mm.

The record has E = 1000 MPa and no yield point, which makes it useful
for checking an installation.

Examples:
  gotensile example
  gotensile example --diagram -o example.svg`,
	Run: runExample,
}

func init() {
	rootCmd.AddCommand(exampleCmd)

	exampleCmd.Flags().BoolVar(&exampleShowDiagram, "diagram", false, "Show ASCII stress-strain diagram")
	exampleCmd.Flags().StringVarP(&exampleExportFile, "output", "o", "", "Export the stress-strain diagram to file (png, svg, pdf)")
}

func runExample(cmd *cobra.Command, args []string) {
	norm, err := importer.Example().Normalize(units.MPa)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	derived, err := norm.Derive()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fitted, err := derived.FitElastic(specimen.DefaultFitLow, specimen.DefaultFitHigh)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	ult, err := fitted.Ultimate()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	last := fitted.Samples() - 1

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     SYNTHETIC TENSILE TEST")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Samples:\t%d\n", fitted.Samples())
	fmt.Fprintf(w, "  Strain range:\t%.4f .. %.4f\n", fitted.StrainEng[0], fitted.StrainEng[last])
	fmt.Fprintf(w, "  Stress range:\t%.2f .. %.2f MPa\n", fitted.StressEng[0], fitted.StressEng[last])
	fmt.Fprintf(w, "  Young's modulus (E):\t%.2f MPa\n", fitted.YoungsModulus)
	fmt.Fprintf(w, "  Ultimate strength (Rm):\t%.2f MPa at ε = %.4f\n", ult.Stress, ult.Strain)

	yield, err := fitted.OffsetYield()
	switch {
	case errors.Is(err, specimen.ErrFeatureNotFound):
		fmt.Fprintf(w, "  Offset yield (Rp0.2):\tnot found (linear record)\n")
	case err != nil:
		fmt.Fprintf(w, "  Offset yield (Rp0.2):\terror: %v\n", err)
	default:
		fmt.Fprintf(w, "  Offset yield (Rp0.2):\t%.2f MPa\n", yield.Stress)
	}
	w.Flush()
	fmt.Println()

	for _, msg := range fitted.Warnings {
		fmt.Printf("  ⚠ %s\n", msg)
		logger.Warn(msg, "title", fitted.Title)
	}

	chart := diagram.StressStrainEng(&fitted.Derived)
	if exampleShowDiagram {
		fmt.Println(diagram.DrawASCII(chart, 60, 15))
	}
	if exampleExportFile != "" {
		if err := diagram.Export(chart, exampleExportFile); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", exampleExportFile)
		}
	}
}

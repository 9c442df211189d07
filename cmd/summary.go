package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotensile/internal/batch"
	"github.com/alexiusacademia/gotensile/internal/diagram"
	"github.com/alexiusacademia/gotensile/internal/summary"
)

var (
	summaryFile     string
	summaryXLSXFile string
	summaryPDFFile  string
	summaryPlotFile string
	summaryXMax     float64
	summaryYMax     float64
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Evaluate a batch of tensile tests",
	Long: `Evaluate every test listed in a JSON or YAML file and print
a summary table of the results.

A test that fails is reported and skipped; the others are still
evaluated. Relative file paths are resolved against the directory
of the batch file.

Example YAML file:
  title: PLA dog bones
  settings:
    fit_high: 0.01
    smooth: true
  tests:
    - title: "1_1"
      file: data/1_1.txt
      area0: 10
      length0: 50

Examples:
  gotensile summary -f tests.yaml
  gotensile summary -f tests.yaml -o summary.xlsx --pdf report.pdf --plot comparison.png`,
	Run: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVarP(&summaryFile, "file", "f", "", "Path to batch file (.json, .yaml) [required]")
	summaryCmd.MarkFlagRequired("file")

	// Export options
	summaryCmd.Flags().StringVarP(&summaryXLSXFile, "output", "o", "", "Export the summary table to an .xlsx file")
	summaryCmd.Flags().StringVar(&summaryPDFFile, "pdf", "", "Export the summary table to a .pdf report")
	summaryCmd.Flags().StringVar(&summaryPlotFile, "plot", "", "Export a comparison diagram of all tests (png, svg, pdf)")
	summaryCmd.Flags().Float64Var(&summaryXMax, "x-max", 0, "Upper strain limit of the comparison diagram (0 = auto)")
	summaryCmd.Flags().Float64Var(&summaryYMax, "y-max", 0, "Upper stress limit of the comparison diagram (0 = auto)")
}

func runSummary(cmd *cobra.Command, args []string) {
	def, err := batch.Load(summaryFile)
	if err != nil {
		fmt.Printf("Error loading batch: %v\n", err)
		return
	}

	outcomes := batch.Run(def, logger)
	analyzed := batch.Succeeded(outcomes)
	table := summary.Build(analyzed)

	title := def.Title
	if title == "" {
		title = summaryFile
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     TENSILE TEST SUMMARY - %s\n", title)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	if len(table.Rows) > 0 {
		if err := table.Print(os.Stdout); err != nil {
			fmt.Printf("Error printing summary: %v\n", err)
			return
		}
		fmt.Println()
	}

	if failed := batch.Failed(outcomes); failed > 0 {
		fmt.Println("FAILED TESTS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		for _, o := range outcomes {
			if o.Err != nil {
				fmt.Printf("  ⚠ %s (%s): %v\n", o.Test.Title, o.Test.File, o.Err)
			}
		}
		fmt.Println()
	}
	fmt.Printf("  %d of %d tests evaluated.\n", len(analyzed), len(outcomes))
	fmt.Println()

	if len(analyzed) == 0 {
		return
	}

	if summaryXLSXFile != "" {
		if err := table.WriteXLSX(summaryXLSXFile); err != nil {
			fmt.Printf("Error exporting summary: %v\n", err)
		} else {
			fmt.Printf("Summary exported to: %s\n", summaryXLSXFile)
		}
	}
	if summaryPDFFile != "" {
		if err := table.WritePDF(summaryPDFFile, title); err != nil {
			fmt.Printf("Error exporting report: %v\n", err)
		} else {
			fmt.Printf("Report exported to: %s\n", summaryPDFFile)
		}
	}
	if summaryPlotFile != "" {
		chart := diagram.Comparison(title, analyzed, summaryXMax, summaryYMax)
		if err := diagram.Export(chart, summaryPlotFile); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", summaryPlotFile)
		}
	}
}

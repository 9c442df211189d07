package cmd

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotensile/internal/diagram"
	"github.com/alexiusacademia/gotensile/internal/importer"
	"github.com/alexiusacademia/gotensile/internal/smoothing"
	"github.com/alexiusacademia/gotensile/internal/specimen"
	"github.com/alexiusacademia/gotensile/internal/units"
)

var (
	// Input file
	analyzeFile      string
	analyzeTitle     string
	analyzeMachine   string
	analyzeHeader    int
	analyzeDecimal   string
	analyzeDelimiter string
	analyzeDispUnit  string
	analyzeForceUnit string

	// Specimen geometry
	analyzeArea0   float64
	analyzeLength0 float64

	// Evaluation
	analyzeTruncate     float64
	analyzeSmooth       bool
	analyzeSmoothWindow int
	analyzeSmoothOrder  int
	analyzeFitLow       float64
	analyzeFitHigh      float64
	analyzeZeroStrain   bool
	analyzeTolerance    float64
	analyzeCutoff       float64

	// Output
	analyzeShowDiagram bool
	analyzeExportFile  string
	analyzePlotDir     string
	analyzeXMax        float64
	analyzeYMax        float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate a single tensile test",
	Long: `Evaluate the force-displacement record of one tensile test.

The record is converted to N and mm, engineering and true stress-strain
curves are derived and a straight line is fitted to the elastic region.
From the fitted record the following properties are extracted:
  - Young's modulus E (slope of the elastic fit)
  - Linear limit (last point within the tolerance of the elastic line)
  - 0.2 % offset yield strength Rp0.2
  - Ultimate tensile strength Rm and breaking point

Examples:
  # MTS export, 8 header lines, decimal comma, mm and kN
  gotensile analyze -f 1_1.txt --area0 10 --length0 50

  # Fit the elastic line between 0.1 % and 1 % strain and show a preview
  gotensile analyze -f 1_1.txt --area0 10 --length0 50 --fit-low 0.001 --fit-high 0.01 --diagram

  # CSV with a dot decimal separator and a smoothed force signal
  gotensile analyze -f test.csv --header 1 --delimiter , --decimal . --force-unit N \
      --area0 10 --length0 50 --smooth -o curve.png`,
	Run: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to the test export (.txt, .csv, .xlsx) [required]")
	analyzeCmd.Flags().StringVarP(&analyzeTitle, "title", "t", "", "Specimen title (default: file name)")
	analyzeCmd.Flags().StringVar(&analyzeMachine, "machine", "MTS", "Test machine label")
	analyzeCmd.Flags().IntVar(&analyzeHeader, "header", 8, "Header lines to skip")
	analyzeCmd.Flags().StringVar(&analyzeDecimal, "decimal", ",", "Decimal separator")
	analyzeCmd.Flags().StringVar(&analyzeDelimiter, "delimiter", "tab", "Column delimiter (single character or 'tab')")
	analyzeCmd.Flags().StringVar(&analyzeDispUnit, "disp-unit", units.Millimeter, "Displacement unit (mm, m)")
	analyzeCmd.Flags().StringVar(&analyzeForceUnit, "force-unit", units.Kilonewton, "Force unit (N, kN)")

	// Geometry flags
	analyzeCmd.Flags().Float64VarP(&analyzeArea0, "area0", "a", 0, "Initial cross-sectional area A0 (mm²) [required]")
	analyzeCmd.Flags().Float64VarP(&analyzeLength0, "length0", "l", 0, "Initial gauge length L0 (mm) [required]")

	// Evaluation flags
	analyzeCmd.Flags().Float64Var(&analyzeTruncate, "truncate", 0, "Drop samples at or beyond this displacement (input unit)")
	analyzeCmd.Flags().BoolVar(&analyzeSmooth, "smooth", false, "Smooth the force signal (Savitzky-Golay)")
	analyzeCmd.Flags().IntVar(&analyzeSmoothWindow, "smooth-window", smoothing.DefaultWindow, "Smoothing window length (odd)")
	analyzeCmd.Flags().IntVar(&analyzeSmoothOrder, "smooth-order", smoothing.DefaultOrder, "Smoothing polynomial order")
	analyzeCmd.Flags().Float64Var(&analyzeFitLow, "fit-low", specimen.DefaultFitLow, "Lower strain bound of the elastic fit (exclusive)")
	analyzeCmd.Flags().Float64Var(&analyzeFitHigh, "fit-high", specimen.DefaultFitHigh, "Upper strain bound of the elastic fit (exclusive)")
	analyzeCmd.Flags().BoolVar(&analyzeZeroStrain, "zero-strain", false, "Shift the strain so the elastic line passes through the origin")
	analyzeCmd.Flags().Float64Var(&analyzeTolerance, "tolerance", specimen.DefaultTolerance, "Relative deviation allowed for the linear limit")
	analyzeCmd.Flags().Float64Var(&analyzeCutoff, "cutoff", specimen.DefaultStrainCutoff, "Strain cutoff of the linear limit search")

	// Diagram options
	analyzeCmd.Flags().BoolVar(&analyzeShowDiagram, "diagram", false, "Show ASCII stress-strain diagram")
	analyzeCmd.Flags().StringVarP(&analyzeExportFile, "output", "o", "", "Export the offset yield diagram to file (png, svg, pdf)")
	analyzeCmd.Flags().StringVar(&analyzePlotDir, "plots", "", "Export every diagram as png into this directory")
	analyzeCmd.Flags().Float64Var(&analyzeXMax, "x-max", 0, "Upper strain limit of exported diagrams (0 = auto)")
	analyzeCmd.Flags().Float64Var(&analyzeYMax, "y-max", 0, "Upper stress limit of exported diagrams (0 = auto)")

	// Mark required flags
	analyzeCmd.MarkFlagRequired("file")
	analyzeCmd.MarkFlagRequired("area0")
	analyzeCmd.MarkFlagRequired("length0")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	delim, err := importer.ParseDelimiter(analyzeDelimiter)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	opts := importer.DefaultOptions()
	opts.Title = analyzeTitle
	opts.Machine = analyzeMachine
	opts.HeaderLines = analyzeHeader
	opts.Delimiter = delim
	opts.DecimalSeparator = analyzeDecimal
	opts.DispUnit = analyzeDispUnit
	opts.ForceUnit = analyzeForceUnit
	opts.Area0 = analyzeArea0
	opts.Length0 = analyzeLength0

	// Load test record
	raw, err := importer.ReadFile(analyzeFile, opts)
	if err != nil {
		fmt.Printf("Error loading test: %v\n", err)
		return
	}

	evalOpts := specimen.DefaultOptions()
	evalOpts.TruncateAt = analyzeTruncate
	evalOpts.Smooth = analyzeSmooth
	evalOpts.SmoothWindow = analyzeSmoothWindow
	evalOpts.SmoothOrder = analyzeSmoothOrder
	evalOpts.FitLow = analyzeFitLow
	evalOpts.FitHigh = analyzeFitHigh
	evalOpts.ZeroStrain = analyzeZeroStrain
	evalOpts.Extract = specimen.ExtractOptions{Tolerance: analyzeTolerance, StrainCutoff: analyzeCutoff}

	// Run evaluation
	result, err := specimen.Process(raw, evalOpts)
	if err != nil {
		fmt.Printf("Error analyzing test: %v\n", err)
		if errors.Is(err, specimen.ErrFeatureNotFound) {
			fmt.Println("  Check the fit window (--fit-low, --fit-high) and the tolerance.")
		}
		return
	}

	printAnalysis(result)

	// Show diagram if requested
	if analyzeShowDiagram {
		fmt.Println(diagram.DrawASCII(diagram.OffsetYield(result, 0, 0), 60, 15))
	}

	// Export diagram if requested
	if analyzeExportFile != "" {
		err := diagram.Export(diagram.OffsetYield(result, analyzeXMax, analyzeYMax), analyzeExportFile)
		if err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", analyzeExportFile)
		}
	}

	if analyzePlotDir != "" {
		exportAllDiagrams(result, analyzePlotDir)
	}
}

// printAnalysis prints the specimen data and its extracted properties.
func printAnalysis(a *specimen.Analyzed) {
	p := a.Properties

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     TENSILE TEST EVALUATION")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	// Specimen info
	fmt.Println("SPECIMEN:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Title:\t%s\n", a.Title)
	if a.Machine != "" {
		fmt.Fprintf(w, "  Machine:\t%s\n", a.Machine)
	}
	fmt.Fprintf(w, "  Initial area (A0):\t%.3f mm²\n", a.Area0)
	fmt.Fprintf(w, "  Gauge length (L0):\t%.3f mm\n", a.Length0)
	fmt.Fprintf(w, "  Samples:\t%d\n", a.Samples())
	if a.SamplesAll > 0 {
		fmt.Fprintf(w, "  Samples (untruncated):\t%d\n", a.SamplesAll)
	}
	if a.ForceRaw != nil {
		fmt.Fprintf(w, "  Force signal:\tsmoothed\n")
	}
	w.Flush()
	fmt.Println()

	// Elastic fit
	fmt.Println("ELASTIC REGION:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Fit window:\t%.5f < ε < %.5f\n", a.FitLow, a.FitHigh)
	fmt.Fprintf(w, "  Trend:\tσ = %.2f·ε %+.4f MPa\n", a.Trend.Slope, a.Trend.Intercept)
	if a.ZeroCorrected {
		fmt.Fprintf(w, "  Zero-strain correction (ε0):\t%.6f\n", p.Strain0)
	}
	w.Flush()
	fmt.Println()

	// Properties
	fmt.Println("MECHANICAL PROPERTIES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Point\tStrain\tStress (MPa)\tSample\n")
	fmt.Fprintf(w, "  ─────\t──────\t────────────\t──────\n")
	printPoint(w, "Initial", p.Initial)
	printPoint(w, "Linear limit", p.LinearLimit)
	printPoint(w, "Offset yield Rp0.2", p.OffsetYield)
	printPoint(w, "Ultimate Rm", p.Ultimate.Point)
	printPoint(w, "Break", p.Break)
	w.Flush()
	if len(p.Ultimate.Strains) > 1 {
		fmt.Printf("  Rm is reached at %d samples, first shown.\n", len(p.Ultimate.Strains))
	}
	fmt.Println()

	fmt.Printf("  ╔═════════════════════════════════════════════════╗\n")
	fmt.Printf("  ║  YOUNG'S MODULUS E = %.0f MPa            \n", p.YoungsModulus)
	fmt.Printf("  ║  YIELD STRENGTH Rp0.2 = %.2f MPa         \n", p.OffsetYield.Stress)
	fmt.Printf("  ║  TENSILE STRENGTH Rm = %.2f MPa          \n", p.Ultimate.Stress)
	fmt.Printf("  ╚═════════════════════════════════════════════════╝\n")
	fmt.Println()

	printWarnings(a)
}

func printPoint(w *tabwriter.Writer, name string, pt specimen.Point) {
	fmt.Fprintf(w, "  %s\t%.6f\t%.2f\t%d\n", name, pt.Strain, pt.Stress, pt.Index)
}

// printWarnings lists the numerical warnings of the derivation and logs them.
func printWarnings(a *specimen.Analyzed) {
	if len(a.Warnings) == 0 {
		return
	}
	fmt.Println("WARNINGS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	for _, msg := range a.Warnings {
		fmt.Printf("  ⚠ %s\n", msg)
		logger.Warn(msg, "title", a.Title)
	}
	fmt.Println()
}

// exportAllDiagrams writes every chart of the record as png files named
// after the specimen.
func exportAllDiagrams(a *specimen.Analyzed, dir string) {
	charts := map[string]diagram.ChartData{
		"force_displacement":          diagram.ForceDisplacement(&a.Normalized),
		"force_displacement_smoothed": diagram.ForceDisplacementSmoothRaw(&a.Normalized),
		"stress_strain_eng":           diagram.StressStrainEng(&a.Derived),
		"stress_strain_true":          diagram.StressStrainTrue(&a.Derived),
		"stress_strain_eng_true":      diagram.StressStrainEngTrue(&a.Derived),
		"offset_yield":                diagram.OffsetYield(a, analyzeXMax, analyzeYMax),
	}
	for _, name := range slices.Sorted(maps.Keys(charts)) {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", a.Title, name))
		if err := diagram.Export(charts[name], path); err != nil {
			fmt.Printf("Error exporting %s: %v\n", name, err)
			continue
		}
		logger.Debug("diagram exported", "path", path)
	}
	fmt.Printf("Diagrams exported to: %s\n", dir)
}

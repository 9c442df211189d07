package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotensile/internal/version"
)

var verbose bool

// logger receives diagnostics (warnings, batch failures) on stderr. Results
// are printed to stdout.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

var rootCmd = &cobra.Command{
	Use:   "gotensile",
	Short: "Tensile Test Evaluation Tool",
	Long: `gotensile - Go Tensile Test Evaluator

A CLI tool for the evaluation of uniaxial tensile tests
recorded as force-displacement data.

This tool helps materials engineers determine:
  - Engineering and true stress-strain curves
  - Young's modulus from a linear fit of the elastic region
  - Linear limit (limit of proportionality)
  - 0.2 % offset yield strength (Rp0.2)
  - Ultimate tensile strength and breaking point

Tab-separated MTS exports and .xlsx workbooks are supported.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gotensile v%-45s║\n", version.Version)
		fmt.Println("  ║   Go Tensile Test Evaluator                               ║")
		fmt.Printf("  ║   %s ©  %-36s║\n", version.Author, version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for the evaluation of uniaxial tensile tests.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Unit normalization, truncation and Savitzky-Golay smoothing")
		fmt.Println("    • Engineering and true stress-strain curves")
		fmt.Println("    • Young's modulus, linear limit, Rp0.2 and ultimate strength")
		fmt.Println("    • Batch summaries exported to .xlsx and .pdf")
		fmt.Println("    • Charts exported to png, svg and pdf")
		fmt.Println()
		fmt.Println("  Use 'gotensile --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
}

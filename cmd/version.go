package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotensile/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gotensile",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gotensile v%s\n", version.Version)
		fmt.Println("Tensile Test Evaluation Tool")
		if verbose {
			fmt.Printf("Built %s from commit %s\n", version.BuildTime, version.GitCommit)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Command pysema is the CLI entry point for the semantic-analysis core: it
// walks one or more paths, builds a symbol table per file, and prints the
// resulting diagnostics. Grounded on the teacher's cmd/surge/main.go (a
// cobra root command registering subcommands plus persistent flags for
// color and quiet output).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pysema",
	Short: "Semantic analyzer for the reduced Python-like scripting language",
	Long:  `pysema builds scope graphs and symbol tables for files in the language and reports what it could and could not resolve.`,
}

func main() {
	rootCmd.AddCommand(analyzeCmd)

	rootCmd.PersistentFlags().String("color", "auto", "color mode (auto|on|off); not read: text output is colorized exactly when stdout is a terminal")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

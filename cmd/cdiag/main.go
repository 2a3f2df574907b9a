// cdiag extracts positioned diagnostics from C compiler output.
//
// It drives a configurable compiler invocation, dissects the raw
// diagnostic text with configurable regular expressions, and serves
// the resulting records three ways:
//
//	cdiag check main.c        one-shot validation, rendered to stdout
//	cdiag watch main.c        live re-validation on save
//	cdiag lsp                 language server over stdio
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/muraak/cdiag/internal/version"
)

// errDiagnosticsFound distinguishes "the compiler found problems"
// (exit 1) from engine failures (exit 2).
var errDiagnosticsFound = errors.New("diagnostics found")

var rootCmd = &cobra.Command{
	Use:   "cdiag",
	Short: "C compiler diagnostics, extracted and structured",
	Long: `cdiag turns the text output of a C compiler invocation into
structured, positioned diagnostics for terminals and editors.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to .cdiag.yaml (default: auto-discover)")
	rootCmd.PersistentFlags().String("compiler", "", "compile command override")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errDiagnosticsFound) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

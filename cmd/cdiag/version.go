package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muraak/cdiag/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cdiag %s (commit %s, built %s)\n",
			version.Version, version.CommitHash, version.BuildDate)
	},
}

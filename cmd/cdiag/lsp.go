package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muraak/cdiag/internal/config"
	"github.com/muraak/cdiag/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the cdiag language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	compiler, _ := cmd.Flags().GetString("compiler")

	// File and env settings seed the server; editors that serve
	// workspace/configuration override them per document.
	settings, err := config.Resolve(config.Flags{ConfigPath: configPath, CompileCommand: compiler})
	if err != nil {
		return err
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{BaseSettings: &settings})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}

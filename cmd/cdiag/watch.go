package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/muraak/cdiag/internal/config"
	"github.com/muraak/cdiag/internal/diag"
	"github.com/muraak/cdiag/internal/render"
	"github.com/muraak/cdiag/internal/validate"
	"github.com/muraak/cdiag/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:          "watch <file>",
	Short:        "Re-validate a file on every save and show live diagnostics",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runWatch,
}

func init() {
	watchCmd.Flags().String("theme", "default", "terminal theme: default, mono")
	watchCmd.Flags().String("workspace-root", "", "root for relative include paths (default: cwd)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	compiler, _ := cmd.Flags().GetString("compiler")
	themeFlag, _ := cmd.Flags().GetString("theme")
	root, _ := cmd.Flags().GetString("workspace-root")

	settings, err := config.Resolve(config.Flags{ConfigPath: configPath, CompileCommand: compiler})
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return err
		}
	}

	// The TUI owns the screen, so engine errors are captured and fed
	// back through the validation result instead of stderr.
	reporter := &captureReporter{}
	service := validate.NewService(validate.Options{
		Source:        validate.StaticSettings(settings),
		Reporter:      reporter,
		WorkspaceRoot: root,
	})

	validateFn := func(ctx context.Context) (diag.Set, error) {
		text, err := os.ReadFile(abs)
		if err != nil {
			return nil, err
		}
		reporter.reset()
		set, err := service.Validate(ctx, validate.Document{URI: abs, Path: abs, Text: string(text)})
		if err == nil {
			err = reporter.take()
		}
		return set, err
	}

	return watch.Run(cmd.Context(), watch.Options{
		File:     abs,
		Validate: validateFn,
		Theme:    render.ThemeByName(themeFlag),
	})
}

// captureReporter holds the last engine error of a pass.
type captureReporter struct {
	mu  sync.Mutex
	err error
}

func (c *captureReporter) ReportEngineError(_ string, err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func (c *captureReporter) reset() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}

func (c *captureReporter) take() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

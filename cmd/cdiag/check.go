package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/muraak/cdiag/internal/config"
	"github.com/muraak/cdiag/internal/diag"
	"github.com/muraak/cdiag/internal/render"
	"github.com/muraak/cdiag/internal/validate"
)

var checkCmd = &cobra.Command{
	Use:           "check [files...]",
	Short:         "Run one validation pass per file and render the diagnostics",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

func init() {
	checkCmd.Flags().String("format", "auto", "output format: auto, terminal, plain, json")
	checkCmd.Flags().String("theme", "default", "terminal theme: default, mono")
	checkCmd.Flags().String("workspace-root", "", "root for relative include paths (default: cwd)")
	checkCmd.Flags().Int("jobs", 4, "max concurrent compiler invocations")
}

func runCheck(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	compiler, _ := cmd.Flags().GetString("compiler")
	formatFlag, _ := cmd.Flags().GetString("format")
	themeFlag, _ := cmd.Flags().GetString("theme")
	root, _ := cmd.Flags().GetString("workspace-root")
	jobs, _ := cmd.Flags().GetInt("jobs")

	settings, err := config.Resolve(config.Flags{ConfigPath: configPath, CompileCommand: compiler})
	if err != nil {
		return err
	}
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return err
		}
	}

	service := validate.NewService(validate.Options{
		Source:        validate.StaticSettings(settings),
		Reporter:      stderrReporter{},
		WorkspaceRoot: root,
	})

	results := make([]render.Result, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for i, file := range args {
		g.Go(func() error {
			results[i] = checkOne(ctx, service, file)
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprint(cmd.OutOrStdout(), pickRenderer(formatFlag, themeFlag).Render(results))

	failed := false
	hasErrors := false
	for _, res := range results {
		if res.Err != nil {
			failed = true
		}
		if res.Records.Count(diag.SeverityError) > 0 {
			hasErrors = true
		}
	}
	if failed {
		return fmt.Errorf("one or more files could not be validated")
	}
	if hasErrors {
		return errDiagnosticsFound
	}
	return nil
}

func checkOne(ctx context.Context, service *validate.Service, file string) render.Result {
	abs, err := filepath.Abs(file)
	if err != nil {
		return render.Result{File: file, Err: err}
	}
	text, err := os.ReadFile(abs)
	if err != nil {
		return render.Result{File: file, Err: err}
	}
	set, err := service.Validate(ctx, validate.Document{URI: abs, Path: abs, Text: string(text)})
	return render.Result{File: file, Records: set, Err: err}
}

// pickRenderer resolves the output format: explicit flags win, auto
// means styled output on a terminal and plain text on a pipe.
func pickRenderer(format, theme string) render.Renderer {
	switch format {
	case "terminal":
		return render.NewTerminal(render.ThemeByName(theme), terminalWidth())
	case "plain":
		return render.NewPlain()
	case "json":
		return render.NewJSON()
	default:
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return render.NewTerminal(render.ThemeByName(theme), terminalWidth())
		}
		return render.NewPlain()
	}
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// stderrReporter surfaces engine errors on stderr, keeping stdout
// clean for rendered output.
type stderrReporter struct{}

func (stderrReporter) ReportEngineError(uri string, err error) {
	fmt.Fprintf(os.Stderr, "cdiag: Diagnostic Error: %v (%s)\n", err, uri)
}

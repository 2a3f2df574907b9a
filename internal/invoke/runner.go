package invoke

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result is the captured outcome of one compiler invocation.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes a compiler and captures its streams. The interface
// exists so the validation service can be tested with canned output.
type Runner interface {
	Run(ctx context.Context, dir, command string, args []string) (Result, error)
}

// NewRunner returns the exec-backed Runner.
func NewRunner() Runner { return execRunner{} }

type execRunner struct{}

// Run executes command in dir and captures stdout and stderr
// separately. A nonzero exit is not an error here: a compiler that
// found problems exits nonzero and that is the interesting case. Only
// a process that could not run at all (missing binary, bad dir,
// cancelled context) returns a non-nil error.
func (execRunner) Run(ctx context.Context, dir, command string, args []string) (Result, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// Package invoke builds compiler command lines and runs them.
package invoke

import (
	"path/filepath"

	"github.com/muraak/cdiag/internal/config"
)

// BuildArgs assembles the compiler argument vector: the configured
// compile options, one include flag per configured include path, then
// the base name of the target file. Pure construction; the process
// spawn lives in Runner.
//
// Absolute include paths are emitted as prefix+path unmodified.
// Relative ones are resolved against the workspace root first, so the
// flags stay correct even though the compiler runs in the target
// file's own directory.
func BuildArgs(s config.Settings, file, workspaceRoot string) []string {
	args := make([]string, 0, len(s.CompileOptions)+len(s.IncludePath.Absolute)+len(s.IncludePath.Relative)+1)
	args = append(args, s.CompileOptions...)

	for _, p := range s.IncludePath.Absolute {
		args = append(args, s.IncludeOptionPrefix+p)
	}
	for _, p := range s.IncludePath.Relative {
		args = append(args, s.IncludeOptionPrefix+filepath.Join(workspaceRoot, p))
	}

	return append(args, filepath.Base(file))
}

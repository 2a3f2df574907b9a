package config

import "os"

// Flags holds the CLI values that participate in settings resolution.
type Flags struct {
	// ConfigPath overrides config file discovery when non-empty.
	ConfigPath string
	// CompileCommand overrides the configured compiler when non-empty.
	CompileCommand string
}

// Resolve produces the effective settings for a CLI invocation with
// explicit priority: CLI flags > environment > config file > defaults.
// This is the single source of truth for CLI-side resolution; the
// language server resolves per-document settings from the editor
// instead.
func Resolve(flags Flags) (Settings, error) {
	path := flags.ConfigPath
	if path == "" {
		path = FindConfigPath()
	}

	s, err := Load(path)
	if err != nil {
		return s, err
	}

	if env := os.Getenv("CDIAG_COMPILE_COMMAND"); env != "" {
		s.CompileCommand = env
	}
	if env := os.Getenv("CDIAG_ENCODING"); env != "" {
		s.Parse.Encoding = env
	}

	if flags.CompileCommand != "" {
		s.CompileCommand = flags.CompileCommand
	}

	return s, nil
}

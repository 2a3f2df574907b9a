package config

// Settings is the immutable per-document settings bundle controlling
// compiler invocation and output parsing. One value is resolved per
// validation pass; every engine component consumes it read-only.
//
// The yaml tags serve the .cdiag.yaml project file, the json tags the
// settings payloads exchanged with an LSP client. Both spell the same
// keys the original configuration surface used.
type Settings struct {
	CompileCommand      string        `yaml:"compile_command" json:"compileCommand"`
	CompileOptions      []string      `yaml:"compile_options" json:"compileOptions"`
	IncludeOptionPrefix string        `yaml:"include_option_prefix" json:"includeOptionPrefix"`
	IncludePath         IncludePaths  `yaml:"include_path" json:"includePath"`
	DiagDelimiter       string        `yaml:"diag_delimiter" json:"diagDelimiter"`
	Parse               ParseSettings `yaml:"parse" json:"parse"`
	MaxNumberOfProblems int           `yaml:"max_number_of_problems" json:"maxNumberOfProblems"`
}

// IncludePaths lists include directories passed to the compiler.
// Absolute entries are emitted verbatim; relative entries are resolved
// against the workspace root first. Both lists may be empty.
type IncludePaths struct {
	Absolute []string `yaml:"absolute" json:"absolute"`
	Relative []string `yaml:"relative" json:"relative"`
}

// ParseSettings controls how raw compiler output is decoded and
// dissected into diagnostic records.
type ParseSettings struct {
	Encoding           string              `yaml:"encoding" json:"encoding"`
	DiagInfoPattern    string              `yaml:"diag_info_pattern" json:"diagInfoPattern"`
	Index              CaptureIndexes      `yaml:"index" json:"index"`
	SeverityIdentifier SeverityIdentifiers `yaml:"severity_identifier" json:"severityIdentifier"`
}

// CaptureIndexes are the 1-based capture-group positions within the
// record pattern. They are configuration, not fixed: a pattern may
// order its groups freely.
type CaptureIndexes struct {
	FileName int `yaml:"file_name" json:"file_name"`
	LinePos  int `yaml:"line_pos" json:"line_pos"`
	CharPos  int `yaml:"char_pos" json:"char_pos"`
	Severity int `yaml:"severity" json:"severity"`
}

// SeverityIdentifiers are the substrings that classify free-text
// severity into the four fixed levels.
type SeverityIdentifiers struct {
	Error       string `yaml:"error" json:"error"`
	Warning     string `yaml:"warning" json:"warning"`
	Information string `yaml:"information" json:"information"`
	Hint        string `yaml:"hint" json:"hint"`
}

// Default returns the settings used when nothing is configured.
// They target the gcc driver and its file:line:column: message shape.
func Default() Settings {
	return Settings{
		CompileCommand:      "gcc",
		CompileOptions:      []string{"-fsyntax-only", "-fdiagnostics-plain-output"},
		IncludeOptionPrefix: "-I",
		DiagDelimiter:       `^.+:[0-9]+:[0-9]+:`,
		Parse: ParseSettings{
			Encoding:        "utf-8",
			DiagInfoPattern: `^(.+?):([0-9]+):([0-9]+):\s*(.+?):`,
			Index: CaptureIndexes{
				FileName: 1,
				LinePos:  2,
				CharPos:  3,
				Severity: 4,
			},
			SeverityIdentifier: SeverityIdentifiers{
				Error:       "error",
				Warning:     "warning",
				Information: "note",
				Hint:        "hint",
			},
		},
		MaxNumberOfProblems: 100,
	}
}

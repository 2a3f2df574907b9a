// Package render provides output renderers for validation results.
package render

import "github.com/muraak/cdiag/internal/diag"

// Result is the outcome of one file's validation pass.
type Result struct {
	File    string
	Records diag.Set
	// Err is an engine failure for this file (bad configuration,
	// compiler could not run). A Result with an Err has no records.
	Err error
}

// Renderer converts validation results to formatted output.
type Renderer interface {
	Render(results []Result) string
}

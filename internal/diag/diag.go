// Package diag defines the diagnostic data model shared by the
// extraction engine, the CLI renderers, and the language server.
package diag

// Severity is the importance level of a diagnostic record.
//
// The numeric values match the LSP DiagnosticSeverity encoding, so
// records can be published to an editor without translation.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Position is a zero-based line/character pair within a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range delimits a span of document text.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Record is one positioned diagnostic extracted from compiler output.
// Immutable once built.
type Record struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	// Message carries the full raw block text, not just the matched
	// summary line.
	Message string `json:"message"`
	// Source names the compile command that produced the output.
	Source string `json:"source"`
	// ReportedColumn is the 1-based column the compiler reported.
	// It is retained for future use but not applied to Range; the
	// published range always spans the whole reported line.
	ReportedColumn int `json:"reportedColumn,omitempty"`
}

// Set is the complete replacement diagnostic set produced by one
// validation pass, in source order.
type Set []Record

// Truncate caps the set at max records. A max of zero or less leaves
// the set unchanged.
func (s Set) Truncate(max int) Set {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// Count returns the number of records with the given severity.
func (s Set) Count(sev Severity) int {
	n := 0
	for _, r := range s {
		if r.Severity == sev {
			n++
		}
	}
	return n
}

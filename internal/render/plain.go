package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/muraak/cdiag/internal/diag"
)

// Plain renders results as one line per diagnostic in the familiar
// file:line:column grep shape. Colors come from fatih/color, which
// disables itself automatically when stdout is not a terminal, so the
// same renderer serves pipes and CI logs.
type Plain struct{}

// NewPlain creates a plain renderer.
func NewPlain() *Plain {
	return &Plain{}
}

var (
	plainError   = color.New(color.FgRed)
	plainWarning = color.New(color.FgYellow)
	plainInfo    = color.New(color.FgCyan)
	plainHint    = color.New(color.FgGreen)
)

// Render formats all results, one diagnostic per line.
func (p *Plain) Render(results []Result) string {
	var sb strings.Builder
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(&sb, "%s: %s\n", res.File, plainError.Sprintf("diagnostic error: %v", res.Err))
			continue
		}
		for _, r := range res.Records {
			fmt.Fprintf(&sb, "%s:%d:%d: %s: %s\n",
				res.File,
				r.Range.Start.Line+1,
				r.ReportedColumn,
				severityColor(r.Severity).Sprint(r.Severity),
				firstLine(r.Message),
			)
		}
	}
	return sb.String()
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SeverityError:
		return plainError
	case diag.SeverityWarning:
		return plainWarning
	case diag.SeverityInformation:
		return plainInfo
	default:
		return plainHint
	}
}

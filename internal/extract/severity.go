package extract

import (
	"strings"

	"github.com/muraak/cdiag/internal/config"
	"github.com/muraak/cdiag/internal/diag"
)

// Classify maps the extracted severity text to a level by substring
// containment against the configured identifiers.
//
// Identifiers are tested in fixed priority order Error, Warning,
// Information, Hint; the first containment wins, so text carrying both
// a warning and an error identifier classifies as Error. When nothing
// matches, the result is Error. The order is part of the contract and
// must not be reordered or made configurable.
func Classify(severityText string, ids config.SeverityIdentifiers) diag.Severity {
	switch {
	case ids.Error != "" && strings.Contains(severityText, ids.Error):
		return diag.SeverityError
	case ids.Warning != "" && strings.Contains(severityText, ids.Warning):
		return diag.SeverityWarning
	case ids.Information != "" && strings.Contains(severityText, ids.Information):
		return diag.SeverityInformation
	case ids.Hint != "" && strings.Contains(severityText, ids.Hint):
		return diag.SeverityHint
	default:
		return diag.SeverityError
	}
}

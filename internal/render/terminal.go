package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/muraak/cdiag/internal/diag"
)

// Terminal renders results as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all results for terminal display.
func (t *Terminal) Render(results []Result) string {
	var sections []string
	for _, res := range results {
		sections = append(sections, t.renderOne(res))
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(res Result) string {
	var sb strings.Builder
	sb.WriteString(t.theme.Bold.Render(t.theme.File.Render(res.File)))
	sb.WriteString("\n")

	if res.Err != nil {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Error.Render(t.theme.Icons.Error + " " + res.Err.Error()))
		sb.WriteString("\n")
		return sb.String()
	}

	if len(res.Records) == 0 {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Hint.Render(t.theme.Icons.Clean + " no diagnostics"))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, r := range res.Records {
		icon, style := t.theme.severityStyle(r.Severity)
		loc := fmt.Sprintf("%d:%d", r.Range.Start.Line+1, r.ReportedColumn)
		sb.WriteString("  ")
		sb.WriteString(style.Render(icon))
		sb.WriteString(" ")
		sb.WriteString(t.theme.Muted.Render(loc))
		sb.WriteString(" ")
		sb.WriteString(style.Render(t.fitMessage(firstLine(r.Message), len(loc)+5)))
		sb.WriteString("\n")
	}

	sb.WriteString(t.renderCounts(res.Records))
	return sb.String()
}

func (t *Terminal) renderCounts(set diag.Set) string {
	parts := make([]string, 0, 4)
	for _, sev := range []diag.Severity{
		diag.SeverityError,
		diag.SeverityWarning,
		diag.SeverityInformation,
		diag.SeverityHint,
	} {
		if n := set.Count(sev); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	return "  " + t.theme.Muted.Render(strings.Join(parts, ", ")) + "\n"
}

// fitMessage truncates a message to the remaining terminal width.
// Measured with go-runewidth so East Asian Wide characters in
// compiler messages do not break the layout.
func (t *Terminal) fitMessage(msg string, used int) string {
	avail := t.width - used
	if avail < 8 {
		avail = 8
	}
	if runewidth.StringWidth(msg) <= avail {
		return msg
	}
	return runewidth.Truncate(msg, avail, "…")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

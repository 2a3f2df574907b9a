package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muraak/cdiag/internal/diag"
)

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name    string
	File    lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Hint    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Error   string
	Warning string
	Info    string
	Hint    string
	Clean   string
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		File:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Error:   "✗",
			Warning: "⚠",
			Info:    "●",
			Hint:    "·",
			Clean:   "✓",
		},
	}
}

// MonoTheme returns a monochrome theme (no colors).
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		File:    lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Info:    lipgloss.NewStyle(),
		Hint:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Error:   "x",
			Warning: "!",
			Info:    "*",
			Hint:    "-",
			Clean:   "+",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

func (t Theme) severityStyle(sev diag.Severity) (string, lipgloss.Style) {
	switch sev {
	case diag.SeverityError:
		return t.Icons.Error, t.Error
	case diag.SeverityWarning:
		return t.Icons.Warning, t.Warning
	case diag.SeverityInformation:
		return t.Icons.Info, t.Info
	default:
		return t.Icons.Hint, t.Hint
	}
}

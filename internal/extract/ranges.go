package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/muraak/cdiag/internal/diag"
)

// LineTable is the validated document's text split into lines. It is
// rebuilt from the current text on every validation pass, never
// cached, so resolved ranges always reflect what the editor holds.
type LineTable struct {
	lines []string
}

// NewLineTable splits document text into lines. CRLF endings are
// normalized so a trailing carriage return never counts toward line
// length.
func NewLineTable(text string) *LineTable {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &LineTable{lines: lines}
}

// LineCount reports the number of lines in the document.
func (t *LineTable) LineCount() int { return len(t.lines) }

// Resolve converts a 1-based reported line number into a document
// range: start at column 0, end at the line's character length. Line
// numbers beyond the document are a failure, not a clamp.
func (t *LineTable) Resolve(line int) (diag.Range, error) {
	if line < 1 || line > len(t.lines) {
		return diag.Range{}, fmt.Errorf("line %d out of range (document has %d lines)", line, len(t.lines))
	}
	length := utf8.RuneCountInString(t.lines[line-1])
	return diag.Range{
		Start: diag.Position{Line: line - 1, Character: 0},
		End:   diag.Position{Line: line - 1, Character: length},
	}, nil
}

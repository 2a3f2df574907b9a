package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muraak/cdiag/internal/config"
)

// Fields holds the structured values pulled out of one diagnostic
// block by the configured record pattern.
type Fields struct {
	File         string
	Line         int // 1-based
	Column       int // 1-based
	SeverityText string
	Raw          string // the full block text
}

// BlockError reports a block the engine could not turn into a record.
// It is an engine-level condition, distinguishable from a compiler
// diagnostic; the pipeline skips the block and keeps going.
type BlockError struct {
	Block  string
	Reason string
}

func (e *BlockError) Error() string {
	summary := e.Block
	if i := strings.IndexByte(summary, '\n'); i >= 0 {
		summary = summary[:i]
	}
	return fmt.Sprintf("%s: %q", e.Reason, summary)
}

// Extractor applies the record pattern to blocks and reads the
// configured capture groups.
type Extractor struct {
	rules *config.Ruleset
}

// NewExtractor builds an extractor for a compiled ruleset. The ruleset
// has already validated that every capture index is in range.
func NewExtractor(rules *config.Ruleset) *Extractor {
	return &Extractor{rules: rules}
}

// Extract matches the record pattern against a block (first match
// only) and reads the file, line, column and severity-text groups.
// A block the pattern does not match, or whose numeric groups do not
// parse, yields a BlockError instead of a Fields value.
func (e *Extractor) Extract(block string) (*Fields, *BlockError) {
	m := e.rules.Record.FindStringSubmatch(block)
	if m == nil {
		return nil, &BlockError{Block: block, Reason: "block does not match diagInfoPattern"}
	}

	idx := e.rules.Parse.Index
	line, err := strconv.Atoi(m[idx.LinePos])
	if err != nil {
		return nil, &BlockError{Block: block, Reason: fmt.Sprintf("line position %q is not a number", m[idx.LinePos])}
	}
	column, err := strconv.Atoi(m[idx.CharPos])
	if err != nil {
		return nil, &BlockError{Block: block, Reason: fmt.Sprintf("character position %q is not a number", m[idx.CharPos])}
	}

	return &Fields{
		File:         m[idx.FileName],
		Line:         line,
		Column:       column,
		SeverityText: m[idx.Severity],
		Raw:          block,
	}, nil
}

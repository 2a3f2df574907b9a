package config

import (
	"fmt"
	"regexp"

	"golang.org/x/text/encoding"

	"github.com/muraak/cdiag/internal/textenc"
)

// Ruleset is a Settings value with its regular expressions compiled
// and its encoding tag resolved. Patterns are compiled once per
// resolution, never ad hoc inside the pipeline; an invalid pattern
// fails closed here instead of surfacing mid-pass.
type Ruleset struct {
	Settings

	Delimiter *regexp.Regexp
	Record    *regexp.Regexp
	Encoding  encoding.Encoding
}

// RulesetError reports a malformed configuration value. It is raised
// at most once per validation pass.
type RulesetError struct {
	Field string
	Err   error
}

func (e *RulesetError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Field, e.Err)
}

func (e *RulesetError) Unwrap() error { return e.Err }

// Compile validates the settings and produces an immutable Ruleset.
//
// Both patterns are compiled in multiline mode so that `^` anchors at
// line starts within a block of output, matching how the patterns are
// written in configuration.
func (s Settings) Compile() (*Ruleset, error) {
	delimiter, err := regexp.Compile("(?m)" + s.DiagDelimiter)
	if err != nil {
		return nil, &RulesetError{Field: "diagDelimiter", Err: err}
	}

	record, err := regexp.Compile("(?m)" + s.Parse.DiagInfoPattern)
	if err != nil {
		return nil, &RulesetError{Field: "parse.diagInfoPattern", Err: err}
	}

	groups := record.NumSubexp()
	for _, idx := range []struct {
		name string
		pos  int
	}{
		{"parse.index.file_name", s.Parse.Index.FileName},
		{"parse.index.line_pos", s.Parse.Index.LinePos},
		{"parse.index.char_pos", s.Parse.Index.CharPos},
		{"parse.index.severity", s.Parse.Index.Severity},
	} {
		if idx.pos < 1 || idx.pos > groups {
			return nil, &RulesetError{
				Field: idx.name,
				Err:   fmt.Errorf("capture group %d out of range (pattern has %d groups)", idx.pos, groups),
			}
		}
	}

	enc, err := textenc.Lookup(s.Parse.Encoding)
	if err != nil {
		return nil, &RulesetError{Field: "parse.encoding", Err: err}
	}

	return &Ruleset{
		Settings:  s,
		Delimiter: delimiter,
		Record:    record,
		Encoding:  enc,
	}, nil
}

package extract

import (
	"strings"
	"testing"

	"github.com/muraak/cdiag/internal/config"
)

func testRuleset(t *testing.T) *config.Ruleset {
	t.Helper()
	rules, err := config.Default().Compile()
	if err != nil {
		t.Fatalf("default settings must compile: %v", err)
	}
	return rules
}

func TestExtract_ReadsConfiguredCaptureGroups(t *testing.T) {
	ex := NewExtractor(testRuleset(t))

	fields, berr := ex.Extract("foo.c:2:5: warning: unused variable 'x'\n")
	if berr != nil {
		t.Fatalf("unexpected block error: %v", berr)
	}
	if fields.File != "foo.c" {
		t.Errorf("file = %q, want foo.c", fields.File)
	}
	if fields.Line != 2 || fields.Column != 5 {
		t.Errorf("position = %d:%d, want 2:5", fields.Line, fields.Column)
	}
	if fields.SeverityText != "warning" {
		t.Errorf("severity text = %q, want warning", fields.SeverityText)
	}
	if !strings.Contains(fields.Raw, "unused variable") {
		t.Errorf("raw block lost its body: %q", fields.Raw)
	}
}

func TestExtract_FirstMatchOnly(t *testing.T) {
	ex := NewExtractor(testRuleset(t))

	block := "foo.c:2:5: warning: shadowed\nfoo.c:9:9: error: later line\n"
	fields, berr := ex.Extract(block)
	if berr != nil {
		t.Fatalf("unexpected block error: %v", berr)
	}
	if fields.Line != 2 {
		t.Errorf("expected the first match to win, got line %d", fields.Line)
	}
}

func TestExtract_NonMatchingBlock_IsReportable(t *testing.T) {
	ex := NewExtractor(testRuleset(t))

	fields, berr := ex.Extract("gcc: fatal error: no input files\ncompilation terminated.\n")
	if fields != nil {
		t.Fatalf("expected no fields for a non-matching block, got %+v", fields)
	}
	if berr == nil {
		t.Fatal("expected a block error, got nil")
	}
	if !strings.Contains(berr.Error(), "diagInfoPattern") {
		t.Errorf("block error should name the pattern, got: %v", berr)
	}
}

func TestExtract_CustomGroupOrder(t *testing.T) {
	// Capture indices are configuration: a pattern may order severity
	// before the file name.
	s := config.Default()
	s.Parse.DiagInfoPattern = `^(\w+) in (.+) at line ([0-9]+), col ([0-9]+)`
	s.Parse.Index = config.CaptureIndexes{FileName: 2, LinePos: 3, CharPos: 4, Severity: 1}
	rules, err := s.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	fields, berr := NewExtractor(rules).Extract("warning in bar.c at line 7, col 3: something\n")
	if berr != nil {
		t.Fatalf("unexpected block error: %v", berr)
	}
	if fields.File != "bar.c" || fields.Line != 7 || fields.Column != 3 || fields.SeverityText != "warning" {
		t.Errorf("unexpected fields: %+v", fields)
	}
}

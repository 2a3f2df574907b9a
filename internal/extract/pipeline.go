package extract

import (
	"path/filepath"
	"strings"

	"github.com/muraak/cdiag/internal/config"
	"github.com/muraak/cdiag/internal/diag"
)

// Pipeline runs one document's extraction pass: split, extract,
// filter, classify, resolve. It holds no mutable state; running it
// twice on identical inputs yields identical record sets.
type Pipeline struct {
	rules   *config.Ruleset
	docBase string
	source  string
}

// NewPipeline builds a pipeline for one validated document. docName
// may be a full path; only its base name participates in filtering.
func NewPipeline(rules *config.Ruleset, docName string) *Pipeline {
	return &Pipeline{
		rules:   rules,
		docBase: filepath.Base(docName),
		source:  filepath.Base(rules.CompileCommand),
	}
}

// Run turns decoded compiler output into the document's replacement
// diagnostic set.
//
// Blocks that fail extraction or whose reported line falls outside the
// document come back as BlockErrors; they never abort the pass.
// Blocks attributed to other files (headers pulled in transitively)
// are discarded silently: that filtering is the engine's job, not an
// error condition.
func (p *Pipeline) Run(docText, compilerOutput string) (diag.Set, []*BlockError) {
	table := NewLineTable(docText)
	extractor := NewExtractor(p.rules)

	var records diag.Set
	var errs []*BlockError

	for _, block := range SplitBlocks(compilerOutput, p.rules.Delimiter) {
		fields, berr := extractor.Extract(block)
		if berr != nil {
			errs = append(errs, berr)
			continue
		}
		if fields.File != p.docBase {
			continue
		}

		rng, err := table.Resolve(fields.Line)
		if err != nil {
			errs = append(errs, &BlockError{Block: block, Reason: err.Error()})
			continue
		}

		records = append(records, diag.Record{
			Range:          rng,
			Severity:       Classify(fields.SeverityText, p.rules.Parse.SeverityIdentifier),
			Message:        strings.TrimRight(fields.Raw, "\r\n"),
			Source:         p.source,
			ReportedColumn: fields.Column,
		})
	}

	return records, errs
}

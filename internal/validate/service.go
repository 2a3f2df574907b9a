// Package validate orchestrates one document's validation pass:
// settings resolution, compiler invocation, output decoding, and
// diagnostic extraction.
package validate

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/muraak/cdiag/internal/config"
	"github.com/muraak/cdiag/internal/diag"
	"github.com/muraak/cdiag/internal/extract"
	"github.com/muraak/cdiag/internal/invoke"
	"github.com/muraak/cdiag/internal/textenc"
)

// Document identifies one validated document and carries its current
// text. Path must be absolute; the compiler runs in its directory.
type Document struct {
	URI  string
	Path string
	Text string
}

// SettingsSource resolves the settings bundle for a document. The LSP
// server pulls these from the editor; the CLI uses a static source.
type SettingsSource interface {
	SettingsFor(ctx context.Context, uri string) (config.Settings, error)
}

// StaticSettings is a SettingsSource that always yields the same
// settings, for CLI use.
func StaticSettings(s config.Settings) SettingsSource {
	return staticSource{s: s}
}

type staticSource struct{ s config.Settings }

func (s staticSource) SettingsFor(context.Context, string) (config.Settings, error) {
	return s.s, nil
}

// Reporter receives engine-level failures: conditions that are not
// compiler diagnostics and must reach the user instead of being
// swallowed. One document's failure never affects another.
type Reporter interface {
	ReportEngineError(uri string, err error)
}

// Options configures a Service.
type Options struct {
	Source        SettingsSource
	Runner        invoke.Runner
	Reporter      Reporter
	WorkspaceRoot string
}

// Service runs validation passes. It owns the per-document settings
// cache and supersedes an in-flight pass when a new one is triggered
// for the same document, so results apply in trigger order.
type Service struct {
	source   SettingsSource
	runner   invoke.Runner
	reporter Reporter
	root     string

	mu       sync.Mutex
	rulesets map[string]*config.Ruleset
	inflight map[string]*run
}

type run struct {
	cancel context.CancelFunc
}

// NewService builds a validation service. A nil Runner gets the
// exec-backed default; a nil Reporter discards engine errors.
func NewService(opts Options) *Service {
	runner := opts.Runner
	if runner == nil {
		runner = invoke.NewRunner()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = discardReporter{}
	}
	return &Service{
		source:   opts.Source,
		runner:   runner,
		reporter: reporter,
		root:     opts.WorkspaceRoot,
		rulesets: make(map[string]*config.Ruleset),
		inflight: make(map[string]*run),
	}
}

type discardReporter struct{}

func (discardReporter) ReportEngineError(string, error) {}

// Validate runs one full pass for doc and returns its replacement
// diagnostic set.
//
// An invocation failure returns an empty (non-nil) set so the caller
// still replaces any stale diagnostics, and additionally surfaces an
// engine error: an empty set alone would be indistinguishable from a
// clean compile. Configuration and decoding failures return an error;
// no set should be published for that pass. A pass superseded by a
// newer trigger for the same document returns context.Canceled.
func (s *Service) Validate(ctx context.Context, doc Document) (diag.Set, error) {
	rules, err := s.rulesetFor(ctx, doc.URI)
	if err != nil {
		s.reporter.ReportEngineError(doc.URI, err)
		return nil, err
	}

	runCtx, done := s.begin(ctx, doc.URI)
	defer done()

	s.mu.Lock()
	root := s.root
	s.mu.Unlock()

	args := invoke.BuildArgs(rules.Settings, doc.Path, root)
	res, runErr := s.runner.Run(runCtx, filepath.Dir(doc.Path), rules.CompileCommand, args)
	if err := runCtx.Err(); err != nil {
		return nil, err
	}
	if runErr != nil {
		s.reporter.ReportEngineError(doc.URI, fmt.Errorf("compiler invocation failed: %w", runErr))
		return diag.Set{}, nil
	}

	text, err := textenc.Decode(res.Stderr, rules.Encoding)
	if err != nil {
		s.reporter.ReportEngineError(doc.URI, err)
		return nil, err
	}

	records, blockErrs := extract.NewPipeline(rules, doc.Path).Run(doc.Text, text)
	if len(blockErrs) > 0 {
		s.reporter.ReportEngineError(doc.URI, summarizeBlockErrors(blockErrs))
	}

	return records.Truncate(rules.MaxNumberOfProblems), nil
}

// rulesetFor returns the cached compiled ruleset for a document,
// resolving and compiling it on first use.
func (s *Service) rulesetFor(ctx context.Context, uri string) (*config.Ruleset, error) {
	s.mu.Lock()
	if rules, ok := s.rulesets[uri]; ok {
		s.mu.Unlock()
		return rules, nil
	}
	s.mu.Unlock()

	settings, err := s.source.SettingsFor(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}
	rules, err := settings.Compile()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.rulesets[uri] = rules
	s.mu.Unlock()
	return rules, nil
}

// begin registers a pass for uri, cancelling any pass already in
// flight for the same document (last trigger wins).
func (s *Service) begin(ctx context.Context, uri string) (context.Context, func()) {
	runCtx, cancel := context.WithCancel(ctx)
	r := &run{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.inflight[uri]; ok {
		prev.cancel()
	}
	s.inflight[uri] = r
	s.mu.Unlock()

	return runCtx, func() {
		s.mu.Lock()
		if s.inflight[uri] == r {
			delete(s.inflight, uri)
		}
		s.mu.Unlock()
		cancel()
	}
}

// SetWorkspaceRoot records the root that relative include paths
// resolve against. The LSP server learns it at initialize time.
func (s *Service) SetWorkspaceRoot(root string) {
	s.mu.Lock()
	s.root = root
	s.mu.Unlock()
}

// Forget drops the cached settings for a closed document.
func (s *Service) Forget(uri string) {
	s.mu.Lock()
	delete(s.rulesets, uri)
	s.mu.Unlock()
}

// InvalidateSettings clears the whole settings cache. Called on any
// configuration-change notification; the next pass per document
// re-resolves from the source.
func (s *Service) InvalidateSettings() {
	s.mu.Lock()
	s.rulesets = make(map[string]*config.Ruleset)
	s.mu.Unlock()
}

func summarizeBlockErrors(errs []*extract.BlockError) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return fmt.Errorf("%d output blocks could not be parsed; first: %v", len(errs), errs[0])
}

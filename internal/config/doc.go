// Package config models the settings bundle that drives one validation
// pass: the compiler invocation, the output-parsing rules, and the
// diagnostic cap.
//
// # Configuration Precedence
//
// Settings are resolved in the following order (highest to lowest
// priority):
//
//  1. CLI flags (--compiler, --config)
//  2. Environment variables (CDIAG_COMPILE_COMMAND, CDIAG_ENCODING)
//  3. YAML config file (.cdiag.yaml in local directory or
//     ~/.config/cdiag/.cdiag.yaml)
//  4. Hardcoded gcc defaults
//
// When cdiag runs as a language server, per-document settings pulled
// from the editor replace layers 1-3 entirely; the editor is then the
// single source of truth.
//
// # Compiled Rulesets
//
// Raw Settings carry the delimiter and record patterns as strings.
// Settings.Compile validates them once and produces a Ruleset with
// compiled regular expressions and a resolved decoder. A malformed
// pattern, an out-of-range capture index, or an unknown encoding tag
// fails closed at compile time and is reported once per validation
// pass, never per block.
package config

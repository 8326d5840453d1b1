// Package driver implements the §4.8 core driver: the single entry point
// external builders call to turn a set of already-tokenized files into a
// fully analyzed Module (HIR functions, layouts, constants, borrow facts)
// plus an aggregated diagnostics list.
//
// Grounded on the teacher's internal/driver package: diagnose.go's stage
// sequencing ("run header parse, then depsort, then semantic analysis,
// stopping dependent stages once a prior stage has errors") and
// parallel_diagnose.go's errgroup fan-out over independent files, adapted
// from the teacher's per-module build pipeline to this core's single-module
// ModuleInput/Module contract (§6).
package driver

import (
	"beanstalk/internal/ast"
	"beanstalk/internal/borrow"
	"beanstalk/internal/corediag"
	"beanstalk/internal/diag"
	"beanstalk/internal/hir"
	"beanstalk/internal/token"
)

// BuildMode selects the debug/release flag named in §6.
type BuildMode uint8

const (
	ModeDebug BuildMode = iota
	ModeRelease
)

// Config is the orchestrator-supplied string map from §6 ("unknown keys
// ignored"). Recognized keys:
//   - "gc_fallback": "true"/"false" — overrides the build mode's default
//     borrow.Policy.GCFallbackAvailable (§4.7.7).
type Config map[string]string

// Bool reads a boolean-valued key, returning def if the key is absent or
// unparseable (§6: "unknown keys ignored" extends to malformed values).
func (c Config) Bool(key string, def bool) bool {
	v, ok := c[key]
	if !ok {
		return def
	}
	switch v {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return def
	}
}

// FileInput is one file of a ModuleInput: its path and already-tokenized
// contents (§2: tokenizer internals are out of scope; the core only
// consumes a token stream).
type FileInput struct {
	Path    string
	Tokens  *token.Stream
	IsEntry bool
}

// ModuleInput is the core's sole entry-point input (§6).
type ModuleInput struct {
	Files []FileInput
	Config Config
	Mode   BuildMode

	// HostFunctions names the host-function registry the orchestrator
	// supplies (§6: "at least one primitive, io, must be declared"). If
	// nil, the default registry (io only) is used.
	HostFunctions map[string]bool
}

// Module is the core's output record (§6): `{hir_functions, struct_layouts,
// choice_layouts, constants, template_functions, borrow_facts,
// diagnostics}`.
type Module struct {
	HirFunctions      []*hir.Function
	TemplateFunctions []*hir.Function
	Main              *hir.Function

	StructLayouts []ast.StructDecl
	ChoiceLayouts []ast.ChoiceDecl
	Constants     []ast.ConstantDecl

	BorrowFacts borrow.Facts

	// Diagnostics aggregates every stage's reports, sorted per §8's
	// idempotence requirement ("stable ordering").
	Diagnostics []diag.Diagnostic

	// Timings records how long each pipeline stage took, for the
	// orchestrator to surface alongside diagnostics. Not part of the §6
	// Module contract itself; an ambient addition the core driver is free
	// to carry since it costs callers nothing to ignore.
	Timings corediag.Report
}

// HasErrors reports whether m.Diagnostics contains any error-or-above
// severity entry.
func (m *Module) HasErrors() bool {
	for _, d := range m.Diagnostics {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

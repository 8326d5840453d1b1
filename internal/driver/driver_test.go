package driver

import (
	"testing"

	"beanstalk/internal/source"
	"beanstalk/internal/token"
)

// TestEmptyModuleCompilesCleanly covers the §8 boundary behavior: a module
// of only the entry file, with an empty body, compiles to a Main with an
// empty body and no diagnostics.
func TestEmptyModuleCompilesCleanly(t *testing.T) {
	input := ModuleInput{
		Files: []FileInput{{
			Path:    "main.bs",
			Tokens:  &token.Stream{File: source.FileID(1)},
			IsEntry: true,
		}},
		Mode: ModeDebug,
	}

	mod := Build(input)

	if mod.HasErrors() {
		t.Fatalf("expected no diagnostics, got %+v", mod.Diagnostics)
	}
	if mod.Main == nil {
		t.Fatalf("expected a synthesized empty Main function")
	}
	if len(mod.Main.Blocks) == 0 {
		t.Fatalf("expected Main to have at least an entry block")
	}
	if len(mod.Timings.Stages) != 5 {
		t.Fatalf("expected all 5 pipeline stages timed, got %+v", mod.Timings)
	}
}

// TestImportCycleStopsAtDepsort: a two-file cycle must produce exactly one
// File-kind diagnostic and skip AST/HIR/borrow entirely (§8 boundary,
// §7 dependent-stage gating).
func TestImportCycleStopsAtDepsort(t *testing.T) {
	fileA := &token.Stream{File: source.FileID(1), Tokens: []token.Token{
		{Kind: token.KwImport, Text: "import"},
		{Kind: token.Ident, Text: "b"},
	}}
	fileB := &token.Stream{File: source.FileID(2), Tokens: []token.Token{
		{Kind: token.KwImport, Text: "import"},
		{Kind: token.Ident, Text: "a"},
	}}

	input := ModuleInput{
		Files: []FileInput{
			{Path: "a", Tokens: fileA, IsEntry: true},
			{Path: "b", Tokens: fileB},
		},
		Mode: ModeDebug,
	}

	mod := Build(input)

	if !mod.HasErrors() {
		t.Fatalf("expected a cycle diagnostic")
	}
	if mod.Main != nil || len(mod.HirFunctions) != 0 {
		t.Fatalf("expected AST/HIR stages to be skipped on a cycle, got %+v", mod)
	}
	if len(mod.Timings.Stages) != 2 {
		t.Fatalf("expected only header_parse and dep_sort timed on a cycle, got %+v", mod.Timings)
	}
}

package diag

import (
	"testing"

	"beanstalk/internal/source"
)

func TestBagSortOrder(t *testing.T) {
	b := NewBag()
	b.Add(Syntax(SynMalformedHeader, source.Span{File: 1, Start: 10, End: 12}, "b"))
	b.Add(Rule(RuleUnresolvedSymbol, source.Span{File: 1, Start: 1, End: 2}, "a"))
	b.Add(Compiler("bug"))
	b.Sort()
	items := b.Items()
	if items[0].Primary.File != 0 {
		t.Fatalf("expected zero-span compiler bug to sort first, got %+v", items[0])
	}
	if items[1].Primary.Start != 1 {
		t.Fatalf("expected earliest-start diagnostic second, got %+v", items[1])
	}
}

func TestDiagnosticDisplayMessagePrefixesCompilerBug(t *testing.T) {
	d := Compiler("unreachable state")
	if got := d.DisplayMessage(); got != "COMPILER BUG: unreachable state" {
		t.Fatalf("DisplayMessage() = %q", got)
	}
	d2 := Rule(RuleUnresolvedSymbol, source.Span{}, "oops")
	if got := d2.DisplayMessage(); got != "oops" {
		t.Fatalf("DisplayMessage() = %q, want unprefixed", got)
	}
}

func TestSoftenOnlyAppliesToBorrowChecker(t *testing.T) {
	bc := BorrowChecker(BorrowConflictSharedMut, source.Span{}, "conflict")
	soft := bc.Soften()
	if soft.Severity != SevWarning {
		t.Fatalf("expected Soften to downgrade severity")
	}
	if soft.Meta["gc_managed"] != "true" {
		t.Fatalf("expected gc_managed metadata")
	}
	rule := Rule(RuleUnresolvedSymbol, source.Span{}, "x")
	if rule.Soften().Severity != SevError {
		t.Fatalf("Soften should be a no-op for non-borrow diagnostics")
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag()
	if b.HasErrors() {
		t.Fatalf("empty bag should have no errors")
	}
	b.Add(Diagnostic{Severity: SevWarning})
	if b.HasErrors() {
		t.Fatalf("warning-only bag should have no errors")
	}
	b.Add(Diagnostic{Severity: SevError})
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors true after adding an error")
	}
}

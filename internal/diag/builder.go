package diag

import "beanstalk/internal/source"

// Helper constructors for each Kind (§4.1: "Helper constructors exist for
// each kind; callers may attach structured metadata").

func Syntax(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Kind: KindSyntax, Severity: SevError, Code: code, Primary: primary, Message: msg}
}

func Rule(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Kind: KindRule, Severity: SevError, Code: code, Primary: primary, Message: msg}
}

func Type(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Kind: KindType, Severity: SevError, Code: code, Primary: primary, Message: msg}
}

func File(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Kind: KindFile, Severity: SevError, Code: code, Primary: primary, Message: msg}
}

func Config(code Code, msg string) Diagnostic {
	return Diagnostic{Kind: KindConfig, Severity: SevWarning, Code: code, Message: msg}
}

func HirTransformation(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Kind: KindHirTransformation, Severity: SevError, Code: code, Primary: primary, Message: msg}
}

// BorrowChecker builds a borrow-checker diagnostic. Soft violations (policy
// downgrade) should call .Soften() afterward rather than passing a
// different severity here, so the "hard errors never downgrade" invariant
// (§4.7.7, SPEC_FULL Open Question 3) stays centralized in one place.
func BorrowChecker(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Kind: KindBorrowChecker, Severity: SevError, Code: code, Primary: primary, Message: msg}
}

// Compiler builds an internal-bug diagnostic; no SourceLocation is required.
func Compiler(msg string) Diagnostic {
	return Diagnostic{Kind: KindCompiler, Severity: SevError, Code: CompilerInternalInvariant, Message: msg}
}

// Soften downgrades a borrow-checker error to a warning, for violations the
// orchestrator's policy flag classifies as optimization-only (§4.7.7). It is
// a no-op (returns d unchanged) for anything other than KindBorrowChecker,
// so callers cannot accidentally soften a hard user-facing error kind.
func (d Diagnostic) Soften() Diagnostic {
	if d.Kind != KindBorrowChecker {
		return d
	}
	d.Severity = SevWarning
	return d.WithMeta("gc_managed", "true")
}

package diag

import "beanstalk/internal/source"

// Note attaches auxiliary context (a secondary span + message) to a
// diagnostic, e.g. pointing at the conflicting loan's origin statement.
type Note struct {
	Span source.Span
	Msg  string
}

// Metadata carries structured, stage-specific facts about a diagnostic
// (compilation_stage, primary_suggestion, conflict_loan_id, ...) without
// forcing every Kind to agree on a fixed struct shape.
type Metadata map[string]string

// Diagnostic is the unified error/warning record (§4.1). Every user-facing
// diagnostic carries a SourceLocation (Primary); Compiler-kind diagnostics
// may leave Primary zero.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Meta     Metadata
}

// IsInternalBug reports whether this diagnostic represents a compiler bug
// rather than a user mistake.
func (d Diagnostic) IsInternalBug() bool { return d.Kind == KindCompiler }

// WithMeta returns d with key=value recorded in its metadata map.
func (d Diagnostic) WithMeta(key, value string) Diagnostic {
	if d.Meta == nil {
		d.Meta = make(Metadata, 1)
	}
	d.Meta[key] = value
	return d
}

// WithNote appends a secondary span/message to the diagnostic.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// DisplayMessage renders the final message text, auto-prefixing internal
// bugs the way §7 mandates: "Internal-bug errors... are automatically
// prefixed 'COMPILER BUG'".
func (d Diagnostic) DisplayMessage() string {
	if d.IsInternalBug() {
		return "COMPILER BUG: " + d.Message
	}
	return d.Message
}

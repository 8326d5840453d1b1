package symbols

import (
	"beanstalk/internal/source"
	"beanstalk/internal/types"
)

// SymbolFlags records misc declaration attributes needed by later stages.
type SymbolFlags uint8

const (
	// FlagMutableBind marks a binding introduced with `~=` rather than `=`
	// (§4.4: "`~=` introduces a mutable bind; plain `=` binds immutably").
	FlagMutableBind SymbolFlags = 1 << iota
	// FlagReserved marks the compiler-reserved `Main` binding seeded into
	// the entry file's module scope (see SPEC_FULL.md supplemented feature
	// #4).
	FlagReserved
)

// Symbol is a declared name: its kind, type (once known), declaring scope,
// and source span for diagnostics.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	Type  types.TypeID
}

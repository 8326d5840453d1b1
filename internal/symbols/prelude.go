package symbols

import "beanstalk/internal/source"

// SeedEntryPrelude reserves the entry file's `Main` binding before any user
// declarations are processed (SPEC_FULL.md supplemented feature #4). Within
// the symbol table the reservation is a prelude seed rather than a
// special-cased name check in Declare, so ordinary duplicate-declaration
// handling rejects any later declaration of `Main` in that scope. An
// explicit `fn Main` in the entry file never gets that far: the header
// parser already rejects it.
//
// Grounded on the teacher's prelude-seeding shape in
// internal/symbols/resolve_intrinsics.go, which pre-declares builtin names
// into the module scope before the file's own declarations are walked.
func SeedEntryPrelude(r *Resolver, moduleScope ScopeID, mainName source.StringID, span source.Span) {
	if !moduleScope.IsValid() {
		return
	}
	scope := r.table.Scopes.Get(moduleScope)
	if scope == nil {
		return
	}
	id := r.table.Symbols.New(Symbol{
		Name:  mainName,
		Kind:  SymbolStartFunction,
		Scope: moduleScope,
		Span:  span,
		Flags: FlagReserved,
	})
	scope.Symbols = append(scope.Symbols, id)
	if scope.NameIndex == nil {
		scope.NameIndex = make(map[source.StringID][]SymbolID)
	}
	scope.NameIndex[mainName] = append(scope.NameIndex[mainName], id)
}

// Package symbols implements scoped name resolution: a slice-based scope
// and symbol arena, lexical scope push/pop, shadow-aware declaration, and
// innermost-first lookup (§3, §4.3).
//
// Grounded on the teacher's internal/symbols/arena.go (slice arenas with a
// reserved zero index), ids.go (ID sentinel pattern), scope.go (Scope with
// a per-scope NameIndex), and resolver.go (Enter/Leave/Declare/Lookup). We
// drop the teacher's generics/contracts/export machinery (SymbolKind values
// for module/import/contract/tag, TypeParamSymbol, ModuleExports) since
// those back language features spec.md does not include; the arena and
// scope-chain shape carries over unchanged.
package symbols

// ScopeID identifies a scope in the arena.
type ScopeID uint32

// NoScopeID marks the absence of a scope.
const NoScopeID ScopeID = 0

// IsValid reports whether id refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol in the arena.
type SymbolID uint32

// NoSymbolID marks the absence of a symbol.
const NoSymbolID SymbolID = 0

// IsValid reports whether id refers to a declared symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

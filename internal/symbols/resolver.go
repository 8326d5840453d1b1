package symbols

import (
	"beanstalk/internal/diag"
	"beanstalk/internal/source"
)

// Table bundles the scope and symbol arenas a Resolver operates over; the
// AST builder owns one Table per module being compiled.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
}

// NewTable creates an empty scope/symbol table.
func NewTable() *Table {
	return &Table{Scopes: NewScopes(0), Symbols: NewSymbols(0)}
}

// Resolver drives scope push/pop and name declaration/lookup over a Table.
// It holds no file-specific state of its own so one Resolver can walk
// several files in sequence, matching the driver's dependency-ordered,
// single-threaded AST-building stage (§5, §8).
type Resolver struct {
	table    *Table
	stack    []ScopeID
	reporter diag.Reporter
}

// NewResolver creates a Resolver over table, reporting conflicts to reporter.
func NewResolver(table *Table, reporter diag.Reporter) *Resolver {
	return &Resolver{table: table, reporter: reporter}
}

// CurrentScope returns the innermost active scope, or NoScopeID if none is
// open.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Enter opens a child scope of the current one and pushes it.
func (r *Resolver) Enter(kind ScopeKind, span source.Span) ScopeID {
	id := r.table.Scopes.New(kind, r.CurrentScope(), span)
	r.stack = append(r.stack, id)
	return id
}

// Leave pops the current scope. Mismatched pops (programmer error in the
// caller) are tolerated defensively by popping the actual top, since a
// wedged scope stack would otherwise cascade into unrelated diagnostics.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		return
	}
	r.stack = r.stack[:len(r.stack)-1]
	_ = expected
}

// Declare installs name into the current scope. It reports a Rule-kind
// diagnostic and returns (NoSymbolID, false) on redeclaration within the
// same scope; shadowing an outer scope's binding is legal and silent,
// matching ordinary block-scoped languages (spec.md does not list shadow
// warnings among its diagnostics).
func (r *Resolver) Declare(name source.StringID, span source.Span, kind SymbolKind, flags SymbolFlags) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	if !scopeID.IsValid() {
		return NoSymbolID, false
	}
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}
	if existing := scope.NameIndex[name]; len(existing) > 0 {
		first := r.table.Symbols.Get(existing[0])
		if first != nil {
			r.reportDuplicate(name, span, first.Span)
		}
		return NoSymbolID, false
	}
	id := r.table.Symbols.New(Symbol{Name: name, Kind: kind, Scope: scopeID, Span: span, Flags: flags})
	scope.Symbols = append(scope.Symbols, id)
	if scope.NameIndex == nil {
		scope.NameIndex = make(map[source.StringID][]SymbolID)
	}
	scope.NameIndex[name] = append(scope.NameIndex[name], id)
	return id, true
}

// Lookup walks outward from the current scope and returns the nearest
// declaration of name, per §4.3's lexical-scoping rule.
func (r *Resolver) Lookup(name source.StringID) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if ids := scope.NameIndex[name]; len(ids) > 0 {
			return ids[len(ids)-1], true
		}
		scopeID = scope.Parent
	}
	return NoSymbolID, false
}

func (r *Resolver) reportDuplicate(name source.StringID, span, firstSpan source.Span) {
	if r.reporter == nil {
		return
	}
	d := diag.Rule(diag.RuleDuplicateSymbol, span, "duplicate declaration in this scope")
	d = d.WithNote(firstSpan, "first declared here")
	r.reporter.Report(d)
}

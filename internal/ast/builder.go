package ast

import (
	"sort"

	"beanstalk/internal/diag"
	"beanstalk/internal/header"
	"beanstalk/internal/place"
	"beanstalk/internal/source"
	"beanstalk/internal/symbols"
	"beanstalk/internal/types"
)

// Builder walks headers in dependency order and produces a Module. One
// Builder is used per compilation unit (§5: no cross-unit sharing).
type Builder struct {
	Strings  *source.Interner
	Types    *types.Interner
	Places   *place.Interner
	Table    *symbols.Table
	Resolver *symbols.Resolver
	Reporter diag.Reporter

	moduleScope symbols.ScopeID

	structTypes map[string]types.TypeID
	choiceTypes map[string]types.TypeID
	structDecls map[string]*StructDecl
	choiceDecls map[string]*ChoiceDecl

	templates map[string]*templateDecl
	constants map[string]*ConstantDecl

	pendingStructHeaders map[string]header.Header
	pendingChoiceHeaders map[string]header.Header

	// constantHeaders parallels the order ConstantDecl placeholders were
	// appended to mod.Constants in declareConstant; phase 2 builds each
	// initializer and writes the result back into the same slot.
	constantHeaders []header.Header

	// funcsBySym / headerBySym / symIndex are parallel slices recording
	// every Function stub registered in phase 1 (functions, start
	// functions, Main) alongside the header it came from, so phase 2 can
	// build each body in turn. Template functions are not registered here;
	// they are synthesized on demand by getOrBuildTemplateFn.
	funcsBySym []*Function
	headerBySym []header.Header
	symIndex    []symbols.SymbolID

	// HostFunctions names the host-function registry the orchestrator
	// promises to supply (§8: "at least one primitive, io, must be
	// declared"). A call to a name found here, but not declared as a
	// module-level function/template, builds an ExprCall with
	// IsHostCall set rather than a RuleUnresolvedSymbol diagnostic.
	HostFunctions map[string]bool

	globalRoots map[symbols.SymbolID]place.Root
	globalSeq   uint32

	// templateFnSeq gives synthesized template functions a stable,
	// deterministic name (§9: "keep the synthesis deterministic").
	templateFnSeq uint32

	mod *Module
}

// NewBuilder creates an empty Builder over fresh interners and tables.
func NewBuilder(reporter diag.Reporter) *Builder {
	table := symbols.NewTable()
	b := &Builder{
		Strings:     source.NewInterner(),
		Types:       types.NewInterner(),
		Places:      place.NewInterner(),
		Table:       table,
		Reporter:    reporter,
		structTypes: make(map[string]types.TypeID),
		choiceTypes: make(map[string]types.TypeID),
		structDecls: make(map[string]*StructDecl),
		choiceDecls: make(map[string]*ChoiceDecl),
		templates:   make(map[string]*templateDecl),
		constants:   make(map[string]*ConstantDecl),

		pendingStructHeaders: make(map[string]header.Header),
		pendingChoiceHeaders: make(map[string]header.Header),

		globalRoots:   make(map[symbols.SymbolID]place.Root),
		HostFunctions: map[string]bool{"io": true},
		mod:           &Module{},
	}
	b.Resolver = symbols.NewResolver(table, reporter)
	return b
}

func (b *Builder) report(d diag.Diagnostic) {
	if b.Reporter != nil {
		b.Reporter.Report(d)
	}
}

// Build consumes every file's headers, already topologically ordered by
// package depsort, and returns the assembled Module (§4.5). It always
// returns the best-effort Module built so far, even when diagnostics were
// reported, matching the driver's partial-analysis contract (§4.8).
func (b *Builder) Build(files []header.FileHeaders) *Module {
	b.moduleScope = b.Resolver.Enter(symbols.ScopeModule, source.Span{})

	for _, fh := range files {
		if fh.IsEntry {
			mainName := b.Strings.Intern(header.ReservedMainName)
			symbols.SeedEntryPrelude(b.Resolver, b.moduleScope, mainName, source.Span{File: fh.File})
		}
	}

	// Phase 1: declare every module-level name so forward references
	// across functions (and across files, within dependency order) resolve.
	for _, fh := range files {
		for _, h := range fh.Headers {
			b.declareHeader(h, fh)
		}
	}
	// Struct/choice field types may reference other structs/choices
	// declared later in the same pass; resolve field lists only after every
	// struct/choice name is registered. Iterate names in sorted order so
	// diagnostics come out in a stable order independent of map iteration.
	for _, name := range sortedKeysStruct(b.pendingStructHeaders) {
		b.resolveStructFields(name, b.pendingStructHeaders[name])
	}
	for _, name := range sortedKeysChoice(b.pendingChoiceHeaders) {
		b.resolveChoiceFields(name, b.pendingChoiceHeaders[name])
	}

	// Phase 2: build bodies, in the order signatures were registered (which
	// itself follows the dependency-sorted file order handed to Build).
	for i, fn := range b.funcsBySym {
		b.buildFunctionBody(fn, b.headerBySym[i])
	}
	for i, h := range b.constantHeaders {
		b.buildConstantBody(i, h)
	}
	for _, sd := range b.structDecls {
		b.mod.Structs = append(b.mod.Structs, *sd)
	}
	for _, cd := range b.choiceDecls {
		b.mod.Choices = append(b.mod.Choices, *cd)
	}
	sort.Slice(b.mod.Structs, func(i, j int) bool { return b.mod.Structs[i].Name < b.mod.Structs[j].Name })
	sort.Slice(b.mod.Choices, func(i, j int) bool { return b.mod.Choices[i].Name < b.mod.Choices[j].Name })

	return b.mod
}

func sortedKeysStruct(m map[string]header.Header) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysChoice(m map[string]header.Header) []string {
	return sortedKeysStruct(m)
}

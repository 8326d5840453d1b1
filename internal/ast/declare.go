package ast

import (
	"fmt"

	"beanstalk/internal/diag"
	"beanstalk/internal/header"
	"beanstalk/internal/place"
	"beanstalk/internal/symbols"
	"beanstalk/internal/types"
)

// templateDecl is a registered template declaration: its resolved
// parameter signature plus the lazily-parsed interpolation parts (§4.5:
// "Template parsing happens here [the AST builder] and nowhere later").
type templateDecl struct {
	name   string
	sym    symbols.SymbolID
	span   header.Header
	params []Param
	parts  []templatePart

	// fn memoizes the synthesized template function once this template's
	// first non-constant-folding use site needs it (§9: deterministic
	// synthesis, shared across repeated call sites).
	fn *Function
}

func (b *Builder) declareHeader(h header.Header, fh header.FileHeaders) {
	switch h.Kind {
	case header.KindStruct:
		b.declareStruct(h)
	case header.KindChoice:
		b.declareChoice(h)
	case header.KindConstant:
		b.declareConstant(h)
	case header.KindFunction:
		b.declareFunction(h, symbols.SymbolFunction, h.Name)
	case header.KindTemplate:
		b.declareTemplate(h)
	case header.KindStartFunction:
		// Each non-entry file's implicit start code is callable (§3) but
		// distinct per file; mangle the internal name to avoid spurious
		// cross-file collisions on the literal placeholder "<start>".
		mangled := fmt.Sprintf("<start>#%d", h.File)
		b.declareFunction(h, symbols.SymbolStartFunction, mangled)
	case header.KindMain:
		b.declareMain(h)
	}
}

func (b *Builder) declareStruct(h header.Header) {
	if _, exists := b.structTypes[h.Name]; exists {
		b.report(diag.Syntax(diag.SynDuplicateDecl, h.Span, fmt.Sprintf("struct %q already declared", h.Name)))
		return
	}
	typeID := b.Types.Intern(types.Type{Kind: types.KindStruct, Name: h.Name})
	b.structTypes[h.Name] = typeID
	b.structDecls[h.Name] = &StructDecl{Name: h.Name, Type: typeID, Span: h.Span}
	b.pendingStructHeaders[h.Name] = h
	sym, ok := b.Resolver.Declare(b.Strings.Intern(h.Name), h.Span, symbols.SymbolStruct, 0)
	if ok {
		b.Table.Symbols.Get(sym).Type = typeID
	}
}

func (b *Builder) declareChoice(h header.Header) {
	if _, exists := b.choiceTypes[h.Name]; exists {
		b.report(diag.Syntax(diag.SynDuplicateDecl, h.Span, fmt.Sprintf("choice %q already declared", h.Name)))
		return
	}
	typeID := b.Types.Intern(types.Type{Kind: types.KindChoice, Name: h.Name})
	b.choiceTypes[h.Name] = typeID
	b.choiceDecls[h.Name] = &ChoiceDecl{Name: h.Name, Type: typeID, Span: h.Span}
	b.pendingChoiceHeaders[h.Name] = h
	sym, ok := b.Resolver.Declare(b.Strings.Intern(h.Name), h.Span, symbols.SymbolChoice, 0)
	if ok {
		b.Table.Symbols.Get(sym).Type = typeID
	}
}

func (b *Builder) declareConstant(h header.Header) {
	sym, ok := b.Resolver.Declare(b.Strings.Intern(h.Name), h.Span, symbols.SymbolConstant, 0)
	if !ok {
		return
	}
	root := place.Root{Kind: place.RootGlobal, ID: b.globalSeq}
	b.globalSeq++
	b.globalRoots[sym] = root
	typ := types.NoTypeID
	if len(h.Result) > 0 {
		typ = b.resolveTypeExpr(h.Result)
	}
	decl := &ConstantDecl{Name: h.Name, Sym: sym, Type: typ, Span: h.Span}
	b.constants[h.Name] = decl
	b.mod.Constants = append(b.mod.Constants, ConstantDecl{}) // placeholder position; filled in phase 2
	b.constantHeaders = append(b.constantHeaders, h)
}

func (b *Builder) declareFunction(h header.Header, kind symbols.SymbolKind, name string) {
	sym, ok := b.Resolver.Declare(b.Strings.Intern(name), h.Span, kind, 0)
	if !ok {
		return
	}
	b.registerFunctionSignature(h, sym, name, false)
}

func (b *Builder) declareMain(h header.Header) {
	mainNameID := b.Strings.Intern(header.ReservedMainName)
	sym, ok := b.Resolver.Lookup(mainNameID)
	if !ok {
		// Defensive: SeedEntryPrelude should already have declared it.
		sym, ok = b.Resolver.Declare(mainNameID, h.Span, symbols.SymbolStartFunction, symbols.FlagReserved)
		if !ok {
			return
		}
	}
	if s := b.Table.Symbols.Get(sym); s != nil {
		s.Span = h.Span
	}
	b.registerFunctionSignature(h, sym, header.ReservedMainName, true)
}

func (b *Builder) declareTemplate(h header.Header) {
	sym, ok := b.Resolver.Declare(b.Strings.Intern(h.Name), h.Span, symbols.SymbolTemplate, 0)
	if !ok {
		return
	}
	params := b.resolveParams(h.Params)
	parts := parseTemplateBody(h.Body)
	b.templates[h.Name] = &templateDecl{name: h.Name, sym: sym, span: h, params: params, parts: parts}
}

// resolveParams resolves a header.Param list's type windows. Place roots
// are assigned later, once the owning function's body is actually built
// (params are numbered per-function, not per-module).
func (b *Builder) resolveParams(hparams []header.Param) []Param {
	out := make([]Param, 0, len(hparams))
	for _, hp := range hparams {
		mutable := false
		typ := types.NoTypeID
		if len(hp.TypeTk) > 0 {
			typ = b.resolveTypeExpr(hp.TypeTk)
		}
		out = append(out, Param{Name: hp.Name, Type: typ, Mutable: mutable, Span: hp.Span})
	}
	return out
}

func (b *Builder) registerFunctionSignature(h header.Header, sym symbols.SymbolID, name string, isMain bool) {
	params := b.resolveParams(h.Params)
	result := types.NoTypeID
	returnsRef := false
	if len(h.Result) > 0 {
		result = b.resolveTypeExpr(h.Result)
		if t, ok := b.Types.Lookup(result); ok && t.Kind == types.KindReference {
			returnsRef = true
			result = t.RefTo
		}
	}
	fn := &Function{
		Name:       name,
		Sym:        sym,
		Span:       h.Span,
		Params:     params,
		Result:     result,
		ReturnsRef: returnsRef,
		// ReturnParamIdx is resolved against the actual return statement
		// when the body is built (§4.5 return-reference rule); -1 until a
		// matching `return <param>` is seen.
		ReturnParamIdx: -1,
	}
	if t := b.Table.Symbols.Get(sym); t != nil {
		t.Type = result
	}
	b.funcsBySym = append(b.funcsBySym, fn)
	b.headerBySym = append(b.headerBySym, h)
	b.symIndex = append(b.symIndex, sym)
	if isMain {
		b.mod.Main = fn
	} else {
		b.mod.Functions = append(b.mod.Functions, fn)
	}
}

package ast

import (
	"fmt"

	"beanstalk/internal/diag"
	"beanstalk/internal/header"
	"beanstalk/internal/place"
	"beanstalk/internal/rpn"
	"beanstalk/internal/source"
	"beanstalk/internal/symbols"
	"beanstalk/internal/token"
	"beanstalk/internal/types"
)

// placeInfo is what a bodyCtx needs to know about a name bound to a Place:
// its root (so projections can be built) and declared type.
type placeInfo struct {
	root    place.Root
	typ     types.TypeID
	mutable bool
}

// bodyCtx walks one function/template/constant-initializer body's token
// window, building Stmt/Expr trees and resolving names against the scope
// currently open on b.Resolver.
type bodyCtx struct {
	b   *Builder
	fn  *Function // nil while building a constant initializer
	toks []token.Token
	pos int

	localSeq uint32
	placeOf  map[symbols.SymbolID]placeInfo

	// substMap, when non-nil, resolves bare identifiers directly to a
	// pre-built Expr instead of the symbol table — used only while
	// attempting to constant-fold a template use site against its actual
	// call-site arguments (§4.5).
	substMap map[string]Expr

	loopDepth int
}

func diagMalformedTemplate(span source.Span) diag.Diagnostic {
	return diag.Syntax(diag.SynMalformedHeader, span, "malformed template interpolation")
}

func (bc *bodyCtx) report(d diag.Diagnostic) { bc.b.report(d) }

func (bc *bodyCtx) atEnd() bool { return bc.pos >= len(bc.toks) }

func (bc *bodyCtx) peek() token.Token {
	if bc.atEnd() {
		if len(bc.toks) > 0 {
			last := bc.toks[len(bc.toks)-1]
			return token.Token{Kind: token.EOF, Span: source.Span{File: last.Span.File, Start: last.Span.End, End: last.Span.End}}
		}
		return token.Token{Kind: token.EOF}
	}
	return bc.toks[bc.pos]
}

func (bc *bodyCtx) peekAt(off int) token.Token {
	i := bc.pos + off
	if i < 0 || i >= len(bc.toks) {
		return token.Token{Kind: token.EOF}
	}
	return bc.toks[i]
}

func (bc *bodyCtx) advance() token.Token {
	t := bc.peek()
	if !bc.atEnd() {
		bc.pos++
	}
	return t
}

func (bc *bodyCtx) expect(k token.Kind, what string) (token.Token, bool) {
	t := bc.peek()
	if t.Kind != k {
		bc.report(diag.Syntax(diag.SynMalformedHeader, t.Span, fmt.Sprintf("expected %s", what)))
		return t, false
	}
	return bc.advance(), true
}

func (bc *bodyCtx) newLocalPlace(typ types.TypeID, mutable bool) place.Root {
	root := place.Root{Kind: place.RootLocal, ID: bc.localSeq}
	bc.localSeq++
	return root
}

// buildFunctionBody parses fn's body token window into fn.Body, declaring
// params into a fresh function scope and recording the return-reference
// rule (§4.5: "a function may declare a return reference only by naming a
// parameter").
func (b *Builder) buildFunctionBody(fn *Function, h header.Header) {
	scope := b.Resolver.Enter(symbols.ScopeFunction, h.Span)
	defer b.Resolver.Leave(scope)

	placeOf := make(map[symbols.SymbolID]placeInfo, len(fn.Params))
	for i := range fn.Params {
		p := &fn.Params[i]
		sym, ok := b.Resolver.Declare(b.Strings.Intern(p.Name), p.Span, symbols.SymbolParam, 0)
		if !ok {
			continue
		}
		p.Sym = sym
		p.Root = place.Root{Kind: place.RootParam, ID: uint32(i)}
		placeOf[sym] = placeInfo{root: p.Root, typ: p.Type, mutable: p.Mutable}
	}

	bc := &bodyCtx{b: b, fn: fn, toks: h.Body, placeOf: placeOf}
	for !bc.atEnd() {
		st, ok := bc.parseStmt()
		if !ok {
			break
		}
		fn.Body = append(fn.Body, st)
	}
	fn.Locals = bc.locals()
}

// locals reconstructs fn's LocalDecl list from bc.placeOf, in ascending
// LocalID order, excluding params.
func (bc *bodyCtx) locals() []LocalDecl {
	type entry struct {
		sym symbols.SymbolID
		pi  placeInfo
	}
	var locals []entry
	for sym, pi := range bc.placeOf {
		if pi.root.Kind == place.RootLocal {
			locals = append(locals, entry{sym, pi})
		}
	}
	out := make([]LocalDecl, len(locals))
	for _, e := range locals {
		if int(e.pi.root.ID) >= len(out) {
			continue
		}
		name := ""
		if s := bc.b.Table.Symbols.Get(e.sym); s != nil {
			if n, ok := bc.b.Strings.Lookup(s.Name); ok {
				name = n
			}
		}
		out[e.pi.root.ID] = LocalDecl{Name: name, Sym: e.sym, Type: e.pi.typ, Mutable: e.pi.mutable, Root: e.pi.root}
	}
	return out
}

// buildConstantBody parses the i'th constant's initializer, requiring it
// to fold fully at compile time (§3: Constant HeaderKind is a compile-time
// binding).
func (b *Builder) buildConstantBody(i int, h header.Header) {
	decl := b.constants[h.Name]
	if decl == nil {
		return
	}
	bc := &bodyCtx{b: b, toks: h.Body}
	e, ok := bc.parseExprTokens(h.Body)
	if !ok {
		return
	}
	if !e.IsConst() {
		b.report(diag.Rule(diag.RuleUnresolvedSymbol, h.Span, fmt.Sprintf("constant %q initializer must be a compile-time constant", h.Name)))
		return
	}
	decl.Value = e
	if decl.Type == types.NoTypeID {
		decl.Type = e.Type
	}
	b.mod.Constants[i] = *decl
}

// declareLocal installs a new local binding, flagging a shadow of any
// binding visible from the current scope (an enclosing block's or
// function's, or a module-level name) as a Rule violation per §3's
// no-shadowing invariant ("one name binds to one logical storage place
// throughout its scope").
func (bc *bodyCtx) declareLocal(name string, span source.Span, typ types.TypeID, mutable bool) (symbols.SymbolID, place.Place) {
	nameID := bc.b.Strings.Intern(name)
	if _, shadowed := bc.b.Resolver.Lookup(nameID); shadowed {
		bc.report(diag.Rule(diag.RuleShadowedSymbol, span, fmt.Sprintf("%q shadows an existing binding; one name binds to one place", name)))
	}
	sym, ok := bc.b.Resolver.Declare(nameID, span, symbols.SymbolLocal, 0)
	if !ok {
		return symbols.NoSymbolID, place.Place{}
	}
	root := bc.newLocalPlace(typ, mutable)
	bc.placeOf[sym] = placeInfo{root: root, typ: typ, mutable: mutable}
	return sym, place.Place{Root: root}
}

// resolvePlace resolves a bare identifier to its bound Place, reporting a
// Rule diagnostic if unbound.
func (bc *bodyCtx) resolvePlace(name string, span source.Span) (place.Place, types.TypeID, bool) {
	nameID := bc.b.Strings.Intern(name)
	sym, ok := bc.b.Resolver.Lookup(nameID)
	if !ok {
		bc.report(diag.Rule(diag.RuleUnresolvedSymbol, span, fmt.Sprintf("unbound identifier %q", name)))
		return place.Place{}, types.NoTypeID, false
	}
	pi, ok := bc.placeOf[sym]
	if !ok {
		// A module-level name (function/struct/choice/constant): constants
		// resolve to a global Place; everything else is not a Place.
		if s := bc.b.Table.Symbols.Get(sym); s != nil && s.Kind == symbols.SymbolConstant {
			if root, ok := bc.b.globalRoots[sym]; ok {
				return place.Place{Root: root}, s.Type, true
			}
		}
		return place.Place{}, types.NoTypeID, false
	}
	return place.Place{Root: pi.root}, pi.typ, true
}

func (bc *bodyCtx) placeMutable(p place.Place) bool {
	for sym, pi := range bc.placeOf {
		if pi.root == p.Root {
			_ = sym
			return pi.mutable
		}
	}
	return false
}

// parseStmt parses one statement. Returns ok=false at a parse failure or
// end of input.
func (bc *bodyCtx) parseStmt() (Stmt, bool) {
	t := bc.peek()
	switch t.Kind {
	case token.EOF:
		return Stmt{}, false
	case token.KwLet:
		return bc.parseDecl()
	case token.KwIf:
		return bc.parseIf()
	case token.KwWhile:
		return bc.parseWhile()
	case token.KwLoop:
		return bc.parseLoop()
	case token.KwBreak:
		bc.advance()
		if bc.loopDepth == 0 {
			bc.report(diag.Rule(diag.RuleEscapingReference, t.Span, "'break' outside a loop"))
		}
		bc.consumeSemicolon()
		return Stmt{Kind: StmtBreak, Span: t.Span}, true
	case token.KwContinue:
		bc.advance()
		if bc.loopDepth == 0 {
			bc.report(diag.Rule(diag.RuleEscapingReference, t.Span, "'continue' outside a loop"))
		}
		bc.consumeSemicolon()
		return Stmt{Kind: StmtContinue, Span: t.Span}, true
	case token.KwReturn:
		return bc.parseReturn()
	case token.RBrace:
		return Stmt{}, false
	default:
		return bc.parseExprOrMutationStmt()
	}
}

func (bc *bodyCtx) consumeSemicolon() {
	if bc.peek().Kind == token.Semicolon {
		bc.advance()
	}
}

func (bc *bodyCtx) parseBlock() []Stmt {
	if _, ok := bc.expect(token.LBrace, "'{'"); !ok {
		return nil
	}
	var stmts []Stmt
	for bc.peek().Kind != token.RBrace && !bc.atEnd() {
		st, ok := bc.parseStmt()
		if !ok {
			break
		}
		stmts = append(stmts, st)
	}
	bc.expect(token.RBrace, "'}'")
	return stmts
}

// parseDecl parses `let name (: Type)? ('='|'~=') expr ;`.
func (bc *bodyCtx) parseDecl() (Stmt, bool) {
	kw := bc.advance() // 'let'
	nameTok, ok := bc.expect(token.Ident, "local name")
	if !ok {
		return Stmt{}, false
	}
	var declTyp types.TypeID
	if bc.peek().Kind == token.Colon {
		bc.advance()
		start := bc.pos
		bc.skipTypeExprTokens()
		declTyp = bc.b.resolveTypeExpr(bc.toks[start:bc.pos])
	}
	mutable, ok := bc.expectBindMarker()
	if !ok {
		return Stmt{}, false
	}
	valExpr, ok := bc.parseExpr()
	if !ok {
		return Stmt{}, false
	}
	end := bc.peek().Span
	if bc.peek().Kind == token.Semicolon {
		end = bc.advance().Span
	}
	typ := declTyp
	if typ == types.NoTypeID {
		typ = valExpr.Type
	} else if valExpr.Type != types.NoTypeID && typ != valExpr.Type {
		bc.report(diag.Type(diag.TypeAssignIncompat, nameTok.Span, fmt.Sprintf("cannot assign value of a different type to %q", nameTok.Text)))
	}
	sym, p := bc.declareLocal(nameTok.Text, nameTok.Span, typ, mutable)
	return Stmt{
		Kind: StmtDecl, Span: kw.Span.Cover(end), Sym: sym,
		Target: p, Mutable: mutable, Value: &valExpr,
	}, true
}

// expectBindMarker consumes '=' (shared, Mutable=false) or '~=' (mutable,
// Mutable=true) — §4.5's implicit-copy rule.
func (bc *bodyCtx) expectBindMarker() (bool, bool) {
	t := bc.peek()
	switch t.Kind {
	case token.Assign:
		bc.advance()
		return false, true
	case token.MutAssign:
		bc.advance()
		return true, true
	default:
		bc.report(diag.Syntax(diag.SynMalformedHeader, t.Span, "expected '=' or '~='"))
		return false, false
	}
}

func (bc *bodyCtx) skipTypeExprTokens() {
	depth := 0
	for !bc.atEnd() {
		t := bc.peek()
		if depth == 0 {
			switch t.Kind {
			case token.Assign, token.MutAssign, token.Semicolon, token.Comma, token.RParen, token.LBrace:
				return
			}
		}
		switch t.Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			if depth == 0 {
				return
			}
			depth--
		}
		bc.advance()
	}
}

// parseExprOrMutationStmt parses either `place ('='|'~=') expr ;` (mutation)
// or a bare expression statement (call used for its side effect).
func (bc *bodyCtx) parseExprOrMutationStmt() (Stmt, bool) {
	if bc.looksLikeMutation() {
		nameTok := bc.advance()
		target, _, ok := bc.parsePlaceTail(nameTok.Text, nameTok.Span)
		if !ok {
			return Stmt{}, false
		}
		if !bc.placeMutable(target) {
			bc.report(diag.Rule(diag.RuleMutabilityViolation, nameTok.Span, fmt.Sprintf("%q was not declared mutable (~=)", nameTok.Text)))
		}
		mutable, ok := bc.expectBindMarker()
		if !ok {
			return Stmt{}, false
		}
		valExpr, ok := bc.parseExpr()
		if !ok {
			return Stmt{}, false
		}
		end := bc.peek().Span
		if bc.peek().Kind == token.Semicolon {
			end = bc.advance().Span
		}
		return Stmt{Kind: StmtMutation, Span: nameTok.Span.Cover(end), Target: target, Mutable: mutable, Value: &valExpr}, true
	}
	e, ok := bc.parseExpr()
	if !ok {
		return Stmt{}, false
	}
	end := e.Span
	if bc.peek().Kind == token.Semicolon {
		end = bc.advance().Span
	}
	return Stmt{Kind: StmtExprStmt, Span: e.Span.Cover(end), Call: &e}, true
}

// looksLikeMutation scans ahead, without building any Expr, to tell a
// mutation statement (`place = expr;` / `place ~= expr;`) apart from a
// bare expression statement: an identifier followed only by top-level
// `.field`/`[...]` projections and then `=`/`~=` is a mutation.
func (bc *bodyCtx) looksLikeMutation() bool {
	if bc.peek().Kind != token.Ident {
		return false
	}
	depth := 0
	i := bc.pos + 1
	for i < len(bc.toks) {
		t := bc.toks[i]
		if depth == 0 {
			switch t.Kind {
			case token.Assign, token.MutAssign:
				return true
			case token.Dot:
				i++
				continue
			case token.LBracket:
				depth++
				i++
				continue
			default:
				return false
			}
		}
		switch t.Kind {
		case token.LBracket:
			depth++
		case token.RBracket:
			depth--
		}
		i++
	}
	return false
}

func (bc *bodyCtx) parseIf() (Stmt, bool) {
	kw := bc.advance()
	cond, ok := bc.parseExpr()
	if !ok {
		return Stmt{}, false
	}
	scope := bc.b.Resolver.Enter(symbols.ScopeBlock, kw.Span)
	then := bc.parseBlock()
	bc.b.Resolver.Leave(scope)
	var elseStmts []Stmt
	if bc.peek().Kind == token.KwElse {
		bc.advance()
		if bc.peek().Kind == token.KwIf {
			nested, ok := bc.parseIf()
			if ok {
				elseStmts = []Stmt{nested}
			}
		} else {
			escope := bc.b.Resolver.Enter(symbols.ScopeBlock, bc.peek().Span)
			elseStmts = bc.parseBlock()
			bc.b.Resolver.Leave(escope)
		}
	}
	return Stmt{Kind: StmtIf, Span: kw.Span, Cond: &cond, Then: then, Else: elseStmts}, true
}

func (bc *bodyCtx) parseWhile() (Stmt, bool) {
	kw := bc.advance()
	cond, ok := bc.parseExpr()
	if !ok {
		return Stmt{}, false
	}
	bc.loopDepth++
	scope := bc.b.Resolver.Enter(symbols.ScopeBlock, kw.Span)
	body := bc.parseBlock()
	bc.b.Resolver.Leave(scope)
	bc.loopDepth--
	return Stmt{Kind: StmtWhile, Span: kw.Span, Cond: &cond, Body: body}, true
}

func (bc *bodyCtx) parseLoop() (Stmt, bool) {
	kw := bc.advance()
	bc.loopDepth++
	scope := bc.b.Resolver.Enter(symbols.ScopeBlock, kw.Span)
	body := bc.parseBlock()
	bc.b.Resolver.Leave(scope)
	bc.loopDepth--
	return Stmt{Kind: StmtLoop, Span: kw.Span, Body: body}, true
}

func (bc *bodyCtx) parseReturn() (Stmt, bool) {
	kw := bc.advance()
	var retExpr *Expr
	if bc.peek().Kind != token.Semicolon && bc.peek().Kind != token.RBrace {
		e, ok := bc.parseExpr()
		if !ok {
			return Stmt{}, false
		}
		retExpr = &e
	}
	end := kw.Span
	if bc.peek().Kind == token.Semicolon {
		end = bc.advance().Span
	}
	if bc.fn != nil && bc.fn.ReturnsRef {
		bc.checkReturnReferenceRule(retExpr, kw.Span)
	}
	return Stmt{Kind: StmtReturn, Span: kw.Span.Cover(end), RetValue: retExpr}, true
}

// checkReturnReferenceRule enforces §4.5: "a function may declare a return
// reference only by naming a parameter; any other reference return is
// rejected here."
func (bc *bodyCtx) checkReturnReferenceRule(e *Expr, span source.Span) {
	if e == nil || e.Kind != ExprPlace || e.Place.Root.Kind != place.RootParam || len(e.Place.Projs) != 0 {
		bc.report(diag.Rule(diag.RuleInvalidReturnRef, span, "a reference-returning function may only return one of its own parameters"))
		return
	}
	idx := int(e.Place.Root.ID)
	if bc.fn.ReturnParamIdx == -1 {
		bc.fn.ReturnParamIdx = idx
	} else if bc.fn.ReturnParamIdx != idx {
		bc.report(diag.Rule(diag.RuleInvalidReturnRef, span, "a reference-returning function must always return the same parameter"))
	}
}

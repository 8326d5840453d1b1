package ast

import (
	"strconv"
	"strings"

	"beanstalk/internal/place"
	"beanstalk/internal/rpn"
	"beanstalk/internal/source"
	"beanstalk/internal/symbols"
	"beanstalk/internal/token"
	"beanstalk/internal/types"
)

// templatePart is one literal chunk or `{ expr }` interpolation of a
// template body, in source order (§4.5: "Template parsing happens here and
// nowhere later").
type templatePart struct {
	IsLiteral bool
	Text      string        // IsLiteral: the raw literal chunk
	ExprToks  []token.Token // !IsLiteral: the interpolation's token window
	Span      source.Span
}

// parseTemplateBody splits a template's opaque body token window into
// literal/interpolation parts. Interpolations are `{ ... }` groups; each
// StringLit token outside them is one literal chunk, and any other token
// outside them is skipped.
func parseTemplateBody(body []token.Token) []templatePart {
	var parts []templatePart
	i := 0
	for i < len(body) {
		t := body[i]
		switch t.Kind {
		case token.StringLit:
			parts = append(parts, templatePart{IsLiteral: true, Text: t.Text, Span: t.Span})
			i++
		case token.LBrace:
			depth := 1
			j := i + 1
			for j < len(body) && depth > 0 {
				switch body[j].Kind {
				case token.LBrace:
					depth++
				case token.RBrace:
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			end := t.Span
			if j < len(body) {
				end = body[j].Span
			}
			parts = append(parts, templatePart{ExprToks: body[i+1 : j], Span: t.Span.Cover(end)})
			i = j + 1
		default:
			// Stray token outside a recognized chunk; defensively skip.
			i++
		}
	}
	return parts
}

// resolveTemplateUse builds the call-site Expr for a use of template td
// with the given already-built argument expressions: a folded string
// constant when every part evaluates at compile time (§4.5), otherwise a
// call to the synthesized template function.
func (bc *bodyCtx) resolveTemplateUse(td *templateDecl, args []Expr, span source.Span) Expr {
	allConst := len(args) > 0 || len(td.params) == 0
	for _, a := range args {
		if !a.IsConst() {
			allConst = false
			break
		}
	}
	strType := bc.b.Types.Intern(types.Type{Kind: types.KindOwnedString})
	if allConst {
		if val, ok := bc.b.tryFoldTemplate(td, args); ok {
			return Expr{Kind: ExprLiteral, Type: strType, Span: span, Lit: val}
		}
	}
	fn := bc.b.getOrBuildTemplateFn(td)
	return Expr{Kind: ExprCall, Type: strType, Span: span, CalleeSym: fn.Sym, CalleeName: fn.Name, Args: args}
}

// tryFoldTemplate attempts to evaluate every interpolation of td against
// the supplied constant arguments, concatenating literal chunks and
// stringified interpolation results into a single constant string.
func (b *Builder) tryFoldTemplate(td *templateDecl, args []Expr) (rpn.Value, bool) {
	subst := make(map[string]Expr, len(td.params))
	for i, p := range td.params {
		if i < len(args) {
			subst[p.Name] = args[i]
		}
	}
	var sb strings.Builder
	for _, part := range td.parts {
		if part.IsLiteral {
			sb.WriteString(part.Text)
			continue
		}
		sub := &bodyCtx{b: b, substMap: subst}
		e, ok := sub.parseExprTokens(part.ExprToks)
		if !ok || !e.IsConst() {
			return rpn.Value{}, false
		}
		s, ok := literalToString(b, e.Lit)
		if !ok {
			return rpn.Value{}, false
		}
		sb.WriteString(s)
	}
	return rpn.Value{Kind: rpn.ValueString, String: b.Strings.Intern(sb.String())}, true
}

// getOrBuildTemplateFn lazily synthesizes the callable function backing a
// template use that escaped constant folding, memoized on td so repeated
// non-constant call sites share one function and name mangling stays
// deterministic over capture order (§9).
func (b *Builder) getOrBuildTemplateFn(td *templateDecl) *Function {
	if td.fn != nil {
		return td.fn
	}
	b.templateFnSeq++
	name := "template$" + td.name + "$" + strconv.FormatUint(uint64(b.templateFnSeq), 10)
	sym, ok := b.Resolver.Declare(b.Strings.Intern(name), td.span.Span, symbols.SymbolFunction, 0)
	strType := b.Types.Intern(types.Type{Kind: types.KindOwnedString})
	fn := &Function{
		Name:           name,
		Sym:            sym,
		Span:           td.span.Span,
		Params:         td.params,
		Result:         strType,
		ReturnParamIdx: -1,
		IsTemplateFn:   true,
	}
	if ok {
		if s := b.Table.Symbols.Get(sym); s != nil {
			s.Type = strType
		}
	}

	scope := b.Resolver.Enter(symbols.ScopeFunction, td.span.Span)
	placeOf := make(map[symbols.SymbolID]placeInfo, len(td.params))
	for i := range fn.Params {
		p := &fn.Params[i]
		psym, declOk := b.Resolver.Declare(b.Strings.Intern(p.Name), p.Span, symbols.SymbolParam, 0)
		if !declOk {
			continue
		}
		p.Sym = psym
		root := place.Root{Kind: place.RootParam, ID: uint32(i)}
		p.Root = root
		placeOf[psym] = placeInfo{root: root, typ: p.Type}
		fn.Captures = append(fn.Captures, CaptureBinding{Name: p.Name, Type: p.Type, Root: root})
	}
	sub := &bodyCtx{b: b, fn: fn, placeOf: placeOf}

	var concatParts []Expr
	for _, part := range td.parts {
		if part.IsLiteral {
			concatParts = append(concatParts, Expr{
				Kind: ExprLiteral, Type: strType, Span: part.Span,
				Lit: rpn.Value{Kind: rpn.ValueString, String: b.Strings.Intern(part.Text)},
			})
			continue
		}
		e, ok := sub.parseExprTokens(part.ExprToks)
		if !ok {
			b.report(diagMalformedTemplate(part.Span))
			continue
		}
		concatParts = append(concatParts, e)
	}
	fn.Body = []Stmt{{
		Kind: StmtReturn,
		Span: td.span.Span,
		RetValue: &Expr{
			Kind: ExprTemplateConcat, Type: strType, Span: td.span.Span, Parts: concatParts,
		},
	}}
	b.Resolver.Leave(scope)

	td.fn = fn
	b.mod.TemplateFunctions = append(b.mod.TemplateFunctions, fn)
	return fn
}

// literalToString renders a fully-folded rpn.Value the way template-head
// coerce-to-string context does (§4.5 edge case: "Mixed type coercions to
// string... are allowed" in template head position).
func literalToString(b *Builder, v rpn.Value) (string, bool) {
	switch v.Kind {
	case rpn.ValueString:
		s, ok := b.Strings.Lookup(v.String)
		return s, ok
	case rpn.ValueInt:
		return strconv.FormatInt(v.Int, 10), true
	case rpn.ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), true
	case rpn.ValueBool:
		return strconv.FormatBool(v.Bool), true
	case rpn.ValueChar:
		return string(v.Char), true
	default:
		return "", false
	}
}

package ast

import (
	"fmt"

	"beanstalk/internal/diag"
	"beanstalk/internal/place"
	"beanstalk/internal/rpn"
	"beanstalk/internal/source"
	"beanstalk/internal/token"
	"beanstalk/internal/types"
)

// parseExpr parses one expression starting at bc.pos. A call/template-use/
// struct-literal (`name(...)`) is a maximal primary: §3 models Call and
// StructLit as distinct leaf AST variants, so neither combines further with
// a surrounding operator in this grammar. Everything else is an arithmetic/
// logical/compare subtree built directly into an rpn.Vector and folded or
// left as ExprRuntime (§4.5).
func (bc *bodyCtx) parseExpr() (Expr, bool) {
	if bc.peek().Kind == token.Ident && bc.peekAt(1).Kind == token.LParen {
		return bc.parseCallLike()
	}
	vec, typ, span, ok := bc.parseBinaryRPN(0)
	if !ok {
		return Expr{}, false
	}
	return bc.finishArithExpr(vec, typ, span), true
}

// parseExprTokens parses a standalone token window (a constant initializer,
// or a template interpolation re-parsed against a substitution map) as one
// full expression.
func (bc *bodyCtx) parseExprTokens(toks []token.Token) (Expr, bool) {
	bc.toks = toks
	bc.pos = 0
	return bc.parseExpr()
}

// finishArithExpr classifies a completed rpn.Vector: a lone place read
// becomes ExprPlace (§3's bare-place-read variant), a fully-constant vector
// folds to ExprLiteral, and anything else is ExprRuntime.
func (bc *bodyCtx) finishArithExpr(vec rpn.Vector, typ types.TypeID, span source.Span) Expr {
	if len(vec) == 1 && vec[0].Kind == rpn.TokPlace {
		p, _ := bc.b.Places.Lookup(place.PlaceID(vec[0].PlaceRef))
		return Expr{Kind: ExprPlace, Type: typ, Span: span, Place: p}
	}
	if rpn.IsConst(vec) {
		if val, ok := rpn.Eval(vec); ok {
			return Expr{Kind: ExprLiteral, Type: typ, Span: span, Lit: val}
		}
	}
	return Expr{Kind: ExprRuntime, Type: typ, Span: span, RPN: vec}
}

// precOf returns the rpn.OpKind and binding precedence for a binary
// operator token, matching §4.5's operator set: || and && bind loosest,
// then comparisons, then +/-, then the tightest */%.
func precOf(k token.Kind) (rpn.OpKind, int, bool) {
	switch k {
	case token.OrOr:
		return rpn.OpOr, 1, true
	case token.AndAnd:
		return rpn.OpAnd, 2, true
	case token.EqEq:
		return rpn.OpEq, 3, true
	case token.NotEq:
		return rpn.OpNotEq, 3, true
	case token.Lt:
		return rpn.OpLess, 3, true
	case token.LtEq:
		return rpn.OpLessEq, 3, true
	case token.Gt:
		return rpn.OpGreater, 3, true
	case token.GtEq:
		return rpn.OpGreaterEq, 3, true
	case token.Plus:
		return rpn.OpAdd, 4, true
	case token.Minus:
		return rpn.OpSub, 4, true
	case token.Star:
		return rpn.OpMul, 5, true
	case token.Slash:
		return rpn.OpDiv, 5, true
	case token.Percent:
		return rpn.OpMod, 5, true
	default:
		return rpn.OpInvalid, 0, false
	}
}

func isComparisonOp(op rpn.OpKind) bool {
	switch op {
	case rpn.OpEq, rpn.OpNotEq, rpn.OpLess, rpn.OpLessEq, rpn.OpGreater, rpn.OpGreaterEq, rpn.OpAnd, rpn.OpOr:
		return true
	default:
		return false
	}
}

// parseBinaryRPN implements precedence climbing directly over rpn.Vector,
// folding through rpn.FoldBinary at every node so a fully-constant subtree
// never survives as anything but a single push token.
func (bc *bodyCtx) parseBinaryRPN(minPrec int) (rpn.Vector, types.TypeID, source.Span, bool) {
	left, ltyp, lspan, ok := bc.parseUnaryRPN()
	if !ok {
		return nil, types.NoTypeID, lspan, false
	}
	for {
		op, prec, isOp := precOf(bc.peek().Kind)
		if !isOp || prec < minPrec {
			break
		}
		opTok := bc.advance()
		right, rtyp, rspan, ok := bc.parseBinaryRPN(prec + 1)
		if !ok {
			return nil, types.NoTypeID, lspan, false
		}
		if ltyp != types.NoTypeID && rtyp != types.NoTypeID && ltyp != rtyp {
			bc.report(diag.Type(diag.TypeBinaryOperandKind, opTok.Span, "binary operator operands must have matching types"))
		}
		left = rpn.FoldBinary(op, left, right, opTok.Span)
		lspan = lspan.Cover(rspan)
		if isComparisonOp(op) {
			ltyp = bc.b.Types.Intern(types.Type{Kind: types.KindBool})
		}
	}
	return left, ltyp, lspan, true
}

func (bc *bodyCtx) parseUnaryRPN() (rpn.Vector, types.TypeID, source.Span, bool) {
	t := bc.peek()
	switch t.Kind {
	case token.Minus:
		bc.advance()
		v, typ, span, ok := bc.parseUnaryRPN()
		if !ok {
			return nil, types.NoTypeID, t.Span, false
		}
		return rpn.FoldUnary(rpn.OpNeg, v, t.Span), typ, t.Span.Cover(span), true
	case token.Plus:
		bc.advance()
		return bc.parseUnaryRPN()
	case token.Bang:
		bc.advance()
		v, typ, span, ok := bc.parseUnaryRPN()
		if !ok {
			return nil, types.NoTypeID, t.Span, false
		}
		return rpn.FoldUnary(rpn.OpNot, v, t.Span), typ, t.Span.Cover(span), true
	default:
		return bc.parsePrimaryRPN()
	}
}

// parsePrimaryRPN parses one leaf operand: a literal, a place read (with
// trailing projections, subst-substituted inside a template fold attempt),
// or a parenthesized subexpression.
func (bc *bodyCtx) parsePrimaryRPN() (rpn.Vector, types.TypeID, source.Span, bool) {
	t := bc.peek()
	switch t.Kind {
	case token.IntLit:
		bc.advance()
		v, ok := rpn.ParseIntLiteral(t.Text)
		if !ok {
			bc.report(diag.Syntax(diag.SynMalformedHeader, t.Span, "malformed integer literal"))
			return nil, types.NoTypeID, t.Span, false
		}
		typ := bc.b.Types.Intern(types.Type{Kind: types.KindInt, Width: 64})
		return rpn.Vector{{Kind: rpn.TokConstInt, Span: t.Span, IntVal: v}}, typ, t.Span, true
	case token.FloatLit:
		bc.advance()
		v, ok := rpn.ParseFloatLiteral(t.Text)
		if !ok {
			bc.report(diag.Syntax(diag.SynMalformedHeader, t.Span, "malformed float literal"))
			return nil, types.NoTypeID, t.Span, false
		}
		typ := bc.b.Types.Intern(types.Type{Kind: types.KindFloat, Width: 64})
		return rpn.Vector{{Kind: rpn.TokConstFloat, Span: t.Span, FloatVal: v}}, typ, t.Span, true
	case token.BoolLit:
		bc.advance()
		typ := bc.b.Types.Intern(types.Type{Kind: types.KindBool})
		return rpn.Vector{{Kind: rpn.TokConstBool, Span: t.Span, BoolVal: t.Text == "true"}}, typ, t.Span, true
	case token.CharLit:
		bc.advance()
		var r rune
		for _, rr := range t.Text {
			r = rr
			break
		}
		typ := bc.b.Types.Intern(types.Type{Kind: types.KindChar})
		return rpn.Vector{{Kind: rpn.TokConstChar, Span: t.Span, CharVal: r}}, typ, t.Span, true
	case token.StringLit:
		bc.advance()
		sid := bc.b.Strings.Intern(t.Text)
		typ := bc.b.Types.Intern(types.Type{Kind: types.KindOwnedString})
		return rpn.Vector{{Kind: rpn.TokConstString, Span: t.Span, StringVal: sid}}, typ, t.Span, true
	case token.LParen:
		bc.advance()
		v, typ, span, ok := bc.parseBinaryRPN(0)
		if !ok {
			return nil, types.NoTypeID, t.Span, false
		}
		end, ok := bc.expect(token.RParen, "')'")
		if !ok {
			return v, typ, t.Span.Cover(span), false
		}
		return v, typ, t.Span.Cover(end.Span), true
	case token.Ident:
		name := t.Text
		if bc.substMap != nil {
			if sub, ok := bc.substMap[name]; ok {
				bc.advance()
				if sub.IsConst() {
					return rpn.Vector{sub.Lit.Token(t.Span)}, sub.Type, t.Span, true
				}
				// tryFoldTemplate only calls into a substMap bodyCtx once
				// every call-site argument is known constant; a non-const
				// substitution here means the caller's constancy check was
				// wrong, which is a builder bug rather than user error.
				bc.report(diag.Compiler(fmt.Sprintf("template substitution for %q is not constant", name)))
				return nil, types.NoTypeID, t.Span, false
			}
		}
		bc.advance()
		p, typ, ok := bc.parsePlaceTail(name, t.Span)
		if !ok {
			return nil, types.NoTypeID, t.Span, false
		}
		id := bc.b.Places.Intern(p)
		return rpn.Vector{{Kind: rpn.TokPlace, Span: t.Span, PlaceRef: uint32(id)}}, typ, t.Span, true
	default:
		bc.report(diag.Syntax(diag.SynMalformedHeader, t.Span, "expected expression"))
		return nil, types.NoTypeID, t.Span, false
	}
}

// parsePlaceTail resolves name to its bound Place and consumes any trailing
// `.field`/`[index]` projection chain, reporting unknown-field diagnostics
// against the struct type actually in scope at each step.
func (bc *bodyCtx) parsePlaceTail(name string, span source.Span) (place.Place, types.TypeID, bool) {
	base, typ, ok := bc.resolvePlace(name, span)
	if !ok {
		return place.Place{}, types.NoTypeID, false
	}
	for {
		switch bc.peek().Kind {
		case token.Dot:
			bc.advance()
			fieldTok, ok := bc.expect(token.Ident, "field name")
			if !ok {
				return base, typ, false
			}
			idx, ftyp, found := bc.resolveFieldIndex(typ, fieldTok.Text, fieldTok.Span)
			if !found {
				return base, typ, false
			}
			base = base.Field(idx)
			typ = ftyp
		case token.LBracket:
			bc.advance()
			idxExpr, ok := bc.parseExpr()
			if !ok {
				return base, typ, false
			}
			if _, ok := bc.expect(token.RBracket, "']'"); !ok {
				return base, typ, false
			}
			elemTyp := types.NoTypeID
			if tt, ok := bc.b.Types.Lookup(typ); ok {
				elemTyp = tt.Elem
			}
			if idxExpr.IsConst() && idxExpr.Lit.Kind == rpn.ValueInt {
				base = base.ConstIndex(idxExpr.Lit.Int)
			} else {
				base = base.DynamicIndex()
			}
			typ = elemTyp
		default:
			return base, typ, true
		}
	}
}

// resolveFieldIndex looks up name within structTyp's resolved field list,
// returning the field's declaration-order index (the index Place.Field
// expects) and its type.
func (bc *bodyCtx) resolveFieldIndex(structTyp types.TypeID, name string, span source.Span) (int, types.TypeID, bool) {
	tt, ok := bc.b.Types.Lookup(structTyp)
	if !ok || tt.Kind != types.KindStruct {
		bc.report(diag.Type(diag.TypeUnknownField, span, fmt.Sprintf("%q is not a struct value", name)))
		return 0, types.NoTypeID, false
	}
	for i, f := range tt.Fields {
		if f.Name == name {
			return i, f.Type, true
		}
	}
	bc.report(diag.Type(diag.TypeUnknownField, span, fmt.Sprintf("unknown field %q", name)))
	return 0, types.NoTypeID, false
}

// parseCallLike parses `name(args...)` once the caller has established name
// is followed directly by '(': a template use, a struct literal, or a
// function/host call, decided by what name resolves to (§4.5 / §3).
func (bc *bodyCtx) parseCallLike() (Expr, bool) {
	nameTok := bc.advance() // ident
	bc.advance()            // '('

	if td, isTemplate := bc.b.templates[nameTok.Text]; isTemplate {
		args, _, ok := bc.parseCallArgs()
		end := bc.closeParen()
		if !ok {
			return Expr{}, false
		}
		return bc.resolveTemplateUse(td, args, nameTok.Span.Cover(end)), true
	}

	if styp, isStruct := bc.b.structTypes[nameTok.Text]; isStruct {
		args, fieldNames, ok := bc.parseCallArgs()
		end := bc.closeParen()
		if !ok {
			return Expr{}, false
		}
		return Expr{
			Kind: ExprStructLit, Type: styp, Span: nameTok.Span.Cover(end),
			CalleeName: nameTok.Text, Args: args, FieldNames: fieldNames,
		}, true
	}

	args, _, ok := bc.parseCallArgs()
	end := bc.closeParen()
	if !ok {
		return Expr{}, false
	}

	nameID := bc.b.Strings.Intern(nameTok.Text)
	sym, found := bc.b.Resolver.Lookup(nameID)
	resTyp := types.NoTypeID
	isHost := false
	if found {
		if s := bc.b.Table.Symbols.Get(sym); s != nil {
			resTyp = s.Type
		}
	} else if bc.b.HostFunctions[nameTok.Text] {
		isHost = true
	} else {
		bc.report(diag.Rule(diag.RuleUnresolvedSymbol, nameTok.Span, fmt.Sprintf("unbound function %q", nameTok.Text)))
	}
	return Expr{
		Kind: ExprCall, Type: resTyp, Span: nameTok.Span.Cover(end),
		CalleeSym: sym, CalleeName: nameTok.Text, Args: args, IsHostCall: isHost,
	}, true
}

// closeParen consumes a trailing ')' if present and returns the covering
// span's end; call sites have already reported a parse failure via
// parseCallArgs when the tokens are malformed, so this only tidies position.
func (bc *bodyCtx) closeParen() source.Span {
	if bc.peek().Kind == token.RParen {
		return bc.advance().Span
	}
	return bc.peek().Span
}

// parseCallArgs parses a comma-separated argument list up to (not
// including) the closing ')'. An argument may be a bare positional
// expression or a `field: expr` pair (struct-literal field assignment);
// fieldNames[i] is "" for positional arguments.
func (bc *bodyCtx) parseCallArgs() ([]Expr, []string, bool) {
	var args []Expr
	var fieldNames []string
	for bc.peek().Kind != token.RParen && !bc.atEnd() {
		fieldName := ""
		if bc.peek().Kind == token.Ident && bc.peekAt(1).Kind == token.Colon {
			fieldName = bc.peek().Text
			bc.advance()
			bc.advance()
		}
		e, ok := bc.parseExpr()
		if !ok {
			return args, fieldNames, false
		}
		args = append(args, e)
		fieldNames = append(fieldNames, fieldName)
		if bc.peek().Kind == token.Comma {
			bc.advance()
			continue
		}
		break
	}
	return args, fieldNames, true
}

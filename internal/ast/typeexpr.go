package ast

import (
	"fmt"

	"beanstalk/internal/diag"
	"beanstalk/internal/token"
	"beanstalk/internal/types"
)

// resolveTypeExpr interprets a type-expression token window (as captured
// opaquely by the header parser, §4.3) into a TypeID. Grammar recognized:
//
//	int | float | bool | char | str | string | error
//	<StructOrChoiceName>
//	ref <Type>            -- shared reference
//	mut ref <Type>         -- mutable reference
//	[ <Type> ]             -- immutable collection
//	mut [ <Type> ]         -- mutable collection
func (b *Builder) resolveTypeExpr(toks []token.Token) types.TypeID {
	if len(toks) == 0 {
		return types.NoTypeID
	}
	pos := 0
	peek := func() token.Token {
		if pos >= len(toks) {
			return token.Token{Kind: token.EOF}
		}
		return toks[pos]
	}
	id, ok := b.parseTypeExprAt(&pos, peek, toks)
	if !ok {
		b.report(diag.Type(diag.TypeMismatch, toks[0].Span, "malformed type expression"))
		return types.NoTypeID
	}
	return id
}

func (b *Builder) parseTypeExprAt(pos *int, peek func() token.Token, toks []token.Token) (types.TypeID, bool) {
	advance := func() token.Token {
		t := peek()
		*pos++
		return t
	}

	tok := peek()
	switch tok.Kind {
	case token.KwMut:
		advance()
		next := peek()
		switch next.Kind {
		case token.KwRef:
			advance()
			inner, ok := b.parseTypeExprAt(pos, peek, toks)
			if !ok {
				return types.NoTypeID, false
			}
			return b.Types.Intern(types.Type{Kind: types.KindReference, RefTo: inner, Mode: types.RefMutable}), true
		case token.LBracket:
			advance()
			inner, ok := b.parseTypeExprAt(pos, peek, toks)
			if !ok {
				return types.NoTypeID, false
			}
			if peek().Kind == token.RBracket {
				advance()
			}
			return b.Types.Intern(types.Type{Kind: types.KindCollection, Elem: inner, Mutable: true}), true
		default:
			return types.NoTypeID, false
		}
	case token.KwRef:
		advance()
		inner, ok := b.parseTypeExprAt(pos, peek, toks)
		if !ok {
			return types.NoTypeID, false
		}
		return b.Types.Intern(types.Type{Kind: types.KindReference, RefTo: inner, Mode: types.RefShared}), true
	case token.LBracket:
		advance()
		inner, ok := b.parseTypeExprAt(pos, peek, toks)
		if !ok {
			return types.NoTypeID, false
		}
		if peek().Kind == token.RBracket {
			advance()
		}
		return b.Types.Intern(types.Type{Kind: types.KindCollection, Elem: inner, Mutable: false}), true
	case token.Ident:
		advance()
		return b.resolveNamedType(tok.Text, tok), true
	default:
		return types.NoTypeID, false
	}
}

func (b *Builder) resolveNamedType(name string, tok token.Token) types.TypeID {
	switch name {
	case "int":
		return b.Types.Intern(types.Type{Kind: types.KindInt, Width: 64})
	case "float":
		return b.Types.Intern(types.Type{Kind: types.KindFloat, Width: 64})
	case "bool":
		return b.Types.Intern(types.Type{Kind: types.KindBool})
	case "char":
		return b.Types.Intern(types.Type{Kind: types.KindChar})
	case "str":
		return b.Types.Intern(types.Type{Kind: types.KindStringSlice})
	case "string":
		return b.Types.Intern(types.Type{Kind: types.KindOwnedString})
	case "error":
		return b.Types.Intern(types.Type{Kind: types.KindError})
	}
	if id, ok := b.structTypes[name]; ok {
		return id
	}
	if id, ok := b.choiceTypes[name]; ok {
		return id
	}
	b.report(diag.Type(diag.TypeMismatch, tok.Span, fmt.Sprintf("unknown type %q", name)))
	return types.NoTypeID
}

package rpn

import "beanstalk/internal/source"

// ValueKind tags which field of Value is populated.
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueInt
	ValueFloat
	ValueBool
	ValueChar
	ValueString
)

// Value is the result of fully evaluating a constant Vector.
type Value struct {
	Kind   ValueKind
	Int    int64
	Float  float64
	Bool   bool
	Char   rune
	String source.StringID
}

func constToken(tok Token) (Value, bool) {
	switch tok.Kind {
	case TokConstInt:
		return Value{Kind: ValueInt, Int: tok.IntVal}, true
	case TokConstFloat:
		return Value{Kind: ValueFloat, Float: tok.FloatVal}, true
	case TokConstBool:
		return Value{Kind: ValueBool, Bool: tok.BoolVal}, true
	case TokConstChar:
		return Value{Kind: ValueChar, Char: tok.CharVal}, true
	case TokConstString:
		return Value{Kind: ValueString, String: tok.StringVal}, true
	default:
		return Value{}, false
	}
}

// Token converts v back into a single push-token carrying the value, used
// when the folder replaces a subtree with its folded result (§4.5: "the
// result replaces the original subtree").
func (v Value) Token(span source.Span) Token {
	switch v.Kind {
	case ValueInt:
		return Token{Kind: TokConstInt, Span: span, IntVal: v.Int}
	case ValueFloat:
		return Token{Kind: TokConstFloat, Span: span, FloatVal: v.Float}
	case ValueBool:
		return Token{Kind: TokConstBool, Span: span, BoolVal: v.Bool}
	case ValueChar:
		return Token{Kind: TokConstChar, Span: span, CharVal: v.Char}
	case ValueString:
		return Token{Kind: TokConstString, Span: span, StringVal: v.String}
	default:
		return Token{}
	}
}

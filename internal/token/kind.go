// Package token defines the token shape the header parser and AST builder
// consume. Tokenizer internals are out of scope (spec.md §1); this package
// only fixes the wire shape a tokenizer must produce.
package token

// Kind enumerates the token categories the core needs to recognize
// top-level declarations and expression bodies. It intentionally omits
// lexer-internal concerns (trivia classification, raw escape handling).
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	FloatLit
	StringLit
	BoolLit
	CharLit

	// Keywords relevant to header extraction and statement parsing.
	KwFn
	KwStruct
	KwChoice
	KwConst
	KwTemplate
	KwImport
	KwAs
	KwLet
	KwMut
	KwIf
	KwElse
	KwWhile
	KwLoop
	KwBreak
	KwContinue
	KwReturn
	KwRef

	// Punctuation / operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	ColonColon
	Semicolon
	Dot
	Arrow
	Assign       // =
	MutAssign    // ~=
	Tilde        // ~ (mutability marker on its own)
	Plus
	Minus
	Star
	Slash
	Percent
	EqEq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr
	Bang
	Amp // &
	Hash
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case IntLit:
		return "IntLit"
	case FloatLit:
		return "FloatLit"
	case StringLit:
		return "StringLit"
	case BoolLit:
		return "BoolLit"
	case CharLit:
		return "CharLit"
	case KwFn:
		return "fn"
	case KwStruct:
		return "struct"
	case KwChoice:
		return "choice"
	case KwConst:
		return "const"
	case KwTemplate:
		return "template"
	case KwImport:
		return "import"
	case KwAs:
		return "as"
	case KwLet:
		return "let"
	case KwMut:
		return "mut"
	case KwIf:
		return "if"
	case KwElse:
		return "else"
	case KwWhile:
		return "while"
	case KwLoop:
		return "loop"
	case KwBreak:
		return "break"
	case KwContinue:
		return "continue"
	case KwReturn:
		return "return"
	case KwRef:
		return "ref"
	default:
		return "Punct"
	}
}

// IsKeyword reports whether k is one of the reserved words recognized at
// header-parsing granularity.
func (k Kind) IsKeyword() bool {
	return k >= KwFn && k <= KwRef
}

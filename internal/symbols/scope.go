package symbols

import "beanstalk/internal/source"

// ScopeKind enumerates the lexical scope categories the core distinguishes.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeFile              // one artificial root per parsed file
	ScopeModule            // top-level declarations: functions, structs, choices, constants
	ScopeFunction          // a function/template body
	ScopeBlock             // if/loop block nesting
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFile:
		return "file"
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// SymbolKind classifies what a declared name refers to.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolTemplate
	SymbolStruct
	SymbolChoice
	SymbolConstant
	SymbolParam
	SymbolLocal // let/var-style local binding
	SymbolStartFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolTemplate:
		return "template"
	case SymbolStruct:
		return "struct"
	case SymbolChoice:
		return "choice"
	case SymbolConstant:
		return "constant"
	case SymbolParam:
		return "param"
	case SymbolLocal:
		return "local"
	case SymbolStartFunction:
		return "start_function"
	default:
		return "invalid"
	}
}

// Scope is a lexical scope: a parent link, an owning AST span, and a
// per-name index of the symbols declared directly in it (not inherited).
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}

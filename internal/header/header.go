// Package header implements the §4.3 header parser: a second pass over a
// token stream that extracts top-level declarations and import edges
// without ever entering function/template bodies, which are kept as opaque
// token windows for the AST builder.
package header

import (
	"beanstalk/internal/source"
	"beanstalk/internal/token"
)

// Kind enumerates the HeaderKind variants from spec.md §3.
type Kind uint8

const (
	KindFunction Kind = iota
	KindTemplate
	KindStruct
	KindChoice
	KindConstant
	KindStartFunction
	KindMain
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "Function"
	case KindTemplate:
		return "Template"
	case KindStruct:
		return "Struct"
	case KindChoice:
		return "Choice"
	case KindConstant:
		return "Constant"
	case KindStartFunction:
		return "StartFunction"
	case KindMain:
		return "Main"
	default:
		return "Unknown"
	}
}

// ReservedMainName is the symbol reserved for the entry file's implicit
// start function once reclassified (§6: "the entry file's StartFunction is
// internally named Main; implementations must reserve this symbol").
const ReservedMainName = "Main"

// Param is a single function/template parameter signature, kept as a thin
// token reference since full type resolution happens in the AST builder.
type Param struct {
	Name   string
	Span   source.Span
	TypeTk []token.Token // opaque type-expression token window
}

// Header is one top-level declaration extracted from a file (§3).
type Header struct {
	Kind Kind
	Name string
	Span source.Span
	File source.FileID

	// Params apply to Function/Template headers; Result is a Function's
	// return type or a Constant's declared type.
	Params []Param
	Result []token.Token // opaque type-expression token window, empty if none

	// Body is the opaque token window for the declaration's body (function
	// body, template body, constant initializer). Never parsed here.
	Body []token.Token

	// Fields is the opaque token window for struct fields / choice variants,
	// split on top-level commas by the AST builder, not here.
	Fields []token.Token
}

// Import is a single import edge collected verbatim (§4.3).
type Import struct {
	ModulePath string
	Alias      string // from "import X as Y"; empty if none
	Span       source.Span
}

// ModuleRootKind classifies a "#"-prefixed file name's suffix. The core
// only preserves this as metadata for external builders; it never
// interprets it (§4.3).
type ModuleRootKind uint8

const (
	ModuleRootNone ModuleRootKind = iota
	ModuleRootPage
	ModuleRootLayout
	ModuleRootLib
)

// FileHeaders is the header-parser output for a single file.
type FileHeaders struct {
	File       source.FileID
	IsEntry    bool
	IsRoot     bool
	RootKind   ModuleRootKind
	Headers    []Header
	Imports    []Import
	StartIndex int // index into Headers of the StartFunction/Main header, -1 if none
}

// Main returns the file's Main header, if this file is the entry file and
// has one (after reclassification).
func (fh *FileHeaders) Main() *Header {
	if fh.StartIndex < 0 || fh.StartIndex >= len(fh.Headers) {
		return nil
	}
	if fh.Headers[fh.StartIndex].Kind != KindMain {
		return nil
	}
	return &fh.Headers[fh.StartIndex]
}

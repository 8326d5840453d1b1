package ast

import (
	"beanstalk/internal/place"
	"beanstalk/internal/rpn"
	"beanstalk/internal/source"
	"beanstalk/internal/symbols"
	"beanstalk/internal/types"
)

// ExprKind enumerates the tagged AST expression variants spec.md §3
// describes: Literal, RuntimeExpr(RPN vector), Call, plus a bare Place read
// (identifier / field / index chain with no arithmetic applied).
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLiteral          // fully constant-folded value
	ExprPlace            // a place read with no arithmetic (ident, p.field, arr[i])
	ExprRuntime          // arithmetic/logical/compare subtree that did not fully fold (rpn.Vector)
	ExprCall             // function or template-function call
	ExprStructLit        // struct-literal construction (e.g. Person(name: "A", age: 1))
	ExprRef              // explicit reference-taking operand of a `~=`/`=` bind (see Stmt)
	ExprTemplateConcat   // a non-foldable template body: ordered literal/expr parts to concatenate
)

// Expr is one expression node. Exactly the fields relevant to Kind are
// populated — the tagged-variant discipline spec.md §9 asks for ("dynamic
// dispatch on AST/HIR variants: use tagged variants... rather than virtual
// hierarchies").
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span

	// ExprLiteral
	Lit rpn.Value

	// ExprPlace / ExprRef
	Place place.Place

	// ExprRuntime: a non-foldable arithmetic/logical/compare expression,
	// §4.5: "those not foldable become RuntimeExpr(tokens_in_RPN)".
	RPN rpn.Vector

	// ExprCall / ExprStructLit
	CalleeSym  symbols.SymbolID
	CalleeName string
	Args       []Expr
	FieldNames []string // ExprStructLit only: field name per Args entry, declaration order

	// IsHostCall marks an ExprCall whose callee is not a module-declared
	// function but a name present in the host-function registry (§8:
	// "the core treats all HostCall statements as opaque"). CalleeSym is
	// NoSymbolID in that case.
	IsHostCall bool

	// ExprTemplateConcat: the template body's literal and interpolated
	// parts, in source order. Each part is itself a fully-built Expr
	// (ExprLiteral for literal text chunks, anything else for `{ ... }`
	// interpolations that did not fold).
	Parts []Expr
}

// IsConst reports whether e is a fully-folded compile-time value.
func (e Expr) IsConst() bool { return e.Kind == ExprLiteral }

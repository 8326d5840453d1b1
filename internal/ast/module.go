// Package ast implements the §4.5 AST builder: it walks header bodies in
// dependency order, resolves names against the growing symbol table,
// attaches a DataType to every expression, constant-folds pure expressions
// via package rpn, and resolves templates to either a folded string
// constant or a synthesized template function.
//
// Grounded on the teacher's internal/sema/type_checker_core.go (the
// name-resolution + type-attachment walk), type_checker_assignability.go
// (assignment compatibility), type_checker_returns.go (the return-place
// rule this package implements as the return-reference rule), and
// const_eval.go (folding, reshaped here on top of package rpn). The tagged-
// variant node shape follows internal/ast/expr.go / exprs.go.
package ast

import (
	"beanstalk/internal/place"
	"beanstalk/internal/source"
	"beanstalk/internal/symbols"
	"beanstalk/internal/types"
)

// StructField is one resolved struct field: name, type, and declaration
// order (field order is significant for positional Place.Field indices).
type StructField struct {
	Name string
	Type types.TypeID
	Span source.Span
}

// StructDecl is a fully-resolved struct declaration (§3: struct fields may
// not themselves store references; enforced when fields are resolved).
type StructDecl struct {
	Name   string
	Type   types.TypeID
	Fields []StructField
	Span   source.Span
}

// ChoiceVariant is one resolved tagged-union arm.
type ChoiceVariant struct {
	Name       string
	HasPayload bool
	Payload    types.TypeID
	Span       source.Span
}

// ChoiceDecl is a fully-resolved choice declaration.
type ChoiceDecl struct {
	Name     string
	Type     types.TypeID
	Variants []ChoiceVariant
	Span     source.Span
}

// ConstantDecl is a module-level constant; Value is always a fully-folded
// ExprLiteral — a constant that fails to fold is a Rule-kind error reported
// at declaration time, since spec.md's Constant HeaderKind is defined as a
// compile-time binding.
type ConstantDecl struct {
	Name  string
	Sym   symbols.SymbolID
	Type  types.TypeID
	Value Expr
	Span  source.Span
}

// Param is one resolved function/template parameter.
type Param struct {
	Name    string
	Sym     symbols.SymbolID
	Type    types.TypeID
	Mutable bool // the `~` ownership-intent marker (§3: params carry a shared/mutable tag); the header parser accepts no `~` on a parameter, so resolveParams always sets false
	Root    place.Root
	Span    source.Span
}

// LocalDecl records one local binding inside a function body, in
// declaration order, for HIR lowering to enumerate.
type LocalDecl struct {
	Name    string
	Sym     symbols.SymbolID
	Type    types.TypeID
	Mutable bool
	Root    place.Root
	Span    source.Span
}

// Function is a fully-built function/template/start-function body.
type Function struct {
	Name   string
	Sym    symbols.SymbolID
	Span   source.Span
	Params []Param
	Result types.TypeID

	// ReturnsRef marks a function whose declared result type is a
	// reference; ReturnParamIdx names which parameter it must alias
	// (§4.5 return-reference rule: "a function may declare a return
	// reference only by naming a parameter").
	ReturnsRef     bool
	ReturnParamIdx int

	Locals []LocalDecl
	Body   []Stmt

	// IsTemplateFn marks a function synthesized from a template use site
	// that escaped constant folding (§4.5); Captures holds the captured
	// operands in the stable order used for name mangling.
	IsTemplateFn bool
	Captures     []CaptureBinding
}

// CaptureBinding is one parameter captured by a synthesized template
// function, in the deterministic order it was first referenced — keeping
// synthesis order-stable is what spec.md §9 requires for idempotence.
type CaptureBinding struct {
	Name string
	Type types.TypeID
	Root place.Root
}

// Module is the AST builder's complete output for one compilation unit.
type Module struct {
	Structs   []StructDecl
	Choices   []ChoiceDecl
	Constants []ConstantDecl
	Functions []*Function

	// TemplateFunctions holds every template function synthesized for a
	// use site that did not constant-fold. A use site that does fold is
	// replaced in place by a string ExprLiteral; Builder does not append
	// anything to TemplateConstants.
	TemplateConstants []ConstantDecl
	TemplateFunctions []*Function

	Main *Function
}

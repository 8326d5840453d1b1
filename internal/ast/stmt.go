package ast

import (
	"beanstalk/internal/place"
	"beanstalk/internal/source"
	"beanstalk/internal/symbols"
)

// StmtKind enumerates the tagged AST statement variants (§3: Declaration,
// Mutation, If, Loop, Call, Return, ...).
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtDecl             // `let` binding, new place
	StmtMutation          // reassignment to an already-bound place
	StmtIf
	StmtWhile
	StmtLoop
	StmtBreak
	StmtContinue
	StmtReturn
	StmtExprStmt // a call/host-call used for its side effect, result discarded
)

// Stmt is one statement node, tagged by Kind.
type Stmt struct {
	Kind StmtKind
	Span source.Span

	// StmtDecl
	Sym symbols.SymbolID

	// StmtDecl / StmtMutation: the bound/reassigned place, and whether the
	// binding marker was `~=` (Mutable=true, Ref{Mutable} at HIR lowering)
	// or plain `=` (Mutable=false, Ref{Shared}) — §4.5's implicit-copy rule.
	Target  place.Place
	Mutable bool
	Value   *Expr

	// StmtIf / StmtWhile / StmtLoop
	Cond *Expr
	Then []Stmt
	Else []Stmt
	Body []Stmt

	// StmtReturn
	RetValue *Expr

	// StmtExprStmt
	Call *Expr
}

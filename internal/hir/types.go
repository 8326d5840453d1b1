// Package hir implements the §4.6 HIR lowering stage: a linear,
// three-address, place-based control-flow graph built from a typed
// *ast.Module, with advisory possible_drop markers attached at scope exits.
// Package borrow treats the HIR produced here as read-only input (§4.7:
// "It does not mutate HIR; it emits a side-table of facts").
//
// The teacher's own HIR is tree-shaped; the CFG/three-address shape spec.md
// asks of *this* package is exactly what the teacher's internal/mir layer
// looks like (block.go, instr.go, terminator.go, types.go), so this package
// is grounded on that MIR layer rather than the teacher's own hir package,
// per spec.md §9's design note that folding LIR into HIR "without changing
// the semantics captured in §4.7" is a legitimate implementer choice.
package hir

import (
	"beanstalk/internal/place"
	"beanstalk/internal/rpn"
	"beanstalk/internal/source"
	"beanstalk/internal/symbols"
	"beanstalk/internal/types"
)

// StmtID identifies one program point (§3: "statement IDs are dense and
// sequential"); it is assigned per-function, starting at 1, so the zero
// value can mean "none" without an extra bool.
type StmtID uint32

// NoStmtID marks the absence of a statement.
const NoStmtID StmtID = 0

// BlockID identifies a basic block within one function's CFG.
type BlockID uint32

// NoBlockID marks the absence of a block.
const NoBlockID BlockID = ^BlockID(0)

// OperandKind distinguishes the two ways a three-address rvalue may read an
// already-computed value (§3 invariant: "rvalues contain no nested
// computation" — every operand is either a place read or an inline
// constant).
type OperandKind uint8

const (
	OperandInvalid OperandKind = iota
	OperandConst
	OperandPlace
)

// Operand is one argument position of an Rvalue.
type Operand struct {
	Kind  OperandKind
	Type  types.TypeID
	Const rpn.Value
	Place place.PlaceID
}

// BorrowKind distinguishes a shared reference bind from a mutable one (§3:
// "Ref{Shared|Mutable}").
type BorrowKind uint8

const (
	BorrowShared BorrowKind = iota
	BorrowMutable
)

func (k BorrowKind) String() string {
	if k == BorrowMutable {
		return "mutable"
	}
	return "shared"
}

// RvalueKind enumerates the §3 Rvalue variants, plus UnaryOp — a structural
// extension grounded on the teacher's own mir.RValue, which carries Unary
// alongside Binary for the same reason: an RPN vector's unary operators
// (`-`, `!`) that survive constant folding still need a three-address home
// once their operand is a runtime place rather than a literal.
type RvalueKind uint8

const (
	RvalueInvalid RvalueKind = iota
	// RvalueMove is never constructed by lowering (§4.6: "Lowering never
	// decides move-vs-borrow"). Package borrow treats an explicit
	// RvalueMove as a move, but records its own Copy→Move refinements in
	// StmtFacts rather than as an Rvalue.
	RvalueMove
	RvalueCopy
	RvalueRef
	RvalueUnaryOp
	RvalueBinOp
	RvalueCall
	RvalueConst
	RvalueHostCall
)

// Rvalue is the right-hand side of a three-address assignment. Exactly the
// fields relevant to Kind are populated.
type Rvalue struct {
	Kind RvalueKind

	// RvalueMove / RvalueCopy / RvalueRef
	Place   place.PlaceID
	RefKind BorrowKind // RvalueRef only

	// RvalueUnaryOp
	UnaryOp rpn.OpKind
	Operand Operand

	// RvalueBinOp
	BinOp rpn.OpKind
	Left  Operand
	Right Operand

	// RvalueCall / RvalueHostCall
	CalleeSym  symbols.SymbolID
	CalleeName string
	Args       []Operand

	// RvalueConst
	Const rpn.Value
}

// Events records the syntactic, non-dataflow facts §3 lists as "AST-level
// hints" for one statement: which places it reads and which it redefines.
// Package borrow's own event-extraction walk (§4.7.2) consumes these to
// compute loans, refine CandidateLastUses into real liveness, and classify
// Moves — it never mutates them.
type Events struct {
	Uses              []place.PlaceID
	Reassigns         []place.PlaceID
	CandidateLastUses []place.PlaceID
}

// Stmt is one three-address program point: `place = rvalue` or a bare
// side-effecting rvalue with no destination (a discarded call result).
type Stmt struct {
	ID     StmtID
	Span   source.Span
	HasDst bool
	Dst    place.PlaceID
	Rvalue Rvalue
	Events Events
}

// TermKind enumerates the §3 terminator variants.
type TermKind uint8

const (
	TermNone TermKind = iota
	TermGoto
	TermIf
	TermSwitch
	TermReturn
)

// SwitchCase is one arm of a Switch terminator (§4.6: "pattern-matching
// constructs compile to Switch terminators").
type SwitchCase struct {
	TagName string
	Target  BlockID
}

// Terminator is a basic block's single exit. Exactly the fields relevant to
// Kind are populated.
//
// ID gives the terminator its own program point (§4.6: "each statement and
// terminator receives a sequential StmtId"), distinct from every Stmt.ID in
// the function — package borrow's CFG (§4.7.1: "one CFG node per
// statement") treats a terminator's ID as the last node of its block.
type Terminator struct {
	ID   StmtID
	Kind TermKind

	// TermGoto
	Target BlockID

	// TermIf
	Cond BlockCond
	Then BlockID
	Else BlockID

	// TermSwitch
	SwitchValue   Operand
	SwitchCases   []SwitchCase
	SwitchDefault BlockID

	// TermReturn
	HasValue bool
	Value    Operand

	// Drops holds the advisory possible_drop(place) markers this block-exit
	// edge carries (§4.6: "attach advisory possible_drop(place) events" at
	// block exits, Return, and Break of any scope owning heap data). Never
	// rewrites the CFG; package borrow marks each entry active or redundant
	// against its moved-out facts (§4.7.6) without touching this slice.
	Drops []place.PlaceID
}

// BlockCond is the boolean operand an If terminator branches on.
type BlockCond = Operand

// Block is one basic block: a straight-line run of statements ending in a
// single terminator (§3: "each block is a list of statements terminated by
// a terminator").
type Block struct {
	ID    BlockID
	Stmts []Stmt
	Term  Terminator
}

// Terminated reports whether b already has a non-None terminator, so a
// lowering walk knows not to append unreachable statements after it.
func (b *Block) Terminated() bool {
	return b != nil && b.Term.Kind != TermNone
}

// Param is one resolved function parameter, carrying the same Root the AST
// builder assigned so Places constructed during lowering line up with the
// ones the borrow checker will see in Rvalues.
type Param struct {
	Name    string
	Type    types.TypeID
	Mutable bool
	Root    place.Root
}

// Local is one function-local binding, in declaration order.
type Local struct {
	Name    string
	Type    types.TypeID
	Mutable bool
	Root    place.Root
}

// Function is one fully-lowered function body: a CFG of basic blocks plus
// its parameter/local/result signature.
type Function struct {
	Name   string
	Sym    symbols.SymbolID
	Span   source.Span
	Params []Param
	Result types.TypeID

	ReturnsRef     bool
	ReturnParamIdx int

	Locals []Local
	Blocks []Block
	Entry  BlockID

	// StmtCount is the number of program points (statements and
	// terminators) assigned a StmtID in this function (dense,
	// 1..StmtCount); package borrow uses it as a capacity hint for its
	// per-program-point node map.
	StmtCount uint32
}

// Program is the HIR lowering stage's complete output for one module: every
// ordinary function, template function, and the entry Main, each lowered
// independently (§5: "no shared mutable state between files after AST
// construction begins" extends here — functions share only the read-only
// place/type interners).
type Program struct {
	Functions []*Function
	Main      *Function
}

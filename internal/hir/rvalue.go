package hir

import (
	"fortio.org/safecast"

	"beanstalk/internal/ast"
	"beanstalk/internal/place"
	"beanstalk/internal/rpn"
	"beanstalk/internal/source"
	"beanstalk/internal/types"
)

// emit appends a three-address statement to the current block, stamping it
// with the next sequential program point, and returns it so the caller
// (lowerMutation) can append extra Events after the fact.
func (fl *funcLowerer) emit(span source.Span, dst place.PlaceID, rv Rvalue) *Stmt {
	id := fl.nextStmt
	fl.nextStmt++
	stmt := Stmt{ID: id, Span: span, HasDst: true, Dst: dst, Rvalue: rv}
	stmt.Events.Uses = rvalueUses(rv)
	stmt.Events.CandidateLastUses = append([]place.PlaceID(nil), stmt.Events.Uses...)
	fl.curBlock().Stmts = append(fl.curBlock().Stmts, stmt)
	return &fl.curBlock().Stmts[len(fl.curBlock().Stmts)-1]
}

// emitNoDst appends a discarded-result statement (a call used for its side
// effect, §3: "StmtExprStmt").
func (fl *funcLowerer) emitNoDst(span source.Span, rv Rvalue) *Stmt {
	id := fl.nextStmt
	fl.nextStmt++
	stmt := Stmt{ID: id, Span: span, HasDst: false, Rvalue: rv}
	stmt.Events.Uses = rvalueUses(rv)
	stmt.Events.CandidateLastUses = append([]place.PlaceID(nil), stmt.Events.Uses...)
	fl.curBlock().Stmts = append(fl.curBlock().Stmts, stmt)
	return &fl.curBlock().Stmts[len(fl.curBlock().Stmts)-1]
}

// rvalueUses collects every place an Rvalue reads (§3 Events.uses:
// "non-consuming reads"). Package borrow's event extraction refines a
// subset of these into Moves via backward liveness (§4.7.3); lowering never
// makes that distinction itself.
func rvalueUses(rv Rvalue) []place.PlaceID {
	var out []place.PlaceID
	add := func(op Operand) {
		if op.Kind == OperandPlace {
			out = append(out, op.Place)
		}
	}
	switch rv.Kind {
	case RvalueMove, RvalueCopy, RvalueRef:
		if rv.Place != place.NoPlaceID {
			out = append(out, rv.Place)
		}
	case RvalueUnaryOp:
		add(rv.Operand)
	case RvalueBinOp:
		add(rv.Left)
		add(rv.Right)
	case RvalueCall, RvalueHostCall:
		for _, a := range rv.Args {
			add(a)
		}
	case RvalueConst:
	}
	return out
}

// newTemp allocates a fresh function-local place to hold an intermediate
// result (§3: "introducing fresh temporaries (indistinguishable from user
// locals for downstream analysis; the language exposes no temporaries)").
func (fl *funcLowerer) newTemp() place.PlaceID {
	idx, err := safecast.Conv[uint32](len(fl.fn.Locals))
	if err != nil {
		fl.reportBug("hir: too many locals in one function")
	}
	fl.fn.Locals = append(fl.fn.Locals, Local{Name: "", Root: place.Root{Kind: place.RootLocal, ID: idx}})
	return fl.internPlace(place.Place{Root: place.Root{Kind: place.RootLocal, ID: idx}})
}

// lowerRvalue lowers the right-hand side of a Decl/Mutation statement
// (§4.6's "borrow intent recording"): a bare place read under the `~=`
// marker produces Ref{Mutable}, a plain bind produces Ref{Shared}, and
// anything else (literal, runtime arithmetic, call, struct literal,
// template) lowers to its natural Rvalue, emitting any helper statements
// it needs into the current block first.
func (fl *funcLowerer) lowerRvalue(e *ast.Expr, mutableMarker bool) Rvalue {
	if e == nil {
		return Rvalue{Kind: RvalueConst}
	}
	switch e.Kind {
	case ast.ExprPlace:
		kind := BorrowShared
		if mutableMarker {
			kind = BorrowMutable
		}
		return Rvalue{Kind: RvalueRef, Place: fl.internPlace(e.Place), RefKind: kind}
	case ast.ExprCall, ast.ExprStructLit:
		// Bind the call result directly into dst instead of routing through
		// an intermediate temporary + Copy — lowerOperand's own temp
		// materialization exists for call results nested inside a larger
		// expression, which this position isn't.
		return fl.lowerCallLike(*e)
	default:
		op := fl.lowerOperand(*e)
		if op.Kind == OperandPlace {
			return Rvalue{Kind: RvalueCopy, Place: op.Place}
		}
		return Rvalue{Kind: RvalueConst, Const: op.Const}
	}
}

// lowerRvalueExpr lowers an expression used purely for its side effect
// (§4.6 StmtExprStmt): only Call/HostCall ever reach this position.
func (fl *funcLowerer) lowerRvalueExpr(e ast.Expr) Rvalue {
	switch e.Kind {
	case ast.ExprCall:
		return fl.lowerCall(e)
	default:
		fl.reportBug("hir: non-call expression statement reached lowering")
		return Rvalue{Kind: RvalueConst}
	}
}

func (fl *funcLowerer) lowerCall(e ast.Expr) Rvalue {
	args := make([]Operand, 0, len(e.Args))
	for i := range e.Args {
		args = append(args, fl.lowerOperand(e.Args[i]))
	}
	kind := RvalueCall
	if e.IsHostCall {
		kind = RvalueHostCall
	}
	return Rvalue{Kind: kind, CalleeSym: e.CalleeSym, CalleeName: e.CalleeName, Args: args}
}

// lowerOperand reduces e to a single three-address Operand, emitting any
// statements needed to linearize nested computation (§4.6 Linearization).
// A bare literal or place read needs nothing extra; everything else binds
// to a fresh temporary.
func (fl *funcLowerer) lowerOperand(e ast.Expr) Operand {
	switch e.Kind {
	case ast.ExprLiteral:
		return Operand{Kind: OperandConst, Type: e.Type, Const: e.Lit}
	case ast.ExprPlace:
		return Operand{Kind: OperandPlace, Type: e.Type, Place: fl.internPlace(e.Place)}
	case ast.ExprRuntime:
		return fl.lowerRPN(e.RPN, e.Type, e.Span)
	case ast.ExprCall, ast.ExprStructLit:
		rv := fl.lowerCallLike(e)
		tmp := fl.newTemp()
		fl.emit(e.Span, tmp, rv)
		return Operand{Kind: OperandPlace, Type: e.Type, Place: tmp}
	case ast.ExprRef:
		tmp := fl.newTemp()
		fl.emit(e.Span, tmp, Rvalue{Kind: RvalueRef, Place: fl.internPlace(e.Place), RefKind: BorrowShared})
		return Operand{Kind: OperandPlace, Type: e.Type, Place: tmp}
	case ast.ExprTemplateConcat:
		// Every template either fully folds to ExprLiteral or is rewritten
		// to an ExprCall against a synthesized template function by the AST
		// builder (§4.5); a surviving ExprTemplateConcat here would be a
		// builder bug, not a lowering one.
		fl.reportBug("hir: unresolved template reached lowering")
		return Operand{Kind: OperandConst, Type: e.Type}
	default:
		fl.reportBug("hir: unhandled expression kind")
		return Operand{Kind: OperandConst, Type: e.Type}
	}
}

func (fl *funcLowerer) lowerCallLike(e ast.Expr) Rvalue {
	if e.Kind == ast.ExprCall {
		return fl.lowerCall(e)
	}
	// ExprStructLit: the core has no dedicated struct-literal Rvalue
	// variant (§3 only names Move/Copy/Ref/BinOp/Call/Const/HostCall); a
	// struct constructor is modeled as a call to its own (implicit)
	// constructor function. The AST builder sets only CalleeName for a
	// struct literal, so CalleeSym here is NoSymbolID.
	args := make([]Operand, 0, len(e.Args))
	for i := range e.Args {
		args = append(args, fl.lowerOperand(e.Args[i]))
	}
	return Rvalue{Kind: RvalueCall, CalleeSym: e.CalleeSym, CalleeName: e.CalleeName, Args: args}
}

// lowerRPN reduces a postfix token vector left over from constant folding
// (§4.5: "those not foldable become RuntimeExpr(tokens_in_RPN)") into a
// chain of three-address BinOp/UnaryOp statements, using an explicit
// operand stack the way rpn.Eval does for pure constant evaluation.
func (fl *funcLowerer) lowerRPN(vec rpn.Vector, resultType types.TypeID, span source.Span) Operand {
	var stack []Operand
	push := func(op Operand) { stack = append(stack, op) }
	pop := func() Operand {
		if len(stack) == 0 {
			fl.reportBug("hir: malformed RPN vector reached lowering")
			return Operand{Kind: OperandConst}
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, tok := range vec {
		switch tok.Kind {
		case rpn.TokConstInt, rpn.TokConstFloat, rpn.TokConstBool, rpn.TokConstChar, rpn.TokConstString:
			push(Operand{Kind: OperandConst, Const: constFromToken(tok)})
		case rpn.TokPlace:
			push(Operand{Kind: OperandPlace, Place: place.PlaceID(tok.PlaceRef)})
		case rpn.TokOp:
			if isUnaryOp(tok.Op) {
				operand := pop()
				tmp := fl.newTemp()
				fl.emit(tok.Span, tmp, Rvalue{Kind: RvalueUnaryOp, UnaryOp: tok.Op, Operand: operand})
				push(Operand{Kind: OperandPlace, Place: tmp})
				continue
			}
			right := pop()
			left := pop()
			tmp := fl.newTemp()
			fl.emit(tok.Span, tmp, Rvalue{Kind: RvalueBinOp, BinOp: tok.Op, Left: left, Right: right})
			push(Operand{Kind: OperandPlace, Place: tmp})
		default:
			fl.reportBug("hir: unrecognized RPN token kind")
		}
	}
	if len(stack) != 1 {
		fl.reportBug("hir: RPN vector did not reduce to a single operand")
		return Operand{Kind: OperandConst}
	}
	result := stack[0]
	result.Type = resultType
	return result
}

func constFromToken(tok rpn.Token) rpn.Value {
	switch tok.Kind {
	case rpn.TokConstInt:
		return rpn.Value{Kind: rpn.ValueInt, Int: tok.IntVal}
	case rpn.TokConstFloat:
		return rpn.Value{Kind: rpn.ValueFloat, Float: tok.FloatVal}
	case rpn.TokConstBool:
		return rpn.Value{Kind: rpn.ValueBool, Bool: tok.BoolVal}
	case rpn.TokConstChar:
		return rpn.Value{Kind: rpn.ValueChar, Char: tok.CharVal}
	case rpn.TokConstString:
		return rpn.Value{Kind: rpn.ValueString, String: tok.StringVal}
	default:
		return rpn.Value{}
	}
}

func isUnaryOp(op rpn.OpKind) bool {
	switch op {
	case rpn.OpNeg, rpn.OpPlus, rpn.OpNot, rpn.OpToStr:
		return true
	default:
		return false
	}
}

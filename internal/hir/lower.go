package hir

import (
	"fortio.org/safecast"

	"beanstalk/internal/ast"
	"beanstalk/internal/diag"
	"beanstalk/internal/place"
	"beanstalk/internal/source"
	"beanstalk/internal/types"
)

// Lower converts a fully-built *ast.Module into a Program (§4.6). Every
// function is lowered independently and best-effort: a statement or
// expression kind this package does not handle is reported as a
// Compiler-kind diagnostic (not as HirUnsupportedConstruct) and lowering
// continues with the rest of the function, matching the driver's
// partial-analysis contract (§4.8) rather than aborting the whole module.
func Lower(mod *ast.Module, places *place.Interner, reporter diag.Reporter) *Program {
	prog := &Program{}
	if mod == nil {
		return prog
	}
	for _, fn := range mod.Functions {
		prog.Functions = append(prog.Functions, lowerFunction(fn, places, reporter))
	}
	for _, fn := range mod.TemplateFunctions {
		prog.Functions = append(prog.Functions, lowerFunction(fn, places, reporter))
	}
	if mod.Main != nil {
		prog.Main = lowerFunction(mod.Main, places, reporter)
	}
	return prog
}

// funcLowerer holds the mutable state of lowering one ast.Function body into
// a CFG. One funcLowerer is used per function, matching the teacher's own
// per-function funcLowerer in internal/mir/lower.go.
type funcLowerer struct {
	places *place.Interner
	report diag.Reporter

	fn       *Function
	blocks   []Block
	cur      BlockID
	nextStmt StmtID

	// scopes is a stack of owning-locals seen in each lexically nested
	// scope, used to compute the possible_drop set on a Return, Break, or
	// fallthrough scope exit (§4.6 Possible-drop insertion).
	scopes [][]place.PlaceID

	loops []loopCtx
}

// loopCtx names the two edges a Break/Continue inside a loop may target,
// plus scopeBase, the index in the scopes stack of the loop body's own
// scope — a Break/Continue unwinds that scope and every scope nested in it.
type loopCtx struct {
	continueTarget BlockID
	breakTarget    BlockID
	scopeBase      int
}

func lowerFunction(afn *ast.Function, places *place.Interner, reporter diag.Reporter) *Function {
	fn := &Function{
		Name:           afn.Name,
		Sym:            afn.Sym,
		Span:           afn.Span,
		Result:         afn.Result,
		ReturnsRef:     afn.ReturnsRef,
		ReturnParamIdx: afn.ReturnParamIdx,
	}
	for _, p := range afn.Params {
		fn.Params = append(fn.Params, Param{Name: p.Name, Type: p.Type, Mutable: p.Mutable, Root: p.Root})
	}
	for _, l := range afn.Locals {
		fn.Locals = append(fn.Locals, Local{Name: l.Name, Type: l.Type, Mutable: l.Mutable, Root: l.Root})
	}

	fl := &funcLowerer{places: places, report: reporter, fn: fn, nextStmt: 1}
	entry := fl.newBlock()
	fl.cur = entry
	fn.Entry = entry

	fl.pushScope()
	fl.lowerStmts(afn.Body)
	if !fl.curBlock().Terminated() {
		fl.terminateReturn(afn.Span, nil)
	}
	fl.popScope()

	fn.Blocks = fl.blocks
	fn.StmtCount = uint32(fl.nextStmt - 1)
	return fn
}

func (fl *funcLowerer) newBlock() BlockID {
	id, err := safecast.Conv[BlockID](len(fl.blocks))
	if err != nil {
		fl.reportBug("hir: too many blocks in one function")
	}
	fl.blocks = append(fl.blocks, Block{ID: id})
	return id
}

func (fl *funcLowerer) curBlock() *Block {
	return &fl.blocks[fl.cur]
}

func (fl *funcLowerer) setCur(id BlockID) { fl.cur = id }

// setTerm closes the current block with term, stamping it with the next
// sequential program point (§4.6).
func (fl *funcLowerer) setTerm(term Terminator) {
	term.ID = fl.nextStmt
	fl.nextStmt++
	fl.curBlock().Term = term
}

func (fl *funcLowerer) pushScope() { fl.scopes = append(fl.scopes, nil) }

func (fl *funcLowerer) popScope() []place.PlaceID {
	n := len(fl.scopes) - 1
	owned := fl.scopes[n]
	fl.scopes = fl.scopes[:n]
	return owned
}

// trackLocal records a newly-declared local's place in the innermost scope
// if its type owns heap data, so a later scope exit can flag it for
// possible_drop (Open Question 1: never elided statically).
func (fl *funcLowerer) trackLocal(id place.PlaceID, typ types.TypeID) {
	if len(fl.scopes) == 0 || !ownsHeap(typ) {
		return
	}
	top := len(fl.scopes) - 1
	fl.scopes[top] = append(fl.scopes[top], id)
}

func ownsHeap(id types.TypeID) bool {
	// The caller-supplied type interner isn't threaded through funcLowerer
	// (locals/params already carry resolved TypeIDs, not Type values), so
	// this conservatively treats every TypeID other than NoTypeID as
	// potentially owning, primitive types included: a local of type Int is
	// tracked for possible_drop just like an owned string.
	return id > types.NoTypeID
}

// pendingScopeDrops flattens every owning local declared across scopes
// [from:] of the scope stack, in declaration order, for a Return/Break edge
// that unwinds them.
func (fl *funcLowerer) pendingScopeDrops(from int) []place.PlaceID {
	var out []place.PlaceID
	for i := from; i < len(fl.scopes); i++ {
		out = append(out, fl.scopes[i]...)
	}
	return out
}

func (fl *funcLowerer) allScopeDrops() []place.PlaceID {
	return fl.pendingScopeDrops(0)
}

func (fl *funcLowerer) reportBug(msg string) {
	if fl.report != nil {
		fl.report.Report(diag.Compiler(msg))
	}
}

func (fl *funcLowerer) internPlace(p place.Place) place.PlaceID {
	return fl.places.Intern(p)
}

func (fl *funcLowerer) lowerStmts(stmts []ast.Stmt) {
	for i := range stmts {
		if fl.curBlock().Terminated() {
			return
		}
		fl.lowerStmt(&stmts[i])
	}
}

func (fl *funcLowerer) lowerStmt(st *ast.Stmt) {
	switch st.Kind {
	case ast.StmtDecl:
		fl.lowerDecl(st)
	case ast.StmtMutation:
		fl.lowerMutation(st)
	case ast.StmtIf:
		fl.lowerIf(st)
	case ast.StmtWhile:
		fl.lowerWhile(st)
	case ast.StmtLoop:
		fl.lowerLoop(st)
	case ast.StmtBreak:
		fl.lowerBreak(st)
	case ast.StmtContinue:
		fl.lowerContinue(st)
	case ast.StmtReturn:
		fl.lowerReturn(st)
	case ast.StmtExprStmt:
		fl.lowerExprStmt(st)
	default:
		fl.reportBug("hir: unhandled statement kind")
	}
}

func (fl *funcLowerer) lowerDecl(st *ast.Stmt) {
	dst := fl.internPlace(st.Target)
	rv := fl.lowerRvalue(st.Value, st.Mutable)
	fl.emit(st.Span, dst, rv)
	fl.trackLocal(dst, st.Value.Type)
}

func (fl *funcLowerer) lowerMutation(st *ast.Stmt) {
	dst := fl.internPlace(st.Target)
	rv := fl.lowerRvalue(st.Value, st.Mutable)
	stmt := fl.emit(st.Span, dst, rv)
	stmt.Events.Reassigns = append(stmt.Events.Reassigns, dst)
}

func (fl *funcLowerer) lowerExprStmt(st *ast.Stmt) {
	if st.Call == nil {
		return
	}
	rv := fl.lowerRvalueExpr(*st.Call)
	fl.emitNoDst(st.Span, rv)
}

func (fl *funcLowerer) lowerIf(st *ast.Stmt) {
	cond := fl.lowerOperand(*st.Cond)
	thenBlk := fl.newBlock()
	elseBlk := fl.newBlock()
	joinBlk := NoBlockID

	fl.setTerm(Terminator{Kind: TermIf, Cond: cond, Then: thenBlk, Else: elseBlk})

	fl.setCur(thenBlk)
	fl.pushScope()
	fl.lowerStmts(st.Then)
	thenOwned := fl.popScope()
	if !fl.curBlock().Terminated() {
		if joinBlk == NoBlockID {
			joinBlk = fl.newBlock()
		}
		fl.setTerm(Terminator{Kind: TermGoto, Target: joinBlk, Drops: thenOwned})
	}

	fl.setCur(elseBlk)
	fl.pushScope()
	fl.lowerStmts(st.Else)
	elseOwned := fl.popScope()
	if !fl.curBlock().Terminated() {
		if joinBlk == NoBlockID {
			joinBlk = fl.newBlock()
		}
		fl.setTerm(Terminator{Kind: TermGoto, Target: joinBlk, Drops: elseOwned})
	}

	if joinBlk == NoBlockID {
		// Both arms diverge (return/break/continue on every path); nothing
		// falls through, so lowering simply leaves cur pointed at a
		// terminated block and the caller's "already terminated" check
		// skips emitting anything further in the enclosing block.
		fl.setCur(elseBlk)
		return
	}
	fl.setCur(joinBlk)
}

func (fl *funcLowerer) lowerWhile(st *ast.Stmt) {
	header := fl.newBlock()
	body := fl.newBlock()
	exit := fl.newBlock()

	fl.setTerm(Terminator{Kind: TermGoto, Target: header})
	fl.setCur(header)
	cond := fl.lowerOperand(*st.Cond)
	fl.setTerm(Terminator{Kind: TermIf, Cond: cond, Then: body, Else: exit})

	fl.setCur(body)
	fl.pushScope()
	fl.loops = append(fl.loops, loopCtx{continueTarget: header, breakTarget: exit, scopeBase: len(fl.scopes) - 1})
	fl.lowerStmts(st.Body)
	fl.loops = fl.loops[:len(fl.loops)-1]
	owned := fl.popScope()
	if !fl.curBlock().Terminated() {
		fl.setTerm(Terminator{Kind: TermGoto, Target: header, Drops: owned})
	}

	fl.setCur(exit)
}

func (fl *funcLowerer) lowerLoop(st *ast.Stmt) {
	header := fl.newBlock()
	exit := fl.newBlock()

	fl.setTerm(Terminator{Kind: TermGoto, Target: header})
	fl.setCur(header)
	fl.pushScope()
	fl.loops = append(fl.loops, loopCtx{continueTarget: header, breakTarget: exit, scopeBase: len(fl.scopes) - 1})
	fl.lowerStmts(st.Body)
	fl.loops = fl.loops[:len(fl.loops)-1]
	owned := fl.popScope()
	if !fl.curBlock().Terminated() {
		fl.setTerm(Terminator{Kind: TermGoto, Target: header, Drops: owned})
	}

	fl.setCur(exit)
}

func (fl *funcLowerer) lowerBreak(st *ast.Stmt) {
	if len(fl.loops) == 0 {
		fl.reportBug("hir: break outside a loop reached lowering")
		return
	}
	l := fl.loops[len(fl.loops)-1]
	drops := fl.pendingScopeDrops(l.scopeBase)
	fl.setTerm(Terminator{Kind: TermGoto, Target: l.breakTarget, Drops: drops})
}

func (fl *funcLowerer) lowerContinue(st *ast.Stmt) {
	if len(fl.loops) == 0 {
		fl.reportBug("hir: continue outside a loop reached lowering")
		return
	}
	l := fl.loops[len(fl.loops)-1]
	drops := fl.pendingScopeDrops(l.scopeBase)
	fl.setTerm(Terminator{Kind: TermGoto, Target: l.continueTarget, Drops: drops})
}

func (fl *funcLowerer) lowerReturn(st *ast.Stmt) {
	fl.terminateReturn(st.Span, st.RetValue)
}

// terminateReturn closes the current block with a Return terminator,
// attaching every owning local still in scope as a possible_drop (§4.6:
// "on Return... attach advisory possible_drop(place) events").
func (fl *funcLowerer) terminateReturn(span source.Span, retValue *ast.Expr) {
	term := Terminator{Kind: TermReturn, Drops: fl.allScopeDrops()}
	if retValue != nil {
		term.HasValue = true
		term.Value = fl.lowerOperand(*retValue)
	}
	fl.setTerm(term)
	_ = span
}

package borrow

import (
	"testing"

	"beanstalk/internal/diag"
	"beanstalk/internal/hir"
	"beanstalk/internal/place"
)

// newLocal interns a bare local place root and returns its PlaceID.
func newLocal(places *place.Interner, id uint32) place.PlaceID {
	return places.Intern(place.Place{Root: place.Root{Kind: place.RootLocal, ID: id}})
}

// oneBlockFn builds a single-block function body: stmts followed by term,
// whose Stmt/Terminator IDs the caller numbers sequentially from 1.
func oneBlockFn(name string, stmts []hir.Stmt, term hir.Terminator) *hir.Function {
	return &hir.Function{
		Name:      name,
		Locals:    make([]hir.Local, 8),
		Blocks:    []hir.Block{{ID: 0, Stmts: stmts, Term: term}},
		Entry:     0,
		StmtCount: uint32(len(stmts)) + 1,
	}
}

// TestTwoMutableBorrowsConflict exercises the straight-line case: `a ~= x;
// b ~= x;` (two live mutable refs to the same place) must always be a hard
// BorrowConflictMutMut error regardless of policy.
func TestTwoMutableBorrowsConflict(t *testing.T) {
	places := place.NewInterner()
	x := newLocal(places, 0)

	stmts := []hir.Stmt{
		{ID: 1, HasDst: true, Dst: newLocal(places, 1),
			Rvalue: hir.Rvalue{Kind: hir.RvalueRef, Place: x, RefKind: hir.BorrowMutable},
			Events: hir.Events{Uses: []place.PlaceID{x}}},
		{ID: 2, HasDst: true, Dst: newLocal(places, 2),
			Rvalue: hir.Rvalue{Kind: hir.RvalueRef, Place: x, RefKind: hir.BorrowMutable},
			Events: hir.Events{Uses: []place.PlaceID{x}}},
	}
	term := hir.Terminator{ID: 3, Kind: hir.TermReturn}
	fn := oneBlockFn("conflict", stmts, term)

	var bag diag.Bag
	checkFunction(fn, places, DefaultPolicy(), diag.BagReporter{Bag: &bag})

	if !bag.HasErrors() {
		t.Fatalf("expected a hard conflict error, got none")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.BorrowConflictMutMut {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected BorrowConflictMutMut, got %+v", bag.Items())
	}
}

// TestSharedBorrowsDoNotConflict: two shared refs to the same place are
// always fine, no matter how many are live at once.
func TestSharedBorrowsDoNotConflict(t *testing.T) {
	places := place.NewInterner()
	x := newLocal(places, 0)

	stmts := []hir.Stmt{
		{ID: 1, HasDst: true, Dst: newLocal(places, 1),
			Rvalue: hir.Rvalue{Kind: hir.RvalueRef, Place: x, RefKind: hir.BorrowShared},
			Events: hir.Events{Uses: []place.PlaceID{x}}},
		{ID: 2, HasDst: true, Dst: newLocal(places, 2),
			Rvalue: hir.Rvalue{Kind: hir.RvalueRef, Place: x, RefKind: hir.BorrowShared},
			Events: hir.Events{Uses: []place.PlaceID{x}}},
	}
	term := hir.Terminator{ID: 3, Kind: hir.TermReturn}
	fn := oneBlockFn("no_conflict", stmts, term)

	var bag diag.Bag
	checkFunction(fn, places, DefaultPolicy(), diag.BagReporter{Bag: &bag})

	if bag.HasErrors() {
		t.Fatalf("expected no conflict, got %+v", bag.Items())
	}
}

// TestLastUseRefinesToMove: a Copy that is the place's only/last use (no
// successor re-reads it) should be refined to a move, not flagged as a
// conflict or reported as a copy in the facts.
func TestLastUseRefinesToMove(t *testing.T) {
	places := place.NewInterner()
	x := newLocal(places, 0)
	y := newLocal(places, 1)

	stmts := []hir.Stmt{
		{ID: 1, HasDst: true, Dst: y,
			Rvalue: hir.Rvalue{Kind: hir.RvalueCopy, Place: x},
			Events: hir.Events{Uses: []place.PlaceID{x}, CandidateLastUses: []place.PlaceID{x}}},
	}
	term := hir.Terminator{ID: 2, Kind: hir.TermReturn, HasValue: true,
		Value: hir.Operand{Kind: hir.OperandPlace, Place: y}}
	fn := oneBlockFn("last_use", stmts, term)

	facts := checkFunction(fn, places, DefaultPolicy(), diag.NopReporter{})
	sf := facts.Stmts[1]
	if sf == nil || !sf.RefinedMove || sf.MovedPlace != x {
		t.Fatalf("expected stmt 1 to refine to a move of x, got %+v", sf)
	}
}

// TestUseAfterMove: reading x after an explicit move of x must be flagged.
// (A Copy followed by another read of x is never refined to a move, since
// x is still live after it.)
func TestUseAfterMove(t *testing.T) {
	places := place.NewInterner()
	x := newLocal(places, 0)
	y := newLocal(places, 1)
	z := newLocal(places, 2)

	stmts := []hir.Stmt{
		{ID: 1, HasDst: true, Dst: y,
			Rvalue: hir.Rvalue{Kind: hir.RvalueMove, Place: x},
			Events: hir.Events{Uses: []place.PlaceID{x}, CandidateLastUses: []place.PlaceID{x}}},
		{ID: 2, HasDst: true, Dst: z,
			Rvalue: hir.Rvalue{Kind: hir.RvalueCopy, Place: x},
			Events: hir.Events{Uses: []place.PlaceID{x}}},
	}
	term := hir.Terminator{ID: 3, Kind: hir.TermReturn}
	fn := oneBlockFn("use_after_move", stmts, term)

	var bag diag.Bag
	checkFunction(fn, places, DefaultPolicy(), diag.BagReporter{Bag: &bag})

	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.BorrowUseAfterMove {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected BorrowUseAfterMove, got %+v", bag.Items())
	}
}

// TestMoveWhileBorrowed: moving x while a mutable ref to x is still live
// must be a hard error.
func TestMoveWhileBorrowed(t *testing.T) {
	places := place.NewInterner()
	x := newLocal(places, 0)
	r := newLocal(places, 1)
	y := newLocal(places, 2)

	stmts := []hir.Stmt{
		{ID: 1, HasDst: true, Dst: r,
			Rvalue: hir.Rvalue{Kind: hir.RvalueRef, Place: x, RefKind: hir.BorrowMutable},
			Events: hir.Events{Uses: []place.PlaceID{x}}},
		{ID: 2, HasDst: true, Dst: y,
			Rvalue: hir.Rvalue{Kind: hir.RvalueCopy, Place: x},
			Events: hir.Events{Uses: []place.PlaceID{x}, CandidateLastUses: []place.PlaceID{x}}},
	}
	term := hir.Terminator{ID: 3, Kind: hir.TermReturn, HasValue: true,
		Value: hir.Operand{Kind: hir.OperandPlace, Place: r}}
	fn := oneBlockFn("move_while_borrowed", stmts, term)

	var bag diag.Bag
	checkFunction(fn, places, DefaultPolicy(), diag.BagReporter{Bag: &bag})

	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.BorrowMoveWhileBorrowed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected BorrowMoveWhileBorrowed, got %+v", bag.Items())
	}
}

// TestHolderLastUseKillsLoan mirrors the worked example `data = 5; r =
// data; use(r); m_mut = data; m += 1`: r's shared loan on data must be
// killed at use(r) (r's own last use), not survive into the later mutable
// borrow of data, so the whole sequence reports no conflict.
func TestHolderLastUseKillsLoan(t *testing.T) {
	places := place.NewInterner()
	data := newLocal(places, 0)
	r := newLocal(places, 1)
	tmp := newLocal(places, 2)
	mMut := newLocal(places, 3)
	m := newLocal(places, 4)

	stmts := []hir.Stmt{
		{ID: 1, HasDst: true, Dst: data,
			Rvalue: hir.Rvalue{Kind: hir.RvalueConst}},
		{ID: 2, HasDst: true, Dst: r,
			Rvalue: hir.Rvalue{Kind: hir.RvalueRef, Place: data, RefKind: hir.BorrowShared},
			Events: hir.Events{Uses: []place.PlaceID{data}}},
		{ID: 3, HasDst: true, Dst: tmp,
			Rvalue: hir.Rvalue{Kind: hir.RvalueCopy, Place: r},
			Events: hir.Events{Uses: []place.PlaceID{r}, CandidateLastUses: []place.PlaceID{r}}},
		{ID: 4, HasDst: true, Dst: mMut,
			Rvalue: hir.Rvalue{Kind: hir.RvalueRef, Place: data, RefKind: hir.BorrowMutable},
			Events: hir.Events{Uses: []place.PlaceID{data}}},
		{ID: 5, HasDst: true, Dst: m,
			Rvalue: hir.Rvalue{Kind: hir.RvalueBinOp},
			Events: hir.Events{Uses: []place.PlaceID{m}, Reassigns: []place.PlaceID{m}}},
	}
	term := hir.Terminator{ID: 6, Kind: hir.TermReturn}
	fn := oneBlockFn("holder_last_use", stmts, term)

	var bag diag.Bag
	checkFunction(fn, places, DefaultPolicy(), diag.BagReporter{Bag: &bag})

	if bag.HasErrors() {
		t.Fatalf("expected r's loan to be killed at use(r), got %+v", bag.Items())
	}
}

// TestDynamicIndexConflictSoftens: a shared/mutable conflict whose alias
// determination passed through a dynamic index downgrades to a warning
// when the policy advertises GC fallback.
func TestDynamicIndexConflictSoftens(t *testing.T) {
	places := place.NewInterner()
	base := place.Place{Root: place.Root{Kind: place.RootLocal, ID: 0}}
	dyn := places.Intern(base.DynamicIndex())

	stmts := []hir.Stmt{
		{ID: 1, HasDst: true, Dst: newLocal(places, 1),
			Rvalue: hir.Rvalue{Kind: hir.RvalueRef, Place: dyn, RefKind: hir.BorrowShared},
			Events: hir.Events{Uses: []place.PlaceID{dyn}}},
		{ID: 2, HasDst: true, Dst: newLocal(places, 2),
			Rvalue: hir.Rvalue{Kind: hir.RvalueRef, Place: dyn, RefKind: hir.BorrowMutable},
			Events: hir.Events{Uses: []place.PlaceID{dyn}}},
	}
	term := hir.Terminator{ID: 3, Kind: hir.TermReturn}
	fn := oneBlockFn("dynamic_index", stmts, term)

	var bag diag.Bag
	checkFunction(fn, places, DefaultPolicy(), diag.BagReporter{Bag: &bag})

	for _, d := range bag.Items() {
		if d.Code == diag.BorrowSoftDynamicIndex && d.Severity == diag.SevWarning {
			return
		}
	}
	t.Fatalf("expected a softened BorrowSoftDynamicIndex warning, got %+v", bag.Items())
}

package borrow

import (
	"beanstalk/internal/diag"
	"beanstalk/internal/hir"
	"beanstalk/internal/place"
)

// checker bundles everything one function's conflict pass needs so its
// three checks (fresh-loan conflict, move-while-borrowed, use-after-move)
// don't have to thread eight parameters through each other.
type checker struct {
	g        *funcGraph
	assign   loanAssignment
	lr       *livenessResult
	lf       *loanFlowResult
	mo       *movedOutResult
	places   *place.Interner
	policy   Policy
	reporter diag.Reporter
}

// detectConflicts runs all three §4.7 diagnostic checks over one function's
// already-computed dataflow, reporting through c.reporter as it goes.
func (c *checker) detectConflicts() {
	for _, id := range c.g.order {
		c.checkFreshLoan(id)
		c.checkMoveWhileBorrowed(id)
		c.checkUseAfterMove(id)
	}
}

// checkFreshLoan looks for a conflict between a loan minted at id and every
// loan already live immediately beforehand (§4.7.4: "a conflict exists
// when two live loans over overlapping places are not both Shared").
func (c *checker) checkFreshLoan(id hir.StmtID) {
	lid, ok := c.assign.byNode[id]
	if !ok {
		return
	}
	fresh := c.assign.byID[lid]
	n := c.g.nodes[id]

	for _, otherID := range c.lf.liveIn[id].bits() {
		other := c.assign.byID[otherID]
		if other.Owner == fresh.Owner && other.ID == fresh.ID {
			continue
		}
		if !c.places.MayAlias(fresh.Owner, other.Owner) {
			continue
		}
		if fresh.Kind != hir.BorrowMutable && other.Kind != hir.BorrowMutable {
			continue // two shared loans over the same data never conflict
		}
		c.reportConflict(n, fresh, other)
	}
}

func (c *checker) reportConflict(n *node, fresh, other Loan) {
	if fresh.Kind == hir.BorrowMutable && other.Kind == hir.BorrowMutable {
		d := diag.BorrowChecker(diag.BorrowConflictMutMut, n.span,
			"mutable borrow conflicts with another live mutable borrow of an overlapping place")
		c.reporter.Report(d)
		return
	}

	// One side shared, one mutable. An exact conflict (neither place's
	// projection chain goes through a dynamic index) is certain at compile
	// time and stays a hard error; a conflict that only exists because a
	// dynamic index was conservatively treated as aliasing everything
	// (§3: "dynamic index: conservatively aliases") is eligible for the
	// soft/GC-managed downgrade (§4.7.7).
	if c.dynamicIndexDerived(fresh.Owner, other.Owner) {
		d := diag.BorrowChecker(diag.BorrowSoftDynamicIndex, n.span,
			"borrow conflict inferred from a conservative dynamic-index alias")
		if c.policy.GCFallbackAvailable {
			d = d.Soften()
		}
		c.reporter.Report(d)
		return
	}

	d := diag.BorrowChecker(diag.BorrowConflictSharedMut, n.span,
		"mutable borrow conflicts with a live shared borrow of an overlapping place")
	c.reporter.Report(d)
}

// dynamicIndexDerived reports whether a and b can only be proven to overlap
// because one of their projection chains contains a dynamic index — i.e.
// the aliasing is a conservative approximation, not a structural certainty.
func (c *checker) dynamicIndexDerived(a, b place.PlaceID) bool {
	pa, ok := c.places.Lookup(a)
	if !ok {
		return false
	}
	pb, ok := c.places.Lookup(b)
	if !ok {
		return false
	}
	return hasDynamicIndex(pa) || hasDynamicIndex(pb)
}

func hasDynamicIndex(p place.Place) bool {
	for _, proj := range p.Projs {
		if proj.Kind == place.ProjIndex && proj.Index == place.IndexDynamic {
			return true
		}
	}
	return false
}

// checkMoveWhileBorrowed flags moving a place while some loan still
// observes it (§4.7.5): the move is only safe once every borrow of that
// place has ended.
func (c *checker) checkMoveWhileBorrowed(id hir.StmtID) {
	n := c.g.nodes[id]
	moved, ok := movedPlace(n, c.lr)
	if !ok {
		return
	}
	for _, otherID := range c.lf.liveIn[id].bits() {
		other := c.assign.byID[otherID]
		if !c.places.MayAlias(moved, other.Owner) {
			continue
		}
		d := diag.BorrowChecker(diag.BorrowMoveWhileBorrowed, n.span,
			"value moved while a borrow of it is still live")
		c.reporter.Report(d)
		return
	}
}

// checkUseAfterMove flags reading a place that structurally overlaps one
// moved out of on some path reaching this node (§4.7.5: "if a uses[s] place
// intersects moved_out (structurally), error") — a move of p.name must
// still be caught by a later read of the whole place p, so membership is
// tested via MayAlias rather than exact PlaceID equality.
func (c *checker) checkUseAfterMove(id hir.StmtID) {
	n := c.g.nodes[id]
	in := c.mo.in[id]
	for _, p := range n.uses {
		for moved := range in {
			if !c.places.MayAlias(p, moved) {
				continue
			}
			d := diag.BorrowChecker(diag.BorrowUseAfterMove, n.span,
				"use of a value that was already moved")
			c.reporter.Report(d)
			break
		}
	}
}

package borrow

import (
	"beanstalk/internal/hir"
	"beanstalk/internal/place"
)

// loanAssignment maps each loan-creating node (an Rvalue of kind RvalueRef)
// to the LoanID minted there (§3: "a loan begins at the statement that
// creates the reference").
type loanAssignment struct {
	loans  []Loan
	byID   map[LoanID]Loan
	byNode map[hir.StmtID]LoanID
}

// assignLoans walks the CFG in program order so LoanIDs are dense,
// sequential, and stable across runs (§4.7.8 determinism note) — the exact
// traversal order doesn't matter for correctness, only for reproducibility.
func assignLoans(g *funcGraph) loanAssignment {
	assign := loanAssignment{byID: make(map[LoanID]Loan), byNode: make(map[hir.StmtID]LoanID)}
	next := LoanID(1)
	for _, id := range g.order {
		n := g.nodes[id]
		if !n.hasRval || n.rvalue.Kind != hir.RvalueRef {
			continue
		}
		l := Loan{ID: next, Owner: n.rvalue.Place, Kind: n.rvalue.RefKind, Origin: id}
		if n.hasDst {
			l.Holder, l.HasHolder = n.dst, true
		}
		assign.loans = append(assign.loans, l)
		assign.byID[l.ID] = l
		assign.byNode[id] = l.ID
		next++
	}
	return assign
}

// movedPlace reports the place a node consumes by move, after liveness
// refinement: either an explicit RvalueMove (never produced by lowering
// itself, kept for completeness) or a Copy this function's last-use
// refinement proved is really a move (§4.7.3).
func movedPlace(n *node, lr *livenessResult) (place.PlaceID, bool) {
	if n.hasRval && n.rvalue.Kind == hir.RvalueMove {
		return n.rvalue.Place, true
	}
	if p, ok := lr.isRefinedMove(n.id); ok {
		return p, true
	}
	return place.NoPlaceID, false
}

// loanFlowResult is the §4.7.4 forward loan-liveness dataflow's fixpoint:
// which loans are alive immediately before/after each program point.
type loanFlowResult struct {
	liveIn, liveOut map[hir.StmtID]bitset
}

// computeLoanFlow runs the forward bitset dataflow over loans. It must run
// after computeLiveness: kill[n] is defined in terms of the places this node
// moves or reassigns post-refinement (§4.7.2: "kill[s] = { loan_id :
// loan.owner may_alias any place in events[s].moves ∪ events[s].reassigns
// }"), and that fact only exists once the backward liveness pass has
// decided which CandidateLastUses are real last uses.
//
// A loan is killed either through its Owner (the place it borrows from) or
// its Holder (the reference place the borrow was assigned to): retiring a
// borrow through the holder's own last use is what lets `r = data; use(r);
// data ~= ...` see r's loan die at use(r) instead of surviving past it.
func computeLoanFlow(g *funcGraph, assign loanAssignment, lr *livenessResult, places *place.Interner) *loanFlowResult {
	n := len(assign.loans)

	gen := make(map[hir.StmtID]bitset, len(g.nodes))
	kill := make(map[hir.StmtID]bitset, len(g.nodes))
	for id, nd := range g.nodes {
		gb := newBitset(n)
		if lid, ok := assign.byNode[id]; ok {
			gb.set(lid)
		}
		gen[id] = gb

		killedPlaces := append([]place.PlaceID{}, nd.reassigns...)
		if moved, ok := movedPlace(nd, lr); ok {
			killedPlaces = append(killedPlaces, moved)
		}

		kb := newBitset(n)
		for _, l := range assign.loans {
			for _, p := range killedPlaces {
				if places.MayAlias(l.Owner, p) || (l.HasHolder && places.MayAlias(l.Holder, p)) {
					kb.set(l.ID)
					break
				}
			}
		}
		kill[id] = kb
	}

	liveIn := make(map[hir.StmtID]bitset, len(g.nodes))
	liveOut := make(map[hir.StmtID]bitset, len(g.nodes))
	for id := range g.nodes {
		liveIn[id] = newBitset(n)
		liveOut[id] = newBitset(n)
	}

	changed := true
	for changed {
		changed = false
		for _, id := range g.order {
			nd := g.nodes[id]
			in := newBitset(n)
			for _, p := range nd.preds {
				in.or(in, liveOut[p])
			}
			out := newBitset(n)
			out.or(in, gen[id])
			out.andNot(out, kill[id])

			if !in.equal(liveIn[id]) || !out.equal(liveOut[id]) {
				changed = true
			}
			liveIn[id] = in
			liveOut[id] = out
		}
	}

	return &loanFlowResult{liveIn: liveIn, liveOut: liveOut}
}

// movedOutResult is the forward MAY-dataflow over places that tracks
// "moved on at least one path reaching this point" (§4.7.5 use-after-move):
// a place reassigned after being moved re-enters scope and is cleared.
//
// Simplification: the same MAY set also approximates possible_drop
// liveness in check.go (a drop is treated as redundant once a place might
// have been moved on any incoming path, not only when it was moved on
// every path). A MUST/intersection variant would be more precise for drop
// elision but the spec only requires possible_drop to be advisory.
type movedOutResult struct {
	in, out map[hir.StmtID]placeSet
}

func computeMovedOut(g *funcGraph, lr *livenessResult) *movedOutResult {
	in := make(map[hir.StmtID]placeSet, len(g.nodes))
	out := make(map[hir.StmtID]placeSet, len(g.nodes))
	for id := range g.nodes {
		in[id] = placeSet{}
		out[id] = placeSet{}
	}

	changed := true
	for changed {
		changed = false
		for _, id := range g.order {
			nd := g.nodes[id]
			inSet := placeSet{}
			for _, p := range nd.preds {
				unionInto(inSet, out[p])
			}
			outSet := inSet.clone()
			if moved, ok := movedPlace(nd, lr); ok {
				outSet[moved] = struct{}{}
			}
			for _, r := range nd.reassigns {
				delete(outSet, r)
			}

			if !inSet.equal(in[id]) || !outSet.equal(out[id]) {
				changed = true
			}
			in[id] = inSet
			out[id] = outSet
		}
	}

	return &movedOutResult{in: in, out: out}
}

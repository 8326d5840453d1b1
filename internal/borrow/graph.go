package borrow

import (
	"beanstalk/internal/hir"
	"beanstalk/internal/place"
	"beanstalk/internal/source"
)

// node is one CFG program point (§4.7.1: "one CFG node per statement"),
// covering both ordinary Stmts and a block's own Terminator — the
// terminator's ID (added to hir.Terminator precisely for this) makes it a
// node like any other, so branch conditions and return values participate
// in the same liveness/loan dataflow as everything else.
type node struct {
	id    hir.StmtID
	span  source.Span
	uses  []place.PlaceID
	// reassigns is empty for a terminator; set only on a Stmt with HasDst.
	reassigns []place.PlaceID
	// candidateLastUses mirrors Events.CandidateLastUses on a Stmt node and
	// is empty on a terminator node (§4.6: terminators carry no Events).
	candidateLastUses []place.PlaceID
	// rvalue is the originating Stmt's Rvalue, or the zero value on a
	// terminator node; assignLoans (loanflow.go) consults it to tell a
	// fresh-loan node (RvalueRef) from a plain use.
	rvalue   hir.Rvalue
	hasRval  bool
	dst      place.PlaceID
	hasDst   bool
	drops    []place.PlaceID
	succs    []hir.StmtID
	preds    []hir.StmtID
}

// funcGraph is the CFG for one function, indexed by program point so the
// dataflow passes never need to walk hir.Block/hir.Stmt directly again.
type funcGraph struct {
	fn    *hir.Function
	nodes map[hir.StmtID]*node
	// order lists every program point in a reverse-postorder-friendly walk
	// (block order, statements before each block's terminator) — good
	// enough as the forward-pass default traversal and reversed for the
	// backward pass, since the HIR block list is already acyclic-forward
	// biased (loops only close via explicit back-edges through Goto).
	order []hir.StmtID
	entry hir.StmtID
}

func (g *funcGraph) node(id hir.StmtID) *node {
	n, ok := g.nodes[id]
	if !ok {
		n = &node{id: id}
		g.nodes[id] = n
	}
	return n
}

// buildGraph walks every block of fn once, chaining statements to their
// in-block successor and wiring each terminator's out-edges to the target
// block(s)' first node (§4.7.1).
func buildGraph(fn *hir.Function) *funcGraph {
	g := &funcGraph{fn: fn, nodes: make(map[hir.StmtID]*node, fn.StmtCount+uint32(len(fn.Blocks)))}

	firstNode := func(b hir.BlockID) hir.StmtID {
		blk := &fn.Blocks[b]
		if len(blk.Stmts) > 0 {
			return blk.Stmts[0].ID
		}
		return blk.Term.ID
	}

	link := func(from, to hir.StmtID) {
		a, b := g.node(from), g.node(to)
		a.succs = append(a.succs, to)
		b.preds = append(b.preds, from)
	}

	for bi := range fn.Blocks {
		blk := &fn.Blocks[bi]
		for si := range blk.Stmts {
			s := &blk.Stmts[si]
			n := g.node(s.ID)
			n.span = s.Span
			n.uses = s.Events.Uses
			n.reassigns = s.Events.Reassigns
			n.candidateLastUses = s.Events.CandidateLastUses
			n.rvalue, n.hasRval = s.Rvalue, true
			n.dst, n.hasDst = s.Dst, s.HasDst
			g.order = append(g.order, s.ID)
			if si+1 < len(blk.Stmts) {
				link(s.ID, blk.Stmts[si+1].ID)
			} else {
				link(s.ID, blk.Term.ID)
			}
		}

		term := &blk.Term
		tn := g.node(term.ID)
		// Terminator carries no Span of its own (§3); fall back to the
		// function's span so a diagnostic anchored on a branch condition or
		// return value still points somewhere in the source.
		tn.span = fn.Span
		if len(blk.Stmts) > 0 {
			tn.span = blk.Stmts[len(blk.Stmts)-1].Span
		}
		tn.uses = termUses(*term)
		tn.drops = term.Drops
		g.order = append(g.order, term.ID)

		switch term.Kind {
		case hir.TermGoto:
			link(term.ID, firstNode(term.Target))
		case hir.TermIf:
			link(term.ID, firstNode(term.Then))
			link(term.ID, firstNode(term.Else))
		case hir.TermSwitch:
			for _, c := range term.SwitchCases {
				link(term.ID, firstNode(c.Target))
			}
			link(term.ID, firstNode(term.SwitchDefault))
		case hir.TermReturn, hir.TermNone:
			// no successors: function exit (or, for TermNone, a lowering bug
			// that dataflow can't do anything useful about anyway).
		}
	}

	g.entry = firstNode(fn.Entry)
	return g
}

// termUses collects the places a terminator reads (§4.7.2 extends Events'
// "uses" concept to terminators, since they carry no Events of their own).
func termUses(t hir.Terminator) []place.PlaceID {
	var out []place.PlaceID
	add := func(op hir.Operand) {
		if op.Kind == hir.OperandPlace {
			out = append(out, op.Place)
		}
	}
	switch t.Kind {
	case hir.TermIf:
		add(t.Cond)
	case hir.TermSwitch:
		add(t.SwitchValue)
	case hir.TermReturn:
		if t.HasValue {
			add(t.Value)
		}
	}
	return out
}

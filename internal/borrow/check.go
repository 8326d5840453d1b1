package borrow

import (
	"beanstalk/internal/diag"
	"beanstalk/internal/hir"
	"beanstalk/internal/place"
)

// Check runs the §4.7 borrow checker over every function in prog,
// independently (§5: functions never share mutable dataflow state), and
// returns the accumulated facts. Diagnostics are reported as they're found
// rather than collected here; callers that need "stop after this stage if
// there were errors" (§7) should give reporter a diag.Bag and inspect
// Bag.HasErrors after Check returns.
func Check(prog *hir.Program, places *place.Interner, policy Policy, reporter diag.Reporter) Facts {
	facts := Facts{Functions: make(map[string]*FunctionFacts, len(prog.Functions)+1)}

	run := func(fn *hir.Function) {
		facts.Functions[fn.Name] = checkFunction(fn, places, policy, reporter)
	}
	for _, fn := range prog.Functions {
		run(fn)
	}
	if prog.Main != nil {
		run(prog.Main)
	}
	return facts
}

func checkFunction(fn *hir.Function, places *place.Interner, policy Policy, reporter diag.Reporter) *FunctionFacts {
	g := buildGraph(fn)
	lr := computeLiveness(g)
	assign := assignLoans(g)
	lf := computeLoanFlow(g, assign, lr, places)
	mo := computeMovedOut(g, lr)

	c := &checker{g: g, assign: assign, lr: lr, lf: lf, mo: mo, places: places, policy: policy, reporter: reporter}
	c.detectConflicts()

	ff := newFunctionFacts()
	ff.Loans = assign.loans
	for _, id := range g.order {
		n := g.nodes[id]
		sf := ff.stmt(id)

		if p, ok := lr.isRefinedMove(id); ok {
			sf.RefinedMove = true
			sf.MovedPlace = p
		}
		sf.LiveLoans = lf.liveOut[id].bits()

		if len(n.drops) > 0 {
			sf.DropActive = make(map[place.PlaceID]bool, len(n.drops))
			moved := mo.in[id]
			for _, d := range n.drops {
				// A drop is redundant once the place may already have been
				// moved out of on some path reaching this point (see the
				// movedOutResult doc comment for the MAY-vs-MUST tradeoff).
				sf.DropActive[d] = !moved.has(d)
			}
		}
	}
	return ff
}

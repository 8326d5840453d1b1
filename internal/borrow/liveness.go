package borrow

import (
	"beanstalk/internal/hir"
	"beanstalk/internal/place"
)

// placeSet is a small set of PlaceIDs. Liveness domains are per-function
// local/param counts, typically far smaller than the loan counts bitset.go
// is sized for, so a map is simpler here and correctness, not speed, is
// what the backward fixpoint needs (grounded on the teacher's
// internal/mir/async_liveness.go localSet, generalized from block-local to
// per-place granularity).
type placeSet map[place.PlaceID]struct{}

func (s placeSet) has(p place.PlaceID) bool { _, ok := s[p]; return ok }

func (s placeSet) clone() placeSet {
	out := make(placeSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

func (s placeSet) equal(o placeSet) bool {
	if len(s) != len(o) {
		return false
	}
	for p := range s {
		if !o.has(p) {
			return false
		}
	}
	return true
}

func unionInto(dst placeSet, src placeSet) {
	for p := range src {
		dst[p] = struct{}{}
	}
}

// livenessResult holds, per program point, the place-liveness facts needed
// by both the loan-liveness pass (kill depends on post-refinement moves)
// and conflict detection.
type livenessResult struct {
	// liveIn/liveOut map each node to the places live immediately before
	// and after it executes.
	liveIn, liveOut map[hir.StmtID]placeSet
	// refinedMove records, per node, the place whose Copy this node's
	// Rvalue reads that was proven to be its last use along every forward
	// path — i.e. safe to treat as a Move (§4.7.3).
	refinedMove map[hir.StmtID]place.PlaceID
}

func (lr *livenessResult) isRefinedMove(id hir.StmtID) (place.PlaceID, bool) {
	p, ok := lr.refinedMove[id]
	return p, ok
}

// computeLiveness runs the §4.7.3 backward dataflow to a fixpoint, then
// walks every node once more to decide which CandidateLastUses entries are
// real last uses: a place named in a node's CandidateLastUses that is not
// live immediately after that node is refined to a Move.
func computeLiveness(g *funcGraph) *livenessResult {
	liveIn := make(map[hir.StmtID]placeSet, len(g.nodes))
	liveOut := make(map[hir.StmtID]placeSet, len(g.nodes))
	for id := range g.nodes {
		liveIn[id] = placeSet{}
		liveOut[id] = placeSet{}
	}

	changed := true
	for changed {
		changed = false
		for i := len(g.order) - 1; i >= 0; i-- {
			id := g.order[i]
			n := g.nodes[id]

			out := placeSet{}
			for _, s := range n.succs {
				unionInto(out, liveIn[s])
			}

			in := placeSet{}
			for _, u := range n.uses {
				in[u] = struct{}{}
			}
			kill := make(placeSet, len(n.reassigns))
			for _, r := range n.reassigns {
				kill[r] = struct{}{}
			}
			for p := range out {
				if !kill.has(p) {
					in[p] = struct{}{}
				}
			}

			if !in.equal(liveIn[id]) || !out.equal(liveOut[id]) {
				changed = true
			}
			liveIn[id] = in
			liveOut[id] = out
		}
	}

	refined := make(map[hir.StmtID]place.PlaceID)
	for id, n := range g.nodes {
		if len(n.candidateLastUses) == 0 {
			continue
		}
		out := liveOut[id]
		for _, p := range n.candidateLastUses {
			if !out.has(p) {
				refined[id] = p
				break
			}
		}
	}

	return &livenessResult{liveIn: liveIn, liveOut: liveOut, refinedMove: refined}
}

package depsort

import "slices"

// Topo is the result of a topological sort attempt.
type Topo struct {
	Order   []int   // dependency-first linear order (if cyclic: only the files resolved before the cycle)
	Batches [][]int // waves of mutually-independent files, dependency order
	Cyclic  bool
	Cycle   []int // file indices still unresolved (participants in the cycle)
}

// Sort runs Kahn's algorithm over g, breaking ties by ascending file index
// (callers sort files lexicographically beforehand for reproducible builds,
// per §4.4: "deterministic tie-breaking by lexicographic identifier order").
func Sort(g Graph) Topo {
	n := len(g.Deps)
	indeg := make([]int, n)
	for i := range g.Deps {
		indeg[i] = len(g.Deps[i])
	}

	topo := Topo{Order: make([]int, 0, n)}
	current := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			current = append(current, i)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]int, 0)
		for _, u := range batch {
			topo.Order = append(topo.Order, u)
			visited++
			for _, v := range g.Dependents[u] {
				indeg[v]--
				if indeg[v] == 0 {
					next = append(next, v)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != n {
		topo.Cyclic = true
		for i := 0; i < n; i++ {
			if indeg[i] > 0 {
				topo.Cycle = append(topo.Cycle, i)
			}
		}
		slices.Sort(topo.Cycle)
	}
	return topo
}

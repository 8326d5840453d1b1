package depsort

import (
	"testing"

	"beanstalk/internal/diag"
	"beanstalk/internal/header"
)

func imp(path string) header.Import { return header.Import{ModulePath: path} }

func TestSortOrdersDependenciesFirst(t *testing.T) {
	files := []FileNode{
		{Path: "a", Imports: []header.Import{imp("b")}},
		{Path: "b", Imports: []header.Import{imp("c")}},
		{Path: "c"},
	}
	g := BuildGraph(files)
	topo := Sort(g)
	if topo.Cyclic {
		t.Fatalf("expected acyclic graph")
	}
	pos := make(map[int]int, len(topo.Order))
	for i, idx := range topo.Order {
		pos[idx] = i
	}
	if pos[2] > pos[1] || pos[1] > pos[0] {
		t.Fatalf("expected c before b before a, got order %v", topo.Order)
	}
}

func TestSortDetectsCycle(t *testing.T) {
	files := []FileNode{
		{Path: "a", Imports: []header.Import{imp("b")}},
		{Path: "b", Imports: []header.Import{imp("a")}},
	}
	g := BuildGraph(files)
	topo := Sort(g)
	if !topo.Cyclic {
		t.Fatalf("expected cyclic graph")
	}
	if len(topo.Cycle) != 2 {
		t.Fatalf("expected both files flagged as cycle participants, got %v", topo.Cycle)
	}

	bag := diag.NewBag()
	ReportCycle(files, nil, topo, diag.BagReporter{Bag: bag})
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one File diagnostic, got %d", bag.Len())
	}
}

func TestSortIsDeterministic(t *testing.T) {
	files := []FileNode{
		{Path: "x", Imports: []header.Import{imp("y"), imp("z")}},
		{Path: "y"},
		{Path: "z"},
	}
	g1 := BuildGraph(files)
	g2 := BuildGraph(files)
	t1 := Sort(g1)
	t2 := Sort(g2)
	if len(t1.Order) != len(t2.Order) {
		t.Fatalf("order length mismatch")
	}
	for i := range t1.Order {
		if t1.Order[i] != t2.Order[i] {
			t.Fatalf("non-deterministic order: %v vs %v", t1.Order, t2.Order)
		}
	}
}

package place

import "testing"

func localRoot(id uint32) Root { return Root{Kind: RootLocal, ID: id} }

func TestOverlapDisjointFields(t *testing.T) {
	base := Place{Root: localRoot(1)}
	name := base.Field(0)
	age := base.Field(1)
	if Overlap(name, age) {
		t.Fatalf("disjoint fields must not overlap")
	}
	if Overlap(name, name) != true {
		t.Fatalf("a place always overlaps itself")
	}
}

func TestOverlapPrefix(t *testing.T) {
	base := Place{Root: localRoot(1)}
	whole := base
	field := base.Field(0)
	if !Overlap(whole, field) {
		t.Fatalf("whole struct and one of its fields must overlap")
	}
}

func TestOverlapDifferentRoots(t *testing.T) {
	a := Place{Root: localRoot(1)}
	b := Place{Root: localRoot(2)}
	if Overlap(a, b) {
		t.Fatalf("distinct roots must never overlap")
	}
}

func TestOverlapConstIndexDisjoint(t *testing.T) {
	base := Place{Root: localRoot(1)}
	e0 := base.ConstIndex(0)
	e1 := base.ConstIndex(1)
	if Overlap(e0, e1) {
		t.Fatalf("distinct constant indices must not overlap")
	}
}

func TestOverlapDynamicIndexConservative(t *testing.T) {
	base := Place{Root: localRoot(1)}
	e0 := base.ConstIndex(0)
	dyn := base.DynamicIndex()
	if !Overlap(e0, dyn) {
		t.Fatalf("dynamic index must conservatively alias constant siblings")
	}
}

func TestInternerDedupAndMayAlias(t *testing.T) {
	in := NewInterner()
	base := Place{Root: localRoot(1)}
	nameA := in.Intern(base.Field(0))
	nameB := in.Intern(base.Field(0))
	if nameA != nameB {
		t.Fatalf("structurally identical places must dedup to the same PlaceID")
	}
	age := in.Intern(base.Field(1))
	if in.MayAlias(nameA, age) {
		t.Fatalf("p.name and p.age must not alias")
	}
	if !in.MayAlias(nameA, nameA) {
		t.Fatalf("a place always aliases itself")
	}
}

func TestInternerAliasClassShortCircuitsDifferentRoots(t *testing.T) {
	in := NewInterner()
	a := in.Intern(Place{Root: localRoot(1)})
	b := in.Intern(Place{Root: localRoot(2)})
	if in.AliasClass(a) == in.AliasClass(b) {
		t.Fatalf("distinct roots must land in distinct alias classes")
	}
	if in.MayAlias(a, b) {
		t.Fatalf("distinct roots must never alias")
	}
}

func TestAliasCacheEvictsLRU(t *testing.T) {
	c := newAliasCache(2)
	c.put(1, 2, true)
	c.put(3, 4, false)
	c.put(5, 6, true) // evicts (1,2), the least recently used
	if _, ok := c.get(1, 2); ok {
		t.Fatalf("expected (1,2) to be evicted")
	}
	if v, ok := c.get(3, 4); !ok || v != false {
		t.Fatalf("expected (3,4) to survive with value false")
	}
	if v, ok := c.get(5, 6); !ok || v != true {
		t.Fatalf("expected (5,6) present")
	}
}

func TestAliasCacheOrderIndependent(t *testing.T) {
	c := newAliasCache(4)
	c.put(10, 20, true)
	if v, ok := c.get(20, 10); !ok || !v {
		t.Fatalf("cache lookup must be symmetric in argument order")
	}
}

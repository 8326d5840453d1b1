package symbols

import (
	"testing"

	"beanstalk/internal/diag"
	"beanstalk/internal/source"
)

func TestDeclareAndLookupInnermostWins(t *testing.T) {
	in := source.NewInterner()
	x := in.Intern("x")

	table := NewTable()
	r := NewResolver(table, nil)

	mod := r.Enter(ScopeModule, source.Span{})
	r.Declare(x, source.Span{}, SymbolConstant, 0)

	fn := r.Enter(ScopeFunction, source.Span{})
	r.Declare(x, source.Span{}, SymbolParam, 0)

	id, ok := r.Lookup(x)
	if !ok {
		t.Fatalf("expected lookup to find x")
	}
	sym := table.Symbols.Get(id)
	if sym == nil || sym.Kind != SymbolParam {
		t.Fatalf("expected innermost (param) binding to win, got %v", sym)
	}

	r.Leave(fn)
	id, ok = r.Lookup(x)
	if !ok || table.Symbols.Get(id).Kind != SymbolConstant {
		t.Fatalf("expected outer (constant) binding after leaving function scope")
	}
	r.Leave(mod)
}

func TestDeclareDuplicateInSameScopeReported(t *testing.T) {
	in := source.NewInterner()
	x := in.Intern("x")

	table := NewTable()
	bag := diag.NewBag()
	r := NewResolver(table, diag.BagReporter{Bag: bag})

	r.Enter(ScopeModule, source.Span{})
	_, ok1 := r.Declare(x, source.Span{}, SymbolConstant, 0)
	_, ok2 := r.Declare(x, source.Span{}, SymbolConstant, 0)
	if !ok1 || ok2 {
		t.Fatalf("expected second declaration of same name to fail")
	}
	if bag.Len() != 1 {
		t.Fatalf("expected one duplicate-symbol diagnostic, got %d", bag.Len())
	}
}

func TestSeedEntryPreludeReservesMain(t *testing.T) {
	in := source.NewInterner()
	mainName := in.Intern("Main")

	table := NewTable()
	bag := diag.NewBag()
	r := NewResolver(table, diag.BagReporter{Bag: bag})

	mod := r.Enter(ScopeModule, source.Span{})
	SeedEntryPrelude(r, mod, mainName, source.Span{})

	_, ok := r.Declare(mainName, source.Span{}, SymbolFunction, 0)
	if ok {
		t.Fatalf("expected user declaration of Main to be rejected by the seeded reservation")
	}
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic from the rejected redeclaration, got %d", bag.Len())
	}

	id, found := r.Lookup(mainName)
	if !found {
		t.Fatalf("expected Main to resolve to the seeded symbol")
	}
	sym := table.Symbols.Get(id)
	if sym.Flags&FlagReserved == 0 {
		t.Fatalf("expected the resolved Main symbol to carry FlagReserved")
	}
}

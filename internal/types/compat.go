package types

// IsCopy reports whether values of this type are implicit-copy (no move
// semantics apply): primitives and references are Copy; owned strings,
// structs, choices and collections are not (§3/§4.5 "Plain `=` is a shared
// reference bind; it never moves" — Copy-ness only matters for scalar
// rvalues, not for place binds).
func (in *Interner) IsCopy(id TypeID) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindInt, KindFloat, KindBool, KindChar, KindReference:
		return true
	default:
		return false
	}
}

// SameKind reports whether a and b share the same top-level Kind, the
// baseline check binary operators require (§4.5: "binary operators require
// matching sides").
func (in *Interner) SameKind(a, b TypeID) bool {
	ta, oka := in.Lookup(a)
	tb, okb := in.Lookup(b)
	if !oka || !okb {
		return false
	}
	return ta.Kind == tb.Kind
}

// Equal reports structural equality between two interned types. Because
// Intern deduplicates, this reduces to an ID comparison, but callers should
// use Equal rather than assume that so alias resolution (if added later)
// has one place to live.
func (in *Interner) Equal(a, b TypeID) bool {
	return a == b
}

// Assignable reports whether a value of type src may be bound/assigned to a
// place declared with type dst, under the core's "no implicit numeric
// widening except within literal folding" rule (§4.5).
func (in *Interner) Assignable(dst, src TypeID) bool {
	if dst == src {
		return true
	}
	dt, okd := in.Lookup(dst)
	st, oks := in.Lookup(src)
	if !okd || !oks {
		return false
	}
	if dt.Kind == KindCoerceToString {
		// Template head context: "Mixed type coercions to string... are
		// allowed" (§4.5 edge case).
		switch st.Kind {
		case KindInt, KindFloat, KindBool, KindChar, KindOwnedString, KindStringSlice:
			return true
		default:
			return false
		}
	}
	return false
}

// CanHoldReferenceField reports whether a struct field of type fieldType is
// permitted, per the invariant "Struct fields may not themselves store
// references" (§3): every type but a reference is.
func CanHoldReferenceField(fieldType TypeID, in *Interner) bool {
	t, ok := in.Lookup(fieldType)
	if !ok {
		return true
	}
	return t.Kind != KindReference
}

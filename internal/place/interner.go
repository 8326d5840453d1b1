package place

// PlaceID identifies a structurally-interned Place.
type PlaceID uint32

// NoPlaceID marks the absence of a place.
const NoPlaceID PlaceID = 0

// AliasClassID groups Places that are known, by construction, to refer to
// disjoint roots from every other class (§4.2: "the interner additionally
// precomputes alias equivalence classes"). Two Places in different classes
// never alias; two in the same class require the full Overlap check.
type AliasClassID uint32

// Interner deduplicates Places behind stable PlaceIDs and assigns each a
// coarse AliasClassID keyed on root, so unrelated roots short-circuit
// without walking projection lists.
//
// Grounded on the teacher's internal/sema/borrow.go canonicalization map
// (paths map[placeKey][]PlaceSegment, keyed by a string built from the
// base and segment chain) — we replace the string key with a small struct
// key since Go structs with comparable fields make fine map keys directly,
// which the teacher could not do in the source language it was written in.
type Interner struct {
	byID    []Place
	index   map[placeKey]PlaceID
	classOf map[Root]AliasClassID
	nextCls AliasClassID

	cache *aliasCache
}

type placeKey struct {
	root  Root
	projs string // stable encoding of Projs; see encodeProjs
}

// NewInterner creates an empty place Interner with a bounded may_alias
// cache (~10,000 entries per §4.2).
func NewInterner() *Interner {
	return &Interner{
		byID:    []Place{{}},
		index:   make(map[placeKey]PlaceID),
		classOf: make(map[Root]AliasClassID),
		nextCls: 1,
		cache:   newAliasCache(10000),
	}
}

// Intern inserts p if not already present and returns its PlaceID.
func (in *Interner) Intern(p Place) PlaceID {
	key := placeKey{root: p.Root, projs: encodeProjs(p.Projs)}
	if id, ok := in.index[key]; ok {
		return id
	}
	id := PlaceID(len(in.byID))
	in.byID = append(in.byID, p)
	in.index[key] = id
	if _, ok := in.classOf[p.Root]; !ok {
		in.classOf[p.Root] = in.nextCls
		in.nextCls++
	}
	return id
}

// Lookup returns the Place for id, or false if id is invalid.
func (in *Interner) Lookup(id PlaceID) (Place, bool) {
	if int(id) <= 0 || int(id) >= len(in.byID) {
		return Place{}, false
	}
	return in.byID[id], true
}

// AliasClass returns the coarse alias class for id's root.
func (in *Interner) AliasClass(id PlaceID) AliasClassID {
	p, ok := in.Lookup(id)
	if !ok {
		return 0
	}
	return in.classOf[p.Root]
}

// MayAlias reports whether the two interned places may refer to
// overlapping storage, consulting the bounded LRU cache before falling
// back to the full structural Overlap check (§4.2).
func (in *Interner) MayAlias(a, b PlaceID) bool {
	if a == b {
		return true
	}
	ca, cb := in.AliasClass(a), in.AliasClass(b)
	if ca != cb {
		return false
	}
	if v, ok := in.cache.get(a, b); ok {
		return v
	}
	pa, okA := in.Lookup(a)
	pb, okB := in.Lookup(b)
	result := okA && okB && Overlap(pa, pb)
	in.cache.put(a, b, result)
	return result
}

func encodeProjs(projs []Proj) string {
	// Fixed-width encoding keeps distinct projections from colliding; Index
	// constants are varint-free since Places are shallow in practice.
	buf := make([]byte, 0, len(projs)*10)
	for _, p := range projs {
		buf = append(buf, byte(p.Kind))
		switch p.Kind {
		case ProjField:
			buf = append(buf, encodeInt(int64(p.FieldIdx))...)
		case ProjIndex:
			buf = append(buf, byte(p.Index))
			if p.Index == IndexConst {
				buf = append(buf, encodeInt(p.ConstIdx)...)
			}
		case ProjDeref:
		}
	}
	return string(buf)
}

func encodeInt(v int64) []byte {
	u := uint64(v)
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(u >> (8 * i))
	}
	return out
}

package source

// StringID uniquely identifies an interned string (identifier names, host
// call names, template captures, ...). It is the §4.2 "string interner"
// half of the component; the place interner lives in package place since it
// depends on package types.
type StringID uint32

// NoStringID marks the absence of an interned string.
const NoStringID StringID = 0

// Interner is an insert-only string→StringID table, used for the lifetime of
// a single compilation unit (§5: no cross-unit sharing).
type Interner struct {
	byID  []string
	index map[string]StringID
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern inserts s if new and returns its StringID; repeated interning of an
// equal string always returns the same ID.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}
	id := StringID(len(in.byID))
	// Copy to avoid retaining the caller's backing array.
	owned := string([]byte(s))
	in.byID = append(in.byID, owned)
	in.index[owned] = id
	return id
}

// Lookup returns the string for id, and whether id is valid.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) < 0 || int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup is Lookup but panics on an invalid ID; reserved for call sites
// that hold an ID they minted themselves.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: invalid StringID")
	}
	return s
}

// Len returns the number of interned strings, including the NoStringID slot.
func (in *Interner) Len() int { return len(in.byID) }

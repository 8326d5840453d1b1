// Package types implements the closed DataType model from spec.md §3:
// primitives, string slice, owned string, struct, choice, collection,
// reference, error, and the coerce-to-string template-head type.
package types

import "fmt"

// TypeID uniquely identifies a type inside the Interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the closed DataType variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindChar
	KindStringSlice // borrowed view over string data
	KindOwnedString
	KindStruct
	KindChoice
	KindCollection
	KindReference
	KindError
	KindCoerceToString // template-head coercion target
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindStringSlice:
		return "str"
	case KindOwnedString:
		return "string"
	case KindStruct:
		return "struct"
	case KindChoice:
		return "choice"
	case KindCollection:
		return "collection"
	case KindReference:
		return "ref"
	case KindError:
		return "error"
	case KindCoerceToString:
		return "coerce_to_string"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// RefMode distinguishes shared vs mutable references.
type RefMode uint8

const (
	RefShared RefMode = iota
	RefMutable
)

// StructField is one field of a struct type. Struct fields may never
// themselves store references (§3 invariant, enforced by the AST builder).
type StructField struct {
	Name string
	Type TypeID
}

// ChoiceVariant is one tagged-union arm, with an optional payload type.
type ChoiceVariant struct {
	Name       string
	HasPayload bool
	Payload    TypeID
}

// Type is a compact, interned type descriptor.
type Type struct {
	Kind Kind

	// KindInt/KindFloat: bit width (0 = platform default).
	Width uint8

	// KindStruct
	Name   string
	Fields []StructField

	// KindChoice
	Variants []ChoiceVariant

	// KindCollection's element type. A reference's target is in RefTo.
	Elem TypeID

	// KindCollection
	Mutable bool

	// KindReference
	RefTo TypeID
	Mode  RefMode
}

// Interner deduplicates Type descriptors behind stable TypeIDs.
type Interner struct {
	byID  []Type
	index map[string]TypeID
}

// NewInterner creates an Interner holding only the reserved NoTypeID slot;
// primitive types get their IDs on first Intern, like every other type.
func NewInterner() *Interner {
	in := &Interner{
		byID:  []Type{{Kind: KindInvalid}},
		index: make(map[string]TypeID),
	}
	return in
}

// Intern inserts t if not already present and returns its TypeID.
func (in *Interner) Intern(t Type) TypeID {
	key := structuralKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	id := TypeID(len(in.byID))
	in.byID = append(in.byID, t)
	in.index[key] = id
	return id
}

// Lookup returns the Type for id, or false if id is invalid.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if int(id) <= 0 || int(id) >= len(in.byID) {
		return Type{}, false
	}
	return in.byID[id], true
}

// SetFields backfills a struct type's field list after Intern reserved its
// TypeID. Struct/choice TypeIDs are assigned before their member list is
// known (the AST builder declares every type name before resolving any
// type's body, so forward references across declarations work), so the
// dedup key for KindStruct/KindChoice intentionally ignores Fields/Variants.
func (in *Interner) SetFields(id TypeID, fields []StructField) {
	if int(id) <= 0 || int(id) >= len(in.byID) {
		return
	}
	in.byID[id].Fields = fields
}

// SetVariants backfills a choice type's variant list; see SetFields.
func (in *Interner) SetVariants(id TypeID, variants []ChoiceVariant) {
	if int(id) <= 0 || int(id) >= len(in.byID) {
		return
	}
	in.byID[id].Variants = variants
}

// structuralKey produces a stable string key for deduplication; two equal
// Types (by Kind and the fields relevant to that Kind) always map to the
// same key regardless of construction order.
func structuralKey(t Type) string {
	switch t.Kind {
	case KindInt, KindFloat:
		return fmt.Sprintf("%d:%d", t.Kind, t.Width)
	case KindStringSlice, KindCollection:
		return fmt.Sprintf("%d:%d:%v", t.Kind, t.Elem, t.Mutable)
	case KindReference:
		return fmt.Sprintf("%d:%d:%d", t.Kind, t.RefTo, t.Mode)
	case KindStruct:
		return fmt.Sprintf("%d:struct:%s", t.Kind, t.Name)
	case KindChoice:
		return fmt.Sprintf("%d:choice:%s", t.Kind, t.Name)
	default:
		return fmt.Sprintf("%d", t.Kind)
	}
}

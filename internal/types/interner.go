package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for primitive types.
type Builtins struct {
	Invalid  TypeID
	Void     TypeID
	Bool     TypeID
	Char     TypeID
	Int      TypeID
	Long     TypeID
	Unsigned TypeID
	Float    TypeID
	Double   TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// It is not safe for concurrent mutation; callers that fan out keep one
// interner per goroutine.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	classes  []ClassInfo
	fns      []FnInfo
	fnIndex  map[fnKey]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:   make(map[typeKey]TypeID, 64),
		fnIndex: make(map[fnKey]TypeID, 64),
	}
	in.classes = append(in.classes, ClassInfo{}) // reserve 0 as invalid sentinel
	in.fns = append(in.fns, FnInfo{})
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Char = in.Intern(Type{Kind: KindChar})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Long = in.Intern(Type{Kind: KindLong})
	in.builtins.Unsigned = in.Intern(Type{Kind: KindUnsigned})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.Double = in.Intern(Type{Kind: KindDouble})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Builtin resolves a primitive type by its spelling.
func (in *Interner) Builtin(name string) (TypeID, bool) {
	switch name {
	case "void":
		return in.builtins.Void, true
	case "bool":
		return in.builtins.Bool, true
	case "char":
		return in.builtins.Char, true
	case "int":
		return in.builtins.Int, true
	case "long":
		return in.builtins.Long, true
	case "unsigned":
		return in.builtins.Unsigned, true
	case "float":
		return in.builtins.Float, true
	case "double":
		return in.builtins.Double, true
	}
	return NoTypeID, false
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	key := typeKey(t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if in == nil || id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports how many descriptors are stored, including the invalid sentinel.
func (in *Interner) Len() int {
	return len(in.types)
}

// WithCV returns id with the given top-level qualification added. Function
// and reference types ignore cv, matching the declarator grammar.
func (in *Interner) WithCV(id TypeID, cv CV) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || cv == CVNone {
		return id
	}
	switch tt.Kind {
	case KindFn, KindReference:
		return id
	}
	if tt.CV|cv == tt.CV {
		return id
	}
	tt.CV |= cv
	return in.Intern(tt)
}

// Unqualified strips top-level cv from id.
func (in *Interner) Unqualified(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.CV == CVNone {
		return id
	}
	tt.CV = CVNone
	return in.Intern(tt)
}

// Qualifiers returns the top-level cv of id.
func (in *Interner) Qualifiers(id TypeID) CV {
	tt, ok := in.Lookup(id)
	if !ok {
		return CVNone
	}
	return tt.CV
}

type typeKey struct {
	Kind      Kind
	Elem      TypeID
	Class     TypeID
	CV        CV
	Transient bool
	Payload   uint32
}

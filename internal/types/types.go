package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindChar
	KindInt
	KindLong
	KindUnsigned
	KindFloat
	KindDouble
	KindClass
	KindPointer
	KindReference
	KindMemberPointer
	KindFn
	KindWrapper
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindUnsigned:
		return "unsigned"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindClass:
		return "class"
	case KindPointer:
		return "pointer"
	case KindReference:
		return "reference"
	case KindMemberPointer:
		return "member pointer"
	case KindFn:
		return "fn"
	case KindWrapper:
		return "wrapper"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsPrimitive reports whether k names a builtin scalar (or void).
func (k Kind) IsPrimitive() bool {
	return k >= KindVoid && k <= KindDouble
}

// CV is the const/volatile qualification of an object type.
type CV uint8

const (
	CVNone     CV = 0
	CVConst    CV = 1 << 0
	CVVolatile CV = 1 << 1
)

// Const reports whether the const bit is set.
func (cv CV) Const() bool { return cv&CVConst != 0 }

// Volatile reports whether the volatile bit is set.
func (cv CV) Volatile() bool { return cv&CVVolatile != 0 }

func (cv CV) String() string {
	switch cv {
	case CVConst:
		return "const"
	case CVVolatile:
		return "volatile"
	case CVConst | CVVolatile:
		return "const volatile"
	default:
		return ""
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind      Kind
	Elem      TypeID // pointee / referent / member type / wrapped type
	Class     TypeID // owning class for member pointers
	CV        CV     // top-level object qualification
	Transient bool   // for references: && instead of &
	Payload   uint32 // slot in the per-kind info tables (classes, fns)
}

// Descriptor helpers ---------------------------------------------------------

// MakePointer describes T*.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeReference describes T& or T&& depending on the transient flag.
func MakeReference(elem TypeID, transient bool) Type {
	return Type{Kind: KindReference, Elem: elem, Transient: transient}
}

// MakeMemberPointer describes "elem class::*".
func MakeMemberPointer(elem, class TypeID) Type {
	return Type{Kind: KindMemberPointer, Elem: elem, Class: class}
}

// MakeWrapper describes a one-layer reference wrapper around elem.
func MakeWrapper(elem TypeID) Type {
	return Type{Kind: KindWrapper, Elem: elem}
}

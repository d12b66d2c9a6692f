package sig

import (
	"fmt"
	"slices"

	"calltraits/internal/types"
)

// RefMode is the receiver binding a signature demands.
type RefMode uint8

const (
	// RefNone places no constraint on the receiver.
	RefNone RefMode = 0
	// RefPersistent requires an lvalue-like receiver (&).
	RefPersistent RefMode = 1 << 0
	// RefTransient requires an rvalue-like receiver (&&).
	RefTransient RefMode = 1 << 1
)

// Valid reports whether m is one of the three legal modes.
func (m RefMode) Valid() bool {
	return m == RefNone || m == RefPersistent || m == RefTransient
}

func (m RefMode) String() string {
	switch m {
	case RefNone:
		return "none"
	case RefPersistent:
		return "persistent"
	case RefTransient:
		return "transient"
	default:
		return fmt.Sprintf("RefMode(%d)", m)
	}
}

// Descriptor is the decomposed shape of a callable. It is a plain value:
// two descriptors with equal fields are interchangeable.
type Descriptor struct {
	Const    bool
	Volatile bool
	Ref      RefMode
	Variadic bool
	NoThrow  bool
	Result   types.TypeID
	Params   []types.TypeID
}

// Arity is the number of fixed parameters.
func (d Descriptor) Arity() int {
	return len(d.Params)
}

// Param returns the i-th fixed parameter.
func (d Descriptor) Param(i int) (types.TypeID, error) {
	if i < 0 || i >= len(d.Params) {
		return types.NoTypeID, &ShapeError{
			Op:     "param",
			Want:   fmt.Sprintf("index below arity %d", len(d.Params)),
			Reason: fmt.Sprintf("index %d", i),
		}
	}
	return d.Params[i], nil
}

// IsPersistent reports an & receiver.
func (d Descriptor) IsPersistent() bool { return d.Ref == RefPersistent }

// IsTransient reports an && receiver.
func (d Descriptor) IsTransient() bool { return d.Ref == RefTransient }

// IsReference reports either receiver binding.
func (d Descriptor) IsReference() bool { return d.Ref != RefNone }

// Equal compares descriptors field by field.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Const == o.Const &&
		d.Volatile == o.Volatile &&
		d.Ref == o.Ref &&
		d.Variadic == o.Variadic &&
		d.NoThrow == o.NoThrow &&
		d.Result == o.Result &&
		slices.Equal(d.Params, o.Params)
}

// Clone returns a copy that shares nothing with d.
func (d Descriptor) Clone() Descriptor {
	d.Params = slices.Clone(d.Params)
	return d
}

// Qualifiers returns only the five qualifier axes.
func (d Descriptor) Qualifiers() Qualifiers {
	return Qualifiers{
		Const:    d.Const,
		Volatile: d.Volatile,
		Ref:      d.Ref,
		Variadic: d.Variadic,
		NoThrow:  d.NoThrow,
	}
}

// Qualifiers is the qualifier part of a descriptor, one row of the
// signature table.
type Qualifiers struct {
	Const    bool
	Volatile bool
	Ref      RefMode
	Variadic bool
	NoThrow  bool
}

// String spells the qualifiers the way a function type carries them.
func (q Qualifiers) String() string {
	if r, ok := rowFor(q); ok {
		return table[r].Qual.String()
	}
	return fmt.Sprintf("invalid qualifiers (ref=%s)", q.Ref)
}

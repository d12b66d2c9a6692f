package sig

import (
	"errors"

	"calltraits/internal/types"
)

// The predicate queries below never fail: a type that does not classify
// answers false, zero, NoTypeID or nil.

func describe(in *types.Interner, id types.TypeID) (Descriptor, bool) {
	c, err := Classify(in, id)
	if err != nil {
		return Descriptor{}, false
	}
	return c.Descriptor, true
}

// IsInvocable reports whether id classifies.
func IsInvocable(in *types.Interner, id types.TypeID) bool {
	_, ok := describe(in, id)
	return ok
}

func Arity(in *types.Interner, id types.TypeID) int {
	d, _ := describe(in, id)
	return d.Arity()
}

func IsConst(in *types.Interner, id types.TypeID) bool {
	d, _ := describe(in, id)
	return d.Const
}

func IsVolatile(in *types.Interner, id types.TypeID) bool {
	d, _ := describe(in, id)
	return d.Volatile
}

func IsVariadic(in *types.Interner, id types.TypeID) bool {
	d, _ := describe(in, id)
	return d.Variadic
}

func IsNoThrow(in *types.Interner, id types.TypeID) bool {
	d, _ := describe(in, id)
	return d.NoThrow
}

func IsPersistent(in *types.Interner, id types.TypeID) bool {
	d, _ := describe(in, id)
	return d.IsPersistent()
}

func IsTransient(in *types.Interner, id types.TypeID) bool {
	d, _ := describe(in, id)
	return d.IsTransient()
}

func IsReference(in *types.Interner, id types.TypeID) bool {
	d, _ := describe(in, id)
	return d.IsReference()
}

// Result returns the return type, or NoTypeID.
func Result(in *types.Interner, id types.TypeID) types.TypeID {
	d, _ := describe(in, id)
	return d.Result
}

// Params returns the fixed parameter list, or nil.
func Params(in *types.Interner, id types.TypeID) []types.TypeID {
	d, _ := describe(in, id)
	return d.Params
}

// Param is strict: id must classify and i must be below the arity.
func Param(in *types.Interner, id types.TypeID, i int) (types.TypeID, error) {
	c, err := Classify(in, id)
	if err != nil {
		return types.NoTypeID, err
	}
	p, err := c.Descriptor.Param(i)
	if err != nil {
		var se *ShapeError
		if errors.As(err, &se) {
			se.Type = id
			se.Label = types.Label(in, id)
		}
		return types.NoTypeID, err
	}
	return p, nil
}

// FunctionOf returns the resolved plain function type.
func FunctionOf(in *types.Interner, id types.TypeID) (types.TypeID, error) {
	c, err := Classify(in, id)
	if err != nil {
		return types.NoTypeID, err
	}
	return c.Function, nil
}

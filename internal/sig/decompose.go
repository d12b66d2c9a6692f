package sig

import (
	"fmt"
	"slices"

	"calltraits/internal/types"
)

// Decompose extracts the descriptor of a plain function type. Member
// pointers, classes with a call operator and indirections are not plain
// function types; Classify handles those.
func Decompose(in *types.Interner, fn types.TypeID) (Descriptor, error) {
	info, ok := in.FnInfo(in.Unqualified(fn))
	if !ok {
		return Descriptor{}, mismatch(in, "decompose", fn, "function type")
	}
	idx, ok := rowForQual(info.Qual)
	if !ok {
		err := mismatch(in, "decompose", fn, "function type")
		err.Reason = fmt.Sprintf("qualifier tail %#x has no signature row", uint8(info.Qual))
		return Descriptor{}, err
	}
	row := table[idx]
	return Descriptor{
		Const:    row.Const,
		Volatile: row.Volatile,
		Ref:      row.Ref,
		Variadic: row.Variadic,
		NoThrow:  row.NoThrow,
		Result:   info.Result,
		Params:   slices.Clone(info.Params),
	}, nil
}

// IsFunction reports whether id is a plain function type.
func IsFunction(in *types.Interner, id types.TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == types.KindFn
}

package sig

import (
	"fmt"

	"calltraits/internal/types"
)

// Synthesize builds the function type having exactly the shape of d. It is
// the right inverse of Decompose. d.Ref must be one of the three legal modes;
// anything else is a programming error and panics.
func Synthesize(in *types.Interner, d Descriptor) types.TypeID {
	idx, ok := rowFor(d.Qualifiers())
	if !ok {
		panic(fmt.Errorf("sig: synthesize: illegal reference mode %v", d.Ref))
	}
	return in.RegisterFn(d.Params, d.Result, table[idx].Qual)
}

// Make is a convenience over Synthesize for callers that hold the pieces.
func Make(in *types.Interner, q Qualifiers, result types.TypeID, params ...types.TypeID) types.TypeID {
	return Synthesize(in, Descriptor{
		Const:    q.Const,
		Volatile: q.Volatile,
		Ref:      q.Ref,
		Variadic: q.Variadic,
		NoThrow:  q.NoThrow,
		Result:   result,
		Params:   params,
	})
}

package types //nolint:revive

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
)

// FnQual is the qualifier tail of a function type as it is spelled:
// Ret(Args..., ...) const volatile & noexcept.
type FnQual uint8

const (
	FnConst FnQual = 1 << iota
	FnVolatile
	FnLRef
	FnRRef
	FnVariadic
	FnNoexcept

	fnQualMask = FnConst | FnVolatile | FnLRef | FnRRef | FnVariadic | FnNoexcept
)

// Valid reports whether q is spellable. A function is never both & and &&.
func (q FnQual) Valid() bool {
	if q&^fnQualMask != 0 {
		return false
	}
	return q&(FnLRef|FnRRef) != FnLRef|FnRRef
}

// Has reports whether every bit of flag is set.
func (q FnQual) Has(flag FnQual) bool {
	return q&flag == flag
}

// String renders the trailing qualifiers (without the variadic tail).
func (q FnQual) String() string {
	parts := make([]string, 0, 4)
	if q.Has(FnConst) {
		parts = append(parts, "const")
	}
	if q.Has(FnVolatile) {
		parts = append(parts, "volatile")
	}
	switch {
	case q.Has(FnLRef):
		parts = append(parts, "&")
	case q.Has(FnRRef):
		parts = append(parts, "&&")
	}
	if q.Has(FnNoexcept) {
		parts = append(parts, "noexcept")
	}
	return strings.Join(parts, " ")
}

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params []TypeID // Parameter types (in order); the variadic tail is not listed
	Result TypeID   // Return type
	Qual   FnQual
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(params []TypeID, result TypeID, qual FnQual) TypeID {
	if !qual.Valid() {
		panic(fmt.Errorf("types: invalid function qualifiers %#x", uint8(qual)))
	}
	key := makeFnKey(params, result, qual)
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	slot := in.appendFnInfo(FnInfo{
		Params: cloneTypeArgs(params),
		Result: result,
		Qual:   qual,
	})
	id := in.internRaw(Type{Kind: KindFn, Payload: slot})
	in.fnIndex[key] = id
	return id
}

// fnKey identifies a function type structurally; params packs the
// parameter ids as little-endian uint32s.
type fnKey struct {
	result TypeID
	qual   FnQual
	params string
}

func makeFnKey(params []TypeID, result TypeID, qual FnQual) fnKey {
	buf := make([]byte, 0, 4*len(params))
	for _, p := range params {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(p))
	}
	return fnKey{result: result, qual: qual, params: string(buf)}
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

func (in *Interner) appendFnInfo(info FnInfo) uint32 {
	in.fns = append(in.fns, FnInfo{
		Params: cloneTypeArgs(info.Params),
		Result: info.Result,
		Qual:   info.Qual,
	})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	return slot
}

func cloneTypeArgs(args []TypeID) []TypeID {
	if len(args) == 0 {
		return nil
	}
	return slices.Clone(args)
}

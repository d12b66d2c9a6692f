package sig

import "calltraits/internal/types"

// Row is one entry of the signature table: a qualifier combination paired
// with the function-type qualifier tail that spells it.
type Row struct {
	Const    bool
	Volatile bool
	Ref      RefMode
	Variadic bool
	NoThrow  bool
	Qual     types.FnQual
}

// Qualifiers projects the axes of the row.
func (r Row) Qualifiers() Qualifiers {
	return Qualifiers{Const: r.Const, Volatile: r.Volatile, Ref: r.Ref, Variadic: r.Variadic, NoThrow: r.NoThrow}
}

// TableSize is the number of legal qualifier combinations: 2 (const) x
// 2 (volatile) x 3 (reference mode) x 2 (variadic) x 2 (no-throw).
const TableSize = 48

// table is indexed by rowFor. Every legal combination is listed; there is
// no fallback row, so a qualifier tail missing here is a shape mismatch.
var table = [TableSize]Row{
	{Const: false, Volatile: false, Ref: RefNone, Variadic: false, NoThrow: false, Qual: 0},
	{Const: false, Volatile: false, Ref: RefNone, Variadic: false, NoThrow: true, Qual: types.FnNoexcept},
	{Const: false, Volatile: false, Ref: RefNone, Variadic: true, NoThrow: false, Qual: types.FnVariadic},
	{Const: false, Volatile: false, Ref: RefNone, Variadic: true, NoThrow: true, Qual: types.FnVariadic | types.FnNoexcept},
	{Const: false, Volatile: true, Ref: RefNone, Variadic: false, NoThrow: false, Qual: types.FnVolatile},
	{Const: false, Volatile: true, Ref: RefNone, Variadic: false, NoThrow: true, Qual: types.FnVolatile | types.FnNoexcept},
	{Const: false, Volatile: true, Ref: RefNone, Variadic: true, NoThrow: false, Qual: types.FnVolatile | types.FnVariadic},
	{Const: false, Volatile: true, Ref: RefNone, Variadic: true, NoThrow: true, Qual: types.FnVolatile | types.FnVariadic | types.FnNoexcept},
	{Const: true, Volatile: false, Ref: RefNone, Variadic: false, NoThrow: false, Qual: types.FnConst},
	{Const: true, Volatile: false, Ref: RefNone, Variadic: false, NoThrow: true, Qual: types.FnConst | types.FnNoexcept},
	{Const: true, Volatile: false, Ref: RefNone, Variadic: true, NoThrow: false, Qual: types.FnConst | types.FnVariadic},
	{Const: true, Volatile: false, Ref: RefNone, Variadic: true, NoThrow: true, Qual: types.FnConst | types.FnVariadic | types.FnNoexcept},
	{Const: true, Volatile: true, Ref: RefNone, Variadic: false, NoThrow: false, Qual: types.FnConst | types.FnVolatile},
	{Const: true, Volatile: true, Ref: RefNone, Variadic: false, NoThrow: true, Qual: types.FnConst | types.FnVolatile | types.FnNoexcept},
	{Const: true, Volatile: true, Ref: RefNone, Variadic: true, NoThrow: false, Qual: types.FnConst | types.FnVolatile | types.FnVariadic},
	{Const: true, Volatile: true, Ref: RefNone, Variadic: true, NoThrow: true, Qual: types.FnConst | types.FnVolatile | types.FnVariadic | types.FnNoexcept},
	{Const: false, Volatile: false, Ref: RefPersistent, Variadic: false, NoThrow: false, Qual: types.FnLRef},
	{Const: false, Volatile: false, Ref: RefPersistent, Variadic: false, NoThrow: true, Qual: types.FnLRef | types.FnNoexcept},
	{Const: false, Volatile: false, Ref: RefPersistent, Variadic: true, NoThrow: false, Qual: types.FnLRef | types.FnVariadic},
	{Const: false, Volatile: false, Ref: RefPersistent, Variadic: true, NoThrow: true, Qual: types.FnLRef | types.FnVariadic | types.FnNoexcept},
	{Const: false, Volatile: true, Ref: RefPersistent, Variadic: false, NoThrow: false, Qual: types.FnVolatile | types.FnLRef},
	{Const: false, Volatile: true, Ref: RefPersistent, Variadic: false, NoThrow: true, Qual: types.FnVolatile | types.FnLRef | types.FnNoexcept},
	{Const: false, Volatile: true, Ref: RefPersistent, Variadic: true, NoThrow: false, Qual: types.FnVolatile | types.FnLRef | types.FnVariadic},
	{Const: false, Volatile: true, Ref: RefPersistent, Variadic: true, NoThrow: true, Qual: types.FnVolatile | types.FnLRef | types.FnVariadic | types.FnNoexcept},
	{Const: true, Volatile: false, Ref: RefPersistent, Variadic: false, NoThrow: false, Qual: types.FnConst | types.FnLRef},
	{Const: true, Volatile: false, Ref: RefPersistent, Variadic: false, NoThrow: true, Qual: types.FnConst | types.FnLRef | types.FnNoexcept},
	{Const: true, Volatile: false, Ref: RefPersistent, Variadic: true, NoThrow: false, Qual: types.FnConst | types.FnLRef | types.FnVariadic},
	{Const: true, Volatile: false, Ref: RefPersistent, Variadic: true, NoThrow: true, Qual: types.FnConst | types.FnLRef | types.FnVariadic | types.FnNoexcept},
	{Const: true, Volatile: true, Ref: RefPersistent, Variadic: false, NoThrow: false, Qual: types.FnConst | types.FnVolatile | types.FnLRef},
	{Const: true, Volatile: true, Ref: RefPersistent, Variadic: false, NoThrow: true, Qual: types.FnConst | types.FnVolatile | types.FnLRef | types.FnNoexcept},
	{Const: true, Volatile: true, Ref: RefPersistent, Variadic: true, NoThrow: false, Qual: types.FnConst | types.FnVolatile | types.FnLRef | types.FnVariadic},
	{Const: true, Volatile: true, Ref: RefPersistent, Variadic: true, NoThrow: true, Qual: types.FnConst | types.FnVolatile | types.FnLRef | types.FnVariadic | types.FnNoexcept},
	{Const: false, Volatile: false, Ref: RefTransient, Variadic: false, NoThrow: false, Qual: types.FnRRef},
	{Const: false, Volatile: false, Ref: RefTransient, Variadic: false, NoThrow: true, Qual: types.FnRRef | types.FnNoexcept},
	{Const: false, Volatile: false, Ref: RefTransient, Variadic: true, NoThrow: false, Qual: types.FnRRef | types.FnVariadic},
	{Const: false, Volatile: false, Ref: RefTransient, Variadic: true, NoThrow: true, Qual: types.FnRRef | types.FnVariadic | types.FnNoexcept},
	{Const: false, Volatile: true, Ref: RefTransient, Variadic: false, NoThrow: false, Qual: types.FnVolatile | types.FnRRef},
	{Const: false, Volatile: true, Ref: RefTransient, Variadic: false, NoThrow: true, Qual: types.FnVolatile | types.FnRRef | types.FnNoexcept},
	{Const: false, Volatile: true, Ref: RefTransient, Variadic: true, NoThrow: false, Qual: types.FnVolatile | types.FnRRef | types.FnVariadic},
	{Const: false, Volatile: true, Ref: RefTransient, Variadic: true, NoThrow: true, Qual: types.FnVolatile | types.FnRRef | types.FnVariadic | types.FnNoexcept},
	{Const: true, Volatile: false, Ref: RefTransient, Variadic: false, NoThrow: false, Qual: types.FnConst | types.FnRRef},
	{Const: true, Volatile: false, Ref: RefTransient, Variadic: false, NoThrow: true, Qual: types.FnConst | types.FnRRef | types.FnNoexcept},
	{Const: true, Volatile: false, Ref: RefTransient, Variadic: true, NoThrow: false, Qual: types.FnConst | types.FnRRef | types.FnVariadic},
	{Const: true, Volatile: false, Ref: RefTransient, Variadic: true, NoThrow: true, Qual: types.FnConst | types.FnRRef | types.FnVariadic | types.FnNoexcept},
	{Const: true, Volatile: true, Ref: RefTransient, Variadic: false, NoThrow: false, Qual: types.FnConst | types.FnVolatile | types.FnRRef},
	{Const: true, Volatile: true, Ref: RefTransient, Variadic: false, NoThrow: true, Qual: types.FnConst | types.FnVolatile | types.FnRRef | types.FnNoexcept},
	{Const: true, Volatile: true, Ref: RefTransient, Variadic: true, NoThrow: false, Qual: types.FnConst | types.FnVolatile | types.FnRRef | types.FnVariadic},
	{Const: true, Volatile: true, Ref: RefTransient, Variadic: true, NoThrow: true, Qual: types.FnConst | types.FnVolatile | types.FnRRef | types.FnVariadic | types.FnNoexcept},
}

// byQual maps a qualifier tail back to its row, -1 when the tail has no row.
var byQual = func() [64]int8 {
	var idx [64]int8
	for i := range idx {
		idx[i] = -1
	}
	for i, r := range table {
		idx[r.Qual] = int8(i)
	}
	return idx
}()

// rowFor computes the table position of a qualifier combination.
func rowFor(q Qualifiers) (int, bool) {
	var ref int
	switch q.Ref {
	case RefNone:
		ref = 0
	case RefPersistent:
		ref = 1
	case RefTransient:
		ref = 2
	default:
		return 0, false
	}
	idx := ref * 16
	if q.Const {
		idx += 8
	}
	if q.Volatile {
		idx += 4
	}
	if q.Variadic {
		idx += 2
	}
	if q.NoThrow {
		idx++
	}
	return idx, true
}

func rowForQual(qual types.FnQual) (int, bool) {
	if int(qual) >= len(byQual) {
		return 0, false
	}
	idx := byQual[qual]
	if idx < 0 {
		return 0, false
	}
	return int(idx), true
}

// Table returns a copy of the signature table in index order.
func Table() []Row {
	rows := make([]Row, TableSize)
	copy(rows, table[:])
	return rows
}

// LookupQual returns the row spelled by qual.
func LookupQual(qual types.FnQual) (Row, bool) {
	idx, ok := rowForQual(qual)
	if !ok {
		return Row{}, false
	}
	return table[idx], true
}

// LookupQualifiers returns the row for a qualifier combination.
func LookupQualifiers(q Qualifiers) (Row, bool) {
	idx, ok := rowFor(q)
	if !ok {
		return Row{}, false
	}
	return table[idx], true
}

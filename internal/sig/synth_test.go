package sig

import (
	"errors"
	"testing"

	"calltraits/internal/types"
)

func allQualifiers() []Qualifiers {
	out := make([]Qualifiers, 0, TableSize)
	for _, ref := range []RefMode{RefNone, RefPersistent, RefTransient} {
		for _, c := range []bool{false, true} {
			for _, v := range []bool{false, true} {
				for _, va := range []bool{false, true} {
					for _, nt := range []bool{false, true} {
						out = append(out, Qualifiers{Const: c, Volatile: v, Ref: ref, Variadic: va, NoThrow: nt})
					}
				}
			}
		}
	}
	return out
}

func paramSets(b types.Builtins) [][]types.TypeID {
	return [][]types.TypeID{
		nil,
		{b.Int},
		{b.Char, b.Double},
		{b.Long, b.Bool, b.Float},
	}
}

func TestTableCoversEveryCombinationOnce(t *testing.T) {
	seen := make(map[types.FnQual]bool, TableSize)
	for i, row := range Table() {
		idx, ok := rowFor(row.Qualifiers())
		if !ok || idx != i {
			t.Fatalf("row %d sits at packed index %d", i, idx)
		}
		if !row.Qual.Valid() {
			t.Fatalf("row %d has invalid tail %#x", i, row.Qual)
		}
		if seen[row.Qual] {
			t.Fatalf("row %d repeats tail %q", i, row.Qual)
		}
		seen[row.Qual] = true
	}
	if len(seen) != TableSize {
		t.Fatalf("expected %d rows, got %d", TableSize, len(seen))
	}
}

func TestRowsMatchTheirTail(t *testing.T) {
	for i, row := range Table() {
		q := row.Qual
		if q.Has(types.FnConst) != row.Const ||
			q.Has(types.FnVolatile) != row.Volatile ||
			q.Has(types.FnLRef) != (row.Ref == RefPersistent) ||
			q.Has(types.FnRRef) != (row.Ref == RefTransient) ||
			q.Has(types.FnVariadic) != row.Variadic ||
			q.Has(types.FnNoexcept) != row.NoThrow {
			t.Fatalf("row %d is mis-paired: %+v", i, row)
		}
	}
}

func TestRoundTripAllCombinations(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	for _, q := range allQualifiers() {
		for _, params := range paramSets(b) {
			want := Descriptor{
				Const: q.Const, Volatile: q.Volatile, Ref: q.Ref,
				Variadic: q.Variadic, NoThrow: q.NoThrow,
				Result: b.Int, Params: params,
			}
			fn := Synthesize(in, want)
			got, err := Decompose(in, fn)
			if err != nil {
				t.Fatalf("decompose(%s): %v", types.Label(in, fn), err)
			}
			if !got.Equal(want) {
				t.Fatalf("round trip of %s: got %+v, want %+v", types.Label(in, fn), got, want)
			}
			if again := Synthesize(in, got); again != fn {
				t.Fatalf("synthesize is not deterministic for %s", types.Label(in, fn))
			}
		}
	}
}

func TestSynthesizeDistinctShapes(t *testing.T) {
	in := types.NewInterner()
	ret := in.Builtins().Void
	ids := make(map[types.TypeID]Qualifiers, TableSize)
	for _, q := range allQualifiers() {
		id := Make(in, q, ret)
		if prev, dup := ids[id]; dup {
			t.Fatalf("%+v and %+v synthesised the same type", prev, q)
		}
		ids[id] = q
	}
}

func TestSynthesizePanicsOnIllegalRefMode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for RefPersistent|RefTransient")
		}
	}()
	in := types.NewInterner()
	Synthesize(in, Descriptor{Ref: RefPersistent | RefTransient, Result: in.Builtins().Int})
}

func TestDecomposeRejectsNonFunctions(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	w := in.RegisterClass("W")
	fn := in.RegisterFn(nil, b.Int, 0)
	cases := []types.TypeID{
		b.Int,
		w,
		in.Intern(types.MakePointer(fn)),
		in.Intern(types.MakeReference(fn, false)),
		in.Intern(types.MakeMemberPointer(fn, w)),
		in.Intern(types.MakeMemberPointer(b.Int, w)),
		types.NoTypeID,
	}
	for _, id := range cases {
		_, err := Decompose(in, id)
		if !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("decompose(%s): expected shape mismatch, got %v", types.Label(in, id), err)
		}
		var se *ShapeError
		if !errors.As(err, &se) || se.Op != "decompose" {
			t.Errorf("decompose(%s): expected *ShapeError with op decompose, got %v", types.Label(in, id), err)
		}
	}
}

func TestDescriptorParam(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	d := Descriptor{Result: b.Void, Params: []types.TypeID{b.Int, b.Char}}
	if d.Arity() != 2 {
		t.Fatalf("arity = %d", d.Arity())
	}
	if p, err := d.Param(1); err != nil || p != b.Char {
		t.Fatalf("Param(1) = %v, %v", p, err)
	}
	if _, err := d.Param(2); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("Param(2) must be a shape mismatch, got %v", err)
	}
	if _, err := d.Param(-1); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("Param(-1) must be a shape mismatch, got %v", err)
	}
}

func TestDescriptorCloneIsIndependent(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	d := Descriptor{Result: b.Void, Params: []types.TypeID{b.Int}}
	c := d.Clone()
	c.Params[0] = b.Char
	if d.Params[0] != b.Int {
		t.Fatalf("clone shares parameter storage")
	}
	if d.Equal(c) {
		t.Fatalf("descriptors with different params compare equal")
	}
}

func TestQualifiersString(t *testing.T) {
	q := Qualifiers{Const: true, Ref: RefTransient, NoThrow: true}
	if got := q.String(); got != "const && noexcept" {
		t.Fatalf("String() = %q", got)
	}
}

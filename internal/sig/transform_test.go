package sig

import (
	"errors"
	"slices"
	"testing"

	"calltraits/internal/types"
)

var allAxes = []Axis{AxisConst, AxisVolatile, AxisVariadic, AxisNoThrow, AxisPersistent, AxisTransient}

func sampleSignatures(in *types.Interner) []types.TypeID {
	b := in.Builtins()
	out := make([]types.TypeID, 0, TableSize*2)
	for _, q := range allQualifiers() {
		out = append(out, Make(in, q, b.Int))
		out = append(out, Make(in, q, b.Double, b.Char, b.Int))
	}
	return out
}

func mustDecompose(t *testing.T, in *types.Interner, id types.TypeID) Descriptor {
	t.Helper()
	d, err := Decompose(in, id)
	if err != nil {
		t.Fatalf("decompose(%s): %v", types.Label(in, id), err)
	}
	return d
}

func TestAddRemoveIdempotent(t *testing.T) {
	in := types.NewInterner()
	for _, s := range sampleSignatures(in) {
		for _, axis := range allAxes {
			once, err := Add(in, s, axis)
			if err != nil {
				t.Fatalf("add %s: %v", axis, err)
			}
			twice, _ := Add(in, once, axis)
			if once != twice {
				t.Fatalf("add_%s not idempotent on %s", axis, types.Label(in, s))
			}
			once, err = Remove(in, s, axis)
			if err != nil {
				t.Fatalf("remove %s: %v", axis, err)
			}
			twice, _ = Remove(in, once, axis)
			if once != twice {
				t.Fatalf("remove_%s not idempotent on %s", axis, types.Label(in, s))
			}
		}
	}
}

func TestInverseCancellation(t *testing.T) {
	in := types.NewInterner()
	for _, s := range sampleSignatures(in) {
		ref := mustDecompose(t, in, s).Ref
		for _, axis := range allAxes {
			// Forcing a reference axis on replaces the other mode, so the law
			// holds for reference axes only when the other mode is absent.
			if axis == AxisPersistent && ref == RefTransient || axis == AxisTransient && ref == RefPersistent {
				continue
			}
			added, _ := Add(in, s, axis)
			left, _ := Remove(in, added, axis)
			right, _ := Remove(in, s, axis)
			if left != right {
				t.Fatalf("remove_%s(add_%s(%s)) = %s, want %s", axis, axis,
					types.Label(in, s), types.Label(in, left), types.Label(in, right))
			}
		}
	}
}

func TestOrthogonality(t *testing.T) {
	in := types.NewInterner()
	for _, s := range sampleSignatures(in) {
		before := mustDecompose(t, in, s)
		for _, axis := range allAxes {
			for _, op := range []func(*types.Interner, types.TypeID, Axis) (types.TypeID, error){Add, Remove} {
				out, err := op(in, s, axis)
				if err != nil {
					t.Fatalf("%s: %v", axis, err)
				}
				after := mustDecompose(t, in, out)
				if after.Result != before.Result || !slices.Equal(after.Params, before.Params) {
					t.Fatalf("%s changed result or params of %s", axis, types.Label(in, s))
				}
				if axis != AxisConst && after.Const != before.Const {
					t.Fatalf("%s changed const of %s", axis, types.Label(in, s))
				}
				if axis != AxisVolatile && after.Volatile != before.Volatile {
					t.Fatalf("%s changed volatile of %s", axis, types.Label(in, s))
				}
				if axis != AxisVariadic && after.Variadic != before.Variadic {
					t.Fatalf("%s changed variadic of %s", axis, types.Label(in, s))
				}
				if axis != AxisNoThrow && after.NoThrow != before.NoThrow {
					t.Fatalf("%s changed no-throw of %s", axis, types.Label(in, s))
				}
				if axis != AxisPersistent && axis != AxisTransient && after.Ref != before.Ref {
					t.Fatalf("%s changed reference mode of %s", axis, types.Label(in, s))
				}
			}
		}
	}
}

func TestReferenceRemovalOnlyClearsItsOwnMode(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	lref := Make(in, Qualifiers{Ref: RefPersistent}, b.Int)
	rref := Make(in, Qualifiers{Ref: RefTransient}, b.Int)
	plain := Make(in, Qualifiers{}, b.Int)

	if got, _ := RemoveTransient(in, lref); got != lref {
		t.Fatalf("remove_transient must keep &: got %s", types.Label(in, got))
	}
	if got, _ := RemovePersistent(in, rref); got != rref {
		t.Fatalf("remove_persistent must keep &&: got %s", types.Label(in, got))
	}
	for _, s := range []types.TypeID{lref, rref, plain} {
		got, err := RemoveReference(in, s)
		if err != nil || got != plain {
			t.Fatalf("remove_reference(%s) = %s, %v", types.Label(in, s), types.Label(in, got), err)
		}
	}
	if got, _ := AddTransient(in, lref); got != rref {
		t.Fatalf("add_transient on & must switch to &&, got %s", types.Label(in, got))
	}
}

func TestCompositeTransformations(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	full := Make(in, Qualifiers{Const: true, Volatile: true, Ref: RefTransient, Variadic: true, NoThrow: true}, b.Int, b.Char)

	cases := []struct {
		name string
		fn   func(*types.Interner, types.TypeID) (types.TypeID, error)
		want Qualifiers
	}{
		{"remove_cv", RemoveCV, Qualifiers{Ref: RefTransient, Variadic: true, NoThrow: true}},
		{"remove_cvref", RemoveCVRef, Qualifiers{Variadic: true, NoThrow: true}},
		{"remove_qualifiers", RemoveQualifiers, Qualifiers{Variadic: true}},
	}
	for _, tc := range cases {
		got, err := tc.fn(in, full)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if want := Make(in, tc.want, b.Int, b.Char); got != want {
			t.Fatalf("%s = %s, want %s", tc.name, types.Label(in, got), types.Label(in, want))
		}
	}

	bare := Make(in, Qualifiers{}, b.Int)
	got, _ := AddCV(in, bare)
	if want := Make(in, Qualifiers{Const: true, Volatile: true}, b.Int); got != want {
		t.Fatalf("add_cv = %s", types.Label(in, got))
	}
}

func TestTransformRejectsNonFunctions(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	w := in.RegisterClass("W")
	mp := in.Intern(types.MakeMemberPointer(in.RegisterFn(nil, b.Int, 0), w))
	for _, id := range []types.TypeID{b.Int, w, mp} {
		_, err := AddConst(in, id)
		var se *ShapeError
		if !errors.As(err, &se) || se.Op != "add_const" {
			t.Fatalf("add_const(%s): expected shape error from add_const, got %v", types.Label(in, id), err)
		}
		if _, err := RemoveQualifiers(in, id); !errors.Is(err, ErrShapeMismatch) {
			t.Fatalf("remove_qualifiers(%s): expected shape mismatch, got %v", types.Label(in, id), err)
		}
	}
}

func TestTransformLeavesInputUntouched(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	s := Make(in, Qualifiers{}, b.Int, b.Char)
	before := mustDecompose(t, in, s)
	if _, err := AddConst(in, s); err != nil {
		t.Fatal(err)
	}
	if after := mustDecompose(t, in, s); !after.Equal(before) {
		t.Fatalf("input signature changed: %+v -> %+v", before, after)
	}
}

func TestConstThenVariadicScenario(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	s := in.RegisterFn(nil, b.Int, 0)
	s, err := AddConst(in, s)
	if err != nil {
		t.Fatal(err)
	}
	s, err = AddVariadic(in, s)
	if err != nil {
		t.Fatal(err)
	}
	d := mustDecompose(t, in, s)
	if !d.Const || !d.Variadic || d.Result != b.Int || d.Arity() != 0 {
		t.Fatalf("unexpected descriptor %+v", d)
	}
	if got := types.Label(in, s); got != "int(...) const" {
		t.Fatalf("label = %q", got)
	}
}

func TestParseOp(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	s := in.RegisterFn([]types.TypeID{b.Int}, b.Void, 0)
	for _, name := range []string{"add_const", "Add-Const", "add_lvalue_reference", "remove_qualifiers"} {
		op, err := ParseOp(name)
		if err != nil {
			t.Fatalf("ParseOp(%q): %v", name, err)
		}
		if _, err := op.Apply(in, s); err != nil {
			t.Fatalf("%s: %v", op.Name, err)
		}
	}
	if _, err := ParseOp("add_static"); err == nil {
		t.Fatalf("expected error for unknown op")
	}
	if len(OpNames()) != 17 {
		t.Fatalf("OpNames() = %v", OpNames())
	}
}

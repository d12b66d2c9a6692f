package sig

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"calltraits/internal/types"
)

type fixture struct {
	in      *types.Interner
	b       types.Builtins
	widget  types.TypeID
	functor types.TypeID
	plain   types.TypeID
}

func newFixture() fixture {
	in := types.NewInterner()
	f := fixture{in: in, b: in.Builtins()}
	f.widget = in.RegisterClass("Widget")
	in.AddField(f.widget, types.ClassField{Name: "count", Type: f.b.Int})
	in.MarkComplete(f.widget)

	f.functor = in.RegisterClass("Functor")
	in.SetCallOperator(f.functor, in.RegisterFn([]types.TypeID{f.b.Int}, f.b.Int, types.FnConst))
	in.MarkComplete(f.functor)

	f.plain = in.RegisterClass("Plain")
	in.MarkComplete(f.plain)
	return f
}

func (f fixture) ptr(id types.TypeID) types.TypeID {
	return f.in.Intern(types.MakePointer(id))
}

func (f fixture) lref(id types.TypeID) types.TypeID {
	return f.in.Intern(types.MakeReference(id, false))
}

func (f fixture) rref(id types.TypeID) types.TypeID {
	return f.in.Intern(types.MakeReference(id, true))
}

func (f fixture) wrap(id types.TypeID) types.TypeID {
	return f.in.Intern(types.MakeWrapper(id))
}

func (f fixture) member(elem, class types.TypeID) types.TypeID {
	return f.in.Intern(types.MakeMemberPointer(elem, class))
}

func mustClassify(t *testing.T, in *types.Interner, id types.TypeID) Classification {
	t.Helper()
	c, err := Classify(in, id)
	if err != nil {
		t.Fatalf("classify(%s): %v", types.Label(in, id), err)
	}
	return c
}

func TestClassifyPlainFunction(t *testing.T) {
	f := newFixture()
	fn := f.in.RegisterFn([]types.TypeID{f.b.Int}, f.b.Float, 0)
	c := mustClassify(t, f.in, fn)
	if !slices.Equal(c.Path, []Shape{ShapeFunction}) {
		t.Fatalf("path = %s", c.PathString())
	}
	if c.Function != fn || c.Class != types.NoTypeID {
		t.Fatalf("unexpected classification %+v", c)
	}
	if c.Descriptor.Result != f.b.Float || c.Descriptor.Arity() != 1 {
		t.Fatalf("descriptor = %+v", c.Descriptor)
	}
}

func TestClassifyMemberFunctionPointer(t *testing.T) {
	f := newFixture()
	fn := f.in.RegisterFn([]types.TypeID{f.b.Int}, f.b.Int, types.FnConst|types.FnNoexcept)
	mp := f.member(fn, f.widget)
	c := mustClassify(t, f.in, mp)
	if c.PathString() != "member-function > function" {
		t.Fatalf("path = %s", c.PathString())
	}
	if c.Class != f.widget || c.Function != fn {
		t.Fatalf("classification = %+v", c)
	}
	if Arity(f.in, mp) != 1 || !IsConst(f.in, mp) || !IsNoThrow(f.in, mp) {
		t.Fatalf("queries disagree with int(int) const noexcept")
	}
	if p, err := Param(f.in, mp, 0); err != nil || p != f.b.Int {
		t.Fatalf("Param(0) = %s, %v", types.Label(f.in, p), err)
	}
}

func TestClassifyMemberData(t *testing.T) {
	f := newFixture()
	c := mustClassify(t, f.in, f.member(f.b.Char, f.widget))
	want := Descriptor{Result: f.b.Char, Params: []types.TypeID{f.lref(f.widget)}}
	if !c.Descriptor.Equal(want) {
		t.Fatalf("descriptor = %+v, want %+v", c.Descriptor, want)
	}
	if got := types.Label(f.in, c.Function); got != "char(Widget&)" {
		t.Fatalf("accessor = %q", got)
	}
}

func TestClassifyConstMemberDataTakesConstReceiver(t *testing.T) {
	f := newFixture()
	ci := f.in.WithCV(f.b.Int, types.CVConst)
	c := mustClassify(t, f.in, f.member(ci, f.widget))
	if c.Descriptor.Result != ci {
		t.Fatalf("result = %s", types.Label(f.in, c.Descriptor.Result))
	}
	if got := types.Label(f.in, c.Descriptor.Params[0]); got != "Widget const&" {
		t.Fatalf("receiver = %q", got)
	}
	if c.Descriptor.Const || c.Descriptor.Ref != RefNone {
		t.Fatalf("accessor must be unqualified: %+v", c.Descriptor)
	}
}

func TestClassifyCallOperator(t *testing.T) {
	f := newFixture()
	c := mustClassify(t, f.in, f.functor)
	if c.PathString() != "call-operator > member-function > function" {
		t.Fatalf("path = %s", c.PathString())
	}
	if c.Class != f.functor {
		t.Fatalf("class = %s", types.Label(f.in, c.Class))
	}
	if got := types.Label(f.in, c.Function); got != "int(int) const" {
		t.Fatalf("function = %q", got)
	}
	cf := f.in.WithCV(f.functor, types.CVConst)
	if got := mustClassify(t, f.in, cf); !got.Descriptor.Equal(c.Descriptor) || got.Class != f.functor {
		t.Fatalf("const functor classified differently: %+v", got)
	}
}

func TestIndirectionPreservesDescriptor(t *testing.T) {
	f := newFixture()
	fn := f.in.RegisterFn([]types.TypeID{f.b.Int, f.b.Char}, f.b.Double, types.FnNoexcept)
	invocables := []types.TypeID{
		fn,
		f.member(fn, f.widget),
		f.member(f.b.Long, f.widget),
		f.functor,
	}
	for _, base := range invocables {
		want := mustClassify(t, f.in, base).Descriptor
		for _, layer := range []types.TypeID{f.lref(base), f.rref(base), f.ptr(base), f.wrap(base)} {
			got := mustClassify(t, f.in, layer)
			if !got.Descriptor.Equal(want) {
				t.Fatalf("%s: descriptor %+v, want %+v", types.Label(f.in, layer), got.Descriptor, want)
			}
			if !got.Path[0].IsIndirection() {
				t.Fatalf("%s: path starts with %s", types.Label(f.in, layer), got.Path[0])
			}
		}
	}
}

func TestClassifyRejects(t *testing.T) {
	f := newFixture()
	fn := f.in.RegisterFn(nil, f.b.Int, 0)
	cases := []struct {
		name   string
		id     types.TypeID
		reason string
	}{
		{"builtin", f.b.Int, ""},
		{"plain struct", f.plain, ""},
		{"wrapper of int", f.wrap(f.b.Int), "int is not invocable"},
		{"pointer to pointer", f.ptr(f.ptr(fn)), "more than one layer"},
		{"reference to pointer", f.lref(f.ptr(fn)), "more than one layer"},
		{"wrapper of reference", f.wrap(f.lref(f.functor)), "more than one layer"},
		{"invalid id", types.NoTypeID, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Classify(f.in, tc.id)
			if !errors.Is(err, ErrShapeMismatch) {
				t.Fatalf("expected shape mismatch, got %v", err)
			}
			if tc.reason != "" && !strings.Contains(err.Error(), tc.reason) {
				t.Fatalf("error %q does not mention %q", err, tc.reason)
			}
			if IsInvocable(f.in, tc.id) {
				t.Fatalf("IsInvocable must be false")
			}
		})
	}
}

func TestQueriesDegradeOnNonInvocables(t *testing.T) {
	f := newFixture()
	id := f.plain
	if Arity(f.in, id) != 0 || IsConst(f.in, id) || IsVolatile(f.in, id) || IsVariadic(f.in, id) ||
		IsNoThrow(f.in, id) || IsPersistent(f.in, id) || IsTransient(f.in, id) || IsReference(f.in, id) {
		t.Fatalf("predicates must be false for a non-invocable type")
	}
	if Result(f.in, id) != types.NoTypeID || Params(f.in, id) != nil {
		t.Fatalf("accessors must be empty for a non-invocable type")
	}
	if _, err := Param(f.in, id, 0); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("Param must fail strictly, got %v", err)
	}
	if _, err := FunctionOf(f.in, id); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("FunctionOf must fail strictly, got %v", err)
	}
}

func TestParamOutOfRangeNamesTheQueriedType(t *testing.T) {
	f := newFixture()
	_, err := Param(f.in, f.functor, 3)
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ShapeError, got %v", err)
	}
	if se.Type != f.functor || se.Label != "Functor" {
		t.Fatalf("error names %q", se.Label)
	}
}

func TestReferenceQualifiedQueries(t *testing.T) {
	f := newFixture()
	fn := Make(f.in, Qualifiers{Ref: RefTransient, Volatile: true, Variadic: true}, f.b.Void, f.b.Int)
	ptr := f.ptr(fn)
	if !IsTransient(f.in, ptr) || IsPersistent(f.in, ptr) || !IsReference(f.in, ptr) {
		t.Fatalf("reference mode lost through pointer")
	}
	if !IsVolatile(f.in, ptr) || !IsVariadic(f.in, ptr) || Result(f.in, ptr) != f.b.Void {
		t.Fatalf("qualifiers lost through pointer")
	}
}

func TestShapeRulePriority(t *testing.T) {
	f := newFixture()
	fn := f.in.RegisterFn(nil, f.b.Int, 0)
	// Member pointers to functions must never reach the data-member rule.
	if got := ShapeOf(f.in, f.member(fn, f.widget)); got != ShapeMemberFunction {
		t.Fatalf("member function pointer classified as %s", got)
	}
	for i := 1; i < len(shapeRules); i++ {
		if shapeRules[i-1].shape >= shapeRules[i].shape {
			t.Fatalf("rule %d (%s) is out of order", i, shapeRules[i].shape)
		}
	}
	if ShapeOf(f.in, f.plain) != ShapeNone {
		t.Fatalf("class without operator() must not match")
	}
}

func TestMemberDecomposersAreExclusive(t *testing.T) {
	f := newFixture()
	fn := f.in.RegisterFn([]types.TypeID{f.b.Int}, f.b.Void, types.FnLRef)
	mfn := f.member(fn, f.widget)
	mdata := f.member(f.in.WithCV(f.b.Int, types.CVConst), f.widget)

	if got, class, err := MemberFunction(f.in, mfn); err != nil || got != fn || class != f.widget {
		t.Fatalf("MemberFunction = %v, %v, %v", got, class, err)
	}
	if _, _, err := MemberData(f.in, mfn); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("MemberData must reject a member function pointer")
	}
	obj, class, err := MemberData(f.in, mdata)
	if err != nil || class != f.widget || types.Label(f.in, obj) != "int const" {
		t.Fatalf("MemberData = %s, %v, %v", types.Label(f.in, obj), class, err)
	}
	if _, _, err := MemberFunction(f.in, mdata); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("MemberFunction must reject a data member pointer")
	}
	for _, id := range []types.TypeID{f.b.Int, fn, f.widget} {
		if _, _, err := MemberFunction(f.in, id); err == nil {
			t.Fatalf("MemberFunction accepted %s", types.Label(f.in, id))
		}
		if _, _, err := MemberData(f.in, id); err == nil {
			t.Fatalf("MemberData accepted %s", types.Label(f.in, id))
		}
	}
}

func TestConstMemberPointerIsStripped(t *testing.T) {
	f := newFixture()
	fn := f.in.RegisterFn(nil, f.b.Int, 0)
	cmp := f.in.WithCV(f.member(fn, f.widget), types.CVConst)
	if _, _, err := MemberFunction(f.in, cmp); err != nil {
		t.Fatalf("const member pointer rejected: %v", err)
	}
	if !IsInvocable(f.in, f.in.WithCV(f.ptr(fn), types.CVConst)) {
		t.Fatalf("const pointer to function must classify")
	}
}

package parser

import (
	"testing"

	"calltraits/internal/diag"
	"calltraits/internal/source"
	"calltraits/internal/types"
)

const widgetDecls = `
struct Widget { int count; };
struct Functor { int operator()(int) const; };
`

func TestParseTypeLabels(t *testing.T) {
	h := newHarness()
	h.mustDecls(t, widgetDecls)

	cases := []struct {
		src  string
		want string
	}{
		{"int", "int"},
		{"const int", "int const"},
		{"int const volatile", "int const volatile"},
		{"volatile const int *", "int const volatile*"},
		{"int * const", "int* const"},
		{"Widget const &", "Widget const&"},
		{"Widget&&", "Widget&&"},
		{"int(int) const", "int(int) const"},
		{"float(int)", "float(int)"},
		{"double(int) noexcept", "double(int) noexcept"},
		{"char(int) const && noexcept", "char(int) const && noexcept"},
		{"void(int, ...) volatile", "void(int, ...) volatile"},
		{"void(int...)", "void(int, ...)"},
		{"void(...)", "void(...)"},
		{"int(void)", "int()"},
		{"int(int x, char y)", "int(int, char)"},
		{"(int())*", "(int())*"},
		{"(int(int))&", "(int(int))&"},
		{"(int())*(char)", "(int())*(char)"},
		{"void((int())*)", "void((int())*)"},
		{"int Widget::*", "int Widget::*"},
		{"int const Widget::*", "int const Widget::*"},
		{"(int() const) Widget::*", "(int() const) Widget::*"},
		{"int Widget::* const", "int Widget::* const"},
		{"int Widget::**", "int Widget::**"},
		{"std::reference_wrapper<Functor>", "std::reference_wrapper<Functor>"},
		{"reference_wrapper<int(int)>", "std::reference_wrapper<int(int)>"},
		{"std::reference_wrapper<std::reference_wrapper<int>>", "std::reference_wrapper<std::reference_wrapper<int>>"},
	}
	for _, tc := range cases {
		id := h.mustType(t, tc.src)
		if got := types.Label(h.in, id); got != tc.want {
			t.Errorf("%q: label %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestFunctionRefQualifierVersusReference(t *testing.T) {
	h := newHarness()
	qualified := h.mustType(t, "int() &")
	if tt := h.in.MustLookup(qualified); tt.Kind != types.KindFn {
		t.Fatalf("'int() &' must be a &-qualified function, got %v", tt.Kind)
	}
	ref := h.mustType(t, "(int())&")
	if tt := h.in.MustLookup(ref); tt.Kind != types.KindReference {
		t.Fatalf("'(int())&' must be a reference, got %v", tt.Kind)
	}
}

func TestAliasesBehaveLikeTypedefs(t *testing.T) {
	h := newHarness()
	h.mustDecls(t, `
using R = int&;
using RR = int&&;
using CI = int const;
using F = int(int);
`)
	cases := []struct {
		src  string
		want string
	}{
		{"R&&", "int&"},
		{"RR&&", "int&&"},
		{"RR&", "int&"},
		{"CI const", "int const"},
		{"R const", "int&"},
		{"F const", "int(int)"},
		{"F&", "(int(int))&"},
		{"F*", "(int(int))*"},
	}
	for _, tc := range cases {
		id := h.mustType(t, tc.src)
		if got := types.Label(h.in, id); got != tc.want {
			t.Errorf("%q: label %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"", diag.SynExpectType},
		{"Nope", diag.SemaUnresolvedType},
		{"int Nope::*", diag.SemaUnresolvedType},
		{"int int::*", diag.SemaNotAClass},
		{"vector<int>", diag.SemaUnknownTemplate},
		{"std::reference_wrapper<int&>", diag.SemaIndirectReference},
		{"std::reference_wrapper<int", diag.SynUnclosedAngle},
		{"int&*", diag.SemaIndirectReference},
		{"int& &", diag.SemaIndirectReference},
		{"int& Widget::*", diag.SemaIndirectReference},
		{"void&", diag.SemaInvalidVoid},
		{"void Widget::*", diag.SemaInvalidVoid},
		{"int(void, int)", diag.SemaInvalidVoid},
		{"(int())(char)", diag.SemaFunctionReturnsFunction},
		{"(int()) const", diag.SemaMisplacedCV},
		{"(int&) const", diag.SemaMisplacedCV},
		{"int const const", diag.SynDuplicateQualifier},
		{"const int const", diag.SynDuplicateQualifier},
		{"int() const const", diag.SynDuplicateQualifier},
		{"int() & &&", diag.SynConflictingRef},
		{"int(..., int)", diag.SynVariadicMustBeLast},
		{"int(int", diag.SynUnclosedParen},
		{"(int", diag.SynUnclosedParen},
		{"int int", diag.SynUnexpectedToken},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			h := newHarness()
			h.mustDecls(t, widgetDecls)
			_, ok, bag := h.typ(t, tc.src)
			if ok {
				t.Fatalf("expected failure")
			}
			if !hasCode(bag, tc.code) {
				t.Fatalf("expected %s, got %s", tc.code.ID(), diagnosticsSummary(bag))
			}
		})
	}
}

func TestLexErrorsFailTheParse(t *testing.T) {
	h := newHarness()
	_, ok, bag := h.typ(t, "int $")
	if ok || !hasCode(bag, diag.LexUnknownChar) {
		t.Fatalf("expected lex failure, got ok=%v %s", ok, diagnosticsSummary(bag))
	}
}

func TestCustomWrapperNames(t *testing.T) {
	in := types.NewInterner()
	h := &harness{fs: source.NewFileSet(), scope: NewScope(in, "boost::reference_wrapper"), in: in}
	if _, ok, _ := h.typ(t, "std::reference_wrapper<int>"); ok {
		t.Fatalf("std wrapper must be unknown when not configured")
	}
	id := h.mustType(t, "boost::reference_wrapper<int()>")
	if h.in.MustLookup(id).Kind != types.KindWrapper {
		t.Fatalf("configured wrapper not recognised")
	}
}

package fuzztests

import (
	"testing"
)

const maxFuzzInput = 1 << 16 // 64 KiB

// declSeeds cover the declaration grammar, including broken inputs that
// exercise recovery.
var declSeeds = []string{
	"",
	"struct Widget;",
	"struct Widget { int count; const int limit; int size(int) const noexcept; };",
	"struct F { double operator()(int, ...) &&; };",
	"struct W { int n; };\nusing M = int W::*;\nusing G = (int(char) const &) W::*;",
	"using R = std::reference_wrapper<int(int)>;",
	"using P = (void(...) volatile noexcept)*;",
	"using V = int(void);",
	"using A = int; using B = A const&;",
	"struct S { int operator()(); int operator()(); };",
	"using X = int&&&;",
	"using Y = int(int) const const;",
	"struct { int; };",
	"using = ;",
	"// comment only\n",
	"using Z = int(((;",
	"struct S { int a; int a; };",
}

// typeSeeds are standalone type expressions.
var typeSeeds = []string{
	"int",
	"int const* volatile",
	"int(char, double, ...) const volatile && noexcept",
	"(int())&",
	"int() &",
	"(int(int) const) Widget::*",
	"int const Widget::*",
	"std::reference_wrapper<Widget>",
	"reference_wrapper<(int())*>",
	"void(void)",
	"Widget&",
}

func addDeclSeeds(f *testing.F) {
	for _, s := range declSeeds {
		f.Add([]byte(s))
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}

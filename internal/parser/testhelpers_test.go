package parser

import (
	"fmt"
	"strings"
	"testing"

	"calltraits/internal/diag"
	"calltraits/internal/source"
	"calltraits/internal/types"
)

type harness struct {
	fs    *source.FileSet
	scope *Scope
	in    *types.Interner
}

func newHarness() *harness {
	in := types.NewInterner()
	return &harness{fs: source.NewFileSet(), scope: NewScope(in), in: in}
}

func (h *harness) decls(t *testing.T, src string) (Result, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(32)
	file := h.fs.Get(h.fs.AddVirtual("decls.ct", []byte(src)))
	return ParseFile(file, h.scope, Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

func (h *harness) mustDecls(t *testing.T, src string) Result {
	t.Helper()
	res, bag := h.decls(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return res
}

func (h *harness) typ(t *testing.T, src string) (types.TypeID, bool, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(32)
	file := h.fs.Get(h.fs.AddVirtual("expr", []byte(src)))
	id, ok := ParseType(file, h.scope, Options{Reporter: diag.BagReporter{Bag: bag}})
	return id, ok, bag
}

func (h *harness) mustType(t *testing.T, src string) types.TypeID {
	t.Helper()
	id, ok, bag := h.typ(t, src)
	if !ok || bag.Len() != 0 {
		t.Fatalf("parse %q failed: %s", src, diagnosticsSummary(bag))
	}
	return id
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

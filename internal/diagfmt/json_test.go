package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"calltraits/internal/diag"
	"calltraits/internal/source"
)

func TestJSONOutput(t *testing.T) {
	fs, bag := unresolvedFixture()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEM3001" || d.Title == "" {
		t.Fatalf("unexpected header %+v", d)
	}
	if d.Location.File != "decls.ct" || d.Location.StartLine != 2 || d.Location.StartCol != 11 || d.Location.EndCol != 15 {
		t.Fatalf("unexpected location %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
}

func TestJSONOmitsNotesAndPositionsByDefault(t *testing.T) {
	fs, bag := unresolvedFixture()
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	d := out.Diagnostics[0]
	if len(d.Notes) != 0 {
		t.Fatalf("notes must be opt-in")
	}
	if d.Location.StartLine != 0 || d.Location.StartByte != 25 {
		t.Fatalf("unexpected location %+v", d.Location)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.ct", []byte("a b c"))
	bag := diag.NewBag(10)
	for i := range uint32(3) {
		bag.Add(diag.New(diag.SevError, diag.SynUnexpectedTopLevel, source.Span{File: id, Start: i * 2, End: i*2 + 1}, "junk"))
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || bag.Len() != 3 {
		t.Fatalf("Max must truncate the output only: count=%d bag=%d", out.Count, bag.Len())
	}
}

func TestShort(t *testing.T) {
	fs, bag := unresolvedFixture()
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatalf("Short: %v", err)
	}
	want := "error SEM3001 decls.ct:2:11 unknown type name \"Nope\"\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

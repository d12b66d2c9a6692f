package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("decls.ct", []byte("struct A;"), 0)
	id2 := fs.Add("decls.ct", []byte("struct B;"), 0)
	if id1 == id2 {
		t.Fatalf("each Add must allocate a new id")
	}
	latest, ok := fs.GetLatest("decls.ct")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	if string(fs.Get(id1).Content) != "struct A;" {
		t.Fatalf("older version must stay addressable")
	}
	if fs.Get(id1).Hash == fs.Get(id2).Hash {
		t.Fatalf("different content must hash differently")
	}
	if fs.Len() != 2 {
		t.Fatalf("Len = %d", fs.Len())
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.ct")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFstruct A;\r\nstruct B;\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "struct A;\nstruct B;\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.ct")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.ct", []byte("ab\ncd\n\nef"))
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.ct", []byte("first\nsecond\nthird")))
	for i, want := range []string{"", "first", "second", "third", ""} {
		if got := f.GetLine(uint32(i)); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("spans from different files must not merge: %v", got)
	}
	if !(Span{Start: 3, End: 3}).Empty() || a.Len() != 4 {
		t.Fatalf("Empty/Len disagree")
	}
}

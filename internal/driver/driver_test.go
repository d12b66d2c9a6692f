package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"calltraits/internal/diag"
	"calltraits/internal/observ"
	"calltraits/internal/sig"
	"calltraits/internal/trace"
)

const widgetsDecl = `struct Widget {
	int count;
	int const limit;
	int size(int) const noexcept;
	double operator()(int, ...) &&;
};
using Getter = (int(int) const noexcept) Widget::*;
using Limit = int const Widget::*;
using Ref = std::reference_wrapper<Widget>;
using Callback = (void(char))*;
using Count = int;
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func aliasByName(t *testing.T, aliases []AliasResult, name string) AliasResult {
	t.Helper()
	for _, a := range aliases {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("alias %s not found", name)
	return AliasResult{}
}

func TestCheckClassifiesAliases(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "widgets.ct", widgetsDecl)

	res, err := Check(context.Background(), []string{path}, Options{Jobs: 1})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(res.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(res.Results))
	}
	fr := res.Results[0]
	if len(fr.Aliases) != 5 {
		t.Fatalf("expected 5 aliases, got %d", len(fr.Aliases))
	}

	getter := aliasByName(t, fr.Aliases, "Getter")
	if !getter.Invocable || getter.Path != "member-function > function" || getter.Signature != "int(int) const noexcept" {
		t.Fatalf("Getter: %+v", getter)
	}
	if getter.Class != "Widget" || !getter.Const || !getter.NoThrow || getter.Arity != 1 {
		t.Fatalf("Getter details: %+v", getter)
	}

	limit := aliasByName(t, fr.Aliases, "Limit")
	if limit.Signature != "int const(Widget const&)" || limit.Path != "member-data" {
		t.Fatalf("Limit: %+v", limit)
	}

	ref := aliasByName(t, fr.Aliases, "Ref")
	if ref.Path != "wrapper > call-operator > member-function > function" {
		t.Fatalf("Ref path %q", ref.Path)
	}
	if ref.Ref != "transient" || !ref.Variadic || ref.Signature != "double(int, ...) &&" {
		t.Fatalf("Ref: %+v", ref)
	}

	cb := aliasByName(t, fr.Aliases, "Callback")
	if cb.Path != "pointer > function" || len(cb.Params) != 1 || cb.Params[0] != "char" {
		t.Fatalf("Callback: %+v", cb)
	}

	count := aliasByName(t, fr.Aliases, "Count")
	if count.Invocable || count.Error == "" {
		t.Fatalf("Count must not be invocable: %+v", count)
	}
	if fr.Bag.HasErrors() {
		t.Fatalf("non-invocable alias is a warning, not an error")
	}
	if fr.Bag.Len() != 1 || fr.Bag.Items()[0].Code != diag.SemaNotInvocable {
		t.Fatalf("expected one SemaNotInvocable warning, got %d items", fr.Bag.Len())
	}
	start, _ := res.Files.Resolve(fr.Bag.Items()[0].Primary)
	if start.Line != 11 {
		t.Fatalf("warning on line %d, want 11", start.Line)
	}
}

func TestCheckFilesAreIndependent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ct", "struct A { int operator()(); };\nusing F = A;\n")
	writeFile(t, dir, "b.ct", "using F = A;\n")
	writeFile(t, dir, "nested/c.ct", "using G = void();\n")
	writeFile(t, dir, "notes.txt", "not a declaration file")

	res, err := Check(context.Background(), []string{dir}, Options{Jobs: 4})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	var paths []string
	for _, r := range res.Results {
		paths = append(paths, filepath.Base(r.Path))
	}
	if !slices.Equal(paths, []string{"a.ct", "b.ct", "c.ct"}) {
		t.Fatalf("unexpected files %v", paths)
	}
	if res.Results[0].Bag.HasErrors() {
		t.Fatalf("a.ct must be clean")
	}
	if !res.Results[1].Bag.HasErrors() {
		t.Fatalf("b.ct must not see A from a.ct")
	}
	if !res.HasErrors() {
		t.Fatalf("HasErrors must reflect b.ct")
	}
	if res.Bag().Len() != 1 {
		t.Fatalf("merged bag: %d items", res.Bag().Len())
	}
}

func TestCheckReportsMissingFiles(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.ct")
	res, err := Check(context.Background(), []string{missing}, Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	items := res.Results[0].Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Fatalf("expected a load error, got %+v", items)
	}
	if got := res.Files.Get(items[0].Primary.File).Path; !strings.HasSuffix(got, "missing.ct") {
		t.Fatalf("load error points at %q", got)
	}
}

func TestCheckUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "widgets.ct", widgetsDecl+"using Bad = Nope;\n")
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	first, err := Check(context.Background(), []string{path}, Options{Cache: cache})
	if err != nil {
		t.Fatalf("first Check: %v", err)
	}
	if first.Results[0].Cached {
		t.Fatalf("first run cannot be a cache hit")
	}

	second, err := Check(context.Background(), []string{path}, Options{Cache: cache})
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	got, want := second.Results[0], first.Results[0]
	if !got.Cached {
		t.Fatalf("second run must hit the cache")
	}
	if len(got.Aliases) != len(want.Aliases) || got.Aliases[0].Signature != want.Aliases[0].Signature {
		t.Fatalf("cached aliases differ: %+v vs %+v", got.Aliases, want.Aliases)
	}
	short := diag.FormatShortDiagnostics(got.Bag.Items(), second.Files, true)
	wantShort := diag.FormatShortDiagnostics(want.Bag.Items(), first.Files, true)
	if short != wantShort {
		t.Fatalf("cached diagnostics differ:\n%s\nvs\n%s", short, wantShort)
	}

	// Different wrappers change how files parse, so they miss.
	third, err := Check(context.Background(), []string{path}, Options{Cache: cache, Wrappers: []string{"boost::reference_wrapper"}})
	if err != nil {
		t.Fatalf("third Check: %v", err)
	}
	if third.Results[0].Cached {
		t.Fatalf("changed wrappers must miss the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	fourth, _ := Check(context.Background(), []string{path}, Options{Cache: cache})
	if fourth.Results[0].Cached {
		t.Fatalf("DropAll must clear entries")
	}
}

func TestCheckCacheSeparatesLimits(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "limits.ct", "using A = Nope;\nusing B = Nada;\nusing C = Zilch;\nusing F = int(int);\n")
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	ctx := context.Background()

	baseline, err := Check(ctx, []string{path}, Options{})
	if err != nil {
		t.Fatalf("uncached Check: %v", err)
	}
	limited, err := Check(ctx, []string{path}, Options{Cache: cache, MaxErrors: 1})
	if err != nil {
		t.Fatalf("limited Check: %v", err)
	}
	if got, want := limited.Results[0].Bag.Len(), baseline.Results[0].Bag.Len(); got >= want {
		t.Fatalf("limited run kept %d diagnostics, unlimited has %d", got, want)
	}

	full, err := Check(ctx, []string{path}, Options{Cache: cache})
	if err != nil {
		t.Fatalf("unlimited Check: %v", err)
	}
	got, want := full.Results[0], baseline.Results[0]
	if got.Cached {
		t.Fatalf("unlimited run must not reuse a result cut short by --max-errors")
	}
	if len(got.Aliases) != len(want.Aliases) || got.Bag.Len() != want.Bag.Len() {
		t.Fatalf("unlimited run: %d aliases, %d diagnostics; want %d, %d",
			len(got.Aliases), got.Bag.Len(), len(want.Aliases), want.Bag.Len())
	}

	again, err := Check(ctx, []string{path}, Options{Cache: cache, MaxErrors: 1})
	if err != nil {
		t.Fatalf("repeated limited Check: %v", err)
	}
	if !again.Results[0].Cached {
		t.Fatalf("identical limits must hit the cache")
	}

	capped, err := Check(ctx, []string{path}, Options{Cache: cache, MaxDiagnostics: 1})
	if err != nil {
		t.Fatalf("capped Check: %v", err)
	}
	if capped.Results[0].Cached {
		t.Fatalf("a different diagnostics capacity must miss the cache")
	}
}

func TestCacheKey(t *testing.T) {
	content := [32]byte{1, 2, 3}
	base := CacheKey(content, []string{"std::reference_wrapper", "reference_wrapper"}, 0, 100)
	if got := CacheKey(content, []string{"reference_wrapper", "std::reference_wrapper"}, 0, 100); got != base {
		t.Fatalf("wrapper order must not change the key")
	}
	variants := map[string]Digest{
		"content":         CacheKey([32]byte{9}, []string{"std::reference_wrapper", "reference_wrapper"}, 0, 100),
		"wrappers":        CacheKey(content, []string{"std::reference_wrapper"}, 0, 100),
		"max errors":      CacheKey(content, []string{"std::reference_wrapper", "reference_wrapper"}, 1, 100),
		"max diagnostics": CacheKey(content, []string{"std::reference_wrapper", "reference_wrapper"}, 0, 5),
	}
	for name, key := range variants {
		if key == base {
			t.Errorf("changing %s must change the key", name)
		}
	}
}

func TestCheckStatsAndHeartbeat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ct", widgetsDecl)
	writeFile(t, dir, "b.ct", "using Bad = Nope;\n")
	ring := trace.NewRingTracer(256, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	timer := observ.NewTimer()

	if _, err := Check(ctx, []string{dir}, Options{Timer: timer, Heartbeat: time.Millisecond}); err != nil {
		t.Fatalf("Check: %v", err)
	}
	var note string
	for _, p := range timer.Report().Phases {
		if p.Name == "check" {
			note = p.Note
		}
	}
	if want := "files 2/2, aliases 5, failed 1, cached 0"; note != want {
		t.Fatalf("check phase note = %q, want %q", note, want)
	}
	n := len(ring.Snapshot())
	time.Sleep(5 * time.Millisecond)
	if len(ring.Snapshot()) != n {
		t.Fatalf("heartbeat still running after Check returned")
	}
}

func TestCheckProgressEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ct", "using F = int();\n")
	writeFile(t, dir, "b.ct", "using G = Nope;\n")

	var mu sync.Mutex
	final := map[string]Status{}
	observer := func(ev ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Status.Final() {
			final[filepath.Base(ev.File)] = ev.Status
		}
	}
	if _, err := Check(context.Background(), []string{dir}, Options{Jobs: 2, Progress: observer}); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if final["a.ct"] != StatusDone || final["b.ct"] != StatusError {
		t.Fatalf("unexpected final statuses %v", final)
	}
}

func TestCheckCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ct", "using F = int();\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Check(ctx, []string{dir}, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestInspectAgainstUniverse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "widgets.ct", widgetsDecl)
	u, err := LoadUniverse(context.Background(), []string{path}, Options{})
	if err != nil {
		t.Fatalf("LoadUniverse: %v", err)
	}
	if u.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics")
	}

	got, err := Inspect(context.Background(), u, "Widget const&")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if got.Path != "reference > call-operator > member-function > function" || got.Signature != "double(int, ...) &&" {
		t.Fatalf("unexpected inspection %+v", got)
	}

	if _, err := Inspect(context.Background(), u, "Nope*"); !errors.Is(err, ErrInvalidExpr) {
		t.Fatalf("expected ErrInvalidExpr, got %v", err)
	}
	if !u.Bag.HasErrors() {
		t.Fatalf("parse errors must land in the universe bag")
	}
}

func TestLoadUniverseMissingFile(t *testing.T) {
	_, err := LoadUniverse(context.Background(), []string{filepath.Join(t.TempDir(), "none.ct")}, Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestTransformSteps(t *testing.T) {
	u := NewUniverse(Options{})
	steps, err := Transform(context.Background(), u, "int()", []string{"add_const", "add-variadic", "add_lvalue_reference", "remove_cvref"})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	var labels []string
	for _, s := range steps {
		labels = append(labels, s.Type)
	}
	want := []string{"int()", "int() const", "int(...) const", "int(...) const &", "int(...)"}
	if !slices.Equal(labels, want) {
		t.Fatalf("steps %v, want %v", labels, want)
	}
	if steps[2].Op != "add_variadic" || steps[3].Op != "add_persistent" {
		t.Fatalf("ops must be canonicalised: %+v", steps)
	}
}

func TestTransformRejects(t *testing.T) {
	u := NewUniverse(Options{})
	if _, err := Transform(context.Background(), u, "int()", []string{"add_magic"}); err == nil {
		t.Fatalf("unknown op must fail")
	}
	steps, err := Transform(context.Background(), u, "int*", []string{"add_const"})
	if !errors.Is(err, sig.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("steps before the failure must be kept: %+v", steps)
	}
	var se *sig.ShapeError
	if !errors.As(err, &se) || se.Op != "add_const" {
		t.Fatalf("expected ShapeError from add_const, got %v", err)
	}
}

func TestAddSource(t *testing.T) {
	u := NewUniverse(Options{Wrappers: []string{"ref"}})
	res := u.AddSource(context.Background(), "<stdin>", []byte("struct S { void operator()(); };\nusing W = ref<S>;\n"))
	if len(res.Aliases) != 1 || u.Bag.Len() != 0 {
		t.Fatalf("unexpected parse result %+v", res)
	}
	got, err := Inspect(context.Background(), u, "W")
	if err != nil || got.Path != "wrapper > call-operator > member-function > function" {
		t.Fatalf("Inspect(W) = %+v, %v", got, err)
	}
}

package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"calltraits/internal/diag"
	"calltraits/internal/parser"
	"calltraits/internal/source"
	"calltraits/internal/trace"
	"calltraits/internal/types"
)

// FileResult is the outcome of checking one declaration file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Aliases []AliasResult
	Bag     *diag.Bag
	Cached  bool
}

// CheckResult collects the per-file results of a Check run, in path order.
type CheckResult struct {
	Files   *source.FileSet
	Results []FileResult
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *CheckResult) HasErrors() bool {
	for i := range r.Results {
		if r.Results[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Bag merges the per-file diagnostics into one sorted bag.
func (r *CheckResult) Bag() *diag.Bag {
	total := 0
	for i := range r.Results {
		total += r.Results[i].Bag.Len()
	}
	merged := diag.NewBag(max(total, 1))
	for i := range r.Results {
		merged.Merge(r.Results[i].Bag)
	}
	merged.Sort()
	return merged
}

// CollectFiles expands directories into their *.ct files and returns the
// sorted, de-duplicated list.
func CollectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			// reported per file as a load error
			files = append(files, p)
			continue
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, DeclExt) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	for i := range files {
		files[i] = filepath.Clean(files[i])
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// Check parses every file on its own and classifies each alias it
// declares. Files run concurrently, bounded by opts.Jobs, each with its own
// interner and scope. Results come back in path order. A non-invocable
// alias is a warning; parse problems are errors in the file's Bag. Only
// cancellation is returned as an error.
func Check(ctx context.Context, paths []string, opts Options) (*CheckResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	files, err := CollectFiles(paths)
	if err != nil {
		return nil, err
	}
	res := &CheckResult{
		Files:   source.NewFileSet(),
		Results: make([]FileResult, len(files)),
	}
	if len(files) == 0 {
		return res, nil
	}

	stats := &checkStats{total: len(files)}
	endLoad := opts.Timer.Track("load")
	loaded := make([]bool, len(files))
	for i, path := range files {
		opts.Progress.emit(path, StageLoad, StatusQueued)
		res.Results[i] = FileResult{Path: path, Bag: diag.NewBag(opts.maxDiagnostics())}
		id, err := res.Files.Load(path)
		if err != nil {
			// an empty stand-in gives the diagnostic a file to point at
			id = res.Files.AddVirtual(path, nil)
			res.Results[i].FileID = id
			res.Results[i].Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
			opts.Progress.emit(path, StageLoad, StatusError)
			stats.record(&res.Results[i])
			continue
		}
		res.Results[i].FileID = id
		loaded[i] = true
	}
	endLoad(fmt.Sprintf("%d files", len(files)))

	// The FileSet is only read from here on.
	endCheck := opts.Timer.Track("check")
	heartbeat := trace.StartHeartbeat(ctx, opts.Heartbeat, stats.String)
	defer heartbeat.Stop()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(files)))
	for i := range files {
		if !loaded[i] {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file := res.Files.Get(res.Results[i].FileID)
			checkFile(gctx, file, opts, &res.Results[i])
			stats.record(&res.Results[i])
			return nil
		})
	}
	err = g.Wait()
	endCheck(stats.String())
	if err != nil {
		return res, err
	}
	return res, nil
}

// checkStats counts finished files for the trace heartbeat.
type checkStats struct {
	total   int
	done    atomic.Int64
	aliases atomic.Int64
	failed  atomic.Int64
	cached  atomic.Int64
}

func (s *checkStats) record(r *FileResult) {
	s.aliases.Add(int64(len(r.Aliases)))
	if r.Bag.HasErrors() {
		s.failed.Add(1)
	}
	if r.Cached {
		s.cached.Add(1)
	}
	s.done.Add(1)
}

func (s *checkStats) String() string {
	return fmt.Sprintf("files %d/%d, aliases %d, failed %d, cached %d",
		s.done.Load(), s.total, s.aliases.Load(), s.failed.Load(), s.cached.Load())
}

func checkFile(ctx context.Context, file *source.File, opts Options, out *FileResult) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	defer span.End("")

	key := CacheKey(file.Hash, opts.Wrappers, opts.MaxErrors, opts.maxDiagnostics())
	if opts.Cache != nil {
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			trace.Point(ctx, trace.ScopeFile, "cache", "unreadable entry: "+err.Error())
		case hit:
			out.Aliases = payload.Aliases
			out.Cached = true
			restoreDiagnostics(&payload, file.ID, out.Bag)
			span.WithExtra("cache", "hit")
			opts.Progress.emit(out.Path, StageClassify, StatusCached)
			return
		}
	}

	opts.Progress.emit(out.Path, StageParse, StatusWorking)
	in := types.NewInterner()
	scope := parser.NewScope(in, opts.Wrappers...)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: out.Bag})
	parsed := parser.ParseFile(file, scope, parser.Options{MaxErrors: opts.MaxErrors, Reporter: reporter})

	opts.Progress.emit(out.Path, StageClassify, StatusWorking)
	out.Aliases = make([]AliasResult, 0, len(parsed.Aliases))
	for _, a := range parsed.Aliases {
		s := Summarize(in, a.Name, a.Type)
		s.Start, s.End = a.Span.Start, a.Span.End
		if !s.Invocable {
			diag.ReportWarning(reporter, diag.SemaNotInvocable, a.Span,
				fmt.Sprintf("alias %q is not invocable: %s", a.Name, s.Error)).Emit()
		}
		trace.Point(ctx, trace.ScopeAlias, "alias:"+a.Name, s.Path)
		out.Aliases = append(out.Aliases, s)
	}
	out.Bag.Sort()
	if n := reporter.Suppressed(); n > 0 {
		span.WithExtra("duplicates", strconv.Itoa(n))
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, resultToDiskPayload(out)); err != nil {
			trace.Point(ctx, trace.ScopeFile, "cache", "write failed: "+err.Error())
		}
	}
	status := StatusDone
	if out.Bag.HasErrors() {
		status = StatusError
	}
	opts.Progress.emit(out.Path, StageClassify, status)
}

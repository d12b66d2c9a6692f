package driver

import (
	"context"
	"errors"
	"fmt"

	"calltraits/internal/diag"
	"calltraits/internal/parser"
	"calltraits/internal/sig"
	"calltraits/internal/source"
	"calltraits/internal/trace"
	"calltraits/internal/types"
)

// ErrInvalidExpr reports a type expression that did not parse; the
// diagnostics are in the Universe bag.
var ErrInvalidExpr = errors.New("invalid type expression")

// Universe is a set of declaration files parsed into one Scope, against
// which type expressions are resolved. It is not safe for concurrent use.
type Universe struct {
	Files *source.FileSet
	Scope *parser.Scope
	Bag   *diag.Bag
	opts  Options

	reporter diag.Reporter
}

// NewUniverse returns an empty universe.
func NewUniverse(opts Options) *Universe {
	bag := diag.NewBag(opts.maxDiagnostics())
	return &Universe{
		Files:    source.NewFileSet(),
		Scope:    parser.NewScope(types.NewInterner(), opts.Wrappers...),
		Bag:      bag,
		opts:     opts,
		reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	}
}

// LoadUniverse parses paths, in order, into a fresh universe. Later files
// see the declarations of earlier ones. Syntax problems land in the Bag;
// only I/O failures are returned as errors.
func LoadUniverse(ctx context.Context, paths []string, opts Options) (*Universe, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "load")
	defer span.End("")

	u := NewUniverse(opts)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := u.Files.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		u.ParseDecls(ctx, u.Files.Get(id))
	}
	return u, nil
}

// AddSource parses in-memory declarations, as from stdin.
func (u *Universe) AddSource(ctx context.Context, name string, content []byte) parser.Result {
	return u.ParseDecls(ctx, u.Files.Get(u.Files.AddVirtual(name, content)))
}

// ParseDecls parses one declaration file into the universe scope.
func (u *Universe) ParseDecls(ctx context.Context, file *source.File) parser.Result {
	_, span := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	res := parser.ParseFile(file, u.Scope, parser.Options{
		MaxErrors: u.opts.MaxErrors,
		Reporter:  u.reporter,
	})
	span.WithExtra("aliases", fmt.Sprint(len(res.Aliases))).End("")
	return res
}

// Types returns the universe interner.
func (u *Universe) Types() *types.Interner {
	return u.Scope.Types()
}

// Resolve parses a type expression against the universe.
func (u *Universe) Resolve(expr string) (types.TypeID, error) {
	file := u.Files.Get(u.Files.AddVirtual("<expr>", []byte(expr)))
	id, ok := parser.ParseType(file, u.Scope, parser.Options{
		MaxErrors: u.opts.MaxErrors,
		Reporter:  u.reporter,
	})
	if !ok {
		return types.NoTypeID, fmt.Errorf("%q: %w", expr, ErrInvalidExpr)
	}
	return id, nil
}

// Inspect resolves expr and classifies it. A type that resolves but is not
// invocable is not an error: the result says so.
func Inspect(ctx context.Context, u *Universe, expr string) (AliasResult, error) {
	_, span := trace.Start(ctx, trace.ScopeAlias, "inspect")
	defer span.End("")

	id, err := u.Resolve(expr)
	if err != nil {
		return AliasResult{}, err
	}
	return Summarize(u.Types(), expr, id), nil
}

// Step is one applied transformation.
type Step struct {
	Op   string `json:"op"`
	Type string `json:"type"`
}

// Transform resolves expr and applies ops left to right. Steps starts with
// the input itself under the op name "input". A rejected op returns the
// steps so far and an error wrapping sig.ErrShapeMismatch.
func Transform(ctx context.Context, u *Universe, expr string, ops []string) ([]Step, error) {
	_, span := trace.Start(ctx, trace.ScopeAlias, "transform")
	defer span.End("")

	parsed := make([]sig.Op, len(ops))
	for i, name := range ops {
		op, err := sig.ParseOp(name)
		if err != nil {
			return nil, err
		}
		parsed[i] = op
	}
	id, err := u.Resolve(expr)
	if err != nil {
		return nil, err
	}
	in := u.Types()
	steps := []Step{{Op: "input", Type: types.Label(in, id)}}
	for i, op := range parsed {
		next, err := op.Apply(in, id)
		if err != nil {
			return steps, fmt.Errorf("step %d (%s): %w", i+1, ops[i], err)
		}
		id = next
		steps = append(steps, Step{Op: op.Name, Type: types.Label(in, id)})
	}
	return steps, nil
}

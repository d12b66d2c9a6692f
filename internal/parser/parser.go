package parser

import (
	"fmt"

	"calltraits/internal/diag"
	"calltraits/internal/lexer"
	"calltraits/internal/source"
	"calltraits/internal/token"
	"calltraits/internal/types"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit is reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Alias is one "using Name = type;" declaration.
type Alias struct {
	Name string
	Type types.TypeID
	Span source.Span
}

// Result lists what a declaration file introduced into its Scope.
type Result struct {
	Aliases []Alias
	Classes []types.TypeID
	Errors  uint
}

// Parser holds the state for one file. The whole token slice is kept so
// the type grammar can look ahead for "Name::*".
type Parser struct {
	toks     []token.Token
	pos      int
	scope    *Scope
	in       *types.Interner
	opts     Options
	lastSpan source.Span
}

func newParser(file *source.File, scope *Scope, opts Options) *Parser {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	toks := make([]token.Token, 0, len(file.Content)/3+1)
	for {
		tok := lx.Next()
		// the lexer already reported these
		if tok.Kind != token.Invalid {
			toks = append(toks, tok)
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	opts.CurrentErrors += lx.Errors()
	return &Parser{
		toks:     toks,
		scope:    scope,
		in:       scope.Types(),
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
}

// ParseFile reads a declaration file into scope.
func ParseFile(file *source.File, scope *Scope, opts Options) Result {
	p := newParser(file, scope, opts)
	var res Result
	p.parseDecls(&res)
	res.Errors = p.opts.CurrentErrors
	return res
}

// ParseType reads a file holding exactly one type expression and resolves
// it against scope.
func ParseType(file *source.File, scope *Scope, opts Options) (types.TypeID, bool) {
	p := newParser(file, scope, opts)
	if p.at(token.EOF) {
		p.err(diag.SynExpectType, "expected a type")
		return types.NoTypeID, false
	}
	id, ok := p.parseType()
	if !p.at(token.EOF) {
		p.err(diag.SynUnexpectedToken, fmt.Sprintf("unexpected %s after type", p.peek().Kind))
		ok = false
	}
	if p.opts.CurrentErrors > 0 {
		ok = false
	}
	return id, ok
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance consumes the next token. EOF is never consumed.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points at the next token, or just past the last one at EOF.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes k or reports code.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, fmt.Sprintf("%s, got %s", msg, p.peek().Kind))
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.errorAt(code, p.diagnosticSpan(), msg).Emit()
}

// errorAt counts the error and returns a builder for notes; past the limit
// the builder has no reporter and Emit is a no-op.
func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	p.opts.CurrentErrors++
	var r diag.Reporter
	if p.opts.MaxErrors == 0 || p.opts.CurrentErrors <= p.opts.MaxErrors {
		r = p.opts.Reporter
	}
	return diag.ReportError(r, code, sp, msg)
}

// resyncTo skips tokens until one of kinds or EOF.
func (p *Parser) resyncTo(kinds ...token.Kind) {
	for !p.at(token.EOF) {
		cur := p.peek().Kind
		for _, k := range kinds {
			if cur == k {
				return
			}
		}
		p.advance()
	}
}

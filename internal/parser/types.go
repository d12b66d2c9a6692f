package parser

import (
	"fmt"

	"calltraits/internal/diag"
	"calltraits/internal/source"
	"calltraits/internal/token"
	"calltraits/internal/types"
)

// typeState is the type built so far. viaAlias is set while id is exactly
// what an alias name denotes, before any suffix; redundant cv and reference
// collapsing are then accepted the way a typedef accepts them.
type typeState struct {
	id       types.TypeID
	span     source.Span
	viaAlias bool
}

func (st typeState) valid() bool {
	return st.id != types.NoTypeID
}

// parseType implements
//
//	type   := cv* base suffix*
//	base   := name ['<' type '>'] | '(' type ')'
//	suffix := cv | '*' | '&' | '&&' | '(' params ')' fnquals | name '::' '*'
//
// On error it keeps consuming the construct and returns ok=false.
func (p *Parser) parseType() (types.TypeID, bool) {
	ok := true
	start := p.peek().Span

	var prefix types.CV
	for p.peek().IsCV() {
		tok := p.advance()
		cv := cvOf(tok.Kind)
		if prefix&cv != 0 {
			p.errorAt(diag.SynDuplicateQualifier, tok.Span, "duplicate '"+tok.Text+"'").Emit()
			ok = false
		}
		prefix |= cv
	}

	st, bok := p.parseBase()
	ok = ok && bok
	if prefix != types.CVNone && st.valid() {
		st.span = start.Cover(st.span)
		if !p.applyCV(&st, prefix, st.span) {
			ok = false
		}
	}

	for {
		tok := p.peek()
		switch {
		case tok.IsCV():
			p.advance()
			if st.valid() && !p.applyCV(&st, cvOf(tok.Kind), tok.Span) {
				ok = false
			}
		case tok.Kind == token.Star:
			p.advance()
			if st.valid() && !p.applyPointer(&st, tok.Span) {
				ok = false
			}
		case tok.Kind == token.Amp, tok.Kind == token.AndAnd:
			p.advance()
			if st.valid() && !p.applyReference(&st, tok.Kind == token.AndAnd, tok.Span) {
				ok = false
			}
		case tok.Kind == token.LParen:
			params, qual, pok := p.parseSignatureTail()
			ok = ok && pok
			if st.valid() && !p.applyFunction(&st, params, qual) {
				ok = false
			}
		case tok.Kind == token.Ident && p.memberPointerAhead():
			class, csp := p.parseMemberPointerClass()
			if st.valid() && !p.applyMemberPointer(&st, class, csp) {
				ok = false
			}
		default:
			if !st.valid() {
				ok = false
			}
			return st.id, ok
		}
		st.span = st.span.Cover(p.lastSpan)
	}
}

func cvOf(k token.Kind) types.CV {
	if k == token.KwVolatile {
		return types.CVVolatile
	}
	return types.CVConst
}

func (p *Parser) parseBase() (typeState, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LParen:
		p.advance()
		id, ok := p.parseType()
		if _, cok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !cok {
			ok = false
		}
		return typeState{id: id, span: tok.Span.Cover(p.lastSpan)}, ok

	case token.Ident:
		name, sp := p.parseQualifiedName()
		if p.at(token.Lt) {
			return p.parseTemplate(name, sp)
		}
		if id, ok := p.in.Builtin(name); ok {
			return typeState{id: id, span: sp}, true
		}
		if id, ok := p.scope.Lookup(name); ok {
			return typeState{id: id, span: sp, viaAlias: p.scope.IsAlias(name)}, true
		}
		p.errorAt(diag.SemaUnresolvedType, sp, fmt.Sprintf("unknown type name %q", name)).Emit()
		return typeState{span: sp}, false

	default:
		p.err(diag.SynExpectType, fmt.Sprintf("expected a type, got %s", tok.Kind))
		return typeState{span: p.diagnosticSpan()}, false
	}
}

// parseQualifiedName reads Ident ('::' Ident)*, stopping in front of "::*".
func (p *Parser) parseQualifiedName() (string, source.Span) {
	first := p.advance()
	name, sp := first.Text, first.Span
	for p.at(token.ColonColon) && p.peekN(1).Kind == token.Ident {
		p.advance()
		part := p.advance()
		name += "::" + part.Text
		sp = sp.Cover(part.Span)
	}
	return name, sp
}

func (p *Parser) parseTemplate(name string, sp source.Span) (typeState, bool) {
	p.advance() // '<'
	arg, ok := p.parseType()
	if _, gok := p.expect(token.Gt, diag.SynUnclosedAngle, "expected '>'"); !gok {
		ok = false
	}
	full := sp.Cover(p.lastSpan)
	if !p.scope.IsWrapper(name) {
		p.errorAt(diag.SemaUnknownTemplate, sp, fmt.Sprintf("unknown template %q", name)).Emit()
		return typeState{span: full}, false
	}
	if !ok || arg == types.NoTypeID {
		return typeState{span: full}, false
	}
	switch tt := p.in.MustLookup(arg); {
	case tt.Kind == types.KindReference:
		p.errorAt(diag.SemaIndirectReference, full, "reference wrapper of a reference type").Emit()
		return typeState{span: full}, false
	case tt.Kind == types.KindVoid:
		p.errorAt(diag.SemaInvalidVoid, full, "reference wrapper of void").Emit()
		return typeState{span: full}, false
	}
	return typeState{id: p.in.Intern(types.MakeWrapper(arg)), span: full}, true
}

// memberPointerAhead reports whether the tokens at the cursor spell
// Ident ('::' Ident)* '::' '*'.
func (p *Parser) memberPointerAhead() bool {
	i := 0
	if p.peekN(i).Kind != token.Ident {
		return false
	}
	i++
	for p.peekN(i).Kind == token.ColonColon {
		switch p.peekN(i + 1).Kind {
		case token.Star:
			return true
		case token.Ident:
			i += 2
		default:
			return false
		}
	}
	return false
}

func (p *Parser) parseMemberPointerClass() (string, source.Span) {
	name, sp := p.parseQualifiedName()
	p.advance() // '::'
	star := p.advance()
	return name, sp.Cover(star.Span)
}

func (p *Parser) applyCV(st *typeState, cv types.CV, sp source.Span) bool {
	tt := p.in.MustLookup(st.id)
	switch tt.Kind {
	case types.KindFn, types.KindReference:
		if st.viaAlias {
			return true // ignored, as through a typedef
		}
		p.errorAt(diag.SemaMisplacedCV, sp, fmt.Sprintf("'%s' cannot qualify %s", cv, types.Label(p.in, st.id))).Emit()
		return false
	}
	if tt.CV&cv != 0 && !st.viaAlias {
		p.errorAt(diag.SynDuplicateQualifier, sp, fmt.Sprintf("duplicate '%s'", cv)).Emit()
		return false
	}
	st.id = p.in.WithCV(st.id, cv)
	st.viaAlias = false
	return true
}

func (p *Parser) applyPointer(st *typeState, sp source.Span) bool {
	if p.in.MustLookup(st.id).Kind == types.KindReference {
		p.errorAt(diag.SemaIndirectReference, st.span.Cover(sp), "pointer to reference "+types.Label(p.in, st.id)).Emit()
		return false
	}
	st.id = p.in.Intern(types.MakePointer(st.id))
	st.viaAlias = false
	return true
}

func (p *Parser) applyReference(st *typeState, transient bool, sp source.Span) bool {
	tt := p.in.MustLookup(st.id)
	switch tt.Kind {
	case types.KindReference:
		if !st.viaAlias {
			p.errorAt(diag.SemaIndirectReference, st.span.Cover(sp), "reference to reference "+types.Label(p.in, st.id)).Emit()
			return false
		}
		// collapsing: & wins over &&
		st.id = p.in.Intern(types.MakeReference(tt.Elem, tt.Transient && transient))
		st.viaAlias = false
		return true
	case types.KindVoid:
		p.errorAt(diag.SemaInvalidVoid, st.span.Cover(sp), "reference to "+types.Label(p.in, st.id)).Emit()
		return false
	}
	st.id = p.in.Intern(types.MakeReference(st.id, transient))
	st.viaAlias = false
	return true
}

func (p *Parser) applyFunction(st *typeState, params []types.TypeID, qual types.FnQual) bool {
	if p.in.MustLookup(st.id).Kind == types.KindFn {
		p.errorAt(diag.SemaFunctionReturnsFunction, st.span.Cover(p.lastSpan),
			"function cannot return function type "+types.Label(p.in, st.id)).Emit()
		return false
	}
	st.id = p.in.RegisterFn(params, st.id, qual)
	st.viaAlias = false
	return true
}

func (p *Parser) applyMemberPointer(st *typeState, className string, sp source.Span) bool {
	class, ok := p.scope.Lookup(className)
	if !ok {
		if _, builtin := p.in.Builtin(className); !builtin {
			p.errorAt(diag.SemaUnresolvedType, sp, fmt.Sprintf("unknown type name %q", className)).Emit()
			return false
		}
	}
	if !ok || p.in.MustLookup(class).Kind != types.KindClass {
		p.errorAt(diag.SemaNotAClass, sp, fmt.Sprintf("%q is not a class", className)).Emit()
		return false
	}
	switch p.in.MustLookup(st.id).Kind {
	case types.KindReference:
		p.errorAt(diag.SemaIndirectReference, st.span.Cover(sp), "pointer to member of reference type "+types.Label(p.in, st.id)).Emit()
		return false
	case types.KindVoid:
		p.errorAt(diag.SemaInvalidVoid, st.span.Cover(sp), "pointer to member of type void").Emit()
		return false
	}
	st.id = p.in.Intern(types.MakeMemberPointer(st.id, p.in.Unqualified(class)))
	st.viaAlias = false
	return true
}

// parseSignatureTail reads '(' params ')' fnquals.
func (p *Parser) parseSignatureTail() ([]types.TypeID, types.FnQual, bool) {
	params, variadic, ok := p.parseParams()
	qual, qok := p.parseFnQuals()
	if variadic {
		qual |= types.FnVariadic
	}
	return params, qual, ok && qok
}

func (p *Parser) parseParams() (params []types.TypeID, variadic, ok bool) {
	open := p.advance() // '('
	ok = true
	voidSpan := source.Span{}
	sawVoid := false
	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			p.errorAt(diag.SynUnclosedParen, open.Span, "unclosed parameter list").Emit()
			return nil, false, false
		}
		if p.at(token.DotDotDot) {
			p.advance()
			variadic = true
			if p.at(token.Comma) {
				p.err(diag.SynVariadicMustBeLast, "'...' must be the last parameter")
				ok = false
				p.resyncTo(token.RParen)
			}
			break
		}
		start := p.peek().Span
		param, pok := p.parseType()
		if !pok {
			ok = false
			p.resyncTo(token.Comma, token.RParen)
		} else if param == p.in.Builtins().Void {
			sawVoid = true
			voidSpan = start.Cover(p.lastSpan)
		}
		if p.at(token.Ident) {
			p.advance() // parameter name
		}
		params = append(params, param)
		if p.at(token.DotDotDot) {
			continue // "int..." without a comma
		}
		if !p.at(token.RParen) {
			if _, cok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or ')'"); !cok {
				ok = false
				p.resyncTo(token.RParen)
			}
		}
	}
	if _, cok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !cok {
		return nil, false, false
	}
	if sawVoid {
		if len(params) == 1 && !variadic {
			return nil, false, ok // (void)
		}
		p.errorAt(diag.SemaInvalidVoid, voidSpan, "parameter of type void").Emit()
		ok = false
	}
	return params, variadic, ok
}

func (p *Parser) parseFnQuals() (types.FnQual, bool) {
	var qual types.FnQual
	ok := true
	for {
		tok := p.peek()
		var bit types.FnQual
		switch tok.Kind {
		case token.KwConst:
			bit = types.FnConst
		case token.KwVolatile:
			bit = types.FnVolatile
		case token.Amp:
			bit = types.FnLRef
		case token.AndAnd:
			bit = types.FnRRef
		case token.KwNoexcept:
			bit = types.FnNoexcept
		default:
			return qual, ok
		}
		p.advance()
		switch {
		case qual&bit != 0:
			p.errorAt(diag.SynDuplicateQualifier, tok.Span, "duplicate '"+tok.Text+"'").Emit()
			ok = false
		case bit&(types.FnLRef|types.FnRRef) != 0 && qual&(types.FnLRef|types.FnRRef) != 0:
			p.errorAt(diag.SynConflictingRef, tok.Span, "a function cannot be both '&' and '&&'").Emit()
			ok = false
		default:
			qual |= bit
		}
	}
}

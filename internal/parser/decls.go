package parser

import (
	"fmt"
	"slices"

	"calltraits/internal/diag"
	"calltraits/internal/source"
	"calltraits/internal/token"
	"calltraits/internal/types"
)

// parseDecls is the top-level loop:
//
//	decl   := ('struct' | 'class') Name [ '{' member* '}' ] ';'
//	        | 'using' Name '=' type ';'
//	member := type Name ';'
//	        | type Name '(' params ')' fnquals ';'
//	        | type 'operator' '(' ')' '(' params ')' fnquals ';'
func (p *Parser) parseDecls(res *Result) {
	for !p.at(token.EOF) && !p.opts.Enough() {
		var ok bool
		switch p.peek().Kind {
		case token.KwStruct, token.KwClass:
			ok = p.parseClass(res)
		case token.KwUsing:
			ok = p.parseUsing(res)
		case token.Semicolon:
			p.advance()
			ok = true
		default:
			p.err(diag.SynUnexpectedTopLevel, fmt.Sprintf("expected 'struct', 'class' or 'using', got %s", p.peek().Kind))
		}
		if !ok {
			p.resyncTop()
		}
	}
}

// resyncTop skips to the next ';' (consumed) or declaration keyword.
func (p *Parser) resyncTop() {
	p.resyncTo(token.Semicolon, token.KwStruct, token.KwClass, token.KwUsing)
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func (p *Parser) parseClass(res *Result) bool {
	kw := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected class name")
	if !ok {
		return false
	}
	class, ok := p.declareClass(nameTok)
	if !ok {
		if p.at(token.LBrace) {
			p.skipBody()
		}
		return false
	}
	if !slices.Contains(res.Classes, class) {
		res.Classes = append(res.Classes, class)
	}

	if p.at(token.LBrace) {
		if info, _ := p.in.ClassInfo(class); info.Complete {
			prev, _ := p.scope.declared(nameTok.Text)
			p.errorAt(diag.SemaDuplicateDecl, nameTok.Span, fmt.Sprintf("redefinition of %q", nameTok.Text)).
				WithNote(prev.span, "previous definition is here").
				Emit()
			p.skipBody()
			return false
		}
		p.scope.bind(nameTok.Text, binding{id: class, span: kw.Span.Cover(nameTok.Span)})
		if !p.parseClassBody(class) {
			return false
		}
		p.in.MarkComplete(class)
	}
	_, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after class")
	return ok
}

// declareClass registers a new class or returns the one already declared
// under the name.
func (p *Parser) declareClass(nameTok token.Token) (types.TypeID, bool) {
	name := nameTok.Text
	if prev, exists := p.scope.declared(name); exists {
		if prev.alias {
			p.errorAt(diag.SemaDuplicateDecl, nameTok.Span, fmt.Sprintf("%q redeclared as a class", name)).
				WithNote(prev.span, "previously declared as an alias here").
				Emit()
			return types.NoTypeID, false
		}
		return prev.id, true
	}
	if _, builtin := p.in.Builtin(name); builtin {
		p.errorAt(diag.SemaDuplicateDecl, nameTok.Span, fmt.Sprintf("%q is a built-in type", name)).Emit()
		return types.NoTypeID, false
	}
	class := p.in.RegisterClass(name)
	p.scope.bind(name, binding{id: class, span: nameTok.Span})
	return class, true
}

func (p *Parser) skipBody() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) parseClassBody(class types.TypeID) bool {
	open := p.advance() // '{'
	ok := true
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.errorAt(diag.SynUnclosedBrace, open.Span, "unclosed class body").Emit()
			return false
		}
		if p.opts.Enough() {
			return false
		}
		if !p.parseMember(class) {
			ok = false
			p.resyncTo(token.Semicolon, token.RBrace)
			if p.at(token.Semicolon) {
				p.advance()
			}
		}
	}
	p.advance() // '}'
	return ok
}

func (p *Parser) parseMember(class types.TypeID) bool {
	start := p.peek().Span
	typ, ok := p.parseType()
	if !ok {
		return false
	}

	if p.at(token.KwOperator) {
		return p.parseCallOperator(class, typ, start)
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name")
	if !ok {
		return false
	}
	fn := types.NoTypeID
	if p.at(token.LParen) {
		params, qual, sok := p.parseSignatureTail()
		if !sok {
			return false
		}
		st := typeState{id: typ, span: start}
		if !p.applyFunction(&st, params, qual) {
			return false
		}
		fn = st.id
	} else if p.in.MustLookup(typ).Kind == types.KindFn {
		fn = typ
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after member"); !ok {
		return false
	}

	if prev, dup := p.scope.memberSpan(class, nameTok.Text, nameTok.Span); dup {
		p.errorAt(diag.SemaDuplicateMember, nameTok.Span, fmt.Sprintf("duplicate member %q", nameTok.Text)).
			WithNote(prev, "previous declaration is here").
			Emit()
		return true
	}
	if fn != types.NoTypeID {
		p.in.AddMethod(class, types.ClassMethod{Name: nameTok.Text, Fn: fn})
		return true
	}
	if typ == p.in.Builtins().Void {
		p.errorAt(diag.SemaInvalidVoid, start.Cover(nameTok.Span), "data member of type void").Emit()
		return true
	}
	p.in.AddField(class, types.ClassField{Name: nameTok.Text, Type: typ})
	return true
}

func (p *Parser) parseCallOperator(class, result types.TypeID, start source.Span) bool {
	kw := p.advance() // 'operator'
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '()' after 'operator'"); !ok {
		return false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected '()' after 'operator'"); !ok {
		return false
	}
	if !p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, fmt.Sprintf("expected parameter list, got %s", p.peek().Kind))
		return false
	}
	params, qual, ok := p.parseSignatureTail()
	if !ok {
		return false
	}
	st := typeState{id: result, span: start}
	if !p.applyFunction(&st, params, qual) {
		return false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after member"); !ok {
		return false
	}
	sp := start.Cover(p.lastSpan)
	if !p.in.SetCallOperator(class, st.id) {
		p.errorAt(diag.SemaDuplicateCallOperator, kw.Span, "class already declares operator()").
			WithNote(p.scope.calls[class], "previous operator() is here").
			Emit()
		return true
	}
	p.scope.calls[class] = sp
	return true
}

func (p *Parser) parseUsing(res *Result) bool {
	kw := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected alias name")
	if !ok {
		return false
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '='"); !ok {
		return false
	}
	typ, ok := p.parseType()
	if !ok {
		return false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after alias"); !ok {
		return false
	}

	name := nameTok.Text
	if prev, exists := p.scope.declared(name); exists {
		p.errorAt(diag.SemaDuplicateDecl, nameTok.Span, fmt.Sprintf("redeclaration of %q", name)).
			WithNote(prev.span, "previous declaration is here").
			Emit()
		return true
	}
	if _, builtin := p.in.Builtin(name); builtin {
		p.errorAt(diag.SemaDuplicateDecl, nameTok.Span, fmt.Sprintf("%q is a built-in type", name)).Emit()
		return true
	}
	sp := kw.Span.Cover(p.lastSpan)
	p.scope.bind(name, binding{id: typ, span: sp, alias: true})
	res.Aliases = append(res.Aliases, Alias{Name: name, Type: typ, Span: sp})
	return true
}

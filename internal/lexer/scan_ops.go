package lexer

import (
	"calltraits/internal/diag"
	"calltraits/internal/token"
)

// scanPunct is greedy: "..." before "&&" and "::" before single bytes.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	switch {
	case lx.try3('.', '.', '.'):
		return emit(token.DotDotDot)
	case lx.try2(':', ':'):
		return emit(token.ColonColon)
	case lx.try2('&', '&'):
		return emit(token.AndAnd)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '*':
		return emit(token.Star)
	case '&':
		return emit(token.Amp)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case ',':
		return emit(token.Comma)
	case ';':
		return emit(token.Semicolon)
	case '=':
		return emit(token.Assign)
	default:
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		lx.errLex(diag.LexUnknownChar, sp, "unknown character "+quoteByte(ch))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
}

package lexer

import (
	"golang.org/x/text/unicode/norm"

	"calltraits/internal/diag"
	"calltraits/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword scans an identifier and checks it against the keyword
// table. Non-ASCII identifiers are NFC-normalized so that equal names
// compare equal however they were typed.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	ascii := true
	for {
		r, sz := lx.peekRune()
		if sz == 0 {
			break
		}
		if r < utf8RuneSelf {
			b := byte(r)
			if lx.cursor.Off == uint32(start) && !isIdentStartByte(b) || !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if lx.cursor.Off == uint32(start) && !isIdentStartRune(r) || !isIdentContinueRune(r) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	if sp.Empty() {
		// a non-letter rune outside ASCII
		lx.bumpRune()
		sp = lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character "+string(lx.file.Content[sp.Start:sp.End]))
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	text := string(lx.file.Content[sp.Start:sp.End])
	if !ascii {
		text = norm.NFC.String(text)
	}
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

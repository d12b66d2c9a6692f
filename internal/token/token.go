package token

import (
	"calltraits/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	return t.Kind >= Star && t.Kind <= DotDotDot
}

// IsKeyword reports whether the token is a keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwConst && t.Kind <= KwOperator
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsCV reports the two cv keywords.
func (t Token) IsCV() bool { return t.Kind == KwConst || t.Kind == KwVolatile }

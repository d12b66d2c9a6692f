package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	KwConst    // const
	KwVolatile // volatile
	KwNoexcept // noexcept
	KwStruct   // struct
	KwClass    // class
	KwUsing    // using
	KwOperator // operator

	Star       // *
	Amp        // &
	AndAnd     // &&
	ColonColon // ::
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	Lt         // <
	Gt         // >
	Comma      // ,
	Semicolon  // ;
	Assign     // =
	DotDotDot  // ...
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "end of file",
	Ident:      "identifier",
	KwConst:    "'const'",
	KwVolatile: "'volatile'",
	KwNoexcept: "'noexcept'",
	KwStruct:   "'struct'",
	KwClass:    "'class'",
	KwUsing:    "'using'",
	KwOperator: "'operator'",
	Star:       "'*'",
	Amp:        "'&'",
	AndAnd:     "'&&'",
	ColonColon: "'::'",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	Lt:         "'<'",
	Gt:         "'>'",
	Comma:      "','",
	Semicolon:  "';'",
	Assign:     "'='",
	DotDotDot:  "'...'",
}

// String renders the kind the way diagnostics quote it.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

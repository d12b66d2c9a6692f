package token

var keywords = map[string]Kind{
	"const":    KwConst,
	"volatile": KwVolatile,
	"noexcept": KwNoexcept,
	"struct":   KwStruct,
	"class":    KwClass,
	"using":    KwUsing,
	"operator": KwOperator,
}

// LookupKeyword reports whether ident is a keyword. Keywords are
// case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

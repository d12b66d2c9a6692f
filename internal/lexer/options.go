package lexer

import (
	"calltraits/internal/diag"
	"calltraits/internal/source"
)

type Options struct {
	Reporter diag.Reporter // may be nil: errors are dropped, lexing continues
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.errors++
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}

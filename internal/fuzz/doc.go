// Package fuzztests houses Go fuzz harnesses for the declaration front end
// (source -> lexer -> parser -> classifier). They guard against panics and
// hangs on arbitrary input, and check that every parsed type label parses
// back to the same type.
package fuzztests

// Package token defines lexical token kinds and trivia for declaration files.
// Invariants:
//   - Token.Text is a slice of the original source, except for identifiers
//     that were NFC-normalized by the lexer.
//   - Token.Span covers the original bytes of the token.
//   - Built-in type names (int, char, double, ...) are identifiers; the
//     parser resolves them.
//   - Comments are leading Trivia and never appear in the main token stream.
package token

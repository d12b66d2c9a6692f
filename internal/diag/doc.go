// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Warning or Error. Only errors fail a check.
//   - Code: compact numeric identifier with a stable string form (codes.go).
//     Ranges: LEX 1000, SYN 2000, SEM 3000, IO 4000, OBS 6000.
//   - Message: short, actionable text.
//   - Primary: the source.Span pointing to the issue.
//   - Notes: optional secondary spans, e.g. "first declared here".
//
// # Emitting diagnostics
//
// Phases report through a Reporter. The parser builds diagnostics with
// ReportError/ReportWarning, chains WithNote and calls Emit. The driver
// puts a DedupReporter in front of a BagReporter for each file.
//
// Package diag performs no formatting or IO; rendering lives in
// internal/diagfmt. Diagnostics are plain data so the driver can cache them.
package diag

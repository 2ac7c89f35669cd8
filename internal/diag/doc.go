// Package diag defines the diagnostic model shared by all phases of a TAGML parse.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – Info, Warning or Error. Warnings never fail a parse.
//   - Kind – syntax (lexer/grammar), custom (validation) or ambiguity.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form (LEX1001, HDR3005, DOC4012, ...) and a message template.
//   - Span / Range – byte span and its 1-based line/character form.
//
// # Collecting
//
// Collector owns the diagnostics of a single document. Producers call
// AddError/AddWarning with a code and template arguments; nested parses
// (header, ontology, rules) return plain []Diagnostic which the caller merges
// with AddErrors. AddBreakingError records the error and returns an error
// wrapping ErrBreak: the caller must stop the walk and surface what has been
// collected so far.
//
// # Ordering
//
// OrderedErrors and OrderedWarnings sort by start line, start character, end
// line, end character and finally message. Unranged diagnostics follow all
// ranged ones and are sorted by message.
//
// Formatting lives in internal/diagfmt.
package diag

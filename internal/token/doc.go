// Package token defines the lexical tokens of the TAGML surface syntax.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Tags are single tokens: the lexer finds where a tag ends and the parser
//     reads the name, layers and annotations inside it.
//   - Comments are tokens; the parser drops them.
package token

package lexer

import (
	"tagml/internal/diag"
	"tagml/internal/token"
)

// scanText читает текст до начала тега или маркера вариации.
// "\x" экранирует следующий символ целиком (включая многобайтные руны).
func (lx *Lexer) scanText() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '[' || b == '<' || (b == '|' && lx.variation > 0) {
			break
		}
		if b == '\\' {
			esc := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				lx.report(diag.LexDanglingEscape, lx.cursor.SpanFrom(esc))
				break
			}
			lx.cursor.BumpRune()
			continue
		}
		lx.cursor.BumpRune()
	}
	return lx.emit(token.Text, start)
}

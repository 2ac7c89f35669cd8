package lexer

import (
	"tagml/internal/diag"
	"tagml/internal/token"
)

// scanHeader читает [! ... !] в начале документа. Строки JSON могут
// содержать "!]", поэтому кавычки отслеживаются.
func (lx *Lexer) scanHeader() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(2)
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			if !lx.skipString() {
				lx.report(diag.LexUnterminatedHeader, lx.cursor.SpanFrom(start))
				return lx.emit(token.Invalid, start)
			}
			continue
		}
		if lx.cursor.At("!]") {
			lx.cursor.BumpN(2)
			return lx.emit(token.Header, start)
		}
		lx.cursor.Bump()
	}
	lx.report(diag.LexUnterminatedHeader, lx.cursor.SpanFrom(start))
	return lx.emit(token.Invalid, start)
}

func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(2)
	for !lx.cursor.EOF() {
		if lx.cursor.At("!]") {
			lx.cursor.BumpN(2)
			return lx.emit(token.Comment, start)
		}
		lx.cursor.Bump()
	}
	lx.report(diag.LexUnterminatedComment, lx.cursor.SpanFrom(start))
	return lx.emit(token.Invalid, start)
}

// scanOpenTag читает "[" ... ">" (start tag) или "[" ... "]" (milestone).
// Скобки внутри значений аннотаций ([1,2], {a=1}, [>rich<]) учитываются
// по глубине; тег заканчивается на первом ">" или "]" на глубине 0.
func (lx *Lexer) scanOpenTag() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	depth := 0
	var prev byte
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"', '\'':
			if !lx.skipString() {
				return lx.unterminated(start)
			}
			prev = b
			continue
		case '\\':
			lx.cursor.Bump()
		case '[', '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ']':
			if depth == 0 {
				lx.cursor.Bump()
				return lx.emit(token.Milestone, start)
			}
			depth--
		case '>':
			// "->" - стрелка ссылочной аннотации, а не конец тега
			if depth == 0 && prev != '-' {
				lx.cursor.Bump()
				return lx.emit(token.StartTag, start)
			}
		}
		prev = b
		lx.cursor.Bump()
	}
	return lx.unterminated(start)
}

// scanCloseTag читает "<" ... "]".
func (lx *Lexer) scanCloseTag() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == ']' {
			return lx.emit(token.EndTag, start)
		}
		if b == '[' || b == '<' {
			// начался следующий тег: этот не закрыт
			lx.cursor.Back()
			break
		}
	}
	return lx.unterminated(start)
}

func (lx *Lexer) unterminated(start Mark) token.Token {
	lx.report(diag.LexUnterminatedTag, lx.cursor.SpanFrom(start))
	return lx.emit(token.Invalid, start)
}

// skipString пропускает строку в кавычках вместе с экранированием.
// Возвращает false, если строка не закрыта до конца ввода.
func (lx *Lexer) skipString() bool {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '\\':
			lx.cursor.Bump()
		case quote:
			return true
		}
	}
	lx.report(diag.LexUnterminatedString, lx.cursor.SpanFrom(start))
	return false
}

package lexer

import (
	"tagml/internal/source"
	"tagml/internal/token"
)

type Lexer struct {
	file      *source.File
	cursor    Cursor
	opts      Options
	look      *token.Token // 1 элементный буфер для токена
	seenBody  bool         // был ли уже значимый токен (после него "[!" - комментарий)
	variation int          // глубина вложенности <| ... |>
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	var tok token.Token
	b0 := lx.cursor.Peek()
	switch {
	case lx.cursor.At("[!"):
		if lx.seenBody {
			tok = lx.scanComment()
		} else {
			tok = lx.scanHeader()
		}
	case b0 == '[':
		tok = lx.scanOpenTag()
	case lx.cursor.At("<|"):
		tok = lx.fixed(token.DivergeOpen, 2)
		lx.variation++
	case b0 == '<':
		tok = lx.scanCloseTag()
	case b0 == '|' && lx.variation > 0:
		if lx.cursor.At("|>") {
			tok = lx.fixed(token.ConvergeClose, 2)
			lx.variation--
		} else {
			tok = lx.fixed(token.Divider, 1)
		}
	default:
		tok = lx.scanText()
	}

	if tok.Kind != token.Text || !isBlank(tok.Text) {
		lx.seenBody = true
	}
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-width span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.EmptyAt(lx.file.ID, lx.cursor.Off)
}

// All lexes the remaining input, EOF excluded.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func (lx *Lexer) fixed(kind token.Kind, n int) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(n)
	return lx.emit(kind, start)
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

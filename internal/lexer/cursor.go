package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"tagml/internal/source"
)

// Cursor - байтовая позиция в нормализованном тексте документа.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // конец доступного текста, у среза меньше длины файла
}

// NewCursor creates a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: end}
}

// EOF проверяет, достигнут ли конец документа
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte, 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Peek2 returns the current and the next byte; ok is false when fewer than
// two bytes remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// At reports whether the remaining input starts with s ("!]", "<|" ...).
func (c *Cursor) At(s string) bool {
	if c.Limit-c.Off < uint32(len(s)) { // #nosec G115 -- s is a short literal
		return false
	}
	return string(c.File.Content[c.Off:c.Off+uint32(len(s))]) == s // #nosec G115
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// BumpN skips n bytes, stopping at EOF.
func (c *Cursor) BumpN(n int) {
	for range n {
		if c.EOF() {
			return
		}
		c.Off++
	}
}

// BumpRune skips the whole UTF-8 sequence at the cursor. Broken sequences
// advance by one byte.
func (c *Cursor) BumpRune() {
	if c.EOF() {
		return
	}
	if c.File.Content[c.Off] < utf8.RuneSelf {
		c.Off++
		return
	}
	_, sz := utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
	c.Off += uint32(sz) // #nosec G115 -- sz <= utf8.UTFMax
}

// Eat consumes b if it is the current byte.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Slice returns a cursor over [start, end) of the same file. Bounds are
// clamped to the current limit.
func (c *Cursor) Slice(start, end uint32) Cursor {
	end = min(end, c.Limit)
	start = min(start, end)
	return Cursor{File: c.File, Off: start, Limit: end}
}

// Back steps over the byte just bumped again.
func (c *Cursor) Back() {
	if c.Off > 0 {
		c.Off--
	}
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

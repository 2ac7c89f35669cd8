package ast

import "tagml/internal/source"

// Header is the raw [!{...}!] block.
type Header struct {
	Span source.Span
	Raw  string
}

// Text is character data between tags.
type Text struct {
	Span    source.Span
	Raw     string
	Content string // с раскрытыми escape-последовательностями
}

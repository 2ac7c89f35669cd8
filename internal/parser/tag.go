package parser

import (
	"fmt"

	"tagml/internal/ast"
	"tagml/internal/diag"
	"tagml/internal/lexer"
	"tagml/internal/source"
	"tagml/internal/token"
)

// scanner читает внутренности одного тега между открывающей и закрывающей скобкой
type scanner struct {
	c   lexer.Cursor
	raw string
}

func (p *Parser) scan(tok token.Token) *scanner {
	c := lexer.NewCursor(p.file)
	// закрывающий '>' или ']' в срез не входит
	return &scanner{c: c.Slice(tok.Span.Start, tok.Span.End-1), raw: tok.Text}
}

func (s *scanner) eof() bool  { return s.c.EOF() }
func (s *scanner) peek() byte { return s.c.Peek() }

func (s *scanner) peekAt(n uint32) byte {
	if s.c.Off+n >= s.c.Limit {
		return 0
	}
	return s.c.File.Content[s.c.Off+n]
}

func (s *scanner) skipSpace() bool {
	start := s.c.Off
	for !s.c.EOF() && lexer.IsSpace(s.c.Peek()) {
		s.c.Bump()
	}
	return s.c.Off > start
}

// here - span текущего символа (пустой в конце тега)
func (s *scanner) here() source.Span {
	sp := source.EmptyAt(s.c.File.ID, s.c.Off)
	if !s.c.EOF() {
		sp.End++
	}
	return sp
}

func (s *scanner) text(sp source.Span) string {
	return string(s.c.File.Content[sp.Start:sp.End])
}

// word читает простое имя. "-" перед ">" не входит в имя: это стрелка ссылки.
func (s *scanner) word() (string, source.Span, bool) {
	m := s.c.Mark()
	if !lexer.IsNameStart(s.peek()) {
		return "", s.here(), false
	}
	s.c.Bump()
	for !s.c.EOF() && lexer.IsNameContinue(s.peek()) {
		if s.peek() == '-' && s.peekAt(1) == '>' {
			break
		}
		s.c.Bump()
	}
	sp := s.c.SpanFrom(m)
	return s.text(sp), sp, true
}

// qname читает имя с необязательным префиксом пространства имён.
func (s *scanner) qname() (string, source.Span, bool) {
	m := s.c.Mark()
	if _, _, ok := s.word(); !ok {
		return "", s.here(), false
	}
	if s.peek() == ':' && lexer.IsNameStart(s.peekAt(1)) {
		s.c.Bump()
		s.word()
	}
	sp := s.c.SpanFrom(m)
	return s.text(sp), sp, true
}

func (p *Parser) badTag(s *scanner, format string, args ...any) {
	p.report(diag.SynBadTag, s.here(), fmt.Sprintf(format, args...))
}

func (p *Parser) parseStartTag(tok token.Token) (*ast.StartTag, bool) {
	s := p.scan(tok)
	s.c.Eat('[')
	s.skipSpace()
	t := &ast.StartTag{Span: tok.Span, Raw: tok.Text}
	switch s.peek() {
	case '+':
		t.Prefix = ast.PrefixResume
		s.c.Bump()
	case '?':
		t.Prefix = ast.PrefixOptional
		s.c.Bump()
	}
	qn, sp, ok := s.qname()
	if !ok {
		p.badTag(s, "expected an element name in %s", tok.Text)
		return nil, false
	}
	t.Name = ast.ParseName(qn, sp)
	if t.Layers, ok = p.parseLayers(s, tok); !ok {
		return nil, false
	}
	t.Annotations = p.parseAnnotations(s, tok)
	return t, true
}

func (p *Parser) parseMilestone(tok token.Token) (*ast.Milestone, bool) {
	s := p.scan(tok)
	s.c.Eat('[')
	s.skipSpace()
	qn, sp, ok := s.qname()
	if !ok {
		p.badTag(s, "expected an element name in %s", tok.Text)
		return nil, false
	}
	m := &ast.Milestone{Span: tok.Span, Raw: tok.Text, Name: ast.ParseName(qn, sp)}
	if m.Layers, ok = p.parseLayers(s, tok); !ok {
		return nil, false
	}
	m.Annotations = p.parseAnnotations(s, tok)
	return m, true
}

func (p *Parser) parseEndTag(tok token.Token) (*ast.EndTag, bool) {
	s := p.scan(tok)
	s.c.Eat('<')
	s.skipSpace()
	t := &ast.EndTag{Span: tok.Span, Raw: tok.Text}
	switch s.peek() {
	case '-':
		t.Prefix = ast.PrefixSuspend
		s.c.Bump()
	case '?':
		t.Prefix = ast.PrefixOptional
		s.c.Bump()
	}
	qn, sp, ok := s.qname()
	if !ok {
		p.badTag(s, "expected an element name in %s", tok.Text)
		return nil, false
	}
	t.Name = ast.ParseName(qn, sp)
	if t.Layers, ok = p.parseLayers(s, tok); !ok {
		return nil, false
	}
	s.skipSpace()
	if !s.eof() {
		p.badTag(s, "unexpected %q in closing tag %s", s.peek(), tok.Text)
		return nil, false
	}
	return t, true
}

// parseLayers читает "|A,+B,-C". Отсутствие списка - не ошибка.
func (p *Parser) parseLayers(s *scanner, tok token.Token) ([]ast.Layer, bool) {
	if !s.c.Eat('|') {
		return nil, true
	}
	var layers []ast.Layer
	for {
		m := s.c.Mark()
		mode := ast.LayerUse
		switch s.peek() {
		case '+':
			mode = ast.LayerOpen
			s.c.Bump()
		case '-':
			mode = ast.LayerClose
			s.c.Bump()
		}
		name, _, ok := s.word()
		if !ok {
			p.badTag(s, "expected a layer name in %s", tok.Text)
			return nil, false
		}
		layers = append(layers, ast.Layer{Span: s.c.SpanFrom(m), Name: name, Mode: mode})
		if !s.c.Eat(',') {
			return layers, true
		}
	}
}

// parseAnnotations читает аннотации до конца тега. После первой ошибки
// остальные аннотации пропускаются, а тег всё равно возвращается.
func (p *Parser) parseAnnotations(s *scanner, tok token.Token) []*ast.Annotation {
	var out []*ast.Annotation
	for {
		spaced := s.skipSpace()
		if s.eof() {
			return out
		}
		if !spaced {
			p.badTag(s, "unexpected %q in %s", s.peek(), tok.Text)
			return out
		}
		a, ok := p.parseAnnotation(s)
		if !ok {
			return out
		}
		out = append(out, a)
	}
}

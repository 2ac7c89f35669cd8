package parser

import (
	"fmt"

	"tagml/internal/ast"
	"tagml/internal/diag"
	"tagml/internal/lexer"
	"tagml/internal/markup"
)

func (p *Parser) badAnnotation(s *scanner, format string, args ...any) bool {
	p.report(diag.SynBadAnnotation, s.here(), fmt.Sprintf(format, args...))
	return false
}

// expectAssign съедает "=" с пробелами вокруг
func (p *Parser) expectAssign(s *scanner, name string) bool {
	s.skipSpace()
	if !s.c.Eat('=') {
		return p.badAnnotation(s, "expected '=' after annotation name %q", name)
	}
	s.skipSpace()
	return true
}

// parseAnnotation читает одну из форм:
//
//	name=value   :id=value   !name=ref   name->ref
func (p *Parser) parseAnnotation(s *scanner) (*ast.Annotation, bool) {
	m := s.c.Mark()
	a := &ast.Annotation{}
	switch s.peek() {
	case '!':
		s.c.Bump()
		a.Kind = ast.AnnotationReference
	case ':':
		s.c.Bump()
		a.Kind = ast.AnnotationIdentifying
	}
	name, sp, ok := s.qname()
	if !ok {
		return nil, p.badAnnotation(s, "expected an annotation name")
	}
	a.Name, a.NameSpan = name, sp
	if a.Kind == ast.AnnotationIdentifying {
		a.Name = ":" + name
	}

	arrow := false
	if a.Kind == ast.AnnotationBasic && s.peek() == '-' && s.peekAt(1) == '>' {
		s.c.Bump()
		s.c.Bump()
		a.Kind, arrow = ast.AnnotationReference, true
	}

	if a.Kind == ast.AnnotationReference {
		if !arrow && !p.expectAssign(s, name) {
			return nil, false
		}
		s.skipSpace()
		ref, _, ok := s.qname()
		if !ok {
			return nil, p.badAnnotation(s, "expected a reference after %q", name)
		}
		a.Ref = ref
	} else {
		if !p.expectAssign(s, name) {
			return nil, false
		}
		v, ok := p.parseValue(s)
		if !ok {
			return nil, false
		}
		a.Value = v
	}
	a.Span = s.c.SpanFrom(m)
	return a, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// parseValue определяет тип значения по его лексической форме.
// Нераспознанная форма - не синтаксическая ошибка: значение получает
// ValueInvalid, и решение принимает валидатор.
func (p *Parser) parseValue(s *scanner) (*ast.Value, bool) {
	m := s.c.Mark()
	v := &ast.Value{}
	b := s.peek()
	switch {
	case b == '"' || b == '\'':
		if !p.scanQuoted(s) {
			return nil, false
		}
		v.Kind = ast.ValueString
	case b == '[' && s.peekAt(1) == '>':
		content, ok := p.scanRichText(s)
		if !ok {
			return nil, false
		}
		v.Kind, v.Str = ast.ValueRichText, content
	case b == '[':
		items, ok := p.scanList(s)
		if !ok {
			return nil, false
		}
		v.Kind, v.Items = ast.ValueList, items
	case b == '{':
		fields, ok := p.scanObject(s)
		if !ok {
			return nil, false
		}
		v.Kind, v.Fields = ast.ValueObject, fields
	case b == '-' || isDigit(b):
		v.Kind, v.IsInt = scanNumber(s)
	case lexer.IsNameStart(b):
		word, _, _ := s.word()
		switch word {
		case "true", "false":
			v.Kind, v.Bool = ast.ValueBoolean, word == "true"
		default:
			scanJunk(s)
		}
	default:
		scanJunk(s)
	}
	v.Span = s.c.SpanFrom(m)
	v.Raw = s.text(v.Span)
	switch v.Kind {
	case ast.ValueString:
		v.Str = markup.UnquoteString(v.Raw)
	case ast.ValueNumber:
		v.Number = v.Raw
	}
	return v, true
}

// scanJunk съедает нераспознанное значение до пробела или разделителя
func scanJunk(s *scanner) {
	start := s.c.Off
	for !s.eof() {
		b := s.peek()
		if lexer.IsSpace(b) || ((b == ',' || b == ']' || b == '}') && s.c.Off > start) {
			return
		}
		s.c.Bump()
	}
}

func scanNumber(s *scanner) (ast.ValueKind, bool) {
	s.c.Eat('-')
	digits := 0
	for isDigit(s.peek()) {
		s.c.Bump()
		digits++
	}
	isInt := true
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		isInt = false
		s.c.Bump()
		for isDigit(s.peek()) {
			s.c.Bump()
		}
	}
	if digits == 0 || lexer.IsNameStart(s.peek()) {
		scanJunk(s)
		return ast.ValueInvalid, false
	}
	return ast.ValueNumber, isInt
}

func (p *Parser) scanQuoted(s *scanner) bool {
	quote := s.c.Bump()
	for !s.eof() {
		switch s.c.Bump() {
		case '\\':
			s.c.Bump()
		case quote:
			return true
		}
	}
	return p.badAnnotation(s, "unterminated string value")
}

// scanRichText читает [> ... <] с учётом вложенной разметки
func (p *Parser) scanRichText(s *scanner) (string, bool) {
	s.c.Bump()
	s.c.Bump()
	start := s.c.Off
	depth := 0
	for !s.eof() {
		b := s.peek()
		switch {
		case b == '\\':
			s.c.Bump()
		case b == '<' && s.peekAt(1) == ']' && depth == 0:
			content := string(s.c.File.Content[start:s.c.Off])
			s.c.Bump()
			s.c.Bump()
			return content, true
		case b == '[':
			depth++
		case b == ']' && depth > 0:
			depth--
		}
		s.c.Bump()
	}
	return "", p.badAnnotation(s, `rich text value is not closed with "<]"`)
}

func (p *Parser) scanList(s *scanner) ([]*ast.Value, bool) {
	s.c.Bump()
	s.skipSpace()
	var items []*ast.Value
	if s.c.Eat(']') {
		return items, true
	}
	for {
		if s.eof() {
			return nil, p.badAnnotation(s, "list value is not closed with ']'")
		}
		v, ok := p.parseValue(s)
		if !ok {
			return nil, false
		}
		items = append(items, v)
		s.skipSpace()
		switch {
		case s.c.Eat(','):
			s.skipSpace()
		case s.c.Eat(']'):
			return items, true
		default:
			return nil, p.badAnnotation(s, "expected ',' or ']' in list value")
		}
	}
}

func (p *Parser) scanObject(s *scanner) ([]*ast.Annotation, bool) {
	s.c.Bump()
	var fields []*ast.Annotation
	for {
		s.skipSpace()
		if s.c.Eat('}') {
			return fields, true
		}
		if s.eof() {
			return nil, p.badAnnotation(s, "object value is not closed with '}'")
		}
		a, ok := p.parseAnnotation(s)
		if !ok {
			return nil, false
		}
		fields = append(fields, a)
		s.skipSpace()
		s.c.Eat(',')
	}
}

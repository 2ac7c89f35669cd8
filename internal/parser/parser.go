package parser

import (
	"tagml/internal/ast"
	"tagml/internal/diag"
	"tagml/internal/lexer"
	"tagml/internal/markup"
	"tagml/internal/source"
	"tagml/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Listener receives parse events in document order. Returning an error stops
// the parse; diag.ErrBreak is the expected one.
type Listener interface {
	OnHeader(h *ast.Header) error
	OnStartTag(t *ast.StartTag) error
	OnEndTag(t *ast.EndTag) error
	OnMilestone(m *ast.Milestone) error
	OnText(t *ast.Text) error
	// OnEOF is called once after the last event unless the parse was stopped.
	OnEOF(span source.Span) error
}

type Result struct {
	// Stopped is set when a listener returned an error.
	Stopped bool
	Err     error
}

// Parser - состояние парсера на один файл
type Parser struct {
	file     *source.File
	lx       *lexer.Lexer
	l        Listener
	opts     Options
	lastSpan source.Span
	open     []source.Span // открытые <| вариации
}

// Parse reads the whole file and feeds events to l.
func Parse(file *source.File, lx *lexer.Lexer, l Listener, opts Options) Result {
	p := Parser{file: file, lx: lx, l: l, opts: opts, lastSpan: lx.EmptySpan()}
	if err := p.parseDocument(); err != nil {
		return Result{Stopped: true, Err: err}
	}
	return Result{}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) report(code diag.Code, sp source.Span, args ...any) bool {
	if p.opts.Reporter == nil {
		return false // нет reporter - ничего не записали
	}
	p.opts.CurrentErrors++
	if p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, code.Format(args...))
	return true
}

func (p *Parser) parseDocument() error {
	p.skipBlank()
	if p.at(token.Header) {
		tok := p.advance()
		if err := p.l.OnHeader(&ast.Header{Span: tok.Span, Raw: tok.Text}); err != nil {
			return err
		}
		p.skipBlank()
	} else if !p.at(token.Invalid) {
		// незакрытый заголовок лексер уже зарепортил
		p.report(diag.SynMissingHeader, source.EmptyAt(p.file.ID, 0))
	}

	for !p.at(token.EOF) {
		if err := p.parseItem(); err != nil {
			return err
		}
	}

	for _, sp := range p.open {
		p.report(diag.SynUnbalancedVariation, sp, `text variation "<|" is never closed with "|>"`)
	}
	return p.l.OnEOF(p.lx.EmptySpan())
}

// skipBlank пропускает пробельный текст и комментарии
func (p *Parser) skipBlank() {
	for {
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.Comment:
		case tok.Kind == token.Text && markup.IsBlank(tok.Text):
		default:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseItem() error {
	tok := p.advance()
	switch tok.Kind {
	case token.Text:
		return p.l.OnText(&ast.Text{Span: tok.Span, Raw: tok.Text, Content: markup.UnescapeText(tok.Text)})
	case token.StartTag:
		if t, ok := p.parseStartTag(tok); ok {
			return p.l.OnStartTag(t)
		}
	case token.EndTag:
		if t, ok := p.parseEndTag(tok); ok {
			return p.l.OnEndTag(t)
		}
	case token.Milestone:
		if m, ok := p.parseMilestone(tok); ok {
			return p.l.OnMilestone(m)
		}
	case token.DivergeOpen:
		p.open = append(p.open, tok.Span)
	case token.Divider:
		if len(p.open) == 0 {
			p.report(diag.SynUnbalancedVariation, tok.Span, `"|" outside of a text variation`)
		}
	case token.ConvergeClose:
		if len(p.open) == 0 {
			p.report(diag.SynUnbalancedVariation, tok.Span, `"|>" without a matching "<|"`)
		} else {
			p.open = p.open[:len(p.open)-1]
		}
	case token.Header:
		p.report(diag.SynUnexpectedToken, tok.Span, "a header is only allowed at the start of the document")
	case token.Comment, token.Invalid:
		// комментарии пропускаем, ошибки уже зарепортил лексер
	}
	return nil
}

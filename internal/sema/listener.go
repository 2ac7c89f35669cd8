package sema

import (
	"strings"

	"tagml/internal/ast"
	"tagml/internal/diag"
	"tagml/internal/header"
	"tagml/internal/markup"
	"tagml/internal/source"
)

// Listener validates parse events against the header ontology and turns them
// into markup tokens. It implements parser.Listener.
type Listener struct {
	file   *source.File
	diags  *diag.Collector
	opts   Options
	ctx    *Context
	header *header.Header
	tokens []markup.Token
}

func NewListener(file *source.File, diags *diag.Collector, opts Options) *Listener {
	return &Listener{file: file, diags: diags, opts: opts}
}

// Context returns the validation state, or nil when the header did not
// produce a usable ontology.
func (l *Listener) Context() *Context { return l.ctx }

func (l *Listener) Header() *header.Header { return l.header }

// Tokens returns the tokens emitted so far.
func (l *Listener) Tokens() []markup.Token { return l.tokens }

func (l *Listener) loc(span source.Span) markup.Location {
	return markup.Location{Span: span, Range: l.file.Range(span), Raw: l.file.Text(span)}
}

func (l *Listener) emit(t markup.Token) { l.tokens = append(l.tokens, t) }

func (l *Listener) OnHeader(h *ast.Header) error {
	hdr := header.Parse(h.Span, h.Raw)
	l.header = hdr
	l.emit(&markup.HeaderToken{Location: l.loc(h.Span), Header: hdr})

	if len(hdr.Syntax) > 0 {
		l.diags.AddErrors(hdr.Syntax)
		return nil
	}
	if hdr.Ontology == nil {
		l.diags.AddError(hdr.Span, diag.HdrMissingOntologyField)
	}
	l.diags.AddErrors(hdr.Errors())

	nsOK := hdr.Namespaces == nil || hdr.Namespaces.OK()
	entOK := hdr.Entities == nil || hdr.Entities.OK()
	if hdr.Ontology.OK() && nsOK && entOK {
		l.ctx = newContext(hdr.Ontology.Ontology, hdr.Namespaces, hdr.Entities)
	}
	return nil
}

func (l *Listener) OnText(t *ast.Text) error {
	if l.opts.TextPolicy == TextSuppressOutsideMarkup && (l.ctx == nil || l.ctx.openCount() == 0) {
		return nil
	}
	l.emit(&markup.TextToken{
		Location:     l.loc(t.Span),
		Content:      t.Content,
		IsWhitespace: markup.IsBlank(t.Content),
	})
	return nil
}

// checkNamespace reports an undeclared prefix on name.
func (l *Listener) checkNamespace(name ast.Name) {
	if name.Prefix == "" {
		return
	}
	if _, ok := l.ctx.Namespaces[name.Prefix]; !ok {
		l.diags.AddError(name.Span, diag.DocNamespaceNotDefined, name.Prefix)
	}
}

// checkRoot reports the first markup of the document when it is not the ontology root.
func (l *Listener) checkRoot(qName string, span source.Span) {
	if l.ctx.anyLayer() {
		return
	}
	if root := l.ctx.Ontology.Root; qName != root {
		l.diags.AddError(span, diag.DocUnexpectedRoot, qName, root)
	}
}

func (l *Listener) OnStartTag(t *ast.StartTag) error {
	if l.ctx == nil {
		return nil
	}
	qName := t.Name.QName()
	l.checkNamespace(t.Name)
	l.checkRoot(qName, t.Span)

	def := l.ctx.Ontology.Element(qName)
	if def == nil {
		l.diags.AddWarning(t.Span, diag.DocUndefinedElement, qName)
	}

	layers := ast.LayerNames(t.Layers)
	var (
		id    uint64
		attrs []markup.KeyValue
	)
	if t.IsResume() {
		if len(t.Annotations) > 0 {
			l.diags.AddError(t.Span, diag.DocNoAttributesOnResume, qName)
		}
		s, ok := l.ctx.resume(qName)
		if !ok {
			return l.diags.AddBreakingError(t.Span, diag.DocResumeWithoutSuspend, qName)
		}
		id = s.ID
		if layers == nil {
			layers = s.Layers
		}
	} else {
		attrs = l.attributes(t.Span, qName, def, t.Annotations)
		id = l.ctx.newID()
	}
	if len(layers) == 0 {
		layers = []string{ast.DefaultLayer}
	}

	for _, layer := range layers {
		l.checkHierarchy(layer, qName, t.Span)
		l.ctx.push(layer, openMarkup{QName: qName, ID: id, Span: t.Span})
	}

	if t.IsResume() {
		l.emit(&markup.MarkupResume{Location: l.loc(t.Span), QName: qName, Layers: layers, MarkupID: id})
	} else {
		l.emit(&markup.MarkupOpen{Location: l.loc(t.Span), QName: qName, Layers: layers, MarkupID: id, Attributes: attrs})
	}
	return nil
}

// checkHierarchy validates qName as a child of the innermost markup of layer.
func (l *Listener) checkHierarchy(layer, qName string, span source.Span) {
	parent, ok := l.ctx.top(layer)
	if !ok {
		return
	}
	expected := l.ctx.Ontology.ExpectedChildrenFor(parent.QName)
	if len(expected) == 0 {
		return
	}
	for _, e := range expected {
		if e == qName {
			return
		}
	}
	alts := make([]string, len(expected))
	for i, e := range expected {
		alts[i] = "[" + e + ">"
	}
	l.diags.AddError(span, diag.DocUnexpectedOpenTag, qName, parent.QName, strings.Join(alts, " or "))
}

func (l *Listener) OnMilestone(m *ast.Milestone) error {
	if l.ctx == nil {
		return nil
	}
	qName := m.Name.QName()
	l.checkNamespace(m.Name)
	l.checkRoot(qName, m.Span)

	var attrs []markup.KeyValue
	def := l.ctx.Ontology.Element(qName)
	if def == nil {
		l.diags.AddWarning(m.Span, diag.DocUndefinedElement, qName)
	} else {
		attrs = l.attributes(m.Span, qName, def, m.Annotations)
		if !def.IsMilestone() {
			l.diags.AddError(m.Span, diag.DocIllegalMilestone, qName)
		}
	}

	layers := ast.LayerNames(m.Layers)
	if len(layers) == 0 {
		layers = []string{ast.DefaultLayer}
	}
	l.emit(&markup.MarkupMilestone{Location: l.loc(m.Span), QName: qName, Layers: layers, Attributes: attrs})
	return nil
}

// closed groups the layers of one end tag that held the same instance.
type closed struct {
	id     uint64
	layers []string
}

func (l *Listener) OnEndTag(t *ast.EndTag) error {
	if l.ctx == nil {
		return nil
	}
	qName := t.Name.QName()
	l.checkNamespace(t.Name)

	layers := ast.LayerNames(t.Layers)
	if layers == nil {
		layers = l.ctx.layersWithTop(qName)
		if len(layers) > 1 {
			l.diags.AddAmbiguity(diag.DocAmbiguousClose, t.Raw, strings.Join(layers, ", "))
		}
		if len(layers) == 0 {
			layers = []string{ast.DefaultLayer}
		}
	}

	suspend := t.IsSuspend()
	if def := l.ctx.Ontology.Element(qName); suspend && def != nil && !def.IsDiscontinuous() {
		l.diags.AddError(t.Span, diag.DocIllegalSuspend, qName)
	}

	var groups []closed
	for _, layer := range layers {
		top, ok := l.ctx.top(layer)
		switch {
		case ok && top.QName == qName:
			m := l.ctx.pop(layer)
			if n := len(groups); n > 0 && groups[n-1].id == m.ID {
				groups[n-1].layers = append(groups[n-1].layers, layer)
			} else {
				groups = append(groups, closed{id: m.ID, layers: []string{layer}})
			}
		case l.ctx.isOpenIn(layer, qName):
			l.diags.AddError(t.Span, diag.DocUnexpectedCloseTag, t.Raw, top.QName)
		default:
			l.diags.AddError(t.Span, diag.DocMissingOpenTag, t.Raw)
		}
	}

	for _, g := range groups {
		if suspend {
			l.ctx.suspend(qName, suspension{ID: g.id, Span: t.Span, Layers: g.layers})
			l.emit(&markup.MarkupSuspend{Location: l.loc(t.Span), QName: qName, Layers: g.layers, MarkupID: g.id})
		} else {
			l.emit(&markup.MarkupClose{Location: l.loc(t.Span), QName: qName, Layers: g.layers, MarkupID: g.id})
		}
	}
	return nil
}

func (l *Listener) OnEOF(source.Span) error {
	if l.ctx == nil || l.opts.UnclosedMarkup == UnclosedIgnore {
		return nil
	}
	l.ctx.unclosed(func(layer string, m openMarkup) {
		l.diags.AddError(m.Span, diag.DocUnclosedMarkup, m.QName, layer)
	})
	l.ctx.unresumed(func(qName string, s suspension) {
		l.diags.AddError(s.Span, diag.DocUnresumedMarkup, qName)
	})
	return nil
}

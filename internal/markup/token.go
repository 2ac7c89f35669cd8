// Package markup defines the token stream produced by validating a TAGML document.
package markup

import (
	"fmt"
	"strings"

	"tagml/internal/header"
	"tagml/internal/source"
)

// Kind identifies a token variant.
type Kind uint8

const (
	KindHeader Kind = iota
	KindOpen
	KindSuspend
	KindResume
	KindClose
	KindMilestone
	KindText
)

var kindNames = [...]string{
	KindHeader:    "Header",
	KindOpen:      "Open",
	KindSuspend:   "Suspend",
	KindResume:    "Resume",
	KindClose:     "Close",
	KindMilestone: "Milestone",
	KindText:      "Text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Location is where a token came from.
type Location struct {
	Span  source.Span
	Range source.Range
	Raw   string
}

func (l Location) Loc() Location { return l }

// Token is one element of the output stream. Tokens are immutable once emitted.
type Token interface {
	Loc() Location
	Kind() Kind
	String() string
}

// MarkupToken is implemented by every token that names an element.
type MarkupToken interface {
	Token
	Name() string
	LayerSet() []string
}

type HeaderToken struct {
	Location
	Header *header.Header
}

// HeaderMap returns the parsed header as key to value.
func (t *HeaderToken) HeaderMap() map[string]any { return t.Header.Map() }

func (t *HeaderToken) OntologyResult() *header.OntologyResult { return t.Header.Ontology }

func (t *HeaderToken) NamespacesResult() *header.MapResult { return t.Header.Namespaces }

type MarkupOpen struct {
	Location
	QName      string
	Layers     []string
	MarkupID   uint64
	Attributes []KeyValue
}

type MarkupSuspend struct {
	Location
	QName    string
	Layers   []string
	MarkupID uint64
}

type MarkupResume struct {
	Location
	QName    string
	Layers   []string
	MarkupID uint64
}

type MarkupClose struct {
	Location
	QName    string
	Layers   []string
	MarkupID uint64
}

type MarkupMilestone struct {
	Location
	QName      string
	Layers     []string
	Attributes []KeyValue
}

// TextToken carries character data. Content has escapes resolved.
type TextToken struct {
	Location
	Content      string
	IsWhitespace bool
}

func (*HeaderToken) Kind() Kind     { return KindHeader }
func (*MarkupOpen) Kind() Kind      { return KindOpen }
func (*MarkupSuspend) Kind() Kind   { return KindSuspend }
func (*MarkupResume) Kind() Kind    { return KindResume }
func (*MarkupClose) Kind() Kind     { return KindClose }
func (*MarkupMilestone) Kind() Kind { return KindMilestone }
func (*TextToken) Kind() Kind       { return KindText }

func (t *MarkupOpen) Name() string      { return t.QName }
func (t *MarkupSuspend) Name() string   { return t.QName }
func (t *MarkupResume) Name() string    { return t.QName }
func (t *MarkupClose) Name() string     { return t.QName }
func (t *MarkupMilestone) Name() string { return t.QName }

func (t *MarkupOpen) LayerSet() []string      { return t.Layers }
func (t *MarkupSuspend) LayerSet() []string   { return t.Layers }
func (t *MarkupResume) LayerSet() []string    { return t.Layers }
func (t *MarkupClose) LayerSet() []string     { return t.Layers }
func (t *MarkupMilestone) LayerSet() []string { return t.Layers }

func (t *HeaderToken) String() string { return "Header" }

func (t *MarkupOpen) String() string {
	return fmt.Sprintf("Open(%s,%d)", t.QName, t.MarkupID)
}

func (t *MarkupSuspend) String() string {
	return fmt.Sprintf("Suspend(%s,%d)", t.QName, t.MarkupID)
}

func (t *MarkupResume) String() string {
	return fmt.Sprintf("Resume(%s,%d)", t.QName, t.MarkupID)
}

func (t *MarkupClose) String() string {
	return fmt.Sprintf("Close(%s,%d)", t.QName, t.MarkupID)
}

func (t *MarkupMilestone) String() string {
	return fmt.Sprintf("Milestone(%s)", t.QName)
}

func (t *TextToken) String() string {
	return fmt.Sprintf("Text(%s)", t.Content)
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Sequence renders tokens as "A->B->C", the form used in test expectations.
func Sequence(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, "->")
}

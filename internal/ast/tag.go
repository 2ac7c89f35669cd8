package ast

import (
	"strings"

	"tagml/internal/source"
)

// DefaultLayer is the layer of markup that names no layer.
const DefaultLayer = ""

// TagPrefix is the marker between the bracket and the element name.
type TagPrefix uint8

const (
	PrefixNone     TagPrefix = iota
	PrefixResume             // [+name>
	PrefixSuspend            // <-name]
	PrefixOptional           // [?name> or <?name]
)

func (p TagPrefix) String() string {
	switch p {
	case PrefixResume:
		return "+"
	case PrefixSuspend:
		return "-"
	case PrefixOptional:
		return "?"
	}
	return ""
}

// Name is a possibly namespaced element name, e.g. "tei:p".
type Name struct {
	Span   source.Span
	Prefix string // пространство имён, "" если нет
	Local  string
}

// QName returns the name as written: prefix:local or local.
func (n Name) QName() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// ParseName splits a qualified name at its first colon.
func ParseName(qName string, span source.Span) Name {
	if prefix, local, ok := strings.Cut(qName, ":"); ok {
		return Name{Span: span, Prefix: prefix, Local: local}
	}
	return Name{Span: span, Local: qName}
}

// LayerMode is the optional marker in front of a layer name.
type LayerMode uint8

const (
	LayerUse   LayerMode = iota
	LayerOpen            // |+A  layer introduced here
	LayerClose           // |-A  layer ends here
)

type Layer struct {
	Span source.Span
	Name string
	Mode LayerMode
}

// StartTag opens (or resumes) markup.
type StartTag struct {
	Span        source.Span
	Raw         string
	Prefix      TagPrefix
	Name        Name
	Layers      []Layer
	Annotations []*Annotation
}

// EndTag closes (or suspends) markup.
type EndTag struct {
	Span   source.Span
	Raw    string
	Prefix TagPrefix
	Name   Name
	Layers []Layer
}

// Milestone is markup without content.
type Milestone struct {
	Span        source.Span
	Raw         string
	Name        Name
	Layers      []Layer
	Annotations []*Annotation
}

func (t *StartTag) IsResume() bool { return t.Prefix == PrefixResume }

func (t *EndTag) IsSuspend() bool { return t.Prefix == PrefixSuspend }

// LayerNames returns the layer names of the tag, or nil when none were given.
func LayerNames(layers []Layer) []string {
	if len(layers) == 0 {
		return nil
	}
	out := make([]string, len(layers))
	for i, l := range layers {
		out[i] = l.Name
	}
	return out
}

// Package header parses the JSON header that opens every TAGML document.
//
// The header is an object of key/value pairs. Three keys have meaning to the
// validator: ":ontology" (the document schema), ":namespaces" (prefix to URI)
// and ":entities" (name to value). Any other key is metadata and is kept as
// raw text. Each of the three sub-parses produces either a value or a list of
// diagnostics; nothing is partially accepted.
package header

import (
	"strings"

	"tagml/internal/diag"
	"tagml/internal/ontology"
	"tagml/internal/source"
)

const (
	KeyOntology   = ":ontology"
	KeyNamespaces = ":namespaces"
	KeyEntities   = ":entities"
)

// OntologyResult is the outcome of parsing ":ontology".
type OntologyResult struct {
	Ontology *ontology.Ontology
	Errors   []diag.Diagnostic
}

func (r *OntologyResult) OK() bool { return r != nil && len(r.Errors) == 0 }

// MapResult is the outcome of parsing a flat string object such as ":namespaces".
type MapResult struct {
	Keys   []string
	Values map[string]string
	Errors []diag.Diagnostic
}

func (r *MapResult) OK() bool { return r != nil && len(r.Errors) == 0 }

// Get returns the value for key.
func (r *MapResult) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.Values[key]
	return v, ok
}

// Header is a parsed document header.
type Header struct {
	Span source.Span
	Raw  string
	Body *Node // nil when the JSON could not be parsed

	Keys     []string          // header keys in document order
	Metadata map[string]string // every key that is not one of the three above

	Ontology   *OntologyResult // nil when the key is absent
	Namespaces *MapResult
	Entities   *MapResult

	// Syntax holds JSON syntax errors. When it is non-empty nothing else is set.
	Syntax []diag.Diagnostic
}

// Parse parses raw, the full header text including the "[!" and "!]"
// delimiters, located at span in its file.
func Parse(span source.Span, raw string) *Header {
	h := &Header{Span: span, Raw: raw, Metadata: map[string]string{}}

	body, base := raw, span.Start
	if strings.HasPrefix(body, "[!") {
		body = body[2:]
		base += 2
	}
	body = strings.TrimSuffix(body, "!]")

	obj, err := parseObject(span.File, base, body)
	if err != nil {
		se := err.(*SyntaxError)
		h.Syntax = append(h.Syntax, diag.NewError(diag.SynHeaderJSON, se.Span, se.Msg))
		return h
	}
	h.Body = obj

	for _, m := range obj.Members {
		h.Keys = append(h.Keys, m.Key)
		switch m.Key {
		case KeyOntology:
			h.Ontology = parseOntology(m)
		case KeyNamespaces:
			h.Namespaces = parseFlatMap(m)
		case KeyEntities:
			h.Entities = parseFlatMap(m)
		default:
			h.Metadata[m.Key] = m.Value.Content()
		}
	}
	return h
}

// Errors returns every diagnostic produced while parsing the header.
func (h *Header) Errors() []diag.Diagnostic {
	out := append([]diag.Diagnostic(nil), h.Syntax...)
	if h.Ontology != nil {
		out = append(out, h.Ontology.Errors...)
	}
	if h.Namespaces != nil {
		out = append(out, h.Namespaces.Errors...)
	}
	if h.Entities != nil {
		out = append(out, h.Entities.Errors...)
	}
	return out
}

// Map renders the header as key to value: the three typed results for the
// known keys and raw text for metadata.
func (h *Header) Map() map[string]any {
	out := make(map[string]any, len(h.Keys))
	for _, k := range h.Keys {
		switch k {
		case KeyOntology:
			out[k] = h.Ontology
		case KeyNamespaces:
			out[k] = h.Namespaces
		case KeyEntities:
			out[k] = h.Entities
		default:
			out[k] = h.Metadata[k]
		}
	}
	return out
}

func parseFlatMap(m *Member) *MapResult {
	r := &MapResult{Values: map[string]string{}}
	if m.Value.Kind != KindObject {
		r.Errors = append(r.Errors, diag.NewError(diag.HdrExpectedObject, m.Value.Span, m.Key))
		return r
	}
	for _, pair := range m.Value.Members {
		if _, seen := r.Values[pair.Key]; !seen {
			r.Keys = append(r.Keys, pair.Key)
		}
		r.Values[pair.Key] = pair.Value.Content()
	}
	return r
}

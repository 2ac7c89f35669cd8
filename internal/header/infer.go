package header

import (
	"encoding/json"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/pkg/errors"

	"tagml/internal/ontology"
)

const placeholderDescription = "..."

// ErrNothingToInfer is returned when a body holds no markup at all.
var ErrNothingToInfer = errors.New("no markup found to infer a header from")

// InferredElement is an element seen in a body, with the attribute names used
// on it and the properties its usage implies (milestone, discontinuous).
type InferredElement struct {
	Name       string
	Attributes []string
	Properties []string
}

// InferredAttribute is an attribute seen in a body with the type of its first value.
type InferredAttribute struct {
	Name     string
	DataType ontology.AttributeDataType
}

// RenderInferred builds a minimal header declaring the given elements and
// attributes. The first element becomes the root. Descriptions are "...".
func RenderInferred(elements []InferredElement, attributes []InferredAttribute) (string, error) {
	if len(elements) == 0 {
		return "", ErrNothingToInfer
	}
	defs := linkedhashmap.New()
	for _, e := range elements {
		def := linkedhashmap.New()
		def.Put("description", placeholderDescription)
		if len(e.Attributes) > 0 {
			def.Put("attributes", e.Attributes)
		}
		if len(e.Properties) > 0 {
			def.Put("properties", e.Properties)
		}
		defs.Put(e.Name, def)
	}

	onto := linkedhashmap.New()
	onto.Put("root", elements[0].Name)
	onto.Put("elements", defs)
	if len(attributes) > 0 {
		attrs := linkedhashmap.New()
		for _, a := range attributes {
			def := linkedhashmap.New()
			def.Put("description", placeholderDescription)
			def.Put("dataType", a.DataType.String())
			attrs.Put(a.Name, def)
		}
		onto.Put("attributes", attrs)
	}

	top := linkedhashmap.New()
	top.Put(KeyOntology, onto)
	out, err := json.MarshalIndent(top, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "render inferred header")
	}
	return "[!" + string(out) + "!]", nil
}

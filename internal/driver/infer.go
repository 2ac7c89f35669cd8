package driver

import (
	"regexp"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/pkg/errors"

	"tagml/internal/diag"
	"tagml/internal/header"
	"tagml/internal/markup"
	"tagml/internal/ontology"
	"tagml/internal/sema"
)

// inferPrelude stands in for the missing header so that the body is walked
// like a normal document.
const inferPrelude = `[!{":ontology":{"root":"_"}}!]`

// ErrHasHeader is returned by InferHeader for text that already starts with a header.
var ErrHasHeader = errors.New("document already has a header")

var attributeName = regexp.MustCompile(`^[a-z][a-zA-Z0-9_]*$`)

type seenElement struct {
	attrs         *linkedhashset.Set
	milestone     bool
	discontinuous bool
}

// InferHeader builds a header for a header-less body: every element used in
// the body, in order of first use, with the attributes written on it and
// their types. The first element is the root. Syntax errors in the body are
// returned as an error; validation findings are ignored.
func InferHeader(body string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(body), "[!") {
		return "", ErrHasHeader
	}
	res := Parse(inferPrelude+body, Options{UnclosedMarkup: sema.UnclosedIgnore})
	for _, d := range res.Errors {
		if d.Kind == diag.KindSyntax {
			return "", errors.Errorf("cannot infer a header: %s", d.Message)
		}
	}

	elements := linkedhashmap.New() // name -> *seenElement
	attributes := linkedhashmap.New()
	for _, tok := range res.Tokens {
		mt, ok := tok.(markup.MarkupToken)
		if !ok {
			continue
		}
		var e *seenElement
		if v, found := elements.Get(mt.Name()); found {
			e = v.(*seenElement)
		} else {
			e = &seenElement{attrs: linkedhashset.New()}
			elements.Put(mt.Name(), e)
		}
		var attrs []markup.KeyValue
		switch t := tok.(type) {
		case *markup.MarkupOpen:
			attrs = t.Attributes
		case *markup.MarkupMilestone:
			attrs = t.Attributes
			e.milestone = true
		case *markup.MarkupSuspend:
			e.discontinuous = true
		}
		for _, kv := range attrs {
			// :id и !ref не объявляются в онтологии
			if !attributeName.MatchString(kv.Key) {
				continue
			}
			e.attrs.Add(kv.Key)
			if _, seen := attributes.Get(kv.Key); !seen {
				attributes.Put(kv.Key, kv.Value.Type)
			}
		}
	}

	inferred := make([]header.InferredElement, 0, elements.Size())
	it := elements.Iterator()
	for it.Next() {
		seen := it.Value().(*seenElement)
		e := header.InferredElement{Name: it.Key().(string)}
		for _, a := range seen.attrs.Values() {
			e.Attributes = append(e.Attributes, a.(string))
		}
		if seen.milestone {
			e.Properties = append(e.Properties, ontology.PropertyMilestone)
		}
		if seen.discontinuous {
			e.Properties = append(e.Properties, ontology.PropertyDiscontinuous)
		}
		inferred = append(inferred, e)
	}
	var attrDefs []header.InferredAttribute
	it = attributes.Iterator()
	for it.Next() {
		attrDefs = append(attrDefs, header.InferredAttribute{
			Name:     it.Key().(string),
			DataType: it.Value().(ontology.AttributeDataType),
		})
	}
	return header.RenderInferred(inferred, attrDefs)
}

package header

import (
	"regexp"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"tagml/internal/diag"
	"tagml/internal/ontology"
	"tagml/internal/tagorl"
)

var attributeFieldName = regexp.MustCompile(`^[a-z][a-zA-Z0-9_]*$`)

type ontologyParser struct {
	value      *Node
	errors     []diag.Diagnostic
	root       string
	hasRoot    bool
	elements   []ontology.ElementDefinition
	defined    map[string]*ontology.ElementDefinition
	attributes []ontology.AttributeDefinition
	rules      []ontology.Rule
	elemPair   *Member
}

func (p *ontologyParser) errorf(m *Member, code diag.Code, args ...any) {
	p.errors = append(p.errors, diag.NewError(code, m.Span, args...))
}

// parseOntology turns the ":ontology" pair into an ontology. Keys are handled
// in document order, so a rule only sees elements declared before it.
func parseOntology(m *Member) *OntologyResult {
	p := &ontologyParser{value: m.Value, defined: map[string]*ontology.ElementDefinition{}}
	if m.Value.Kind != KindObject {
		p.errors = append(p.errors, diag.NewError(diag.HdrExpectedObject, m.Value.Span, m.Key))
		return &OntologyResult{Errors: p.errors}
	}

	for _, pair := range m.Value.Members {
		switch pair.Key {
		case "root":
			p.root, p.hasRoot = pair.Value.Content(), true
		case "elements":
			p.parseElements(pair)
		case "attributes":
			p.parseAttributes(pair)
		case "rules":
			p.parseRules(pair)
		default:
			p.errors = append(p.errors, diag.NewError(diag.HdrUnexpectedKey, m.Value.Span, pair.Key))
		}
	}

	if !p.hasRoot {
		p.errors = append(p.errors, diag.NewError(diag.HdrMissingOntologyRoot, m.Value.Span))
	} else if p.declaresElements() && p.elemPair.Value.Get(p.root) == nil {
		p.errorf(p.elemPair, diag.HdrUndefinedRoot, p.root)
	} else if def, ok := p.defined[p.root]; ok && def.IsDiscontinuous() {
		p.errorf(p.elemPair, diag.HdrDiscontinuousRoot, p.root)
	}
	p.checkUsedAttributes()

	if len(p.errors) > 0 {
		return &OntologyResult{Errors: p.errors}
	}
	return &OntologyResult{Ontology: ontology.New(p.root, p.elements, p.attributes, p.rules)}
}

// declaresElements: есть непустой объект "elements". Корень ищется среди его
// ключей, даже если определение элемента с ошибкой.
func (p *ontologyParser) declaresElements() bool {
	return p.elemPair != nil && len(p.elemPair.Value.Members) > 0
}

func (p *ontologyParser) parseElements(pair *Member) {
	if pair.Value.Kind != KindObject {
		p.errorf(pair, diag.HdrExpectedObject, pair.Key)
		return
	}
	p.elemPair = pair
	for _, el := range pair.Value.Members {
		def, ok := p.parseElement(el)
		if !ok {
			continue
		}
		p.elements = append(p.elements, def)
		p.defined[def.Name] = &p.elements[len(p.elements)-1]
	}
	// указатели в defined могли устареть после append
	for i := range p.elements {
		p.defined[p.elements[i].Name] = &p.elements[i]
	}
}

func (p *ontologyParser) parseElement(el *Member) (ontology.ElementDefinition, bool) {
	def := ontology.ElementDefinition{Name: el.Key}
	before := len(p.errors)
	if el.Value.Kind != KindObject {
		p.errorf(el, diag.HdrExpectedObject, el.Key)
		return def, false
	}
	for _, field := range el.Value.Members {
		switch field.Key {
		case "description":
			def.Description = field.Value.Content()
		case "attributes":
			if field.Value.Kind != KindArray {
				p.errorf(field, diag.HdrExpectedArray, field.Key)
				continue
			}
			for _, item := range field.Value.Items {
				name := item.Content()
				switch {
				case strings.HasSuffix(name, "!") && attributeFieldName.MatchString(strings.ReplaceAll(name, "!", "")):
					def.Attributes = append(def.Attributes, ontology.RequiredAttribute(strings.ReplaceAll(name, "!", "")))
				case attributeFieldName.MatchString(name):
					def.Attributes = append(def.Attributes, ontology.OptionalAttribute(name))
				default:
					p.errorf(field, diag.HdrInvalidAttributeFieldName, name)
				}
			}
		case "properties":
			if field.Value.Kind != KindArray {
				p.errorf(field, diag.HdrExpectedArray, field.Key)
				continue
			}
			for _, item := range field.Value.Items {
				def.Properties = append(def.Properties, item.Content())
			}
		case "ref":
			def.Ref = field.Value.Content()
		default:
			p.errorf(field, diag.HdrUnknownElementField, field.Key)
		}
	}
	if def.Description == "" {
		p.errorf(el, diag.HdrMissingElementDescription, el.Key)
	}
	return def, len(p.errors) == before
}

func (p *ontologyParser) parseAttributes(pair *Member) {
	if pair.Value.Kind != KindObject {
		p.errorf(pair, diag.HdrExpectedObject, pair.Key)
		return
	}
	for _, attr := range pair.Value.Members {
		if def, ok := p.parseAttribute(attr); ok {
			p.attributes = append(p.attributes, def)
		}
	}
}

func (p *ontologyParser) parseAttribute(attr *Member) (ontology.AttributeDefinition, bool) {
	def := ontology.AttributeDefinition{Name: attr.Key, DataType: ontology.TypeString}
	before := len(p.errors)
	if attr.Value.Kind != KindObject {
		p.errorf(attr, diag.HdrExpectedObject, attr.Key)
		return def, false
	}
	var dataType string
	for _, field := range attr.Value.Members {
		switch field.Key {
		case "description":
			def.Description = field.Value.Content()
		case "dataType":
			dataType = field.Value.Content()
		case "ref":
			def.Ref = field.Value.Content()
		default:
			p.errorf(field, diag.HdrUnknownAttributeField, field.Key)
		}
	}
	if def.Description == "" {
		p.errorf(attr, diag.HdrMissingAttributeDesc, attr.Key)
	}
	if dataType == "" {
		p.errorf(attr, diag.HdrMissingAttributeDataType, attr.Key)
	} else if t, ok := ontology.ParseDataType(dataType); ok {
		def.DataType = t
	} else {
		p.errorf(attr, diag.HdrUnknownAttributeDataType, dataType, attr.Key)
	}
	return def, len(p.errors) == before
}

func (p *ontologyParser) parseRules(pair *Member) {
	if pair.Value.Kind != KindArray {
		p.errorf(pair, diag.HdrExpectedArray, pair.Key)
		return
	}
	defined := func(name string) bool {
		_, ok := p.defined[name]
		return ok
	}
	for _, item := range pair.Value.Items {
		rule, msgs := tagorl.Parse(item.Content(), defined)
		for _, msg := range msgs {
			p.errors = append(p.errors, diag.NewError(diag.HdrRuleError, item.Span, msg))
		}
		if rule != nil {
			p.rules = append(p.rules, rule)
		}
	}
}

// checkUsedAttributes reports attribute names assigned to elements that have
// no definition of their own. Each name is reported once.
func (p *ontologyParser) checkUsedAttributes() {
	defined := make(map[string]bool, len(p.attributes))
	for _, a := range p.attributes {
		defined[a.Name] = true
	}
	used := linkedhashset.New()
	for _, e := range p.elements {
		for _, a := range e.Attributes {
			used.Add(a.Name)
		}
	}
	for _, v := range used.Values() {
		if name := v.(string); !defined[name] {
			p.errors = append(p.errors, diag.NewError(diag.HdrUsedUndefinedAttribute, p.value.Span, name))
		}
	}
}

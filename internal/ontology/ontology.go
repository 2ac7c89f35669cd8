// Package ontology holds the document-local schema declared in a TAGML header:
// the root element, element and attribute definitions, and the rules that
// constrain how elements nest and relate.
package ontology

import (
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// Ontology is immutable once built by New.
type Ontology struct {
	Root  string
	Rules []Rule

	elements   []ElementDefinition
	attributes []AttributeDefinition
	elemIndex  map[string]int
	attrIndex  map[string]int
}

// New builds an ontology. Later definitions with the same name replace earlier ones.
func New(root string, elements []ElementDefinition, attributes []AttributeDefinition, rules []Rule) *Ontology {
	o := &Ontology{
		Root:      root,
		Rules:     rules,
		elemIndex: make(map[string]int, len(elements)),
		attrIndex: make(map[string]int, len(attributes)),
	}
	for _, e := range elements {
		if i, ok := o.elemIndex[e.Name]; ok {
			o.elements[i] = e
			continue
		}
		o.elemIndex[e.Name] = len(o.elements)
		o.elements = append(o.elements, e)
	}
	for _, a := range attributes {
		if i, ok := o.attrIndex[a.Name]; ok {
			o.attributes[i] = a
			continue
		}
		o.attrIndex[a.Name] = len(o.attributes)
		o.attributes = append(o.attributes, a)
	}
	return o
}

func (o *Ontology) HasElement(name string) bool {
	_, ok := o.elemIndex[name]
	return ok
}

// Element returns the definition of name, or nil.
func (o *Ontology) Element(name string) *ElementDefinition {
	if i, ok := o.elemIndex[name]; ok {
		return &o.elements[i]
	}
	return nil
}

// Attribute returns the definition of name, or nil.
func (o *Ontology) Attribute(name string) *AttributeDefinition {
	if i, ok := o.attrIndex[name]; ok {
		return &o.attributes[i]
	}
	return nil
}

// Elements returns element definitions in declaration order.
func (o *Ontology) Elements() []ElementDefinition {
	return o.elements
}

// Attributes returns attribute definitions in declaration order.
func (o *Ontology) Attributes() []AttributeDefinition {
	return o.attributes
}

// ExpectedChildrenFor collects the children allowed under parent by all
// hierarchy rules, in first-use order. An empty result means no constraint.
func (o *Ontology) ExpectedChildrenFor(parent string) []string {
	set := linkedhashset.New()
	for _, r := range o.Rules {
		h, ok := r.(*HierarchyRule)
		if !ok {
			continue
		}
		for _, q := range h.ChildMap.Children(parent) {
			set.Add(q.Element)
		}
	}
	return toStrings(set.Values())
}

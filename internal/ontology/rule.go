package ontology

import (
	"fmt"
	"slices"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// Cardinality is the qualifier after a child element in a hierarchy rule.
type Cardinality uint8

const (
	Single     Cardinality = iota // a
	Optional                      // a?
	ZeroOrMore                    // a*
	OneOrMore                     // a+
)

// Suffix returns the TAGORL spelling of the qualifier.
func (c Cardinality) Suffix() string {
	switch c {
	case Optional:
		return "?"
	case ZeroOrMore:
		return "*"
	case OneOrMore:
		return "+"
	}
	return ""
}

// CardinalityFromSuffix is the inverse of Suffix. Unknown suffixes map to Single.
func CardinalityFromSuffix(s string) Cardinality {
	switch s {
	case "?":
		return Optional
	case "*":
		return ZeroOrMore
	case "+":
		return OneOrMore
	}
	return Single
}

// QualifiedElement is an element name together with its cardinality.
type QualifiedElement struct {
	Element     string
	Cardinality Cardinality
}

func (q QualifiedElement) String() string {
	return q.Element + q.Cardinality.Suffix()
}

// ChildMap maps a parent element to its allowed children.
// Both parents and children keep insertion order.
type ChildMap struct {
	m *linkedhashmap.Map // string -> *linkedhashset.Set of QualifiedElement
}

func NewChildMap() *ChildMap {
	return &ChildMap{m: linkedhashmap.New()}
}

// Add appends child to the set of parent. Adding an existing child is a no-op.
func (c *ChildMap) Add(parent string, child QualifiedElement) {
	v, ok := c.m.Get(parent)
	if !ok {
		v = linkedhashset.New()
		c.m.Put(parent, v)
	}
	v.(*linkedhashset.Set).Add(child)
}

// Parents returns the parents in first-use order.
func (c *ChildMap) Parents() []string {
	keys := c.m.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// Children returns the qualified children of parent in first-use order.
func (c *ChildMap) Children(parent string) []QualifiedElement {
	v, ok := c.m.Get(parent)
	if !ok {
		return nil
	}
	values := v.(*linkedhashset.Set).Values()
	out := make([]QualifiedElement, len(values))
	for i, q := range values {
		out[i] = q.(QualifiedElement)
	}
	return out
}

// Elements returns every child element name once, in first-use order.
func (c *ChildMap) Elements() []string {
	seen := linkedhashset.New()
	for _, p := range c.Parents() {
		for _, q := range c.Children(p) {
			seen.Add(q.Element)
		}
	}
	return toStrings(seen.Values())
}

func (c *ChildMap) Equal(other *ChildMap) bool {
	if !slices.Equal(c.Parents(), other.Parents()) {
		return false
	}
	for _, p := range c.Parents() {
		a, b := c.Children(p), other.Children(p)
		if len(a) != len(b) || !linkedhashset.New(anySlice(a)...).Contains(anySlice(b)...) {
			return false
		}
	}
	return true
}

func (c *ChildMap) String() string {
	parts := make([]string, 0, c.m.Size())
	for _, p := range c.Parents() {
		children := c.Children(p)
		names := make([]string, len(children))
		for i, q := range children {
			names[i] = q.String()
		}
		parts = append(parts, fmt.Sprintf("%s > %s", p, strings.Join(names, ", ")))
	}
	return strings.Join(parts, "; ")
}

// Rule is one parsed entry of the ontology "rules" array.
type Rule interface {
	// Raw returns the rule text as written in the header.
	Raw() string
	// Equal compares rules by structure; the raw text is ignored.
	Equal(other Rule) bool
	rule()
}

// HierarchyRule constrains which children a parent may contain.
type HierarchyRule struct {
	RawText  string
	ChildMap *ChildMap
}

// SetRule is a named n-ary relation over elements, e.g. :non-linear(sic,corr).
type SetRule struct {
	RawText  string
	Name     string
	Elements []string
}

// TripleRule is a subject-predicate-objects relation, e.g. author writes book.
type TripleRule struct {
	RawText   string
	Subject   string
	Predicate string
	Objects   []string
}

func (r *HierarchyRule) Raw() string { return r.RawText }
func (r *SetRule) Raw() string       { return r.RawText }
func (r *TripleRule) Raw() string    { return r.RawText }

func (*HierarchyRule) rule() {}
func (*SetRule) rule()       {}
func (*TripleRule) rule()    {}

func (r *HierarchyRule) Equal(other Rule) bool {
	o, ok := other.(*HierarchyRule)
	return ok && r.ChildMap.Equal(o.ChildMap)
}

func (r *SetRule) Equal(other Rule) bool {
	o, ok := other.(*SetRule)
	return ok && r.Name == o.Name && slices.Equal(r.Elements, o.Elements)
}

func (r *TripleRule) Equal(other Rule) bool {
	o, ok := other.(*TripleRule)
	return ok && r.Subject == o.Subject && r.Predicate == o.Predicate && slices.Equal(r.Objects, o.Objects)
}

func (r *HierarchyRule) String() string { return r.ChildMap.String() }

func (r *SetRule) String() string {
	return fmt.Sprintf("%s(%s)", r.Name, strings.Join(r.Elements, ", "))
}

func (r *TripleRule) String() string {
	return fmt.Sprintf("%s %s (%s)", r.Subject, r.Predicate, strings.Join(r.Objects, ", "))
}

func toStrings(values []interface{}) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.(string)
	}
	return out
}

func anySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

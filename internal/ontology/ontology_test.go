package ontology

import (
	"slices"
	"testing"
)

func TestCompatible(t *testing.T) {
	tests := []struct {
		used, declared AttributeDataType
		want           bool
	}{
		{TypeString, TypeString, true},
		{TypeString, TypeID, true},
		{TypeURI, TypeString, true},
		{TypeID, TypeURI, false},
		{TypeInteger, TypeString, false},
		{TypeString, TypeInteger, false},
		{TypeStringList, TypeIntegerList, false},
		{TypePointer, TypePointer, true},
	}
	for _, tt := range tests {
		if got := Compatible(tt.used, tt.declared); got != tt.want {
			t.Errorf("Compatible(%s, %s) = %v, want %v", tt.used, tt.declared, got, tt.want)
		}
	}
}

func TestParseDataType(t *testing.T) {
	for _, name := range DataTypeNames() {
		dt, ok := ParseDataType(name)
		if !ok || dt.String() != name {
			t.Errorf("ParseDataType(%q) = %v, %v", name, dt, ok)
		}
	}
	if _, ok := ParseDataType("string"); ok {
		t.Error("dataType names are case sensitive")
	}
	want := "String, Boolean, Integer, IntegerList, StringList, ID, URI, Pointer, RichText, Object"
	if ValidDataTypes() != want {
		t.Errorf("ValidDataTypes = %q", ValidDataTypes())
	}
}

func TestElementDefinition(t *testing.T) {
	e := ElementDefinition{
		Name:        "said",
		Description: "speech",
		Attributes:  []AssignedAttribute{OptionalAttribute("who"), RequiredAttribute("id"), RequiredAttribute("n")},
		Properties:  []string{PropertyDiscontinuous},
	}
	if !e.HasAttribute("who") || e.HasAttribute("what") {
		t.Error("HasAttribute mismatch")
	}
	if got := e.RequiredAttributes(); !slices.Equal(got, []string{"id", "n"}) {
		t.Errorf("RequiredAttributes = %v", got)
	}
	if !e.IsDiscontinuous() || e.IsMilestone() {
		t.Error("property flags mismatch")
	}
	if RequiredAttribute("id").String() != "id!" || OptionalAttribute("id") == RequiredAttribute("id") {
		t.Error("assigned attribute identity must include the use")
	}
}

func TestExpectedChildrenFor(t *testing.T) {
	book := NewChildMap()
	book.Add("book", QualifiedElement{Element: "title"})
	book.Add("book", QualifiedElement{Element: "chapter", Cardinality: OneOrMore})
	chained := NewChildMap()
	chained.Add("chapter", QualifiedElement{Element: "p", Cardinality: OneOrMore})
	chained.Add("p", QualifiedElement{Element: "l", Cardinality: OneOrMore})
	extra := NewChildMap()
	extra.Add("book", QualifiedElement{Element: "appendix", Cardinality: Optional})
	extra.Add("book", QualifiedElement{Element: "title"})

	o := New("book", []ElementDefinition{{Name: "book", Description: "b"}}, nil, []Rule{
		&HierarchyRule{RawText: "book > title, chapter+", ChildMap: book},
		&SetRule{RawText: ":non-linear(a,b)", Name: ":non-linear", Elements: []string{"a", "b"}},
		&HierarchyRule{RawText: "chapter > p+ > l+", ChildMap: chained},
		&HierarchyRule{RawText: "book > appendix?, title", ChildMap: extra},
	})

	tests := []struct {
		parent string
		want   []string
	}{
		{"book", []string{"title", "chapter", "appendix"}},
		{"p", []string{"l"}},
		{"l", []string{}},
	}
	for _, tt := range tests {
		if got := o.ExpectedChildrenFor(tt.parent); !slices.Equal(got, tt.want) {
			t.Errorf("ExpectedChildrenFor(%s) = %v, want %v", tt.parent, got, tt.want)
		}
	}
	if !o.HasElement("book") || o.Element("nope") != nil || o.Attribute("x") != nil {
		t.Error("lookup mismatch")
	}
}

func TestRuleEquality(t *testing.T) {
	a := NewChildMap()
	a.Add("s", QualifiedElement{Element: "sic", Cardinality: ZeroOrMore})
	a.Add("s", QualifiedElement{Element: "corr", Cardinality: ZeroOrMore})
	b := NewChildMap()
	b.Add("s", QualifiedElement{Element: "sic", Cardinality: ZeroOrMore})
	b.Add("s", QualifiedElement{Element: "corr", Cardinality: ZeroOrMore})
	b.Add("s", QualifiedElement{Element: "corr", Cardinality: ZeroOrMore})

	h1 := &HierarchyRule{RawText: "s > (sic, corr)*", ChildMap: a}
	h2 := &HierarchyRule{RawText: "s>(sic,corr)*", ChildMap: b}
	if !h1.Equal(h2) {
		t.Error("hierarchy rules with the same child map must be equal")
	}
	if h1.String() != "s > sic*, corr*" {
		t.Errorf("String = %q", h1.String())
	}

	t1 := &TripleRule{RawText: "persName said said", Subject: "persName", Predicate: "said", Objects: []string{"said"}}
	t2 := &TripleRule{RawText: "other raw", Subject: "persName", Predicate: "said", Objects: []string{"said"}}
	if !t1.Equal(t2) || t1.Equal(h1) {
		t.Error("triple equality mismatch")
	}
	s1 := &SetRule{Name: ":non-linear", Elements: []string{"sic", "corr"}}
	if s1.Equal(&SetRule{Name: ":non-linear", Elements: []string{"corr", "sic"}}) {
		t.Error("set rule element order is significant")
	}
}

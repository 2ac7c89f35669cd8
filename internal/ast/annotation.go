package ast

import "tagml/internal/source"

// AnnotationKind distinguishes the three annotation forms.
type AnnotationKind uint8

const (
	AnnotationBasic       AnnotationKind = iota // name=value
	AnnotationIdentifying                       // :id=value
	AnnotationReference                         // !name=ref or name->ref
)

// Annotation is one name/value pair inside a start tag or milestone.
type Annotation struct {
	Span     source.Span
	Kind     AnnotationKind
	Name     string
	NameSpan source.Span
	Value    *Value // Basic и Identifying
	Ref      string // Reference
}

// ValueKind is the lexical shape of an annotation value.
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueString
	ValueBoolean
	ValueNumber
	ValueList
	ValueObject
	ValueRichText
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueBoolean:
		return "boolean"
	case ValueNumber:
		return "number"
	case ValueList:
		return "list"
	case ValueObject:
		return "object"
	case ValueRichText:
		return "rich text"
	}
	return "invalid"
}

// Value is an annotation value. Raw is the source text; the other fields
// are set according to Kind.
type Value struct {
	Span   source.Span
	Kind   ValueKind
	Raw    string
	Str    string        // ValueString: без кавычек и экранирования; ValueRichText: содержимое
	Bool   bool          // ValueBoolean
	Number string        // ValueNumber
	IsInt  bool          // ValueNumber без дробной части
	Items  []*Value      // ValueList
	Fields []*Annotation // ValueObject
}

package sema

import (
	"strconv"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"tagml/internal/ast"
	"tagml/internal/diag"
	"tagml/internal/markup"
	"tagml/internal/ontology"
	"tagml/internal/source"
)

// attributes validates the annotations of a start tag or milestone and
// returns the accepted ones. def may be nil for elements missing from the ontology.
func (l *Listener) attributes(tag source.Span, qName string, def *ontology.ElementDefinition, anns []*ast.Annotation) []markup.KeyValue {
	used := linkedhashset.New()
	out := l.annotations(tag, qName, def, anns, used)
	if def == nil {
		return out
	}
	for _, name := range def.RequiredAttributes() {
		if !used.Contains(name) {
			l.diags.AddError(tag, diag.DocMissingAttribute, name, qName)
		}
	}
	return out
}

func (l *Listener) annotations(tag source.Span, qName string, def *ontology.ElementDefinition, anns []*ast.Annotation, used *linkedhashset.Set) []markup.KeyValue {
	var out []markup.KeyValue
	for _, a := range anns {
		switch a.Kind {
		case ast.AnnotationIdentifying:
			id := a.Value.Raw
			if a.Value.Kind == ast.ValueString {
				id = a.Value.Str
			}
			out = append(out, markup.KeyValue{Key: a.Name, Value: markup.TypedValue{Type: ontology.TypeID, Value: id}})

		case ast.AnnotationReference:
			if _, ok := l.ctx.Entities[a.Ref]; !ok {
				l.diags.AddError(a.Span, diag.DocUndefinedEntity, a.Ref)
			}
			used.Add(a.Name)
			out = append(out, markup.KeyValue{Key: "!" + a.Name, Value: markup.TypedValue{Type: ontology.TypePointer, Value: a.Ref}})

		default:
			used.Add(a.Name)
			if def != nil && !def.HasAttribute(a.Name) {
				l.diags.AddWarning(tag, diag.DocUndefinedAttribute, a.Name, qName)
			}
			v, ok := l.typedValue(tag, qName, a.Value)
			if !ok {
				l.diags.AddError(a.Span, diag.DocUnknownAnnotationType, l.file.Text(a.Span))
				continue
			}
			if ad := l.ctx.Ontology.Attribute(a.Name); ad != nil && !ontology.Compatible(v.Type, ad.DataType) {
				l.diags.AddError(a.Span, diag.DocWrongDataType, a.Name, ad.DataType, v.Type)
				continue
			}
			out = append(out, markup.KeyValue{Key: a.Name, Value: v})
		}
	}
	return out
}

// typedValue derives the data type of v from its lexical form.
func (l *Listener) typedValue(tag source.Span, qName string, v *ast.Value) (markup.TypedValue, bool) {
	switch v.Kind {
	case ast.ValueString:
		return markup.TypedValue{Type: ontology.TypeString, Value: v.Str}, true
	case ast.ValueBoolean:
		return markup.TypedValue{Type: ontology.TypeBoolean, Value: v.Bool}, true
	case ast.ValueNumber:
		return numberValue(v)
	case ast.ValueRichText:
		return markup.TypedValue{Type: ontology.TypeRichText, Value: v.Str}, true
	case ast.ValueList:
		return listValue(v), true
	case ast.ValueObject:
		// поля объекта проверяются как атрибуты, но без привязки к определению элемента
		fields := l.annotations(tag, qName, nil, v.Fields, linkedhashset.New())
		if fields == nil {
			fields = []markup.KeyValue{}
		}
		return markup.TypedValue{Type: ontology.TypeObject, Value: fields}, true
	}
	return markup.TypedValue{}, false
}

func numberValue(v *ast.Value) (markup.TypedValue, bool) {
	if v.IsInt {
		if n, err := strconv.ParseInt(v.Number, 10, 64); err == nil {
			return markup.TypedValue{Type: ontology.TypeInteger, Value: n}, true
		}
	}
	f, err := strconv.ParseFloat(v.Number, 64)
	if err != nil {
		return markup.TypedValue{}, false
	}
	return markup.TypedValue{Type: ontology.TypeInteger, Value: f}, true
}

// listValue is IntegerList when every item is an integer, StringList otherwise.
// An empty list is a StringList.
func listValue(v *ast.Value) markup.TypedValue {
	ints := make([]int64, 0, len(v.Items))
	for _, item := range v.Items {
		if item.Kind != ast.ValueNumber || !item.IsInt {
			break
		}
		n, err := strconv.ParseInt(item.Number, 10, 64)
		if err != nil {
			break
		}
		ints = append(ints, n)
	}
	if len(v.Items) > 0 && len(ints) == len(v.Items) {
		return markup.TypedValue{Type: ontology.TypeIntegerList, Value: ints}
	}
	strs := make([]string, len(v.Items))
	for i, item := range v.Items {
		if item.Kind == ast.ValueString {
			strs[i] = item.Str
		} else {
			strs[i] = item.Raw
		}
	}
	return markup.TypedValue{Type: ontology.TypeStringList, Value: strs}
}

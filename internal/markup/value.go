package markup

import (
	"fmt"
	"strings"

	"tagml/internal/ontology"
)

// TypedValue is an attribute value together with the type it was written as.
//
// Value holds string (String, ID, URI, Pointer, RichText), bool, int64 or
// float64 (Integer), []int64 (IntegerList), []string (StringList) or
// []KeyValue (Object).
type TypedValue struct {
	Type  ontology.AttributeDataType
	Value any
}

// KeyValue is one attribute of a markup token.
type KeyValue struct {
	Key   string
	Value TypedValue
}

func (v TypedValue) String() string {
	switch x := v.Value.(type) {
	case string:
		if v.Type == ontology.TypeRichText {
			return "[>" + x + "<]"
		}
		return EscapeString(x)
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = EscapeString(s)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case []int64:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = fmt.Sprint(n)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case []KeyValue:
		parts := make([]string, len(x))
		for i, kv := range x {
			parts[i] = kv.String()
		}
		return "{" + strings.Join(parts, " ") + "}"
	}
	return fmt.Sprint(v.Value)
}

func (kv KeyValue) String() string {
	return kv.Key + "=" + kv.Value.String()
}

package ontology

import "strings"

// AttributeDataType is the declared or inferred type of an attribute value.
type AttributeDataType uint8

const (
	TypeString AttributeDataType = iota
	TypeBoolean
	TypeInteger
	TypeIntegerList
	TypeStringList
	TypeID
	TypeURI
	TypePointer
	TypeRichText
	TypeObject
)

var dataTypeNames = [...]string{
	TypeString:      "String",
	TypeBoolean:     "Boolean",
	TypeInteger:     "Integer",
	TypeIntegerList: "IntegerList",
	TypeStringList:  "StringList",
	TypeID:          "ID",
	TypeURI:         "URI",
	TypePointer:     "Pointer",
	TypeRichText:    "RichText",
	TypeObject:      "Object",
}

func (t AttributeDataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return "Unknown"
}

// ParseDataType maps a header dataType name onto the enumeration. Names are case sensitive.
func ParseDataType(name string) (AttributeDataType, bool) {
	for i, n := range dataTypeNames {
		if n == name {
			return AttributeDataType(i), true // #nosec G115 -- small table
		}
	}
	return TypeString, false
}

// DataTypeNames lists every valid dataType in declaration order.
func DataTypeNames() []string {
	return append([]string(nil), dataTypeNames[:]...)
}

// ValidDataTypes is the comma separated list used in diagnostics.
func ValidDataTypes() string {
	return strings.Join(dataTypeNames[:], ", ")
}

func isStringLike(t AttributeDataType) bool {
	return t == TypeString || t == TypeID || t == TypeURI
}

// Compatible reports whether a value of type used satisfies declared.
// String may stand in for ID and URI and vice versa; every other pair must match.
func Compatible(used, declared AttributeDataType) bool {
	if used == declared {
		return true
	}
	return (used == TypeString && isStringLike(declared)) ||
		(declared == TypeString && isStringLike(used))
}

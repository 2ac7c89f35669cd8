package ontology

import "slices"

const (
	PropertyDiscontinuous = "discontinuous"
	PropertyMilestone     = "milestone"
)

// AttributeUse says whether an element must carry an attribute.
type AttributeUse uint8

const (
	UseOptional AttributeUse = iota
	UseRequired
)

// AssignedAttribute is an attribute name listed on an element definition.
// Two assignments are equal when both use and name match.
type AssignedAttribute struct {
	Name string
	Use  AttributeUse
}

func OptionalAttribute(name string) AssignedAttribute {
	return AssignedAttribute{Name: name, Use: UseOptional}
}

func RequiredAttribute(name string) AssignedAttribute {
	return AssignedAttribute{Name: name, Use: UseRequired}
}

func (a AssignedAttribute) String() string {
	if a.Use == UseRequired {
		return a.Name + "!"
	}
	return a.Name
}

// AttributeDefinition describes one entry of the ontology "attributes" object.
type AttributeDefinition struct {
	Name        string
	Description string
	DataType    AttributeDataType
	Ref         string
}

// ElementDefinition describes one entry of the ontology "elements" object.
type ElementDefinition struct {
	Name        string
	Description string
	Attributes  []AssignedAttribute
	Properties  []string
	Ref         string
}

func (e *ElementDefinition) HasAttribute(name string) bool {
	return slices.ContainsFunc(e.Attributes, func(a AssignedAttribute) bool { return a.Name == name })
}

// RequiredAttributes returns the names of required attributes in definition order.
func (e *ElementDefinition) RequiredAttributes() []string {
	var out []string
	for _, a := range e.Attributes {
		if a.Use == UseRequired {
			out = append(out, a.Name)
		}
	}
	return out
}

func (e *ElementDefinition) HasProperty(p string) bool {
	return slices.Contains(e.Properties, p)
}

func (e *ElementDefinition) IsDiscontinuous() bool {
	return e.HasProperty(PropertyDiscontinuous)
}

func (e *ElementDefinition) IsMilestone() bool {
	return e.HasProperty(PropertyMilestone)
}

// Equal compares definitions field by field.
func (e *ElementDefinition) Equal(other *ElementDefinition) bool {
	return e.Name == other.Name &&
		e.Description == other.Description &&
		e.Ref == other.Ref &&
		slices.Equal(e.Attributes, other.Attributes) &&
		slices.Equal(e.Properties, other.Properties)
}

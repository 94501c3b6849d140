package js

import "strings"

// PropertyAttributes the attribute set of a class property
type PropertyAttributes uint8

// Property attributes
const (
	PropertyAttributeNone     PropertyAttributes = 0
	PropertyAttributeReadOnly PropertyAttributes = 1 << iota
	PropertyAttributeDontEnum
	PropertyAttributeDontDelete
)

// Has reports whether every attribute of a is set
func (attrs PropertyAttributes) Has(a PropertyAttributes) bool {
	return attrs&a == a
}

func (attrs PropertyAttributes) String() string {
	if attrs == PropertyAttributeNone {
		return "None"
	}

	names := []string{}
	if attrs.Has(PropertyAttributeReadOnly) {
		names = append(names, "ReadOnly")
	}
	if attrs.Has(PropertyAttributeDontEnum) {
		names = append(names, "DontEnum")
	}
	if attrs.Has(PropertyAttributeDontDelete) {
		names = append(names, "DontDelete")
	}
	return strings.Join(names, "|")
}

// ClassAttribute the attribute of a class
type ClassAttribute uint8

// Class attributes
const (
	// ClassAttributeNone classes get an automatic prototype holding their function properties
	ClassAttributeNone ClassAttribute = iota

	// ClassAttributeNoAutomaticPrototype every object carries its own copy of the function properties
	ClassAttributeNoAutomaticPrototype
)

func (attr ClassAttribute) String() string {
	if attr == ClassAttributeNoAutomaticPrototype {
		return "NoAutomaticPrototype"
	}
	return "None"
}

// Type the script type of a value
type Type uint8

// Value types
const (
	TypeUndefined Type = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
	TypeSymbol
)

var typeNames = [...]string{"undefined", "null", "boolean", "number", "string", "object", "symbol"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

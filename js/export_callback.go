package js

import "fmt"

// NamedValuePropertyCallback a named value property of an exported class
type NamedValuePropertyCallback[T Native] struct {
	name       string
	get        GetNamedValuePropertyCallback[T]
	set        SetNamedValuePropertyCallback[T]
	attributes PropertyAttributes
}

// NewNamedValuePropertyCallback validate and create a named value property. A property without
// setter must be ReadOnly, a ReadOnly property must not have a setter.
func NewNamedValuePropertyCallback[T Native](name string, get GetNamedValuePropertyCallback[T], set SetNamedValuePropertyCallback[T], attributes PropertyAttributes) (NamedValuePropertyCallback[T], error) {
	if name == "" {
		return NamedValuePropertyCallback[T]{}, fmt.Errorf("%w: value property name is empty", ErrInvalidArgument)
	}
	if get == nil && set == nil {
		return NamedValuePropertyCallback[T]{}, fmt.Errorf("%w: value property %s needs a getter or a setter", ErrInvalidArgument, name)
	}
	readOnly := attributes.Has(PropertyAttributeReadOnly)
	if readOnly && set != nil {
		return NamedValuePropertyCallback[T]{}, fmt.Errorf("%w: value property %s is ReadOnly but has a setter", ErrInvalidArgument, name)
	}
	if !readOnly && set == nil {
		return NamedValuePropertyCallback[T]{}, fmt.Errorf("%w: value property %s has no setter and must be ReadOnly", ErrInvalidArgument, name)
	}
	return NamedValuePropertyCallback[T]{name: name, get: get, set: set, attributes: attributes}, nil
}

// Name the property name
func (cb NamedValuePropertyCallback[T]) Name() string { return cb.name }

// Attributes the property attributes
func (cb NamedValuePropertyCallback[T]) Attributes() PropertyAttributes { return cb.attributes }

// Getter the getter, nil when absent
func (cb NamedValuePropertyCallback[T]) Getter() GetNamedValuePropertyCallback[T] { return cb.get }

// Setter the setter, nil when absent
func (cb NamedValuePropertyCallback[T]) Setter() SetNamedValuePropertyCallback[T] { return cb.set }

// Equal compares name, attributes and callback presence
func (cb NamedValuePropertyCallback[T]) Equal(other NamedValuePropertyCallback[T]) bool {
	return cb.name == other.name &&
		cb.attributes == other.attributes &&
		(cb.get == nil) == (other.get == nil) &&
		(cb.set == nil) == (other.set == nil)
}

// NamedFunctionPropertyCallback a named function property of an exported class
type NamedFunctionPropertyCallback[T Native] struct {
	name       string
	call       CallNamedFunctionCallback[T]
	attributes PropertyAttributes
}

// NewNamedFunctionPropertyCallback validate and create a named function property, it is always ReadOnly and DontDelete
func NewNamedFunctionPropertyCallback[T Native](name string, call CallNamedFunctionCallback[T], attributes PropertyAttributes) (NamedFunctionPropertyCallback[T], error) {
	if name == "" {
		return NamedFunctionPropertyCallback[T]{}, fmt.Errorf("%w: function property name is empty", ErrInvalidArgument)
	}
	if call == nil {
		return NamedFunctionPropertyCallback[T]{}, fmt.Errorf("%w: function property %s has no callback", ErrInvalidArgument, name)
	}
	attributes |= PropertyAttributeReadOnly | PropertyAttributeDontDelete
	return NamedFunctionPropertyCallback[T]{name: name, call: call, attributes: attributes}, nil
}

// Name the property name
func (cb NamedFunctionPropertyCallback[T]) Name() string { return cb.name }

// Attributes the property attributes
func (cb NamedFunctionPropertyCallback[T]) Attributes() PropertyAttributes { return cb.attributes }

// Callback the function callback
func (cb NamedFunctionPropertyCallback[T]) Callback() CallNamedFunctionCallback[T] { return cb.call }

// Equal compares name, attributes and callback presence
func (cb NamedFunctionPropertyCallback[T]) Equal(other NamedFunctionPropertyCallback[T]) bool {
	return cb.name == other.name &&
		cb.attributes == other.attributes &&
		(cb.call == nil) == (other.call == nil)
}

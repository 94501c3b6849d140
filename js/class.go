package js

import (
	"fmt"

	"github.com/dop251/goja"
)

// Raw class callbacks. They receive engine handles and report script exceptions through the
// exception result, which the host object throws into the running script.
type (
	// InitializeCallback called for each class of the chain, base class first, when an object is created
	InitializeCallback func(rt *goja.Runtime, object *goja.Object)

	// FinalizeCallback called with the object's private data when the object is collected or its context released,
	// derived class first. Returning true claims the data and stops the chain.
	// It may run on any goroutine and must not touch the runtime.
	FinalizeCallback func(private any) (claimed bool)

	// HasPropertyCallback reports whether the object has the named property
	HasPropertyCallback func(rt *goja.Runtime, object *goja.Object, name string) bool

	// GetPropertyCallback returns a nil value to defer to the next lookup tier
	GetPropertyCallback func(rt *goja.Runtime, object *goja.Object, name string) (value goja.Value, exception goja.Value)

	// SetPropertyCallback returns false to defer to the next lookup tier
	SetPropertyCallback func(rt *goja.Runtime, object *goja.Object, name string, value goja.Value) (handled bool, exception goja.Value)

	// DeletePropertyCallback returns false to defer to the next lookup tier
	DeletePropertyCallback func(rt *goja.Runtime, object *goja.Object, name string) (deleted bool, exception goja.Value)

	// GetPropertyNamesCallback adds the names of dynamic properties
	GetPropertyNamesCallback func(rt *goja.Runtime, object *goja.Object, names *PropertyNameAccumulator)

	// CallAsFunctionCallback called when the object is called as a function
	CallAsFunctionCallback func(rt *goja.Runtime, function *goja.Object, this goja.Value, arguments []goja.Value) (result goja.Value, exception goja.Value)

	// StaticFunctionCallback called when a named function property is invoked
	StaticFunctionCallback func(rt *goja.Runtime, name string, function *goja.Object, this goja.Value, arguments []goja.Value) (result goja.Value, exception goja.Value)

	// CallAsConstructorCallback called when the object is used in a new expression
	CallAsConstructorCallback func(rt *goja.Runtime, constructor *goja.Object, arguments []goja.Value) (object *goja.Object, exception goja.Value)

	// HasInstanceCallback called for instanceof when the object is the right operand
	HasInstanceCallback func(rt *goja.Runtime, constructor *goja.Object, candidate goja.Value) (bool, goja.Value)

	// ConvertToTypeCallback returns a nil value to fall back to valueOf / toString
	ConvertToTypeCallback func(rt *goja.Runtime, object *goja.Object, typ Type) (value goja.Value, exception goja.Value)
)

// StaticValue a named value property of a class
type StaticValue struct {
	Name        string
	GetProperty GetPropertyCallback
	SetProperty SetPropertyCallback
	Attributes  PropertyAttributes
}

// StaticFunction a named function property of a class
type StaticFunction struct {
	Name           string
	CallAsFunction StaticFunctionCallback
	Attributes     PropertyAttributes
}

// ClassDefinition the callback table of a class. Nil callbacks fall back to the parent class,
// then to the prototype chain.
type ClassDefinition struct {
	Version           uint32
	Attributes        ClassAttribute
	Name              string
	Parent            *Class
	StaticValues      []StaticValue
	StaticFunctions   []StaticFunction
	Initialize        InitializeCallback
	Finalize          FinalizeCallback
	HasProperty       HasPropertyCallback
	GetProperty       GetPropertyCallback
	SetProperty       SetPropertyCallback
	DeleteProperty    DeletePropertyCallback
	GetPropertyNames  GetPropertyNamesCallback
	CallAsFunction    CallAsFunctionCallback
	CallAsConstructor CallAsConstructorCallback
	HasInstance       HasInstanceCallback
	ConvertToType     ConvertToTypeCallback
}

// Class an immutable class usable in any context
type Class struct {
	definition ClassDefinition
	values     map[string]*StaticValue
	functions  map[string]*StaticFunction
}

// NewClass create a class from the definition. The definition tables are copied.
func NewClass(def ClassDefinition) (*Class, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: class name is empty", ErrInvalidArgument)
	}

	class := &Class{
		definition: def,
		values:     map[string]*StaticValue{},
		functions:  map[string]*StaticFunction{},
	}
	class.definition.StaticValues = append([]StaticValue(nil), def.StaticValues...)
	class.definition.StaticFunctions = append([]StaticFunction(nil), def.StaticFunctions...)

	for i := range class.definition.StaticValues {
		value := &class.definition.StaticValues[i]
		if value.Name == "" {
			return nil, fmt.Errorf("%w: %s has a value property without a name", ErrInvalidArgument, def.Name)
		}
		if value.GetProperty == nil && value.SetProperty == nil {
			return nil, fmt.Errorf("%w: %s.%s has neither getter nor setter", ErrInvalidArgument, def.Name, value.Name)
		}
		if _, has := class.values[value.Name]; has {
			return nil, fmt.Errorf("%w: %s.%s value property already added", ErrInvalidArgument, def.Name, value.Name)
		}
		class.values[value.Name] = value
	}

	for i := range class.definition.StaticFunctions {
		function := &class.definition.StaticFunctions[i]
		if function.Name == "" || function.CallAsFunction == nil {
			return nil, fmt.Errorf("%w: %s has an incomplete function property %q", ErrInvalidArgument, def.Name, function.Name)
		}
		if _, has := class.functions[function.Name]; has {
			return nil, fmt.Errorf("%w: %s.%s function property already added", ErrInvalidArgument, def.Name, function.Name)
		}
		class.functions[function.Name] = function
	}

	return class, nil
}

// Name the class name
func (class *Class) Name() string {
	return class.definition.Name
}

// Version the class version
func (class *Class) Version() uint32 {
	return class.definition.Version
}

// Parent the parent class, nil for root classes
func (class *Class) Parent() *Class {
	return class.definition.Parent
}

// Attributes the class attribute
func (class *Class) Attributes() ClassAttribute {
	return class.definition.Attributes
}

// Definition returns a copy of the class definition
func (class *Class) Definition() ClassDefinition {
	def := class.definition
	def.StaticValues = append([]StaticValue(nil), class.definition.StaticValues...)
	def.StaticFunctions = append([]StaticFunction(nil), class.definition.StaticFunctions...)
	return def
}

// automaticPrototype functions of classes with an automatic prototype live on the prototype
func (class *Class) automaticPrototype() bool {
	return class.definition.Attributes != ClassAttributeNoAutomaticPrototype
}

// ownFunction returns the function property objects of this class carry themselves
func (class *Class) ownFunction(name string) *StaticFunction {
	if class.automaticPrototype() {
		return nil
	}
	return class.functions[name]
}

// callableAsFunction reports whether objects of the class chain can be called
func (class *Class) callableAsFunction() bool {
	for c := class; c != nil; c = c.Parent() {
		if c.definition.CallAsFunction != nil {
			return true
		}
	}
	return false
}

// ClassInfo the description of a class, used by tooling
type ClassInfo struct {
	Name       string         `json:"name" yaml:"name" toml:"name"`
	Version    uint32         `json:"version" yaml:"version" toml:"version"`
	Attributes string         `json:"attributes" yaml:"attributes" toml:"attributes"`
	Parent     string         `json:"parent,omitempty" yaml:"parent,omitempty" toml:"parent,omitempty"`
	Values     []PropertyInfo `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Functions  []PropertyInfo `json:"functions,omitempty" yaml:"functions,omitempty" toml:"functions,omitempty"`
	Callbacks  []string       `json:"callbacks,omitempty" yaml:"callbacks,omitempty" toml:"callbacks,omitempty"`
}

// PropertyInfo the description of a class property
type PropertyInfo struct {
	Name       string `json:"name" yaml:"name" toml:"name"`
	Attributes string `json:"attributes" yaml:"attributes" toml:"attributes"`
	Getter     bool   `json:"getter,omitempty" yaml:"getter,omitempty" toml:"getter,omitempty"`
	Setter     bool   `json:"setter,omitempty" yaml:"setter,omitempty" toml:"setter,omitempty"`
}

// Describe the class
func (class *Class) Describe() ClassInfo {
	def := &class.definition
	info := ClassInfo{
		Name:       def.Name,
		Version:    def.Version,
		Attributes: def.Attributes.String(),
	}
	if def.Parent != nil {
		info.Parent = def.Parent.Name()
	}

	for _, value := range def.StaticValues {
		info.Values = append(info.Values, PropertyInfo{
			Name:       value.Name,
			Attributes: value.Attributes.String(),
			Getter:     value.GetProperty != nil,
			Setter:     value.SetProperty != nil,
		})
	}

	for _, function := range def.StaticFunctions {
		info.Functions = append(info.Functions, PropertyInfo{Name: function.Name, Attributes: function.Attributes.String()})
	}

	callbacks := []struct {
		name string
		set  bool
	}{
		{"Initialize", def.Initialize != nil},
		{"Finalize", def.Finalize != nil},
		{"HasProperty", def.HasProperty != nil},
		{"GetProperty", def.GetProperty != nil},
		{"SetProperty", def.SetProperty != nil},
		{"DeleteProperty", def.DeleteProperty != nil},
		{"GetPropertyNames", def.GetPropertyNames != nil},
		{"CallAsFunction", def.CallAsFunction != nil},
		{"CallAsConstructor", def.CallAsConstructor != nil},
		{"HasInstance", def.HasInstance != nil},
		{"ConvertToType", def.ConvertToType != nil},
	}
	for _, cb := range callbacks {
		if cb.set {
			info.Callbacks = append(info.Callbacks, cb.name)
		}
	}
	return info
}

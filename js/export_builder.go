package js

import "fmt"

// ClassBuilder accumulates the properties and callbacks of an exported class
type ClassBuilder[T Native] struct {
	mu               locker
	name             string
	version          uint32
	attributes       ClassAttribute
	parent           *Class
	construct        func(ctx *Context) T
	values           map[string]NamedValuePropertyCallback[T]
	functions        map[string]NamedFunctionPropertyCallback[T]
	hasProperty      ExportHasPropertyCallback[T]
	getProperty      ExportGetPropertyCallback[T]
	setProperty      ExportSetPropertyCallback[T]
	deleteProperty   ExportDeletePropertyCallback[T]
	getPropertyNames ExportGetPropertyNamesCallback[T]
	callAsFunction   ExportCallAsFunctionCallback[T]
	convertToType    ExportConvertToTypeCallback[T]
}

// NewClassBuilder create a builder, construct creates the native value of every new object
func NewClassBuilder[T Native](name string, construct func(ctx *Context) T) *ClassBuilder[T] {
	return &ClassBuilder[T]{
		mu:        newLocker(),
		name:      name,
		construct: construct,
		values:    map[string]NamedValuePropertyCallback[T]{},
		functions: map[string]NamedFunctionPropertyCallback[T]{},
	}
}

// ClassName the class name
func (builder *ClassBuilder[T]) ClassName() string {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	return builder.name
}

// SetClassName set the class name
func (builder *ClassBuilder[T]) SetClassName(name string) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.name = name
	return builder
}

// Version the class version
func (builder *ClassBuilder[T]) Version() uint32 {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	return builder.version
}

// SetVersion set the class version
func (builder *ClassBuilder[T]) SetVersion(version uint32) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.version = version
	return builder
}

// ClassAttribute the class attribute
func (builder *ClassBuilder[T]) ClassAttribute() ClassAttribute {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	return builder.attributes
}

// SetClassAttribute set the class attribute
func (builder *ClassBuilder[T]) SetClassAttribute(attr ClassAttribute) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.attributes = attr
	return builder
}

// Parent the parent class
func (builder *ClassBuilder[T]) Parent() *Class {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	return builder.parent
}

// SetParent set the parent class
func (builder *ClassBuilder[T]) SetParent(parent *Class) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.parent = parent
	return builder
}

// AddValueProperty add a named value property. It is DontDelete, ReadOnly without a setter and DontEnum when not enumerable.
func (builder *ClassBuilder[T]) AddValueProperty(name string, get GetNamedValuePropertyCallback[T], set SetNamedValuePropertyCallback[T], enumerable bool) error {
	attributes := PropertyAttributeDontDelete
	if set == nil {
		attributes |= PropertyAttributeReadOnly
	}
	if !enumerable {
		attributes |= PropertyAttributeDontEnum
	}

	callback, err := NewNamedValuePropertyCallback(name, get, set, attributes)
	if err != nil {
		return err
	}

	builder.mu.Lock()
	defer builder.mu.Unlock()
	if _, has := builder.values[name]; has {
		return fmt.Errorf("%w: value property %s already added", ErrInvalidArgument, name)
	}
	builder.values[name] = callback
	return nil
}

// AddFunctionProperty add a named function property. It is ReadOnly, DontDelete and DontEnum when not enumerable.
func (builder *ClassBuilder[T]) AddFunctionProperty(name string, call CallNamedFunctionCallback[T], enumerable bool) error {
	attributes := PropertyAttributeReadOnly | PropertyAttributeDontDelete
	if !enumerable {
		attributes |= PropertyAttributeDontEnum
	}

	callback, err := NewNamedFunctionPropertyCallback(name, call, attributes)
	if err != nil {
		return err
	}

	builder.mu.Lock()
	defer builder.mu.Unlock()
	if _, has := builder.functions[name]; has {
		return fmt.Errorf("%w: function property %s already added", ErrInvalidArgument, name)
	}
	builder.functions[name] = callback
	return nil
}

// SetHasPropertyCallback set the generic has-property callback
func (builder *ClassBuilder[T]) SetHasPropertyCallback(cb ExportHasPropertyCallback[T]) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.hasProperty = cb
	return builder
}

// SetGetPropertyCallback set the generic get-property callback
func (builder *ClassBuilder[T]) SetGetPropertyCallback(cb ExportGetPropertyCallback[T]) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.getProperty = cb
	return builder
}

// SetSetPropertyCallback set the generic set-property callback
func (builder *ClassBuilder[T]) SetSetPropertyCallback(cb ExportSetPropertyCallback[T]) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.setProperty = cb
	return builder
}

// SetDeletePropertyCallback set the generic delete-property callback
func (builder *ClassBuilder[T]) SetDeletePropertyCallback(cb ExportDeletePropertyCallback[T]) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.deleteProperty = cb
	return builder
}

// SetGetPropertyNamesCallback set the generic get-property-names callback
func (builder *ClassBuilder[T]) SetGetPropertyNamesCallback(cb ExportGetPropertyNamesCallback[T]) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.getPropertyNames = cb
	return builder
}

// SetCallAsFunctionCallback set the call-as-function callback
func (builder *ClassBuilder[T]) SetCallAsFunctionCallback(cb ExportCallAsFunctionCallback[T]) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.callAsFunction = cb
	return builder
}

// SetConvertToTypeCallback set the convert-to-type callback
func (builder *ClassBuilder[T]) SetConvertToTypeCallback(cb ExportConvertToTypeCallback[T]) *ClassBuilder[T] {
	builder.mu.Lock()
	defer builder.mu.Unlock()
	builder.convertToType = cb
	return builder
}

// Build freeze the builder into an immutable definition
func (builder *ClassBuilder[T]) Build() (*ExportDefinition[T], error) {
	builder.mu.Lock()
	defer builder.mu.Unlock()

	if builder.name == "" {
		return nil, fmt.Errorf("%w: class name is empty", ErrInvalidArgument)
	}
	if builder.construct == nil {
		return nil, fmt.Errorf("%w: class %s has no constructor", ErrInvalidArgument, builder.name)
	}

	def := &ExportDefinition[T]{
		name:             builder.name,
		version:          builder.version,
		attributes:       builder.attributes,
		parent:           builder.parent,
		construct:        builder.construct,
		values:           make(map[string]NamedValuePropertyCallback[T], len(builder.values)),
		functions:        make(map[string]NamedFunctionPropertyCallback[T], len(builder.functions)),
		hasProperty:      builder.hasProperty,
		getProperty:      builder.getProperty,
		setProperty:      builder.setProperty,
		deleteProperty:   builder.deleteProperty,
		getPropertyNames: builder.getPropertyNames,
		callAsFunction:   builder.callAsFunction,
		convertToType:    builder.convertToType,
	}
	for name, cb := range builder.values {
		def.values[name] = cb
	}
	for name, cb := range builder.functions {
		def.functions[name] = cb
	}
	return def, nil
}

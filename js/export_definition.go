package js

import "sort"

// ExportDefinition the immutable definition of an exported class, safe for concurrent use
type ExportDefinition[T Native] struct {
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

// Name the class name
func (def *ExportDefinition[T]) Name() string { return def.name }

// Version the class version
func (def *ExportDefinition[T]) Version() uint32 { return def.version }

// Attributes the class attribute
func (def *ExportDefinition[T]) Attributes() ClassAttribute { return def.attributes }

// Parent the parent class
func (def *ExportDefinition[T]) Parent() *Class { return def.parent }

// ValueProperty the named value property
func (def *ExportDefinition[T]) ValueProperty(name string) (NamedValuePropertyCallback[T], bool) {
	cb, has := def.values[name]
	return cb, has
}

// FunctionProperty the named function property
func (def *ExportDefinition[T]) FunctionProperty(name string) (NamedFunctionPropertyCallback[T], bool) {
	cb, has := def.functions[name]
	return cb, has
}

// ValueProperties the named value properties sorted by name
func (def *ExportDefinition[T]) ValueProperties() []NamedValuePropertyCallback[T] {
	props := make([]NamedValuePropertyCallback[T], 0, len(def.values))
	for _, cb := range def.values {
		props = append(props, cb)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].name < props[j].name })
	return props
}

// FunctionProperties the named function properties sorted by name
func (def *ExportDefinition[T]) FunctionProperties() []NamedFunctionPropertyCallback[T] {
	props := make([]NamedFunctionPropertyCallback[T], 0, len(def.functions))
	for _, cb := range def.functions {
		props = append(props, cb)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].name < props[j].name })
	return props
}

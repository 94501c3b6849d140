package js

import (
	"weak"

	"github.com/dop251/goja"
)

// Native a Go type exported to scripts as a class
type Native interface {
	// PostInitialize called once the native value is attached to its object
	PostInitialize(object Object)

	// PostCallAsConstructor called after new, with the constructor arguments
	PostCallAsConstructor(ctx *Context, arguments []Value) error
}

// Finalizer implemented by natives that release resources when their object goes away.
// Finalize may run on any goroutine.
type Finalizer interface {
	Finalize()
}

// ExportObject the base of exported natives. Embed it to get the context and the owning object.
type ExportObject struct {
	ctx    *Context
	object weak.Pointer[goja.Object]
}

type exportBinder interface {
	bindExport(ctx *Context, object *goja.Object)
}

func (o *ExportObject) bindExport(ctx *Context, object *goja.Object) {
	o.ctx = ctx
	o.object = weak.Make(object)
}

// Context the context the native was created in
func (o *ExportObject) Context() *Context {
	return o.ctx
}

// Object the script object the native is attached to, false once the object was collected
func (o *ExportObject) Object() (Object, bool) {
	if o.ctx == nil {
		return Object{}, false
	}
	obj := o.object.Value()
	if obj == nil {
		return Object{}, false
	}
	return o.ctx.object(obj), true
}

// PostInitialize does nothing
func (o *ExportObject) PostInitialize(object Object) {}

// PostCallAsConstructor does nothing
func (o *ExportObject) PostCallAsConstructor(ctx *Context, arguments []Value) error {
	return nil
}

// Typed callbacks of an exported class
type (
	// GetNamedValuePropertyCallback returns the zero Value to defer to the next lookup tier
	GetNamedValuePropertyCallback[T Native] func(native T) (Value, error)

	// SetNamedValuePropertyCallback returns false to defer to the next lookup tier
	SetNamedValuePropertyCallback[T Native] func(native T, value Value) (bool, error)

	// CallNamedFunctionCallback called with the call-site this and arguments
	CallNamedFunctionCallback[T Native] func(native T, arguments []Value, this Object) (Value, error)

	// ExportHasPropertyCallback reports whether the native has a dynamic property
	ExportHasPropertyCallback[T Native] func(native T, name string) bool

	// ExportGetPropertyCallback found is false to defer to the next lookup tier
	ExportGetPropertyCallback[T Native] func(native T, name string) (value Value, found bool, err error)

	// ExportSetPropertyCallback returns false to defer to the next lookup tier
	ExportSetPropertyCallback[T Native] func(native T, name string, value Value) (bool, error)

	// ExportDeletePropertyCallback returns false to defer to the next lookup tier
	ExportDeletePropertyCallback[T Native] func(native T, name string) (bool, error)

	// ExportGetPropertyNamesCallback adds the names of dynamic properties
	ExportGetPropertyNamesCallback[T Native] func(native T, names *PropertyNameAccumulator)

	// ExportCallAsFunctionCallback called when the object is called as a function
	ExportCallAsFunctionCallback[T Native] func(native T, arguments []Value, this Object) (Value, error)

	// ExportConvertToTypeCallback found is false to fall back to valueOf / toString
	ExportConvertToTypeCallback[T Native] func(native T, typ Type) (value Value, found bool, err error)
)

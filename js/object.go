package js

import (
	"strconv"

	"github.com/dop251/goja"
)

// Object a script object bound to its context
type Object struct {
	Value
	obj *goja.Object
}

// Get a property, undefined when missing
func (o Object) Get(name string) (Value, error) {
	var v goja.Value
	err := try(func() { v = o.obj.Get(name) })
	if err != nil {
		return Value{}, err
	}
	return o.ctx.value(v), nil
}

// Set a property. With attributes the property is defined instead of assigned.
func (o Object) Set(name string, value Value, attrs ...PropertyAttributes) error {
	ref := value.ref
	if ref == nil {
		ref = goja.Undefined()
	}

	if len(attrs) == 0 {
		var setErr error
		err := try(func() { setErr = o.obj.Set(name, ref) })
		if err != nil {
			return err
		}
		if setErr != nil {
			return toRuntimeError(setErr)
		}
		return nil
	}

	var a PropertyAttributes
	for _, attr := range attrs {
		a |= attr
	}
	var defErr error
	err := try(func() {
		defErr = o.obj.DefineDataProperty(name, ref,
			flag(!a.Has(PropertyAttributeReadOnly)),
			flag(!a.Has(PropertyAttributeDontDelete)),
			flag(!a.Has(PropertyAttributeDontEnum)))
	})
	if err != nil {
		return err
	}
	if defErr != nil {
		return toRuntimeError(defErr)
	}
	return nil
}

// GetIndex an indexed property
func (o Object) GetIndex(index int) (Value, error) {
	return o.Get(strconv.Itoa(index))
}

// SetIndex an indexed property
func (o Object) SetIndex(index int, value Value) error {
	return o.Set(strconv.Itoa(index), value)
}

// Delete a property, false when the property can not be deleted
func (o Object) Delete(name string) (bool, error) {
	result, err := o.ctx.intrinsics.deleteProperty(goja.Undefined(), o.obj, o.ctx.rt.ToValue(name))
	if err != nil {
		return false, toRuntimeError(err)
	}
	return result.ToBoolean(), nil
}

// Has reports whether the object or its prototype chain has the property
func (o Object) Has(name string) (bool, error) {
	result, err := o.ctx.intrinsics.has(goja.Undefined(), o.obj, o.ctx.rt.ToValue(name))
	if err != nil {
		return false, toRuntimeError(err)
	}
	return result.ToBoolean(), nil
}

// PropertyNames the enumerable own property names
func (o Object) PropertyNames() (names []string, err error) {
	err = try(func() { names = o.obj.Keys() })
	return names, err
}

// Properties the enumerable own properties
func (o Object) Properties() (map[string]Value, error) {
	names, err := o.PropertyNames()
	if err != nil {
		return nil, err
	}

	props := make(map[string]Value, len(names))
	for _, name := range names {
		v, err := o.Get(name)
		if err != nil {
			return nil, err
		}
		props[name] = v
	}
	return props, nil
}

// IsFunction reports whether the object can be called
func (o Object) IsFunction() bool {
	_, ok := goja.AssertFunction(o.obj)
	return ok
}

// IsConstructor reports whether the object can be used with new
func (o Object) IsConstructor() bool {
	_, ok := goja.AssertConstructor(o.obj)
	return ok
}

// IsArray reports whether the object is an array
func (o Object) IsArray() bool {
	return o.obj.ClassName() == "Array"
}

// IsError reports whether the object is an Error
func (o Object) IsError() bool {
	return o.obj.ClassName() == "Error"
}

// Call the object as a function. A zero this binds undefined.
func (o Object) Call(this Value, args ...Value) (Value, error) {
	fn, ok := goja.AssertFunction(o.obj)
	if !ok {
		return Value{}, &RuntimeError{Name: "TypeError", Message: "object is not a function"}
	}

	thisRef := this.ref
	if thisRef == nil {
		thisRef = goja.Undefined()
	}

	var result goja.Value
	var callErr error
	err := try(func() { result, callErr = fn(thisRef, refs(args)...) })
	if err != nil {
		return Value{}, err
	}
	if callErr != nil {
		return Value{}, toRuntimeError(callErr)
	}
	return o.ctx.value(result), nil
}

// CallAsConstructor the object in a new expression
func (o Object) CallAsConstructor(args ...Value) (Object, error) {
	var obj *goja.Object
	var newErr error
	err := try(func() { obj, newErr = o.ctx.rt.New(o.obj, refs(args)...) })
	if err != nil {
		return Object{}, err
	}
	if newErr != nil {
		return Object{}, toRuntimeError(newErr)
	}
	return o.ctx.object(obj), nil
}

// Prototype the prototype, null when the object has none
func (o Object) Prototype() Value {
	proto := o.obj.Prototype()
	if proto == nil {
		return o.ctx.value(goja.Null())
	}
	return o.ctx.value(proto)
}

// SetPrototype replace the prototype
func (o Object) SetPrototype(proto Object) error {
	var setErr error
	err := try(func() { setErr = o.obj.SetPrototype(proto.obj) })
	if err != nil {
		return err
	}
	if setErr != nil {
		return toRuntimeError(setErr)
	}
	return nil
}

// Private the private data, nil for objects that are not class objects
func (o Object) Private() any {
	host := o.ctx.hostOf(o.obj)
	if host == nil {
		return nil
	}
	return privates.get(host)
}

// SetPrivate attach private data, false for objects that are not class objects
func (o Object) SetPrivate(data any) bool {
	host := o.ctx.hostOf(o.obj)
	if host == nil || host.finalized.Load() {
		return false
	}
	privates.set(host, data)
	return true
}

// Class the class of the object, nil for plain objects
func (o Object) Class() *Class {
	host := o.ctx.hostOf(o.obj)
	if host == nil {
		return nil
	}
	return host.class
}

// Raw the underlying engine object
func (o Object) Raw() *goja.Object {
	return o.obj
}

func refs(values []Value) []goja.Value {
	result := make([]goja.Value, len(values))
	for i, v := range values {
		result[i] = v.ref
		if result[i] == nil {
			result[i] = goja.Undefined()
		}
	}
	return result
}

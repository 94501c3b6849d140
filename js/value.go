package js

import (
	"reflect"

	"github.com/dop251/goja"
)

// Value a script value bound to its context. The zero Value holds no value; class callbacks
// return it to defer to the next lookup tier.
type Value struct {
	ctx *Context
	ref goja.Value
}

// IsValid reports whether the value holds a script value
func (v Value) IsValid() bool {
	return v.ref != nil
}

// Context the owning context
func (v Value) Context() *Context {
	return v.ctx
}

// Ref the underlying engine value
func (v Value) Ref() goja.Value {
	return v.ref
}

// Type the script type of the value
func (v Value) Type() Type {
	if v.ref == nil || goja.IsUndefined(v.ref) {
		return TypeUndefined
	}
	if goja.IsNull(v.ref) {
		return TypeNull
	}

	switch v.ref.(type) {
	case *goja.Object:
		return TypeObject
	case *goja.Symbol:
		return TypeSymbol
	}

	switch v.ref.ExportType().Kind() {
	case reflect.Bool:
		return TypeBoolean
	case reflect.String:
		return TypeString
	}
	return TypeNumber
}

// IsUndefined reports whether the value is undefined
func (v Value) IsUndefined() bool { return v.Type() == TypeUndefined }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.Type() == TypeNull }

// IsBoolean reports whether the value is a boolean
func (v Value) IsBoolean() bool { return v.Type() == TypeBoolean }

// IsNumber reports whether the value is a number
func (v Value) IsNumber() bool { return v.Type() == TypeNumber }

// IsString reports whether the value is a string
func (v Value) IsString() bool { return v.Type() == TypeString }

// IsObject reports whether the value is an object
func (v Value) IsObject() bool { return v.Type() == TypeObject }

// ToBool converts the value to a boolean
func (v Value) ToBool() bool {
	if v.ref == nil {
		return false
	}
	return v.ref.ToBoolean()
}

// ToNumber converts the value to a number, objects may run script to convert
func (v Value) ToNumber() (n float64, err error) {
	if v.ref == nil {
		return 0, nil
	}
	err = try(func() { n = v.ref.ToFloat() })
	return n, err
}

// ToInt converts the value to an integer
func (v Value) ToInt() (n int64, err error) {
	if v.ref == nil {
		return 0, nil
	}
	err = try(func() { n = v.ref.ToInteger() })
	return n, err
}

// ToString converts the value to a string
func (v Value) ToString() (s string, err error) {
	if v.ref == nil {
		return "undefined", nil
	}
	err = try(func() { s = v.ref.String() })
	return s, err
}

// String the string form of the value, empty when the conversion throws
func (v Value) String() string {
	s, _ := v.ToString()
	return s
}

// ToObject converts the value to an object, primitives are boxed
func (v Value) ToObject() (Object, error) {
	switch v.Type() {
	case TypeUndefined, TypeNull:
		return Object{}, &RuntimeError{Name: "TypeError", Message: "Cannot convert undefined or null to object"}
	}

	var obj *goja.Object
	err := try(func() { obj = v.ref.ToObject(v.ctx.rt) })
	if err != nil {
		return Object{}, err
	}
	return v.ctx.object(obj), nil
}

// ToJSON serializes the value with JSON.stringify
func (v Value) ToJSON(indent int) (string, error) {
	if v.ref == nil {
		return "", nil
	}
	result, err := v.ctx.intrinsics.stringify(goja.Undefined(), v.ref, goja.Null(), v.ctx.rt.ToValue(indent))
	if err != nil {
		return "", toRuntimeError(err)
	}
	if goja.IsUndefined(result) {
		return "", nil
	}
	return result.String(), nil
}

// Export the Go form of the value
func (v Value) Export() interface{} {
	if v.ref == nil {
		return nil
	}
	return v.ref.Export()
}

// StrictEquals compares with ===
func (v Value) StrictEquals(other Value) bool {
	if v.ref == nil || other.ref == nil {
		return v.ref == nil && other.ref == nil
	}
	return v.ref.StrictEquals(other.ref)
}

// Equals compares with ==, objects may run script to convert
func (v Value) Equals(other Value) (equals bool, err error) {
	if v.ref == nil || other.ref == nil {
		return v.ref == nil && other.ref == nil, nil
	}
	err = try(func() { equals = v.ref.Equals(other.ref) })
	return equals, err
}

// InstanceOf evaluates value instanceof constructor
func (v Value) InstanceOf(constructor Object) (bool, error) {
	if v.ref == nil {
		return false, nil
	}
	result, err := v.ctx.intrinsics.instanceOf(goja.Undefined(), v.ref, constructor.obj)
	if err != nil {
		return false, toRuntimeError(err)
	}
	return result.ToBoolean(), nil
}

package js

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/yaoapp/kun/exception"
)

// errUnknown the failure of a panic that carries neither an error nor a message
var errUnknown = errors.New("unknown exception")

// panicError the error carried by a recovered panic
func panicError(r interface{}) error {
	switch v := r.(type) {
	case exception.Exception:
		return errors.New(v.Message)
	case *exception.Exception:
		return errors.New(v.Message)
	case *RuntimeError:
		return v
	case *goja.Exception:
		return toRuntimeError(v)
	case goja.Value:
		return newRuntimeError(v)
	case error:
		return v
	case string:
		return errors.New(v)
	}
	return errUnknown
}

func panicMessage(r interface{}) string {
	return panicError(r).Error()
}

// newScriptError build the script Error delivered for a failed native callback. Runtime errors
// keep their name, location and stack, the component is appended to nativeStack.
func newScriptError(rt *goja.Runtime, err error, component string) goja.Value {
	name := "Error"
	message := err.Error()
	fileName := ""
	lineNumber := 0
	stack := []interface{}{}

	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		if rerr.Name != "" {
			name = rerr.Name
		}
		message = rerr.Message
		fileName = rerr.FileName
		lineNumber = rerr.LineNumber
		for _, frame := range rerr.Stack {
			stack = append(stack, frame)
		}
	}
	stack = append(stack, component)

	var obj *goja.Object
	if ctor, ok := rt.Get("Error").(*goja.Object); ok {
		obj, _ = rt.New(ctor, rt.ToValue(message))
	}
	if obj == nil {
		obj = rt.NewObject()
		obj.Set("message", message)
	}
	obj.Set("name", name)
	obj.Set("fileName", fileName)
	obj.Set("lineNumber", lineNumber)
	obj.Set("component", component)
	obj.Set("nativeStack", rt.NewArray(stack...))
	return obj
}

// componentName the native component an error comes from, ExportClass<jsapi.Counter>::SetProperty (count)
func componentName(typeName string, operation string, location string) string {
	component := fmt.Sprintf("ExportClass<%s>::%s", typeName, operation)
	if location != "" {
		component = fmt.Sprintf("%s (%s)", component, location)
	}
	return component
}

package js

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dop251/goja"
	"github.com/yaoapp/kun/log"
)

// ExportClass binds an exported Go type to an engine class. The class callbacks are trampolines
// that resolve the native value of the object and dispatch to the definition's callbacks.
type ExportClass[T Native] struct {
	definition *ExportDefinition[T]
	class      *Class
	typeName   string
}

// NewExportClass create the engine class of the definition
func NewExportClass[T Native](def *ExportDefinition[T]) (*ExportClass[T], error) {
	ec := &ExportClass[T]{definition: def, typeName: typeName[T]()}
	class, err := NewClass(ec.ClassDefinition())
	if err != nil {
		return nil, err
	}
	ec.class = class
	return ec, nil
}

func typeName[T any]() string {
	return strings.TrimLeft(reflect.TypeFor[T]().String(), "*")
}

// Class the engine class
func (ec *ExportClass[T]) Class() *Class {
	return ec.class
}

// Name the class name
func (ec *ExportClass[T]) Name() string {
	return ec.definition.name
}

// Definition the export definition
func (ec *ExportClass[T]) Definition() *ExportDefinition[T] {
	return ec.definition
}

// NewObject create an object of the class in the context
func (ec *ExportClass[T]) NewObject(ctx *Context) (Object, error) {
	return ctx.CreateObjectOfClass(ec.class)
}

// Native the native value attached to the object
func (ec *ExportClass[T]) Native(object Object) (T, bool) {
	if object.ctx == nil {
		var zero T
		return zero, false
	}
	native, ok := object.Private().(T)
	return native, ok
}

// ClassDefinition the raw callback table, rebuilt on every call. Initialize, Finalize,
// CallAsConstructor and HasInstance are always set; generic callbacks only when the definition has them.
func (ec *ExportClass[T]) ClassDefinition() ClassDefinition {
	def := ec.definition
	table := ClassDefinition{
		Version:           def.version,
		Attributes:        def.attributes,
		Name:              def.name,
		Parent:            def.parent,
		Initialize:        ec.initialize,
		Finalize:          ec.finalize,
		CallAsConstructor: ec.callAsConstructor,
		HasInstance:       ec.hasInstance,
	}

	names := make([]string, 0, len(def.values))
	for name := range def.values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cb := def.values[name]
		value := StaticValue{Name: name, Attributes: cb.attributes}
		if cb.get != nil {
			value.GetProperty = ec.getNamedValue
		}
		if cb.set != nil {
			value.SetProperty = ec.setNamedValue
		}
		table.StaticValues = append(table.StaticValues, value)
	}

	names = names[:0]
	for name := range def.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		table.StaticFunctions = append(table.StaticFunctions, StaticFunction{
			Name:           name,
			CallAsFunction: ec.callNamedFunction,
			Attributes:     def.functions[name].attributes,
		})
	}

	if def.hasProperty != nil {
		table.HasProperty = ec.hasProperty
	}
	if def.getProperty != nil {
		table.GetProperty = ec.getProperty
	}
	if def.setProperty != nil {
		table.SetProperty = ec.setProperty
	}
	if def.deleteProperty != nil {
		table.DeleteProperty = ec.deleteProperty
	}
	if def.getPropertyNames != nil {
		table.GetPropertyNames = ec.getPropertyNames
	}
	if def.callAsFunction != nil {
		table.CallAsFunction = ec.callAsFunction
	}
	if def.convertToType != nil {
		table.ConvertToType = ec.convertToType
	}
	return table
}

func (ec *ExportClass[T]) component(operation string, location string) string {
	return componentName(ec.typeName, operation, location)
}

// recover converts a panic escaping a callback into the script exception of the operation
func (ec *ExportClass[T]) recover(rt *goja.Runtime, operation string, location string, exception *goja.Value) {
	if r := recover(); r != nil {
		component := ec.component(operation, location)
		err := panicError(r)
		log.Trace("[EXPORT] %s: %s", component, err.Error())
		*exception = newScriptError(rt, err, component)
	}
}

// context the wrapper context of the runtime, panics on a runtime this package did not create
func (ec *ExportClass[T]) context(rt *goja.Runtime) *Context {
	ctx := findContext(rt)
	if ctx == nil {
		panic(fmt.Errorf("contract violation: %s used in a runtime without context", ec.definition.name))
	}
	return ctx
}

// native the native value of a raw object
func (ec *ExportClass[T]) native(ctx *Context, raw goja.Value) (T, Object, bool) {
	obj, ok := raw.(*goja.Object)
	if !ok {
		var zero T
		return zero, Object{}, false
	}
	object := ctx.object(obj)
	native, ok := object.Private().(T)
	return native, object, ok
}

func (ec *ExportClass[T]) mustNative(ctx *Context, raw goja.Value) (T, Object) {
	native, object, ok := ec.native(ctx, raw)
	if !ok {
		panic(&RuntimeError{Name: "TypeError", Message: fmt.Sprintf("object is not a %s", ec.definition.name)})
	}
	return native, object
}

func (ec *ExportClass[T]) destroy(native any) {
	if finalizer, ok := native.(Finalizer); ok {
		finalizer.Finalize()
	}
	log.Trace("[EXPORT] %s native finalized", ec.typeName)
}

func (ec *ExportClass[T]) initialize(rt *goja.Runtime, raw *goja.Object) {
	var exception goja.Value
	func() {
		defer ec.recover(rt, "Initialize", "", &exception)
		ctx := ec.context(rt)
		object := ctx.object(raw)
		native := ec.definition.construct(ctx)
		if binder, ok := any(native).(exportBinder); ok {
			binder.bindExport(ctx, raw)
		}
		if previous := object.Private(); previous != nil {
			ec.destroy(previous)
		}
		object.SetPrivate(native)
		native.PostInitialize(object)
	}()
	if exception != nil {
		panic(exception)
	}
}

func (ec *ExportClass[T]) finalize(private any) bool {
	native, ok := private.(T)
	if !ok {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			log.With(log.F{"class": ec.definition.name}).Error("[EXPORT] %s: %s", ec.component("Finalize", ""), panicMessage(r))
		}
	}()
	ec.destroy(native)
	return true
}

func (ec *ExportClass[T]) callAsConstructor(rt *goja.Runtime, constructor *goja.Object, arguments []goja.Value) (result *goja.Object, exception goja.Value) {
	defer ec.recover(rt, "CallAsConstructor", "", &exception)
	ctx := ec.context(rt)
	object, err := ctx.CreateObjectOfClass(ec.class)
	if err != nil {
		panic(err)
	}
	native, _ := ec.mustNative(ctx, object.obj)
	if err := native.PostCallAsConstructor(ctx, ctx.values(arguments)); err != nil {
		panic(err)
	}
	log.Trace("[EXPORT] new %s", ec.definition.name)
	return object.obj, nil
}

func (ec *ExportClass[T]) hasInstance(rt *goja.Runtime, constructor *goja.Object, candidate goja.Value) (result bool, exception goja.Value) {
	defer ec.recover(rt, "HasInstance", "", &exception)
	ctx := ec.context(rt)
	obj, ok := candidate.(*goja.Object)
	if !ok || ctx.hostOf(obj) == nil {
		return false, nil
	}
	_, _, ok = ec.native(ctx, obj)
	return ok, nil
}

func (ec *ExportClass[T]) getNamedValue(rt *goja.Runtime, raw *goja.Object, name string) (result goja.Value, exception goja.Value) {
	defer ec.recover(rt, "GetNamedProperty", name, &exception)
	ctx := ec.context(rt)
	cb, has := ec.definition.values[name]
	if !has || cb.get == nil {
		panic(fmt.Errorf("contract violation: no getter registered for %s", name))
	}
	native, _ := ec.mustNative(ctx, raw)
	value, err := cb.get(native)
	if err != nil {
		panic(err)
	}
	return value.ref, nil
}

func (ec *ExportClass[T]) setNamedValue(rt *goja.Runtime, raw *goja.Object, name string, value goja.Value) (handled bool, exception goja.Value) {
	defer ec.recover(rt, "SetNamedProperty", name, &exception)
	ctx := ec.context(rt)
	cb, has := ec.definition.values[name]
	if !has || cb.set == nil {
		panic(fmt.Errorf("contract violation: no setter registered for %s", name))
	}
	native, _ := ec.mustNative(ctx, raw)
	handled, err := cb.set(native, ctx.value(value))
	if err != nil {
		panic(err)
	}
	return handled, nil
}

func (ec *ExportClass[T]) callNamedFunction(rt *goja.Runtime, name string, function *goja.Object, this goja.Value, arguments []goja.Value) (result goja.Value, exception goja.Value) {
	defer ec.recover(rt, "CallNamedFunction", name, &exception)
	ctx := ec.context(rt)
	cb, has := ec.definition.functions[name]
	if !has {
		panic(fmt.Errorf("contract violation: no function registered for %s", name))
	}
	native, object := ec.mustNative(ctx, this)
	value, err := cb.call(native, ctx.values(arguments), object)
	if err != nil {
		panic(err)
	}
	return value.ref, nil
}

// hasProperty failures are logged, the property is reported missing
func (ec *ExportClass[T]) hasProperty(rt *goja.Runtime, raw *goja.Object, name string) (has bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("[EXPORT] %s: %s", ec.component("HasProperty", name), panicMessage(r))
			has = false
		}
	}()
	ctx := ec.context(rt)
	native, _, ok := ec.native(ctx, raw)
	if !ok {
		return false
	}
	return ec.definition.hasProperty(native, name)
}

func (ec *ExportClass[T]) getProperty(rt *goja.Runtime, raw *goja.Object, name string) (result goja.Value, exception goja.Value) {
	defer ec.recover(rt, "GetProperty", name, &exception)
	ctx := ec.context(rt)
	native, _, ok := ec.native(ctx, raw)
	if !ok {
		return nil, nil
	}
	value, found, err := ec.definition.getProperty(native, name)
	if err != nil {
		panic(err)
	}
	if !found {
		return nil, nil
	}
	if value.ref == nil {
		return goja.Undefined(), nil
	}
	return value.ref, nil
}

func (ec *ExportClass[T]) setProperty(rt *goja.Runtime, raw *goja.Object, name string, value goja.Value) (handled bool, exception goja.Value) {
	defer ec.recover(rt, "SetProperty", name, &exception)
	ctx := ec.context(rt)
	native, _, ok := ec.native(ctx, raw)
	if !ok {
		return false, nil
	}
	handled, err := ec.definition.setProperty(native, name, ctx.value(value))
	if err != nil {
		panic(err)
	}
	return handled, nil
}

func (ec *ExportClass[T]) deleteProperty(rt *goja.Runtime, raw *goja.Object, name string) (deleted bool, exception goja.Value) {
	defer ec.recover(rt, "DeleteProperty", name, &exception)
	ctx := ec.context(rt)
	native, _, ok := ec.native(ctx, raw)
	if !ok {
		return false, nil
	}
	deleted, err := ec.definition.deleteProperty(native, name)
	if err != nil {
		panic(err)
	}
	return deleted, nil
}

// getPropertyNames failures are logged, the names added so far are kept
func (ec *ExportClass[T]) getPropertyNames(rt *goja.Runtime, raw *goja.Object, names *PropertyNameAccumulator) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("[EXPORT] %s: %s", ec.component("GetPropertyNames", ""), panicMessage(r))
		}
	}()
	ctx := ec.context(rt)
	native, _, ok := ec.native(ctx, raw)
	if !ok {
		return
	}
	ec.definition.getPropertyNames(native, names)
}

func (ec *ExportClass[T]) callAsFunction(rt *goja.Runtime, function *goja.Object, this goja.Value, arguments []goja.Value) (result goja.Value, exception goja.Value) {
	defer ec.recover(rt, "CallAsFunction", "", &exception)
	ctx := ec.context(rt)
	native, _ := ec.mustNative(ctx, function)
	var thisObject Object
	if obj, ok := this.(*goja.Object); ok {
		thisObject = ctx.object(obj)
	}
	value, err := ec.definition.callAsFunction(native, ctx.values(arguments), thisObject)
	if err != nil {
		panic(err)
	}
	return value.ref, nil
}

func (ec *ExportClass[T]) convertToType(rt *goja.Runtime, raw *goja.Object, typ Type) (result goja.Value, exception goja.Value) {
	defer ec.recover(rt, "ConvertToType", typ.String(), &exception)
	ctx := ec.context(rt)
	native, _ := ec.mustNative(ctx, raw)
	value, found, err := ec.definition.convertToType(native, typ)
	if err != nil {
		panic(err)
	}
	if !found {
		return nil, nil
	}
	return value.ref, nil
}

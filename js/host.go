package js

import (
	"runtime"
	"strconv"
	"sync/atomic"
	"weak"

	"github.com/dop251/goja"
	"github.com/yaoapp/kun/log"
)

// hostObject the Go side of an object of a class. Scripts see a Proxy over target; the context
// handler resolves the host from the target and runs the class callback chain.
// The host never holds the proxy strongly so the proxy stays collectable.
type hostObject struct {
	ctx       *Context
	class     *Class
	seq       uint64
	proxy     weak.Pointer[goja.Object]
	target    *goja.Object
	token     privateToken
	functions map[string]*goja.Object
	cleanup   runtime.Cleanup
	watched   bool
	finalized atomic.Bool
}

// classCache the per-context objects of a class
type classCache struct {
	prototype   *goja.Object
	hasInstance *goja.Object
	toPrimitive *goja.Object
}

// newHostObject create the proxy of a class object. Constructors and classes that can be called
// get a function target, every other object a plain one.
func (ctx *Context) newHostObject(class *Class, constructor bool) *hostObject {
	rt := ctx.rt
	var target *goja.Object
	if constructor || class.callableAsFunction() {
		target = rt.ToValue(func(call goja.ConstructorCall) *goja.Object { return nil }).ToObject(rt)
	} else {
		target = rt.NewObject()
	}
	if proto := ctx.prototypeOf(class); proto != nil {
		target.SetPrototype(proto)
	}

	proxy, err := rt.New(ctx.intrinsics.proxy, target, ctx.intrinsics.handler)
	if err != nil {
		panic(err)
	}

	ctx.mu.Lock()
	ctx.sequence++
	host := &hostObject{
		ctx:    ctx,
		class:  class,
		seq:    ctx.sequence,
		proxy:  weak.Make(proxy),
		target: target,
	}
	ctx.hosts[host.proxy] = host
	ctx.targets[weak.Make(target)] = host
	ctx.mu.Unlock()

	if ThreadSafe {
		host.cleanup = runtime.AddCleanup(proxy, func(h *hostObject) { h.collect() }, host)
		host.watched = true
	}

	ctx.counters.created.Add(1)
	globalCounters.created.Add(1)
	log.Trace("[JS] %s object #%d created in context %s", class.Name(), host.seq, ctx.id)
	return host
}

// hostOf the host of a proxy object, nil for objects that are not class objects
func (ctx *Context) hostOf(obj *goja.Object) *hostObject {
	if obj == nil {
		return nil
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.hosts[weak.Make(obj)]
}

func (ctx *Context) hostOfTarget(target *goja.Object) *hostObject {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.targets[weak.Make(target)]
}

func (ctx *Context) forget(host *hostObject) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	delete(ctx.hosts, host.proxy)
	delete(ctx.targets, weak.Make(host.target))
}

func (host *hostObject) object() *goja.Object {
	return host.proxy.Value()
}

// collect runs on the cleanup goroutine once the proxy is unreachable
func (host *hostObject) collect() {
	if err := host.finalize(); err != nil {
		log.Error("[JS] finalize %s object #%d: %s", host.class.Name(), host.seq, err.Error())
	}
}

// finalize detaches the private data and runs the finalize chain, derived class first, until a class claims the data.
// Only the first call has effect.
func (host *hostObject) finalize() error {
	if !host.finalized.CompareAndSwap(false, true) {
		return nil
	}
	if host.watched {
		host.cleanup.Stop()
	}

	host.ctx.forget(host)
	data, _ := privates.release(host)

	var err error
	for c := host.class; c != nil; c = c.Parent() {
		finalize := c.definition.Finalize
		if finalize == nil {
			continue
		}
		claimed, e := safeFinalize(c, finalize, data)
		if e != nil && err == nil {
			err = e
		}
		if claimed {
			break
		}
	}

	host.ctx.counters.finalized.Add(1)
	globalCounters.finalized.Add(1)
	return err
}

func safeFinalize(class *Class, finalize FinalizeCallback, data any) (claimed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			claimed = true
			err = &RuntimeError{Name: "Error", Message: panicMessage(r), Component: class.Name() + "::Finalize"}
		}
	}()
	return finalize(data), nil
}

// prototypeOf the automatic prototype of the nearest class of the chain that has one
func (ctx *Context) prototypeOf(class *Class) *goja.Object {
	for c := class; c != nil; c = c.Parent() {
		if c.automaticPrototype() {
			return ctx.cache(c).prototype
		}
	}
	return nil
}

func (ctx *Context) cache(class *Class) *classCache {
	if cache, has := ctx.classes[class]; has {
		return cache
	}

	cache := &classCache{}
	ctx.classes[class] = cache
	if class.automaticPrototype() {
		proto := ctx.rt.NewObject()
		if parent := class.Parent(); parent != nil {
			if parentProto := ctx.prototypeOf(parent); parentProto != nil {
				proto.SetPrototype(parentProto)
			}
		}
		for i := range class.definition.StaticFunctions {
			fn := &class.definition.StaticFunctions[i]
			attrs := fn.Attributes
			proto.DefineDataProperty(fn.Name, ctx.newFunction(fn),
				flag(!attrs.Has(PropertyAttributeReadOnly)),
				flag(!attrs.Has(PropertyAttributeDontDelete)),
				flag(!attrs.Has(PropertyAttributeDontEnum)))
		}
		cache.prototype = proto
	}
	return cache
}

// newFunction create the function object of a named function property, the name travels in the closure
func (ctx *Context) newFunction(fn *StaticFunction) *goja.Object {
	var function *goja.Object
	name := fn.Name
	callback := fn.CallAsFunction
	function = ctx.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		result, exception := callback(ctx.rt, name, function, call.This, call.Arguments)
		if exception != nil {
			panic(exception)
		}
		if result == nil {
			return goja.Undefined()
		}
		return result
	}).ToObject(ctx.rt)
	function.DefineDataProperty("name", ctx.rt.ToValue(name), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	return function
}

// ownFunction the function object a NoAutomaticPrototype object carries for the property
func (host *hostObject) ownFunction(fn *StaticFunction) *goja.Object {
	if host.functions == nil {
		host.functions = map[string]*goja.Object{}
	}
	if function, has := host.functions[fn.Name]; has {
		return function
	}
	function := host.ctx.newFunction(fn)
	host.functions[fn.Name] = function
	return function
}

func flag(b bool) goja.Flag {
	if b {
		return goja.FLAG_TRUE
	}
	return goja.FLAG_FALSE
}

// dynamicGet the generic get-property callback of one class, gated by its has-property callback
func (host *hostObject) dynamicGet(class *Class, proxy *goja.Object, name string) goja.Value {
	def := &class.definition
	if def.GetProperty == nil {
		return nil
	}
	if def.HasProperty != nil && !def.HasProperty(host.ctx.rt, proxy, name) {
		return nil
	}
	value, exception := def.GetProperty(host.ctx.rt, proxy, name)
	if exception != nil {
		panic(exception)
	}
	return value
}

// dynamicHas the generic has-property callback of one class, the get-property callback stands in when it is absent
func (host *hostObject) dynamicHas(class *Class, proxy *goja.Object, name string) bool {
	def := &class.definition
	if def.HasProperty != nil {
		return def.HasProperty(host.ctx.rt, proxy, name)
	}
	return host.dynamicGet(class, proxy, name) != nil
}

func (host *hostObject) staticGet(value *StaticValue, proxy *goja.Object) goja.Value {
	if value.GetProperty == nil {
		return nil
	}
	result, exception := value.GetProperty(host.ctx.rt, proxy, value.Name)
	if exception != nil {
		panic(exception)
	}
	return result
}

// get resolves a property: dynamic callbacks, named values, own functions, then the parent class; the target last
func (host *hostObject) get(proxy *goja.Object, name string, receiver goja.Value) goja.Value {
	for c := host.class; c != nil; c = c.Parent() {
		if value := host.dynamicGet(c, proxy, name); value != nil {
			return value
		}
		if sv, has := c.values[name]; has {
			if value := host.staticGet(sv, proxy); value != nil {
				return value
			}
		}
		if fn := c.ownFunction(name); fn != nil {
			return host.ownFunction(fn)
		}
	}
	return host.ctx.reflect(host.ctx.intrinsics.get, host.target, host.ctx.rt.ToValue(name), receiver)
}

func (host *hostObject) set(proxy *goja.Object, name string, value goja.Value, receiver goja.Value) bool {
	rt := host.ctx.rt
	for c := host.class; c != nil; c = c.Parent() {
		def := &c.definition
		if def.SetProperty != nil {
			handled, exception := def.SetProperty(rt, proxy, name, value)
			if exception != nil {
				panic(exception)
			}
			if handled {
				return true
			}
		}
		if sv, has := c.values[name]; has {
			if sv.SetProperty == nil || sv.Attributes.Has(PropertyAttributeReadOnly) {
				panic(rt.NewTypeError("Cannot assign to read only property '%s' of %s", name, c.Name()))
			}
			handled, exception := sv.SetProperty(rt, proxy, name, value)
			if exception != nil {
				panic(exception)
			}
			if handled {
				return true
			}
		}
		if fn := c.ownFunction(name); fn != nil && fn.Attributes.Has(PropertyAttributeReadOnly) {
			return false
		}
	}
	return host.ctx.reflect(host.ctx.intrinsics.set, host.target, rt.ToValue(name), value, receiver).ToBoolean()
}

func (host *hostObject) has(proxy *goja.Object, name string) bool {
	for c := host.class; c != nil; c = c.Parent() {
		if host.dynamicHas(c, proxy, name) {
			return true
		}
		if _, has := c.values[name]; has {
			return true
		}
		if c.ownFunction(name) != nil {
			return true
		}
	}
	return host.ctx.reflect(host.ctx.intrinsics.has, host.target, host.ctx.rt.ToValue(name)).ToBoolean()
}

func (host *hostObject) delete(proxy *goja.Object, name string) bool {
	for c := host.class; c != nil; c = c.Parent() {
		def := &c.definition
		if def.DeleteProperty != nil {
			deleted, exception := def.DeleteProperty(host.ctx.rt, proxy, name)
			if exception != nil {
				panic(exception)
			}
			if deleted {
				return true
			}
		}
		if sv, has := c.values[name]; has && sv.Attributes.Has(PropertyAttributeDontDelete) {
			return false
		}
		if fn := c.ownFunction(name); fn != nil && fn.Attributes.Has(PropertyAttributeDontDelete) {
			return false
		}
	}
	return host.ctx.reflect(host.ctx.intrinsics.deleteProperty, host.target, host.ctx.rt.ToValue(name)).ToBoolean()
}

// ownKeys the class property names followed by the target's own keys
func (host *hostObject) ownKeys(proxy *goja.Object) *goja.Object {
	rt := host.ctx.rt
	names := NewPropertyNameAccumulator()
	for c := host.class; c != nil; c = c.Parent() {
		def := &c.definition
		if def.GetPropertyNames != nil {
			def.GetPropertyNames(rt, proxy, names)
		}
		for _, sv := range def.StaticValues {
			names.Add(sv.Name)
		}
		if !c.automaticPrototype() {
			for _, fn := range def.StaticFunctions {
				names.Add(fn.Name)
			}
		}
	}

	keys := []interface{}{}
	for _, name := range names.Names() {
		keys = append(keys, name)
	}

	targetKeys := host.ctx.reflect(host.ctx.intrinsics.ownKeys, host.target).ToObject(rt)
	length := int(targetKeys.Get("length").ToInteger())
	for i := 0; i < length; i++ {
		key := targetKeys.Get(strconv.Itoa(i))
		if _, ok := key.(*goja.Symbol); !ok && names.Has(key.String()) {
			continue
		}
		keys = append(keys, key)
	}
	return rt.NewArray(keys...)
}

func (host *hostObject) ownPropertyDescriptor(proxy *goja.Object, name string) goja.Value {
	for c := host.class; c != nil; c = c.Parent() {
		if value := host.dynamicGet(c, proxy, name); value != nil {
			return host.descriptor(value, PropertyAttributeNone)
		}
		if sv, has := c.values[name]; has {
			if value := host.staticGet(sv, proxy); value != nil {
				return host.descriptor(value, sv.Attributes)
			}
		}
		if fn := c.ownFunction(name); fn != nil {
			return host.descriptor(host.ownFunction(fn), fn.Attributes)
		}
	}
	return host.ctx.reflect(host.ctx.intrinsics.getOwnPropertyDescriptor, host.target, host.ctx.rt.ToValue(name))
}

// descriptor class properties are reported configurable, the target never holds them
func (host *hostObject) descriptor(value goja.Value, attrs PropertyAttributes) goja.Value {
	desc := host.ctx.rt.NewObject()
	desc.Set("value", value)
	desc.Set("writable", !attrs.Has(PropertyAttributeReadOnly))
	desc.Set("enumerable", !attrs.Has(PropertyAttributeDontEnum))
	desc.Set("configurable", true)
	return desc
}

func (host *hostObject) callAsFunction(proxy *goja.Object, this goja.Value, args []goja.Value) goja.Value {
	rt := host.ctx.rt
	for c := host.class; c != nil; c = c.Parent() {
		if call := c.definition.CallAsFunction; call != nil {
			result, exception := call(rt, proxy, this, args)
			if exception != nil {
				panic(exception)
			}
			if result == nil {
				return goja.Undefined()
			}
			return result
		}
	}
	panic(rt.NewTypeError("%s is not a function", host.class.Name()))
}

func (host *hostObject) callAsConstructor(proxy *goja.Object, args []goja.Value) *goja.Object {
	rt := host.ctx.rt
	for c := host.class; c != nil; c = c.Parent() {
		if construct := c.definition.CallAsConstructor; construct != nil {
			obj, exception := construct(rt, proxy, args)
			if exception != nil {
				panic(exception)
			}
			if obj == nil {
				panic(rt.NewTypeError("%s constructor did not return an object", host.class.Name()))
			}
			return obj
		}
	}
	panic(rt.NewTypeError("%s is not a constructor", host.class.Name()))
}

// symbol well-known symbols backed by class callbacks, nil when the class chain does not provide one
func (host *hostObject) symbol(sym *goja.Symbol) goja.Value {
	switch sym {
	case goja.SymHasInstance:
		for c := host.class; c != nil; c = c.Parent() {
			if c.definition.HasInstance != nil {
				return host.ctx.hasInstanceFunction(c)
			}
		}
	case goja.SymToPrimitive:
		for c := host.class; c != nil; c = c.Parent() {
			if c.definition.ConvertToType != nil {
				return host.ctx.toPrimitiveFunction(host.class)
			}
		}
	}
	return nil
}

func (ctx *Context) hasInstanceFunction(class *Class) *goja.Object {
	cache := ctx.cache(class)
	if cache.hasInstance != nil {
		return cache.hasInstance
	}

	hasInstance := class.definition.HasInstance
	cache.hasInstance = ctx.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		constructor, _ := call.This.(*goja.Object)
		ok, exception := hasInstance(ctx.rt, constructor, call.Argument(0))
		if exception != nil {
			panic(exception)
		}
		return ctx.rt.ToValue(ok)
	}).ToObject(ctx.rt)
	return cache.hasInstance
}

// toPrimitiveFunction the hint "string" converts to string, every other hint to number
func (ctx *Context) toPrimitiveFunction(class *Class) *goja.Object {
	cache := ctx.cache(class)
	if cache.toPrimitive != nil {
		return cache.toPrimitive
	}

	cache.toPrimitive = ctx.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		obj, ok := call.This.(*goja.Object)
		if !ok {
			panic(ctx.rt.NewTypeError("Cannot convert a non-object"))
		}
		hint := call.Argument(0).String()
		typ := TypeNumber
		if hint == "string" {
			typ = TypeString
		}
		for c := class; c != nil; c = c.Parent() {
			if convert := c.definition.ConvertToType; convert != nil {
				value, exception := convert(ctx.rt, obj, typ)
				if exception != nil {
					panic(exception)
				}
				if value != nil {
					return value
				}
			}
		}
		return ctx.ordinaryToPrimitive(obj, hint)
	}).ToObject(ctx.rt)
	return cache.toPrimitive
}

func (ctx *Context) ordinaryToPrimitive(obj *goja.Object, hint string) goja.Value {
	methods := []string{"valueOf", "toString"}
	if hint == "string" {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		method, ok := goja.AssertFunction(obj.Get(name))
		if !ok {
			continue
		}
		result, err := method(obj)
		if err != nil {
			panic(err)
		}
		if _, isObject := result.(*goja.Object); !isObject {
			return result
		}
	}
	panic(ctx.rt.NewTypeError("Cannot convert object to primitive value"))
}

// reflect calls a Reflect intrinsic, exceptions are re-thrown into the running script
func (ctx *Context) reflect(fn goja.Callable, args ...goja.Value) goja.Value {
	result, err := fn(goja.Undefined(), args...)
	if err != nil {
		panic(err)
	}
	return result
}

// newHandler the Proxy handler shared by every class object of the context
func (ctx *Context) newHandler() *goja.Object {
	rt := ctx.rt
	handler := rt.NewObject()
	trap := func(name string, fn func(host *hostObject, proxy *goja.Object, call goja.FunctionCall) goja.Value, fallback goja.Callable) {
		handler.Set(name, func(call goja.FunctionCall) goja.Value {
			target := call.Argument(0).ToObject(rt)
			host := ctx.hostOfTarget(target)
			var proxy *goja.Object
			if host != nil {
				proxy = host.object()
			}
			if host == nil || proxy == nil {
				if fallback == nil {
					panic(rt.NewTypeError("object is no longer usable"))
				}
				return ctx.reflect(fallback, call.Arguments...)
			}
			return fn(host, proxy, call)
		})
	}

	trap("get", func(host *hostObject, proxy *goja.Object, call goja.FunctionCall) goja.Value {
		prop := call.Argument(1)
		if sym, ok := prop.(*goja.Symbol); ok {
			if value := host.symbol(sym); value != nil {
				return value
			}
			return ctx.reflect(ctx.intrinsics.get, call.Arguments...)
		}
		return host.get(proxy, prop.String(), call.Argument(2))
	}, ctx.intrinsics.get)

	trap("set", func(host *hostObject, proxy *goja.Object, call goja.FunctionCall) goja.Value {
		prop := call.Argument(1)
		if _, ok := prop.(*goja.Symbol); ok {
			return ctx.reflect(ctx.intrinsics.set, call.Arguments...)
		}
		return rt.ToValue(host.set(proxy, prop.String(), call.Argument(2), call.Argument(3)))
	}, ctx.intrinsics.set)

	trap("has", func(host *hostObject, proxy *goja.Object, call goja.FunctionCall) goja.Value {
		prop := call.Argument(1)
		if _, ok := prop.(*goja.Symbol); ok {
			return ctx.reflect(ctx.intrinsics.has, call.Arguments...)
		}
		return rt.ToValue(host.has(proxy, prop.String()))
	}, ctx.intrinsics.has)

	trap("deleteProperty", func(host *hostObject, proxy *goja.Object, call goja.FunctionCall) goja.Value {
		prop := call.Argument(1)
		if _, ok := prop.(*goja.Symbol); ok {
			return ctx.reflect(ctx.intrinsics.deleteProperty, call.Arguments...)
		}
		return rt.ToValue(host.delete(proxy, prop.String()))
	}, ctx.intrinsics.deleteProperty)

	trap("ownKeys", func(host *hostObject, proxy *goja.Object, call goja.FunctionCall) goja.Value {
		return host.ownKeys(proxy)
	}, ctx.intrinsics.ownKeys)

	trap("getOwnPropertyDescriptor", func(host *hostObject, proxy *goja.Object, call goja.FunctionCall) goja.Value {
		prop := call.Argument(1)
		if _, ok := prop.(*goja.Symbol); ok {
			return ctx.reflect(ctx.intrinsics.getOwnPropertyDescriptor, call.Arguments...)
		}
		return host.ownPropertyDescriptor(proxy, prop.String())
	}, ctx.intrinsics.getOwnPropertyDescriptor)

	trap("apply", func(host *hostObject, proxy *goja.Object, call goja.FunctionCall) goja.Value {
		return host.callAsFunction(proxy, call.Argument(1), ctx.arrayItems(call.Argument(2)))
	}, nil)

	trap("construct", func(host *hostObject, proxy *goja.Object, call goja.FunctionCall) goja.Value {
		return host.callAsConstructor(proxy, ctx.arrayItems(call.Argument(1)))
	}, nil)

	return handler
}

func (ctx *Context) arrayItems(v goja.Value) []goja.Value {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	length := int(obj.Get("length").ToInteger())
	items := make([]goja.Value, length)
	for i := range items {
		items[i] = obj.Get(strconv.Itoa(i))
	}
	return items
}

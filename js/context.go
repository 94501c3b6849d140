package js

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"weak"

	"github.com/dop251/goja"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/yaoapp/kun/log"
)

// Context a script execution context. A context must be used by one goroutine at a time;
// only object finalization may run concurrently.
type Context struct {
	id         string
	group      *ContextGroup
	rt         *goja.Runtime
	mu         locker
	hosts      map[weak.Pointer[goja.Object]]*hostObject
	targets    map[weak.Pointer[goja.Object]]*hostObject
	classes    map[*Class]*classCache
	sequence   uint64
	counters   counters
	released   bool
	intrinsics intrinsics
}

// intrinsics captured when the context is created, scripts replacing the globals do not affect them
type intrinsics struct {
	proxy                    *goja.Object
	handler                  *goja.Object
	get                      goja.Callable
	set                      goja.Callable
	has                      goja.Callable
	deleteProperty           goja.Callable
	ownKeys                  goja.Callable
	getOwnPropertyDescriptor goja.Callable
	instanceOf               goja.Callable
	stringify                goja.Callable
	parse                    goja.Callable
}

var contextsMu = newLocker()
var contexts = map[*goja.Runtime]*Context{}

// NewContext create a context in the default group
func NewContext() *Context {
	return DefaultGroup().NewContext()
}

func newContext(group *ContextGroup) *Context {
	ctx := &Context{
		id:      uuid.New().String(),
		group:   group,
		rt:      goja.New(),
		mu:      newLocker(),
		hosts:   map[weak.Pointer[goja.Object]]*hostObject{},
		targets: map[weak.Pointer[goja.Object]]*hostObject{},
		classes: map[*Class]*classCache{},
	}
	ctx.loadIntrinsics()

	contextsMu.Lock()
	contexts[ctx.rt] = ctx
	contextsMu.Unlock()
	return ctx
}

// findContext the context owning the runtime
func findContext(rt *goja.Runtime) *Context {
	contextsMu.Lock()
	defer contextsMu.Unlock()
	return contexts[rt]
}

func (ctx *Context) loadIntrinsics() {
	rt := ctx.rt
	function := func(obj *goja.Object, name string) goja.Callable {
		fn, ok := goja.AssertFunction(obj.Get(name))
		if !ok {
			panic(fmt.Sprintf("%s is not a function", name))
		}
		return fn
	}

	reflect := rt.Get("Reflect").ToObject(rt)
	ctx.intrinsics.get = function(reflect, "get")
	ctx.intrinsics.set = function(reflect, "set")
	ctx.intrinsics.has = function(reflect, "has")
	ctx.intrinsics.deleteProperty = function(reflect, "deleteProperty")
	ctx.intrinsics.ownKeys = function(reflect, "ownKeys")
	ctx.intrinsics.getOwnPropertyDescriptor = function(reflect, "getOwnPropertyDescriptor")

	json := rt.Get("JSON").ToObject(rt)
	ctx.intrinsics.stringify = function(json, "stringify")
	ctx.intrinsics.parse = function(json, "parse")

	instanceOf, err := rt.RunString("(function (value, constructor) { return value instanceof constructor; })")
	if err != nil {
		panic(err)
	}
	ctx.intrinsics.instanceOf, _ = goja.AssertFunction(instanceOf)

	ctx.intrinsics.proxy = rt.Get("Proxy").ToObject(rt)
	ctx.intrinsics.handler = ctx.newHandler()
}

// ID the context identity
func (ctx *Context) ID() string {
	return ctx.id
}

// Group the context group
func (ctx *Context) Group() *ContextGroup {
	return ctx.group
}

// Runtime the underlying engine runtime
func (ctx *Context) Runtime() *goja.Runtime {
	return ctx.rt
}

func (ctx *Context) value(v goja.Value) Value {
	if v == nil {
		v = goja.Undefined()
	}
	return Value{ctx: ctx, ref: v}
}

func (ctx *Context) object(obj *goja.Object) Object {
	return Object{Value: Value{ctx: ctx, ref: obj}, obj: obj}
}

func (ctx *Context) values(refs []goja.Value) []Value {
	values := make([]Value, len(refs))
	for i, ref := range refs {
		values[i] = ctx.value(ref)
	}
	return values
}

// GlobalObject the global object
func (ctx *Context) GlobalObject() Object {
	return ctx.object(ctx.rt.GlobalObject())
}

// CreateUndefined create the undefined value
func (ctx *Context) CreateUndefined() Value {
	return ctx.value(goja.Undefined())
}

// CreateNull create the null value
func (ctx *Context) CreateNull() Value {
	return ctx.value(goja.Null())
}

// CreateBool create a boolean
func (ctx *Context) CreateBool(b bool) Value {
	return ctx.value(ctx.rt.ToValue(b))
}

// CreateNumber create a number
func (ctx *Context) CreateNumber(n float64) Value {
	return ctx.value(ctx.rt.ToValue(n))
}

// CreateString create a string
func (ctx *Context) CreateString(s string) Value {
	return ctx.value(ctx.rt.ToValue(s))
}

// CreateValue converts a Go value with the engine's default mapping
func (ctx *Context) CreateValue(v interface{}) Value {
	if value, ok := v.(Value); ok {
		return value
	}
	return ctx.value(ctx.rt.ToValue(v))
}

// CreateObject create a plain object
func (ctx *Context) CreateObject() Object {
	return ctx.object(ctx.rt.NewObject())
}

// CreateArray create an array
func (ctx *Context) CreateArray(values ...Value) Object {
	items := make([]interface{}, len(values))
	for i, v := range values {
		items[i] = v.ref
	}
	return ctx.object(ctx.rt.NewArray(items...))
}

// CreateError create an Error object
func (ctx *Context) CreateError(message string) Object {
	var obj *goja.Object
	err := try(func() {
		obj, _ = ctx.rt.New(ctx.rt.Get("Error"), ctx.rt.ToValue(message))
	})
	if err != nil || obj == nil {
		obj = ctx.rt.NewObject()
		obj.Set("name", "Error")
		obj.Set("message", message)
	}
	return ctx.object(obj)
}

// CreateFunction create a native function
func (ctx *Context) CreateFunction(name string, fn func(this Value, args []Value) (Value, error)) Object {
	component := fmt.Sprintf("Context::CreateFunction (%s)", name)
	function := ctx.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		result, err := fn(ctx.value(call.This), ctx.values(call.Arguments))
		if err != nil {
			panic(newScriptError(ctx.rt, err, component))
		}
		if result.ref == nil {
			return goja.Undefined()
		}
		return result.ref
	}).ToObject(ctx.rt)
	function.DefineDataProperty("name", ctx.rt.ToValue(name), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	return ctx.object(function)
}

// CreateValueFromJSON parse a JSON string
func (ctx *Context) CreateValueFromJSON(json string) (Value, error) {
	v, err := ctx.intrinsics.parse(goja.Undefined(), ctx.rt.ToValue(json))
	if err != nil {
		return Value{}, toRuntimeError(err)
	}
	return ctx.value(v), nil
}

// CreateObjectOfClass create an object of the class, the class chain is initialized base class first.
// The object is callable when the class chain has a CallAsFunction callback.
func (ctx *Context) CreateObjectOfClass(class *Class) (Object, error) {
	return ctx.createObjectOfClass(class, false)
}

// CreateConstructorOfClass create an object of the class that can be used in new expressions
func (ctx *Context) CreateConstructorOfClass(class *Class) (Object, error) {
	return ctx.createObjectOfClass(class, true)
}

func (ctx *Context) createObjectOfClass(class *Class, constructor bool) (Object, error) {
	if ctx.isReleased() {
		return Object{}, ErrReleased
	}

	host := ctx.newHostObject(class, constructor)
	proxy := host.object()
	err := try(func() {
		chain := []*Class{}
		for c := class; c != nil; c = c.Parent() {
			chain = append(chain, c)
		}
		for i := len(chain) - 1; i >= 0; i-- {
			if initialize := chain[i].definition.Initialize; initialize != nil {
				initialize(ctx.rt, proxy)
			}
		}
	})
	if err != nil {
		return Object{}, err
	}
	return ctx.object(proxy), nil
}

// Evaluate a script
func (ctx *Context) Evaluate(script string, sourceURL string) (Value, error) {
	if ctx.isReleased() {
		return Value{}, ErrReleased
	}

	var result goja.Value
	var runErr error
	err := try(func() {
		result, runErr = ctx.rt.RunScript(sourceURL, script)
	})
	if err != nil {
		return Value{}, err
	}
	if runErr != nil {
		return Value{}, toRuntimeError(runErr)
	}
	return ctx.value(result), nil
}

// EvaluateContext evaluate a script, the evaluation is interrupted when c is done
func (ctx *Context) EvaluateContext(c context.Context, script string, sourceURL string) (Value, error) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-c.Done():
			ctx.rt.Interrupt(c.Err().Error())
		case <-done:
		}
	}()

	value, err := ctx.Evaluate(script, sourceURL)
	close(done)
	<-exited
	ctx.rt.ClearInterrupt()
	return value, err
}

// CheckSyntax compile the script without running it
func (ctx *Context) CheckSyntax(script string, sourceURL string) error {
	_, err := goja.Compile(sourceURL, script, false)
	if err != nil {
		return &RuntimeError{Name: "SyntaxError", Message: err.Error(), FileName: sourceURL}
	}
	return nil
}

// FindObject the newest object of the context the private data is attached to
func (ctx *Context) FindObject(private any) (Object, bool) {
	host := privates.lookup(private, ctx)
	if host == nil {
		return Object{}, false
	}
	obj := host.object()
	if obj == nil {
		return Object{}, false
	}
	return ctx.object(obj), true
}

// GarbageCollect request a collection, objects no longer referenced are finalized asynchronously
func (ctx *Context) GarbageCollect() {
	log.Trace("[JS] context %s garbage collect, %d live objects", ctx.id, ctx.Stats().Alive)
	runtime.GC()
}

// Stats the object lifecycle counters of the context
func (ctx *Context) Stats() Stats {
	return ctx.counters.stats()
}

// Release finalize every live class object of the context exactly once and detach the context
func (ctx *Context) Release() error {
	ctx.mu.Lock()
	if ctx.released {
		ctx.mu.Unlock()
		return nil
	}
	ctx.released = true
	hosts := make([]*hostObject, 0, len(ctx.hosts))
	for _, host := range ctx.hosts {
		hosts = append(hosts, host)
	}
	ctx.mu.Unlock()

	sort.Slice(hosts, func(i, j int) bool { return hosts[i].seq < hosts[j].seq })

	var errs error
	for _, host := range hosts {
		if err := host.finalize(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	contextsMu.Lock()
	delete(contexts, ctx.rt)
	contextsMu.Unlock()
	if ctx.group != nil {
		ctx.group.remove(ctx)
	}

	log.Trace("[JS] context %s released, %d objects finalized", ctx.id, len(hosts))
	return errs
}

func (ctx *Context) isReleased() bool {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.released
}

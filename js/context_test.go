package js

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepare(t *testing.T) *Context {
	ctx := NewContextGroup().NewContext()
	t.Cleanup(func() { ctx.Release() })
	return ctx
}

func evaluate(t *testing.T, ctx *Context, script string) Value {
	v, err := ctx.Evaluate(script, "test.js")
	require.NoError(t, err)
	return v
}

func TestEvaluate(t *testing.T) {
	ctx := prepare(t)

	v := evaluate(t, ctx, `1 + 2`)
	assert.Equal(t, TypeNumber, v.Type())
	n, err := v.ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.Equal(t, TypeString, evaluate(t, ctx, `"a" + "b"`).Type())
	assert.Equal(t, TypeBoolean, evaluate(t, ctx, `1 < 2`).Type())
	assert.True(t, evaluate(t, ctx, `undefined`).IsUndefined())
	assert.True(t, evaluate(t, ctx, `null`).IsNull())
	assert.True(t, evaluate(t, ctx, `({})`).IsObject())
	assert.Equal(t, TypeSymbol, evaluate(t, ctx, `Symbol("s")`).Type())
}

func TestEvaluateError(t *testing.T) {
	ctx := prepare(t)

	_, err := ctx.Evaluate("var x = 1;\nthrow new TypeError(\"boom\");", "errors.js")
	require.Error(t, err)

	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "TypeError", rerr.Name)
	assert.Equal(t, "boom", rerr.Message)
	assert.Equal(t, "errors.js", rerr.FileName)
	assert.Equal(t, 2, rerr.LineNumber)
	assert.NotEmpty(t, rerr.Stack)
	assert.Contains(t, rerr.Error(), "TypeError: boom (errors.js:2)")

	_, err = ctx.Evaluate(`throw "plain"`, "plain.js")
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "plain", rerr.Message)
}

func TestEvaluateContext(t *testing.T) {
	ctx := prepare(t)

	c, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ctx.EvaluateContext(c, `for (;;) {}`, "loop.js")
	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "InterruptedError", rerr.Name)

	n, err := evaluate(t, ctx, `40 + 2`).ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestCheckSyntax(t *testing.T) {
	ctx := prepare(t)
	assert.NoError(t, ctx.CheckSyntax(`var a = 1`, "ok.js"))

	err := ctx.CheckSyntax(`var = ;`, "bad.js")
	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "SyntaxError", rerr.Name)
	assert.Equal(t, "bad.js", rerr.FileName)
}

func TestJSON(t *testing.T) {
	ctx := prepare(t)

	v, err := ctx.CreateValueFromJSON(`{"a":[1,2],"b":"c"}`)
	require.NoError(t, err)
	json, err := v.ToJSON(0)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2],"b":"c"}`, json)

	_, err = ctx.CreateValueFromJSON(`{a:`)
	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "SyntaxError", rerr.Name)

	json, err = ctx.CreateUndefined().ToJSON(0)
	require.NoError(t, err)
	assert.Equal(t, "", json)
}

func TestCreateValues(t *testing.T) {
	ctx := prepare(t)

	assert.True(t, ctx.CreateBool(true).ToBool())
	s, err := ctx.CreateString("text").ToString()
	require.NoError(t, err)
	assert.Equal(t, "text", s)
	assert.True(t, ctx.CreateNull().IsNull())
	assert.Equal(t, TypeNumber, ctx.CreateValue(7).Type())

	arr := ctx.CreateArray(ctx.CreateNumber(1), ctx.CreateString("two"))
	assert.True(t, arr.IsArray())
	item, err := arr.GetIndex(1)
	require.NoError(t, err)
	assert.Equal(t, "two", item.String())

	e := ctx.CreateError("failed")
	assert.True(t, e.IsError())
	msg, err := e.Get("message")
	require.NoError(t, err)
	assert.Equal(t, "failed", msg.String())

	eq, err := ctx.CreateNumber(1).Equals(ctx.CreateString("1"))
	require.NoError(t, err)
	assert.True(t, eq)
	assert.False(t, ctx.CreateNumber(1).StrictEquals(ctx.CreateString("1")))
}

func TestCreateFunction(t *testing.T) {
	ctx := prepare(t)

	add := ctx.CreateFunction("add", func(this Value, args []Value) (Value, error) {
		var sum float64
		for _, arg := range args {
			n, err := arg.ToNumber()
			if err != nil {
				return Value{}, err
			}
			sum += n
		}
		return ctx.CreateNumber(sum), nil
	})
	fail := ctx.CreateFunction("fail", func(this Value, args []Value) (Value, error) {
		return Value{}, errors.New("not today")
	})

	global := ctx.GlobalObject()
	require.NoError(t, global.Set("add", add.Value))
	require.NoError(t, global.Set("fail", fail.Value))

	assert.Equal(t, "6|add", evaluate(t, ctx, `[add(1, 2, 3), add.name].join("|")`).String())

	v := evaluate(t, ctx, `(function () { try { fail() } catch (e) { return e.message + "|" + e.component } })()`)
	assert.Equal(t, "not today|Context::CreateFunction (fail)", v.String())

	result, err := add.Call(Value{}, ctx.CreateNumber(2), ctx.CreateNumber(5))
	require.NoError(t, err)
	n, _ := result.ToInt()
	assert.Equal(t, int64(7), n)

	_, err = fail.Call(Value{})
	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "not today", rerr.Message)
	assert.Equal(t, "Context::CreateFunction (fail)", rerr.Component)
}

func TestObject(t *testing.T) {
	ctx := prepare(t)

	obj := ctx.CreateObject()
	require.NoError(t, obj.Set("a", ctx.CreateNumber(1)))
	require.NoError(t, obj.Set("hidden", ctx.CreateNumber(2), PropertyAttributeDontEnum|PropertyAttributeDontDelete))

	has, err := obj.Has("hidden")
	require.NoError(t, err)
	assert.True(t, has)

	names, err := obj.PropertyNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)

	deleted, err := obj.Delete("hidden")
	require.NoError(t, err)
	assert.False(t, deleted)
	deleted, err = obj.Delete("a")
	require.NoError(t, err)
	assert.True(t, deleted)

	props, err := obj.Properties()
	require.NoError(t, err)
	assert.Empty(t, props)

	assert.False(t, obj.SetPrivate("data"))
	assert.Nil(t, obj.Private())
	assert.Nil(t, obj.Class())
	assert.False(t, obj.IsFunction())

	date, err := evaluate(t, ctx, `Date`).ToObject()
	require.NoError(t, err)
	assert.True(t, date.IsConstructor())
	instance, err := date.CallAsConstructor(ctx.CreateNumber(0))
	require.NoError(t, err)
	ok, err := instance.InstanceOf(date)
	require.NoError(t, err)
	assert.True(t, ok)

	proto := ctx.CreateObject()
	require.NoError(t, proto.Set("inherited", ctx.CreateString("yes")))
	require.NoError(t, obj.SetPrototype(proto))
	v, err := obj.Get("inherited")
	require.NoError(t, err)
	assert.Equal(t, "yes", v.String())
	assert.True(t, obj.Prototype().StrictEquals(proto.Value))
}

func TestContextRelease(t *testing.T) {
	group := NewContextGroup()
	a := group.NewContext()
	b := group.NewContext()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Same(t, group, a.Group())
	assert.Len(t, group.Contexts(), 2)

	require.NoError(t, a.Release())
	require.NoError(t, a.Release())
	assert.Len(t, group.Contexts(), 1)

	_, err := a.Evaluate(`1`, "released.js")
	assert.ErrorIs(t, err, ErrReleased)
	_, err = a.CreateObjectOfClass(&Class{definition: ClassDefinition{Name: "A"}})
	assert.ErrorIs(t, err, ErrReleased)

	require.NoError(t, group.Release())
	assert.Empty(t, group.Contexts())
	assert.Nil(t, findContext(b.Runtime()))
}

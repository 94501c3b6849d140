package jsapi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/hal/js"
)

func prepare(t *testing.T) (*js.Context, *js.Registry) {
	ctx := js.NewContextGroup().NewContext()
	registry, err := Install(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Release() })
	return ctx, registry
}

func evaluate(t *testing.T, ctx *js.Context, script string) js.Value {
	v, err := ctx.Evaluate(script, "test.js")
	require.NoError(t, err)
	return v
}

func TestCounter(t *testing.T) {
	ctx, registry := prepare(t)

	v := evaluate(t, ctx, `var c = new Counter(); c.increment(); c.increment(); c.count`)
	n, err := v.ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	v = evaluate(t, ctx, `var d = new Counter(10); d.increment(5); d.count = d.count * 2; d.count`)
	n, _ = v.ToInt()
	assert.Equal(t, int64(30), n)

	v = evaluate(t, ctx, `d.reset(); d.count`)
	n, _ = v.ToInt()
	assert.Equal(t, int64(0), n)

	obj, err := evaluate(t, ctx, `c`).ToObject()
	require.NoError(t, err)
	class, has := js.Lookup[*Counter](registry)
	require.True(t, has)
	counter, ok := class.Native(obj)
	require.True(t, ok)
	assert.Equal(t, int64(2), counter.Count())

	owner, ok := counter.Object()
	require.True(t, ok)
	assert.True(t, owner.StrictEquals(obj.Value))

	assert.True(t, evaluate(t, ctx, `c instanceof Counter`).ToBool())
	assert.False(t, evaluate(t, ctx, `({}) instanceof Counter`).ToBool())
}

func TestCounterInvalid(t *testing.T) {
	ctx, _ := prepare(t)

	_, err := ctx.Evaluate(`new Counter("many")`, "invalid.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Counter start must be a number")

	v := evaluate(t, ctx, `
		var c = new Counter();
		var message = "";
		try { c.count = "ten" } catch (e) { message = e.message + "|" + e.component }
		message`)
	assert.Contains(t, v.String(), "count must be a number")
	assert.Contains(t, v.String(), "ExportClass<jsapi.Counter>::SetNamedProperty (count)")
}

func TestWidget(t *testing.T) {
	ctx, _ := prepare(t)

	v := evaluate(t, ctx, `var w = new Widget("Ada", 7); w.sayHello()`)
	assert.Equal(t, "Hello, my name is Ada. My favorite number is 7.", v.String())

	v = evaluate(t, ctx, `w.name = "Grace"; w.number = 3; w.sayHello()`)
	assert.Equal(t, "Hello, my name is Grace. My favorite number is 3.", v.String())

	v = evaluate(t, ctx, `w + 1`)
	n, _ := v.ToNumber()
	assert.Equal(t, float64(4), n)

	assert.Equal(t, "Grace", evaluate(t, ctx, `String(w)`).String())
	assert.Equal(t, "Grace!", evaluate(t, ctx, "`${w}!`").String())

	v = evaluate(t, ctx, `
		var result;
		try { w.pi = 3; result = "assigned" } catch (e) { result = e.name }
		result + ":" + (w.pi > 3.14)`)
	assert.Equal(t, "TypeError:true", v.String())

	assert.Equal(t, `name,number`, evaluate(t, ctx, `Object.keys(w).join(",")`).String())
}

func TestStore(t *testing.T) {
	ctx, registry := prepare(t)

	v := evaluate(t, ctx, `
		var s = new Store();
		s.color = "blue";
		s.size2 = 2;
		[("color" in s), s.color, s.size, Object.keys(s).join(",")].join("|")`)
	assert.Equal(t, "true|blue|2|color,size2", v.String())

	v = evaluate(t, ctx, `delete s.color; [("color" in s), s.size, s.keys().join(",")].join("|")`)
	assert.Equal(t, "false|1|size2", v.String())

	v = evaluate(t, ctx, `var failed = false; try { s.size = 10 } catch (e) { failed = e instanceof TypeError }; failed`)
	assert.True(t, v.ToBool())

	obj, _ := evaluate(t, ctx, `s`).ToObject()
	class, _ := js.Lookup[*Store](registry)
	store, ok := class.Native(obj)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"size2": int64(2)}, store.Values())

	v = evaluate(t, ctx, `s.clear(); JSON.stringify(s)`)
	assert.Equal(t, "{}", v.String())
}

func TestConsole(t *testing.T) {
	ctx, _ := prepare(t)

	var buf bytes.Buffer
	saved := Output
	Output = &buf
	defer func() { Output = saved }()

	evaluate(t, ctx, `console.log("hello", 1, {a: 1}); console.warn("careful"); console("called")`)
	assert.Equal(t, "hello 1 {\"a\":1}\ncareful\ncalled\n", buf.String())
}

func TestRegisterTwice(t *testing.T) {
	registry := js.NewRegistry()
	require.NoError(t, Register(registry))
	assert.ErrorIs(t, Register(registry), js.ErrInvalidArgument)
	assert.Len(t, registry.Describe(), 4)
}

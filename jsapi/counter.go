package jsapi

import (
	"fmt"

	"github.com/spf13/cast"
	"github.com/yaoapp/hal/js"
)

// Counter an integer counter
//
//	const c = new Counter()   // or new Counter(10)
//	c.increment()             // 1
//	c.count = 5
//	c.reset()
type Counter struct {
	js.ExportObject
	count int64
}

func newCounter(ctx *js.Context) *Counter {
	return &Counter{}
}

// PostCallAsConstructor new Counter(start) seeds the count
func (c *Counter) PostCallAsConstructor(ctx *js.Context, args []js.Value) error {
	if len(args) == 0 || args[0].IsUndefined() {
		return nil
	}
	start, err := cast.ToInt64E(args[0].Export())
	if err != nil {
		return fmt.Errorf("Counter start must be a number, got %s", args[0].String())
	}
	c.count = start
	return nil
}

// Count the current count
func (c *Counter) Count() int64 {
	return c.count
}

func (c *Counter) getCount() (js.Value, error) {
	return c.Context().CreateNumber(float64(c.count)), nil
}

func (c *Counter) setCount(value js.Value) (bool, error) {
	count, err := cast.ToInt64E(value.Export())
	if err != nil {
		return false, fmt.Errorf("count must be a number, got %s", value.String())
	}
	c.count = count
	return true, nil
}

func (c *Counter) increment(args []js.Value, this js.Object) (js.Value, error) {
	step := int64(1)
	if len(args) > 0 && !args[0].IsUndefined() {
		var err error
		step, err = cast.ToInt64E(args[0].Export())
		if err != nil {
			return js.Value{}, fmt.Errorf("increment step must be a number, got %s", args[0].String())
		}
	}
	c.count += step
	return c.Context().CreateNumber(float64(c.count)), nil
}

func (c *Counter) reset(args []js.Value, this js.Object) (js.Value, error) {
	c.count = 0
	return c.Context().CreateUndefined(), nil
}

func registerCounter(registry *js.Registry) error {
	builder := js.NewClassBuilder("Counter", newCounter).SetVersion(1)
	if err := builder.AddValueProperty("count", (*Counter).getCount, (*Counter).setCount, true); err != nil {
		return err
	}
	if err := builder.AddFunctionProperty("increment", (*Counter).increment, true); err != nil {
		return err
	}
	if err := builder.AddFunctionProperty("reset", (*Counter).reset, true); err != nil {
		return err
	}
	_, err := js.Register(registry, builder)
	return err
}

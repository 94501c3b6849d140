package jsapi

import (
	"fmt"
	"math"

	"github.com/spf13/cast"
	"github.com/yaoapp/hal/js"
)

// Widget a named widget with a favorite number. Converted to a number it is its number,
// converted to a string it is its name.
//
//	const w = new Widget("Ada", 7)
//	w.sayHello()  // "Hello, my name is Ada. My favorite number is 7."
//	w.pi          // read only
type Widget struct {
	js.ExportObject
	name   string
	number int64
}

func newWidget(ctx *js.Context) *Widget {
	return &Widget{name: "world", number: 42}
}

// PostCallAsConstructor new Widget(name, number)
func (w *Widget) PostCallAsConstructor(ctx *js.Context, args []js.Value) error {
	if len(args) > 0 && !args[0].IsUndefined() {
		w.name = args[0].String()
	}
	if len(args) > 1 && !args[1].IsUndefined() {
		number, err := cast.ToInt64E(args[1].Export())
		if err != nil {
			return fmt.Errorf("Widget number must be a number, got %s", args[1].String())
		}
		w.number = number
	}
	return nil
}

func (w *Widget) getName() (js.Value, error) {
	return w.Context().CreateString(w.name), nil
}

func (w *Widget) setName(value js.Value) (bool, error) {
	name, err := value.ToString()
	if err != nil {
		return false, err
	}
	w.name = name
	return true, nil
}

func (w *Widget) getNumber() (js.Value, error) {
	return w.Context().CreateNumber(float64(w.number)), nil
}

func (w *Widget) setNumber(value js.Value) (bool, error) {
	number, err := cast.ToInt64E(value.Export())
	if err != nil {
		return false, fmt.Errorf("number must be a number, got %s", value.String())
	}
	w.number = number
	return true, nil
}

func (w *Widget) getPi() (js.Value, error) {
	return w.Context().CreateNumber(math.Pi), nil
}

func (w *Widget) sayHello(args []js.Value, this js.Object) (js.Value, error) {
	return w.Context().CreateString(fmt.Sprintf("Hello, my name is %s. My favorite number is %d.", w.name, w.number)), nil
}

func (w *Widget) convert(typ js.Type) (js.Value, bool, error) {
	switch typ {
	case js.TypeNumber:
		return w.Context().CreateNumber(float64(w.number)), true, nil
	case js.TypeString:
		return w.Context().CreateString(w.name), true, nil
	}
	return js.Value{}, false, nil
}

func registerWidget(registry *js.Registry) error {
	builder := js.NewClassBuilder("Widget", newWidget).
		SetVersion(1).
		SetConvertToTypeCallback((*Widget).convert)

	if err := builder.AddValueProperty("name", (*Widget).getName, (*Widget).setName, true); err != nil {
		return err
	}
	if err := builder.AddValueProperty("number", (*Widget).getNumber, (*Widget).setNumber, true); err != nil {
		return err
	}
	if err := builder.AddValueProperty("pi", (*Widget).getPi, nil, false); err != nil {
		return err
	}
	if err := builder.AddFunctionProperty("sayHello", (*Widget).sayHello, true); err != nil {
		return err
	}
	_, err := js.Register(registry, builder)
	return err
}

package jsapi

import (
	"github.com/yaoapp/hal/js"
)

// Usage from JavaScript:
//
//	const c = new Counter(1)
//	c.increment()
//	const w = new Widget("Ada", 7)
//	console.log(w.sayHello())
//	const s = new Store()
//	s.color = "blue"
//
// Objects:
//   - Counter: an integer counter
//   - Widget: a named widget with a favorite number
//   - Store: a key-value bag backed by a Go map
//   - Console: console.log & friends, forwarded to the log

// Register the exported classes of the package
func Register(registry *js.Registry) error {
	registers := []func(*js.Registry) error{
		registerCounter,
		registerWidget,
		registerStore,
		registerConsole,
	}
	for _, register := range registers {
		if err := register(registry); err != nil {
			return err
		}
	}
	return nil
}

// Install create a registry holding the package classes and bind them to the context globals.
// The console is installed as the lowercase global console.
func Install(ctx *js.Context) (*js.Registry, error) {
	registry := js.NewRegistry()
	if err := Register(registry); err != nil {
		return nil, err
	}
	if err := registry.Install(ctx); err != nil {
		return nil, err
	}

	console, err := ctx.GlobalObject().Get("Console")
	if err != nil {
		return nil, err
	}
	if err := ctx.GlobalObject().Set("console", console, js.PropertyAttributeDontEnum); err != nil {
		return nil, err
	}
	return registry, nil
}

package jsapi

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yaoapp/hal/js"
	"github.com/yaoapp/kun/log"
)

// Output the console output
var Output io.Writer = os.Stdout

// Console console.log & friends. Every line is written to Output and to the log;
// calling the console itself is console.log.
type Console struct {
	js.ExportObject
}

func newConsole(ctx *js.Context) *Console {
	return &Console{}
}

func format(args []js.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		if arg.IsObject() {
			if json, err := arg.ToJSON(0); err == nil && json != "" {
				parts[i] = json
				continue
			}
		}
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}

func (c *Console) print(level string, args []js.Value) (js.Value, error) {
	line := format(args)
	fmt.Fprintln(Output, line)
	switch level {
	case "error":
		log.Error("[console] %s", line)
	case "warn":
		log.Warn("[console] %s", line)
	case "debug":
		log.Debug("[console] %s", line)
	default:
		log.Info("[console] %s", line)
	}
	return c.Context().CreateUndefined(), nil
}

func (c *Console) call(args []js.Value, this js.Object) (js.Value, error) {
	return c.print("info", args)
}

func registerConsole(registry *js.Registry) error {
	builder := js.NewClassBuilder("Console", newConsole).
		SetClassAttribute(js.ClassAttributeNoAutomaticPrototype).
		SetCallAsFunctionCallback((*Console).call)

	for _, level := range []string{"log", "info", "warn", "error", "debug"} {
		level := level
		fn := func(c *Console, args []js.Value, this js.Object) (js.Value, error) {
			return c.print(level, args)
		}
		if err := builder.AddFunctionProperty(level, fn, true); err != nil {
			return err
		}
	}
	_, err := js.Register(registry, builder)
	return err
}

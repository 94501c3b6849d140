package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/yaoapp/hal/config"
	"github.com/yaoapp/hal/js"
	"github.com/yaoapp/hal/jsapi"
	"github.com/yaoapp/kun/log"
)

// Result the outcome of a script evaluation
type Result struct {
	Output string
	Stats  js.Stats
}

// loadScript read the script source, TypeScript sources are transformed with esbuild
func loadScript(file string, transform bool) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(filepath.Ext(file), ".ts") {
		return string(data), nil
	}
	if !transform {
		return "", fmt.Errorf("%s: TypeScript transform is disabled", file)
	}

	result := api.Transform(string(data), api.TransformOptions{
		Loader:     api.LoaderTS,
		Target:     api.ES2017,
		Sourcefile: file,
	})
	if len(result.Errors) > 0 {
		messages := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return "", fmt.Errorf("transform %s: %s", file, strings.TrimSpace(strings.Join(messages, "\n")))
	}
	return string(result.Code), nil
}

// evalScript run the script in a new context with the jsapi classes installed
func evalScript(file string, cfg config.Script) (*Result, error) {
	source, err := loadScript(file, cfg.Transform)
	if err != nil {
		return nil, err
	}

	ctx := js.NewContext()
	defer func() {
		if err := ctx.Release(); err != nil {
			log.Error("[RUN] release %s: %s", file, err.Error())
		}
	}()

	if _, err := jsapi.Install(ctx); err != nil {
		return nil, err
	}

	c := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		c, cancel = context.WithTimeout(c, cfg.Timeout)
		defer cancel()
	}

	log.Trace("[RUN] %s", file)
	value, err := ctx.EvaluateContext(c, source, file)
	if err != nil {
		return nil, err
	}

	output, err := format(value)
	if err != nil {
		return nil, err
	}
	return &Result{Output: output, Stats: ctx.Stats()}, nil
}

// format the script result, objects are printed as indented JSON
func format(value js.Value) (string, error) {
	if !value.IsObject() {
		return value.ToString()
	}

	obj, err := value.ToObject()
	if err != nil {
		return "", err
	}
	if obj.IsFunction() {
		return value.ToString()
	}
	return value.ToJSON(2)
}

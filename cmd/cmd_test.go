package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/hal/config"
	"github.com/yaoapp/hal/js"
	"github.com/yaoapp/hal/jsapi"
	"gopkg.in/yaml.v3"
)

func write(t *testing.T, name string, source string) string {
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(source), 0644))
	return file
}

func TestLoadScript(t *testing.T) {
	file := write(t, "main.ts", `const n: number = 2; const s: string = "x"; s + n`)

	source, err := loadScript(file, true)
	require.NoError(t, err)
	assert.NotContains(t, source, ": number")

	_, err = loadScript(file, false)
	assert.Error(t, err)

	bad := write(t, "bad.ts", `const n: = ;`)
	_, err = loadScript(bad, true)
	assert.Error(t, err)

	plain := write(t, "main.js", `1 + 1`)
	source, err = loadScript(plain, false)
	require.NoError(t, err)
	assert.Equal(t, `1 + 1`, source)

	_, err = loadScript(filepath.Join(t.TempDir(), "missing.js"), true)
	assert.Error(t, err)
}

func TestEvalScript(t *testing.T) {
	file := write(t, "counter.ts", `
const c: Counter = new Counter(3)
c.increment()
const w = new Widget("Ada", 7)
;({ count: c.count, hello: w.sayHello() })
`)

	res, err := evalScript(file, config.Script{Transform: true, Timeout: 5 * time.Second})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal([]byte(res.Output), &out))
	assert.Equal(t, float64(4), out["count"])
	assert.Equal(t, "Hello, my name is Ada. My favorite number is 7.", out["hello"])
	assert.Equal(t, int64(2), res.Stats.Alive-int64(len(jsapiClasses(t))))

	file = write(t, "text.js", `"plain " + 1`)
	res, err = evalScript(file, config.Script{})
	require.NoError(t, err)
	assert.Equal(t, "plain 1", res.Output)
}

func TestEvalScriptTimeout(t *testing.T) {
	file := write(t, "loop.js", `for (;;) {}`)
	_, err := evalScript(file, config.Script{Timeout: 50 * time.Millisecond})

	var rerr *js.RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "InterruptedError", rerr.Name)
}

func jsapiClasses(t *testing.T) []js.ClassInfo {
	registry := js.NewRegistry()
	require.NoError(t, jsapi.Register(registry))
	return registry.Describe()
}

func TestRender(t *testing.T) {
	classes := jsapiClasses(t)

	var buf bytes.Buffer
	require.NoError(t, render(&buf, classes, "json", false))
	var decoded []js.ClassInfo
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, classes, decoded)

	buf.Reset()
	require.NoError(t, render(&buf, classes, "yaml", false))
	decoded = nil
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, classes, decoded)

	buf.Reset()
	require.NoError(t, render(&buf, classes, "toml", false))
	var doc struct {
		Classes []js.ClassInfo `toml:"classes"`
	}
	_, err := toml.Decode(buf.String(), &doc)
	require.NoError(t, err)
	assert.Equal(t, classes, doc.Classes)

	buf.Reset()
	require.NoError(t, render(&buf, classes, "text", false))
	assert.Contains(t, buf.String(), "Counter (version 1, None)")
	assert.Contains(t, buf.String(), "increment()")
	assert.Contains(t, buf.String(), "callbacks: Initialize, Finalize")

	assert.Error(t, render(&buf, classes, "xml", false))
}

func TestL(t *testing.T) {
	assert.Equal(t, "Show version", L("Show version"))
	lang = "zh-CN"
	defer func() { lang = "" }()
	assert.Equal(t, "显示当前版本号", L("Show version"))
	assert.Equal(t, "untranslated", L("untranslated"))
}

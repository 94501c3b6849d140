package js

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// ErrInvalidArgument a registration or argument defect
var ErrInvalidArgument = errors.New("invalid argument")

// ErrReleased the context was released
var ErrReleased = errors.New("context released")

// RuntimeError a script exception surfaced to Go
type RuntimeError struct {
	Name       string
	Message    string
	FileName   string
	LineNumber int
	Stack      []string
	Component  string
}

func (err *RuntimeError) Error() string {
	name := err.Name
	if name == "" {
		name = "Error"
	}

	msg := fmt.Sprintf("%s: %s", name, err.Message)
	if err.FileName != "" {
		msg = fmt.Sprintf("%s (%s:%d)", msg, err.FileName, err.LineNumber)
	}
	if err.Component != "" {
		msg = fmt.Sprintf("%s [%s]", msg, err.Component)
	}
	return msg
}

var stackFrame = regexp.MustCompile(`([^\s()]+):(\d+):(\d+)`)

func newRuntimeError(value goja.Value) *RuntimeError {
	err := &RuntimeError{Name: "Error"}
	if value == nil {
		err.Message = "undefined"
		return err
	}

	obj, ok := value.(*goja.Object)
	if !ok {
		err.Message = value.String()
		return err
	}

	err.Name = stringProperty(obj, "name", "Error")
	err.Message = stringProperty(obj, "message", "")
	err.FileName = stringProperty(obj, "fileName", "")
	err.Component = stringProperty(obj, "component", "")
	if line := obj.Get("lineNumber"); defined(line) {
		err.LineNumber = int(line.ToInteger())
	}
	if err.Message == "" && obj.Get("message") == nil {
		err.Message = value.String()
	}

	if native, ok := obj.Get("nativeStack").(*goja.Object); ok {
		length := int(native.Get("length").ToInteger())
		for i := 0; i < length; i++ {
			err.Stack = append(err.Stack, native.Get(strconv.Itoa(i)).String())
		}
	} else if stack := obj.Get("stack"); defined(stack) {
		err.Stack = parseStack(stack.String())
	}

	if err.FileName == "" {
		for _, frame := range err.Stack {
			match := stackFrame.FindStringSubmatch(frame)
			if match == nil || match[1] == "native" {
				continue
			}
			err.FileName = match[1]
			err.LineNumber, _ = strconv.Atoi(match[2])
			break
		}
	}
	return err
}

// parseStack returns the "at ..." frames of a script stack string
func parseStack(stack string) []string {
	frames := []string{}
	for _, line := range strings.Split(stack, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "at ") {
			continue
		}
		frames = append(frames, strings.TrimPrefix(line, "at "))
	}
	return frames
}

func stringProperty(obj *goja.Object, name string, fallback string) string {
	v := obj.Get(name)
	if !defined(v) {
		return fallback
	}
	return v.String()
}

func defined(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}

// toRuntimeError converts an error returned by the engine
func toRuntimeError(err error) *RuntimeError {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &RuntimeError{Name: "InterruptedError", Message: fmt.Sprint(interrupted.Value())}
	}

	var exc *goja.Exception
	if errors.As(err, &exc) {
		return newRuntimeError(exc.Value())
	}

	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr
	}
	return &RuntimeError{Name: "Error", Message: err.Error()}
}

// catch converts a recovered engine panic, anything else is re-raised
func catch(r interface{}) *RuntimeError {
	switch v := r.(type) {
	case *goja.InterruptedError:
		return toRuntimeError(v)
	case *goja.Exception:
		return toRuntimeError(v)
	case *RuntimeError:
		return v
	case goja.Value:
		return newRuntimeError(v)
	}
	panic(r)
}

// try runs fn and returns the script exception it raised, if any
func try(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = catch(r)
		}
	}()
	fn()
	return nil
}

package js

import (
	"fmt"
	"reflect"

	"github.com/yaoapp/kun/log"
)

// Registry the exported classes of an application, keyed by Go type. Populate it once at startup.
type Registry struct {
	mu      locker
	classes map[reflect.Type]exported
	names   map[string]reflect.Type
	order   []reflect.Type
}

type exported interface {
	Class() *Class
	Name() string
}

// NewRegistry create an empty registry
func NewRegistry() *Registry {
	return &Registry{
		mu:      newLocker(),
		classes: map[reflect.Type]exported{},
		names:   map[string]reflect.Type{},
	}
}

// Register build the class of T and add it to the registry. A type or class name registers once.
func Register[T Native](registry *Registry, builder *ClassBuilder[T]) (*ExportClass[T], error) {
	typ := reflect.TypeFor[T]()

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, has := registry.classes[typ]; has {
		return nil, fmt.Errorf("%w: %s already registered", ErrInvalidArgument, typ)
	}

	def, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if _, has := registry.names[def.Name()]; has {
		return nil, fmt.Errorf("%w: class %s already registered", ErrInvalidArgument, def.Name())
	}

	ec, err := NewExportClass(def)
	if err != nil {
		return nil, err
	}

	registry.classes[typ] = ec
	registry.names[def.Name()] = typ
	registry.order = append(registry.order, typ)
	log.Trace("[EXPORT] %s registered as %s", typ, def.Name())
	return ec, nil
}

// MustRegister like Register, panics on error
func MustRegister[T Native](registry *Registry, builder *ClassBuilder[T]) *ExportClass[T] {
	ec, err := Register(registry, builder)
	if err != nil {
		panic(err)
	}
	return ec
}

// Lookup the exported class of T
func Lookup[T Native](registry *Registry) (*ExportClass[T], bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	ec, has := registry.classes[reflect.TypeFor[T]()]
	if !has {
		return nil, false
	}
	return ec.(*ExportClass[T]), true
}

// Class the class registered under the name
func (registry *Registry) Class(name string) (*Class, bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	typ, has := registry.names[name]
	if !has {
		return nil, false
	}
	return registry.classes[typ].Class(), true
}

// Classes the registered classes in registration order
func (registry *Registry) Classes() []*Class {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	classes := make([]*Class, 0, len(registry.order))
	for _, typ := range registry.order {
		classes = append(classes, registry.classes[typ].Class())
	}
	return classes
}

// Describe the registered classes in registration order
func (registry *Registry) Describe() []ClassInfo {
	classes := registry.Classes()
	infos := make([]ClassInfo, 0, len(classes))
	for _, class := range classes {
		infos = append(infos, class.Describe())
	}
	return infos
}

// Install bind a constructor object of every registered class to the global object, under the class name
func (registry *Registry) Install(ctx *Context) error {
	global := ctx.GlobalObject()
	for _, class := range registry.Classes() {
		constructor, err := ctx.CreateConstructorOfClass(class)
		if err != nil {
			return fmt.Errorf("install %s: %w", class.Name(), err)
		}
		if err := global.Set(class.Name(), constructor.Value, PropertyAttributeDontEnum); err != nil {
			return fmt.Errorf("install %s: %w", class.Name(), err)
		}
	}
	return nil
}

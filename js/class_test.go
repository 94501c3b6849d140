package js

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(value string) GetPropertyCallback {
	return func(rt *goja.Runtime, object *goja.Object, name string) (goja.Value, goja.Value) {
		return rt.ToValue(value), nil
	}
}

func greet(rt *goja.Runtime, name string, function *goja.Object, this goja.Value, args []goja.Value) (goja.Value, goja.Value) {
	return rt.ToValue("hello from " + name), nil
}

func TestNewClass(t *testing.T) {
	def := ClassDefinition{
		Name:    "Base",
		Version: 1,
		StaticValues: []StaticValue{
			{Name: "kind", GetProperty: constant("base"), Attributes: PropertyAttributeReadOnly | PropertyAttributeDontDelete},
		},
		StaticFunctions: []StaticFunction{
			{Name: "greet", CallAsFunction: greet},
		},
	}
	class, err := NewClass(def)
	require.NoError(t, err)
	assert.Equal(t, "Base", class.Name())
	assert.Equal(t, uint32(1), class.Version())
	assert.Nil(t, class.Parent())
	assert.Equal(t, ClassAttributeNone, class.Attributes())

	// the class keeps its own copy of the tables
	def.StaticValues[0].Name = "changed"
	assert.Equal(t, "kind", class.Definition().StaticValues[0].Name)

	info := class.Describe()
	assert.Equal(t, "Base", info.Name)
	assert.Equal(t, "None", info.Attributes)
	require.Len(t, info.Values, 1)
	assert.Equal(t, PropertyInfo{Name: "kind", Attributes: "ReadOnly|DontDelete", Getter: true}, info.Values[0])
	require.Len(t, info.Functions, 1)
	assert.Equal(t, "greet", info.Functions[0].Name)
	assert.Empty(t, info.Callbacks)

	derived, err := NewClass(ClassDefinition{Name: "Derived", Parent: class, Attributes: ClassAttributeNoAutomaticPrototype})
	require.NoError(t, err)
	assert.Same(t, class, derived.Parent())
	assert.Equal(t, "Base", derived.Describe().Parent)
	assert.False(t, derived.automaticPrototype())
}

func TestNewClassInvalid(t *testing.T) {
	tests := map[string]ClassDefinition{
		"empty name":        {},
		"unnamed value":     {Name: "A", StaticValues: []StaticValue{{GetProperty: constant("a")}}},
		"value no accessor": {Name: "A", StaticValues: []StaticValue{{Name: "a"}}},
		"duplicate value": {Name: "A", StaticValues: []StaticValue{
			{Name: "a", GetProperty: constant("a")},
			{Name: "a", GetProperty: constant("b")},
		}},
		"function no callback": {Name: "A", StaticFunctions: []StaticFunction{{Name: "f"}}},
		"duplicate function": {Name: "A", StaticFunctions: []StaticFunction{
			{Name: "f", CallAsFunction: greet},
			{Name: "f", CallAsFunction: greet},
		}},
	}

	for name, def := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewClass(def)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestPropertyNameAccumulator(t *testing.T) {
	names := NewPropertyNameAccumulator()
	names.Add("b")
	names.Add("a")
	names.Add("b")
	assert.Equal(t, 2, names.Len())
	assert.True(t, names.Has("a"))
	assert.False(t, names.Has("c"))
	assert.Equal(t, []string{"b", "a"}, names.Names())
}

func TestPrivateTable(t *testing.T) {
	table := newPrivateTable()
	ctx := &Context{}
	first := &hostObject{ctx: ctx}
	second := &hostObject{ctx: ctx}
	data := &struct{ n int }{1}

	assert.Nil(t, table.set(first, data))
	token := first.token
	assert.Equal(t, 0, token.index())
	assert.Equal(t, uint32(1), token.generation())
	assert.Same(t, data, table.get(first))
	assert.Same(t, first, table.lookup(data, ctx))

	table.set(second, data)
	assert.Equal(t, 2, table.refs(data))
	assert.Same(t, second, table.lookup(data, ctx))
	assert.Nil(t, table.lookup(data, &Context{}))

	released, ok := table.release(first)
	require.True(t, ok)
	assert.Same(t, data, released)
	assert.Equal(t, privateToken(0), first.token)
	assert.Equal(t, 1, table.refs(data))
	_, ok = table.release(first)
	assert.False(t, ok)

	// the freed slot is reused with a new generation, the old token no longer resolves
	third := &hostObject{ctx: ctx}
	table.set(third, "text")
	assert.Equal(t, 0, third.token.index())
	assert.Equal(t, uint32(2), third.token.generation())
	assert.Nil(t, table.slot(token))
	assert.Equal(t, "text", table.get(third))

	previous := table.set(third, 42)
	assert.Equal(t, "text", previous)
	assert.Equal(t, 0, table.refs("text"))
	assert.Equal(t, 1, table.refs(42))

	// unhashable data is stored but never resolved back
	table.set(second, []int{1})
	assert.Equal(t, 0, table.refs(data))
	assert.Nil(t, table.lookup([]int{1}, ctx))
	assert.Equal(t, []int{1}, table.get(second))
}

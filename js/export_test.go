package js

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

type probe struct {
	ExportObject
	rec       *recorder
	label     string
	finalized atomic.Int32
}

func newProbe(rec *recorder) func(ctx *Context) *probe {
	return func(ctx *Context) *probe { return &probe{rec: rec} }
}

func (p *probe) PostInitialize(object Object) {
	p.rec.events = append(p.rec.events, "PostInitialize")
}

func (p *probe) PostCallAsConstructor(ctx *Context, args []Value) error {
	p.rec.events = append(p.rec.events, "PostCallAsConstructor")
	if len(args) > 0 {
		p.label = args[0].String()
	}
	return nil
}

func (p *probe) Finalize() {
	p.finalized.Add(1)
}

func getLabel(p *probe) (Value, error) {
	if p.label == "" {
		return Value{}, nil
	}
	return p.Context().CreateString(p.label), nil
}

func setLabel(p *probe, value Value) (bool, error) {
	p.label = value.String()
	return true, nil
}

func describe(p *probe, args []Value, this Object) (Value, error) {
	s := p.label
	for _, arg := range args {
		s += "," + arg.String()
	}
	return p.Context().CreateString(s), nil
}

func TestPropertyAttributes(t *testing.T) {
	assert.Equal(t, "None", PropertyAttributeNone.String())
	assert.Equal(t, "ReadOnly|DontDelete", (PropertyAttributeReadOnly | PropertyAttributeDontDelete).String())
	assert.Equal(t, "ReadOnly|DontEnum|DontDelete", (PropertyAttributeReadOnly | PropertyAttributeDontEnum | PropertyAttributeDontDelete).String())
	assert.True(t, (PropertyAttributeReadOnly | PropertyAttributeDontEnum).Has(PropertyAttributeDontEnum))
	assert.False(t, PropertyAttributeReadOnly.Has(PropertyAttributeReadOnly|PropertyAttributeDontEnum))
	assert.Equal(t, "NoAutomaticPrototype", ClassAttributeNoAutomaticPrototype.String())
	assert.Equal(t, "number", TypeNumber.String())
	assert.Equal(t, "unknown", Type(42).String())
}

func TestNewNamedValuePropertyCallback(t *testing.T) {
	tests := []struct {
		name  string
		prop  string
		get   GetNamedValuePropertyCallback[*probe]
		set   SetNamedValuePropertyCallback[*probe]
		attrs PropertyAttributes
		valid bool
	}{
		{"read write", "label", getLabel, setLabel, PropertyAttributeDontDelete, true},
		{"read only", "label", getLabel, nil, PropertyAttributeReadOnly, true},
		{"write only", "label", nil, setLabel, PropertyAttributeNone, true},
		{"empty name", "", getLabel, setLabel, PropertyAttributeNone, false},
		{"no accessor", "label", nil, nil, PropertyAttributeReadOnly, false},
		{"read only with setter", "label", getLabel, setLabel, PropertyAttributeReadOnly, false},
		{"missing read only", "label", getLabel, nil, PropertyAttributeNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, err := NewNamedValuePropertyCallback(tt.prop, tt.get, tt.set, tt.attrs)
			if !tt.valid {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.prop, cb.Name())
			assert.Equal(t, tt.attrs, cb.Attributes())
			assert.Equal(t, tt.get == nil, cb.Getter() == nil)
			assert.Equal(t, tt.set == nil, cb.Setter() == nil)
		})
	}
}

func TestNamedValuePropertyCallbackEqual(t *testing.T) {
	a, err := NewNamedValuePropertyCallback("label", getLabel, setLabel, PropertyAttributeNone)
	require.NoError(t, err)
	b, err := NewNamedValuePropertyCallback("label", getLabel, setLabel, PropertyAttributeNone)
	require.NoError(t, err)
	c, err := NewNamedValuePropertyCallback("label", getLabel, nil, PropertyAttributeReadOnly)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestNewNamedFunctionPropertyCallback(t *testing.T) {
	cb, err := NewNamedFunctionPropertyCallback("describe", describe, PropertyAttributeDontEnum)
	require.NoError(t, err)
	assert.Equal(t, "describe", cb.Name())
	assert.Equal(t, PropertyAttributeReadOnly|PropertyAttributeDontEnum|PropertyAttributeDontDelete, cb.Attributes())
	assert.NotNil(t, cb.Callback())

	other, err := NewNamedFunctionPropertyCallback("describe", describe, PropertyAttributeNone)
	require.NoError(t, err)
	assert.False(t, cb.Equal(other))

	_, err = NewNamedFunctionPropertyCallback("", describe, PropertyAttributeNone)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewNamedFunctionPropertyCallback[*probe]("describe", nil, PropertyAttributeNone)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestClassBuilder(t *testing.T) {
	builder := NewClassBuilder("Probe", newProbe(&recorder{}))
	builder.SetVersion(3).SetClassAttribute(ClassAttributeNoAutomaticPrototype)
	assert.Equal(t, "Probe", builder.ClassName())
	assert.Equal(t, uint32(3), builder.Version())
	assert.Equal(t, ClassAttributeNoAutomaticPrototype, builder.ClassAttribute())
	assert.Nil(t, builder.Parent())

	require.NoError(t, builder.AddValueProperty("label", getLabel, setLabel, true))
	require.NoError(t, builder.AddValueProperty("hidden", getLabel, nil, false))
	require.NoError(t, builder.AddFunctionProperty("describe", describe, false))

	err := builder.AddValueProperty("label", getLabel, nil, false)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	err = builder.AddFunctionProperty("describe", describe, true)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	err = builder.AddValueProperty("", getLabel, nil, true)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	def, err := builder.Build()
	require.NoError(t, err)
	assert.Equal(t, "Probe", def.Name())
	assert.Equal(t, uint32(3), def.Version())
	assert.Equal(t, ClassAttributeNoAutomaticPrototype, def.Attributes())

	label, has := def.ValueProperty("label")
	require.True(t, has)
	assert.Equal(t, PropertyAttributeDontDelete, label.Attributes())
	assert.NotNil(t, label.Setter())

	hidden, has := def.ValueProperty("hidden")
	require.True(t, has)
	assert.Equal(t, PropertyAttributeReadOnly|PropertyAttributeDontEnum|PropertyAttributeDontDelete, hidden.Attributes())

	fn, has := def.FunctionProperty("describe")
	require.True(t, has)
	assert.Equal(t, PropertyAttributeReadOnly|PropertyAttributeDontEnum|PropertyAttributeDontDelete, fn.Attributes())

	values := def.ValueProperties()
	require.Len(t, values, 2)
	assert.Equal(t, "hidden", values[0].Name())
	assert.Equal(t, "label", values[1].Name())
	assert.Len(t, def.FunctionProperties(), 1)

	// the definition does not see later additions
	require.NoError(t, builder.AddValueProperty("late", getLabel, nil, true))
	_, has = def.ValueProperty("late")
	assert.False(t, has)
}

func TestClassBuilderBuildInvalid(t *testing.T) {
	_, err := NewClassBuilder("", newProbe(&recorder{})).Build()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewClassBuilder[*probe]("Probe", nil).Build()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExportClassDefinition(t *testing.T) {
	builder := NewClassBuilder("Probe", newProbe(&recorder{})).SetVersion(2)
	require.NoError(t, builder.AddValueProperty("label", getLabel, setLabel, true))
	require.NoError(t, builder.AddValueProperty("const", getLabel, nil, true))
	require.NoError(t, builder.AddFunctionProperty("describe", describe, true))

	def, err := builder.Build()
	require.NoError(t, err)
	ec, err := NewExportClass(def)
	require.NoError(t, err)

	table := ec.ClassDefinition()
	assert.Equal(t, "Probe", table.Name)
	assert.Equal(t, uint32(2), table.Version)
	assert.NotNil(t, table.Initialize)
	assert.NotNil(t, table.Finalize)
	assert.NotNil(t, table.CallAsConstructor)
	assert.NotNil(t, table.HasInstance)
	assert.Nil(t, table.HasProperty)
	assert.Nil(t, table.GetProperty)
	assert.Nil(t, table.SetProperty)
	assert.Nil(t, table.DeleteProperty)
	assert.Nil(t, table.GetPropertyNames)
	assert.Nil(t, table.CallAsFunction)
	assert.Nil(t, table.ConvertToType)

	require.Len(t, table.StaticValues, 2)
	assert.Equal(t, "const", table.StaticValues[0].Name)
	assert.Nil(t, table.StaticValues[0].SetProperty)
	assert.Equal(t, "label", table.StaticValues[1].Name)
	assert.NotNil(t, table.StaticValues[1].SetProperty)
	require.Len(t, table.StaticFunctions, 1)
	assert.Equal(t, "describe", table.StaticFunctions[0].Name)

	builder.SetGetPropertyCallback(func(p *probe, name string) (Value, bool, error) { return Value{}, false, nil })
	def, err = builder.Build()
	require.NoError(t, err)
	ec, err = NewExportClass(def)
	require.NoError(t, err)
	assert.NotNil(t, ec.ClassDefinition().GetProperty)
	assert.Equal(t, "Probe", ec.Class().Name())

	info := ec.Class().Describe()
	assert.Equal(t, []string{"Initialize", "Finalize", "GetProperty", "CallAsConstructor", "HasInstance"}, info.Callbacks)
}

func TestComponentName(t *testing.T) {
	assert.Equal(t, "ExportClass<jsapi.Counter>::SetNamedProperty (count)", componentName("jsapi.Counter", "SetNamedProperty", "count"))
	assert.Equal(t, "ExportClass<js.probe>::Initialize", componentName("js.probe", "Initialize", ""))
	assert.Equal(t, "js.probe", typeName[*probe]())
}

package js

// PropertyNameAccumulator collects the names of dynamic properties. Duplicates are ignored.
type PropertyNameAccumulator struct {
	names []string
	seen  map[string]struct{}
}

// NewPropertyNameAccumulator create an empty accumulator
func NewPropertyNameAccumulator() *PropertyNameAccumulator {
	return &PropertyNameAccumulator{seen: map[string]struct{}{}}
}

// Add a property name
func (acc *PropertyNameAccumulator) Add(name string) {
	if _, has := acc.seen[name]; has {
		return
	}
	acc.seen[name] = struct{}{}
	acc.names = append(acc.names, name)
}

// Has reports whether the name was added
func (acc *PropertyNameAccumulator) Has(name string) bool {
	_, has := acc.seen[name]
	return has
}

// Names the added names in insertion order
func (acc *PropertyNameAccumulator) Names() []string {
	return append([]string(nil), acc.names...)
}

// Len the number of names
func (acc *PropertyNameAccumulator) Len() int {
	return len(acc.names)
}

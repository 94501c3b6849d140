package jsapi

import (
	"sort"
	"sync"

	"github.com/yaoapp/hal/js"
)

// Store a key-value bag. Any property that is not one of its own members is stored in a Go map.
//
//	const s = new Store()
//	s.color = "blue"
//	"color" in s     // true
//	delete s.color
//	s.keys()         // []
type Store struct {
	js.ExportObject
	mu     sync.Mutex
	values map[string]interface{}
}

var storeMembers = map[string]bool{"size": true, "keys": true, "clear": true}

func newStore(ctx *js.Context) *Store {
	return &Store{values: map[string]interface{}{}}
}

// Values a copy of the stored values
func (s *Store) Values() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return values
}

func (s *Store) has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, has := s.values[name]
	return has
}

func (s *Store) get(name string) (js.Value, bool, error) {
	s.mu.Lock()
	value, has := s.values[name]
	s.mu.Unlock()
	if !has {
		return js.Value{}, false, nil
	}
	return s.Context().CreateValue(value), true, nil
}

func (s *Store) set(name string, value js.Value) (bool, error) {
	if storeMembers[name] {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value.Export()
	return true, nil
}

func (s *Store) delete(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, has := s.values[name]; !has {
		return false, nil
	}
	delete(s.values, name)
	return true, nil
}

func (s *Store) names(names *js.PropertyNameAccumulator) {
	for _, name := range s.sortedKeys() {
		names.Add(name)
	}
}

func (s *Store) sortedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) getSize() (js.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Context().CreateNumber(float64(len(s.values))), nil
}

func (s *Store) keys(args []js.Value, this js.Object) (js.Value, error) {
	ctx := s.Context()
	items := []js.Value{}
	for _, k := range s.sortedKeys() {
		items = append(items, ctx.CreateString(k))
	}
	return ctx.CreateArray(items...).Value, nil
}

func (s *Store) clear(args []js.Value, this js.Object) (js.Value, error) {
	s.mu.Lock()
	s.values = map[string]interface{}{}
	s.mu.Unlock()
	return s.Context().CreateUndefined(), nil
}

func registerStore(registry *js.Registry) error {
	builder := js.NewClassBuilder("Store", newStore).
		SetHasPropertyCallback((*Store).has).
		SetGetPropertyCallback((*Store).get).
		SetSetPropertyCallback((*Store).set).
		SetDeletePropertyCallback((*Store).delete).
		SetGetPropertyNamesCallback((*Store).names)

	if err := builder.AddValueProperty("size", (*Store).getSize, nil, false); err != nil {
		return err
	}
	if err := builder.AddFunctionProperty("keys", (*Store).keys, false); err != nil {
		return err
	}
	if err := builder.AddFunctionProperty("clear", (*Store).clear, false); err != nil {
		return err
	}
	_, err := js.Register(registry, builder)
	return err
}

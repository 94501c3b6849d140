package js

import (
	"reflect"
	"sync/atomic"
)

// privateToken identifies a slot of the private data table: generation << 32 | index + 1.
// The zero token means no private data.
type privateToken uint64

func newPrivateToken(index uint32, generation uint32) privateToken {
	return privateToken(uint64(generation)<<32 | uint64(index+1))
}

func (token privateToken) index() int {
	return int(uint32(token)) - 1
}

func (token privateToken) generation() uint32 {
	return uint32(token >> 32)
}

type privateSlot struct {
	data       any
	owner      *hostObject
	generation uint32
	used       bool
}

// association the objects a native value is attached to, newest last
type association struct {
	owners []*hostObject
}

// privateTable the process-wide private data table. Hosts hold a token, the table holds the data,
// and the reverse map resolves a native value back to its objects.
type privateTable struct {
	mu      locker
	slots   []privateSlot
	free    []uint32
	reverse map[any]*association
}

var privates = newPrivateTable()

func newPrivateTable() *privateTable {
	return &privateTable{mu: newLocker(), reverse: map[any]*association{}}
}

// set attaches data to the host and returns the data it replaces
func (table *privateTable) set(host *hostObject, data any) (previous any) {
	table.mu.Lock()
	defer table.mu.Unlock()

	if slot := table.slot(host.token); slot != nil {
		previous = slot.data
		table.unlink(previous, host)
		slot.data = data
		table.link(data, host)
		return previous
	}

	var index uint32
	if n := len(table.free); n > 0 {
		index = table.free[n-1]
		table.free = table.free[:n-1]
	} else {
		table.slots = append(table.slots, privateSlot{})
		index = uint32(len(table.slots) - 1)
	}

	slot := &table.slots[index]
	slot.generation++
	slot.used = true
	slot.data = data
	slot.owner = host
	host.token = newPrivateToken(index, slot.generation)
	table.link(data, host)
	return nil
}

func (table *privateTable) get(host *hostObject) any {
	table.mu.Lock()
	defer table.mu.Unlock()
	if slot := table.slot(host.token); slot != nil {
		return slot.data
	}
	return nil
}

// release frees the host's slot and returns its data
func (table *privateTable) release(host *hostObject) (any, bool) {
	table.mu.Lock()
	defer table.mu.Unlock()

	slot := table.slot(host.token)
	if slot == nil {
		return nil, false
	}

	data := slot.data
	table.unlink(data, host)
	slot.data = nil
	slot.owner = nil
	slot.used = false
	table.free = append(table.free, uint32(host.token.index()))
	host.token = 0
	return data, true
}

// lookup the newest live object of the context the data is attached to
func (table *privateTable) lookup(data any, ctx *Context) *hostObject {
	if !hashable(data) {
		return nil
	}

	table.mu.Lock()
	defer table.mu.Unlock()
	assoc, has := table.reverse[data]
	if !has {
		return nil
	}
	for i := len(assoc.owners) - 1; i >= 0; i-- {
		if assoc.owners[i].ctx == ctx {
			return assoc.owners[i]
		}
	}
	return nil
}

// refs the number of objects the data is attached to
func (table *privateTable) refs(data any) int {
	if !hashable(data) {
		return 0
	}
	table.mu.Lock()
	defer table.mu.Unlock()
	if assoc, has := table.reverse[data]; has {
		return len(assoc.owners)
	}
	return 0
}

func (table *privateTable) slot(token privateToken) *privateSlot {
	if token == 0 {
		return nil
	}
	index := token.index()
	if index < 0 || index >= len(table.slots) {
		return nil
	}
	slot := &table.slots[index]
	if !slot.used || slot.generation != token.generation() {
		return nil
	}
	return slot
}

func (table *privateTable) link(data any, host *hostObject) {
	if !hashable(data) {
		return
	}
	assoc, has := table.reverse[data]
	if !has {
		assoc = &association{}
		table.reverse[data] = assoc
	}
	assoc.owners = append(assoc.owners, host)
}

func (table *privateTable) unlink(data any, host *hostObject) {
	if !hashable(data) {
		return
	}
	assoc, has := table.reverse[data]
	if !has {
		return
	}
	for i, owner := range assoc.owners {
		if owner == host {
			assoc.owners = append(assoc.owners[:i], assoc.owners[i+1:]...)
			break
		}
	}
	if len(assoc.owners) == 0 {
		delete(table.reverse, data)
	}
}

func hashable(data any) bool {
	return data != nil && reflect.TypeOf(data).Comparable()
}

// Stats object lifecycle counters
type Stats struct {
	Created   int64 `json:"created" yaml:"created" toml:"created"`
	Alive     int64 `json:"alive" yaml:"alive" toml:"alive"`
	Finalized int64 `json:"finalized" yaml:"finalized" toml:"finalized"`
}

type counters struct {
	created   atomic.Int64
	finalized atomic.Int64
}

func (c *counters) stats() Stats {
	created := c.created.Load()
	finalized := c.finalized.Load()
	return Stats{Created: created, Alive: created - finalized, Finalized: finalized}
}

var globalCounters counters

// GlobalStats the lifecycle counters of every class object in the process
func GlobalStats() Stats {
	return globalCounters.stats()
}

package js

import (
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/yaoapp/kun/log"
)

// ContextGroup owns a set of contexts. Objects may be exchanged between the contexts of a group.
type ContextGroup struct {
	id       string
	mu       locker
	contexts []*Context
}

var defaultGroup *ContextGroup
var defaultGroupOnce sync.Once

// NewContextGroup create an empty context group
func NewContextGroup() *ContextGroup {
	return &ContextGroup{id: uuid.New().String(), mu: newLocker()}
}

// DefaultGroup the process-wide context group
func DefaultGroup() *ContextGroup {
	defaultGroupOnce.Do(func() { defaultGroup = NewContextGroup() })
	return defaultGroup
}

// ID the group identity
func (group *ContextGroup) ID() string {
	return group.id
}

// NewContext create a context in the group
func (group *ContextGroup) NewContext() *Context {
	ctx := newContext(group)
	group.mu.Lock()
	group.contexts = append(group.contexts, ctx)
	group.mu.Unlock()
	log.Trace("[JS] context %s created in group %s", ctx.id, group.id)
	return ctx
}

// Contexts the live contexts of the group
func (group *ContextGroup) Contexts() []*Context {
	group.mu.Lock()
	defer group.mu.Unlock()
	return append([]*Context(nil), group.contexts...)
}

// Release every context of the group
func (group *ContextGroup) Release() error {
	var errs error
	for _, ctx := range group.Contexts() {
		if err := ctx.Release(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

func (group *ContextGroup) remove(ctx *Context) {
	group.mu.Lock()
	defer group.mu.Unlock()
	for i, c := range group.contexts {
		if c == ctx {
			group.contexts = append(group.contexts[:i], group.contexts[i+1:]...)
			return
		}
	}
}

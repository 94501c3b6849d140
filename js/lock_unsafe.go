//go:build hal_nothreadsafe

package js

// ThreadSafe the shared tables are not guarded, objects are finalized when their context is released
const ThreadSafe = false

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

func newLocker() locker {
	return nopLocker{}
}

//go:build !hal_nothreadsafe

package js

import "sync"

// ThreadSafe the shared tables are guarded and collected objects are finalized by the Go runtime
const ThreadSafe = true

func newLocker() locker {
	return &sync.Mutex{}
}

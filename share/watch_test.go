package share

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(file, []byte("1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.js"), []byte("1"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, file, func(op string, file string) { events <- file })
	}()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.js"), []byte("2"), 0644))
	require.NoError(t, os.WriteFile(file, []byte("2"), 0644))

	select {
	case name := <-events:
		assert.Equal(t, file, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for the watched file")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchOp(t *testing.T) {
	tests := map[fsnotify.Op]string{
		fsnotify.Write:                   "write",
		fsnotify.Create:                  "create",
		fsnotify.Create | fsnotify.Write: "write",
		fsnotify.Remove:                  "remove",
		fsnotify.Rename | fsnotify.Chmod: "rename",
		fsnotify.Chmod:                   "chmod",
	}
	for o, name := range tests {
		for i := 0; i < 10; i++ {
			assert.Equal(t, name, op(o), o.String())
		}
	}
}

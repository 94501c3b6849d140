package share

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/yaoapp/kun/log"
)

// watchOps the reported name of an event, the first matching flag wins
var watchOps = []struct {
	flag fsnotify.Op
	name string
}{
	{fsnotify.Write, "write"},
	{fsnotify.Create, "create"},
	{fsnotify.Remove, "remove"},
	{fsnotify.Rename, "rename"},
	{fsnotify.Chmod, "chmod"},
}

// WatchDebounce events of a file arriving within the window are reported once
var WatchDebounce = 100 * time.Millisecond

// Watch a file until ctx is done. The directory is watched so editors that replace the file on save are followed.
func Watch(ctx context.Context, file string, cb func(op string, file string)) error {
	file, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return err
	}
	color.Green("Watching: %s", file)

	var timer *time.Timer
	var last fsnotify.Op
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			color.Green("Stop Watching: %s", file)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != file || event.Op == fsnotify.Chmod {
				continue
			}
			last = event.Op
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(WatchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			cb(op(last), file)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("[WATCH] %s: %s", file, err.Error())
		}
	}
}

func op(o fsnotify.Op) string {
	for _, w := range watchOps {
		if o.Has(w.flag) {
			return w.name
		}
	}
	return o.String()
}

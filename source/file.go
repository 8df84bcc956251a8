/*
NAME
  file.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// GrowthWatcher tracks a regular file's size as it is appended to (a
// recording still being written by another process while this reader
// catches up on it), notifying onGrow with the new size on every write
// event instead of polling os.Stat in a loop.
type GrowthWatcher struct {
	watcher *fsnotify.Watcher
	onGrow  func(size int64)
	exit    atomic.Bool
	done    chan struct{}
}

// WatchGrowth opens path's containing directory with fsnotify and
// reports its size to onGrow whenever path is written to. Watching the
// directory rather than the file itself survives editors/writers that
// replace the file instead of appending in place.
func WatchGrowth(path string, onGrow func(size int64)) (*GrowthWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%sfsnotify.NewWatcher: %w", pkg, err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("%swatch %s: %w", pkg, dir, err)
	}

	gw := &GrowthWatcher{watcher: w, onGrow: onGrow, done: make(chan struct{})}
	go gw.run(path)
	return gw, nil
}

func (gw *GrowthWatcher) run(path string) {
	defer close(gw.done)
	for {
		select {
		case ev, ok := <-gw.watcher.Events:
			if !ok {
				return
			}
			if gw.exit.Load() {
				return
			}
			if ev.Name != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if info, err := os.Stat(path); err == nil {
				gw.onGrow(info.Size())
			}
		case _, ok := <-gw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watch goroutine and releases the underlying inotify
// descriptor.
func (gw *GrowthWatcher) Close() error {
	gw.exit.Store(true)
	err := gw.watcher.Close()
	<-gw.done
	return err
}

// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a fixed set of files.
//
// The parent directories are watched rather than the files themselves so that
// editors which replace a file by renaming a new one over it are still seen.
type Watcher struct {
	paths map[string]struct{}
	dirs  map[string]struct{}
}

// New creates a Watcher for the given file paths.
func New(paths ...string) (*Watcher, error) {
	w := &Watcher{
		paths: make(map[string]struct{}, len(paths)),
		dirs:  make(map[string]struct{}, len(paths)),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", p, err)
		}
		w.paths[abs] = struct{}{}
		w.dirs[filepath.Dir(abs)] = struct{}{}
	}
	return w, nil
}

// Watch starts watching and returns a channel that receives the path of a
// changed file. Bursts of events are coalesced: while a change is pending
// further changes are dropped. The channel is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	for dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	out := make(chan string, 1)

	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !w.relevant(event) {
					continue
				}
				select {
				case out <- filepath.Clean(event.Name):
				default:
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("file watch error", "error", err)
			}
		}
	}()

	return out, nil
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.paths[abs]
	return ok
}

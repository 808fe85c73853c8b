package shader

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// changeBuffer bounds the change backlog between frames. Names beyond it
// are dropped; a later write to the same file resends it.
const changeBuffer = 64

// Watcher reports shader files that changed on disk. The fsnotify loop runs
// on its own goroutine and only forwards file names; the render thread
// collects them with Drain.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
	log     *zap.Logger
}

// Watch starts watching dir (not recursively).
func Watch(dir string, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating shader watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fw,
		changes: make(chan string, changeBuffer),
		done:    make(chan struct{}),
		log:     log,
	}
	w.wg.Add(1)
	go w.run()

	log.Info("watching shaders", zap.String("dir", dir))
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Editors often save by rename + create; both count.
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(e.Name)
			select {
			case w.changes <- name:
			default:
				w.log.Debug("shader change dropped", zap.String("file", name))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("shader watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// Drain returns the distinct file names changed since the last call, sorted.
// It never blocks.
func (w *Watcher) Drain() []string {
	var names []string
	for {
		select {
		case name := <-w.changes:
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		default:
			slices.Sort(names)
			return names
		}
	}
}

// Close stops the watcher goroutine and releases the OS watch.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

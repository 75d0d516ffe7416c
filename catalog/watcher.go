package catalog

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// rescanDebounce coalesces the event bursts a package install produces
// into a single rescan.
const rescanDebounce = 400 * time.Millisecond

// Watcher triggers a callback after .desktop files change in any of the
// catalog's application directories.
type Watcher struct {
	fw   *fsnotify.Watcher
	stop chan struct{}
}

// Watch starts watching the catalog's directories. onChange runs on a
// background goroutine after each debounced burst of changes; callers
// marshal to the UI thread themselves.
func (c *Catalog) Watch(onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range c.dirs {
		// Directories that don't exist yet are skipped; a rescan after
		// they appear picks them up on restart.
		_ = fw.Add(dir)
	}

	w := &Watcher{fw: fw, stop: make(chan struct{})}
	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func()) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".desktop") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.AfterFunc(rescanDebounce, onChange)
			} else {
				debounce.Reset(rescanDebounce)
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		case <-w.stop:
			return
		}
	}
}

// Close stops the watcher. A debounced rescan already scheduled may still
// fire once after Close returns.
func (w *Watcher) Close() error {
	close(w.stop)
	return w.fw.Close()
}

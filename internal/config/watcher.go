package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay collapses the burst of events editors produce for one save.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads the configuration whenever mvvm.yml or mvvm.yaml changes.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	delay    time.Duration
	onChange func(*Config)
	onError  func(error)

	mutex    sync.Mutex
	timer    *time.Timer
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWatcher starts watching dir. onChange receives every configuration that
// loads and validates; onError receives reload and watch failures. Either may
// be nil.
func NewWatcher(dir string, onChange func(*Config), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	// Watch the directory, not the file: editors often replace the file on save.
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	if onChange == nil {
		onChange = func(*Config) {}
	}
	if onError == nil {
		onError = func(error) {}
	}

	w := &Watcher{
		dir:      dir,
		watcher:  fw,
		delay:    reloadDelay,
		onChange: onChange,
		onError:  onError,
		stopChan: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.watch()

	return w, nil
}

func (w *Watcher) watch() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isConfigFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(err)

		case <-w.stopChan:
			return
		}
	}
}

// schedule (re)starts the reload timer.
func (w *Watcher) schedule() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.stopChan:
		return
	default:
	}

	cfg, err := LoadFrom(w.dir)
	if err != nil {
		w.onError(err)
		return
	}
	w.onChange(cfg)
}

// Stop stops watching. Calling it more than once is harmless.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopChan:
		return nil
	default:
		close(w.stopChan)
	}

	w.wg.Wait()

	w.mutex.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mutex.Unlock()

	return w.watcher.Close()
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	return base == FileName+".yml" || base == FileName+".yaml"
}

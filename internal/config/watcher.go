package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler receives every successfully reloaded configuration.
type ChangeHandler func(cfg Config)

// debounce collapses the burst of events editors produce on save.
const debounce = 150 * time.Millisecond

// Watcher reloads the config file when it changes on disk. Invalid
// files are logged and ignored; the last good config stays in effect.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange ChangeHandler

	mu      sync.Mutex
	current Config
	timer   *time.Timer
	done    chan struct{}
}

// Watch starts watching path. initial is the config already loaded from it.
func Watch(path string, initial Config, onChange ChangeHandler) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace files by rename, which drops
	// a watch on the file itself.
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	w := &Watcher{
		path:     absPath,
		watcher:  fw,
		onChange: onChange,
		current:  initial,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Current returns the last good configuration.
func (w *Watcher) Current() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name, _ := filepath.Abs(event.Name)
			if name != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		log.Printf("config watcher: keeping previous config: %v", err)
		return
	}
	w.mu.Lock()
	changed := cfg != w.current
	w.current = cfg
	w.mu.Unlock()

	if changed && w.onChange != nil {
		w.onChange(cfg)
	}
}

package backend

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/atomicstack/modbar/internal/config/barfile"
	"github.com/atomicstack/modbar/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Event conveys a reloaded bar file or the error that prevented loading it.
type Event struct {
	Path string
	Bar  barfile.Bar
	Err  error
}

// Watcher follows the bar file and publishes a freshly decoded Bar after
// each change. The parent directory is watched so editors that replace the
// file on save are still followed.
type Watcher struct {
	path     string
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	fs     *fsnotify.Watcher
	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching path. Reloads are at least interval apart.
func NewWatcher(path string, interval time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		throttle: newThrottle(interval),
		ctx:      ctx,
		cancel:   cancel,
		fs:       fsw,
		events:   make(chan Event, 4),
	}
	w.wg.Add(1)
	go w.run()
	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w, nil
}

// Events returns a channel of reload events. It is closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutine has exited and the events
// channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer w.fs.Close()
	for {
		select {
		case <-w.ctx.Done():
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Error(err, "watch", w.path)
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if !w.throttle.wait(w.ctx) {
				return
			}
			w.drain()
			if !w.emit() {
				return
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// drain discards notifications that piled up while throttled; the next
// load reads the latest contents anyway.
func (w *Watcher) drain() {
	for {
		select {
		case <-w.fs.Events:
		default:
			return
		}
	}
}

func (w *Watcher) emit() bool {
	bar, err := barfile.Load(w.path)
	evt := Event{Path: w.path, Bar: bar, Err: err}
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnoswap-labs/dracula/internal/types"
)

var (
	ErrAlreadyWatching = errors.New("already watching")
	ErrNotWatching     = errors.New("not watching")
)

// settle is how long a write must stay quiet before the file is classified
// again, so that editors saving in several steps trigger one run.
const settle = 100 * time.Millisecond

// OnChange sets the callback invoked with the fresh stat of every supported
// file written while watching.
func (e *Engine) OnChange(fn func(tt.FileStat)) {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()
	e.onChange = fn
}

// StartWatching watches every directory under the engine root.
func (e *Engine) StartWatching(ctx context.Context) error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if e.isWatching {
		return ErrAlreadyWatching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range e.watchDirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && e.isIgnored(path) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.stop = make(chan struct{})
	e.isWatching = true
	go e.watchLoop(ctx, watcher, e.stop)
	return nil
}

// StopWatching ends the watch loop and closes the watcher.
func (e *Engine) StopWatching() error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if !e.isWatching {
		return ErrNotWatching
	}

	e.isWatching = false
	close(e.stop)
	return e.watcher.Close()
}

func (e *Engine) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, stop <-chan struct{}) {
	d := newDebouncer(settle)
	defer d.stopAll()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !e.wantsEvent(event) {
				continue
			}
			d.touch(ctx, stop, event.Name)
		case f := <-d.fired:
			if d.take(f) {
				e.handleFileEvent(ctx, f.name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

type firing struct {
	name string
	seq  uint64
}

type pendingRun struct {
	timer *time.Timer
	seq   uint64
}

// debouncer delays a run of each file until its events stop for delay. It is
// owned by the watch loop goroutine.
type debouncer struct {
	delay   time.Duration
	next    uint64
	pending map[string]pendingRun
	fired   chan firing
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]pendingRun),
		fired:   make(chan firing),
	}
}

// touch restarts the quiet period of name. The previous timer is replaced, not
// reset, so a firing it already sent is rejected by take.
func (d *debouncer) touch(ctx context.Context, stop <-chan struct{}, name string) {
	if p, ok := d.pending[name]; ok {
		p.timer.Stop()
	}
	d.next++
	f := firing{name: name, seq: d.next}
	timer := time.AfterFunc(d.delay, func() {
		select {
		case d.fired <- f:
		case <-stop:
		case <-ctx.Done():
		}
	})
	d.pending[name] = pendingRun{timer: timer, seq: f.seq}
}

// take reports whether f is the latest firing for its file and clears it.
func (d *debouncer) take(f firing) bool {
	p, ok := d.pending[f.name]
	if !ok || p.seq != f.seq {
		return false
	}
	delete(d.pending, f.name)
	return true
}

func (d *debouncer) stopAll() {
	for _, p := range d.pending {
		p.timer.Stop()
	}
}

func (e *Engine) wantsEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return e.Supports(event.Name) && !e.isIgnored(event.Name)
}

func (e *Engine) handleFileEvent(ctx context.Context, filename string) {
	stat, err := e.Run(ctx, filename)
	if err != nil {
		e.logger.Error("Error classifying changed file", zap.String("file", filename), zap.Error(err))
		return
	}

	e.watchMu.Lock()
	fn := e.onChange
	e.watchMu.Unlock()

	if fn != nil {
		fn(stat)
		return
	}
	e.logger.Info("File changed",
		zap.String("file", filename),
		zap.Int("lines", stat.Lines),
		zap.Int("meaningful", stat.Meaningful),
		zap.Int("executable", len(stat.Executable)),
	)
}

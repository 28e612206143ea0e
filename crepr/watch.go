package crepr

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/logger"
)

// Watcher re-runs report-missing for a file each time it is written
type Watcher struct {
	runner         *Runner
	files          map[string]string // absolute path -> path as given
	watcher        *fsnotify.Watcher
	debouncePeriod time.Duration
	timers         map[string]*time.Timer
	due            chan string
	done           chan struct{}
}

// NewWatcher creates a watcher for files. Parent directories are watched
// rather than the files themselves, so editors that save by renaming a
// temp file over the original keep being followed.
func NewWatcher(runner *Runner, files []string, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		runner:         runner,
		files:          make(map[string]string, len(files)),
		watcher:        watcher,
		debouncePeriod: debounce,
		timers:         make(map[string]*time.Timer),
		due:            make(chan string, len(files)+1),
		done:           make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", f)
		}
		w.files[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

// Run reports every file once, then again after each change, until ctx
// is cancelled. Reports run one at a time on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	log := logger.Named("watch")

	for _, f := range w.files {
		w.report(ctx, f)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-w.due:
			w.report(ctx, path)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			// Only re-run on Write or Create events
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			f, tracked := w.files[filepath.Clean(event.Name)]
			if !tracked {
				continue
			}
			log.Debugw("Watcher detected change",
				logger.FieldFile, f,
				logger.FieldOperation, event.Op.String())
			w.schedule(f)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces rapid writes to the same file. Only called from Run.
func (w *Watcher) schedule(path string) {
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debouncePeriod, func() {
		select {
		case w.due <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) report(ctx context.Context, path string) {
	if _, err := w.runner.ReportMissing(ctx, []string{path}, false); err != nil && !errors.Is(err, ErrNoModules) {
		logger.Named("watch").Warnw("Report failed",
			logger.FieldFile, path,
			logger.FieldError, err)
	}
}

func (w *Watcher) stop() {
	close(w.done)
	for _, t := range w.timers {
		t.Stop()
	}
	w.watcher.Close()
}

package devserver

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
	"github.com/msto63/posttext/pkg/core/logging"
)

// Watcher reports modifications of one file. It watches the parent
// directory so that editors replacing the file by rename are still seen.
type Watcher struct {
	path     string
	name     string
	debounce time.Duration
	logger   *logging.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher starts watching the directory of path. Changes before
// NewWatcher returns are not reported.
func NewWatcher(path string, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to create watcher").
			WithCode(mdwerror.CodeIO).
			WithOperation("devserver.NewWatcher")
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, mdwerror.Wrap(err, "failed to watch directory").
			WithCode(mdwerror.CodeIO).
			WithOperation("devserver.NewWatcher").
			WithDetail("dir", dir)
	}

	return &Watcher{
		path:     path,
		name:     filepath.Base(path),
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
	}, nil
}

// Run handles events until ctx is done and calls onChange once a burst of
// writes has been quiet for the debounce period. onChange runs on the
// watcher goroutine, so changes are handled one at a time. Run closes the
// underlying watcher when it returns.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) {
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			// Remove and Rename leave no file behind; the Create that
			// follows a replace triggers the rebuild
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			w.logger.Debug("Source event", "path", w.path, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Debug("Source changed", "path", w.path)
			onChange(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

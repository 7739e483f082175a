package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonathan/resume-extract/internal/textract"
)

// DefaultDebounce is how long a file must stay quiet before it is handed over
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions configures Watch
type WatchOptions struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch calls handle with the path of every supported document created or rewritten in dir,
// once writes to it have settled. Handlers run one at a time on the watching goroutine.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, dir string, opts WatchOptions, handle func(ctx context.Context, path string)) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &Error{Message: "failed to create file watcher", Cause: err}
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return &Error{Message: fmt.Sprintf("failed to watch directory %s", dir), Cause: err}
	}
	logger.Info("watching directory", slog.String("dir", dir), slog.Duration("debounce", opts.Debounce))

	tick := max(opts.Debounce/4, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	// path -> time the file becomes ready
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				if textract.IsSupported(event.Name) {
					pending[event.Name] = time.Now().Add(opts.Debounce)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", slog.Any("error", err))

		case now := <-ticker.C:
			for path, ready := range pending {
				if now.Before(ready) {
					continue
				}
				delete(pending, path)
				handle(ctx, path)
			}
		}
	}
}

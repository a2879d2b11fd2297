package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/scribeworks/meetscribe/internal/logger"
)

// New creates a watcher on watchDir that hands new recordings to handler,
// at most maxConcurrent at a time.
func New(watchDir string, handler Handler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(watchDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", watchDir, err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		watchDir:  watchDir,
		handler:   handler,
		logger:    log,
		fsw:       fsw,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}

package watcher

import "context"

// Watcher monitors a drop folder for new recordings.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// Handler processes one detected recording.
type Handler func(ctx context.Context, filePath string) error

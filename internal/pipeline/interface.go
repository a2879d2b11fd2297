package pipeline

import (
	"context"

	"github.com/scribeworks/meetscribe/internal/archive"
)

// Pipeline runs one recording through normalize, transcribe, analyze and
// archive in strict order.
type Pipeline interface {
	Process(ctx context.Context, sourcePath string, opts Options) (*archive.Record, error)
}

// Options control a single pipeline run. Zero values defer to configuration.
type Options struct {
	Title     string // archive title; empty gets a timestamp title
	Format    string // declared container format; empty derives from the file extension
	ModelSize string // transcription model tier
	Language  string // language hint, trusted verbatim
	Provider  string // requested analysis provider; empty uses the configured default
}

package transcribe

import "context"

// Engine converts a canonical waveform file into a timestamped transcript.
type Engine interface {
	Transcribe(ctx context.Context, wavPath string, opts Options) (*Transcript, error)
	// Warm reports whether a compute configuration has been settled, so
	// callers can tell cold-start latency apart from failure.
	Warm() bool
}

// Options control a single transcription request.
type Options struct {
	ModelSize string // tiny, base, small, medium, large; empty uses the configured default
	Language  string // trusted verbatim when set; empty triggers auto-detection
}

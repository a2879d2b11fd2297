package audio

import "context"

// Normalizer converts an uploaded recording into a canonical waveform
// suitable for transcription.
type Normalizer interface {
	Normalize(ctx context.Context, sourcePath string, declared Format) (*Asset, error)
}

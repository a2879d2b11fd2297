package transcribe

import (
	"errors"
	"time"
)

var (
	// ErrModelUnavailable means no compute configuration could run the
	// model, even after degrading to CPU.
	ErrModelUnavailable = errors.New("transcription model unavailable")
	// ErrTranscriptionTimeout means the wall-clock bound was exceeded.
	// Partial output is discarded.
	ErrTranscriptionTimeout = errors.New("transcription timed out")
)

// Segment is one timed span of the transcript.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Transcript is the immutable output of one transcription run. Segments are
// non-overlapping and ordered by start time; joining their texts
// reconstructs Text modulo whitespace.
type Transcript struct {
	Text      string
	Language  string
	ModelSize string
	Segments  []Segment
}

// ModelSizes lists the supported model tiers, smallest first.
func ModelSizes() []string {
	return []string{"tiny", "base", "small", "medium", "large"}
}

// SupportedLanguages lists the language codes accepted as hints.
func SupportedLanguages() []string {
	return []string{
		"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
		"ar", "hi", "tr", "pl", "nl", "sv", "da", "no", "fi", "vi",
	}
}

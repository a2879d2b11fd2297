package audio

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Errors surfaced to callers. Both are user-actionable: the message carries
// a remediation hint.
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrCorruptAudio      = errors.New("corrupt or unreadable audio")
)

// Format is a supported input container format.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatMP4  Format = "mp4"
	FormatM4A  Format = "m4a"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
)

// SupportedFormats lists every accepted input format.
func SupportedFormats() []Format {
	return []Format{FormatWAV, FormatMP3, FormatMP4, FormatM4A, FormatFLAC, FormatOGG}
}

// ParseFormat validates a declared format string (case-insensitive, leading
// dot tolerated). Anything outside the supported set fails before decoding.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	for _, known := range SupportedFormats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, s, formatList())
}

func formatList() string {
	var names []string
	for _, f := range SupportedFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Metadata describes the decoded waveform. It is derived from the decoded
// audio data, never trusted from source file headers.
type Metadata struct {
	Duration   time.Duration
	SampleRate int
	Channels   int
	SizeBytes  int64
}

// Asset is one normalized recording. The canonical waveform (16 kHz mono
// 16-bit PCM WAV) lives in a scoped temp file owned by the asset.
type Asset struct {
	SourcePath string
	Format     Format

	canonicalPath string
	meta          Metadata
	closed        bool
}

// NewAsset assembles an asset around an already-normalized waveform file.
// The asset takes ownership of canonicalPath and removes it on Close.
func NewAsset(sourcePath string, format Format, canonicalPath string, meta Metadata) *Asset {
	return &Asset{
		SourcePath:    sourcePath,
		Format:        format,
		canonicalPath: canonicalPath,
		meta:          meta,
	}
}

// CanonicalPath returns the location of the normalized waveform.
func (a *Asset) CanonicalPath() string {
	return a.canonicalPath
}

// Metadata returns the derived waveform metadata.
func (a *Asset) Metadata() Metadata {
	return a.meta
}

// Canonical reads the canonical waveform bytes. Normalization happens once
// at asset creation, so repeated reads return identical bytes.
func (a *Asset) Canonical() ([]byte, error) {
	if a.closed {
		return nil, fmt.Errorf("asset already closed")
	}
	return os.ReadFile(a.canonicalPath)
}

// Close removes the temporary canonical waveform. Safe to call more than
// once; the pipeline defers it on every exit path.
func (a *Asset) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.canonicalPath == "" {
		return nil
	}
	if err := os.Remove(a.canonicalPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove canonical waveform: %w", err)
	}
	return nil
}

package audio

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/scribeworks/meetscribe/internal/logger"
	"github.com/scribeworks/meetscribe/pkg/executor"
)

const (
	canonicalSampleRate = 16000
	minValidDuration    = time.Second
)

type implNormalizer struct {
	executor executor.Executor
	logger   logger.Logger
	tempDir  string
}

// New creates a Normalizer that decodes through ffmpeg into tempDir.
func New(exec executor.Executor, log logger.Logger, tempDir string) Normalizer {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &implNormalizer{
		executor: exec,
		logger:   log,
		tempDir:  tempDir,
	}
}

// Normalize decodes the source into 16 kHz mono 16-bit PCM WAV and derives
// metadata from the decoded waveform. The canonical file is removed on every
// failure path; on success the returned Asset owns it until Close.
func (n *implNormalizer) Normalize(ctx context.Context, sourcePath string, declared Format) (*Asset, error) {
	format, err := ParseFormat(string(declared))
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %v", ErrCorruptAudio, sourcePath, err)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrCorruptAudio, sourcePath)
	}

	out, err := os.CreateTemp(n.tempDir, "meetscribe-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create canonical temp file: %w", err)
	}
	canonicalPath := out.Name()
	out.Close()

	cleanup := func() {
		if rmErr := os.Remove(canonicalPath); rmErr != nil && !os.IsNotExist(rmErr) {
			n.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", canonicalPath, rmErr)
		}
	}

	n.logger.Info(ctx, "Normalizing %s (%s) -> %s", sourcePath, format, canonicalPath)

	// -vn drops any video stream (MP4/M4A containers), -ac 1 -ar 16000
	// produces the canonical mono waveform, pcm_s16le keeps it uncompressed.
	args := []string{
		"-i", sourcePath,
		"-vn",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", canonicalSampleRate),
		"-c:a", "pcm_s16le",
		"-y",
		canonicalPath,
	}

	if _, err := n.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		cleanup()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: decode failed (re-export the file as one of: %s): %v",
			ErrCorruptAudio, formatList(), err)
	}

	canonical, err := os.ReadFile(canonicalPath)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("read canonical waveform: %w", err)
	}

	info, err := ReadWAVInfo(canonical)
	if err != nil {
		cleanup()
		return nil, err
	}
	if info.Duration < minValidDuration {
		cleanup()
		return nil, fmt.Errorf("%w: audio shorter than %s", ErrCorruptAudio, minValidDuration)
	}

	n.logger.Info(ctx, "Normalized: %.1fs, %d Hz, %d channel(s), %d bytes",
		info.Duration.Seconds(), info.SampleRate, info.Channels, fi.Size())

	return &Asset{
		SourcePath:    sourcePath,
		Format:        format,
		canonicalPath: canonicalPath,
		meta: Metadata{
			Duration:   info.Duration,
			SampleRate: info.SampleRate,
			Channels:   info.Channels,
			SizeBytes:  fi.Size(),
		},
	}, nil
}

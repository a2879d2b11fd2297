package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/scribeworks/meetscribe/internal/logger"
)

// fakeExecutor stands in for ffmpeg: it writes canned WAV bytes to the
// output path (the final argument) instead of decoding anything.
type fakeExecutor struct {
	output []byte
	err    error
	calls  int
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	out := args[len(args)-1]
	if err := os.WriteFile(out, f.output, 0644); err != nil {
		return "", err
	}
	return "", nil
}

func testWAV(t *testing.T, seconds int) []byte {
	t.Helper()
	data, err := EncodeWAV(make([]int16, 16000*seconds), 16000)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func writeSource(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"wav", FormatWAV, false},
		{"MP3", FormatMP3, false},
		{".m4a", FormatM4A, false},
		{"flac", FormatFLAC, false},
		{"ogg", FormatOGG, false},
		{"mp4", FormatMP4, false},
		{"aiff", "", true},
		{"", "", true},
		{"wma", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	exec := &fakeExecutor{output: testWAV(t, 3)}
	n := New(exec, logger.New("error"), t.TempDir())
	src := writeSource(t, "meeting.mp3", []byte("compressed bytes"))

	asset, err := n.Normalize(context.Background(), src, FormatMP3)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	defer asset.Close()

	meta := asset.Metadata()
	if got := meta.Duration.Seconds(); got != 3 {
		t.Errorf("Duration = %vs, want 3s", got)
	}
	if meta.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", meta.SampleRate)
	}
	if meta.Channels != 1 {
		t.Errorf("Channels = %d, want 1", meta.Channels)
	}
	if meta.SizeBytes != int64(len("compressed bytes")) {
		t.Errorf("SizeBytes = %d, want source size", meta.SizeBytes)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	exec := &fakeExecutor{output: testWAV(t, 2)}
	n := New(exec, logger.New("error"), t.TempDir())
	src := writeSource(t, "meeting.wav", []byte("source"))

	asset, err := n.Normalize(context.Background(), src, FormatWAV)
	if err != nil {
		t.Fatal(err)
	}
	defer asset.Close()

	first, err := asset.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	second, err := asset.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated canonical reads differ")
	}
	if exec.calls != 1 {
		t.Errorf("decoder invoked %d times, want 1", exec.calls)
	}
}

func TestNormalizeUnsupportedFormat(t *testing.T) {
	exec := &fakeExecutor{output: testWAV(t, 2)}
	n := New(exec, logger.New("error"), t.TempDir())
	src := writeSource(t, "meeting.wma", []byte("source"))

	_, err := n.Normalize(context.Background(), src, Format("wma"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
	if exec.calls != 0 {
		t.Errorf("decoder invoked %d times for unsupported format, want 0", exec.calls)
	}
}

func TestNormalizeEmptySource(t *testing.T) {
	exec := &fakeExecutor{output: testWAV(t, 2)}
	n := New(exec, logger.New("error"), t.TempDir())
	src := writeSource(t, "empty.wav", nil)

	_, err := n.Normalize(context.Background(), src, FormatWAV)
	if !errors.Is(err, ErrCorruptAudio) {
		t.Errorf("error = %v, want ErrCorruptAudio", err)
	}
}

func TestNormalizeDecodeFailureCleansUp(t *testing.T) {
	tempDir := t.TempDir()
	exec := &fakeExecutor{err: fmt.Errorf("ffmpeg: invalid data found")}
	n := New(exec, logger.New("error"), tempDir)
	src := writeSource(t, "broken.ogg", []byte("not really ogg"))

	_, err := n.Normalize(context.Background(), src, FormatOGG)
	if !errors.Is(err, ErrCorruptAudio) {
		t.Fatalf("error = %v, want ErrCorruptAudio", err)
	}

	entries, readErr := os.ReadDir(tempDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir holds %d leftover files after failed decode", len(entries))
	}
}

func TestNormalizeTooShort(t *testing.T) {
	short, err := EncodeWAV(make([]int16, 4000), 16000) // 250ms
	if err != nil {
		t.Fatal(err)
	}
	exec := &fakeExecutor{output: short}
	n := New(exec, logger.New("error"), t.TempDir())
	src := writeSource(t, "blip.wav", []byte("x"))

	_, err = n.Normalize(context.Background(), src, FormatWAV)
	if !errors.Is(err, ErrCorruptAudio) {
		t.Errorf("error = %v, want ErrCorruptAudio", err)
	}
}

func TestAssetClose(t *testing.T) {
	exec := &fakeExecutor{output: testWAV(t, 2)}
	n := New(exec, logger.New("error"), t.TempDir())
	src := writeSource(t, "meeting.flac", []byte("source"))

	asset, err := n.Normalize(context.Background(), src, FormatFLAC)
	if err != nil {
		t.Fatal(err)
	}

	path := asset.CanonicalPath()
	if err := asset.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("canonical waveform still present after Close")
	}
	if err := asset.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := asset.Canonical(); err == nil {
		t.Error("Canonical() after Close should fail")
	}
}

package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scribeworks/meetscribe/internal/config"
	"github.com/scribeworks/meetscribe/internal/logger"
)

const whisperJSON = `{
  "result": {"language": "en"},
  "transcription": [
    {"offsets": {"from": 0, "to": 2500}, "text": " let's ship the release on friday."},
    {"offsets": {"from": 2500, "to": 3000}, "text": "   "},
    {"offsets": {"from": 3000, "to": 6000}, "text": " john will write the changelog."}
  ]
}`

// fakeWhisper simulates the whisper.cpp binary: it writes canned JSON to
// the requested output prefix. failures counts how many leading calls fail.
type fakeWhisper struct {
	json     string
	failures int
	calls    [][]string
}

func (f *fakeWhisper) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *fakeWhisper) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	if len(f.calls) <= f.failures {
		return "", fmt.Errorf("ggml_metal_init: failed")
	}
	prefix := ""
	for i, a := range args {
		if a == "--output-file" && i+1 < len(args) {
			prefix = args[i+1]
		}
	}
	if err := os.WriteFile(prefix+".json", []byte(f.json), 0644); err != nil {
		return "", err
	}
	return "", nil
}

// blockingWhisper waits for context cancellation, like a hung model run.
type blockingWhisper struct{}

func (b *blockingWhisper) Execute(ctx context.Context, name string, args ...string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (b *blockingWhisper) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return b.Execute(ctx, name, args...)
}

func testConfig(t *testing.T, useGPU bool) *config.Config {
	t.Helper()
	modelDir := t.TempDir()
	for _, size := range ModelSizes() {
		if err := os.WriteFile(filepath.Join(modelDir, "ggml-"+size+".bin"), []byte("model"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := &config.Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cfg.Whisper.ModelDir = modelDir
	cfg.Whisper.UseGPU = useGPU
	return cfg
}

func testWavPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("wav"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func TestTranscribe(t *testing.T) {
	exec := &fakeWhisper{json: whisperJSON}
	e := New(testConfig(t, false), exec, logger.New("error"))

	if e.Warm() {
		t.Error("engine warm before first call")
	}

	tr, err := e.Transcribe(context.Background(), testWavPath(t), Options{})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if tr.Language != "en" {
		t.Errorf("Language = %q, want %q", tr.Language, "en")
	}
	if tr.ModelSize != "base" {
		t.Errorf("ModelSize = %q, want default %q", tr.ModelSize, "base")
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("got %d segments, want 2 (silence dropped)", len(tr.Segments))
	}
	for i := 1; i < len(tr.Segments); i++ {
		if tr.Segments[i].Start < tr.Segments[i-1].Start {
			t.Errorf("segment %d start %v before previous %v", i, tr.Segments[i].Start, tr.Segments[i-1].Start)
		}
	}
	if !e.Warm() {
		t.Error("engine not warm after successful call")
	}
}

func TestTranscribeLanguageHint(t *testing.T) {
	exec := &fakeWhisper{json: whisperJSON}
	e := New(testConfig(t, false), exec, logger.New("error"))

	tr, err := e.Transcribe(context.Background(), testWavPath(t), Options{Language: "de"})
	if err != nil {
		t.Fatal(err)
	}

	if tr.Language != "de" {
		t.Errorf("Language = %q, want hint %q trusted verbatim", tr.Language, "de")
	}
	args := exec.calls[0]
	found := false
	for i, a := range args {
		if a == "-l" && i+1 < len(args) && args[i+1] == "de" {
			found = true
		}
	}
	if !found {
		t.Errorf("hint not passed to whisper, args = %v", args)
	}
}

func TestTranscribeDegradesOnce(t *testing.T) {
	exec := &fakeWhisper{json: whisperJSON, failures: 1}
	e := New(testConfig(t, true), exec, logger.New("error"))

	if _, err := e.Transcribe(context.Background(), testWavPath(t), Options{}); err != nil {
		t.Fatalf("Transcribe() error = %v, want CPU fallback to succeed", err)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("got %d whisper invocations, want 2", len(exec.calls))
	}
	if hasArg(exec.calls[0], "-ng") {
		t.Error("first attempt should use the accelerated configuration")
	}
	if !hasArg(exec.calls[1], "-ng") {
		t.Error("second attempt should disable the GPU")
	}

	// Configuration choice is cached: later calls go straight to CPU.
	if _, err := e.Transcribe(context.Background(), testWavPath(t), Options{}); err != nil {
		t.Fatal(err)
	}
	if len(exec.calls) != 3 {
		t.Fatalf("got %d invocations after second transcription, want 3", len(exec.calls))
	}
	if !hasArg(exec.calls[2], "-ng") {
		t.Error("cached configuration should stay on CPU")
	}
}

func TestTranscribeModelUnavailable(t *testing.T) {
	exec := &fakeWhisper{json: whisperJSON, failures: 5}
	e := New(testConfig(t, true), exec, logger.New("error"))

	_, err := e.Transcribe(context.Background(), testWavPath(t), Options{})
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("error = %v, want ErrModelUnavailable", err)
	}
	if e.Warm() {
		t.Error("engine must not report warm after total failure")
	}
}

func TestTranscribeMissingModelFile(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Whisper.ModelDir = t.TempDir() // no models here
	e := New(cfg, &fakeWhisper{json: whisperJSON}, logger.New("error"))

	_, err := e.Transcribe(context.Background(), testWavPath(t), Options{})
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("error = %v, want ErrModelUnavailable", err)
	}
}

func TestTranscribeTimeout(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Whisper.TimeoutSec = 1
	e := New(cfg, &blockingWhisper{}, logger.New("error"))

	start := time.Now()
	_, err := e.Transcribe(context.Background(), testWavPath(t), Options{})
	if !errors.Is(err, ErrTranscriptionTimeout) {
		t.Errorf("error = %v, want ErrTranscriptionTimeout", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout took too long to trigger")
	}
}

func TestTranscribeCancellation(t *testing.T) {
	cfg := testConfig(t, false)
	e := New(cfg, &blockingWhisper{}, logger.New("error"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := e.Transcribe(ctx, testWavPath(t), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSegmentConcatenationMatchesText(t *testing.T) {
	exec := &fakeWhisper{json: whisperJSON}
	e := New(testConfig(t, false), exec, logger.New("error"))

	tr, err := e.Transcribe(context.Background(), testWavPath(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	joined := CleanTranscript(joinSegments(tr.Segments))
	if joined != tr.Text {
		t.Errorf("segment concatenation %q != full text %q", joined, tr.Text)
	}
}

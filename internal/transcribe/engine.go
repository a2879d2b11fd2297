package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/scribeworks/meetscribe/internal/config"
	"github.com/scribeworks/meetscribe/internal/logger"
	"github.com/scribeworks/meetscribe/pkg/executor"
)

type implEngine struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger

	mu       sync.Mutex
	warm     bool
	degraded bool // GPU init failed once; stay on CPU for the process lifetime
}

// New creates an Engine that runs the whisper.cpp binary through the
// executor. The compute configuration (GPU vs CPU) is settled lazily on the
// first call and reused afterwards.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Engine {
	return &implEngine{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

func (e *implEngine) Warm() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.warm
}

func (e *implEngine) useGPU() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Whisper.UseGPU && !e.degraded
}

// degradeOnce flips to CPU after a GPU failure. Returns false when there is
// nothing left to degrade to, which makes the failure terminal.
func (e *implEngine) degradeOnce() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cfg.Whisper.UseGPU || e.degraded {
		return false
	}
	e.degraded = true
	return true
}

func (e *implEngine) markWarm() {
	e.mu.Lock()
	e.warm = true
	e.mu.Unlock()
}

func (e *implEngine) modelPath(size string) string {
	return filepath.Join(e.cfg.Whisper.ModelDir, "ggml-"+size+".bin")
}

// Transcribe runs whisper.cpp over the canonical waveform. On a GPU
// initialization failure it degrades to CPU once per process; on timeout all
// partial output is discarded.
func (e *implEngine) Transcribe(ctx context.Context, wavPath string, opts Options) (*Transcript, error) {
	size := opts.ModelSize
	if size == "" {
		size = e.cfg.Whisper.ModelSize
	}

	modelPath := e.modelPath(size)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: model file %s not found (try a smaller tier: %s)",
			ErrModelUnavailable, modelPath, strings.Join(ModelSizes(), ", "))
	}

	runCtx, cancel := context.WithTimeout(ctx, e.cfg.WhisperTimeout())
	defer cancel()

	prefix := strings.TrimSuffix(wavPath, ".wav")
	jsonPath := prefix + ".json"
	// Whisper writes its output file even on partial runs; never leave it
	// behind, and never parse it after a failed run.
	defer os.Remove(jsonPath)

	err := e.run(runCtx, modelPath, wavPath, prefix, opts, e.useGPU())
	if err != nil {
		if terr := e.classify(runCtx, ctx, err); terr != nil {
			return nil, terr
		}
		if !e.degradeOnce() {
			return nil, fmt.Errorf("%w: %v (try again or reduce the model size)", ErrModelUnavailable, err)
		}
		e.logger.Warn(ctx, "Accelerated transcription failed, degrading to CPU: %v", err)
		if err := e.run(runCtx, modelPath, wavPath, prefix, opts, false); err != nil {
			if terr := e.classify(runCtx, ctx, err); terr != nil {
				return nil, terr
			}
			return nil, fmt.Errorf("%w: %v (try again or reduce the model size)", ErrModelUnavailable, err)
		}
	}
	e.markWarm()

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	language, segments, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}
	if opts.Language != "" {
		language = opts.Language
	}

	text := CleanTranscript(joinSegments(segments))
	e.logger.Info(ctx, "Transcription completed: %d segments, language=%s, model=%s",
		len(segments), language, size)

	return &Transcript{
		Text:      text,
		Language:  language,
		ModelSize: size,
		Segments:  segments,
	}, nil
}

// classify maps run errors to the engine's error taxonomy. A nil return
// means the error is a candidate for degradation.
func (e *implEngine) classify(runCtx, ctx context.Context, err error) error {
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w after %s (try again or reduce the model size)",
			ErrTranscriptionTimeout, e.cfg.WhisperTimeout())
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func (e *implEngine) run(ctx context.Context, modelPath, wavPath, outPrefix string, opts Options, gpu bool) error {
	args := []string{
		"-m", modelPath,
		"-f", wavPath,
		"-oj",
		"-t", strconv.Itoa(e.cfg.Whisper.Threads),
		"--output-file", outPrefix,
	}

	// A supplied hint is trusted verbatim; otherwise whisper auto-detects
	// during the first decoding pass.
	lang := opts.Language
	if lang == "" {
		lang = e.cfg.Whisper.Language
	}
	if lang == "" {
		lang = "auto"
	}
	args = append(args, "-l", lang)

	if !gpu {
		args = append(args, "-ng")
	}

	_, err := e.executor.Execute(ctx, e.cfg.Whisper.BinaryPath, args...)
	return err
}

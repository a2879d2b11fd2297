package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/scribeworks/meetscribe/internal/analysis"
	"github.com/scribeworks/meetscribe/internal/archive"
	"github.com/scribeworks/meetscribe/internal/audio"
	"github.com/scribeworks/meetscribe/internal/config"
	"github.com/scribeworks/meetscribe/internal/logger"
	"github.com/scribeworks/meetscribe/internal/metrics"
	"github.com/scribeworks/meetscribe/internal/transcribe"
)

const (
	stageNormalize  = "normalize"
	stageTranscribe = "transcribe"
	stageAnalyze    = "analyze"
	stageArchive    = "archive"
)

// analyzer is what the pipeline needs from the analysis router.
type analyzer interface {
	Analyze(ctx context.Context, text string, requested analysis.Provider) (*analysis.Result, error)
}

type implPipeline struct {
	normalizer audio.Normalizer
	engine     transcribe.Engine
	analyzer   analyzer
	session    *archive.Session
	metrics    *metrics.Metrics
	logger     logger.Logger
	config     *config.Config
}

// New wires the pipeline stages together.
func New(norm audio.Normalizer, engine transcribe.Engine, router analyzer,
	session *archive.Session, m *metrics.Metrics, log logger.Logger, cfg *config.Config) Pipeline {
	return &implPipeline{
		normalizer: norm,
		engine:     engine,
		analyzer:   router,
		session:    session,
		metrics:    m,
		logger:     log,
		config:     cfg,
	}
}

// Process runs the full stage sequence for one recording. A failed or
// cancelled run archives nothing; the record only exists once every stage
// has completed.
func (p *implPipeline) Process(ctx context.Context, sourcePath string, opts Options) (*archive.Record, error) {
	p.metrics.RecordRunStarted()
	p.logger.Info(ctx, "Processing %s", sourcePath)

	declared := opts.Format
	if declared == "" {
		declared = filepath.Ext(sourcePath)
	}
	format, err := audio.ParseFormat(declared)
	if err != nil {
		p.metrics.RecordRunFailed(stageNormalize)
		return nil, err
	}

	requested := analysis.Provider(p.config.Analysis.Provider)
	if opts.Provider != "" {
		requested, err = analysis.ParseProvider(opts.Provider)
		if err != nil {
			p.metrics.RecordRunFailed(stageAnalyze)
			return nil, err
		}
	}

	start := time.Now()
	asset, err := p.normalizer.Normalize(ctx, sourcePath, format)
	if err != nil {
		p.metrics.RecordRunFailed(stageNormalize)
		return nil, fmt.Errorf("normalize: %w", err)
	}
	defer func() {
		if closeErr := asset.Close(); closeErr != nil {
			p.logger.Warn(ctx, "Asset cleanup: %v", closeErr)
		}
	}()
	p.metrics.RecordStage(stageNormalize, time.Since(start))

	start = time.Now()
	transcript, err := p.engine.Transcribe(ctx, asset.CanonicalPath(), transcribe.Options{
		ModelSize: opts.ModelSize,
		Language:  opts.Language,
	})
	if err != nil {
		p.metrics.RecordRunFailed(stageTranscribe)
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	p.metrics.RecordStage(stageTranscribe, time.Since(start))
	p.metrics.RecordTranscribed(asset.Metadata().Duration)

	start = time.Now()
	result, err := p.analyzer.Analyze(ctx, transcript.Text, requested)
	if err != nil {
		p.metrics.RecordRunFailed(stageAnalyze)
		return nil, fmt.Errorf("analyze: %w", err)
	}
	p.metrics.RecordStage(stageAnalyze, time.Since(start))
	p.metrics.RecordAnalysis(string(requested), string(result.Provider))

	// A cancelled run must leave no trace in the archive.
	if err := ctx.Err(); err != nil {
		p.metrics.RecordRunFailed(stageArchive)
		return nil, err
	}

	rec, err := p.session.Archive(archive.Input{
		Title:      opts.Title,
		Audio:      asset.Metadata(),
		Format:     asset.Format,
		Transcript: transcript,
		Analysis:   result,
	})
	if err != nil {
		p.metrics.RecordRunFailed(stageArchive)
		return nil, fmt.Errorf("archive: %w", err)
	}
	p.metrics.SetArchivedRecords(p.session.Stats().Count)
	p.metrics.RecordRunCompleted()

	p.logger.Info(ctx, "Archived %s as %s (provider %s, %d segment(s))",
		sourcePath, rec.ID, result.Provider, len(transcript.Segments))
	return rec, nil
}

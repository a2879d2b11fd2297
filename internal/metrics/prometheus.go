package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scribeworks/meetscribe/internal/config"
	"github.com/scribeworks/meetscribe/internal/logger"
)

// Metrics holds the Prometheus instruments for the processing pipeline.
type Metrics struct {
	RunsStarted   prometheus.Counter
	RunsCompleted prometheus.Counter
	RunsFailed    *prometheus.CounterVec

	StageDuration *prometheus.HistogramVec

	AnalysisRequests  *prometheus.CounterVec
	AnalysisFallbacks *prometheus.CounterVec

	TranscribedSeconds prometheus.Counter
	ArchivedRecords    prometheus.Gauge
	Exports            *prometheus.CounterVec
}

// New creates and registers the pipeline metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a specific registerer. Tests use a fresh
// registry per case to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "meetscribe_runs_started_total",
			Help: "Total number of pipeline runs started",
		}),
		RunsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "meetscribe_runs_completed_total",
			Help: "Total number of pipeline runs archived successfully",
		}),
		RunsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "meetscribe_runs_failed_total",
			Help: "Total number of failed pipeline runs",
		}, []string{"stage"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meetscribe_stage_duration_seconds",
			Help:    "Wall-clock duration of each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7 minutes
		}, []string{"stage"}),
		AnalysisRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "meetscribe_analysis_requests_total",
			Help: "Analysis runs by the provider that produced the result",
		}, []string{"provider"}),
		AnalysisFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "meetscribe_analysis_fallbacks_total",
			Help: "Analysis runs where the producing provider differed from the requested one",
		}, []string{"requested", "actual"}),
		TranscribedSeconds: factory.NewCounter(prometheus.CounterOpts{
			Name: "meetscribe_transcribed_audio_seconds_total",
			Help: "Total seconds of audio transcribed",
		}),
		ArchivedRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "meetscribe_archived_records",
			Help: "Current number of records in the session archive",
		}),
		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "meetscribe_exports_total",
			Help: "Total number of exports by format",
		}, []string{"format"}),
	}
}

// RecordRunStarted increments the started runs counter.
func (m *Metrics) RecordRunStarted() {
	m.RunsStarted.Inc()
}

// RecordRunCompleted records a successful run.
func (m *Metrics) RecordRunCompleted() {
	m.RunsCompleted.Inc()
}

// RecordRunFailed records a failed run with the stage it failed in.
func (m *Metrics) RecordRunFailed(stage string) {
	m.RunsFailed.WithLabelValues(stage).Inc()
}

// RecordStage records the duration of one pipeline stage.
func (m *Metrics) RecordStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordAnalysis records which provider produced a result, and the fallback
// transition when it differs from the requested provider.
func (m *Metrics) RecordAnalysis(requested, actual string) {
	m.AnalysisRequests.WithLabelValues(actual).Inc()
	if requested != actual {
		m.AnalysisFallbacks.WithLabelValues(requested, actual).Inc()
	}
}

// RecordTranscribed adds transcribed audio duration.
func (m *Metrics) RecordTranscribed(d time.Duration) {
	m.TranscribedSeconds.Add(d.Seconds())
}

// SetArchivedRecords sets the archive size gauge.
func (m *Metrics) SetArchivedRecords(count int) {
	m.ArchivedRecords.Set(float64(count))
}

// RecordExport increments the export counter for a format.
func (m *Metrics) RecordExport(format string) {
	m.Exports.WithLabelValues(format).Inc()
}

// Serve exposes /metrics on the configured address until ctx is cancelled.
// It returns immediately when metrics are disabled.
func Serve(ctx context.Context, cfg config.MetricsConfig, log logger.Logger) {
	if !cfg.Enabled {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		log.Info(ctx, "metrics listening on %s", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "metrics server: %v", err)
		}
	}()
}

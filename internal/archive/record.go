package archive

import (
	"time"

	"github.com/scribeworks/meetscribe/internal/analysis"
	"github.com/scribeworks/meetscribe/internal/audio"
	"github.com/scribeworks/meetscribe/internal/transcribe"
)

// Record is one archived meeting: audio metadata, transcript and analysis
// plus run timestamps. Records are append-only; the session never mutates
// them after Archive returns.
type Record struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	CreatedAt  time.Time              `json:"created_at"`
	Audio      audio.Metadata         `json:"audio"`
	Format     audio.Format           `json:"source_format"`
	Transcript *transcribe.Transcript `json:"transcript"`
	Analysis   *analysis.Result       `json:"analysis"`
}

// Input is the material a completed pipeline run hands to Archive.
type Input struct {
	Title      string
	Audio      audio.Metadata
	Format     audio.Format
	Transcript *transcribe.Transcript
	Analysis   *analysis.Result
}

// Stats summarizes the session's collection.
type Stats struct {
	Count         int           `json:"count"`
	TotalDuration time.Duration `json:"total_duration"`
	Oldest        time.Time     `json:"oldest"`
	Newest        time.Time     `json:"newest"`
}

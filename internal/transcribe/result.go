package transcribe

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// whisperOutput mirrors the whisper.cpp -oj JSON file layout.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// parseWhisperJSON turns the whisper.cpp JSON output into ordered segments.
// Empty (silence) segments are dropped; ordering by start time is enforced.
func parseWhisperJSON(data []byte) (string, []Segment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return "", nil, fmt.Errorf("parse whisper output: %w", err)
	}

	segments := make([]Segment, 0, len(out.Transcription))
	for _, s := range out.Transcription {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start: time.Duration(s.Offsets.From) * time.Millisecond,
			End:   time.Duration(s.Offsets.To) * time.Millisecond,
			Text:  text,
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	return out.Result.Language, segments, nil
}

// joinSegments rebuilds the full transcript text from ordered segments.
func joinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

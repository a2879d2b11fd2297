package archive

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportFormat selects an export rendering.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatJSON     ExportFormat = "json"
	FormatDocx     ExportFormat = "docx"
)

// ParseExportFormat validates a format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "docx":
		return FormatDocx, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown, json or docx)", s)
	}
}

// Export renders a record in the given format. It is a pure function of the
// record: the same record always produces byte-identical output.
func (s *Session) Export(id string, format ExportFormat) ([]byte, error) {
	rec, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatMarkdown:
		return []byte(RenderMarkdown(rec)), nil
	case FormatJSON:
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal record: %w", err)
		}
		return data, nil
	case FormatDocx:
		// Docx output goes through ExportDocx, which writes to a file.
		return nil, fmt.Errorf("docx export writes directly to a file, use ExportDocx")
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// ExportAll dumps the whole session as JSON, most recent first.
func (s *Session) ExportAll() ([]byte, error) {
	dump := struct {
		ExportedAt time.Time `json:"exported_at"`
		Stats      Stats     `json:"stats"`
		Meetings   []*Record `json:"meetings"`
	}{
		ExportedAt: s.now(),
		Stats:      s.Stats(),
		Meetings:   s.Search(""),
	}
	return json.MarshalIndent(dump, "", "  ")
}

// ImportAll restores records from an ExportAll dump into the session.
// Imported records keep their original IDs and timestamps; duplicates of
// records already present are skipped.
func (s *Session) ImportAll(data []byte) (int, error) {
	var dump struct {
		Meetings []*Record `json:"meetings"`
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		return 0, fmt.Errorf("parse session dump: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	imported := 0
	// The dump is most-recent-first; walk backwards to restore insertion order.
	for i := len(dump.Meetings) - 1; i >= 0; i-- {
		rec := dump.Meetings[i]
		if rec.ID == "" || rec.Transcript == nil || rec.Analysis == nil {
			return imported, fmt.Errorf("session dump record %d is incomplete", len(dump.Meetings)-i)
		}
		if _, ok := s.byID[rec.ID]; ok {
			continue
		}
		s.records = append(s.records, rec)
		s.byID[rec.ID] = rec
		imported++
	}
	return imported, nil
}

// RenderMarkdown produces the canonical markdown document with fixed
// section ordering.
func RenderMarkdown(rec *Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rec.Title)
	fmt.Fprintf(&b, "**Date:** %s\n\n", rec.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Duration:** %s | **Language:** %s | **Model:** %s\n\n",
		rec.Audio.Duration.Truncate(time.Second), rec.Transcript.Language, rec.Transcript.ModelSize)

	b.WriteString("## Transcript\n\n")
	b.WriteString(rec.Transcript.Text)
	b.WriteString("\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString(rec.Analysis.Summary)
	b.WriteString("\n\n")

	b.WriteString("## Action Items\n\n")
	if len(rec.Analysis.ActionItems) == 0 {
		b.WriteString("_None identified._\n")
	}
	for _, item := range rec.Analysis.ActionItems {
		line := item.Description
		if item.Owner != "" {
			line += " (owner: " + item.Owner + ")"
		}
		if item.Due != "" {
			line += " (due: " + item.Due + ")"
		}
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\n")

	writeBulletSection(&b, "Decisions", rec.Analysis.Decisions)
	writeBulletSection(&b, "Topics", rec.Analysis.Topics)
	writeBulletSection(&b, "Participants", rec.Analysis.Participants)
	writeBulletSection(&b, "Next Steps", rec.Analysis.NextSteps)

	b.WriteString("## Analysis Provider Used\n\n")
	fmt.Fprintf(&b, "%s (%s tier)\n", rec.Analysis.Provider, rec.Analysis.Tier)

	return b.String()
}

func writeBulletSection(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		b.WriteString("_None identified._\n")
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

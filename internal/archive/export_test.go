package archive

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/scribeworks/meetscribe/internal/analysis"
)

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"JSON", FormatJSON, false},
		{"docx", FormatDocx, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExportFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExportFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportMarkdownSectionOrder(t *testing.T) {
	s := testSession()
	in := testInput("Quarterly Review", "We reviewed the numbers.", []string{"budget"})
	in.Analysis.ActionItems = []analysis.ActionItem{
		{Description: "Send the report", Owner: "Dana", Due: "Monday"},
	}
	in.Analysis.Decisions = []string{"Cut travel spend"}
	rec, err := s.Archive(in)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	data, err := s.Export(rec.ID, FormatMarkdown)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	doc := string(data)

	sections := []string{
		"# Quarterly Review",
		"## Transcript",
		"## Summary",
		"## Action Items",
		"## Decisions",
		"## Topics",
		"## Participants",
		"## Next Steps",
		"## Analysis Provider Used",
	}
	last := -1
	for _, sec := range sections {
		idx := strings.Index(doc, sec)
		if idx < 0 {
			t.Fatalf("section %q missing from export", sec)
		}
		if idx < last {
			t.Errorf("section %q out of order", sec)
		}
		last = idx
	}

	if !strings.Contains(doc, "Send the report (owner: Dana) (due: Monday)") {
		t.Error("action item line missing owner/due annotations")
	}
	// Empty sections are stated, not omitted.
	if !strings.Contains(doc, "_None identified._") {
		t.Error("empty sections should render a placeholder")
	}
}

func TestExportDeterministic(t *testing.T) {
	s := testSession()
	rec, err := s.Archive(testInput("Standup", "daily sync", []string{"ops"}))
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	for _, format := range []ExportFormat{FormatMarkdown, FormatJSON} {
		first, err := s.Export(rec.ID, format)
		if err != nil {
			t.Fatalf("Export(%s) error = %v", format, err)
		}
		second, err := s.Export(rec.ID, format)
		if err != nil {
			t.Fatalf("Export(%s) error = %v", format, err)
		}
		if !bytes.Equal(first, second) {
			t.Errorf("Export(%s) is not deterministic", format)
		}
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	s := testSession()
	rec, err := s.Archive(testInput("Standup", "daily sync", []string{"ops"}))
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	data, err := s.Export(rec.ID, FormatJSON)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.ID != rec.ID || got.Title != rec.Title {
		t.Errorf("round trip = %q/%q, want %q/%q", got.ID, got.Title, rec.ID, rec.Title)
	}
	if got.Transcript == nil || got.Transcript.Text != "daily sync" {
		t.Errorf("transcript did not survive round trip: %+v", got.Transcript)
	}
}

func TestExportUnknownRecord(t *testing.T) {
	s := testSession()
	if _, err := s.Export("missing", FormatMarkdown); err == nil {
		t.Error("Export() of unknown record should fail")
	}
}

func TestExportAll(t *testing.T) {
	s := testSession()
	s.Archive(testInput("First", "alpha", nil))
	s.Archive(testInput("Second", "beta", nil))

	data, err := s.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}

	var dump struct {
		Stats    Stats     `json:"stats"`
		Meetings []*Record `json:"meetings"`
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if dump.Stats.Count != 2 || len(dump.Meetings) != 2 {
		t.Fatalf("dump = %d stats / %d meetings", dump.Stats.Count, len(dump.Meetings))
	}
	if dump.Meetings[0].Title != "Second" {
		t.Errorf("first meeting = %q, want most recent", dump.Meetings[0].Title)
	}
}

func TestImportAllRoundTrip(t *testing.T) {
	src := testSession()
	src.Archive(testInput("First", "alpha", nil))
	src.Archive(testInput("Second", "beta", nil))

	data, err := src.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}

	dst := testSession()
	n, err := dst.ImportAll(data)
	if err != nil {
		t.Fatalf("ImportAll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d records, want 2", n)
	}

	all := dst.Search("")
	if len(all) != 2 || all[0].Title != "Second" {
		t.Fatalf("restored order wrong: %v", all)
	}

	// Re-importing the same dump is a no-op.
	n, err = dst.ImportAll(data)
	if err != nil {
		t.Fatalf("ImportAll() second pass error = %v", err)
	}
	if n != 0 {
		t.Errorf("re-import added %d records, want 0", n)
	}
}

func TestImportAllMalformed(t *testing.T) {
	s := testSession()
	if _, err := s.ImportAll([]byte("not json")); err == nil {
		t.Error("ImportAll() should reject malformed input")
	}
	if _, err := s.ImportAll([]byte(`{"meetings":[{"id":"x"}]}`)); err == nil {
		t.Error("ImportAll() should reject incomplete records")
	}
}

func TestExportDocx(t *testing.T) {
	s := testSession()
	rec, err := s.Archive(testInput("Docx Export", "some transcript text", nil))
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	path := t.TempDir() + "/meeting.docx"
	if err := s.ExportDocx(rec.ID, path); err != nil {
		t.Fatalf("ExportDocx() error = %v", err)
	}

	if err := s.ExportDocx("missing", path); err == nil {
		t.Error("ExportDocx() of unknown record should fail")
	}
}

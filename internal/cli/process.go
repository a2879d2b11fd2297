package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scribeworks/meetscribe/internal/archive"
	"github.com/scribeworks/meetscribe/internal/pipeline"
	"github.com/scribeworks/meetscribe/internal/transcribe"
)

func NewProcessCmd(deps *Dependencies) *cobra.Command {
	var (
		title        string
		provider     string
		modelSize    string
		language     string
		exportFormat string
		outputDir    string
		sessionFile  string
	)

	cmd := &cobra.Command{
		Use:   "process <recording>...",
		Short: "Run recordings through the full pipeline",
		Long: "Normalize, transcribe and analyze one or more recordings, then " +
			"archive the results. Use --session to persist the archive dump " +
			"for later search and export invocations.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if language != "" {
				if err := validateLanguage(language); err != nil {
					return err
				}
			}

			if sessionFile != "" {
				if err := loadSession(deps.Session, sessionFile); err != nil {
					return err
				}
			}

			opts := pipeline.Options{
				Title:     title,
				Provider:  provider,
				ModelSize: modelSize,
				Language:  language,
			}

			var failed int
			for _, path := range args {
				rec, err := deps.Pipeline.Process(ctx, path, opts)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %s: %v\n", path, err)
					continue
				}
				printRecordSummary(cmd, rec)

				if exportFormat != "" {
					if err := exportRecord(deps, rec.ID, exportFormat, outputDir, cmd); err != nil {
						return err
					}
				}
			}

			if sessionFile != "" {
				if err := saveSession(deps.Session, sessionFile); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d recording(s) failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Meeting title (timestamp title when empty)")
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Analysis provider: local, cloud or basic")
	cmd.Flags().StringVarP(&modelSize, "model", "m", "", "Transcription model: tiny, base, small, medium or large")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language hint (e.g. en); auto-detected when empty")
	cmd.Flags().StringVarP(&exportFormat, "export", "e", "", "Also export each result: markdown, json or docx")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory for exported files")
	cmd.Flags().StringVarP(&sessionFile, "session", "s", "meetscribe-session.json", "Session archive file to load and update (empty disables persistence)")

	return cmd
}

func validateLanguage(code string) error {
	for _, l := range transcribe.SupportedLanguages() {
		if strings.EqualFold(code, l) {
			return nil
		}
	}
	return fmt.Errorf("unsupported language hint %q (supported: %s)",
		code, strings.Join(transcribe.SupportedLanguages(), ", "))
}

func printRecordSummary(cmd *cobra.Command, rec *archive.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", rec.ID, rec.Title)
	fmt.Fprintf(out, "  duration: %s  language: %s  provider: %s (%s tier)\n",
		rec.Audio.Duration.Truncate(time.Second), rec.Transcript.Language, rec.Analysis.Provider, rec.Analysis.Tier)
	fmt.Fprintf(out, "  summary: %s\n", rec.Analysis.Summary)
	if len(rec.Analysis.ActionItems) > 0 {
		fmt.Fprintln(out, "  action items:")
		for _, item := range rec.Analysis.ActionItems {
			line := item.Description
			if item.Owner != "" {
				line += " (" + item.Owner + ")"
			}
			fmt.Fprintf(out, "    - %s\n", line)
		}
	}
}

func exportRecord(deps *Dependencies, id, format, outputDir string, cmd *cobra.Command) error {
	f, err := archive.ParseExportFormat(format)
	if err != nil {
		return err
	}

	rec, err := deps.Session.Get(id)
	if err != nil {
		return err
	}
	name := exportFileName(rec.Title, f)
	path := filepath.Join(outputDir, name)

	if f == archive.FormatDocx {
		if err := deps.Session.ExportDocx(id, path); err != nil {
			return err
		}
	} else {
		data, err := deps.Session.Export(id, f)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	}

	deps.Metrics.RecordExport(string(f))
	fmt.Fprintf(cmd.OutOrStdout(), "  exported: %s\n", path)
	return nil
}

func exportFileName(title string, f archive.ExportFormat) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, strings.TrimSpace(title))
	if base == "" {
		base = "meeting"
	}

	ext := map[archive.ExportFormat]string{
		archive.FormatMarkdown: ".md",
		archive.FormatJSON:     ".json",
		archive.FormatDocx:     ".docx",
	}[f]
	return strings.ToLower(base) + ext
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func NewExportCmd(deps *Dependencies) *cobra.Command {
	var (
		format      string
		outputDir   string
		sessionFile string
		all         bool
	)

	cmd := &cobra.Command{
		Use:   "export [record-id]",
		Short: "Export an archived meeting",
		Long: "Render one archived meeting as markdown, JSON or docx, or dump " +
			"the whole session as JSON with --all.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadSession(deps.Session, sessionFile); err != nil {
				return err
			}

			if all {
				data, err := deps.Session.ExportAll()
				if err != nil {
					return err
				}
				deps.Metrics.RecordExport("all")
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}

			if len(args) != 1 {
				return fmt.Errorf("record ID required (or use --all)")
			}
			return exportRecord(deps, args[0], format, outputDir, cmd)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Export format: markdown, json or docx")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory for the exported file")
	cmd.Flags().StringVarP(&sessionFile, "session", "s", "meetscribe-session.json", "Session archive file")
	cmd.Flags().BoolVar(&all, "all", false, "Dump the whole session as JSON to stdout")

	return cmd
}

func NewStatsCmd(deps *Dependencies) *cobra.Command {
	var sessionFile string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session archive totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadSession(deps.Session, sessionFile); err != nil {
				return err
			}

			st := deps.Session.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "meetings: %d\n", st.Count)
			fmt.Fprintf(out, "total audio: %s\n", st.TotalDuration.Truncate(time.Second))
			if st.Count > 0 {
				fmt.Fprintf(out, "oldest: %s\n", st.Oldest.Format("2006-01-02 15:04"))
				fmt.Fprintf(out, "newest: %s\n", st.Newest.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionFile, "session", "s", "meetscribe-session.json", "Session archive file")

	return cmd
}

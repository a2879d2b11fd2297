package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewSearchCmd(deps *Dependencies) *cobra.Command {
	var sessionFile string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search archived meetings",
		Long: "Match the query against meeting titles, summaries, transcripts " +
			"and topics. Without a query, list every archived meeting, most " +
			"recent first.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadSession(deps.Session, sessionFile); err != nil {
				return err
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			records := deps.Session.Search(query)
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no meetings found")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, rec := range records {
				fmt.Fprintf(out, "%s  %s  %s\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Title)
				if len(rec.Analysis.Topics) > 0 {
					fmt.Fprintf(out, "  topics: %s\n", strings.Join(rec.Analysis.Topics, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionFile, "session", "s", "meetscribe-session.json", "Session archive file")

	return cmd
}

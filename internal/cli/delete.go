package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDeleteCmd(deps *Dependencies) *cobra.Command {
	var sessionFile string

	cmd := &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Remove an archived meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadSession(deps.Session, sessionFile); err != nil {
				return err
			}
			if err := deps.Session.Delete(args[0]); err != nil {
				return err
			}
			if err := saveSession(deps.Session, sessionFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionFile, "session", "s", "meetscribe-session.json", "Session archive file")

	return cmd
}

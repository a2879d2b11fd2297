package cli

import (
	"github.com/spf13/cobra"

	"github.com/scribeworks/meetscribe/internal/archive"
	"github.com/scribeworks/meetscribe/internal/config"
	"github.com/scribeworks/meetscribe/internal/logger"
	"github.com/scribeworks/meetscribe/internal/metrics"
	"github.com/scribeworks/meetscribe/internal/pipeline"
	"github.com/scribeworks/meetscribe/internal/version"
)

// Dependencies carries the wired application services into the commands.
type Dependencies struct {
	Pipeline pipeline.Pipeline
	Session  *archive.Session
	Metrics  *metrics.Metrics
	Config   *config.Config
	Logger   logger.Logger
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meetscribe",
		Short: "Turn meeting recordings into transcripts and structured notes",
		Long: "meetscribe normalizes a recording, transcribes it with a local " +
			"speech model and extracts summaries, action items and decisions.",
		SilenceUsage: true,
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewProcessCmd(deps))
	rootCmd.AddCommand(NewWatchCmd(deps))
	rootCmd.AddCommand(NewSearchCmd(deps))
	rootCmd.AddCommand(NewExportCmd(deps))
	rootCmd.AddCommand(NewStatsCmd(deps))
	rootCmd.AddCommand(NewDeleteCmd(deps))

	return rootCmd
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scribeworks/meetscribe/internal/metrics"
	"github.com/scribeworks/meetscribe/internal/pipeline"
	"github.com/scribeworks/meetscribe/internal/watcher"
)

func NewWatchCmd(deps *Dependencies) *cobra.Command {
	var (
		watchDir    string
		concurrency int
		provider    string
		sessionFile string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a drop folder and process new recordings",
		Long: "Monitor a directory and run every new audio file through the " +
			"pipeline until interrupted. The session archive is saved on " +
			"shutdown.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watchDir == "" {
				watchDir = deps.Config.Paths.Watch
			}
			if watchDir == "" {
				return fmt.Errorf("no watch directory configured (use --dir or paths.watch)")
			}
			if err := os.MkdirAll(watchDir, 0o755); err != nil {
				return fmt.Errorf("create watch directory: %w", err)
			}

			if sessionFile != "" {
				if err := loadSession(deps.Session, sessionFile); err != nil {
					return err
				}
			}

			metrics.Serve(ctx, deps.Config.Metrics, deps.Logger)

			handler := func(ctx context.Context, filePath string) error {
				rec, err := deps.Pipeline.Process(ctx, filePath, pipeline.Options{Provider: provider})
				if err != nil {
					return err
				}
				printRecordSummary(cmd, rec)
				return nil
			}

			w, err := watcher.New(watchDir, handler, deps.Logger, concurrency)
			if err != nil {
				return err
			}
			defer w.Stop()

			err = w.Start(ctx)
			if err == context.Canceled {
				err = nil
			}

			if sessionFile != "" {
				if saveErr := saveSession(deps.Session, sessionFile); saveErr != nil {
					return saveErr
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&watchDir, "dir", "d", "", "Directory to watch (defaults to paths.watch)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 2, "Maximum recordings processed at once")
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Analysis provider: local, cloud or basic")
	cmd.Flags().StringVarP(&sessionFile, "session", "s", "meetscribe-session.json", "Session archive file saved on shutdown")

	return cmd
}

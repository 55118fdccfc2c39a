package cmd

import (
	"log/slog"

	"quizreel/internal/app"
	"quizreel/pkg/config"

	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Post due answer comments",
	Long:  `Post answer comments whose delay has elapsed, without generating or uploading new videos.`,
	RunE:  runComments,
}

func init() {
	rootCmd.AddCommand(commentsCmd)
}

func runComments(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := app.BuildService(ctx, config.Load())
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Scheduler().ProcessDueComments(ctx); err != nil {
		return err
	}
	slog.Info("Comment pass complete")
	return nil
}

package cmd

import (
	"log/slog"

	"quizreel/internal/app"
	"quizreel/pkg/config"

	"github.com/spf13/cobra"
)

var onceDryRun bool

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Generate and distribute a single quiz video",
	Long:  `Pick a question, render the quiz video for every platform, and upload where credentials allow.`,
	RunE:  runOnce,
}

func init() {
	onceCmd.Flags().BoolVar(&onceDryRun, "dry-run", false, "Render without uploading")
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.Load()
	if onceDryRun {
		cfg.DryRun = true
	}

	svc, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	slog.Info("Generating quiz video...")
	result, err := app.NewPipeline(svc).Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("Run complete",
		"question", result.Question.Text,
		"key", result.Key,
		"uploaded", result.Uploaded,
		"deferred", result.Deferred,
	)
	return nil
}

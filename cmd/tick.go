package cmd

import (
	"log/slog"

	"quizreel/internal/app"
	"quizreel/pkg/config"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run one scheduler pass",
	Long: `Upload a new video if one is due and post any answer comments whose delay
has elapsed. Intended to run from cron; overlapping runs are skipped via a file lock.`,
	RunE: runTick,
}

func init() {
	rootCmd.AddCommand(tickCmd)
}

func runTick(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.Load()

	lock := flock.New(cfg.TickLockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		slog.Info("Another tick is running, skipping")
		return nil
	}
	defer lock.Unlock()

	svc, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	return app.NewPipeline(svc).Tick(ctx)
}

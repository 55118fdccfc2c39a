package app

import (
	"context"
	"log/slog"
	"time"

	"quizreel/internal/distribution"
	"quizreel/internal/encoder"
	"quizreel/internal/ledger"
	"quizreel/internal/question"
	"quizreel/internal/render"
	"quizreel/internal/scheduler"
	"quizreel/internal/thumbs"
	"quizreel/internal/titlegen"
	"quizreel/internal/videocache"
	"quizreel/pkg/config"
)

// BuildService wires every component from configuration. Components whose
// credentials are absent are left nil and the pipeline degrades around them.
func BuildService(ctx context.Context, cfg *config.Config) (*Service, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return nil, err
	}

	var uploaders []distribution.Uploader
	if cfg.YouTubeClientID != "" && cfg.YouTubeClientSecret != "" {
		auth := distribution.NewYouTubeAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
		uploaders = append(uploaders, distribution.NewYouTubeUploader(auth))
	}
	if cfg.MetaPageID != "" && cfg.MetaPageToken != "" {
		uploaders = append(uploaders, distribution.NewFacebookUploader(cfg.MetaPageID, cfg.MetaPageToken))
	}

	var archiver *distribution.Archiver
	if cfg.Archive.Enabled {
		if cfg.GCSBucket != "" {
			archiver, err = distribution.NewGCSArchiver(ctx, cfg.Archive.Dir, cfg.GCSBucket, cfg.Archive.GCSPrefix)
			if err != nil {
				_ = store.Close()
				return nil, err
			}
		} else {
			archiver = distribution.NewArchiver(cfg.Archive.Dir)
		}
	}

	var titles *titlegen.Generator
	if cfg.GroqAPIKey != "" {
		titles, err = titlegen.New(cfg.GroqAPIKey, cfg.Groq.Model)
		if err != nil {
			slog.Warn("Title generation disabled", "error", err)
			titles = nil
		}
	}

	assets := render.NewLibrary(cfg.Assets.BackgroundDir, cfg.Assets.FontsDir, cfg.Assets.IconsDir, cfg.Assets.LogoPath)
	thumbFetcher := thumbs.New(cfg.Assets.ThumbCacheDir)

	sched := scheduler.New(store, uploaders, scheduler.Options{
		UploadEvery:  time.Duration(cfg.Schedule.UploadEveryHours) * time.Hour,
		CommentDelay: time.Duration(cfg.Schedule.CommentDelayHours) * time.Hour,
		BatchSize:    cfg.Schedule.CommentBatchSize,
		MaxAttempts:  cfg.Schedule.MaxAttempts,
	})

	return NewService(ServiceOptions{
		Config: cfg,
		Picker: question.NewPicker(cfg.Questions.DataPath, cfg.Questions.UsedPath),
		Quiz:   render.NewQuizRenderer(assets, thumbFetcher, cfg.Video.FPS, cfg.Video.QuizDuration),
		CTA:    render.NewCTARenderer(assets, cfg.Video.FPS),
		Thumbs: thumbFetcher,
		Encoder: encoder.New(encoder.Options{
			FPS:         cfg.Video.FPS,
			MusicDir:    cfg.Assets.MusicDir,
			MusicVolume: cfg.Video.MusicVolume,
		}),
		Cache:     videocache.New(cfg.Video.CacheDir),
		Store:     store,
		Scheduler: sched,
		Uploaders: uploaders,
		Archiver:  archiver,
		Titles:    titles,
	}), nil
}

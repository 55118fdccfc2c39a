package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"quizreel/internal/distribution"
	"quizreel/internal/ledger"
	"quizreel/internal/platform"
	"quizreel/internal/question"
	"quizreel/internal/render"
)

// Pipeline runs one question end to end: render, encode per platform, then
// publish or archive.
type Pipeline struct {
	service *Service
}

type RunResult struct {
	Question question.Question
	Key      string
	Videos   map[string]string // platform -> video path
	Uploaded []string
	Deferred []string // platforms that hit quota
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service}
}

// Run produces and distributes one quiz video for every platform profile.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	cfg := p.service.cfg

	q, err := p.service.picker.Pick()
	if err != nil {
		return nil, fmt.Errorf("pick question: %w", err)
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question: %w", err)
	}
	key := question.CacheKey(q)
	slog.Info("Question picked", "category", q.Category, "difficulty", q.Difficulty, "key", key)

	sess, err := newSession(cfg.Video.OutputDir)
	if err != nil {
		return nil, err
	}
	defer sess.cleanup()

	p.service.thumbs.Prefetch(ctx, q.Options)

	slog.Info("Rendering quiz frames...")
	quizResult, err := p.service.quiz.Render(q, sess.baseFramesDir())
	if err != nil {
		return nil, fmt.Errorf("render quiz frames: %w", err)
	}

	result := &RunResult{
		Question: q,
		Key:      key,
		Videos:   make(map[string]string),
	}

	for _, profile := range platform.All() {
		videoPath, err := p.buildVideo(ctx, sess, profile, key, quizResult.LastFrame)
		if err != nil {
			return nil, fmt.Errorf("build %s video: %w", profile.Name, err)
		}
		result.Videos[profile.Name] = videoPath

		if err := p.distribute(ctx, profile, q, key, videoPath, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// buildVideo returns the finished video for one platform, going through the
// content cache so a rerun of the same question skips render and encode.
func (p *Pipeline) buildVideo(ctx context.Context, sess *session, profile platform.Profile, key string, lastQuizFrame int) (string, error) {
	if cached, ok := p.service.cache.Lookup(profile.Name, key); ok {
		slog.Info("Video cache hit", "platform", profile.Name, "key", key)
		return cached, nil
	}

	framesDir := sess.platformFramesDir(profile.Name)
	if err := copyFrames(sess.baseFramesDir(), framesDir); err != nil {
		return "", fmt.Errorf("copy base frames: %w", err)
	}

	written, err := p.service.cta.Render(profile, framesDir, lastQuizFrame+1)
	if err != nil {
		return "", fmt.Errorf("render outro frames: %w", err)
	}

	if err := verifyFrameSequence(framesDir, lastQuizFrame+1+written); err != nil {
		return "", err
	}

	videoPath := sess.videoPath(profile.Name, key)
	slog.Info("Encoding video...", "platform", profile.Name, "frames", lastQuizFrame+1+written)
	if err := p.service.encoder.Encode(ctx, framesDir, videoPath); err != nil {
		return "", err
	}

	cached, err := p.service.cache.Store(profile.Name, key, videoPath)
	if err != nil {
		return "", fmt.Errorf("cache video: %w", err)
	}
	return cached, nil
}

func (p *Pipeline) distribute(ctx context.Context, profile platform.Profile, q question.Question, key, videoPath string, result *RunResult) error {
	cfg := p.service.cfg

	if cfg.DryRun {
		slog.Info("Dry run, skipping distribution", "platform", profile.Name, "video", videoPath)
		return nil
	}

	uploader, hasUploader := p.service.uploaders[profile.Name]
	if !hasUploader {
		return p.archive(ctx, profile.Name, videoPath)
	}

	if !p.service.scheduler.ShouldUpload(ctx, profile.Name) {
		slog.Info("Upload not due, keeping video for the next tick", "platform", profile.Name)
		return nil
	}

	title := profile.Title(q)
	if p.service.titles != nil {
		title = p.service.titles.Title(ctx, q, title)
	}

	upload, err := uploader.Upload(ctx, distribution.UploadRequest{
		FilePath:    videoPath,
		Title:       title,
		Description: profile.Description(q),
		Tags:        []string{"quiz", "trivia", q.Category},
		Privacy:     "public",
	})
	if err != nil {
		return fmt.Errorf("upload to %s: %w", profile.Name, err)
	}

	if upload.Outcome == distribution.OutcomeQuotaExceeded {
		slog.Warn("Upload quota exhausted, archiving instead", "platform", profile.Name)
		result.Deferred = append(result.Deferred, profile.Name)
		return p.archive(ctx, profile.Name, videoPath)
	}

	slog.Info("Video uploaded", "platform", profile.Name, "videoId", upload.VideoID, "url", upload.URL)
	result.Uploaded = append(result.Uploaded, profile.Name)

	rec := ledger.Upload{
		Platform:    profile.Name,
		VideoID:     upload.VideoID,
		Title:       title,
		QuestionKey: key,
		Question:    q.Text,
		Answer:      q.Answer,
		Category:    q.Category,
		Difficulty:  q.Difficulty,
		UploadedAt:  time.Now(),
	}
	if err := p.service.store.RecordUpload(ctx, rec); err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return p.service.scheduler.ScheduleAnswer(ctx, profile.Name, upload.VideoID, q)
}

func (p *Pipeline) archive(ctx context.Context, platformName, videoPath string) error {
	if p.service.archiver == nil {
		slog.Info("No archive configured, video left in cache", "platform", platformName, "video", videoPath)
		return nil
	}
	archived, err := p.service.archiver.Archive(ctx, platformName, videoPath)
	if err != nil {
		return fmt.Errorf("archive %s video: %w", platformName, err)
	}
	slog.Info("Video archived for manual posting", "platform", platformName, "path", archived)
	return nil
}

// Tick is the cron entrypoint: produce a video when the cadence says one is
// due, then work through due answer comments.
func (p *Pipeline) Tick(ctx context.Context) error {
	due := p.service.scheduler.ShouldUpload(ctx, platform.YouTube.Name)
	if due {
		if _, err := p.Run(ctx); err != nil {
			return err
		}
	} else {
		slog.Info("No upload due this tick")
	}
	return p.service.scheduler.ProcessDueComments(ctx)
}

func copyFrames(srcDir, dstDir string) error {
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return err
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())
		// Hard links keep the per-platform copies free; fall back to a real
		// copy on filesystems that refuse them.
		if err := os.Link(src, dst); err != nil {
			if err := copyFile(src, dst); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, in)
	return err
}

// verifyFrameSequence checks that frames 0..total-1 all exist before ffmpeg
// runs; a numbering gap would silently truncate the video.
func verifyFrameSequence(dir string, total int) error {
	for i := 0; i < total; i++ {
		if _, err := os.Stat(render.FramePath(dir, i)); err != nil {
			return fmt.Errorf("frame sequence broken at %d of %d: %w", i, total, err)
		}
	}
	return nil
}

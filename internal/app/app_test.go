package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizreel/internal/distribution"
	"quizreel/internal/ledger"
	"quizreel/internal/platform"
	"quizreel/internal/question"
	"quizreel/internal/render"
	"quizreel/internal/scheduler"
	"quizreel/pkg/config"
)

type stubUploader struct {
	platform string
	result   *distribution.UploadResult
	uploads  int
	comments int
}

func (s *stubUploader) Platform() string { return s.platform }

func (s *stubUploader) Upload(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	s.uploads++
	return s.result, nil
}

func (s *stubUploader) PostComment(ctx context.Context, videoID, text string) error {
	s.comments++
	return nil
}

func testQuestion() question.Question {
	return question.Question{
		Text:       "Which club won the 2013 Champions League?",
		Options:    []string{"Barcelona", "Bayern Munich", "Chelsea", "Juventus"},
		Answer:     "Bayern Munich",
		Category:   "football",
		Difficulty: "medium",
	}
}

func newTestService(t *testing.T, uploader distribution.Uploader, dryRun bool) (*Service, *ledger.Store) {
	t.Helper()
	dir := t.TempDir()

	store, err := ledger.Open(filepath.Join(dir, "ledger.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	var uploaders []distribution.Uploader
	if uploader != nil {
		uploaders = append(uploaders, uploader)
	}

	cfg := &config.Config{DryRun: dryRun}
	cfg.Video.OutputDir = dir
	cfg.Archive.Enabled = true
	cfg.Archive.Dir = filepath.Join(dir, "archive")

	sched := scheduler.New(store, uploaders, scheduler.Options{
		UploadEvery:  12 * time.Hour,
		CommentDelay: 24 * time.Hour,
		BatchSize:    20,
		MaxAttempts:  6,
	})

	svc := NewService(ServiceOptions{
		Config:    cfg,
		Store:     store,
		Scheduler: sched,
		Uploaders: uploaders,
		Archiver:  distribution.NewArchiver(cfg.Archive.Dir),
	})
	return svc, store
}

func writeFrames(t *testing.T, dir string, count int) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < count; i++ {
		if err := os.WriteFile(render.FramePath(dir, i), []byte("png"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCopyFrames(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	dst := filepath.Join(t.TempDir(), "dst")
	writeFrames(t, src, 5)

	if err := copyFrames(src, dst); err != nil {
		t.Fatalf("copy frames: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := os.Stat(render.FramePath(dst, i)); err != nil {
			t.Errorf("frame %d missing in copy: %v", i, err)
		}
	}
}

func TestVerifyFrameSequence(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 10)

	if err := verifyFrameSequence(dir, 10); err != nil {
		t.Errorf("complete sequence rejected: %v", err)
	}

	if err := os.Remove(render.FramePath(dir, 4)); err != nil {
		t.Fatal(err)
	}
	if err := verifyFrameSequence(dir, 10); err == nil {
		t.Error("gap at frame 4 not detected")
	}
}

func TestSessionCleanup(t *testing.T) {
	base := t.TempDir()
	sess, err := newSession(base)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := os.Stat(sess.workDir); err != nil {
		t.Fatalf("session dir missing: %v", err)
	}

	writeFrames(t, sess.baseFramesDir(), 2)
	sess.cleanup()

	if _, err := os.Stat(sess.workDir); !os.IsNotExist(err) {
		t.Error("session dir survived cleanup")
	}
}

func newVideoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "youtube_abc.mp4")
	if err := os.WriteFile(path, []byte("mp4"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDistributeDryRunSkipsEverything(t *testing.T) {
	up := &stubUploader{platform: "youtube", result: &distribution.UploadResult{Outcome: distribution.OutcomeUploaded, VideoID: "vid1"}}
	svc, store := newTestService(t, up, true)
	p := NewPipeline(svc)

	err := p.distribute(context.Background(), platform.YouTube, testQuestion(), "key1", newVideoFile(t), &RunResult{Videos: map[string]string{}})
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if up.uploads != 0 {
		t.Error("dry run still uploaded")
	}
	if uploads, _ := store.ListUploads(context.Background(), 10); len(uploads) != 0 {
		t.Error("dry run recorded an upload")
	}
}

func TestDistributeUploadsAndSchedules(t *testing.T) {
	up := &stubUploader{platform: "youtube", result: &distribution.UploadResult{Outcome: distribution.OutcomeUploaded, VideoID: "vid1"}}
	svc, store := newTestService(t, up, false)
	p := NewPipeline(svc)
	ctx := context.Background()

	result := &RunResult{Videos: map[string]string{}}
	if err := p.distribute(ctx, platform.YouTube, testQuestion(), "key1", newVideoFile(t), result); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if up.uploads != 1 {
		t.Errorf("uploads = %d, want 1", up.uploads)
	}
	if len(result.Uploaded) != 1 || result.Uploaded[0] != "youtube" {
		t.Errorf("uploaded = %v", result.Uploaded)
	}

	uploads, err := store.ListUploads(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 1 || uploads[0].VideoID != "vid1" || uploads[0].QuestionKey != "key1" {
		t.Errorf("uploads = %+v", uploads)
	}

	due, err := store.DueComments(ctx, time.Now().Add(25*time.Hour), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 {
		t.Fatalf("due comments = %d, want the scheduled answer", len(due))
	}
}

func TestDistributeQuotaDefersToArchive(t *testing.T) {
	up := &stubUploader{platform: "youtube", result: &distribution.UploadResult{Outcome: distribution.OutcomeQuotaExceeded}}
	svc, store := newTestService(t, up, false)
	p := NewPipeline(svc)
	ctx := context.Background()

	result := &RunResult{Videos: map[string]string{}}
	if err := p.distribute(ctx, platform.YouTube, testQuestion(), "key1", newVideoFile(t), result); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if len(result.Deferred) != 1 || result.Deferred[0] != "youtube" {
		t.Errorf("deferred = %v", result.Deferred)
	}
	if uploads, _ := store.ListUploads(ctx, 10); len(uploads) != 0 {
		t.Error("quota hit recorded as an upload")
	}

	names, err := svc.archiver.List(ctx, "youtube")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Errorf("archive names = %v, want the deferred video", names)
	}
}

func TestDistributeWithoutUploaderArchives(t *testing.T) {
	svc, _ := newTestService(t, nil, false)
	p := NewPipeline(svc)
	ctx := context.Background()

	profile := platform.TikTok
	if err := p.distribute(ctx, profile, testQuestion(), "key1", newVideoFile(t), &RunResult{Videos: map[string]string{}}); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	names, err := svc.archiver.List(ctx, profile.Name)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Errorf("archive names = %v, want 1", names)
	}
}

func TestDistributeNotDueKeepsVideo(t *testing.T) {
	up := &stubUploader{platform: "youtube", result: &distribution.UploadResult{Outcome: distribution.OutcomeUploaded, VideoID: "vid2"}}
	svc, store := newTestService(t, up, false)
	p := NewPipeline(svc)
	ctx := context.Background()

	if err := store.RecordUpload(ctx, ledger.Upload{Platform: "youtube", VideoID: "vid1", UploadedAt: time.Now().Add(-time.Hour)}); err != nil {
		t.Fatal(err)
	}

	if err := p.distribute(ctx, platform.YouTube, testQuestion(), "key1", newVideoFile(t), &RunResult{Videos: map[string]string{}}); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if up.uploads != 0 {
		t.Error("uploaded although the interval had not elapsed")
	}
}

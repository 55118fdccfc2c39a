// Package scheduler decides when the next video goes out and drives the
// delayed answer comments through their retry lifecycle. It only reads and
// writes the ledger; rendering and uploading live elsewhere.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quizreel/internal/distribution"
	"quizreel/internal/ledger"
	"quizreel/internal/question"
)

const (
	// Per-failure backoff inside one batch, capped so a run of flaky posts
	// cannot stall a cron tick for minutes.
	backoffBase    = 2 * time.Second
	backoffPerTry  = 3 * time.Second
	backoffCeiling = 20 * time.Second
)

type Options struct {
	UploadEvery  time.Duration
	CommentDelay time.Duration
	BatchSize    int
	MaxAttempts  int

	// Now and Sleep default to the real clock; tests swap them out.
	Now   func() time.Time
	Sleep func(time.Duration)
}

type Scheduler struct {
	store        *ledger.Store
	uploaders    map[string]distribution.Uploader
	uploadEvery  time.Duration
	commentDelay time.Duration
	batchSize    int
	maxAttempts  int
	now          func() time.Time
	sleep        func(time.Duration)
}

func New(store *ledger.Store, uploaders []distribution.Uploader, opts Options) *Scheduler {
	byPlatform := make(map[string]distribution.Uploader, len(uploaders))
	for _, u := range uploaders {
		byPlatform[u.Platform()] = u
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &Scheduler{
		store:        store,
		uploaders:    byPlatform,
		uploadEvery:  opts.UploadEvery,
		commentDelay: opts.CommentDelay,
		batchSize:    opts.BatchSize,
		maxAttempts:  opts.MaxAttempts,
		now:          now,
		sleep:        sleep,
	}
}

// ShouldUpload reports whether the platform's upload interval has elapsed.
// A ledger read failure answers "not due": skipping one cron tick is cheap,
// double-posting because the history was unreadable is not.
func (s *Scheduler) ShouldUpload(ctx context.Context, platform string) bool {
	last, ok, err := s.store.LastUploadedAt(ctx, platform)
	if err != nil {
		slog.Warn("Upload history unavailable, skipping tick", "platform", platform, "error", err)
		return false
	}
	if !ok {
		return true
	}
	return s.now().Sub(last) >= s.uploadEvery
}

// ScheduleAnswer queues the reveal comment for a freshly uploaded video.
func (s *Scheduler) ScheduleAnswer(ctx context.Context, platform, videoID string, q question.Question) error {
	runAt := s.now().Add(s.commentDelay)
	if err := s.store.ScheduleComment(ctx, platform, videoID, AnswerComment(q), runAt); err != nil {
		return fmt.Errorf("schedule answer comment: %w", err)
	}
	slog.Info("Answer comment scheduled", "platform", platform, "videoId", videoID, "runAt", runAt)
	return nil
}

// ProcessDueComments posts every comment whose reveal time has passed. Each
// failure is isolated to its comment; the batch keeps going, pausing briefly
// after a failure so a struggling API is not hammered.
func (s *Scheduler) ProcessDueComments(ctx context.Context) error {
	due, err := s.store.DueComments(ctx, s.now(), s.batchSize)
	if err != nil {
		// A ledger hiccup skips this batch; the comments stay due and the
		// next tick picks them up.
		slog.Warn("Due comments unavailable, skipping batch", "error", err)
		return nil
	}

	for _, c := range due {
		if c.Attempts >= s.maxAttempts {
			slog.Warn("Comment out of attempts, leaving for manual review",
				"platform", c.Platform, "videoId", c.VideoID, "attempts", c.Attempts, "lastError", c.LastError)
			continue
		}

		uploader, ok := s.uploaders[c.Platform]
		if !ok {
			slog.Warn("No uploader for platform, skipping comment", "platform", c.Platform, "videoId", c.VideoID)
			continue
		}

		if err := uploader.PostComment(ctx, c.VideoID, c.Body); err != nil {
			slog.Warn("Comment post failed", "platform", c.Platform, "videoId", c.VideoID, "attempts", c.Attempts+1, "error", err)
			if markErr := s.store.MarkCommentFailed(ctx, c.ID, err.Error(), s.now()); markErr != nil {
				slog.Error("Failed to record comment failure", "videoId", c.VideoID, "error", markErr)
			}
			s.sleep(failureBackoff(c.Attempts))
			continue
		}

		postedAt := s.now()
		if err := s.store.MarkCommentPosted(ctx, c.ID, postedAt); err != nil {
			slog.Warn("Failed to record comment as posted", "videoId", c.VideoID, "error", err)
			continue
		}
		if err := s.store.MarkUploadCommented(ctx, c.Platform, c.VideoID, postedAt); err != nil {
			slog.Warn("Failed to flag upload as commented", "videoId", c.VideoID, "error", err)
		}
		slog.Info("Answer comment posted", "platform", c.Platform, "videoId", c.VideoID)
	}
	return nil
}

// AnswerComment is the reveal text posted under the video.
func AnswerComment(q question.Question) string {
	letter := '?'
	for i, opt := range q.Options {
		if opt == q.Answer {
			letter = rune('A' + i)
			break
		}
	}
	return fmt.Sprintf("✅ Correct answer: %c) %s\n\nDid you get it right? 👇", letter, q.Answer)
}

// failureBackoff grows with the attempt count already on record.
func failureBackoff(attempts int) time.Duration {
	d := backoffBase + time.Duration(attempts)*backoffPerTry
	if d > backoffCeiling {
		return backoffCeiling
	}
	return d
}

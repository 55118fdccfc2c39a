package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PendingComment is one answer comment waiting for its reveal time.
type PendingComment struct {
	ID        int64
	Platform  string
	VideoID   string
	Body      string
	RunAt     time.Time
	CreatedAt time.Time
	Attempts  int
	LastError string
	LastTryAt *time.Time
	PostedAt  *time.Time
}

// Posted reports whether the comment has already gone out.
func (p PendingComment) Posted() bool {
	return p.PostedAt != nil
}

// ScheduleComment queues an answer comment to be posted at runAt. Scheduling
// the same platform/video pair again is a no-op, so a crash after upload but
// before the schedule write can be retried safely.
func (s *Store) ScheduleComment(ctx context.Context, platform, videoID, body string, runAt time.Time) error {
	_, err := s.execWithRetry(ctx, `
		INSERT INTO pending_comments (platform, video_id, body, run_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (platform, video_id) DO NOTHING`,
		platform, videoID, body, formatTime(runAt), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("schedule comment: %w", err)
	}
	return nil
}

// DueComments returns unposted comments whose reveal time has passed,
// oldest first, capped at limit.
func (s *Store) DueComments(ctx context.Context, now time.Time, limit int) ([]PendingComment, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, platform, video_id, body, run_at, created_at, attempts, last_error, last_try_at, posted_at
		FROM pending_comments
		WHERE posted_at IS NULL AND run_at <= ?
		ORDER BY run_at ASC
		LIMIT ?`,
		formatTime(now), limit)
	if err != nil {
		return nil, fmt.Errorf("query due comments: %w", err)
	}
	defer rows.Close()

	var due []PendingComment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		due = append(due, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due comments: %w", err)
	}
	return due, nil
}

// MarkCommentPosted finalizes a comment: records the post time and clears
// any error left over from earlier attempts.
func (s *Store) MarkCommentPosted(ctx context.Context, id int64, postedAt time.Time) error {
	_, err := s.execWithRetry(ctx, `
		UPDATE pending_comments
		SET posted_at = ?, last_error = ''
		WHERE id = ?`,
		formatTime(postedAt), id)
	if err != nil {
		return fmt.Errorf("mark comment posted: %w", err)
	}
	return nil
}

// MarkCommentFailed records one failed attempt. The comment stays due and
// will be retried on a later tick until it runs out of attempts.
func (s *Store) MarkCommentFailed(ctx context.Context, id int64, cause string, triedAt time.Time) error {
	_, err := s.execWithRetry(ctx, `
		UPDATE pending_comments
		SET attempts = attempts + 1, last_error = ?, last_try_at = ?
		WHERE id = ?`,
		cause, formatTime(triedAt), id)
	if err != nil {
		return fmt.Errorf("mark comment failed: %w", err)
	}
	return nil
}

// ListComments returns every pending comment, unposted first, for the queue
// inspection command.
func (s *Store) ListComments(ctx context.Context) ([]PendingComment, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, platform, video_id, body, run_at, created_at, attempts, last_error, last_try_at, posted_at
		FROM pending_comments
		ORDER BY posted_at IS NOT NULL, run_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var all []PendingComment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return all, nil
}

func scanComment(rows *sql.Rows) (PendingComment, error) {
	var (
		c            PendingComment
		runAtRaw     string
		createdAtRaw string
		lastTryRaw   sql.NullString
		postedAtRaw  sql.NullString
	)
	if err := rows.Scan(&c.ID, &c.Platform, &c.VideoID, &c.Body, &runAtRaw, &createdAtRaw,
		&c.Attempts, &c.LastError, &lastTryRaw, &postedAtRaw); err != nil {
		return PendingComment{}, fmt.Errorf("scan comment: %w", err)
	}

	runAt, err := parseTime(runAtRaw)
	if err != nil {
		return PendingComment{}, err
	}
	c.RunAt = runAt

	createdAt, err := parseTime(createdAtRaw)
	if err != nil {
		return PendingComment{}, err
	}
	c.CreatedAt = createdAt

	if lastTryRaw.Valid {
		lastTry, err := parseTime(lastTryRaw.String)
		if err != nil {
			return PendingComment{}, err
		}
		c.LastTryAt = &lastTry
	}

	if postedAtRaw.Valid {
		postedAt, err := parseTime(postedAtRaw.String)
		if err != nil {
			return PendingComment{}, err
		}
		c.PostedAt = &postedAt
	}
	return c, nil
}

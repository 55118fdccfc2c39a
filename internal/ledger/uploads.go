package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Upload records one video that went out to a platform, with a snapshot of
// the question it carried so the history is readable without the bank.
type Upload struct {
	ID          int64
	Platform    string
	VideoID     string
	Title       string
	QuestionKey string
	Question    string
	Answer      string
	Category    string
	Difficulty  string
	UploadedAt  time.Time
	Commented   bool
	CommentedAt *time.Time
}

// RecordUpload persists a completed upload.
func (s *Store) RecordUpload(ctx context.Context, rec Upload) error {
	_, err := s.execWithRetry(ctx, `
		INSERT INTO uploads (platform, video_id, title, question_key, question, answer, category, difficulty, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (platform, video_id) DO NOTHING`,
		rec.Platform, rec.VideoID, rec.Title, rec.QuestionKey,
		rec.Question, rec.Answer, rec.Category, rec.Difficulty,
		formatTime(rec.UploadedAt))
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

// LastUploadedAt returns the most recent upload time for a platform and
// whether any upload exists at all.
func (s *Store) LastUploadedAt(ctx context.Context, platform string) (time.Time, bool, error) {
	ctx = ensureContext(ctx)
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT uploaded_at FROM uploads
		WHERE platform = ?
		ORDER BY uploaded_at DESC
		LIMIT 1`,
		platform).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query last upload: %w", err)
	}

	at, err := parseTime(raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

// MarkUploadCommented flips the commented flag once the answer comment for
// the video has been posted.
func (s *Store) MarkUploadCommented(ctx context.Context, platform, videoID string, commentedAt time.Time) error {
	_, err := s.execWithRetry(ctx, `
		UPDATE uploads SET commented = 1, commented_at = ?
		WHERE platform = ? AND video_id = ?`,
		formatTime(commentedAt), platform, videoID)
	if err != nil {
		return fmt.Errorf("mark upload commented: %w", err)
	}
	return nil
}

// ListUploads returns uploads newest first for the status command.
func (s *Store) ListUploads(ctx context.Context, limit int) ([]Upload, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, platform, video_id, title, question_key, question, answer, category, difficulty, uploaded_at, commented, commented_at
		FROM uploads
		ORDER BY uploaded_at DESC
		LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []Upload
	for rows.Next() {
		var (
			u              Upload
			uploadedRaw    string
			commented      int
			commentedAtRaw sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Platform, &u.VideoID, &u.Title, &u.QuestionKey,
			&u.Question, &u.Answer, &u.Category, &u.Difficulty,
			&uploadedRaw, &commented, &commentedAtRaw); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		at, err := parseTime(uploadedRaw)
		if err != nil {
			return nil, err
		}
		u.UploadedAt = at
		u.Commented = commented != 0
		if commentedAtRaw.Valid {
			commentedAt, err := parseTime(commentedAtRaw.String)
			if err != nil {
				return nil, err
			}
			u.CommentedAt = &commentedAt
		}
		uploads = append(uploads, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return uploads, nil
}

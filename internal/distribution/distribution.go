// Package distribution publishes finished videos to the platforms that have
// an API and posts the delayed answer comments.
package distribution

import "context"

type UploadRequest struct {
	FilePath    string
	Title       string
	Description string
	Tags        []string
	Privacy     string
}

// Outcome distinguishes a successful upload from the platform refusing more
// uploads today. Quota exhaustion is an expected state the scheduler plans
// around, not a transport failure.
type Outcome string

const (
	OutcomeUploaded      Outcome = "uploaded"
	OutcomeQuotaExceeded Outcome = "quota_exceeded"
)

type UploadResult struct {
	Outcome Outcome
	VideoID string
	URL     string
}

// Uploader publishes one video and posts comments on earlier ones.
type Uploader interface {
	Platform() string
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
	PostComment(ctx context.Context, videoID, text string) error
}

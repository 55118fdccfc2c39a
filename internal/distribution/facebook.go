package distribution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"quizreel/pkg/httputil"
)

const (
	facebookGraphURL     = "https://graph-video.facebook.com/v19.0"
	facebookAPIURL       = "https://graph.facebook.com/v19.0"
	facebookPlatform     = "facebook"
	facebookPollInterval = 5 * time.Second
	facebookPollLimit    = 30
)

// FacebookUploader publishes Reels to a page through the Graph API using a
// long-lived page access token.
type FacebookUploader struct {
	pageID       string
	accessToken  string
	graphURL     string
	apiURL       string
	pollInterval time.Duration
	client       *httputil.RetryClient
}

func NewFacebookUploader(pageID, accessToken string) *FacebookUploader {
	return &FacebookUploader{
		pageID:       pageID,
		accessToken:  accessToken,
		graphURL:     facebookGraphURL,
		apiURL:       facebookAPIURL,
		pollInterval: facebookPollInterval,
		client:       httputil.NewRetryClient(&http.Client{Timeout: 5 * time.Minute}, httputil.DefaultRetryConfig()),
	}
}

func (u *FacebookUploader) Platform() string {
	return facebookPlatform
}

func (u *FacebookUploader) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	videoFile, err := os.Open(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open video file: %w", err)
	}
	defer func() { _ = videoFile.Close() }()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"access_token": u.accessToken,
		"title":        req.Title,
		"description":  req.Description,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	videoPart, err := writer.CreateFormFile("source", filepath.Base(req.FilePath))
	if err != nil {
		return nil, fmt.Errorf("create video part: %w", err)
	}
	if _, err := io.Copy(videoPart, videoFile); err != nil {
		return nil, fmt.Errorf("copy video: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	url := fmt.Sprintf("%s/%s/videos", u.graphURL, u.pageID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if isFacebookLimitError(respBody) {
			return &UploadResult{Outcome: OutcomeQuotaExceeded}, nil
		}
		return nil, fmt.Errorf("upload failed: %s", string(respBody))
	}

	var uploadResp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &uploadResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if err := u.waitForProcessing(ctx, uploadResp.ID); err != nil {
		slog.Warn("Video accepted but processing not confirmed", "videoId", uploadResp.ID, "error", err)
	}

	return &UploadResult{
		Outcome: OutcomeUploaded,
		VideoID: uploadResp.ID,
		URL:     fmt.Sprintf("https://www.facebook.com/%s", uploadResp.ID),
	}, nil
}

// waitForProcessing polls the video status until the Graph API reports it
// ready. Processing delays are not upload failures, so the caller only logs.
func (u *FacebookUploader) waitForProcessing(ctx context.Context, videoID string) error {
	url := fmt.Sprintf("%s/%s?fields=status&access_token=%s", u.apiURL, videoID, u.accessToken)

	for attempt := 0; attempt < facebookPollLimit; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(u.pollInterval):
			}
		}

		status, err := u.videoStatus(ctx, url)
		if err != nil {
			return err
		}
		switch status {
		case "ready":
			return nil
		case "error":
			return fmt.Errorf("video processing failed")
		}
	}
	return fmt.Errorf("video still processing after %d checks", facebookPollLimit)
}

func (u *FacebookUploader) videoStatus(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create status request: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read status: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status request failed: %s", string(body))
	}

	var parsed struct {
		Status struct {
			VideoStatus string `json:"video_status"`
		} `json:"status"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse status: %w", err)
	}
	return parsed.Status.VideoStatus, nil
}

// PostComment adds a page comment under the video.
func (u *FacebookUploader) PostComment(ctx context.Context, videoID, text string) error {
	payload := map[string]string{
		"access_token": u.accessToken,
		"message":      text,
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}

	url := fmt.Sprintf("%s/%s/comments", u.apiURL, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadJSON))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("post comment: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("comment failed: %s", string(respBody))
	}
	return nil
}

// Graph API error code 4 is the application request limit; subcode 1349210
// is the page publishing cap.
func isFacebookLimitError(body []byte) bool {
	var parsed struct {
		Error struct {
			Code    int `json:"code"`
			Subcode int `json:"error_subcode"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false
	}
	return parsed.Error.Code == 4 || parsed.Error.Code == 17 || parsed.Error.Subcode == 1349210
}

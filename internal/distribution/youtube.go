package distribution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"quizreel/pkg/httputil"
)

const (
	youtubeUploadURL   = "https://www.googleapis.com/upload/youtube/v3/videos"
	youtubeCommentsURL = "https://www.googleapis.com/youtube/v3/commentThreads"
	youtubeCategoryID  = "24"
	youtubePlatform    = "youtube"
)

var youtubeScopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}

// Daily-limit reasons the videos.insert call reports inside its error body.
var youtubeQuotaReasons = map[string]bool{
	"uploadLimitExceeded":   true,
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

type YouTubeAuth struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenPath string
}

func NewYouTubeAuth(clientID, clientSecret, tokenPath string) *YouTubeAuth {
	return &YouTubeAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       youtubeScopes,
			RedirectURL:  "http://localhost:8080/callback",
		},
		tokenPath: tokenPath,
	}
}

func (a *YouTubeAuth) LoadToken() error {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("parse token: %w", err)
	}

	a.token = &token
	return nil
}

func (a *YouTubeAuth) SaveToken() error {
	data, err := json.MarshalIndent(a.token, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.WriteFile(a.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (a *YouTubeAuth) AuthURL() string {
	return a.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

func (a *YouTubeAuth) Exchange(ctx context.Context, code string) error {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	a.token = token
	return a.SaveToken()
}

func (a *YouTubeAuth) Client(ctx context.Context) (*http.Client, error) {
	if a.token == nil {
		if err := a.LoadToken(); err != nil {
			return nil, err
		}
	}
	return a.config.Client(ctx, a.token), nil
}

func (a *YouTubeAuth) IsAuthenticated() bool {
	if a.token == nil {
		if err := a.LoadToken(); err != nil {
			return false
		}
	}
	return a.token != nil && a.token.Valid()
}

type YouTubeUploader struct {
	auth        *YouTubeAuth
	uploadURL   string
	commentsURL string
	retry       httputil.RetryConfig
	client      *http.Client // set by tests to bypass oauth
}

func NewYouTubeUploader(auth *YouTubeAuth) *YouTubeUploader {
	return &YouTubeUploader{
		auth:        auth,
		uploadURL:   youtubeUploadURL,
		commentsURL: youtubeCommentsURL,
		retry:       httputil.DefaultRetryConfig(),
	}
}

// httpClient wraps the authenticated client so transient 5xx and 429
// responses are retried with backoff instead of failing the run.
func (u *YouTubeUploader) httpClient(ctx context.Context) (*httputil.RetryClient, error) {
	base := u.client
	if base == nil {
		var err error
		base, err = u.auth.Client(ctx)
		if err != nil {
			return nil, err
		}
	}
	return httputil.NewRetryClient(base, u.retry), nil
}

func (u *YouTubeUploader) Platform() string {
	return youtubePlatform
}

func (u *YouTubeUploader) Auth() *YouTubeAuth {
	return u.auth
}

type videoSnippet struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"categoryId"`
}

type videoStatus struct {
	PrivacyStatus string `json:"privacyStatus"`
}

type videoMetadata struct {
	Snippet videoSnippet `json:"snippet"`
	Status  videoStatus  `json:"status"`
}

type youtubeErrorBody struct {
	Error struct {
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Upload sends the video through the multipart videos.insert endpoint.
// Hitting the daily upload limit is reported as OutcomeQuotaExceeded rather
// than an error so the caller can defer the video instead of failing.
func (u *YouTubeUploader) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	httpClient, err := u.httpClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("get auth client: %w", err)
	}

	metadata := videoMetadata{
		Snippet: videoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryID:  youtubeCategoryID,
		},
		Status: videoStatus{
			PrivacyStatus: req.Privacy,
		},
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	videoFile, err := os.Open(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open video file: %w", err)
	}
	defer func() { _ = videoFile.Close() }()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	metadataPart, err := writer.CreateFormField("snippet")
	if err != nil {
		return nil, fmt.Errorf("create metadata part: %w", err)
	}
	if _, err := metadataPart.Write(metadataJSON); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	videoPart, err := writer.CreateFormFile("file", filepath.Base(req.FilePath))
	if err != nil {
		return nil, fmt.Errorf("create video part: %w", err)
	}
	if _, err := io.Copy(videoPart, videoFile); err != nil {
		return nil, fmt.Errorf("copy video: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	url := fmt.Sprintf("%s?uploadType=multipart&part=snippet,status", u.uploadURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if isYouTubeQuotaError(respBody) {
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

	return &UploadResult{
		Outcome: OutcomeUploaded,
		VideoID: uploadResp.ID,
		URL:     fmt.Sprintf("https://youtube.com/watch?v=%s", uploadResp.ID),
	}, nil
}

// PostComment inserts a top-level comment thread on the video.
func (u *YouTubeUploader) PostComment(ctx context.Context, videoID, text string) error {
	httpClient, err := u.httpClient(ctx)
	if err != nil {
		return fmt.Errorf("get auth client: %w", err)
	}

	payload := map[string]any{
		"snippet": map[string]any{
			"videoId": videoID,
			"topLevelComment": map[string]any{
				"snippet": map[string]string{
					"textOriginal": text,
				},
			},
		},
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}

	url := fmt.Sprintf("%s?part=snippet", u.commentsURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadJSON))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
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

func isYouTubeQuotaError(body []byte) bool {
	var parsed youtubeErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false
	}
	for _, e := range parsed.Error.Errors {
		if youtubeQuotaReasons[e.Reason] {
			return true
		}
	}
	return false
}

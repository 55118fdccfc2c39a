// Package thumbs resolves small illustration images for quiz options from
// the Wikipedia pageimages API and keeps them in a content-addressed disk
// cache so repeated renders never refetch.
package thumbs

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"

	"quizreel/pkg/httputil"
)

const (
	defaultBaseURL = "https://en.wikipedia.org/w/api.php"
	thumbSize      = 128
	minSourceSize  = 80
	fetchTimeout   = 15 * time.Second
)

type Fetcher struct {
	cacheDir string
	baseURL  string
	client   *httputil.RetryClient
}

type Option func(*Fetcher)

// WithBaseURL points the fetcher at a different API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = u }
}

func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = httputil.NewRetryClient(c, httputil.DefaultRetryConfig()) }
}

func New(cacheDir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		cacheDir: cacheDir,
		baseURL:  defaultBaseURL,
		client:   httputil.NewRetryClient(&http.Client{Timeout: fetchTimeout}, httputil.DefaultRetryConfig()),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Prefetch resolves thumbnails for every term before rendering starts, so
// the frame loop never waits on the network. Failures are logged and the
// term simply renders without an image.
func (f *Fetcher) Prefetch(ctx context.Context, terms []string) {
	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		slog.Warn("Thumbnail cache unavailable", "dir", f.cacheDir, "error", err)
		return
	}
	for _, term := range terms {
		if _, err := os.Stat(f.cachePath(term)); err == nil {
			continue
		}
		if err := f.fetch(ctx, term); err != nil {
			slog.Warn("Thumbnail fetch failed", "term", term, "error", err)
		}
	}
}

// Thumbnail satisfies the renderer's lookup interface from the disk cache
// alone; call Prefetch first.
func (f *Fetcher) Thumbnail(term string) (image.Image, bool) {
	file, err := os.Open(f.cachePath(term))
	if err != nil {
		return nil, false
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, false
	}
	return img, true
}

// cachePath keys the cache on the normalized term so "Lionel Messi" and
// " lionel messi " share one file.
func (f *Fetcher) cachePath(term string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(term))))
	return filepath.Join(f.cacheDir, fmt.Sprintf("%x.png", sum))
}

func (f *Fetcher) fetch(ctx context.Context, term string) error {
	src, err := f.thumbnailURL(ctx, term)
	if err != nil {
		return err
	}
	if src == "" {
		return fmt.Errorf("no page image for %q", term)
	}

	img, err := f.download(ctx, src)
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	if bounds.Dx() < minSourceSize || bounds.Dy() < minSourceSize {
		return fmt.Errorf("thumbnail for %q too small: %dx%d", term, bounds.Dx(), bounds.Dy())
	}

	out, err := os.Create(f.cachePath(term))
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, centerCrop(img)); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}

// centerCrop trims the longer axis so the cached image is square and the
// renderer never has to stretch it.
func centerCrop(img image.Image) image.Image {
	bounds := img.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	if side == bounds.Dx() && side == bounds.Dy() {
		return img
	}

	x0 := bounds.Min.X + (bounds.Dx()-side)/2
	y0 := bounds.Min.Y + (bounds.Dy()-side)/2
	out := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(out, out.Bounds(), img, image.Pt(x0, y0), draw.Src)
	return out
}

// thumbnailURL asks the pageimages API for the lead image of the article
// matching term.
func (f *Fetcher) thumbnailURL(ctx context.Context, term string) (string, error) {
	params := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"prop":          {"pageimages"},
		"piprop":        {"thumbnail"},
		"pithumbsize":   {fmt.Sprint(thumbSize)},
		"titles":        {term},
		"redirects":     {"1"},
		"formatversion": {"2"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("query pageimages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pageimages status %d", resp.StatusCode)
	}

	var payload struct {
		Query struct {
			Pages []struct {
				Thumbnail struct {
					Source string `json:"source"`
				} `json:"thumbnail"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode pageimages response: %w", err)
	}

	for _, page := range payload.Query.Pages {
		if page.Thumbnail.Source != "" {
			return page.Thumbnail.Source, nil
		}
	}
	return "", nil
}

func (f *Fetcher) download(ctx context.Context, src string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thumbnail status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail: %w", err)
	}
	return img, nil
}

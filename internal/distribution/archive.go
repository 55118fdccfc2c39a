package distribution

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Archiver keeps finished videos for the platforms without an upload API.
// Everything lands in a local directory; when a bucket is configured the
// video is mirrored to GCS as well so it can be posted from a phone.
type Archiver struct {
	dir       string
	bucket    string
	gcsPrefix string
	client    *storage.Client
}

func NewArchiver(dir string) *Archiver {
	return &Archiver{dir: dir}
}

// NewGCSArchiver also mirrors archived videos into gs://bucket/prefix.
func NewGCSArchiver(ctx context.Context, dir, bucket, prefix string) (*Archiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &Archiver{dir: dir, bucket: bucket, gcsPrefix: prefix, client: client}, nil
}

func (a *Archiver) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// Archive stores the video under <platform>/<name> locally and, when
// configured, in the bucket. It returns the local archive path.
func (a *Archiver) Archive(ctx context.Context, platformName, videoPath string) (string, error) {
	name := filepath.Base(videoPath)
	localDir := filepath.Join(a.dir, platformName)
	if err := os.MkdirAll(localDir, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	localPath := filepath.Join(localDir, name)
	if err := copyFile(videoPath, localPath); err != nil {
		return "", fmt.Errorf("archive video: %w", err)
	}

	if a.client != nil {
		object := filepath.ToSlash(filepath.Join(a.gcsPrefix, platformName, name))
		if err := a.uploadObject(ctx, videoPath, object); err != nil {
			return "", fmt.Errorf("mirror to gs://%s/%s: %w", a.bucket, object, err)
		}
	}
	return localPath, nil
}

// List returns the mirrored object names for a platform, for the status
// command. Without a bucket it lists the local archive directory instead.
func (a *Archiver) List(ctx context.Context, platformName string) ([]string, error) {
	if a.client == nil {
		return a.listLocal(platformName)
	}

	prefix := filepath.ToSlash(filepath.Join(a.gcsPrefix, platformName)) + "/"
	it := a.client.Bucket(a.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func (a *Archiver) listLocal(platformName string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.dir, platformName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list archive dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (a *Archiver) uploadObject(ctx context.Context, localPath, object string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer func() { _ = src.Close() }()

	w := a.client.Bucket(a.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object: %w", err)
	}
	return w.Close()
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

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// Package videocache keeps finished videos keyed by the content hash of the
// question they were rendered from, so re-running the pipeline on the same
// question skips the render and encode entirely.
package videocache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Cache struct {
	dir string
}

func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Lookup returns the cached video path for a platform and content key. The
// file is checked on disk every time; a cache entry removed out of band is
// simply a miss.
func (c *Cache) Lookup(platformName, key string) (string, bool) {
	path := c.entryPath(platformName, key)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return "", false
	}
	return path, true
}

// Store copies the finished video into the cache and returns the cached
// path. The copy goes through a temp file so a crash mid-write never leaves
// a truncated entry behind.
func (c *Cache) Store(platformName, key, srcPath string) (string, error) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open video: %w", err)
	}
	defer src.Close()

	dst := c.entryPath(platformName, key)
	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create cache temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("copy video into cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close cache temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("commit cache entry: %w", err)
	}
	return dst, nil
}

func (c *Cache) entryPath(platformName, key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.mp4", platformName, key))
}

package distribution

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestArchiveLocal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tiktok_abc123.mp4")
	if err := os.WriteFile(src, []byte("mp4 bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	a := NewArchiver(filepath.Join(dir, "archive"))
	path, err := a.Archive(context.Background(), "tiktok", src)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archived file: %v", err)
	}
	if string(data) != "mp4 bytes" {
		t.Errorf("archived content = %q", data)
	}
	if filepath.Base(filepath.Dir(path)) != "tiktok" {
		t.Errorf("archive path %q not grouped by platform", path)
	}
}

func TestArchiveListLocal(t *testing.T) {
	a := NewArchiver(t.TempDir())

	names, err := a.List(context.Background(), "tiktok")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}

	src := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Archive(context.Background(), "tiktok", src); err != nil {
		t.Fatal(err)
	}

	names, err = a.List(context.Background(), "tiktok")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "clip.mp4" {
		t.Errorf("names = %v, want [clip.mp4]", names)
	}

	if names, _ := a.List(context.Background(), "facebook"); len(names) != 0 {
		t.Errorf("other platform names = %v, want empty", names)
	}
}

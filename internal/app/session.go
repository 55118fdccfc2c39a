package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// session owns the scratch space of one pipeline run. Frames are large, so
// everything lands in a run-scoped directory that cleanup removes whole.
type session struct {
	id      string
	workDir string
}

func newSession(baseDir string) (*session, error) {
	s := &session{id: uuid.NewString()}
	s.workDir = filepath.Join(baseDir, "run_"+s.id)
	if err := os.MkdirAll(s.workDir, 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return s, nil
}

func (s *session) baseFramesDir() string {
	return filepath.Join(s.workDir, "frames_base")
}

func (s *session) platformFramesDir(platform string) string {
	return filepath.Join(s.workDir, "frames_"+platform)
}

func (s *session) videoPath(platform, key string) string {
	return filepath.Join(s.workDir, fmt.Sprintf("%s_%s.mp4", platform, key))
}

func (s *session) cleanup() {
	_ = os.RemoveAll(s.workDir)
}

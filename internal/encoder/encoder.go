// Package encoder turns a directory of numbered frames into a finished
// vertical video by shelling out to ffmpeg.
package encoder

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	defaultFFmpegPath = "ffmpeg"
	framePattern      = "frame_%04d.png"
)

type Encoder struct {
	ffmpegPath  string
	fps         int
	musicDir    string
	musicVolume float64
}

type Options struct {
	FFmpegPath  string
	FPS         int
	MusicDir    string
	MusicVolume float64
}

func New(opts Options) *Encoder {
	ffmpegPath := opts.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = defaultFFmpegPath
	}
	musicVolume := opts.MusicVolume
	if musicVolume == 0 {
		musicVolume = 0.18
	}
	return &Encoder{
		ffmpegPath:  ffmpegPath,
		fps:         opts.FPS,
		musicDir:    opts.MusicDir,
		musicVolume: musicVolume,
	}
}

// Encode assembles the frames under framesDir into outputPath. A random
// background track is mixed in when the music directory has one; the video
// stream always bounds the duration.
func (e *Encoder) Encode(ctx context.Context, framesDir, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	musicPath := e.selectMusicTrack()
	args := e.buildArgs(framesDir, musicPath, outputPath)

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w, output: %s", err, string(output))
	}
	return nil
}

func (e *Encoder) buildArgs(framesDir, musicPath, outputPath string) []string {
	args := []string{
		"-y",
		"-framerate", fmt.Sprint(e.fps),
		"-i", filepath.Join(framesDir, framePattern),
	}

	if musicPath != "" {
		args = append(args,
			"-i", musicPath,
			"-shortest",
			"-af", fmt.Sprintf("volume=%.2f", e.musicVolume),
		)
	}

	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		outputPath,
	)
	return args
}

func (e *Encoder) selectMusicTrack() string {
	if e.musicDir == "" {
		return ""
	}

	entries, err := os.ReadDir(e.musicDir)
	if err != nil {
		return ""
	}

	var tracks []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if strings.HasSuffix(name, ".mp3") || strings.HasSuffix(name, ".wav") || strings.HasSuffix(name, ".m4a") {
			tracks = append(tracks, filepath.Join(e.musicDir, entry.Name()))
		}
	}

	if len(tracks) == 0 {
		return ""
	}
	return tracks[rand.Intn(len(tracks))]
}

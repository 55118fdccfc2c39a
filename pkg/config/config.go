package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath       = "config.yaml"
	defaultQuestionsPath    = "./data/questions.json"
	defaultOutputDir        = "./output/renders"
	defaultCacheDir         = "./output/cache"
	defaultStateDir         = "./output/state"
	defaultArchiveDir       = "./output/archive"
	defaultBackgroundDir    = "./assets/backgrounds"
	defaultFontsDir         = "./assets/fonts"
	defaultMusicDir         = "./assets/music"
	defaultIconsDir         = "./assets/icons"
	defaultLogoPath         = "./assets/logo.png"
	defaultThumbCacheDir    = "./assets/option_images"
	defaultTokenPath        = "./youtube_token.json"
	defaultFPS              = 30
	defaultQuizDuration     = 13
	defaultUploadEveryHours = 12
	defaultCommentDelay     = 24
	defaultCommentBatch     = 20
	defaultMaxAttempts      = 6
	defaultMusicVolume      = 0.18
	defaultGroqModel        = "llama-3.3-70b-versatile"
	defaultGCSPrefix        = "renders"
)

type Config struct {
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeTokenPath    string
	MetaPageID          string
	MetaPageToken       string
	GroqAPIKey          string
	GCSBucket           string
	DryRun              bool

	Video     VideoConfig     `yaml:"video"`
	Assets    AssetsConfig    `yaml:"assets"`
	Questions QuestionsConfig `yaml:"questions"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Groq      GroqConfig      `yaml:"groq"`
}

type VideoConfig struct {
	FPS          int     `yaml:"fps"`
	QuizDuration int     `yaml:"quiz_duration"`
	OutputDir    string  `yaml:"output_dir"`
	CacheDir     string  `yaml:"cache_dir"`
	MusicVolume  float64 `yaml:"music_volume"`
}

type AssetsConfig struct {
	BackgroundDir string `yaml:"background_dir"`
	FontsDir      string `yaml:"fonts_dir"`
	MusicDir      string `yaml:"music_dir"`
	IconsDir      string `yaml:"icons_dir"`
	LogoPath      string `yaml:"logo_path"`
	ThumbCacheDir string `yaml:"thumb_cache_dir"`
}

type QuestionsConfig struct {
	DataPath string `yaml:"data_path"`
	UsedPath string `yaml:"used_path"`
}

type ScheduleConfig struct {
	UploadEveryHours  int    `yaml:"upload_every_hours"`
	CommentDelayHours int    `yaml:"comment_delay_hours"`
	CommentBatchSize  int    `yaml:"comment_batch_size"`
	MaxAttempts       int    `yaml:"max_attempts"`
	StateDir          string `yaml:"state_dir"`
}

type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Dir       string `yaml:"dir"`
	GCSPrefix string `yaml:"gcs_prefix"`
}

type GroqConfig struct {
	Model string `yaml:"model"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeTokenPath:    getEnvOrDefault("YOUTUBE_TOKEN_PATH", defaultTokenPath),
		MetaPageID:          os.Getenv("META_PAGE_ID"),
		MetaPageToken:       os.Getenv("META_PAGE_ACCESS_TOKEN"),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		GCSBucket:           os.Getenv("GCS_BUCKET"),
		DryRun:              envBool("DRY_RUN"),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	return cfg
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	applyVideoDefaults(cfg)
	applyAssetsDefaults(cfg)
	applyQuestionsDefaults(cfg)
	applyScheduleDefaults(cfg)
	applyArchiveDefaults(cfg)
	applyGroqDefaults(cfg)
}

func applyVideoDefaults(cfg *Config) {
	if cfg.Video.FPS == 0 {
		cfg.Video.FPS = defaultFPS
	}
	if cfg.Video.QuizDuration == 0 {
		cfg.Video.QuizDuration = defaultQuizDuration
	}
	if cfg.Video.OutputDir == "" {
		cfg.Video.OutputDir = defaultOutputDir
	}
	if cfg.Video.CacheDir == "" {
		cfg.Video.CacheDir = defaultCacheDir
	}
	if cfg.Video.MusicVolume == 0 {
		cfg.Video.MusicVolume = defaultMusicVolume
	}
}

func applyAssetsDefaults(cfg *Config) {
	if cfg.Assets.BackgroundDir == "" {
		cfg.Assets.BackgroundDir = defaultBackgroundDir
	}
	if cfg.Assets.FontsDir == "" {
		cfg.Assets.FontsDir = defaultFontsDir
	}
	if cfg.Assets.MusicDir == "" {
		cfg.Assets.MusicDir = defaultMusicDir
	}
	if cfg.Assets.IconsDir == "" {
		cfg.Assets.IconsDir = defaultIconsDir
	}
	if cfg.Assets.LogoPath == "" {
		cfg.Assets.LogoPath = defaultLogoPath
	}
	if cfg.Assets.ThumbCacheDir == "" {
		cfg.Assets.ThumbCacheDir = defaultThumbCacheDir
	}
}

func applyQuestionsDefaults(cfg *Config) {
	if cfg.Questions.DataPath == "" {
		cfg.Questions.DataPath = defaultQuestionsPath
	}
	if cfg.Questions.UsedPath == "" {
		cfg.Questions.UsedPath = filepath.Join(filepath.Dir(cfg.Questions.DataPath), ".used.json")
	}
}

func applyScheduleDefaults(cfg *Config) {
	if cfg.Schedule.UploadEveryHours == 0 {
		cfg.Schedule.UploadEveryHours = defaultUploadEveryHours
	}
	if cfg.Schedule.CommentDelayHours == 0 {
		cfg.Schedule.CommentDelayHours = defaultCommentDelay
	}
	if cfg.Schedule.CommentBatchSize == 0 {
		cfg.Schedule.CommentBatchSize = defaultCommentBatch
	}
	if cfg.Schedule.MaxAttempts == 0 {
		cfg.Schedule.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Schedule.StateDir == "" {
		cfg.Schedule.StateDir = defaultStateDir
	}
}

func applyArchiveDefaults(cfg *Config) {
	if cfg.Archive.Dir == "" {
		cfg.Archive.Dir = defaultArchiveDir
	}
	if cfg.Archive.GCSPrefix == "" {
		cfg.Archive.GCSPrefix = defaultGCSPrefix
	}
}

func applyGroqDefaults(cfg *Config) {
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = defaultGroqModel
	}
}

func (c *Config) LedgerPath() string {
	return filepath.Join(c.Schedule.StateDir, "ledger.db")
}

func (c *Config) TickLockPath() string {
	return filepath.Join(c.Schedule.StateDir, "tick.lock")
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Video.OutputDir,
		c.Video.CacheDir,
		c.Schedule.StateDir,
		c.Assets.ThumbCacheDir,
	}
	if c.Archive.Enabled {
		dirs = append(dirs, c.Archive.Dir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Package config loads runtime settings from the environment (and an
// optional .env file loaded by the CLI entrypoint).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        int    `mapstructure:"port"`
	TempDir     string `mapstructure:"temp_dir"`
	CORSOrigins string `mapstructure:"cors_origins"`

	// MaxVideoDuration caps fetched source length, in seconds.
	MaxVideoDuration int `mapstructure:"max_video_duration"`

	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path"`
	YtdlpPath   string `mapstructure:"ytdlp_path"`

	OllamaHost    string `mapstructure:"ollama_host"`
	OllamaModel   string `mapstructure:"ollama_model"`
	VisionEnabled bool   `mapstructure:"vision_enabled"`

	SampleInterval  int    `mapstructure:"sample_interval"`
	MaxVisionFrames int    `mapstructure:"max_vision_frames"`
	FaceCascade     string `mapstructure:"face_cascade"`

	// HighQuality selects 1080x1920 output; otherwise 720x1280.
	HighQuality bool `mapstructure:"high_quality"`

	CleanupMaxAge time.Duration `mapstructure:"cleanup_max_age"`
}

// Output dimensions for vertical 9:16 clips.
const (
	OutputWidth  = 1080
	OutputHeight = 1920

	OutputWidthLow  = 720
	OutputHeightLow = 1280
)

// OutputSize returns the export dimensions for the configured quality.
func (c Config) OutputSize() (w, h int) {
	if c.HighQuality {
		return OutputWidth, OutputHeight
	}
	return OutputWidthLow, OutputHeightLow
}

func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("clipforge")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8000)
	v.SetDefault("temp_dir", "./temp")
	v.SetDefault("cors_origins", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("max_video_duration", 10800)
	v.SetDefault("ffmpeg_path", "ffmpeg")
	v.SetDefault("ffprobe_path", "ffprobe")
	v.SetDefault("ytdlp_path", "yt-dlp")
	v.SetDefault("ollama_host", "http://localhost:11434")
	v.SetDefault("ollama_model", "llava")
	v.SetDefault("vision_enabled", true)
	v.SetDefault("sample_interval", 3)
	v.SetDefault("max_vision_frames", 50)
	v.SetDefault("face_cascade", "./models/facefinder")
	v.SetDefault("high_quality", true)
	v.SetDefault("cleanup_max_age", 24*time.Hour)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.TempDir == "" {
		return errors.New("temp dir is empty")
	}
	if c.MaxVideoDuration <= 0 {
		return errors.New("max video duration must be > 0")
	}
	if c.SampleInterval <= 0 {
		return errors.New("sample interval must be > 0")
	}
	if c.MaxVisionFrames <= 0 {
		return errors.New("max vision frames must be > 0")
	}
	return nil
}

// Package config provides configuration loading and management.
package config

import (
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/user/avplay/pkg/events"
	"github.com/user/avplay/pkg/orchestrator"
	"github.com/user/avplay/pkg/player"
	"github.com/user/avplay/pkg/viewer"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for avplay.
type Config struct {
	// Input
	Source  string `yaml:"source"`
	StartMs int64  `yaml:"start_ms"`

	// Playback
	FrameIntervalMs  int  `yaml:"frame_interval_ms"`
	AudioBufferBytes int  `yaml:"audio_buffer_bytes"`
	LowLatency       bool `yaml:"low_latency"`
	Volume           int  `yaml:"volume"` // 0-100
	NoAudio          bool `yaml:"no_audio"`
	EventQueueLimit  int  `yaml:"event_queue_limit"`

	// Display
	DisplayWidth   int         `yaml:"display_width"`
	DisplayHeight  int         `yaml:"display_height"`
	ProgressHeight int         `yaml:"progress_height"`
	FontPath       string      `yaml:"font_path"`
	FontSize       float64     `yaml:"font_size"`
	Theme          ThemeConfig `yaml:"theme"`

	// Snapshots
	SnapshotDir        string `yaml:"snapshot_dir"`
	SnapshotIntervalMs int64  `yaml:"snapshot_interval_ms"`
	SnapshotFormat     string `yaml:"snapshot_format"`
	SnapshotComposed   bool   `yaml:"snapshot_composed"` // progress bar and timecode included

	// Output
	SummaryPath string `yaml:"summary"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // console, text or json
}

// ThemeConfig represents theming options.
type ThemeConfig struct {
	BackgroundColor    string `yaml:"background_color"`
	TextColor          string `yaml:"text_color"`
	ProgressBarColor   string `yaml:"progress_bar_color"`
	ProgressTrackColor string `yaml:"progress_track_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Playback
		FrameIntervalMs:  int(player.DefaultFrameInterval / time.Millisecond),
		AudioBufferBytes: player.DefaultAudioBufferSize,
		LowLatency:       true,
		Volume:           80,
		EventQueueLimit:  events.DefaultLimit,

		// Display
		DisplayWidth:   640,
		DisplayHeight:  360,
		ProgressHeight: 24,
		FontSize:       14,
		Theme: ThemeConfig{
			BackgroundColor:    "#000000",
			TextColor:          "#ffffff",
			ProgressBarColor:   "#4ade80",
			ProgressTrackColor: "#333355",
		},

		// Snapshots
		SnapshotDir:      "./snapshots",
		SnapshotFormat:   "png",
		SnapshotComposed: true,

		// Logging
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseColor parses a hex color string such as "#4ade80" to color.Color.
// Invalid input yields black.
func ParseColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.Black
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.Black
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// ToPlayerOptions converts Config to player.Options.
func (c Config) ToPlayerOptions() player.Options {
	return player.Options{
		FrameInterval:   time.Duration(c.FrameIntervalMs) * time.Millisecond,
		AudioBufferSize: c.AudioBufferBytes,
		LowLatency:      c.LowLatency,
		Volume:          viewer.VolumeFromPercent(c.Volume),
	}
}

// ToViewerConfig converts Config to viewer.Config.
func (c Config) ToViewerConfig() viewer.Config {
	return viewer.Config{
		Width:              c.DisplayWidth,
		Height:             c.DisplayHeight,
		ProgressHeight:     c.ProgressHeight,
		BackgroundColor:    ParseColor(c.Theme.BackgroundColor),
		TextColor:          ParseColor(c.Theme.TextColor),
		ProgressBarColor:   ParseColor(c.Theme.ProgressBarColor),
		ProgressTrackColor: ParseColor(c.Theme.ProgressTrackColor),
		FontPath:           c.FontPath,
		FontSize:           c.FontSize,
		SnapshotIntervalMs: c.SnapshotIntervalMs,
		ComposeSnapshots:   c.SnapshotComposed,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Source:          c.Source,
		StartMs:         c.StartMs,
		NoAudio:         c.NoAudio,
		EventQueueLimit: c.EventQueueLimit,
		Player:          c.ToPlayerOptions(),
		Viewer:          c.ToViewerConfig(),
		SummaryPath:     c.SummaryPath,
	}
}

// Package config handles studio configuration loading and management.
package config

import "time"

// Config holds all studio settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Generation GenerationConfig `yaml:"generation"`
	History    HistoryConfig    `yaml:"history"`
	Export     ExportConfig     `yaml:"export"`
	Audio      AudioConfig      `yaml:"audio"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	LODCache   int  `yaml:"lod_cache"` // memoized LOD descriptions
}

// GenerationConfig holds the simulated generation job schedule.
type GenerationConfig struct {
	InitialDelay  time.Duration `yaml:"initial_delay"`
	StepInterval  time.Duration `yaml:"step_interval"`
	StepIncrement int           `yaml:"step_increment"`
}

// HistoryConfig holds undo settings.
type HistoryConfig struct {
	MaxDepth int `yaml:"max_depth"` // 0 = unbounded
}

// ExportConfig holds export collaborator settings.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// AudioConfig holds audio cue settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float32 `yaml:"volume"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			LODCache:   32,
		},
		Generation: GenerationConfig{
			InitialDelay:  250 * time.Millisecond,
			StepInterval:  150 * time.Millisecond,
			StepIncrement: 5,
		},
		History: HistoryConfig{
			MaxDepth: 0,
		},
		Export: ExportConfig{
			OutputDir: "exports",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.6,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Normalize clamps values a hand-edited file may have put out of range.
func (c *Config) Normalize() {
	if c.Graphics.Width <= 0 {
		c.Graphics.Width = 1280
	}
	if c.Graphics.Height <= 0 {
		c.Graphics.Height = 720
	}
	if c.Graphics.FPSLimit < 0 {
		c.Graphics.FPSLimit = 0
	}
	if c.History.MaxDepth < 0 {
		c.History.MaxDepth = 0
	}
	if c.Generation.StepIncrement <= 0 || c.Generation.StepIncrement > 100 {
		c.Generation.StepIncrement = 5
	}
	if c.Audio.Volume < 0 {
		c.Audio.Volume = 0
	}
	if c.Audio.Volume > 1 {
		c.Audio.Volume = 1
	}
}

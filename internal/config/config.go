// Package config holds the user-tunable settings of a flashlight session.
package config

import (
	"os"
	"path/filepath"

	"github.com/olivier-w/flashlight/internal/torch"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the full set of settings. Fields absent from a file keep their
// [Default] values.
type Config struct {
	// Threshold is the torch sensitivity in dB, -60..0.
	Threshold float32 `yaml:"threshold"`

	// Strict lights the torch at full intensity whenever it is on.
	Strict bool `yaml:"strict"`

	// Volume is the playback volume, 0..1.
	Volume float64 `yaml:"volume"`

	// FPS is the display refresh rate, 1..120.
	FPS int `yaml:"fps"`

	// Shuffle plays multiple tracks in random order.
	Shuffle bool `yaml:"shuffle"`

	// Repeat starts over after the last track.
	Repeat bool `yaml:"repeat"`

	LogLevel LogLevel `yaml:"log_level"`

	// LogFile receives the log. Empty disables logging; the terminal belongs
	// to the UI.
	LogFile string `yaml:"log_file"`

	// MetricsAddr is the listen address of the /metrics endpoint, e.g.
	// "127.0.0.1:9464". Empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the settings used when no file or flag overrides them.
func Default() Config {
	return Config{
		Threshold: torch.DefaultThreshold,
		Volume:    0.8,
		FPS:       30,
		LogLevel:  LogInfo,
		LogFile:   DefaultLogFile(),
	}
}

// DefaultLogFile is flashlight/flashlight.log under the user cache
// directory, or under the temp directory when there is none.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "flashlight", "flashlight.log")
}

// DefaultPath is where the config file is looked for when --config is not
// given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "flashlight", "config.yaml")
}

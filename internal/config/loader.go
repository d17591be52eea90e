package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/olivier-w/flashlight/internal/torch"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path on top of [Default] and validates it.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional behaves like [Load] but returns [Default] when path does not
// exist.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// LoadFromReader decodes YAML from r on top of [Default] and validates the
// result. Unknown keys are an error. An empty document yields the defaults.
func LoadFromReader(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate returns a joined error listing every out-of-range field.
func Validate(cfg Config) error {
	var errs []error

	if cfg.Threshold < torch.MinThreshold || cfg.Threshold > torch.MaxThreshold {
		errs = append(errs, fmt.Errorf("threshold %v is out of range [%d, %d]", cfg.Threshold, torch.MinThreshold, torch.MaxThreshold))
	}
	if cfg.Volume < 0 || cfg.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume %v is out of range [0, 1]", cfg.Volume))
	}
	if cfg.FPS < 1 || cfg.FPS > 120 {
		errs = append(errs, fmt.Errorf("fps %d is out of range [1, 120]", cfg.FPS))
	}
	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	return errors.Join(errs...)
}

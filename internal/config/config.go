// Package config loads inkpad's YAML configuration and watches it for
// changes.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"inkpad/internal/domain"
)

// EnvPath overrides the config file location.
const EnvPath = "INKPAD_CONFIG"

type Config struct {
	Page PageConfig `yaml:"page"`
	Zoom ZoomConfig `yaml:"zoom"`
	Tool ToolConfig `yaml:"tool"`
}

type PageConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ZoomConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type ToolConfig struct {
	Kind  string  `yaml:"kind"`
	Color string  `yaml:"color"`
	Width float64 `yaml:"width"`
}

// Default returns the built-in configuration.
func Default() Config {
	t := domain.DefaultToolState()
	return Config{
		Page: PageConfig{Width: domain.DefaultPageWidth, Height: domain.DefaultPageHeight},
		Zoom: ZoomConfig{Min: domain.DefaultMinZoom, Max: domain.DefaultMaxZoom},
		Tool: ToolConfig{Kind: string(t.Kind), Color: t.Color, Width: t.Width},
	}
}

// PageSize is the configured page as a domain size.
func (c Config) PageSize() domain.Size {
	return domain.Size{Width: c.Page.Width, Height: c.Page.Height}
}

func (c Config) ToolState() domain.ToolState {
	return domain.ToolState{Kind: domain.ToolKind(c.Tool.Kind), Color: c.Tool.Color, Width: c.Tool.Width}
}

// Validate reports the first field that is out of range.
func (c Config) Validate() error {
	if !c.PageSize().Valid() {
		return fmt.Errorf("page: width and height must be positive, got %vx%v", c.Page.Width, c.Page.Height)
	}
	if c.Zoom.Min <= 0 || c.Zoom.Max <= 0 {
		return fmt.Errorf("zoom: min and max must be positive, got %v..%v", c.Zoom.Min, c.Zoom.Max)
	}
	if c.Zoom.Min > c.Zoom.Max {
		return fmt.Errorf("zoom: min %v is above max %v", c.Zoom.Min, c.Zoom.Max)
	}
	if err := c.ToolState().Validate(); err != nil {
		return fmt.Errorf("tool: %w", err)
	}
	return nil
}

// DefaultPath is $INKPAD_CONFIG, or ~/.config/inkpad/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, "inkpad", "config.yaml")
}

// Load reads path on top of the defaults. A missing file yields the
// defaults; fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

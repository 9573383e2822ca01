package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MinSide is the smallest container side accepted from configuration.
const MinSide = 100

// DiskConfig describes the container and its spin.
type DiskConfig struct {
	Side            float64 `yaml:"side"`              // container side in px (square)
	Spin            float64 `yaml:"spin"`              // initial spin in degrees
	SpinSpeedMs     int     `yaml:"spin_speed_ms"`     // ms per revolution; must be a preset (10000..1000)
	FrameIntervalMs int     `yaml:"frame_interval_ms"` // animation frame interval (default: 16ms)
}

// ItemConfig describes one item on the disk. Pointer fields distinguish
// "omitted" from an explicit false/zero.
type ItemConfig struct {
	ID              string   `yaml:"id"`
	Fixed           bool     `yaml:"fixed"`
	Radius          *float64 `yaml:"radius,omitempty"`           // relative to disk radius; omitted = 0.9
	Azimuth         float64  `yaml:"azimuth"`                    // clockwise degrees from +x
	Orientation     float64  `yaml:"orientation"`                // own rotation in degrees
	KeepOrientation *bool    `yaml:"keep_orientation,omitempty"` // default: true
	Interactive     *bool    `yaml:"interactive,omitempty"`      // default: true
	Width           float64  `yaml:"width"`
	Height          float64  `yaml:"height"`
	Label           string   `yaml:"label,omitempty"` // shown by the hosts; defaults to ID
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel     int   `yaml:"debug_level"`      // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	SnapOnActivate *bool `yaml:"snap_on_activate"` // rotate activated items to 0° (default: true)
}

// Config aggregates all application configuration.
type Config struct {
	Disk     DiskConfig     `yaml:"disk"`
	Items    []ItemConfig   `yaml:"items"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ValidateConfigPath checks that path names a .yaml file directly inside a
// configs/ directory, without traversal components.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q must not contain '..'", path)
		}
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must have a .yaml extension", path)
	}
	if filepath.Base(filepath.Dir(clean)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !finite(c.Disk.Side) || !finite(c.Disk.Spin) {
		return fmt.Errorf("disk.side and disk.spin must be finite numbers")
	}
	if c.Disk.Side < MinSide {
		c.Disk.Side = MinSide // same floor as the measurement pass
	}
	if c.Disk.SpinSpeedMs <= 0 {
		c.Disk.SpinSpeedMs = 3000 // normal speed
	}
	if c.Disk.FrameIntervalMs <= 0 {
		c.Disk.FrameIntervalMs = 16 // ~60 FPS
	}
	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	if c.Defaults.SnapOnActivate == nil {
		c.Defaults.SnapOnActivate = boolPtr(true)
	}

	seen := make(map[string]bool, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		if it.ID == "" {
			return fmt.Errorf("items[%d].id is required", i)
		}
		if seen[it.ID] {
			return fmt.Errorf("items[%d].id %q is duplicated", i, it.ID)
		}
		seen[it.ID] = true

		if !finite(it.Azimuth) || !finite(it.Orientation) || !finite(it.Width) || !finite(it.Height) {
			return fmt.Errorf("item %q: angles and sizes must be finite numbers", it.ID)
		}
		if it.Radius != nil && !finite(*it.Radius) {
			return fmt.Errorf("item %q: radius must be a finite number", it.ID)
		}
		if it.Width < 0 || it.Height < 0 {
			return fmt.Errorf("item %q: width and height must be >= 0, got %.2fx%.2f", it.ID, it.Width, it.Height)
		}
		if it.KeepOrientation == nil {
			it.KeepOrientation = boolPtr(true)
		}
		if it.Interactive == nil {
			it.Interactive = boolPtr(true)
		}
		if it.Label == "" {
			it.Label = it.ID
		}
	}
	return nil
}

// FrameInterval returns the delay between two animation frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Disk.FrameIntervalMs) * time.Millisecond
}

// SnapOnActivate reports whether activating an orbiting item rotates it to 0°.
func (c *Config) SnapOnActivate() bool {
	return c.Defaults.SnapOnActivate == nil || *c.Defaults.SnapOnActivate
}

// RadiusOrZero returns the configured radius, or 0 when omitted.
func (i ItemConfig) RadiusOrZero() float64 {
	if i.Radius == nil {
		return 0
	}
	return *i.Radius
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func boolPtr(b bool) *bool {
	return &b
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a loaded config holds values the renderer cannot use.
var ErrInvalid = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would produce a degenerate camera or viewport.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: fov %v must be in (0, 180)", ErrInvalid, c.Camera.FOV)
	case c.Camera.NearClip <= 0 || c.Camera.FarClip <= c.Camera.NearClip:
		return fmt.Errorf("%w: clip planes near=%v far=%v", ErrInvalid, c.Camera.NearClip, c.Camera.FarClip)
	case c.Camera.Direction == [3]float32{}:
		return fmt.Errorf("%w: camera direction is zero", ErrInvalid)
	case c.Render.Workers < 1:
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Render.Workers)
	case c.Output.Format != "png" && c.Output.Format != "bmp":
		return fmt.Errorf("%w: output format %q", ErrInvalid, c.Output.Format)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "RayTracer")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "RayTracer")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "raytracer")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "raytracer")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

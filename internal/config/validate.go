package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.TempDir == "" {
		return errors.New("paths.temp_dir must be set")
	}
	return nil
}

func (c *Config) validateProbe() error {
	if c.Probe.EstimateMinSeconds > c.Probe.EstimateMaxSeconds {
		return fmt.Errorf("probe.estimate_min_seconds (%g) must not exceed probe.estimate_max_seconds (%g)",
			c.Probe.EstimateMinSeconds, c.Probe.EstimateMaxSeconds)
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.MinSceneSeconds < 0 || c.Render.MaxSceneSeconds < 0 || c.Render.TransitionSeconds < 0 {
		return errors.New("render durations must be non-negative")
	}
	if c.Render.MinSceneSeconds > 0 && c.Render.MaxSceneSeconds > 0 &&
		c.Render.MinSceneSeconds > c.Render.MaxSceneSeconds {
		return fmt.Errorf("render.min_scene_seconds (%g) must not exceed render.max_scene_seconds (%g)",
			c.Render.MinSceneSeconds, c.Render.MaxSceneSeconds)
	}
	return nil
}

func (c *Config) validateCaptions() error {
	switch c.Captions.Style {
	case "default", "modern", "minimal", "bold", "elegant":
		return nil
	default:
		return fmt.Errorf("captions.style: unknown style %q", c.Captions.Style)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

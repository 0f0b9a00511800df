package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	TempDir    string `toml:"temp_dir"`
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
	StorePath  string `toml:"store_path"`
}

// Tools contains the media toolchain binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Probe contains configuration for audio duration detection.
type Probe struct {
	TimeoutSeconds      int     `toml:"timeout_seconds"`
	FallbackSeconds     float64 `toml:"fallback_seconds"`
	EstimateBitrateKbps int     `toml:"estimate_bitrate_kbps"`
	EstimateMinSeconds  float64 `toml:"estimate_min_seconds"`
	EstimateMaxSeconds  float64 `toml:"estimate_max_seconds"`
}

// Render contains configuration for video composition.
type Render struct {
	Width              int     `toml:"width"`
	Height             int     `toml:"height"`
	FPS                int     `toml:"fps"`
	VideoCodec         string  `toml:"video_codec"`
	AudioCodec         string  `toml:"audio_codec"`
	AudioBitrate       string  `toml:"audio_bitrate"`
	PixelFormat        string  `toml:"pixel_format"`
	Tune               string  `toml:"tune"`
	TransitionName     string  `toml:"transition_name"`
	MinSceneSeconds    float64 `toml:"min_scene_seconds"`
	MaxSceneSeconds    float64 `toml:"max_scene_seconds"`
	TransitionSeconds  float64 `toml:"transition_seconds"`
	EnableTransitions  bool    `toml:"enable_transitions"`
	AttemptTimeoutSecs int     `toml:"attempt_timeout_seconds"`
}

// Captions contains configuration for caption timing and burn-in.
type Captions struct {
	MinSegmentSeconds float64 `toml:"min_segment_seconds"`
	MinGapSeconds     float64 `toml:"min_gap_seconds"`
	OverrunScale      float64 `toml:"overrun_scale"`
	WordsPerSegment   int     `toml:"words_per_segment"`
	Style             string  `toml:"style"`
}

// Workspace contains configuration for scoped temp resources.
type Workspace struct {
	SweepMaxAgeHours int `toml:"sweep_max_age_hours"`
	MinFreeMiB       int `toml:"min_free_mib"`
}

// Compose contains configuration for the request worker pool.
type Compose struct {
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for sceneforge.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Tools     Tools     `toml:"tools"`
	Probe     Probe     `toml:"probe"`
	Render    Render    `toml:"render"`
	Captions  Captions  `toml:"captions"`
	Workspace Workspace `toml:"workspace"`
	Compose   Compose   `toml:"compose"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sceneforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file yields
// the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("sceneforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for operation. LibraryDir is
// created on a best-effort basis so composition still works when the library
// volume is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TempDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	if strings.TrimSpace(c.Tools.FFmpeg) != "" {
		return c.Tools.FFmpeg
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name.
func (c *Config) FFprobeBinary() string {
	if strings.TrimSpace(c.Tools.FFprobe) != "" {
		return c.Tools.FFprobe
	}
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

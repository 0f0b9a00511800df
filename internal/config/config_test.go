package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"sceneforge/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SCENEFORGE_TEMP_DIR", "")
	t.Setenv("SCENEFORGE_FFMPEG", "")
	t.Setenv("SCENEFORGE_FFPROBE", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantTemp := filepath.Join(tempHome, ".local", "share", "sceneforge", "tmp")
	if cfg.Paths.TempDir != wantTemp {
		t.Fatalf("unexpected temp dir: got %q want %q", cfg.Paths.TempDir, wantTemp)
	}
	if cfg.Probe.FallbackSeconds != 30.0 {
		t.Fatalf("unexpected probe fallback: %g", cfg.Probe.FallbackSeconds)
	}
	if cfg.Probe.EstimateMinSeconds != 10.0 || cfg.Probe.EstimateMaxSeconds != 300.0 {
		t.Fatalf("unexpected estimate clamp: [%g, %g]", cfg.Probe.EstimateMinSeconds, cfg.Probe.EstimateMaxSeconds)
	}
	if cfg.Render.Width != 1080 || cfg.Render.Height != 1920 {
		t.Fatalf("unexpected canonical resolution: %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if !cfg.Render.EnableTransitions {
		t.Fatal("expected transitions enabled by default")
	}
	if cfg.Captions.MinSegmentSeconds != 0.5 || cfg.Captions.MinGapSeconds != 0.1 {
		t.Fatalf("unexpected caption minimums: %g/%g", cfg.Captions.MinSegmentSeconds, cfg.Captions.MinGapSeconds)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected tool binaries: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
}

func TestLoadParsesConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SCENEFORGE_FFMPEG", "")

	path := filepath.Join(tempHome, "config.toml")
	body := `
[tools]
ffmpeg = "/opt/ffmpeg/bin/ffmpeg"

[render]
transition_seconds = 0.75
enable_transitions = false

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be detected")
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
	if cfg.Render.TransitionSeconds != 0.75 {
		t.Fatalf("unexpected transition seconds: %g", cfg.Render.TransitionSeconds)
	}
	if cfg.Render.EnableTransitions {
		t.Fatal("expected transitions disabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SCENEFORGE_FFMPEG", "/usr/local/bin/ffmpeg7")

	path := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(path, []byte("[tools]\nffmpeg = \"/opt/ffmpeg\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/usr/local/bin/ffmpeg7" {
		t.Fatalf("expected env override, got %q", cfg.FFmpegBinary())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"min over max scene", func(c *config.Config) {
			c.Render.MinSceneSeconds = 9
			c.Render.MaxSceneSeconds = 3
		}},
		{"negative transition", func(c *config.Config) {
			c.Render.TransitionSeconds = -1
		}},
		{"unknown caption style", func(c *config.Config) {
			c.Captions.Style = "comic-sans"
		}},
		{"unknown log format", func(c *config.Config) {
			c.Logging.Format = "xml"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

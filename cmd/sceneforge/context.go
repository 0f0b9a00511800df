package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"sceneforge/internal/assetstore"
	"sceneforge/internal/compose"
	"sceneforge/internal/config"
	"sceneforge/internal/logging"
	"sceneforge/internal/media/ffmpeg"
	"sceneforge/internal/media/probe"
	"sceneforge/internal/render"
	"sceneforge/internal/sceneplan"
	"sceneforge/internal/workspace"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger. Console output downgrades to JSON
// when stderr is not a terminal so captured logs stay parseable.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		format := cfg.Logging.Format
		if format == "console" && !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = "json"
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      format,
			OutputPaths: []string{"stderr"},
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) transcoder() (*ffmpeg.Transcoder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return ffmpeg.New(cfg.FFmpegBinary(), ffmpeg.Settings{
		Width:          cfg.Render.Width,
		Height:         cfg.Render.Height,
		FPS:            cfg.Render.FPS,
		VideoCodec:     cfg.Render.VideoCodec,
		AudioCodec:     cfg.Render.AudioCodec,
		AudioBitrate:   cfg.Render.AudioBitrate,
		PixelFormat:    cfg.Render.PixelFormat,
		Tune:           cfg.Render.Tune,
		TransitionName: cfg.Render.TransitionName,
	},
		ffmpeg.WithTimeout(time.Duration(cfg.Render.AttemptTimeoutSecs)*time.Second),
		ffmpeg.WithLogger(logger),
	)
}

func (c *commandContext) prober() (*probe.Prober, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	transcoder, err := c.transcoder()
	if err != nil {
		return nil, err
	}
	return probe.New(cfg.FFprobeBinary(), transcoder, probe.Config{
		Timeout:             time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
		FallbackSeconds:     cfg.Probe.FallbackSeconds,
		EstimateBitrateKbps: cfg.Probe.EstimateBitrateKbps,
		EstimateMinSeconds:  cfg.Probe.EstimateMinSeconds,
		EstimateMaxSeconds:  cfg.Probe.EstimateMaxSeconds,
	}, probe.WithLogger(logger)), nil
}

func (c *commandContext) workspaceManager() (*workspace.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return workspace.New(cfg.Paths.TempDir, workspace.WithLogger(logger))
}

func (c *commandContext) assetStore() (*assetstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return assetstore.Open(cfg.Paths.StorePath, cfg.Paths.LibraryDir)
}

func (c *commandContext) composer() (*compose.Composer, *assetstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	transcoder, err := c.transcoder()
	if err != nil {
		return nil, nil, err
	}
	prober, err := c.prober()
	if err != nil {
		return nil, nil, err
	}
	manager, err := c.workspaceManager()
	if err != nil {
		return nil, nil, err
	}
	store, err := c.assetStore()
	if err != nil {
		return nil, nil, err
	}

	composer, err := compose.New(cfg, compose.Deps{
		Prober:    prober,
		Planner:   sceneplan.New(cfg.Render, sceneplan.WithLogger(logger)),
		Renderer:  render.New(transcoder, render.WithLogger(logger)),
		Burner:    transcoder,
		Workspace: manager,
		Store:     store,
	}, compose.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return composer, store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeProbe()
	c.normalizeRender()
	c.normalizeCaptions()
	c.normalizeWorkspace()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if env := strings.TrimSpace(os.Getenv("SCENEFORGE_TEMP_DIR")); env != "" {
		c.Paths.TempDir = env
	}

	var err error
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StorePath) == "" {
		c.Paths.StorePath = defaultStorePath
	}
	if c.Paths.StorePath, err = expandPath(c.Paths.StorePath); err != nil {
		return fmt.Errorf("paths.store_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	if env := strings.TrimSpace(os.Getenv("SCENEFORGE_FFMPEG")); env != "" {
		c.Tools.FFmpeg = env
	}
	if env := strings.TrimSpace(os.Getenv("SCENEFORGE_FFPROBE")); env != "" {
		c.Tools.FFprobe = env
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
}

func (c *Config) normalizeProbe() {
	if c.Probe.TimeoutSeconds <= 0 {
		c.Probe.TimeoutSeconds = defaultProbeTimeoutSeconds
	}
	if c.Probe.FallbackSeconds <= 0 {
		c.Probe.FallbackSeconds = defaultProbeFallbackSeconds
	}
	if c.Probe.EstimateBitrateKbps <= 0 {
		c.Probe.EstimateBitrateKbps = defaultEstimateBitrateKbps
	}
	if c.Probe.EstimateMinSeconds <= 0 {
		c.Probe.EstimateMinSeconds = defaultEstimateMinSeconds
	}
	if c.Probe.EstimateMaxSeconds <= 0 {
		c.Probe.EstimateMaxSeconds = defaultEstimateMaxSeconds
	}
}

func (c *Config) normalizeRender() {
	if c.Render.Width <= 0 {
		c.Render.Width = defaultRenderWidth
	}
	if c.Render.Height <= 0 {
		c.Render.Height = defaultRenderHeight
	}
	if c.Render.FPS <= 0 {
		c.Render.FPS = defaultRenderFPS
	}
	if strings.TrimSpace(c.Render.VideoCodec) == "" {
		c.Render.VideoCodec = defaultVideoCodec
	}
	if strings.TrimSpace(c.Render.AudioCodec) == "" {
		c.Render.AudioCodec = defaultAudioCodec
	}
	if strings.TrimSpace(c.Render.AudioBitrate) == "" {
		c.Render.AudioBitrate = defaultAudioBitrate
	}
	if strings.TrimSpace(c.Render.PixelFormat) == "" {
		c.Render.PixelFormat = defaultPixelFormat
	}
	if strings.TrimSpace(c.Render.TransitionName) == "" {
		c.Render.TransitionName = defaultTransitionName
	}
	if c.Render.AttemptTimeoutSecs <= 0 {
		c.Render.AttemptTimeoutSecs = defaultAttemptTimeoutSecs
	}
}

func (c *Config) normalizeCaptions() {
	if c.Captions.MinSegmentSeconds <= 0 {
		c.Captions.MinSegmentSeconds = defaultCaptionMinSegmentSeconds
	}
	if c.Captions.MinGapSeconds <= 0 {
		c.Captions.MinGapSeconds = defaultCaptionMinGapSeconds
	}
	if c.Captions.OverrunScale <= 1 {
		c.Captions.OverrunScale = defaultCaptionOverrunScale
	}
	if c.Captions.WordsPerSegment <= 0 {
		c.Captions.WordsPerSegment = defaultCaptionWordsPerSegment
	}
	if strings.TrimSpace(c.Captions.Style) == "" {
		c.Captions.Style = defaultCaptionStyle
	}
}

func (c *Config) normalizeWorkspace() {
	if c.Workspace.SweepMaxAgeHours <= 0 {
		c.Workspace.SweepMaxAgeHours = defaultSweepMaxAgeHours
	}
	if c.Workspace.MinFreeMiB <= 0 {
		c.Workspace.MinFreeMiB = defaultMinFreeMiB
	}
	if c.Compose.Workers <= 0 {
		c.Compose.Workers = defaultComposeWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

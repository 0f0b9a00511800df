package config

const (
	defaultTempDir    = "~/.local/share/sceneforge/tmp"
	defaultLibraryDir = "~/.local/share/sceneforge/library"
	defaultLogDir     = "~/.local/share/sceneforge/logs"
	defaultStorePath  = "~/.local/share/sceneforge/assets.db"

	defaultProbeTimeoutSeconds  = 10
	defaultProbeFallbackSeconds = 30.0
	defaultEstimateBitrateKbps  = 128
	defaultEstimateMinSeconds   = 10.0
	defaultEstimateMaxSeconds   = 300.0

	defaultRenderWidth        = 1080
	defaultRenderHeight       = 1920
	defaultRenderFPS          = 30
	defaultVideoCodec         = "libx264"
	defaultAudioCodec         = "aac"
	defaultAudioBitrate       = "192k"
	defaultPixelFormat        = "yuv420p"
	defaultTune               = "stillimage"
	defaultTransitionName     = "fade"
	defaultMinSceneSeconds    = 2.0
	defaultMaxSceneSeconds    = 10.0
	defaultTransitionSeconds  = 0.5
	defaultAttemptTimeoutSecs = 600

	defaultCaptionMinSegmentSeconds = 0.5
	defaultCaptionMinGapSeconds     = 0.1
	defaultCaptionOverrunScale      = 1.1
	defaultCaptionWordsPerSegment   = 8
	defaultCaptionStyle             = "default"

	defaultSweepMaxAgeHours = 24
	defaultMinFreeMiB       = 512
	defaultComposeWorkers   = 2

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir:    defaultTempDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
			StorePath:  defaultStorePath,
		},
		Probe: Probe{
			TimeoutSeconds:      defaultProbeTimeoutSeconds,
			FallbackSeconds:     defaultProbeFallbackSeconds,
			EstimateBitrateKbps: defaultEstimateBitrateKbps,
			EstimateMinSeconds:  defaultEstimateMinSeconds,
			EstimateMaxSeconds:  defaultEstimateMaxSeconds,
		},
		Render: Render{
			Width:              defaultRenderWidth,
			Height:             defaultRenderHeight,
			FPS:                defaultRenderFPS,
			VideoCodec:         defaultVideoCodec,
			AudioCodec:         defaultAudioCodec,
			AudioBitrate:       defaultAudioBitrate,
			PixelFormat:        defaultPixelFormat,
			Tune:               defaultTune,
			TransitionName:     defaultTransitionName,
			MinSceneSeconds:    defaultMinSceneSeconds,
			MaxSceneSeconds:    defaultMaxSceneSeconds,
			TransitionSeconds:  defaultTransitionSeconds,
			EnableTransitions:  true,
			AttemptTimeoutSecs: defaultAttemptTimeoutSecs,
		},
		Captions: Captions{
			MinSegmentSeconds: defaultCaptionMinSegmentSeconds,
			MinGapSeconds:     defaultCaptionMinGapSeconds,
			OverrunScale:      defaultCaptionOverrunScale,
			WordsPerSegment:   defaultCaptionWordsPerSegment,
			Style:             defaultCaptionStyle,
		},
		Workspace: Workspace{
			SweepMaxAgeHours: defaultSweepMaxAgeHours,
			MinFreeMiB:       defaultMinFreeMiB,
		},
		Compose: Compose{
			Workers: defaultComposeWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

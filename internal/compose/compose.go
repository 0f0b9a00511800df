package compose

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sceneforge/internal/assetstore"
	"sceneforge/internal/captions"
	"sceneforge/internal/config"
	"sceneforge/internal/fileutil"
	"sceneforge/internal/logging"
	"sceneforge/internal/media/probe"
	"sceneforge/internal/render"
	"sceneforge/internal/sceneplan"
	"sceneforge/internal/services"
	"sceneforge/internal/workspace"
)

// Request describes one composition.
type Request struct {
	Images       []string
	AudioPath    string
	Script       string
	CaptionsPath string
	Style        string
	Burn         bool
	Catalog      bool
	OutputPath   string
}

// Result reports what a composition produced.
type Result struct {
	OutputPath   string
	AudioSeconds float64
	ProbeTier    probe.Tier
	Strategy     render.Strategy
	Scenes       int
	Captions     int
	AssetID      string
}

// Prober resolves audio durations. *probe.Prober satisfies it.
type Prober interface {
	Probe(ctx context.Context, path string) probe.Result
}

// Burner renders captions into a finished video. *ffmpeg.Transcoder
// satisfies it.
type Burner interface {
	BurnCaptions(ctx context.Context, videoPath, subtitlePath, forceStyle, outputPath string) error
}

// Deps carries the collaborators a composer drives.
type Deps struct {
	Prober    Prober
	Planner   *sceneplan.Planner
	Renderer  *render.Renderer
	Burner    Burner
	Workspace *workspace.Manager
	Store     *assetstore.Store
}

// Option configures the composer.
type Option func(*Composer)

// WithLogger attaches a logger for run diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "compose")
		}
	}
}

// Composer runs compositions.
type Composer struct {
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger
}

// New constructs a composer. The store is optional; everything else is
// required.
func New(cfg *config.Config, deps Deps, opts ...Option) (*Composer, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "compose", "new", "config required", nil)
	}
	if deps.Prober == nil || deps.Planner == nil || deps.Renderer == nil || deps.Workspace == nil {
		return nil, services.Wrap(services.ErrConfiguration, "compose", "new", "missing collaborator", nil)
	}
	c := &Composer{cfg: cfg, deps: deps, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compose runs one composition and returns what it produced.
func (c *Composer) Compose(ctx context.Context, req Request) (Result, error) {
	if err := c.validate(req); err != nil {
		return Result{}, err
	}
	if err := c.deps.Workspace.Preflight(c.cfg.Workspace.MinFreeMiB); err != nil {
		return Result{}, err
	}

	scope, err := c.deps.Workspace.NewScope("compose")
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if closeErr := scope.Close(); closeErr != nil {
			c.logger.Warn("scope cleanup failed",
				logging.String("path", scope.Path()),
				logging.Error(closeErr),
			)
		}
	}()

	probed := c.deps.Prober.Probe(ctx, req.AudioPath)
	c.logger.Info("audio duration resolved",
		logging.Float64("seconds", probed.Seconds),
		logging.String("tier", string(probed.Tier)),
	)

	plan, err := c.deps.Planner.Build(req.Images, probed.Seconds)
	if err != nil {
		return Result{}, err
	}

	segments, err := c.captionSegments(req, probed.Seconds)
	if err != nil {
		return Result{}, err
	}

	renderTarget := req.OutputPath
	if req.Burn && len(segments) > 0 {
		renderTarget = scope.File("composite.mp4")
	}

	rendered, err := c.deps.Renderer.Render(ctx, plan, req.AudioPath, scope, renderTarget)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		OutputPath:   req.OutputPath,
		AudioSeconds: probed.Seconds,
		ProbeTier:    probed.Tier,
		Strategy:     rendered.Strategy,
		Scenes:       len(plan.Scenes),
		Captions:     len(segments),
	}

	if len(segments) > 0 {
		if err := c.applyCaptions(ctx, req, scope, renderTarget, segments); err != nil {
			return Result{}, err
		}
	}

	if req.Catalog && c.deps.Store != nil {
		asset, err := c.deps.Store.Import(ctx, req.OutputPath, assetstore.KindVideo)
		if err != nil {
			return Result{}, fmt.Errorf("catalog output: %w", err)
		}
		result.AssetID = asset.ID
	}

	c.logger.Info("composition finished",
		logging.String("output", result.OutputPath),
		logging.String("strategy", string(result.Strategy)),
		logging.Int("scenes", result.Scenes),
		logging.Int("captions", result.Captions),
	)
	return result, nil
}

func (c *Composer) validate(req Request) error {
	if len(req.Images) == 0 {
		return services.Wrap(services.ErrValidation, "compose", "validate", "at least one image required", nil)
	}
	for _, image := range req.Images {
		if err := requireFile(image); err != nil {
			return err
		}
	}
	if err := requireFile(req.AudioPath); err != nil {
		return err
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return services.Wrap(services.ErrValidation, "compose", "validate", "output path required", nil)
	}
	if req.CaptionsPath != "" && req.Script != "" {
		return services.Wrap(services.ErrValidation, "compose", "validate",
			"script and captions file are mutually exclusive", nil)
	}
	if req.CaptionsPath != "" {
		if err := requireFile(req.CaptionsPath); err != nil {
			return err
		}
	}
	if req.Style != "" {
		if _, err := captions.LookupStyle(req.Style); err != nil {
			return err
		}
	}
	return nil
}

func requireFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return services.Wrap(services.ErrValidation, "compose", "validate", "input path required", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "compose", "validate",
			fmt.Sprintf("input %q not readable", path), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "compose", "validate",
			fmt.Sprintf("input %q is a directory", path), nil)
	}
	return nil
}

func (c *Composer) captionSegments(req Request, audioSeconds float64) ([]captions.Segment, error) {
	var segments []captions.Segment
	switch {
	case req.CaptionsPath != "":
		file, err := os.Open(req.CaptionsPath)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "compose", "captions", "open captions file", err)
		}
		defer file.Close()
		segments, err = captions.ParseSRT(file)
		if err != nil {
			return nil, err
		}
	case strings.TrimSpace(req.Script) != "":
		segments = captions.Generate(req.Script, audioSeconds, c.cfg.Captions.WordsPerSegment)
	default:
		return nil, nil
	}
	return captions.Correct(segments, audioSeconds, c.cfg.Captions), nil
}

func (c *Composer) applyCaptions(ctx context.Context, req Request, scope *workspace.Scope, renderedPath string, segments []captions.Segment) error {
	srtPath := scope.File("captions.srt")
	file, err := os.Create(srtPath)
	if err != nil {
		return fmt.Errorf("create captions file: %w", err)
	}
	if err := captions.WriteSRT(file, segments); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close captions file: %w", err)
	}

	if !req.Burn {
		// Sidecar mode: the corrected captions land next to the output.
		sidecar := sidecarPath(req.OutputPath)
		if err := fileutil.CopyFile(srtPath, sidecar); err != nil {
			return fmt.Errorf("write captions sidecar: %w", err)
		}
		return nil
	}

	if c.deps.Burner == nil {
		return services.Wrap(services.ErrConfiguration, "compose", "captions", "burn requested without a burner", nil)
	}

	styleName := req.Style
	if styleName == "" {
		styleName = c.cfg.Captions.Style
	}
	style, err := captions.LookupStyle(styleName)
	if err != nil {
		return err
	}
	if err := c.deps.Burner.BurnCaptions(ctx, renderedPath, srtPath, style.ForceStyle(), req.OutputPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "compose", "captions", "burn captions", err)
	}
	return nil
}

func sidecarPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".srt"
}

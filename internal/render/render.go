package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"sceneforge/internal/logging"
	"sceneforge/internal/media/ffmpeg"
	"sceneforge/internal/sceneplan"
	"sceneforge/internal/services"
	"sceneforge/internal/workspace"
)

// Strategy names a rendering approach, recorded on the result for
// observability.
type Strategy string

const (
	StrategyCrossfade   Strategy = "crossfade"
	StrategyConcat      Strategy = "concat"
	StrategySingleScene Strategy = "single_scene"
)

// Compositor is the slice of the transcoder the renderer drives.
// *ffmpeg.Transcoder satisfies it.
type Compositor interface {
	RenderStillClip(ctx context.Context, imagePath string, seconds float64, outputPath string) error
	ConcatWithAudio(ctx context.Context, manifestPath, audioPath string, seconds float64, outputPath string) error
	Crossfade(ctx context.Context, scenes []ffmpeg.SceneInput, transitionSeconds float64, audioPath string, seconds float64, outputPath string) error
	ComposeSingle(ctx context.Context, imagePath, audioPath string, seconds float64, outputPath string) error
}

// Result reports which strategy produced the output.
type Result struct {
	OutputPath string
	Strategy   Strategy
}

// Option configures the renderer.
type Option func(*Renderer)

// WithLogger attaches a logger for strategy diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logging.NewComponentLogger(logger, "render")
		}
	}
}

// Renderer drives the compositor through the strategy ladder.
type Renderer struct {
	compositor Compositor
	logger     *slog.Logger
}

// New constructs a renderer over the given compositor.
func New(compositor Compositor, opts ...Option) *Renderer {
	r := &Renderer{
		compositor: compositor,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces outputPath from the plan and audio track, escalating
// through the strategies. Intermediate artifacts live inside the scope and
// vanish with it.
func (r *Renderer) Render(ctx context.Context, plan *sceneplan.Plan, audioPath string, scope *workspace.Scope, outputPath string) (Result, error) {
	if plan == nil || len(plan.Scenes) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "render", "render", "empty scene plan", nil)
	}

	if len(plan.Scenes) == 1 {
		scene := plan.Scenes[0]
		if err := r.compositor.ComposeSingle(ctx, scene.Image, audioPath, plan.AudioSeconds, outputPath); err != nil {
			return Result{}, services.Wrap(services.ErrRender, "render", "render", "single scene", err)
		}
		return Result{OutputPath: outputPath, Strategy: StrategySingleScene}, nil
	}

	var lastErr error

	if plan.TransitionsEnabled {
		err := r.crossfade(ctx, plan, audioPath, outputPath)
		if err == nil {
			return Result{OutputPath: outputPath, Strategy: StrategyCrossfade}, nil
		}
		lastErr = err
		r.strategyFailed(StrategyCrossfade, err)
	}

	err := r.concat(ctx, plan, audioPath, scope, outputPath)
	if err == nil {
		return Result{OutputPath: outputPath, Strategy: StrategyConcat}, nil
	}
	lastErr = err
	r.strategyFailed(StrategyConcat, err)

	err = r.compositor.ComposeSingle(ctx, plan.Scenes[0].Image, audioPath, plan.AudioSeconds, outputPath)
	if err == nil {
		r.logger.Warn("fell back to single scene render",
			logging.Int("scene_count", len(plan.Scenes)),
		)
		return Result{OutputPath: outputPath, Strategy: StrategySingleScene}, nil
	}
	lastErr = err
	r.strategyFailed(StrategySingleScene, err)

	return Result{}, services.Wrap(services.ErrRender, "render", "render", "all strategies exhausted", lastErr)
}

func (r *Renderer) crossfade(ctx context.Context, plan *sceneplan.Plan, audioPath, outputPath string) error {
	scenes := make([]ffmpeg.SceneInput, 0, len(plan.Scenes))
	for _, scene := range plan.Scenes {
		scenes = append(scenes, ffmpeg.SceneInput{Path: scene.Image, Seconds: scene.Duration})
	}
	return r.compositor.Crossfade(ctx, scenes, plan.TransitionSeconds, audioPath, plan.AudioSeconds, outputPath)
}

func (r *Renderer) concat(ctx context.Context, plan *sceneplan.Plan, audioPath string, scope *workspace.Scope, outputPath string) error {
	if scope == nil {
		return fmt.Errorf("concat requires a scratch scope")
	}

	clips := make([]string, 0, len(plan.Scenes))
	for i, scene := range plan.Scenes {
		clip := scope.File(fmt.Sprintf("clip_%03d.mp4", i))
		if err := r.compositor.RenderStillClip(ctx, scene.Image, scene.Duration, clip); err != nil {
			return fmt.Errorf("render clip %d: %w", i, err)
		}
		clips = append(clips, clip)
	}

	manifest := scope.File("concat.txt")
	if err := writeManifest(manifest, clips); err != nil {
		return err
	}
	return r.compositor.ConcatWithAudio(ctx, manifest, audioPath, plan.AudioSeconds, outputPath)
}

func (r *Renderer) strategyFailed(strategy Strategy, err error) {
	r.logger.Warn("render strategy failed",
		logging.String("strategy", string(strategy)),
		logging.Error(err),
	)
}

// writeManifest emits the concat demuxer's file list. Single quotes inside
// paths are closed, escaped, and reopened per the demuxer's quoting rules.
func writeManifest(path string, clips []string) error {
	var b strings.Builder
	for _, clip := range clips {
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(clip, `'`, `'\''`))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}
	return nil
}

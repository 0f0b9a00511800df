package sceneplan

import (
	"log/slog"

	"sceneforge/internal/config"
	"sceneforge/internal/logging"
	"sceneforge/internal/services"
)

const (
	// minSceneSeconds is the absolute floor applied to every scene length.
	minSceneSeconds = 0.5
	// minViableSceneSeconds is the per-scene length below which transitions
	// are not worth keeping.
	minViableSceneSeconds = 1.0
)

// Scene assigns one image a slot on the audio timeline.
type Scene struct {
	Image    string
	Index    int
	Start    float64
	Duration float64
}

// Plan is the full scene timeline for one composition.
type Plan struct {
	Scenes             []Scene
	AudioSeconds       float64
	TransitionSeconds  float64
	TransitionsEnabled bool
}

// End returns the timeline position where the last scene finishes.
func (p *Plan) End() float64 {
	if len(p.Scenes) == 0 {
		return 0
	}
	last := p.Scenes[len(p.Scenes)-1]
	return last.Start + last.Duration
}

// Option configures the planner.
type Option func(*Planner)

// WithLogger attaches a logger for plan diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logging.NewComponentLogger(logger, "planner")
		}
	}
}

// Planner computes scene timelines from render settings.
type Planner struct {
	settings config.Render
	logger   *slog.Logger
}

// New constructs a planner for the given render settings.
func New(settings config.Render, opts ...Option) *Planner {
	p := &Planner{
		settings: settings,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build distributes audioSeconds across the images. Each image receives an
// equal share regardless of the configured scene length bounds; equal
// distribution without repetition takes priority over bound enforcement.
// Every scene is floored at 0.5s, so with many images over short audio the
// plan's End can land past audioSeconds; rendering trims the output back to
// the audio duration.
func (p *Planner) Build(images []string, audioSeconds float64) (*Plan, error) {
	if len(images) == 0 {
		return nil, services.Wrap(services.ErrValidation, "planner", "build", "no images provided", nil)
	}
	if audioSeconds <= 0 {
		return nil, services.Wrap(services.ErrValidation, "planner", "build", "audio duration must be positive", nil)
	}

	count := len(images)
	if count == 1 {
		return &Plan{
			Scenes:       []Scene{{Image: images[0], Index: 0, Duration: audioSeconds}},
			AudioSeconds: audioSeconds,
		}, nil
	}

	transition := 0.0
	enabled := p.settings.EnableTransitions && p.settings.TransitionSeconds > 0
	if enabled {
		transition = p.settings.TransitionSeconds
	}

	totalTransition := transition * float64(count-1)
	available := audioSeconds - totalTransition
	if enabled && (available <= 0 || available < float64(count)*minViableSceneSeconds) {
		p.logger.Debug("transitions disabled, timeline too short",
			logging.Float64("audio_seconds", audioSeconds),
			logging.Float64("transition_total", totalTransition),
			logging.Int("scene_count", count),
		)
		enabled = false
		transition = 0
		available = audioSeconds
	}

	uniform := available / float64(count)
	if uniform < minSceneSeconds {
		uniform = minSceneSeconds
	}
	if uniform < p.settings.MinSceneSeconds || (p.settings.MaxSceneSeconds > 0 && uniform > p.settings.MaxSceneSeconds) {
		p.logger.Debug("uniform scene length outside configured bounds",
			logging.Float64("scene_seconds", uniform),
			logging.Float64("min_seconds", p.settings.MinSceneSeconds),
			logging.Float64("max_seconds", p.settings.MaxSceneSeconds),
		)
	}

	scenes := make([]Scene, 0, count)
	start := 0.0
	for i, image := range images {
		duration := uniform
		if i == count-1 {
			duration = audioSeconds - start
			if duration < minSceneSeconds {
				duration = minSceneSeconds
			}
		}
		scenes = append(scenes, Scene{Image: image, Index: i, Start: start, Duration: duration})
		start += duration + transition
	}

	plan := &Plan{
		Scenes:             scenes,
		AudioSeconds:       audioSeconds,
		TransitionSeconds:  transition,
		TransitionsEnabled: enabled,
	}
	p.logger.Debug("scene plan built",
		logging.Int("scene_count", count),
		logging.Float64("scene_seconds", uniform),
		logging.Bool("transitions", enabled),
	)
	return plan, nil
}

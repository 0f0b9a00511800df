package sceneplan

import (
	"errors"
	"math"
	"testing"

	"sceneforge/internal/config"
	"sceneforge/internal/services"
)

func renderSettings() config.Render {
	settings := config.Default().Render
	settings.TransitionSeconds = 0.5
	settings.EnableTransitions = true
	return settings
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildDistributesEquallyWithTransitions(t *testing.T) {
	planner := New(renderSettings())

	plan, err := planner.Build([]string{"a.png", "b.png", "c.png"}, 9.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !plan.TransitionsEnabled {
		t.Fatal("expected transitions enabled")
	}
	if len(plan.Scenes) != 3 {
		t.Fatalf("unexpected scene count %d", len(plan.Scenes))
	}

	// 9.0s minus two 0.5s transitions leaves 8.0s split three ways.
	want := 8.0 / 3.0
	for i, scene := range plan.Scenes[:2] {
		if !almostEqual(scene.Duration, want) {
			t.Fatalf("scene %d duration %v, want %v", i, scene.Duration, want)
		}
	}
	if !almostEqual(plan.Scenes[1].Start, want+0.5) {
		t.Fatalf("scene 1 start %v", plan.Scenes[1].Start)
	}
	if plan.End() != 9.0 {
		t.Fatalf("last scene must end exactly on the audio, got %v", plan.End())
	}
}

func TestBuildDisablesTransitionsWhenTimelineTooShort(t *testing.T) {
	planner := New(renderSettings())

	// Five scenes of 0.5s transitions leave 2.0s for 5 images, below the
	// one second per scene threshold.
	plan, err := planner.Build([]string{"a", "b", "c", "d", "e"}, 4.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if plan.TransitionsEnabled {
		t.Fatal("expected transitions disabled")
	}
	if plan.TransitionSeconds != 0 {
		t.Fatalf("transition seconds %v", plan.TransitionSeconds)
	}
	for i, scene := range plan.Scenes {
		if i < len(plan.Scenes)-1 && !almostEqual(scene.Duration, 0.8) {
			t.Fatalf("scene %d duration %v, want 0.8", i, scene.Duration)
		}
	}
	if plan.End() != 4.0 {
		t.Fatalf("plan end %v", plan.End())
	}
}

func TestBuildDisablesTransitionsWhenTheyConsumeAudio(t *testing.T) {
	planner := New(renderSettings())

	plan, err := planner.Build([]string{"a", "b", "c"}, 0.9)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if plan.TransitionsEnabled {
		t.Fatal("expected transitions disabled")
	}
}

func TestBuildFloorsVeryShortScenes(t *testing.T) {
	planner := New(renderSettings())

	images := make([]string, 10)
	for i := range images {
		images[i] = "img"
	}
	plan, err := planner.Build(images, 3.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i, scene := range plan.Scenes {
		if scene.Duration < 0.5 {
			t.Fatalf("scene %d below floor: %v", i, scene.Duration)
		}
	}
}

func TestBuildFloorCanOverrunShortAudio(t *testing.T) {
	planner := New(renderSettings())

	// Five floored scenes need 2.5s but only 2.0s of audio exists. The plan
	// deliberately runs long; rendering trims back to the audio duration.
	plan, err := planner.Build([]string{"a", "b", "c", "d", "e"}, 2.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if plan.TransitionsEnabled {
		t.Fatal("expected transitions disabled")
	}
	for i, scene := range plan.Scenes {
		if !almostEqual(scene.Duration, 0.5) {
			t.Fatalf("scene %d duration %v, want 0.5", i, scene.Duration)
		}
		if !almostEqual(scene.Start, 0.5*float64(i)) {
			t.Fatalf("scene %d start %v", i, scene.Start)
		}
	}
	if !almostEqual(plan.End(), 2.5) {
		t.Fatalf("plan end %v, want 2.5", plan.End())
	}
	if plan.AudioSeconds != 2.0 {
		t.Fatalf("audio seconds %v", plan.AudioSeconds)
	}
}

func TestBuildSingleImageBypassesDistribution(t *testing.T) {
	planner := New(renderSettings())

	plan, err := planner.Build([]string{"only.png"}, 42.5)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(plan.Scenes) != 1 {
		t.Fatalf("unexpected scene count %d", len(plan.Scenes))
	}
	if plan.Scenes[0].Duration != 42.5 || plan.Scenes[0].Start != 0 {
		t.Fatalf("unexpected single scene %+v", plan.Scenes[0])
	}
	if plan.TransitionsEnabled {
		t.Fatal("single scene has no transitions")
	}
}

func TestBuildIgnoresSceneBounds(t *testing.T) {
	settings := renderSettings()
	settings.MinSceneSeconds = 5.0
	settings.MaxSceneSeconds = 6.0
	planner := New(settings)

	// Equal distribution wins over the configured bounds.
	plan, err := planner.Build([]string{"a", "b", "c", "d"}, 8.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if plan.Scenes[0].Duration >= 5.0 {
		t.Fatalf("bounds must not stretch scenes, got %v", plan.Scenes[0].Duration)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	planner := New(renderSettings())

	if _, err := planner.Build(nil, 10.0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := planner.Build([]string{"a"}, 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sceneforge/internal/config"
	"sceneforge/internal/media/ffmpeg"
	"sceneforge/internal/sceneplan"
	"sceneforge/internal/services"
	"sceneforge/internal/workspace"
)

type fakeCompositor struct {
	crossfadeErr error
	stillErr     error
	concatErr    error
	singleErr    error

	crossfadeCalls int
	stillCalls     int
	concatCalls    int
	singleCalls    int

	lastScenes     []ffmpeg.SceneInput
	lastTransition float64
	lastManifest   string
}

func (f *fakeCompositor) Crossfade(_ context.Context, scenes []ffmpeg.SceneInput, transition float64, _ string, _ float64, _ string) error {
	f.crossfadeCalls++
	f.lastScenes = scenes
	f.lastTransition = transition
	return f.crossfadeErr
}

func (f *fakeCompositor) RenderStillClip(_ context.Context, _ string, _ float64, outputPath string) error {
	f.stillCalls++
	if f.stillErr != nil {
		return f.stillErr
	}
	return os.WriteFile(outputPath, []byte("clip"), 0o644)
}

func (f *fakeCompositor) ConcatWithAudio(_ context.Context, manifestPath, _ string, _ float64, _ string) error {
	f.concatCalls++
	f.lastManifest = manifestPath
	return f.concatErr
}

func (f *fakeCompositor) ComposeSingle(_ context.Context, _, _ string, _ float64, _ string) error {
	f.singleCalls++
	return f.singleErr
}

func newScope(t *testing.T) *workspace.Scope {
	t.Helper()
	m, err := workspace.New(t.TempDir())
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	scope, err := m.NewScope("render")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	t.Cleanup(func() { _ = scope.Close() })
	return scope
}

func threeScenePlan(t *testing.T) *sceneplan.Plan {
	t.Helper()
	settings := config.Default().Render
	plan, err := sceneplan.New(settings).Build([]string{"a.png", "b.png", "c.png"}, 9.0)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return plan
}

func TestRenderPrefersCrossfade(t *testing.T) {
	compositor := &fakeCompositor{}
	renderer := New(compositor)

	result, err := renderer.Render(context.Background(), threeScenePlan(t), "voice.mp3", newScope(t), "out.mp4")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Strategy != StrategyCrossfade {
		t.Fatalf("unexpected strategy %q", result.Strategy)
	}
	if compositor.crossfadeCalls != 1 || compositor.concatCalls != 0 {
		t.Fatalf("unexpected call mix: %+v", compositor)
	}
	if len(compositor.lastScenes) != 3 || compositor.lastTransition != 0.5 {
		t.Fatalf("unexpected crossfade inputs: %v / %v", compositor.lastScenes, compositor.lastTransition)
	}
}

func TestRenderFallsBackToConcat(t *testing.T) {
	compositor := &fakeCompositor{crossfadeErr: errors.New("filter graph failed")}
	renderer := New(compositor)
	scope := newScope(t)

	result, err := renderer.Render(context.Background(), threeScenePlan(t), "voice.mp3", scope, "out.mp4")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Strategy != StrategyConcat {
		t.Fatalf("unexpected strategy %q", result.Strategy)
	}
	if compositor.stillCalls != 3 {
		t.Fatalf("expected one clip per scene, got %d", compositor.stillCalls)
	}

	manifest, err := os.ReadFile(compositor.lastManifest)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(manifest)), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected manifest: %s", manifest)
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "file '") || !strings.HasSuffix(line, "'") {
			t.Fatalf("manifest line %d malformed: %s", i, line)
		}
		if !strings.Contains(line, filepath.Join(scope.Path(), "clip_")) {
			t.Fatalf("manifest line %d points outside the scope: %s", i, line)
		}
	}
}

func TestRenderFallsBackToSingleScene(t *testing.T) {
	compositor := &fakeCompositor{
		crossfadeErr: errors.New("filter graph failed"),
		concatErr:    errors.New("demuxer failed"),
	}
	renderer := New(compositor)

	result, err := renderer.Render(context.Background(), threeScenePlan(t), "voice.mp3", newScope(t), "out.mp4")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Strategy != StrategySingleScene {
		t.Fatalf("unexpected strategy %q", result.Strategy)
	}
	if compositor.singleCalls != 1 {
		t.Fatalf("unexpected single calls %d", compositor.singleCalls)
	}
}

func TestRenderSkipsCrossfadeWhenTransitionsDisabled(t *testing.T) {
	settings := config.Default().Render
	settings.EnableTransitions = false
	plan, err := sceneplan.New(settings).Build([]string{"a.png", "b.png"}, 10.0)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	compositor := &fakeCompositor{}
	result, err := New(compositor).Render(context.Background(), plan, "voice.mp3", newScope(t), "out.mp4")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Strategy != StrategyConcat {
		t.Fatalf("unexpected strategy %q", result.Strategy)
	}
	if compositor.crossfadeCalls != 0 {
		t.Fatal("crossfade must not run with transitions disabled")
	}
}

func TestRenderSingleScenePlanGoesStraightToSingle(t *testing.T) {
	settings := config.Default().Render
	plan, err := sceneplan.New(settings).Build([]string{"only.png"}, 20.0)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	compositor := &fakeCompositor{}
	result, err := New(compositor).Render(context.Background(), plan, "voice.mp3", nil, "out.mp4")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Strategy != StrategySingleScene {
		t.Fatalf("unexpected strategy %q", result.Strategy)
	}
	if compositor.crossfadeCalls != 0 || compositor.concatCalls != 0 {
		t.Fatalf("unexpected escalation: %+v", compositor)
	}
}

func TestRenderAllStrategiesExhausted(t *testing.T) {
	compositor := &fakeCompositor{
		crossfadeErr: errors.New("filter graph failed"),
		concatErr:    errors.New("demuxer failed"),
		singleErr:    errors.New("encoder failed"),
	}

	_, err := New(compositor).Render(context.Background(), threeScenePlan(t), "voice.mp3", newScope(t), "out.mp4")
	if !errors.Is(err, services.ErrRender) {
		t.Fatalf("expected render error, got %v", err)
	}
	if !strings.Contains(err.Error(), "video creation failed") {
		t.Fatalf("error must carry the generic failure message: %v", err)
	}
	if !strings.Contains(err.Error(), "encoder failed") {
		t.Fatalf("error must carry the last diagnostic: %v", err)
	}
}

func TestRenderRejectsEmptyPlan(t *testing.T) {
	if _, err := New(&fakeCompositor{}).Render(context.Background(), nil, "voice.mp3", nil, "out.mp4"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type recordingExecutor struct {
	binary string
	args   []string
	output string
	err    error
}

func (r *recordingExecutor) Run(_ context.Context, binary string, args []string) (string, error) {
	r.binary = binary
	r.args = append([]string(nil), args...)
	return r.output, r.err
}

func testSettings() Settings {
	return Settings{
		Width:          1080,
		Height:         1920,
		FPS:            30,
		VideoCodec:     "libx264",
		AudioCodec:     "aac",
		AudioBitrate:   "192k",
		PixelFormat:    "yuv420p",
		Tune:           "stillimage",
		TransitionName: "fade",
	}
}

func newTestTranscoder(t *testing.T, exec Executor) *Transcoder {
	t.Helper()
	tc, err := New("ffmpeg", testSettings(), WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tc
}

func argsContain(args []string, sequence ...string) bool {
	for i := 0; i+len(sequence) <= len(args); i++ {
		match := true
		for j, want := range sequence {
			if args[i+j] != want {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestNewRequiresBinaryAndResolution(t *testing.T) {
	if _, err := New("", testSettings()); err == nil {
		t.Fatal("expected error for missing binary")
	}
	bad := testSettings()
	bad.Width = 0
	if _, err := New("ffmpeg", bad); err == nil {
		t.Fatal("expected error for invalid resolution")
	}
}

func TestRenderStillClipArgs(t *testing.T) {
	exec := &recordingExecutor{}
	tc := newTestTranscoder(t, exec)

	if err := tc.RenderStillClip(context.Background(), "scene.png", 2.5, "clip.mp4"); err != nil {
		t.Fatalf("RenderStillClip: %v", err)
	}
	if exec.binary != "ffmpeg" {
		t.Fatalf("unexpected binary %q", exec.binary)
	}
	if !argsContain(exec.args, "-loop", "1", "-t", "2.500", "-i", "scene.png") {
		t.Fatalf("missing loop/duration/input args: %v", exec.args)
	}
	if !argsContain(exec.args, "-tune", "stillimage") || !argsContain(exec.args, "-an") {
		t.Fatalf("missing still-image args: %v", exec.args)
	}
	joined := strings.Join(exec.args, " ")
	if !strings.Contains(joined, "scale=1080:1920:force_original_aspect_ratio=decrease") {
		t.Fatalf("missing canonical scale filter: %v", joined)
	}
}

func TestConcatWithAudioTrimsAndRegeneratesTimestamps(t *testing.T) {
	exec := &recordingExecutor{}
	tc := newTestTranscoder(t, exec)

	if err := tc.ConcatWithAudio(context.Background(), "list.txt", "voice.wav", 9.0, "out.mp4"); err != nil {
		t.Fatalf("ConcatWithAudio: %v", err)
	}
	if !argsContain(exec.args, "-fflags", "+genpts") {
		t.Fatalf("expected timestamp regeneration: %v", exec.args)
	}
	if !argsContain(exec.args, "-f", "concat", "-safe", "0", "-i", "list.txt") {
		t.Fatalf("missing concat demuxer args: %v", exec.args)
	}
	if !argsContain(exec.args, "-c:v", "copy") {
		t.Fatalf("clips must be joined by reference, not re-encoded: %v", exec.args)
	}
	if !argsContain(exec.args, "-t", "9.000") {
		t.Fatalf("output must be trimmed to the audio duration: %v", exec.args)
	}
}

func TestCrossfadeBuildsSequentialChain(t *testing.T) {
	exec := &recordingExecutor{}
	tc := newTestTranscoder(t, exec)

	scenes := []SceneInput{
		{Path: "a.png", Seconds: 2.667},
		{Path: "b.png", Seconds: 2.667},
		{Path: "c.png", Seconds: 2.667},
	}
	if err := tc.Crossfade(context.Background(), scenes, 0.5, "voice.wav", 9.0, "out.mp4"); err != nil {
		t.Fatalf("Crossfade: %v", err)
	}

	// Each image is loaded for its scene window plus the transition budget.
	if !argsContain(exec.args, "-loop", "1", "-t", "3.167", "-i", "a.png") {
		t.Fatalf("missing padded scene input: %v", exec.args)
	}

	var filter string
	for i, arg := range exec.args {
		if arg == "-filter_complex" && i+1 < len(exec.args) {
			filter = exec.args[i+1]
		}
	}
	if filter == "" {
		t.Fatalf("missing filter_complex: %v", exec.args)
	}
	if !strings.Contains(filter, "[v0][v1]xfade=transition=fade:duration=0.500:offset=2.667[x1]") {
		t.Fatalf("first fade offset should equal the first scene duration: %s", filter)
	}
	if !strings.Contains(filter, "[x1][v2]xfade=transition=fade:duration=0.500:offset=5.334[x2]") {
		t.Fatalf("second fade offset should accumulate prior durations: %s", filter)
	}
	if !argsContain(exec.args, "-map", "[x2]", "-map", "3:a") {
		t.Fatalf("final composite and audio stream must be mapped: %v", exec.args)
	}
	if !argsContain(exec.args, "-t", "9.000") {
		t.Fatalf("output must end at the audio duration: %v", exec.args)
	}
}

func TestCrossfadeRequiresTwoScenes(t *testing.T) {
	tc := newTestTranscoder(t, &recordingExecutor{})
	err := tc.Crossfade(context.Background(), []SceneInput{{Path: "a.png", Seconds: 5}}, 0.5, "voice.wav", 5, "out.mp4")
	if err == nil {
		t.Fatal("expected error for single scene")
	}
}

func TestComposeSingleSpansAudio(t *testing.T) {
	exec := &recordingExecutor{}
	tc := newTestTranscoder(t, exec)

	if err := tc.ComposeSingle(context.Background(), "only.png", "voice.wav", 31.2, "out.mp4"); err != nil {
		t.Fatalf("ComposeSingle: %v", err)
	}
	if !argsContain(exec.args, "-t", "31.200") {
		t.Fatalf("single scene must span the audio duration: %v", exec.args)
	}
}

func TestBurnCaptionsEscapesFilterPath(t *testing.T) {
	exec := &recordingExecutor{}
	tc := newTestTranscoder(t, exec)

	if err := tc.BurnCaptions(context.Background(), "in.mp4", "/tmp/subs:v1.srt", "FontSize=16", "out.mp4"); err != nil {
		t.Fatalf("BurnCaptions: %v", err)
	}
	joined := strings.Join(exec.args, " ")
	if !strings.Contains(joined, `subtitles='/tmp/subs\:v1.srt':force_style='FontSize=16'`) {
		t.Fatalf("unexpected subtitles filter: %v", joined)
	}
	if !argsContain(exec.args, "-c:a", "copy") {
		t.Fatalf("audio must be copied untouched: %v", exec.args)
	}
}

func TestInvocationErrorsCarryDiagnosticTail(t *testing.T) {
	exec := &recordingExecutor{output: "frame=1\nConversion failed!", err: errors.New("exit status 1")}
	tc := newTestTranscoder(t, exec)

	err := tc.ComposeSingle(context.Background(), "a.png", "voice.wav", 5, "out.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Conversion failed!") {
		t.Fatalf("expected diagnostic tail in error, got %v", err)
	}
}

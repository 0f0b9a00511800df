package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sceneforge/internal/logging"
)

// Settings carries the canonical output parameters every rendered artifact
// shares: resolution, frame rate, and codec pairing.
type Settings struct {
	Width          int
	Height         int
	FPS            int
	VideoCodec     string
	AudioCodec     string
	AudioBitrate   string
	PixelFormat    string
	Tune           string
	TransitionName string
}

// SceneInput pairs an image path with the seconds it should stay on screen.
type SceneInput struct {
	Path    string
	Seconds float64
}

// Option configures the transcoder.
type Option func(*Transcoder)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(t *Transcoder) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// WithTimeout bounds each tool invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Transcoder) {
		t.timeout = timeout
	}
}

// WithLogger attaches a logger for invocation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logging.NewComponentLogger(logger, "ffmpeg")
		}
	}
}

// Transcoder wraps ffmpeg CLI interactions.
type Transcoder struct {
	binary   string
	settings Settings
	timeout  time.Duration
	exec     Executor
	logger   *slog.Logger
}

// New constructs a transcoder for the given binary and output settings.
func New(binary string, settings Settings, opts ...Option) (*Transcoder, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	if settings.Width <= 0 || settings.Height <= 0 {
		return nil, fmt.Errorf("invalid canonical resolution %dx%d", settings.Width, settings.Height)
	}
	t := &Transcoder{
		binary:   binary,
		settings: settings,
		exec:     commandExecutor{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// ScanInfo invokes the tool in info-only mode and returns its diagnostic
// output. The invocation exits nonzero by design (no output file is given),
// so the output is returned alongside the error and callers decide whether
// the text was usable.
func (t *Transcoder) ScanInfo(ctx context.Context, path string) (string, error) {
	return t.run(ctx, "scan_info", []string{"-hide_banner", "-i", path})
}

// ScanDecode fully decodes the input to the null muxer and returns the
// diagnostic output, whose trailing progress markers carry the true duration
// even for assets with malformed headers.
func (t *Transcoder) ScanDecode(ctx context.Context, path string) (string, error) {
	return t.run(ctx, "scan_decode", []string{"-hide_banner", "-i", path, "-f", "null", "-"})
}

// RenderStillClip renders a single image into a fixed-duration video clip at
// the canonical resolution, with no audio track.
func (t *Transcoder) RenderStillClip(ctx context.Context, imagePath string, seconds float64, outputPath string) error {
	args := []string{
		"-loop", "1",
		"-t", formatSeconds(seconds),
		"-i", imagePath,
		"-vf", t.scaleFilter(),
		"-r", fmt.Sprintf("%d", t.settings.FPS),
		"-c:v", t.settings.VideoCodec,
		"-tune", t.settings.Tune,
		"-pix_fmt", t.settings.PixelFormat,
		"-an",
		"-y", outputPath,
	}
	output, err := t.run(ctx, "render_still", args)
	if err != nil {
		return invocationError("render still clip", output, err)
	}
	return nil
}

// ConcatWithAudio joins pre-rendered clips by reference through a concat
// manifest, muxes the audio track in, and trims the result to exactly the
// requested duration. Timestamps are regenerated so the concat step cannot
// introduce drift.
func (t *Transcoder) ConcatWithAudio(ctx context.Context, manifestPath, audioPath string, seconds float64, outputPath string) error {
	args := []string{
		"-fflags", "+genpts",
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", t.settings.AudioCodec,
		"-b:a", t.settings.AudioBitrate,
		"-t", formatSeconds(seconds),
		"-y", outputPath,
	}
	output, err := t.run(ctx, "concat", args)
	if err != nil {
		return invocationError("concat clips", output, err)
	}
	return nil
}

// Crossfade composites the scenes through a sequential xfade chain with
// cumulative offsets, maps the final composite plus the audio stream, and
// trims the output to exactly the requested duration. At least two scenes are
// required.
func (t *Transcoder) Crossfade(ctx context.Context, scenes []SceneInput, transitionSeconds float64, audioPath string, seconds float64, outputPath string) error {
	if len(scenes) < 2 {
		return errors.New("crossfade requires at least two scenes")
	}

	args := make([]string, 0, len(scenes)*5+24)
	for _, scene := range scenes {
		args = append(args,
			"-loop", "1",
			"-t", formatSeconds(scene.Seconds+transitionSeconds),
			"-i", scene.Path,
		)
	}
	args = append(args, "-i", audioPath)

	audioIndex := len(scenes)
	args = append(args,
		"-filter_complex", t.crossfadeFilter(scenes, transitionSeconds),
		"-map", fmt.Sprintf("[x%d]", len(scenes)-1),
		"-map", fmt.Sprintf("%d:a", audioIndex),
		"-c:v", t.settings.VideoCodec,
		"-tune", t.settings.Tune,
		"-c:a", t.settings.AudioCodec,
		"-b:a", t.settings.AudioBitrate,
		"-pix_fmt", t.settings.PixelFormat,
		"-t", formatSeconds(seconds),
		"-y", outputPath,
	)
	output, err := t.run(ctx, "crossfade", args)
	if err != nil {
		return invocationError("crossfade composite", output, err)
	}
	return nil
}

// ComposeSingle renders one image across the full audio duration. This is
// both the single-image path and the renderer's last-resort fallback.
func (t *Transcoder) ComposeSingle(ctx context.Context, imagePath, audioPath string, seconds float64, outputPath string) error {
	args := []string{
		"-loop", "1",
		"-i", imagePath,
		"-i", audioPath,
		"-vf", t.scaleFilter(),
		"-r", fmt.Sprintf("%d", t.settings.FPS),
		"-c:v", t.settings.VideoCodec,
		"-tune", t.settings.Tune,
		"-c:a", t.settings.AudioCodec,
		"-b:a", t.settings.AudioBitrate,
		"-pix_fmt", t.settings.PixelFormat,
		"-t", formatSeconds(seconds),
		"-y", outputPath,
	}
	output, err := t.run(ctx, "compose_single", args)
	if err != nil {
		return invocationError("compose single scene", output, err)
	}
	return nil
}

// BurnCaptions renders subtitles into the video stream with the provided
// force_style string, copying the audio track untouched.
func (t *Transcoder) BurnCaptions(ctx context.Context, videoPath, subtitlePath, forceStyle, outputPath string) error {
	filter := fmt.Sprintf("subtitles='%s'", escapeFilterPath(subtitlePath))
	if strings.TrimSpace(forceStyle) != "" {
		filter = fmt.Sprintf("subtitles='%s':force_style='%s'", escapeFilterPath(subtitlePath), forceStyle)
	}
	args := []string{
		"-i", videoPath,
		"-vf", filter,
		"-c:a", "copy",
		"-y", outputPath,
	}
	output, err := t.run(ctx, "burn_captions", args)
	if err != nil {
		return invocationError("burn captions", output, err)
	}
	return nil
}

func (t *Transcoder) run(ctx context.Context, operation string, args []string) (string, error) {
	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	started := time.Now()
	output, err := t.exec.Run(runCtx, t.binary, args)
	elapsed := time.Since(started)
	if err != nil {
		t.logger.Debug("invocation failed",
			logging.String("operation", operation),
			logging.Duration("elapsed", elapsed),
			logging.Error(err),
		)
		return output, err
	}
	t.logger.Debug("invocation finished",
		logging.String("operation", operation),
		logging.Duration("elapsed", elapsed),
	)
	return output, nil
}

func (t *Transcoder) scaleFilter() string {
	w, h := t.settings.Width, t.settings.Height
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1", w, h, w, h)
}

func (t *Transcoder) crossfadeFilter(scenes []SceneInput, transitionSeconds float64) string {
	var b strings.Builder
	for i := range scenes {
		fmt.Fprintf(&b, "[%d:v]%s,fps=%d[v%d];", i, t.scaleFilter(), t.settings.FPS, i)
	}

	transition := t.settings.TransitionName
	if transition == "" {
		transition = "fade"
	}

	// Offsets accumulate each prior scene's duration so every fade begins
	// exactly where the previous scene's window ends.
	offset := 0.0
	previous := "[v0]"
	for i := 1; i < len(scenes); i++ {
		offset += scenes[i-1].Seconds
		label := fmt.Sprintf("[x%d]", i)
		fmt.Fprintf(&b, "%s[v%d]xfade=transition=%s:duration=%s:offset=%s%s",
			previous, i, transition, formatSeconds(transitionSeconds), formatSeconds(offset), label)
		if i != len(scenes)-1 {
			b.WriteByte(';')
		}
		previous = label
	}
	return b.String()
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}

func escapeFilterPath(path string) string {
	// The subtitles filter treats ':' and '\' as syntax inside quoted paths.
	replacer := strings.NewReplacer(`\`, `/`, `:`, `\:`)
	return replacer.Replace(path)
}

func invocationError(operation, output string, err error) error {
	tail := diagnosticTail(output)
	if tail == "" {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return fmt.Errorf("%s: %w: %s", operation, err, tail)
}

func diagnosticTail(output string) string {
	trimmed := strings.TrimSpace(output)
	if len(trimmed) <= 400 {
		return trimmed
	}
	return "..." + trimmed[len(trimmed)-400:]
}

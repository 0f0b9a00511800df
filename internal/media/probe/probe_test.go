package probe

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"sceneforge/internal/media/ffprobe"
	"sceneforge/internal/testsupport"
)

type fakeScanner struct {
	infoOutput   string
	infoErr      error
	decodeOutput string
	decodeErr    error
}

func (f *fakeScanner) ScanInfo(context.Context, string) (string, error) {
	return f.infoOutput, f.infoErr
}

func (f *fakeScanner) ScanDecode(context.Context, string) (string, error) {
	return f.decodeOutput, f.decodeErr
}

func failingInspector(context.Context, string, string) (ffprobe.Result, error) {
	return ffprobe.Result{}, errors.New("ffprobe missing")
}

func TestProbeUsesFormatMetadataFirst(t *testing.T) {
	p := New("ffprobe", &fakeScanner{}, Config{}, WithInspector(
		func(context.Context, string, string) (ffprobe.Result, error) {
			return ffprobe.Result{Format: ffprobe.Format{Duration: "12.34"}}, nil
		},
	))

	result := p.Probe(context.Background(), "voice.mp3")
	if result.Tier != TierFormatMetadata {
		t.Fatalf("unexpected tier %q", result.Tier)
	}
	if result.Seconds != 12.34 {
		t.Fatalf("unexpected seconds %v", result.Seconds)
	}
}

func TestProbeFallsThroughToInfoScan(t *testing.T) {
	scanner := &fakeScanner{
		// ffmpeg -i exits nonzero without an output file; the text still counts.
		infoOutput: "Input #0, mp3, from 'voice.mp3':\n  Duration: 00:01:30.50, start: 0.0, bitrate: 128 kb/s",
		infoErr:    errors.New("exit status 1"),
	}
	p := New("ffprobe", scanner, Config{}, WithInspector(failingInspector))

	result := p.Probe(context.Background(), "voice.mp3")
	if result.Tier != TierInfoScan {
		t.Fatalf("unexpected tier %q", result.Tier)
	}
	if result.Seconds != 90.5 {
		t.Fatalf("unexpected seconds %v", result.Seconds)
	}
}

func TestProbeDecodeScanTakesLastProgressMarker(t *testing.T) {
	scanner := &fakeScanner{
		infoOutput: "no duration here",
		decodeOutput: "size=N/A time=00:00:10.00 bitrate=N/A\n" +
			"size=N/A time=00:00:20.00 bitrate=N/A\n" +
			"size=N/A time=00:00:27.75 bitrate=N/A speed=30x",
	}
	p := New("ffprobe", scanner, Config{}, WithInspector(failingInspector))

	result := p.Probe(context.Background(), "voice.mp3")
	if result.Tier != TierDecodeScan {
		t.Fatalf("unexpected tier %q", result.Tier)
	}
	if result.Seconds != 27.75 {
		t.Fatalf("unexpected seconds %v", result.Seconds)
	}
}

func TestProbeSizeEstimateClampsToBounds(t *testing.T) {
	dir := t.TempDir()

	// 320000 bytes at 128 kbps is 20 seconds, inside the clamp window.
	mid := filepath.Join(dir, "mid.mp3")
	testsupport.WriteFile(t, mid, 320000)

	// A tiny positive file clamps up to the lower bound.
	tiny := filepath.Join(dir, "tiny.mp3")
	testsupport.WriteFile(t, tiny, 16)

	scanner := &fakeScanner{infoOutput: "garbage", decodeOutput: "garbage"}
	p := New("ffprobe", scanner, Config{}, WithInspector(failingInspector))

	result := p.Probe(context.Background(), mid)
	if result.Tier != TierSizeEstimate {
		t.Fatalf("unexpected tier %q", result.Tier)
	}
	if result.Seconds != 20.0 {
		t.Fatalf("unexpected estimate %v", result.Seconds)
	}

	result = p.Probe(context.Background(), tiny)
	if result.Tier != TierSizeEstimate || result.Seconds != 10.0 {
		t.Fatalf("expected lower clamp, got %v via %q", result.Seconds, result.Tier)
	}
}

func TestProbeNonexistentFileReturnsFallbackDefault(t *testing.T) {
	scanner := &fakeScanner{infoErr: errors.New("no such file"), decodeErr: errors.New("no such file")}
	p := New("ffprobe", scanner, Config{}, WithInspector(failingInspector))

	result := p.Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if result.Tier != TierFallbackDefault {
		t.Fatalf("unexpected tier %q", result.Tier)
	}
	if result.Seconds != 30.0 {
		t.Fatalf("fallback must be exactly 30.0, got %v", result.Seconds)
	}
}

func TestProbeZeroByteFileSkipsSizeEstimate(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.mp3")
	testsupport.WriteEmptyFile(t, empty)

	scanner := &fakeScanner{infoOutput: "garbage", decodeOutput: "garbage"}
	p := New("ffprobe", scanner, Config{}, WithInspector(failingInspector))

	result := p.Probe(context.Background(), empty)
	if result.Tier != TierFallbackDefault {
		t.Fatalf("zero-byte file must reach the fallback tier, got %q", result.Tier)
	}
}

func TestProbeNeverReturnsNonPositive(t *testing.T) {
	p := New("", nil, Config{}, WithInspector(failingInspector))
	result := p.Probe(context.Background(), "/definitely/not/here.wav")
	if result.Seconds <= 0 {
		t.Fatalf("probe must always be positive, got %v", result.Seconds)
	}
}

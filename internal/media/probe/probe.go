package probe

import (
	"context"
	"log/slog"
	"math"
	"os"
	"regexp"
	"strconv"
	"time"

	"sceneforge/internal/logging"
	"sceneforge/internal/media/ffprobe"
)

// Tier identifies the detection strategy that produced a duration.
type Tier string

const (
	// TierFormatMetadata is the structured ffprobe container query.
	TierFormatMetadata Tier = "format_metadata"
	// TierInfoScan parses "Duration: HH:MM:SS.cc" from an info-only invocation.
	TierInfoScan Tier = "info_scan"
	// TierDecodeScan parses the last "time=HH:MM:SS.cc" progress marker from a
	// full decode.
	TierDecodeScan Tier = "decode_scan"
	// TierSizeEstimate derives a duration from file size at an assumed bitrate.
	TierSizeEstimate Tier = "size_estimate"
	// TierFallbackDefault is the configured constant used when everything else
	// failed.
	TierFallbackDefault Tier = "fallback_default"
)

// Result carries the probed duration and the tier that produced it.
type Result struct {
	Seconds float64
	Tier    Tier
}

// Scanner provides the diagnostic-stream invocations tiers two and three
// parse. *ffmpeg.Transcoder satisfies it.
type Scanner interface {
	ScanInfo(ctx context.Context, path string) (string, error)
	ScanDecode(ctx context.Context, path string) (string, error)
}

// Config carries the probing knobs; see internal/config for defaults.
type Config struct {
	Timeout             time.Duration
	FallbackSeconds     float64
	EstimateBitrateKbps int
	EstimateMinSeconds  float64
	EstimateMaxSeconds  float64
}

type inspectFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Option configures the prober.
type Option func(*Prober)

// WithInspector overrides the structured metadata query (primarily for tests).
func WithInspector(inspect inspectFunc) Option {
	return func(p *Prober) {
		if inspect != nil {
			p.inspect = inspect
		}
	}
}

// WithLogger attaches a logger for tier diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		if logger != nil {
			p.logger = logging.NewComponentLogger(logger, "probe")
		}
	}
}

// Prober resolves audio durations through the tier cascade.
type Prober struct {
	ffprobeBinary string
	scanner       Scanner
	cfg           Config
	inspect       inspectFunc
	logger        *slog.Logger
}

// New constructs a prober. The scanner may be nil, in which case the
// diagnostic-stream tiers are skipped.
func New(ffprobeBinary string, scanner Scanner, cfg Config, opts ...Option) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FallbackSeconds <= 0 {
		cfg.FallbackSeconds = 30.0
	}
	if cfg.EstimateBitrateKbps <= 0 {
		cfg.EstimateBitrateKbps = 128
	}
	if cfg.EstimateMinSeconds <= 0 {
		cfg.EstimateMinSeconds = 10.0
	}
	if cfg.EstimateMaxSeconds <= cfg.EstimateMinSeconds {
		cfg.EstimateMaxSeconds = 300.0
	}
	p := &Prober{
		ffprobeBinary: ffprobeBinary,
		scanner:       scanner,
		cfg:           cfg,
		inspect:       ffprobe.Inspect,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	infoDurationPattern = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+(?:\.\d+)?)`)
	progressTimePattern = regexp.MustCompile(`time=(\d+):(\d+):(\d+(?:\.\d+)?)`)
)

// Probe resolves the duration of the asset at path. It always returns a
// positive number; detection failures degrade through the tiers instead of
// surfacing.
func (p *Prober) Probe(ctx context.Context, path string) Result {
	if seconds, ok := p.formatMetadata(ctx, path); ok {
		return p.resolved(path, seconds, TierFormatMetadata)
	}
	if seconds, ok := p.infoScan(ctx, path); ok {
		return p.resolved(path, seconds, TierInfoScan)
	}
	if seconds, ok := p.decodeScan(ctx, path); ok {
		return p.resolved(path, seconds, TierDecodeScan)
	}
	if seconds, ok := p.sizeEstimate(path); ok {
		return p.resolved(path, seconds, TierSizeEstimate)
	}
	return p.resolved(path, p.cfg.FallbackSeconds, TierFallbackDefault)
}

func (p *Prober) formatMetadata(ctx context.Context, path string) (float64, bool) {
	tierCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	result, err := p.inspect(tierCtx, p.ffprobeBinary, path)
	if err != nil {
		p.tierFailed(TierFormatMetadata, path, err)
		return 0, false
	}
	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || seconds <= 0 {
		p.tierFailed(TierFormatMetadata, path, nil)
		return 0, false
	}
	return seconds, true
}

func (p *Prober) infoScan(ctx context.Context, path string) (float64, bool) {
	if p.scanner == nil {
		return 0, false
	}
	tierCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	// Info-only mode exits nonzero by design; the diagnostic text decides.
	output, err := p.scanner.ScanInfo(tierCtx, path)
	match := infoDurationPattern.FindStringSubmatch(output)
	if match == nil {
		p.tierFailed(TierInfoScan, path, err)
		return 0, false
	}
	seconds := clockToSeconds(match[1], match[2], match[3])
	if seconds <= 0 {
		p.tierFailed(TierInfoScan, path, nil)
		return 0, false
	}
	return seconds, true
}

func (p *Prober) decodeScan(ctx context.Context, path string) (float64, bool) {
	if p.scanner == nil {
		return 0, false
	}
	tierCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	output, err := p.scanner.ScanDecode(tierCtx, path)
	matches := progressTimePattern.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		p.tierFailed(TierDecodeScan, path, err)
		return 0, false
	}
	// The last progress marker survives malformed headers that break the
	// cheaper tiers.
	last := matches[len(matches)-1]
	seconds := clockToSeconds(last[1], last[2], last[3])
	if seconds <= 0 {
		p.tierFailed(TierDecodeScan, path, nil)
		return 0, false
	}
	return seconds, true
}

func (p *Prober) sizeEstimate(path string) (float64, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() <= 0 {
		p.tierFailed(TierSizeEstimate, path, err)
		return 0, false
	}
	bitsPerSecond := float64(p.cfg.EstimateBitrateKbps) * 1000
	seconds := float64(info.Size()) * 8 / bitsPerSecond
	if seconds < p.cfg.EstimateMinSeconds {
		seconds = p.cfg.EstimateMinSeconds
	}
	if seconds > p.cfg.EstimateMaxSeconds {
		seconds = p.cfg.EstimateMaxSeconds
	}
	return seconds, true
}

func (p *Prober) resolved(path string, seconds float64, tier Tier) Result {
	p.logger.Debug("duration resolved",
		logging.String("path", path),
		logging.Float64("seconds", seconds),
		logging.String("tier", string(tier)),
	)
	return Result{Seconds: seconds, Tier: tier}
}

func (p *Prober) tierFailed(tier Tier, path string, err error) {
	attrs := []logging.Attr{
		logging.String("tier", string(tier)),
		logging.String("path", path),
	}
	if err != nil {
		attrs = append(attrs, logging.Error(err))
	}
	p.logger.Debug("probe tier failed", attrsToArgs(attrs)...)
}

func attrsToArgs(attrs []logging.Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

func clockToSeconds(hours, minutes, seconds string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.ParseFloat(seconds, 64)
	return float64(h)*3600 + float64(m)*60 + s
}

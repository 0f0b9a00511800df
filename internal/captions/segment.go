package captions

import (
	"sort"

	"sceneforge/internal/config"
)

// Segment is one caption with its timeline window. Index is the 1-based SRT
// sequence number.
type Segment struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Correct reconciles caption timing with the true audio duration. Segments
// are first normalized into start order (a stable sort, so well-formed SRT
// input keeps its original sequence). Segments whose combined span overruns
// the audio by more than the configured scale factor are compressed
// uniformly; after that, only end times move: short segments are extended to
// the minimum length, ends are pulled back to keep the minimum gap before
// the next start, and everything is clamped to the audio. Segments left with
// no positive window are dropped. Running Correct on its own output changes
// nothing.
func Correct(segments []Segment, audioSeconds float64, cfg config.Captions) []Segment {
	if len(segments) == 0 || audioSeconds <= 0 {
		return nil
	}

	minLength := cfg.MinSegmentSeconds
	if minLength <= 0 {
		minLength = 0.5
	}
	minGap := cfg.MinGapSeconds
	if minGap < 0 {
		minGap = 0.1
	}
	overrunScale := cfg.OverrunScale
	if overrunScale <= 1 {
		overrunScale = 1.1
	}

	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	lastEnd := ordered[len(ordered)-1].End
	if lastEnd > audioSeconds*overrunScale {
		factor := audioSeconds / lastEnd
		for i := range ordered {
			ordered[i].Start *= factor
			ordered[i].End *= factor
		}
	}

	corrected := make([]Segment, 0, len(ordered))
	for i := range ordered {
		segment := ordered[i]
		if segment.End < segment.Start+minLength {
			segment.End = segment.Start + minLength
		}
		if i < len(ordered)-1 {
			limit := ordered[i+1].Start - minGap
			if segment.End > limit {
				segment.End = limit
			}
		}
		if segment.End > audioSeconds {
			segment.End = audioSeconds
		}
		if segment.Start >= segment.End {
			continue
		}
		corrected = append(corrected, segment)
	}

	for i := range corrected {
		corrected[i].Index = i + 1
	}
	return corrected
}

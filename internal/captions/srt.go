package captions

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"sceneforge/internal/services"
)

var wordPattern = regexp.MustCompile(`\S+`)

// Generate estimates caption timing for script text that has no transcript.
// The audio duration is spread evenly across the words, grouped into segments
// of wordsPerSegment. Text is normalized to NFC so composed and decomposed
// input produce identical captions.
func Generate(text string, audioSeconds float64, wordsPerSegment int) []Segment {
	if audioSeconds <= 0 {
		return nil
	}
	if wordsPerSegment <= 0 {
		wordsPerSegment = 8
	}

	words := wordPattern.FindAllString(norm.NFC.String(text), -1)
	if len(words) == 0 {
		return nil
	}

	perWord := audioSeconds / float64(len(words))
	segments := make([]Segment, 0, (len(words)+wordsPerSegment-1)/wordsPerSegment)
	for i := 0; i < len(words); i += wordsPerSegment {
		group := words[i:min(i+wordsPerSegment, len(words))]
		end := float64(i+len(group)) * perWord
		if end > audioSeconds {
			end = audioSeconds
		}
		segments = append(segments, Segment{
			Index: len(segments) + 1,
			Start: float64(i) * perWord,
			End:   end,
			Text:  strings.Join(group, " "),
		})
	}
	return segments
}

// WriteSRT renders segments as SRT stanzas: sequence number, timestamp range,
// text, blank line.
func WriteSRT(w io.Writer, segments []Segment) error {
	for i, segment := range segments {
		index := segment.Index
		if index <= 0 {
			index = i + 1
		}
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			index, formatTimestamp(segment.Start), formatTimestamp(segment.End), segment.Text)
		if err != nil {
			return fmt.Errorf("write srt stanza %d: %w", index, err)
		}
	}
	return nil
}

// FormatSRT renders segments as a single SRT document.
func FormatSRT(segments []Segment) string {
	var b strings.Builder
	_ = WriteSRT(&b, segments)
	return b.String()
}

// ParseSRT reads SRT stanzas into segments. Stanzas with fewer than three
// lines are skipped; malformed timestamps are an error.
func ParseSRT(r io.Reader) ([]Segment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var segments []Segment
	var block []string
	flush := func() error {
		defer func() { block = block[:0] }()
		if len(block) < 3 {
			return nil
		}
		index, err := strconv.Atoi(strings.TrimSpace(block[0]))
		if err != nil {
			return services.Wrap(services.ErrValidation, "captions", "parse_srt",
				fmt.Sprintf("bad sequence number %q", block[0]), nil)
		}
		start, end, err := parseTimestampLine(block[1])
		if err != nil {
			return err
		}
		segments = append(segments, Segment{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(block[2:], "\n"),
		})
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return segments, nil
}

func parseTimestampLine(line string) (float64, float64, error) {
	parts := strings.Split(line, " --> ")
	if len(parts) != 2 {
		return 0, 0, services.Wrap(services.ErrValidation, "captions", "parse_srt",
			fmt.Sprintf("bad timestamp line %q", line), nil)
	}
	start, err := parseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

var timestampPattern = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2}),(\d{3})$`)

func parseTimestamp(value string) (float64, error) {
	match := timestampPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, services.Wrap(services.ErrValidation, "captions", "parse_srt",
			fmt.Sprintf("bad timestamp %q", value), nil)
	}
	h, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	s, _ := strconv.Atoi(match[3])
	ms, _ := strconv.Atoi(match[4])
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000, nil
}

func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	ms := int((seconds - float64(total)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", total/3600, (total%3600)/60, total%60, ms)
}

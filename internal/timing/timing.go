package timing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// WordTiming describes when one spoken word is audible. On the estimation
// path the Word field holds a whole sentence instead; downstream components
// expand such entries before per-word scheduling.
type WordTiming struct {
	Word    string `json:"word"`
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
}

// StartSeconds returns the start offset in seconds.
func (w WordTiming) StartSeconds() float64 {
	return float64(w.StartMS) / 1000.0
}

// EndSeconds returns the end offset in seconds.
func (w WordTiming) EndSeconds() float64 {
	return float64(w.EndMS) / 1000.0
}

// ErrInvalidTiming reports malformed or non-monotonic speech timing input.
// It is the one fatal error of the engine: captions cannot be produced
// without valid timing.
var ErrInvalidTiming = errors.New("invalid word timing")

// Normalize validates real per-word timing from the speech synthesizer and
// passes it through unchanged. Gaps between words are fine (silence), but
// starts must be non-decreasing and every word must have a positive span.
func Normalize(words []WordTiming) ([]WordTiming, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrInvalidTiming)
	}

	var prevStart int64 = -1
	for i, w := range words {
		if w.StartMS < 0 {
			return nil, fmt.Errorf("%w: word %d %q starts at %dms", ErrInvalidTiming, i, w.Word, w.StartMS)
		}
		if w.EndMS <= w.StartMS {
			return nil, fmt.Errorf("%w: word %d %q ends at %dms, before its start %dms", ErrInvalidTiming, i, w.Word, w.EndMS, w.StartMS)
		}
		if w.StartMS < prevStart {
			return nil, fmt.Errorf("%w: word %d %q starts before word %d", ErrInvalidTiming, i, w.Word, i-1)
		}
		prevStart = w.StartMS
	}

	return words, nil
}

var sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)

// EstimateFromText builds sentence-level timing when only the total audio
// duration is known. The duration is split across sentences proportionally
// to their character length; the final sentence is pinned to totalMS exactly
// so integer rounding never drifts the overall span. If no sentences parse,
// one entry spans the whole duration.
func EstimateFromText(text string, totalMS int64) []WordTiming {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return []WordTiming{{Word: strings.TrimSpace(text), StartMS: 0, EndMS: totalMS}}
	}

	totalChars := 0
	for _, s := range sentences {
		totalChars += len(s)
	}

	entries := make([]WordTiming, 0, len(sentences))
	var current int64
	for _, s := range sentences {
		duration := int64(float64(len(s)) / float64(totalChars) * float64(totalMS))
		entries = append(entries, WordTiming{
			Word:    s,
			StartMS: current,
			EndMS:   current + duration,
		})
		current += duration
	}

	entries[len(entries)-1].EndMS = totalMS
	return entries
}

// splitSentences cuts narration on terminal punctuation followed by
// whitespace. The punctuation itself is consumed by the split.
func splitSentences(text string) []string {
	var sentences []string
	for _, part := range sentenceEnd.Split(text, -1) {
		if s := strings.TrimSpace(part); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

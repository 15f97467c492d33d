package captions

import (
	"strings"

	"github.com/nguyentantai21042004/rendersync/internal/timing"
)

// Word is one spoken word with its display timing in seconds.
type Word struct {
	Text   string  `json:"text"`
	StartS float64 `json:"start_s"`
	EndS   float64 `json:"end_s"`
}

// Segment is one caption display unit: a short phrase with a single time
// span. Lines carries the wrapped display text (at most MaxLines lines, the
// last one ellipsized when cut off); Words keeps every word of the phrase,
// including words the display truncation hides, so highlight scheduling
// still covers the full narration.
type Segment struct {
	Text    string   `json:"text"`
	StartMS int64    `json:"start_ms"`
	EndMS   int64    `json:"end_ms"`
	Lines   []string `json:"lines"`
	Words   []Word   `json:"words"`
}

// Segmenter groups word timing entries into caption phrases.
type Segmenter struct {
	GroupSize int // words per caption phrase
	MaxLines  int // display lines before truncation
	LineWidth int // wrap width in characters
}

// NewSegmenter creates a Segmenter, filling in defaults for zero values.
func NewSegmenter(groupSize, maxLines, lineWidth int) *Segmenter {
	if groupSize <= 0 {
		groupSize = 5
	}
	if maxLines <= 0 {
		maxLines = 2
	}
	if lineWidth <= 0 {
		lineWidth = 32
	}
	return &Segmenter{GroupSize: groupSize, MaxLines: maxLines, LineWidth: lineWidth}
}

// Segment converts timing entries into caption segments. Entries holding
// multiple words (sentence-level estimates) are expanded into per-word
// entries first, distributing the entry's duration proportionally to each
// word's character length. Zero words in means zero segments out.
func (s *Segmenter) Segment(entries []timing.WordTiming) []Segment {
	words := expandWords(entries)
	if len(words) == 0 {
		return nil
	}

	var segments []Segment
	var buf []Word
	for _, w := range words {
		buf = append(buf, w)
		if len(buf) >= s.GroupSize {
			segments = append(segments, s.flush(buf))
			buf = nil
		}
	}
	if len(buf) > 0 {
		segments = append(segments, s.flush(buf))
	}

	return segments
}

// flush turns the buffered words into a segment bounded by the first word's
// start and the last word's end.
func (s *Segmenter) flush(buf []Word) Segment {
	texts := make([]string, len(buf))
	for i, w := range buf {
		texts[i] = w.Text
	}

	return Segment{
		Text:    strings.Join(texts, " "),
		StartMS: int64(buf[0].StartS * 1000),
		EndMS:   int64(buf[len(buf)-1].EndS * 1000),
		Lines:   wrapLines(texts, s.LineWidth, s.MaxLines),
		Words:   append([]Word(nil), buf...),
	}
}

// expandWords flattens timing entries into individual words. A multi-word
// entry's span is distributed proportionally to character length, with no
// per-word rounding correction.
func expandWords(entries []timing.WordTiming) []Word {
	var words []Word
	for _, e := range entries {
		fields := strings.Fields(e.Word)
		if len(fields) == 0 {
			continue
		}

		start := e.StartSeconds()
		end := e.EndSeconds()
		if len(fields) == 1 {
			words = append(words, Word{Text: fields[0], StartS: start, EndS: end})
			continue
		}

		totalChars := 0
		for _, f := range fields {
			totalChars += len(f)
		}
		current := start
		for _, f := range fields {
			duration := (end - start) * float64(len(f)) / float64(totalChars)
			words = append(words, Word{Text: f, StartS: current, EndS: current + duration})
			current += duration
		}
	}
	return words
}

// wrapLines word-wraps greedily to width characters and keeps at most
// maxLines lines, appending an ellipsis to the last kept line when display
// text was cut off. A single word longer than the width gets its own line.
func wrapLines(words []string, width, maxLines int) []string {
	var lines []string
	var current []string
	length := 0

	for _, w := range words {
		add := len(w)
		if len(current) > 0 {
			add++ // joining space
		}
		if length+add <= width || len(current) == 0 {
			current = append(current, w)
			length += add
		} else {
			lines = append(lines, strings.Join(current, " "))
			current = []string{w}
			length = len(w)
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := strings.TrimRight(lines[maxLines-1], " ")
		if !strings.HasSuffix(last, "...") {
			last += "..."
		}
		lines[maxLines-1] = last
	}

	return lines
}

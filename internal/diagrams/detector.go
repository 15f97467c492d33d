package diagrams

import (
	"math"
	"strings"

	"github.com/nguyentantai21042004/rendersync/internal/timing"
)

// DefaultVocabulary holds the architecture terms the narration is scanned
// for. Callers can substitute their own vocabulary through the config.
var DefaultVocabulary = []string{
	"cache", "caching", "cached",
	"api", "endpoint", "rest",
	"database", "db", "sql", "query",
	"service", "microservice",
	"server", "client",
	"layer", "architecture",
	"pipeline", "workflow",
	"queue", "message", "broker",
	"storage", "bucket",
	"authentication", "auth",
	"load balancer", "proxy",
	"container", "docker", "kubernetes",
}

// Window is a time interval during which a diagram should be on screen.
// Keywords preserves first-seen order and may contain duplicates when the
// same term triggers both a lookahead extension and its own scan hit.
type Window struct {
	StartS    float64  `json:"start_s"`
	DurationS float64  `json:"duration_s"`
	Keywords  []string `json:"keywords"`
}

// Detector scans word timing for vocabulary hits and merges nearby hits into
// diagram display windows.
type Detector struct {
	vocab        map[string]struct{}
	Lookahead    int     // words scanned past a hit for window extension
	MergeWindowS float64 // hits starting closer than this join the previous window
	MinDurationS float64 // shortest window worth showing a diagram for
	MaxWindows   int     // hard cap, bounds downstream generation cost
}

// NewDetector creates a Detector, filling in defaults for zero values. An
// empty vocabulary falls back to DefaultVocabulary.
func NewDetector(vocabulary []string, lookahead int, mergeWindowS, minDurationS float64, maxWindows int) *Detector {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	if lookahead <= 0 {
		lookahead = 5
	}
	if mergeWindowS <= 0 {
		mergeWindowS = 2.0
	}
	if minDurationS <= 0 {
		minDurationS = 3.0
	}
	if maxWindows <= 0 {
		maxWindows = 4
	}

	vocab := make(map[string]struct{}, len(vocabulary))
	for _, v := range vocabulary {
		vocab[strings.ToLower(v)] = struct{}{}
	}

	return &Detector{
		vocab:        vocab,
		Lookahead:    lookahead,
		MergeWindowS: mergeWindowS,
		MinDurationS: minDurationS,
		MaxWindows:   maxWindows,
	}
}

// Detect scans the word sequence in order. A vocabulary hit opens a window at
// that word's start; further hits within the lookahead extend the window's
// end and join its keyword list. A hit starting within MergeWindowS of the
// previous window extends that window instead of opening a new one. The
// result is capped at MaxWindows. No hits means no windows, which is a valid
// outcome, not an error.
func (d *Detector) Detect(words []timing.WordTiming) []Window {
	var windows []Window

	for i, wt := range words {
		keyword := normalizeWord(wt.Word)
		if _, ok := d.vocab[keyword]; !ok {
			continue
		}

		startS := wt.StartSeconds()
		endMS := wt.EndMS
		keywords := []string{keyword}

		limit := i + d.Lookahead
		if limit > len(words)-1 {
			limit = len(words) - 1
		}
		for j := i + 1; j <= limit; j++ {
			next := normalizeWord(words[j].Word)
			if _, ok := d.vocab[next]; ok {
				keywords = append(keywords, next)
				endMS = words[j].EndMS
			}
		}

		endS := float64(endMS) / 1000.0
		if n := len(windows); n > 0 && math.Abs(windows[n-1].StartS-startS) < d.MergeWindowS {
			prev := &windows[n-1]
			if extended := endS - prev.StartS; extended > prev.DurationS {
				prev.DurationS = extended
			}
			prev.Keywords = append(prev.Keywords, keywords...)
			continue
		}

		durationS := endS - startS
		if durationS < d.MinDurationS {
			durationS = d.MinDurationS
		}
		windows = append(windows, Window{StartS: startS, DurationS: durationS, Keywords: keywords})
	}

	if len(windows) > d.MaxWindows {
		windows = windows[:d.MaxWindows]
	}
	return windows
}

// normalizeWord lowercases and strips surrounding punctuation so "Cache,"
// and "cache" match the same vocabulary entry.
func normalizeWord(w string) string {
	return strings.Trim(strings.ToLower(w), ".,!?;:")
}

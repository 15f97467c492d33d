package captions

// Highlight is the exact on-screen display interval for one word within its
// caption, distinct from the word's spoken duration. SegmentIndex and
// WordIndex tell the renderer which word of which segment to color while the
// rest of the phrase stays neutral.
type Highlight struct {
	Word         string  `json:"word"`
	SegmentIndex int     `json:"segment_index"`
	WordIndex    int     `json:"word_index"`
	StartS       float64 `json:"start_s"`
	DurationS    float64 `json:"duration_s"`
}

// Scheduler computes gap-bridging highlight windows.
type Scheduler struct {
	TrailingHoldS float64 // hold on the final word past its spoken end
	MinDurationS  float64 // floor against zero-length windows
}

// NewScheduler creates a Scheduler, filling in defaults for zero values.
func NewScheduler(trailingHoldS, minDurationS float64) *Scheduler {
	if trailingHoldS <= 0 {
		trailingHoldS = 1.5
	}
	if minDurationS <= 0 {
		minDurationS = 0.05
	}
	return &Scheduler{TrailingHoldS: trailingHoldS, MinDurationS: minDurationS}
}

// Schedule flattens every segment's words into one global sequence and
// extends each word's display to exactly meet the next word's start, so the
// captions never go blank during silence. Bridging runs across segment
// boundaries: a word may stay visible past its segment's nominal end. The
// final word holds for TrailingHoldS past its spoken end. One highlight is
// emitted per word, in order.
func (s *Scheduler) Schedule(segments []Segment) []Highlight {
	type position struct {
		segment int
		word    int
		w       Word
	}

	var flat []position
	for si, seg := range segments {
		for wi, w := range seg.Words {
			flat = append(flat, position{segment: si, word: wi, w: w})
		}
	}

	highlights := make([]Highlight, 0, len(flat))
	for i, pos := range flat {
		var duration float64
		if i < len(flat)-1 {
			duration = flat[i+1].w.StartS - pos.w.StartS
		} else {
			duration = (pos.w.EndS - pos.w.StartS) + s.TrailingHoldS
		}
		if duration < s.MinDurationS {
			duration = s.MinDurationS
		}

		highlights = append(highlights, Highlight{
			Word:         pos.w.Text,
			SegmentIndex: pos.segment,
			WordIndex:    pos.word,
			StartS:       pos.w.StartS,
			DurationS:    duration,
		})
	}

	return highlights
}
